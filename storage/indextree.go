package storage

// Extractor derives an index key from a record. Extractors must be
// pure: deterministic, no side effects, and consistent between the
// insert and delete calls for the same record. The index layer never
// inspects records itself; key derivation lives entirely with the
// caller.
type Extractor func(record any) any

// IndexTree maintains one BST per named field, all indexing the same
// logical record set under different derived keys.
//
// Fan-out across trees is not transactional. All keys are derived
// before any tree is mutated, so a failing extractor aborts the whole
// operation, but the structure offers no rollback once mutation has
// begun. Callers that mutate an indexed attribute of a record must
// Delete under the old keys first and re-Insert after the mutation,
// or lookups by the changed field silently miss the record.
type IndexTree struct {
	indexes map[string]*BST
	cmp     func(a, b any) int
}

// NewIndexTree creates an IndexTree whose trees order keys with cmp.
func NewIndexTree(cmp func(a, b any) int) *IndexTree {
	return &IndexTree{
		indexes: make(map[string]*BST),
		cmp:     cmp,
	}
}

// CreateIndex registers a new empty tree under fieldName. Registering
// an existing field replaces the tree and discards its contents, so
// callers must not re-register a live index.
func (it *IndexTree) CreateIndex(fieldName string) {
	it.indexes[fieldName] = NewBST(it.cmp)
}

// HasIndex reports whether fieldName is registered.
func (it *IndexTree) HasIndex(fieldName string) bool {
	_, ok := it.indexes[fieldName]
	return ok
}

// Fields returns the registered field names, in no particular order.
func (it *IndexTree) Fields() []string {
	fields := make([]string, 0, len(it.indexes))
	for name := range it.indexes {
		fields = append(fields, name)
	}
	return fields
}

// Insert stores record in every registered index named by extractors,
// keyed by the extractor's derived value. Extractor entries for
// unregistered fields are ignored. All keys are derived up front,
// before any tree is touched.
func (it *IndexTree) Insert(record any, extractors map[string]Extractor) {
	for _, d := range it.deriveKeys(record, extractors) {
		d.tree.Insert(d.key, record)
	}
}

// Delete removes record from every registered index named by
// extractors, recomputing each key via the same extractor.
func (it *IndexTree) Delete(record any, extractors map[string]Extractor) {
	for _, d := range it.deriveKeys(record, extractors) {
		d.tree.Delete(d.key)
	}
}

type derivedKey struct {
	tree *BST
	key  any
}

func (it *IndexTree) deriveKeys(record any, extractors map[string]Extractor) []derivedKey {
	derived := make([]derivedKey, 0, len(extractors))
	for fieldName, extract := range extractors {
		tree, ok := it.indexes[fieldName]
		if !ok {
			continue
		}
		derived = append(derived, derivedKey{tree: tree, key: extract(record)})
	}
	return derived
}

// SearchByField returns the record stored under key in the named
// index, or nil if the field is unregistered or the key is absent.
func (it *IndexTree) SearchByField(fieldName string, key any) any {
	tree, ok := it.indexes[fieldName]
	if !ok {
		return nil
	}
	return tree.Search(key)
}

// SearchPrefixByField returns the records whose string-form key in the
// named index starts with prefix, in ascending key order.
func (it *IndexTree) SearchPrefixByField(fieldName string, prefix string) []any {
	tree, ok := it.indexes[fieldName]
	if !ok {
		return nil
	}
	return tree.SearchPrefix(prefix)
}

// SearchRangeByField returns the records whose key in the named index
// lies in [min, max] inclusive, in ascending key order.
func (it *IndexTree) SearchRangeByField(fieldName string, min, max any) []any {
	tree, ok := it.indexes[fieldName]
	if !ok {
		return nil
	}
	return tree.SearchRange(min, max)
}

// GetAllByField returns every record in the named index in ascending
// key order. Callers encoding a sortable score into the key reverse
// the result for descending rankings.
func (it *IndexTree) GetAllByField(fieldName string) []any {
	tree, ok := it.indexes[fieldName]
	if !ok {
		return nil
	}
	return tree.InOrder()
}

// Len returns the size of the named index, or 0 if unregistered.
func (it *IndexTree) Len(fieldName string) int {
	tree, ok := it.indexes[fieldName]
	if !ok {
		return 0
	}
	return tree.Size()
}
