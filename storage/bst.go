// Package storage implements the ordered-index layer of the catalog:
// an unbalanced binary search tree keyed by a pluggable comparator, and
// IndexTree, a collection of trees indexing one record set under
// different derived keys.
package storage

import (
	"fmt"
	"strings"
)

// BST is an in-memory binary search tree mapping unique keys to opaque
// payloads. Keys are ordered by the comparator supplied at construction.
//
// The tree never rebalances: operations are O(log n) on average but
// degrade to O(n) for sorted insertion sequences. This is an accepted
// limitation of the design, not an oversight.
type BST struct {
	root *treeNode
	size int
	cmp  func(a, b any) int
}

type treeNode struct {
	key   any
	data  any
	left  *treeNode
	right *treeNode
}

// NewBST creates an empty tree using the given comparator. The
// comparator must return -1, 0, or 1; keys for which it returns other
// values are not comparable and must not be inserted.
func NewBST(cmp func(a, b any) int) *BST {
	return &BST{cmp: cmp}
}

// Insert stores key→data. If key is already present the payload is
// overwritten in place and the size is unchanged.
func (t *BST) Insert(key, data any) {
	var updated bool
	t.root, updated = t.insert(t.root, key, data)
	if !updated {
		t.size++
	}
}

func (t *BST) insert(n *treeNode, key, data any) (*treeNode, bool) {
	if n == nil {
		return &treeNode{key: key, data: data}, false
	}
	var updated bool
	switch c := t.cmp(key, n.key); {
	case c < 0:
		n.left, updated = t.insert(n.left, key, data)
	case c > 0:
		n.right, updated = t.insert(n.right, key, data)
	default:
		n.data = data
		updated = true
	}
	return n, updated
}

// Search returns the payload for an exact key match, or nil if absent.
// An empty tree always answers nil.
func (t *BST) Search(key any) any {
	n := t.root
	for n != nil {
		switch c := t.cmp(key, n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.data
		}
	}
	return nil
}

// Delete removes the node with an exact key match and reports whether
// a node was removed. Size decrements only on confirmed removal.
func (t *BST) Delete(key any) bool {
	var deleted bool
	t.root, deleted = t.delete(t.root, key)
	if deleted {
		t.size--
	}
	return deleted
}

func (t *BST) delete(n *treeNode, key any) (*treeNode, bool) {
	if n == nil {
		return nil, false
	}
	var deleted bool
	switch c := t.cmp(key, n.key); {
	case c < 0:
		n.left, deleted = t.delete(n.left, key)
	case c > 0:
		n.right, deleted = t.delete(n.right, key)
	default:
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		// Two children: copy the in-order successor (leftmost node of
		// the right subtree) here, then delete it from the right side.
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		n.key = succ.key
		n.data = succ.data
		n.right, _ = t.delete(n.right, succ.key)
		return n, true
	}
	return n, deleted
}

// InOrder returns the payloads in ascending key order.
func (t *BST) InOrder() []any {
	result := make([]any, 0, t.size)
	t.inorder(t.root, &result)
	return result
}

func (t *BST) inorder(n *treeNode, result *[]any) {
	if n == nil {
		return
	}
	t.inorder(n.left, result)
	*result = append(*result, n.data)
	t.inorder(n.right, result)
}

// Keys returns the keys in ascending order.
func (t *BST) Keys() []any {
	result := make([]any, 0, t.size)
	t.keys(t.root, &result)
	return result
}

func (t *BST) keys(n *treeNode, result *[]any) {
	if n == nil {
		return
	}
	t.keys(n.left, result)
	*result = append(*result, n.key)
	t.keys(n.right, result)
}

// SearchRange returns the payloads whose key lies in [min, max]
// inclusive, in ascending key order. Subtrees that cannot contain a
// match are pruned.
func (t *BST) SearchRange(min, max any) []any {
	var result []any
	t.searchRange(t.root, min, max, &result)
	return result
}

func (t *BST) searchRange(n *treeNode, min, max any, result *[]any) {
	if n == nil {
		return
	}
	if t.cmp(min, n.key) < 0 {
		t.searchRange(n.left, min, max, result)
	}
	if t.cmp(min, n.key) <= 0 && t.cmp(max, n.key) >= 0 {
		*result = append(*result, n.data)
	}
	if t.cmp(max, n.key) > 0 {
		t.searchRange(n.right, min, max, result)
	}
}

// SearchPrefix returns the payloads whose string-form key starts with
// prefix, in ascending key order.
//
// For trees whose keys are all strings the pruning is exact: matches
// occupy the contiguous key range starting at prefix and ending at the
// first key that no longer carries it. For non-string keys the string
// form (fmt.Sprint) does not align with the tree ordering and the walk
// degrades to a full traversal.
func (t *BST) SearchPrefix(prefix string) []any {
	var result []any
	t.searchPrefix(t.root, prefix, &result)
	return result
}

func (t *BST) searchPrefix(n *treeNode, prefix string, result *[]any) {
	if n == nil {
		return
	}
	ks, isString := n.key.(string)
	if !isString {
		// Mixed or non-string keys: ordering gives no pruning signal,
		// visit both sides.
		t.searchPrefix(n.left, prefix, result)
		if strings.HasPrefix(fmt.Sprint(n.key), prefix) {
			*result = append(*result, n.data)
		}
		t.searchPrefix(n.right, prefix, result)
		return
	}
	if prefix < ks {
		t.searchPrefix(n.left, prefix, result)
	}
	if strings.HasPrefix(ks, prefix) {
		*result = append(*result, n.data)
	}
	if ks < prefix || strings.HasPrefix(ks, prefix) {
		t.searchPrefix(n.right, prefix, result)
	}
}

// Size returns the number of keys in the tree.
func (t *BST) Size() int { return t.size }

// IsEmpty reports whether the tree has no keys.
func (t *BST) IsEmpty() bool { return t.root == nil }

func (t *BST) String() string {
	if t.IsEmpty() {
		return "BST(empty)"
	}
	return fmt.Sprintf("BST(%d nodes, root: %v)", t.size, t.root.key)
}
