package catalog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Manuela-30/GestionBiblioteca/container"
	"github.com/Manuela-30/GestionBiblioteca/deepsize"
	"github.com/Manuela-30/GestionBiblioteca/storage"
)

// Loan is a system-wide active loan record.
type Loan struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ISBN      string    `json:"isbn"`
	UserName  string    `json:"user_name"`
	BookTitle string    `json:"book_title"`
	LoanedAt  time.Time `json:"loaned_at"`
}

// Operation is one entry in the system operation history.
type Operation struct {
	Action string    `json:"action"`
	ISBN   string    `json:"isbn,omitempty"`
	UserID string    `json:"user_id,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Stats summarizes the catalog state.
type Stats struct {
	TotalBooks      int     `json:"total_books"`
	TotalCopies     int     `json:"total_copies"`
	AvailableCopies int     `json:"available_copies"`
	BorrowedCopies  int     `json:"borrowed_copies"`
	TotalUsers      int     `json:"total_users"`
	ActiveUsers     int     `json:"active_users"`
	UtilizationRate float64 `json:"utilization_rate"`
	MemoryBytes     int64   `json:"memory_bytes"`
}

// Catalog is the in-memory library store: one multi-field index over
// books, one over users, plus the operation history (LIFO), the
// notification log (FIFO) and the active-loan array.
//
// A single RWMutex guards the whole store. Index fan-out is not atomic
// across trees, so mutations must never run concurrently; reads may
// share the lock.
type Catalog struct {
	mu            sync.RWMutex
	books         *storage.IndexTree
	users         *storage.IndexTree
	history       *container.Stack[Operation]
	notifications *container.Queue[string]
	activeLoans   *container.Array[Loan]
}

// Index field names for books and users.
const (
	FieldISBN       = "isbn"
	FieldTitle      = "title"
	FieldAuthor     = "author"
	FieldPopularity = "popularity"

	FieldUserID   = "id"
	FieldUserName = "name"
	FieldActivity = "activity"
)

// New creates an empty catalog with all indexes registered.
func New() *Catalog {
	books := storage.NewIndexTree(storage.CompareValues)
	books.CreateIndex(FieldISBN)
	books.CreateIndex(FieldTitle)
	books.CreateIndex(FieldAuthor)
	books.CreateIndex(FieldPopularity)

	users := storage.NewIndexTree(storage.CompareValues)
	users.CreateIndex(FieldUserID)
	users.CreateIndex(FieldUserName)
	users.CreateIndex(FieldActivity)

	return &Catalog{
		books:         books,
		users:         users,
		history:       container.NewStack[Operation](),
		notifications: container.NewQueue[string](),
		activeLoans:   container.NewArray[Loan](),
	}
}

// bookExtractors derives the index keys for a book. Title and author
// keys are lowercased so prefix search is case-insensitive; the
// popularity key embeds the borrow count ahead of the ISBN so an
// ascending traversal yields a stable ranking.
func bookExtractors() map[string]storage.Extractor {
	return map[string]storage.Extractor{
		FieldISBN:   func(r any) any { return r.(*Book).ISBN },
		FieldTitle:  func(r any) any { return strings.ToLower(r.(*Book).Title) },
		FieldAuthor: func(r any) any { return strings.ToLower(r.(*Book).Author) },
		FieldPopularity: func(r any) any {
			b := r.(*Book)
			return fmt.Sprintf("%06d|%s", b.TimesBorrowed(), b.ISBN)
		},
	}
}

func userExtractors() map[string]storage.Extractor {
	return map[string]storage.Extractor{
		FieldUserID:   func(r any) any { return r.(*User).ID },
		FieldUserName: func(r any) any { return strings.ToLower(r.(*User).Name) },
		FieldActivity: func(r any) any {
			u := r.(*User)
			return fmt.Sprintf("%06d|%s", u.BorrowedCount(), u.ID)
		},
	}
}

// -------------------------------------------------------------------------
// Books
// -------------------------------------------------------------------------

// AddBook adds a new book, or adds copies to an existing ISBN.
func (c *Catalog) AddBook(isbn, title, author string, year, copies int) (*Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.books.SearchByField(FieldISBN, isbn).(*Book); ok {
		// Copy counts are not index keys, so no re-keying is needed.
		existing.TotalCopies += copies
		existing.AvailableCopies += copies
		c.logOperation(Operation{Action: "add_copies", ISBN: isbn, At: time.Now()})
		c.notify(fmt.Sprintf("added %d copies of %q", copies, existing.Title))
		return existing, nil
	}

	book := NewBook(isbn, title, author, year, copies)
	c.books.Insert(book, bookExtractors())
	c.logOperation(Operation{Action: "add_book", ISBN: isbn, Detail: title, At: time.Now()})
	c.notify(fmt.Sprintf("book added: %s", title))
	operationsTotal.WithLabelValues("add_book").Inc()
	booksGauge.Set(float64(c.books.Len(FieldISBN)))
	return book, nil
}

// RemoveBook deletes a book. Fails when copies are still on loan.
func (c *Catalog) RemoveBook(isbn string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, ok := c.books.SearchByField(FieldISBN, isbn).(*Book)
	if !ok {
		return &BookNotFoundError{ISBN: isbn}
	}
	if book.AvailableCopies != book.TotalCopies {
		return &CopiesOutError{ISBN: isbn}
	}

	c.books.Delete(book, bookExtractors())
	c.logOperation(Operation{Action: "remove_book", ISBN: isbn, Detail: book.Title, At: time.Now()})
	c.notify(fmt.Sprintf("book removed: %s", book.Title))
	operationsTotal.WithLabelValues("remove_book").Inc()
	booksGauge.Set(float64(c.books.Len(FieldISBN)))
	return nil
}

// Book returns the book with the given ISBN.
func (c *Catalog) Book(isbn string) (*Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	book, ok := c.books.SearchByField(FieldISBN, isbn).(*Book)
	if !ok {
		return nil, &BookNotFoundError{ISBN: isbn}
	}
	return book, nil
}

// Books returns all books in ascending ISBN order.
func (c *Catalog) Books() []*Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return asBooks(c.books.GetAllByField(FieldISBN))
}

// SearchBooks returns the books whose ISBN, title or author starts
// with query. Title and author matching is case-insensitive. Results
// are deduplicated by ISBN.
func (c *Catalog) SearchBooks(query string) []*Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lower := strings.ToLower(query)
	var result []*Book
	seen := make(map[string]bool)
	for _, match := range c.books.SearchPrefixByField(FieldISBN, query) {
		result = appendBook(result, seen, match)
	}
	for _, match := range c.books.SearchPrefixByField(FieldTitle, lower) {
		result = appendBook(result, seen, match)
	}
	for _, match := range c.books.SearchPrefixByField(FieldAuthor, lower) {
		result = appendBook(result, seen, match)
	}
	return result
}

// MostBorrowed returns up to limit books, most borrowed first. Ties
// are broken by ISBN.
func (c *Catalog) MostBorrowed(limit int) []*Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ranked := asBooks(c.books.GetAllByField(FieldPopularity))
	reverse(ranked)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// -------------------------------------------------------------------------
// Users
// -------------------------------------------------------------------------

// AddUser registers a new member.
func (c *Catalog) AddUser(id, name, email string) (*User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.users.SearchByField(FieldUserID, id).(*User); ok {
		return nil, &UserExistsError{UserID: id}
	}

	user := NewUser(id, name, email)
	c.users.Insert(user, userExtractors())
	c.logOperation(Operation{Action: "add_user", UserID: id, Detail: name, At: time.Now()})
	c.notify(fmt.Sprintf("user registered: %s", name))
	operationsTotal.WithLabelValues("add_user").Inc()
	usersGauge.Set(float64(c.users.Len(FieldUserID)))
	return user, nil
}

// RemoveUser deletes a member. Fails while books are still borrowed.
func (c *Catalog) RemoveUser(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users.SearchByField(FieldUserID, id).(*User)
	if !ok {
		return &UserNotFoundError{UserID: id}
	}
	if user.BorrowedCount() > 0 {
		return &HasLoansError{UserID: id}
	}

	c.users.Delete(user, userExtractors())
	c.logOperation(Operation{Action: "remove_user", UserID: id, Detail: user.Name, At: time.Now()})
	c.notify(fmt.Sprintf("user removed: %s", user.Name))
	operationsTotal.WithLabelValues("remove_user").Inc()
	usersGauge.Set(float64(c.users.Len(FieldUserID)))
	return nil
}

// User returns the member with the given ID.
func (c *Catalog) User(id string) (*User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	user, ok := c.users.SearchByField(FieldUserID, id).(*User)
	if !ok {
		return nil, &UserNotFoundError{UserID: id}
	}
	return user, nil
}

// Users returns all members in ascending ID order.
func (c *Catalog) Users() []*User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return asUsers(c.users.GetAllByField(FieldUserID))
}

// SearchUsers returns the members whose ID or name starts with query.
func (c *Catalog) SearchUsers(query string) []*User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []*User
	seen := make(map[string]bool)
	for _, match := range c.users.SearchPrefixByField(FieldUserID, query) {
		result = appendUser(result, seen, match)
	}
	for _, match := range c.users.SearchPrefixByField(FieldUserName, strings.ToLower(query)) {
		result = appendUser(result, seen, match)
	}
	return result
}

// MostActive returns up to limit members, most borrowed-books first.
func (c *Catalog) MostActive(limit int) []*User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ranked := asUsers(c.users.GetAllByField(FieldActivity))
	reverse(ranked)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// -------------------------------------------------------------------------
// Loans
// -------------------------------------------------------------------------

// Borrow lends a copy of isbn to userID. The popularity and activity
// indexes are keyed on mutable counters, so both records are removed
// from their indexes under the old keys, mutated, and re-inserted.
func (c *Catalog) Borrow(userID, isbn string) (*Loan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users.SearchByField(FieldUserID, userID).(*User)
	if !ok {
		return nil, &UserNotFoundError{UserID: userID}
	}
	book, ok := c.books.SearchByField(FieldISBN, isbn).(*Book)
	if !ok {
		return nil, &BookNotFoundError{ISBN: isbn}
	}
	if !book.Available() {
		return nil, &NoCopiesError{ISBN: isbn}
	}
	if user.HasBook(isbn) {
		return nil, &AlreadyBorrowedError{UserID: userID, ISBN: isbn}
	}

	c.books.Delete(book, bookExtractors())
	c.users.Delete(user, userExtractors())
	book.Borrow(userID)
	user.BorrowBook(isbn)
	c.books.Insert(book, bookExtractors())
	c.users.Insert(user, userExtractors())

	loan := Loan{
		ID:        uuid.NewString(),
		UserID:    userID,
		ISBN:      isbn,
		UserName:  user.Name,
		BookTitle: book.Title,
		LoanedAt:  time.Now(),
	}
	c.activeLoans.Append(loan)
	c.logOperation(Operation{Action: "borrow", ISBN: isbn, UserID: userID, At: time.Now()})
	c.notify(fmt.Sprintf("loan: %s -> %s", book.Title, user.Name))
	operationsTotal.WithLabelValues("borrow").Inc()
	loansGauge.Set(float64(c.activeLoans.Len()))
	return &loan, nil
}

// Return takes back a copy of isbn from userID.
func (c *Catalog) Return(userID, isbn string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users.SearchByField(FieldUserID, userID).(*User)
	if !ok {
		return &UserNotFoundError{UserID: userID}
	}
	book, ok := c.books.SearchByField(FieldISBN, isbn).(*Book)
	if !ok {
		return &BookNotFoundError{ISBN: isbn}
	}
	if !user.HasBook(isbn) {
		return &NotBorrowedError{UserID: userID, ISBN: isbn}
	}

	c.books.Delete(book, bookExtractors())
	c.users.Delete(user, userExtractors())
	book.Return(userID)
	user.ReturnBook(isbn)
	c.books.Insert(book, bookExtractors())
	c.users.Insert(user, userExtractors())

	for i := 0; i < c.activeLoans.Len(); i++ {
		loan, err := c.activeLoans.Get(i)
		if err != nil {
			break
		}
		if loan.UserID == userID && loan.ISBN == isbn {
			c.activeLoans.RemoveAt(i)
			break
		}
	}
	c.logOperation(Operation{Action: "return", ISBN: isbn, UserID: userID, At: time.Now()})
	c.notify(fmt.Sprintf("return: %s <- %s", book.Title, user.Name))
	operationsTotal.WithLabelValues("return").Inc()
	loansGauge.Set(float64(c.activeLoans.Len()))
	return nil
}

// UserBooks returns the books currently borrowed by userID.
func (c *Catalog) UserBooks(userID string) ([]*Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	user, ok := c.users.SearchByField(FieldUserID, userID).(*User)
	if !ok {
		return nil, &UserNotFoundError{UserID: userID}
	}
	var books []*Book
	for _, isbn := range user.BorrowedISBNs() {
		if book, ok := c.books.SearchByField(FieldISBN, isbn).(*Book); ok {
			books = append(books, book)
		}
	}
	return books, nil
}

// ActiveLoans returns all open loans in loan order.
func (c *Catalog) ActiveLoans() []Loan {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.activeLoans.ToSlice()
}

// -------------------------------------------------------------------------
// History, notifications, stats
// -------------------------------------------------------------------------

// History returns up to limit operations, most recent first.
func (c *Catalog) History(limit int) []Operation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ops := c.history.ToSlice()
	if limit > 0 && len(ops) > limit {
		ops = ops[:limit]
	}
	return ops
}

// Notifications drains and returns the pending notifications, oldest
// first.
func (c *Catalog) Notifications() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var msgs []string
	for {
		msg, ok := c.notifications.Dequeue()
		if !ok {
			break
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// Stats returns catalog-wide totals.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s Stats
	for _, book := range asBooks(c.books.GetAllByField(FieldISBN)) {
		s.TotalBooks++
		s.TotalCopies += book.TotalCopies
		s.AvailableCopies += book.AvailableCopies
	}
	s.BorrowedCopies = s.TotalCopies - s.AvailableCopies
	for _, user := range asUsers(c.users.GetAllByField(FieldUserID)) {
		s.TotalUsers++
		if user.BorrowedCount() > 0 {
			s.ActiveUsers++
		}
	}
	if s.TotalCopies > 0 {
		s.UtilizationRate = float64(s.BorrowedCopies) / float64(s.TotalCopies) * 100
	}
	s.MemoryBytes = deepsize.Of(c.books) + deepsize.Of(c.users) +
		deepsize.Of(c.history) + deepsize.Of(c.notifications) +
		deepsize.Of(c.activeLoans)
	return s
}

// -------------------------------------------------------------------------
// Helpers (callers hold the lock)
// -------------------------------------------------------------------------

func (c *Catalog) logOperation(op Operation) {
	c.history.Push(op)
}

func (c *Catalog) notify(msg string) {
	c.notifications.Enqueue(msg)
}

func asBooks(records []any) []*Book {
	books := make([]*Book, 0, len(records))
	for _, r := range records {
		if b, ok := r.(*Book); ok {
			books = append(books, b)
		}
	}
	return books
}

func asUsers(records []any) []*User {
	users := make([]*User, 0, len(records))
	for _, r := range records {
		if u, ok := r.(*User); ok {
			users = append(users, u)
		}
	}
	return users
}

func appendBook(books []*Book, seen map[string]bool, record any) []*Book {
	b, ok := record.(*Book)
	if !ok || seen[b.ISBN] {
		return books
	}
	seen[b.ISBN] = true
	return append(books, b)
}

func appendUser(users []*User, seen map[string]bool, record any) []*User {
	u, ok := record.(*User)
	if !ok || seen[u.ID] {
		return users
	}
	seen[u.ID] = true
	return append(users, u)
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
