package catalog

import (
	"fmt"
	"time"

	"github.com/Manuela-30/GestionBiblioteca/container"
)

// HoldRequest is a queued loan request for a book that was not
// available when the user asked for it.
type HoldRequest struct {
	ISBN        string    `json:"isbn"`
	RequestedAt time.Time `json:"requested_at"`
}

// User is a registered library member. Borrowed ISBNs live in a linked
// list; hold requests are served FIFO from a queue.
type User struct {
	ID           string
	Name         string
	Email        string
	RegisteredAt time.Time

	borrowed *container.List[string]
	holds    *container.Queue[HoldRequest]
}

// NewUser registers a member with no loans.
func NewUser(id, name, email string) *User {
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		RegisteredAt: time.Now(),
		borrowed:     container.NewList[string](),
		holds:        container.NewQueue[HoldRequest](),
	}
}

// BorrowBook records isbn as borrowed. A duplicate borrow is ignored.
func (u *User) BorrowBook(isbn string) {
	if !u.HasBook(isbn) {
		u.borrowed.Append(isbn)
	}
}

// ReturnBook removes isbn from the borrowed list. Returns false when
// the user does not hold it.
func (u *User) ReturnBook(isbn string) bool {
	return u.borrowed.Remove(isbn, func(s string) any { return s })
}

// HasBook reports whether the user currently holds isbn.
func (u *User) HasBook(isbn string) bool {
	_, ok := u.borrowed.Find(isbn, func(s string) any { return s })
	return ok
}

// BorrowedISBNs returns the ISBNs the user currently holds.
func (u *User) BorrowedISBNs() []string { return u.borrowed.ToSlice() }

// BorrowedCount returns the number of books the user currently holds.
func (u *User) BorrowedCount() int { return u.borrowed.Len() }

// AddHold queues a loan request for isbn.
func (u *User) AddHold(isbn string) {
	u.holds.Enqueue(HoldRequest{ISBN: isbn, RequestedAt: time.Now()})
}

// NextHold dequeues the oldest pending request. Returns false if none
// is pending.
func (u *User) NextHold() (HoldRequest, bool) {
	return u.holds.Dequeue()
}

// PendingHolds returns the queued requests oldest first.
func (u *User) PendingHolds() []HoldRequest { return u.holds.ToSlice() }

// UserView is the JSON shape of a user.
type UserView struct {
	ID            string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	RegisteredAt  time.Time `json:"registered_at"`
	BorrowedBooks []string  `json:"borrowed_books"`
}

// View returns a serializable snapshot of the user.
func (u *User) View() UserView {
	return UserView{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		RegisteredAt:  u.RegisteredAt,
		BorrowedBooks: u.BorrowedISBNs(),
	}
}

func (u *User) String() string {
	return fmt.Sprintf("%s (ID: %s) - %d books borrowed", u.Name, u.ID, u.BorrowedCount())
}
