// Package catalog implements the library record store: books and users
// held in multi-field ordered indexes, loans, and the system-wide
// operation history and notification log.
package catalog

import (
	"fmt"
	"time"

	"github.com/Manuela-30/GestionBiblioteca/container"
)

// BookLoan is one entry in a book's loan history.
type BookLoan struct {
	UserID string    `json:"user_id"`
	Action string    `json:"action"` // "borrow" or "return"
	At     time.Time `json:"at"`
}

// Book is a catalog record. The active-loan array and the LIFO loan
// history belong to the book; the indexes treat the whole record as an
// opaque payload.
type Book struct {
	ISBN            string
	Title           string
	Author          string
	Year            int
	TotalCopies     int
	AvailableCopies int

	borrowedBy  *container.Array[BookLoan] // active loans
	loanHistory *container.Stack[BookLoan] // full history, most recent on top
	borrowCount int
}

// NewBook creates a book with the given number of copies, all available.
func NewBook(isbn, title, author string, year, copies int) *Book {
	return &Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Year:            year,
		TotalCopies:     copies,
		AvailableCopies: copies,
		borrowedBy:      container.NewArray[BookLoan](),
		loanHistory:     container.NewStack[BookLoan](),
	}
}

// Available reports whether at least one copy can be borrowed.
func (b *Book) Available() bool { return b.AvailableCopies > 0 }

// Borrow hands a copy to userID. Returns false when no copy is
// available.
func (b *Book) Borrow(userID string) bool {
	if !b.Available() {
		return false
	}
	b.AvailableCopies--
	loan := BookLoan{UserID: userID, Action: "borrow", At: time.Now()}
	b.borrowedBy.Append(loan)
	b.loanHistory.Push(loan)
	b.borrowCount++
	return true
}

// Return takes a copy back from userID. Returns false when userID does
// not hold an active loan for this book.
func (b *Book) Return(userID string) bool {
	for i := 0; i < b.borrowedBy.Len(); i++ {
		loan, err := b.borrowedBy.Get(i)
		if err != nil {
			return false
		}
		if loan.UserID == userID {
			b.AvailableCopies++
			b.borrowedBy.RemoveAt(i)
			b.loanHistory.Push(BookLoan{UserID: userID, Action: "return", At: time.Now()})
			return true
		}
	}
	return false
}

// CurrentBorrowers returns the user IDs that currently hold a copy.
func (b *Book) CurrentBorrowers() []string {
	loans := b.borrowedBy.ToSlice()
	ids := make([]string, len(loans))
	for i, l := range loans {
		ids[i] = l.UserID
	}
	return ids
}

// LoanHistory returns the loan records most recent first.
func (b *Book) LoanHistory() []BookLoan {
	return b.loanHistory.ToSlice()
}

// TimesBorrowed returns how often the book has been borrowed over its
// lifetime.
func (b *Book) TimesBorrowed() int { return b.borrowCount }

// BookView is the JSON shape of a book.
type BookView struct {
	ISBN            string   `json:"isbn"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Year            int      `json:"year"`
	TotalCopies     int      `json:"total_copies"`
	AvailableCopies int      `json:"available_copies"`
	TimesBorrowed   int      `json:"times_borrowed"`
	Borrowers       []string `json:"borrowers"`
}

// View returns a serializable snapshot of the book.
func (b *Book) View() BookView {
	return BookView{
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Year:            b.Year,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		TimesBorrowed:   b.TimesBorrowed(),
		Borrowers:       b.CurrentBorrowers(),
	}
}

func (b *Book) String() string {
	return fmt.Sprintf("%s - %s (%d) - ISBN: %s (%d/%d available)",
		b.Title, b.Author, b.Year, b.ISBN, b.AvailableCopies, b.TotalCopies)
}
