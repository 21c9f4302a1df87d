package catalog

import "fmt"

// Typed errors, mapped by the HTTP layer to response codes.

// BookNotFoundError is returned when referencing an ISBN that is not
// in the catalog.
type BookNotFoundError struct{ ISBN string }

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book %q not found", e.ISBN)
}

// UserNotFoundError is returned when referencing an unknown user ID.
type UserNotFoundError struct{ UserID string }

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", e.UserID)
}

// UserExistsError is returned when registering a user ID that is
// already taken.
type UserExistsError struct{ UserID string }

func (e *UserExistsError) Error() string {
	return fmt.Sprintf("user %q already exists", e.UserID)
}

// NoCopiesError is returned when borrowing a book with no available
// copies.
type NoCopiesError struct{ ISBN string }

func (e *NoCopiesError) Error() string {
	return fmt.Sprintf("no copies of %q available", e.ISBN)
}

// AlreadyBorrowedError is returned when a user borrows a book they
// already hold.
type AlreadyBorrowedError struct {
	UserID string
	ISBN   string
}

func (e *AlreadyBorrowedError) Error() string {
	return fmt.Sprintf("user %q already borrowed %q", e.UserID, e.ISBN)
}

// NotBorrowedError is returned when a user returns a book they do not
// hold.
type NotBorrowedError struct {
	UserID string
	ISBN   string
}

func (e *NotBorrowedError) Error() string {
	return fmt.Sprintf("user %q has not borrowed %q", e.UserID, e.ISBN)
}

// CopiesOutError is returned when removing a book that still has
// copies on loan.
type CopiesOutError struct{ ISBN string }

func (e *CopiesOutError) Error() string {
	return fmt.Sprintf("book %q has copies on loan", e.ISBN)
}

// HasLoansError is returned when removing a user who still holds
// borrowed books.
type HasLoansError struct{ UserID string }

func (e *HasLoansError) Error() string {
	return fmt.Sprintf("user %q still has borrowed books", e.UserID)
}
