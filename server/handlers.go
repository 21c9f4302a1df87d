package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Manuela-30/GestionBiblioteca/catalog"
	"github.com/Manuela-30/GestionBiblioteca/version"
)

// envelope is the JSON response shape shared by all endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func ok(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Success: false, Message: message})
}

// failErr maps catalog errors to response codes: lookups that missed
// are 404, everything else is a 400-class caller problem.
func failErr(c echo.Context, err error) error {
	var bookNotFound *catalog.BookNotFoundError
	var userNotFound *catalog.UserNotFoundError
	if errors.As(err, &bookNotFound) || errors.As(err, &userNotFound) {
		return fail(c, http.StatusNotFound, err.Error())
	}
	return fail(c, http.StatusBadRequest, err.Error())
}

func limitParam(c echo.Context, fallback int) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return fallback
	}
	return limit
}

// -------------------------------------------------------------------------
// Books
// -------------------------------------------------------------------------

func bookViews(books []*catalog.Book) []catalog.BookView {
	views := make([]catalog.BookView, len(books))
	for i, b := range books {
		views[i] = b.View()
	}
	return views
}

func (s *Server) handleListBooks(c echo.Context) error {
	books := s.cat.Books()
	return ok(c, bookViews(books), fmt.Sprintf("%d books found", len(books)))
}

func (s *Server) handleSearchBooks(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return fail(c, http.StatusBadRequest, "query parameter 'q' required")
	}
	books := s.cat.SearchBooks(query)
	return ok(c, bookViews(books), fmt.Sprintf("%d books found for %q", len(books), query))
}

func (s *Server) handlePopularBooks(c echo.Context) error {
	books := s.cat.MostBorrowed(limitParam(c, 10))
	return ok(c, bookViews(books), fmt.Sprintf("top %d most borrowed books", len(books)))
}

func (s *Server) handleGetBook(c echo.Context) error {
	book, err := s.cat.Book(c.Param("isbn"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, book.View(), "book found")
}

type addBookRequest struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Copies int    `json:"copies"`
}

func (s *Server) handleAddBook(c echo.Context) error {
	var req addBookRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.ISBN == "" || req.Title == "" || req.Author == "" || req.Year == 0 {
		return fail(c, http.StatusBadRequest, "required fields: isbn, title, author, year")
	}
	if req.Copies <= 0 {
		req.Copies = 1
	}
	book, err := s.cat.AddBook(req.ISBN, req.Title, req.Author, req.Year, req.Copies)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, book.View(), "book added")
}

func (s *Server) handleDeleteBook(c echo.Context) error {
	if err := s.cat.RemoveBook(c.Param("isbn")); err != nil {
		return failErr(c, err)
	}
	return ok(c, nil, "book removed")
}

// -------------------------------------------------------------------------
// Users
// -------------------------------------------------------------------------

func userViews(users []*catalog.User) []catalog.UserView {
	views := make([]catalog.UserView, len(users))
	for i, u := range users {
		views[i] = u.View()
	}
	return views
}

func (s *Server) handleListUsers(c echo.Context) error {
	users := s.cat.Users()
	return ok(c, userViews(users), fmt.Sprintf("%d users found", len(users)))
}

func (s *Server) handleSearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return fail(c, http.StatusBadRequest, "query parameter 'q' required")
	}
	users := s.cat.SearchUsers(query)
	return ok(c, userViews(users), fmt.Sprintf("%d users found for %q", len(users), query))
}

func (s *Server) handleActiveUsers(c echo.Context) error {
	users := s.cat.MostActive(limitParam(c, 10))
	return ok(c, userViews(users), fmt.Sprintf("top %d most active users", len(users)))
}

func (s *Server) handleGetUser(c echo.Context) error {
	user, err := s.cat.User(c.Param("user_id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, user.View(), "user found")
}

type addUserRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (s *Server) handleAddUser(c echo.Context) error {
	var req addUserRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" || req.Name == "" || req.Email == "" {
		return fail(c, http.StatusBadRequest, "required fields: user_id, name, email")
	}
	user, err := s.cat.AddUser(req.UserID, req.Name, req.Email)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, user.View(), "user registered")
}

func (s *Server) handleDeleteUser(c echo.Context) error {
	if err := s.cat.RemoveUser(c.Param("user_id")); err != nil {
		return failErr(c, err)
	}
	return ok(c, nil, "user removed")
}

func (s *Server) handleUserBooks(c echo.Context) error {
	books, err := s.cat.UserBooks(c.Param("user_id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, bookViews(books), fmt.Sprintf("user has %d borrowed books", len(books)))
}

// -------------------------------------------------------------------------
// Loans
// -------------------------------------------------------------------------

func (s *Server) handleListLoans(c echo.Context) error {
	loans := s.cat.ActiveLoans()
	return ok(c, loans, fmt.Sprintf("%d active loans", len(loans)))
}

type borrowRequest struct {
	UserID string `json:"user_id"`
	ISBN   string `json:"isbn"`
}

func (s *Server) handleBorrow(c echo.Context) error {
	var req borrowRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" || req.ISBN == "" {
		return fail(c, http.StatusBadRequest, "required fields: user_id, isbn")
	}
	loan, err := s.cat.Borrow(req.UserID, req.ISBN)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, loan, "book borrowed")
}

func (s *Server) handleReturn(c echo.Context) error {
	if err := s.cat.Return(c.Param("user_id"), c.Param("isbn")); err != nil {
		return failErr(c, err)
	}
	return ok(c, nil, "book returned")
}

// -------------------------------------------------------------------------
// Stats, history, notifications, health
// -------------------------------------------------------------------------

func (s *Server) handleStats(c echo.Context) error {
	return ok(c, s.cat.Stats(), "catalog statistics")
}

func (s *Server) handleHistory(c echo.Context) error {
	history := s.cat.History(limitParam(c, 20))
	return ok(c, history, fmt.Sprintf("last %d operations", len(history)))
}

func (s *Server) handleNotifications(c echo.Context) error {
	msgs := s.cat.Notifications()
	return ok(c, msgs, fmt.Sprintf("%d notifications", len(msgs)))
}

func (s *Server) handleHealth(c echo.Context) error {
	stats := s.cat.Stats()
	return ok(c, map[string]any{
		"status":       "healthy",
		"version":      version.String(),
		"books_count":  stats.TotalBooks,
		"users_count":  stats.TotalUsers,
		"active_loans": stats.BorrowedCopies,
	}, "system healthy")
}
