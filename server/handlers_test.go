package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manuela-30/GestionBiblioteca/catalog"
	"github.com/Manuela-30/GestionBiblioteca/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cat := catalog.New()
	_, err := cat.AddBook("978-0-01", "Dune", "Frank Herbert", 1965, 2)
	require.NoError(t, err)
	_, err = cat.AddBook("978-0-02", "Dune Messiah", "Frank Herbert", 1969, 1)
	require.NoError(t, err)
	_, err = cat.AddBook("978-0-03", "Emma", "Jane Austen", 1815, 1)
	require.NoError(t, err)
	_, err = cat.AddUser("U001", "Ana Garcia", "ana@example.com")
	require.NoError(t, err)
	_, err = cat.AddUser("U002", "Carlos Lopez", "carlos@example.com")
	require.NoError(t, err)

	return New(&config.Config{Port: 0}, cat)
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do routes a request through the echo mux and decodes the envelope.
func do(t *testing.T, s *Server, method, path, body string) (int, testEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

// -------------------------------------------------------------------------
// Books
// -------------------------------------------------------------------------

func TestHandleListBooks(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var books []catalog.BookView
	require.NoError(t, json.Unmarshal(env.Data, &books))
	require.Len(t, books, 3)
	// Ascending ISBN order.
	assert.Equal(t, "978-0-01", books[0].ISBN)
	assert.Equal(t, "978-0-03", books[2].ISBN)
}

func TestHandleAddBook(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodPost, "/api/books",
		`{"isbn":"978-0-04","title":"Persuasion","author":"Jane Austen","year":1817}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var book catalog.BookView
	require.NoError(t, json.Unmarshal(env.Data, &book))
	assert.Equal(t, "Persuasion", book.Title)
	// Copies omitted defaults to 1.
	assert.Equal(t, 1, book.TotalCopies)
}

func TestHandleAddBook_MissingFields(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodPost, "/api/books", `{"isbn":"978-0-04"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestHandleGetBook(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/books/978-0-01", "")
	require.Equal(t, http.StatusOK, code)

	var book catalog.BookView
	require.NoError(t, json.Unmarshal(env.Data, &book))
	assert.Equal(t, "Dune", book.Title)
}

func TestHandleGetBook_NotFound(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/books/978-9-99", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestHandleSearchBooks(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/books/search?q=du", "")
	require.Equal(t, http.StatusOK, code)

	var books []catalog.BookView
	require.NoError(t, json.Unmarshal(env.Data, &books))
	assert.Len(t, books, 2)
}

func TestHandleSearchBooks_MissingQuery(t *testing.T) {
	s := newTestServer(t)

	code, _ := do(t, s, http.MethodGet, "/api/books/search", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandlePopularBooks(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U001","isbn":"978-0-02"}`)
	require.True(t, env.Success)

	code, env := do(t, s, http.MethodGet, "/api/books/popular?limit=1", "")
	require.Equal(t, http.StatusOK, code)

	var books []catalog.BookView
	require.NoError(t, json.Unmarshal(env.Data, &books))
	require.Len(t, books, 1)
	assert.Equal(t, "978-0-02", books[0].ISBN)
}

func TestHandleDeleteBook(t *testing.T) {
	s := newTestServer(t)

	code, _ := do(t, s, http.MethodDelete, "/api/books/978-0-03", "")
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, s, http.MethodGet, "/api/books/978-0-03", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandleDeleteBook_OnLoan(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U001","isbn":"978-0-03"}`)
	require.True(t, env.Success)

	code, env := do(t, s, http.MethodDelete, "/api/books/978-0-03", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

// -------------------------------------------------------------------------
// Users
// -------------------------------------------------------------------------

func TestHandleAddUser(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodPost, "/api/users",
		`{"user_id":"U003","name":"Maria Rodriguez","email":"maria@example.com"}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	// Duplicate registration is rejected.
	code, env = do(t, s, http.MethodPost, "/api/users",
		`{"user_id":"U003","name":"Maria Rodriguez","email":"maria@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestHandleGetUser_NotFound(t *testing.T) {
	s := newTestServer(t)

	code, _ := do(t, s, http.MethodGet, "/api/users/U999", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandleSearchUsers(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/users/search?q=ana", "")
	require.Equal(t, http.StatusOK, code)

	var users []catalog.UserView
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "U001", users[0].ID)
}

func TestHandleDeleteUser_WithLoans(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U001","isbn":"978-0-01"}`)
	require.True(t, env.Success)

	code, _ := do(t, s, http.MethodDelete, "/api/users/U001", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleUserBooks(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U002","isbn":"978-0-01"}`)
	require.True(t, env.Success)

	code, env := do(t, s, http.MethodGet, "/api/users/U002/books", "")
	require.Equal(t, http.StatusOK, code)

	var books []catalog.BookView
	require.NoError(t, json.Unmarshal(env.Data, &books))
	require.Len(t, books, 1)
	assert.Equal(t, "978-0-01", books[0].ISBN)
}

// -------------------------------------------------------------------------
// Loans
// -------------------------------------------------------------------------

func TestHandleBorrowAndReturn(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U001","isbn":"978-0-02"}`)
	require.Equal(t, http.StatusOK, code)

	var loan catalog.Loan
	require.NoError(t, json.Unmarshal(env.Data, &loan))
	assert.NotEmpty(t, loan.ID)
	assert.Equal(t, "Dune Messiah", loan.BookTitle)

	// Single copy is now out.
	code, _ = do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U002","isbn":"978-0-02"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, s, http.MethodDelete, "/api/loans/U001/978-0-02", "")
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, s, http.MethodGet, "/api/loans", "")
	require.Equal(t, http.StatusOK, code)
	var loans []catalog.Loan
	require.NoError(t, json.Unmarshal(env.Data, &loans))
	assert.Empty(t, loans)
}

func TestHandleReturn_NotBorrowed(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodDelete, "/api/loans/U001/978-0-01", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestHandleBorrow_UnknownUser(t *testing.T) {
	s := newTestServer(t)

	code, _ := do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U999","isbn":"978-0-01"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

// -------------------------------------------------------------------------
// Stats, history, health
// -------------------------------------------------------------------------

func TestHandleStats(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U001","isbn":"978-0-01"}`)
	require.True(t, env.Success)

	code, env := do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, code)

	var stats catalog.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 3, stats.TotalBooks)
	assert.Equal(t, 4, stats.TotalCopies)
	assert.Equal(t, 1, stats.BorrowedCopies)
	assert.Positive(t, stats.MemoryBytes)
}

func TestHandleHistory(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/loans", `{"user_id":"U001","isbn":"978-0-01"}`)
	require.True(t, env.Success)

	code, env := do(t, s, http.MethodGet, "/api/history?limit=1", "")
	require.Equal(t, http.StatusOK, code)

	var ops []catalog.Operation
	require.NoError(t, json.Unmarshal(env.Data, &ops))
	require.Len(t, ops, 1)
	// Most recent operation first.
	assert.Equal(t, "borrow", ops[0].Action)
}

func TestHandleNotificationsDrain(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, code)
	var msgs []string
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	assert.Len(t, msgs, 5) // 3 books + 2 users from setup

	_, env = do(t, s, http.MethodGet, "/api/notifications", "")
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	assert.Empty(t, msgs)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["version"])
}
