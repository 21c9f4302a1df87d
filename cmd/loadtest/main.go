// cmd/loadtest starts an in-process biblioteca server on an OS-assigned
// port and hammers the HTTP API from many goroutines, checking that the
// catalog stays consistent under concurrent load.
//
// Usage: go run ./cmd/loadtest
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Manuela-30/GestionBiblioteca/catalog"
	"github.com/Manuela-30/GestionBiblioteca/config"
	"github.com/Manuela-30/GestionBiblioteca/server"
)

func main() {
	fmt.Println("biblioteca load test")
	fmt.Println("====================")

	base, shutdown := startServer()
	defer shutdown()

	fmt.Printf("Server listening at %s\n\n", base)

	passed, failed := 0, 0
	for _, sc := range []struct {
		name string
		fn   func(string) bool
	}{
		{"Setup", scenarioSetup},
		{"Concurrent searches", scenarioConcurrentSearches},
		{"Reads during writes", scenarioReadsDuringWrites},
		{"Contended borrows", scenarioContendedBorrows},
	} {
		if sc.fn(base) {
			passed++
		} else {
			failed++
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func startServer() (base string, shutdown func()) {
	cfg := &config.Config{Port: 0} // OS-assigned
	srv := server.New(cfg, catalog.New())

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			fatalf("server: %v", err)
		}
	}()

	// Wait for the listener to be ready.
	for i := 0; i < 100; i++ {
		if addr := srv.Addr(); addr != nil {
			base = fmt.Sprintf("http://127.0.0.1:%d", addr.(*net.TCPAddr).Port)
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if base == "" {
		fatalf("server did not start within 1s")
	}

	shutdown = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
	return base, shutdown
}

// -------------------------------------------------------------------------
// HTTP helpers
// -------------------------------------------------------------------------

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func postJSON(url string, body any) (*envelope, int, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, err
	}
	return &env, resp.StatusCode, nil
}

func getJSON(url string) (*envelope, int, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, err
	}
	return &env, resp.StatusCode, nil
}

// -------------------------------------------------------------------------
// Scenarios
// -------------------------------------------------------------------------

func scenarioSetup(base string) bool {
	start := time.Now()

	for i := 1; i <= 100; i++ {
		_, code, err := postJSON(base+"/api/books", map[string]any{
			"isbn":   fmt.Sprintf("978-0-%05d", i),
			"title":  fmt.Sprintf("Book %d", i),
			"author": fmt.Sprintf("Author %d", i%10),
			"year":   1950 + i%70,
			"copies": 2,
		})
		if err != nil || code != http.StatusOK {
			return fail("Setup", "add book %d: code=%d err=%v", i, code, err)
		}
	}

	for i := 1; i <= 20; i++ {
		_, code, err := postJSON(base+"/api/users", map[string]any{
			"user_id": fmt.Sprintf("U%03d", i),
			"name":    fmt.Sprintf("User %d", i),
			"email":   fmt.Sprintf("user%d@example.com", i),
		})
		if err != nil || code != http.StatusOK {
			return fail("Setup", "add user %d: code=%d err=%v", i, code, err)
		}
	}

	env, code, err := getJSON(base + "/api/books")
	if err != nil || code != http.StatusOK {
		return fail("Setup", "list books: code=%d err=%v", code, err)
	}
	var books []json.RawMessage
	if err := json.Unmarshal(env.Data, &books); err != nil {
		return fail("Setup", "decode books: %v", err)
	}
	if len(books) != 100 {
		return fail("Setup", "expected 100 books, got %d", len(books))
	}

	return pass("Setup", "added 100 books and 20 users", time.Since(start))
}

func scenarioConcurrentSearches(base string) bool {
	start := time.Now()
	const goroutines = 10
	const queriesPerGoroutine = 50

	var wg sync.WaitGroup
	var errCount atomic.Int64

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for q := 0; q < queriesPerGoroutine; q++ {
				env, code, err := getJSON(base + "/api/books/search?q=book")
				if err != nil || code != http.StatusOK || !env.Success {
					errCount.Add(1)
					continue
				}
				var books []json.RawMessage
				if json.Unmarshal(env.Data, &books) != nil || len(books) != 100 {
					errCount.Add(1)
				}
			}
		}(g)
	}
	wg.Wait()

	errs := errCount.Load()
	total := goroutines * queriesPerGoroutine
	if errs > 0 {
		return fail("Concurrent searches", "%d errors out of %d queries", errs, total)
	}
	return pass("Concurrent searches",
		fmt.Sprintf("%d goroutines x %d queries = %d total, 0 errors", goroutines, queriesPerGoroutine, total),
		time.Since(start))
}

func scenarioReadsDuringWrites(base string) bool {
	start := time.Now()
	const readers = 10

	var wg sync.WaitGroup
	var errCount atomic.Int64
	var minBooks, maxBooks atomic.Int64
	minBooks.Store(999999)

	// Writer goroutine: add books 101-200.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 101; i <= 200; i++ {
			_, code, err := postJSON(base+"/api/books", map[string]any{
				"isbn":   fmt.Sprintf("978-0-%05d", i),
				"title":  fmt.Sprintf("Book %d", i),
				"author": fmt.Sprintf("Author %d", i%10),
				"year":   1950 + i%70,
				"copies": 1,
			})
			if err != nil || code != http.StatusOK {
				errCount.Add(1)
			}
		}
	}()

	// Reader goroutines: repeatedly fetch stats while writes happen.
	for g := 0; g < readers; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := 0; q < 50; q++ {
				env, code, err := getJSON(base + "/api/stats")
				if err != nil || code != http.StatusOK {
					errCount.Add(1)
					continue
				}
				var stats struct {
					TotalBooks int64 `json:"total_books"`
				}
				if json.Unmarshal(env.Data, &stats) != nil {
					errCount.Add(1)
					continue
				}
				for {
					cur := minBooks.Load()
					if stats.TotalBooks >= cur || minBooks.CompareAndSwap(cur, stats.TotalBooks) {
						break
					}
				}
				for {
					cur := maxBooks.Load()
					if stats.TotalBooks <= cur || maxBooks.CompareAndSwap(cur, stats.TotalBooks) {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	errs := errCount.Load()
	lo, hi := minBooks.Load(), maxBooks.Load()
	if errs > 0 {
		return fail("Reads during writes", "%d errors", errs)
	}
	if lo < 100 || hi > 200 {
		return fail("Reads during writes", "book counts out of range: [%d..%d]", lo, hi)
	}

	env, code, err := getJSON(base + "/api/stats")
	if err != nil || code != http.StatusOK {
		return fail("Reads during writes", "final stats: code=%d err=%v", code, err)
	}
	var stats struct {
		TotalBooks int64 `json:"total_books"`
	}
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		return fail("Reads during writes", "decode stats: %v", err)
	}
	if stats.TotalBooks != 200 {
		return fail("Reads during writes", "final book count %d, expected 200", stats.TotalBooks)
	}

	return pass("Reads during writes",
		fmt.Sprintf("100 books added while reading, counts in [%d..%d], 0 errors", lo, hi),
		time.Since(start))
}

// scenarioContendedBorrows has 20 users race to borrow a book with only
// 2 copies. Exactly 2 loans may succeed.
func scenarioContendedBorrows(base string) bool {
	start := time.Now()
	const isbn = "978-0-00001"
	const copies = 2

	var wg sync.WaitGroup
	var succeeded, rejected, errCount atomic.Int64

	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			env, code, err := postJSON(base+"/api/loans", map[string]any{
				"user_id": fmt.Sprintf("U%03d", i),
				"isbn":    isbn,
			})
			switch {
			case err != nil:
				errCount.Add(1)
			case code == http.StatusOK && env.Success:
				succeeded.Add(1)
			case code == http.StatusBadRequest:
				rejected.Add(1)
			default:
				errCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if errs := errCount.Load(); errs > 0 {
		return fail("Contended borrows", "%d transport errors", errs)
	}
	if succeeded.Load() != copies {
		return fail("Contended borrows", "%d borrows succeeded, expected %d", succeeded.Load(), copies)
	}
	if rejected.Load() != 20-copies {
		return fail("Contended borrows", "%d borrows rejected, expected %d", rejected.Load(), 20-copies)
	}

	return pass("Contended borrows",
		fmt.Sprintf("20 users raced for %d copies: %d loans, %d rejections", copies, succeeded.Load(), rejected.Load()),
		time.Since(start))
}

// -------------------------------------------------------------------------
// Reporting
// -------------------------------------------------------------------------

func pass(name, detail string, d time.Duration) bool {
	fmt.Printf("[PASS] %s: %s (%dms)\n", name, detail, d.Milliseconds())
	return true
}

func fail(name, format string, args ...any) bool {
	fmt.Printf("[FAIL] %s: %s\n", name, fmt.Sprintf(format, args...))
	return false
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal: "+format+"\n", args...)
	os.Exit(2)
}
