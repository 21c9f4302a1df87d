// Package server exposes the catalog over an HTTP/JSON API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	slogecho "github.com/samber/slog-echo"

	"github.com/Manuela-30/GestionBiblioteca/catalog"
	"github.com/Manuela-30/GestionBiblioteca/config"
)

// Server serves the REST API for a single catalog instance.
type Server struct {
	cfg     *config.Config
	cat     *catalog.Catalog
	echo    *echo.Echo
	httpd   *http.Server
	metrics *prometheus.Registry

	mu       sync.Mutex // protects listener
	listener net.Listener
}

// New creates a server with the given configuration and catalog.
func New(cfg *config.Config, cat *catalog.Catalog) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{cfg: cfg, cat: cat, echo: e, metrics: prometheus.NewRegistry()}
	s.httpd = &http.Server{
		Handler:      e,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	e.Use(slogecho.New(slog.Default()))
	e.Use(middleware.Recover())
	// A per-server registry keeps request metrics isolated when several
	// instances run in one process.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "biblioteca",
		Registerer: s.metrics,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	api := e.Group("/api")

	api.GET("/books", s.handleListBooks)
	api.POST("/books", s.handleAddBook)
	api.GET("/books/search", s.handleSearchBooks)
	api.GET("/books/popular", s.handlePopularBooks)
	api.GET("/books/:isbn", s.handleGetBook)
	api.DELETE("/books/:isbn", s.handleDeleteBook)

	api.GET("/users", s.handleListUsers)
	api.POST("/users", s.handleAddUser)
	api.GET("/users/search", s.handleSearchUsers)
	api.GET("/users/active", s.handleActiveUsers)
	api.GET("/users/:user_id", s.handleGetUser)
	api.DELETE("/users/:user_id", s.handleDeleteUser)
	api.GET("/users/:user_id/books", s.handleUserBooks)

	api.GET("/loans", s.handleListLoans)
	api.POST("/loans", s.handleBorrow)
	api.DELETE("/loans/:user_id/:isbn", s.handleReturn)

	api.GET("/stats", s.handleStats)
	api.GET("/history", s.handleHistory)
	api.GET("/notifications", s.handleNotifications)
	api.GET("/health", s.handleHealth)

	// Expose both the request metrics and the catalog's own collectors.
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{
			s.metrics,
			prometheus.DefaultGatherer,
		},
	}))
}

// ListenAndServe starts accepting connections. It blocks until
// Shutdown is called or an unrecoverable error occurs.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	slog.Info("biblioteca listening", "addr", ln.Addr().String())

	if err := s.httpd.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Addr returns the listener's network address, or nil if not yet
// listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// Shutdown stops accepting new connections and drains in-flight
// requests, respecting the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpd.Shutdown(ctx)
}
