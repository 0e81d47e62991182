// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the resume tools as HTML pages and a small JSON API.
// Each tool page posts a multipart form; with JavaScript enabled the form is
// sent to the API instead so the page keeps its inputs while it waits.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/resume-review/internal/review"
	"github.com/pdiddy/resume-review/pkg/types"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second

	requestIDHeader = "X-Request-ID"
)

// Server is the HTTP front end of the resume tools.
type Server struct {
	cfg      types.ServerConfig
	reviewer *review.Reviewer
	logger   *slog.Logger

	// newRequestID is replaced in tests.
	newRequestID func() string
}

// NewServer wires a Server around reviewer. A nil logger discards logs.
func NewServer(cfg types.ServerConfig, reviewer *review.Reviewer, logger *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = types.DefaultAddr
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = types.DefaultMaxUploadMB
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:          cfg,
		reviewer:     reviewer,
		logger:       logger,
		newRequestID: uuid.NewString,
	}
}

// Handler returns the routed handler for all pages, API endpoints, and
// static assets.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	for _, t := range tools {
		task := t.Task
		pattern := t.Path
		if pattern == "/" {
			pattern = "/{$}"
		}
		mux.HandleFunc("GET "+pattern, s.handlePage(task))
		mux.HandleFunc("POST "+pattern, s.handleSubmit(task))
		mux.HandleFunc("POST "+t.API, s.handleAPI(task))
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("static assets: %v", err))
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	return s.withRequestID(mux)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

type requestIDKey struct{}

// withRequestID tags every request with a fresh id, echoed in the response
// header and available through requestID.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.newRequestID()
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
