// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of the rsvideo console: the
// token-gated admin API, the public document and player routes, and the
// operational endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rsvideo/console/internal/audit"
	"github.com/rsvideo/console/internal/auth"
	"github.com/rsvideo/console/internal/config"
	"github.com/rsvideo/console/internal/log"
	"github.com/rsvideo/console/internal/store"
)

// Server holds the handler dependencies. It owns no goroutines; lifecycle is
// the caller's job.
type Server struct {
	cfg       config.Config
	store     *store.Store
	auth      *auth.Manager
	audit     *audit.Trail
	version   string
	startTime time.Time
	logger    zerolog.Logger

	// now allows tests to pin expiry evaluation.
	now func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithClock overrides the time source used for expiry evaluation.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithAudit exposes the audit trail on the admin API. Without it the audit
// endpoint reports that no trail is configured.
func WithAudit(trail *audit.Trail) Option {
	return func(s *Server) { s.audit = trail }
}

// New creates the HTTP server around an already-loaded store.
func New(cfg config.Config, st *store.Store, am *auth.Manager, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		auth:      am,
		version:   "dev",
		startTime: time.Now(),
		logger:    log.WithComponent("api"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe runs the server until ctx is canceled, then drains with a
// shutdown grace period.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
