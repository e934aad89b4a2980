// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(traceRequests)

	// Operational.
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public surface, served cross-origin to the playback page.
	r.Group(func(pub chi.Router) {
		pub.Use(publicCORS)
		pub.Get("/video_list.json", s.handleDocument)
		pub.Get("/player", s.handlePlayer)
		pub.Post("/api/upload-json", s.handleUpload)
		pub.Options("/api/upload-json", func(http.ResponseWriter, *http.Request) {})
	})

	// Login is the only unauthenticated admin route; brute-force is bounded
	// by a per-IP sliding window.
	r.With(httprate.Limit(
		s.cfg.LoginRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)).Post("/api/login", s.handleLogin)

	// Token-gated admin API.
	r.Group(func(adm chi.Router) {
		adm.Use(s.authMiddleware)
		adm.Post("/api/logout", s.handleLogout)
		adm.Get("/api/videos", s.handleListVideos)
		adm.Post("/api/videos", s.handleCreateVideo)
		adm.Put("/api/videos/{id}", s.handleUpdateVideo)
		adm.Delete("/api/videos/{id}", s.handleDeleteVideo)
		adm.Post("/api/videos/batch", s.handleBatchInsert)
		adm.Get("/api/export", s.handleExport)
		adm.Get("/api/categories", s.handleCategories)
		adm.Get("/api/audit", s.handleAudit)
	})

	return otelhttp.NewHandler(r, "rsvideo-api")
}
