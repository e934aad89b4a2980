// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rsvideo/console/internal/audit"
	"github.com/rsvideo/console/internal/auth"
	"github.com/rsvideo/console/internal/category"
	"github.com/rsvideo/console/internal/expiry"
	"github.com/rsvideo/console/internal/gateway"
	"github.com/rsvideo/console/internal/record"
	"github.com/rsvideo/console/internal/store"
)

// staleWarning is returned alongside any mutation that changed memory but
// could not be written through. The operator must export and save by hand.
const staleWarning = "remote document is stale; use /api/export to save it manually"

// maxDocumentBytes bounds the uploaded document size.
const maxDocumentBytes = 16 << 20

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			s.logger.Warn().Str("remote", r.RemoteAddr).Msg("login rejected")
			writeUnauthorized(w)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info().Str("user", req.Username).Msg("login")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	videos := s.store.Filter(q.Get("category"), q.Get("q"))
	writeJSON(w, http.StatusOK, videos)
}

// mutationResponse is the payload for create, update and delete.
type mutationResponse struct {
	Record    *record.VideoRecord `json:"record,omitempty"`
	Persisted bool                `json:"persisted"`
	Warning   string              `json:"warning,omitempty"`
}

func mutationPayload(res store.MutationResult, includeRecord bool) mutationResponse {
	out := mutationResponse{Persisted: res.Persisted}
	if includeRecord {
		rec := res.Record
		out.Record = &rec
	}
	if !res.Persisted {
		out.Warning = staleWarning
	}
	return out
}

func (s *Server) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	var f record.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	res, err := s.store.Create(r.Context(), f, actorFromContext(r.Context(), r))
	if err != nil {
		writeMutationError(w, r, err)
		return
	}
	spanRecord(r.Context(), res.Record)
	writeJSON(w, http.StatusCreated, mutationPayload(res, true))
}

func (s *Server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	var f record.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	res, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), f, actorFromContext(r.Context(), r))
	if err != nil {
		writeMutationError(w, r, err)
		return
	}
	spanRecord(r.Context(), res.Record)
	writeJSON(w, http.StatusOK, mutationPayload(res, true))
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.Delete(r.Context(), chi.URLParam(r, "id"), actorFromContext(r.Context(), r))
	if err != nil {
		writeMutationError(w, r, err)
		return
	}
	spanRecord(r.Context(), res.Record)
	writeJSON(w, http.StatusOK, mutationPayload(res, false))
}

type batchRequest struct {
	Lines []string `json:"lines"`
}

func (s *Server) handleBatchInsert(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	res, err := s.store.BatchInsert(r.Context(), req.Lines, actorFromContext(r.Context(), r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(res.Errors) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "batch rejected",
			"errors": res.Errors,
		})
		return
	}

	payload := map[string]any{
		"inserted":  len(res.Inserted),
		"records":   res.Inserted,
		"persisted": res.Persisted,
	}
	if !res.Persisted {
		payload["warning"] = staleWarning
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, spooledAt, pending, err := s.store.ExportDocument()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.spanGatewayOp(r.Context(), "export", s.store.Count())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+gateway.DocumentName+`"`)
	if pending {
		w.Header().Set("X-Pending-Since", spooledAt.UTC().Format(time.RFC3339))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeError(w, http.StatusNotFound, errors.New("audit trail not configured"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.audit.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, category.All())
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	doc, err := s.store.Document()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read request body: %w", err))
		return
	}

	if err := s.store.ImportDocument(r.Context(), doc, actorFromContext(r.Context(), r)); err != nil {
		var terr *gateway.TransportError
		if errors.As(err, &terr) {
			spanError(r.Context(), err, "transport")
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.spanGatewayOp(r.Context(), "import", s.store.Count())
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"records": s.store.Count(),
	})
}

// playerResponse is the payload consumed by the playback page.
type playerResponse struct {
	record.VideoRecord
	CategoryLabel string `json:"categoryLabel"`
	Expired       bool   `json:"expired"`
	ExpiryDisplay string `json:"expiryDisplay"`
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat, name := q.Get("category"), q.Get("name")
	if cat == "" || name == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "video not found"})
		return
	}

	rec, ok := s.store.Find(cat, name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "video not found"})
		return
	}
	spanRecord(r.Context(), rec)

	display := "永久有效"
	if rec.ExpiryDate != "" {
		display = "有效截止: " + rec.ExpiryDate
	}
	writeJSON(w, http.StatusOK, playerResponse{
		VideoRecord:   rec,
		CategoryLabel: category.Label(rec.Category),
		Expired:       expiry.IsExpired(rec.ExpiryDate, s.now()),
		ExpiryDisplay: display,
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Records int    `json:"records"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		Records: s.store.Count(),
	})
}
