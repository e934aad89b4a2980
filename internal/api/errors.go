// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rsvideo/console/internal/store"
	"github.com/rsvideo/console/internal/validate"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a generic error response
func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// writeUnauthorized writes a 401 Unauthorized response
func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
}

// writeNotFound writes a 404 Not Found response
func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

// writeValidation maps a validation failure to a 400 with per-field details.
func writeValidation(w http.ResponseWriter, verr validate.ValidationError) {
	fields := make(map[string]string, len(verr.Errors()))
	for _, e := range verr.Errors() {
		fields[e.Field] = e.Message
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// writeMutationError routes a store mutation error to the right status and
// tags the request span with the failure class.
func writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr validate.ValidationError
	switch {
	case errors.As(err, &verr):
		spanError(r.Context(), err, "validation")
		writeValidation(w, verr)
	case errors.Is(err, store.ErrNotFound):
		spanError(r.Context(), err, "not_found")
		writeNotFound(w)
	default:
		spanError(r.Context(), err, "internal")
		writeError(w, http.StatusInternalServerError, err)
	}
}
