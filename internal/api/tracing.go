// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rsvideo/console/internal/record"
	"github.com/rsvideo/console/internal/telemetry"
)

// traceRequests enriches the server span opened by the otelhttp wrapper with
// HTTP attributes and marks 5xx responses as errors. Safe when tracing is
// disabled: the noop span swallows everything.
func traceRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		span := trace.SpanFromContext(r.Context())
		span.SetAttributes(telemetry.HTTPAttributes(r.Method, route, r.URL.String(), sw.status)...)
		if sw.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sw.status))
		}
	})
}

// spanRecord tags the active span with the record a handler touched.
func spanRecord(ctx context.Context, rec record.VideoRecord) {
	trace.SpanFromContext(ctx).SetAttributes(
		telemetry.RecordAttributes(rec.ID, rec.Category, rec.HTMLName)...)
}

// spanError tags the active span with a classified failure.
func spanError(ctx context.Context, err error, kind string) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(telemetry.ErrorAttributes(err, kind)...)
	span.SetStatus(codes.Error, kind)
}

// spanGatewayOp tags the active span with a document-level gateway operation.
func (s *Server) spanGatewayOp(ctx context.Context, op string, records int) {
	trace.SpanFromContext(ctx).SetAttributes(
		telemetry.GatewayAttributes(op, s.cfg.GatewayMode, records)...)
}
