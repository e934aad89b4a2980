// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rsvideo/console/internal/telemetry"
)

func newSpanRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return recorder, tp
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTraceRequestsSetsHTTPAttributes(t *testing.T) {
	recorder, tp := newSpanRecorder(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "GET /healthz")
	handler := traceRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	method, ok := spanAttr(spans[0], telemetry.HTTPMethodKey)
	require.True(t, ok)
	require.Equal(t, http.MethodGet, method.AsString())

	status, ok := spanAttr(spans[0], telemetry.HTTPStatusCodeKey)
	require.True(t, ok)
	require.Equal(t, int64(http.StatusOK), status.AsInt64())

	require.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTraceRequestsMarksServerErrors(t *testing.T) {
	recorder, tp := newSpanRecorder(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "GET /boom")
	handler := traceRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)

	status, ok := spanAttr(spans[0], telemetry.HTTPStatusCodeKey)
	require.True(t, ok)
	require.Equal(t, int64(http.StatusInternalServerError), status.AsInt64())
}

// A create through the full route tree should leave a server span tagged with
// the record it produced.
func TestCreateVideoTagsSpanWithRecord(t *testing.T) {
	recorder, tp := newSpanRecorder(t)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	env := newTestEnv(t)
	token := env.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/videos",
		strings.NewReader(`{"category":"ddry","htmlName":"ep01","videoLink":"https://cdn.example.com/ep01.m3u8"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var tagged sdktrace.ReadOnlySpan
	for _, span := range recorder.Ended() {
		if _, ok := spanAttr(span, telemetry.RecordCategoryKey); ok {
			tagged = span
			break
		}
	}
	require.NotNil(t, tagged, "no span carries record attributes")

	cat, _ := spanAttr(tagged, telemetry.RecordCategoryKey)
	require.Equal(t, "ddry", cat.AsString())
	name, ok := spanAttr(tagged, telemetry.RecordNameKey)
	require.True(t, ok)
	require.Equal(t, "ep01", name.AsString())
}

// A failing mutation should tag the span as a validation error.
func TestValidationFailureTagsSpanError(t *testing.T) {
	recorder, tp := newSpanRecorder(t)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	env := newTestEnv(t)
	token := env.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/videos",
		strings.NewReader(`{"category":"nope","htmlName":"","videoLink":""}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var found bool
	for _, span := range recorder.Ended() {
		if v, ok := spanAttr(span, telemetry.ErrorTypeKey); ok {
			require.Equal(t, "validation", v.AsString())
			found = true
		}
	}
	require.True(t, found, "no span carries an error type")
}
