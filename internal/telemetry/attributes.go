// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Document attributes
	DocumentRecordsKey = "document.records"
	DocumentBytesKey   = "document.bytes"

	// Record attributes
	RecordIDKey       = "record.id"
	RecordCategoryKey = "record.category"
	RecordNameKey     = "record.html_name"

	// Gateway attributes
	GatewayOpKey   = "gateway.op"
	GatewayModeKey = "gateway.mode"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// RecordAttributes creates record-related span attributes, skipping empty
// values.
func RecordAttributes(id, category, htmlName string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if id != "" {
		attrs = append(attrs, attribute.String(RecordIDKey, id))
	}
	if category != "" {
		attrs = append(attrs, attribute.String(RecordCategoryKey, category))
	}
	if htmlName != "" {
		attrs = append(attrs, attribute.String(RecordNameKey, htmlName))
	}
	return attrs
}

// GatewayAttributes creates persistence-gateway span attributes.
func GatewayAttributes(op, mode string, records int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(GatewayOpKey, op),
		attribute.String(GatewayModeKey, mode),
		attribute.Int(DocumentRecordsKey, records),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
