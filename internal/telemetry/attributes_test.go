// SPDX-License-Identifier: MIT
package telemetry

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("GET", "/api/videos", "http://localhost:8080/api/videos", 200)

	if len(attrs) != 4 {
		t.Fatalf("Expected 4 attributes, got %d", len(attrs))
	}

	verifyAttribute(t, attrs, HTTPMethodKey, "GET")
	verifyAttribute(t, attrs, HTTPRouteKey, "/api/videos")
	verifyAttribute(t, attrs, HTTPURLKey, "http://localhost:8080/api/videos")
	verifyIntAttribute(t, attrs, HTTPStatusCodeKey, 200)
}

func TestRecordAttributes(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		category string
		htmlName string
		wantLen  int
	}{
		{
			name:     "all fields",
			id:       "4f5e6d7c",
			category: "ddry",
			htmlName: "ep01",
			wantLen:  3,
		},
		{
			name:     "only category",
			id:       "",
			category: "msmk",
			htmlName: "",
			wantLen:  1,
		},
		{
			name:     "empty fields",
			id:       "",
			category: "",
			htmlName: "",
			wantLen:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := RecordAttributes(tt.id, tt.category, tt.htmlName)

			if len(attrs) != tt.wantLen {
				t.Errorf("Expected %d attributes, got %d", tt.wantLen, len(attrs))
			}

			if tt.id != "" {
				verifyAttribute(t, attrs, RecordIDKey, tt.id)
			}
			if tt.category != "" {
				verifyAttribute(t, attrs, RecordCategoryKey, tt.category)
			}
			if tt.htmlName != "" {
				verifyAttribute(t, attrs, RecordNameKey, tt.htmlName)
			}
		})
	}
}

func TestGatewayAttributes(t *testing.T) {
	attrs := GatewayAttributes("put", "s3", 42)

	if len(attrs) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(attrs))
	}

	verifyAttribute(t, attrs, GatewayOpKey, "put")
	verifyAttribute(t, attrs, GatewayModeKey, "s3")
	verifyIntAttribute(t, attrs, DocumentRecordsKey, 42)
}

func TestErrorAttributes(t *testing.T) {
	err := errors.New("test error")
	attrs := ErrorAttributes(err, "network_error")

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}

	verifyBoolAttribute(t, attrs, ErrorKey, true)
	verifyAttribute(t, attrs, ErrorTypeKey, "network_error")
}

// Helper functions for attribute verification

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, expectedValue string) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsString() != expectedValue {
				t.Errorf("Expected %s=%s, got %s", key, expectedValue, attr.Value.AsString())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyIntAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue int) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsInt64() != int64(expectedValue) {
				t.Errorf("Expected %s=%d, got %d", key, expectedValue, attr.Value.AsInt64())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyBoolAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue bool) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsBool() != expectedValue {
				t.Errorf("Expected %s=%t, got %t", key, expectedValue, attr.Value.AsBool())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}
