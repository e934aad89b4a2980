// SPDX-License-Identifier: MIT

package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatorAccumulates(t *testing.T) {
	v := New()
	v.NonEmpty("title", "")
	v.NonEmpty("url", "   ")
	v.NonEmpty("name", "ok")

	if v.IsValid() {
		t.Fatal("expected validator to be invalid")
	}
	if len(v.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2", len(v.Errors()))
	}

	err := v.Err()
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Err() = %T, want ValidationError", err)
	}
	if !strings.Contains(err.Error(), "title") || !strings.Contains(err.Error(), "url") {
		t.Errorf("error message missing fields: %s", err)
	}
}

func TestValidatorErrNilWhenValid(t *testing.T) {
	v := New()
	v.NonEmpty("title", "present")
	if err := v.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"https ok", "https://example.com/doc.json", true},
		{"http ok", "http://example.com", true},
		{"empty", "", false},
		{"no host", "https://", false},
		{"bad scheme", "ftp://example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("endpoint", tt.value, []string{"http", "https"})
			if v.IsValid() != tt.valid {
				t.Errorf("URL(%q) valid = %v, want %v", tt.value, v.IsValid(), tt.valid)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	v := New()
	v.OneOf("mode", "file", []string{"http", "file", "s3"})
	if !v.IsValid() {
		t.Errorf("file should be accepted: %v", v.Err())
	}
	v.OneOf("mode", "ftp", []string{"http", "file", "s3"})
	if v.IsValid() {
		t.Error("ftp should be rejected")
	}
}
