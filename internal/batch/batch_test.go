// SPDX-License-Identifier: MIT

package batch

import (
	"strings"
	"testing"
)

func TestParseValidLines(t *testing.T) {
	res := Parse([]string{
		"ep01 | ddry | First | https://cdn.example/1.mp4",
		"ep02 | msmk | Second | https://cdn.example/2.mp4 | 2025-12-31T10:30",
		"ep03 | qjqf | Third | https://cdn.example/3.mp4 | 2025-12-31T10:30 | promo run",
	})
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Fields) != 3 {
		t.Fatalf("got %d records, want 3", len(res.Fields))
	}
	if res.Fields[0].ExpiryDate != "" {
		t.Errorf("record without expiry got %q", res.Fields[0].ExpiryDate)
	}
	if res.Fields[1].ExpiryDate != "2025-12-31 10:30:00" {
		t.Errorf("expiry not normalized: %q", res.Fields[1].ExpiryDate)
	}
	if res.Fields[2].Remarks != "promo run" {
		t.Errorf("remarks = %q", res.Fields[2].Remarks)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"too few fields", "ep01 | ddry | Title", "at least 4 fields"},
		{"empty mandatory field", "ep01 | ddry | | https://x/y.mp4", "mandatory field is empty"},
		{"unknown category", "ep01 | nope | Title | https://x/y.mp4", "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse([]string{tt.line})
			if res.OK() {
				t.Fatal("expected a parse error")
			}
			if len(res.Fields) != 0 {
				t.Errorf("errored line still produced fields: %+v", res.Fields)
			}
			if !strings.Contains(res.Errors[0], tt.want) {
				t.Errorf("error = %q, want substring %q", res.Errors[0], tt.want)
			}
		})
	}
}

func TestParseMalformedExpiryIsNotAnError(t *testing.T) {
	res := Parse([]string{"ep01 | ddry | Title | https://x/y.mp4 | whenever"})
	if !res.OK() {
		t.Fatalf("malformed expiry must not error: %v", res.Errors)
	}
	if res.Fields[0].ExpiryDate != "" {
		t.Errorf("ExpiryDate = %q, want empty (never expires)", res.Fields[0].ExpiryDate)
	}
}

func TestParseReportsOneErrorAmongValidLines(t *testing.T) {
	res := Parse([]string{
		"ep01 | ddry | A | https://x/1.mp4",
		"ep02 | ddry | B | https://x/2.mp4",
		"broken line",
		"ep03 | ddry | C | https://x/3.mp4",
		"ep04 | ddry | D | https://x/4.mp4",
		"ep05 | ddry | E | https://x/5.mp4",
	})
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want exactly 1: %v", len(res.Errors), res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "line 3:") {
		t.Errorf("error = %q, want line 3 reference", res.Errors[0])
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	res := Parse([]string{"", "  ", "ep01 | ddry | A | https://x/1.mp4", ""})
	if !res.OK() || len(res.Fields) != 1 {
		t.Fatalf("blank lines must be skipped: %+v", res)
	}
}
