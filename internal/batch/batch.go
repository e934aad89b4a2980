// SPDX-License-Identifier: MIT

// Package batch parses delimited bulk-import lines into record fields.
//
// Each line carries one record:
//
//	htmlName | category | title | videoUrl | [expiry] | [remarks]
//
// The first four fields are mandatory; expiry and remarks are optional.
package batch

import (
	"fmt"
	"strings"

	"github.com/rsvideo/console/internal/category"
	"github.com/rsvideo/console/internal/record"
)

// Delimiter separates fields within one line.
const Delimiter = "|"

// Result is the outcome of parsing a batch. Errors is empty exactly when
// every non-blank line parsed.
type Result struct {
	Fields []record.Fields
	Errors []string
}

// OK reports whether the whole batch parsed cleanly.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Parse parses the given lines. Blank lines are skipped. Line numbers in
// error messages are 1-based and count all input lines, blanks included, so
// they match what the operator pasted.
//
// A missing or malformed expiry field is not an error: a well-formed
// datetime-local value (YYYY-MM-DDTHH:MM) is normalized to the stored shape,
// anything else means the record never expires.
func Parse(lines []string) Result {
	var res Result
	for i, line := range lines {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}

		f, err := parseLine(line)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}
		res.Fields = append(res.Fields, f)
	}
	return res
}

func parseLine(line string) (record.Fields, error) {
	parts := strings.Split(line, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 4 {
		return record.Fields{}, fmt.Errorf("expected at least 4 fields, got %d", len(parts))
	}

	f := record.Fields{
		HTMLName: parts[0],
		Category: parts[1],
		Title:    parts[2],
		VideoURL: parts[3],
	}
	if f.HTMLName == "" || f.Category == "" || f.Title == "" || f.VideoURL == "" {
		return record.Fields{}, fmt.Errorf("mandatory field is empty")
	}
	if !category.Valid(f.Category) {
		return record.Fields{}, fmt.Errorf("unknown category code %q", f.Category)
	}

	if len(parts) > 4 {
		f.ExpiryDate = record.NormalizeExpiry(parts[4])
	}
	if len(parts) > 5 {
		f.Remarks = parts[5]
	}
	return f, nil
}
