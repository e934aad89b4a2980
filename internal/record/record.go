// SPDX-License-Identifier: MIT

// Package record defines the video record model and its write-time rules.
package record

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/rsvideo/console/internal/category"
	"github.com/rsvideo/console/internal/validate"
)

// VideoRecord is the sole persisted entity: one registered video link.
type VideoRecord struct {
	ID            string `json:"id"`
	HTMLName      string `json:"htmlName"`
	Category      string `json:"category"`
	Title         string `json:"title"`
	VideoURL      string `json:"videoUrl"`
	ExpiryDate    string `json:"expiryDate"`
	Remarks       string `json:"remarks,omitempty"`
	GeneratedLink string `json:"generatedLink"`
}

// Fields carries the operator-supplied values for a create or update.
type Fields struct {
	HTMLName   string `json:"htmlName"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	VideoURL   string `json:"videoUrl"`
	ExpiryDate string `json:"expiryDate"`
	Remarks    string `json:"remarks"`
}

// expiryPattern matches the two accepted stored expiry shapes: a bare date or
// a date with time. Anything else is stored as-is and treated as never-expiring
// by the evaluator (fail-open), so this is only consulted for normalization.
var expiryPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}( \d{2}:\d{2}:\d{2})?$`)

// Validate checks the mandatory fields and category membership.
// It returns a validate.ValidationError listing every failed field.
func Validate(f Fields) error {
	v := validate.New()
	v.NonEmpty("htmlName", f.HTMLName)
	// The stored name is the slug, so a name that normalizes away (for
	// example punctuation only) is as invalid as an empty one.
	if strings.TrimSpace(f.HTMLName) != "" && Slugify(f.HTMLName) == "" {
		v.AddError("htmlName", fmt.Sprintf("%q normalizes to an empty name", f.HTMLName), f.HTMLName)
	}
	v.NonEmpty("category", f.Category)
	v.NonEmpty("title", f.Title)
	v.NonEmpty("videoUrl", f.VideoURL)
	if f.Category != "" && !category.Valid(f.Category) {
		v.AddError("category", fmt.Sprintf("unknown category code %q", f.Category), f.Category)
	}
	return v.Err()
}

// DeriveLink builds the public player route for a record. The link is always
// re-derived from category and htmlName at write time and never hand-edited.
func DeriveLink(categoryCode, htmlName string) string {
	return "/player?category=" + categoryCode + "&name=" + htmlName
}

// New assembles a fresh record from validated fields, assigning a new id and
// deriving the link. The htmlName is slug-normalized so the generated route is
// URL-safe.
func New(f Fields) VideoRecord {
	name := Slugify(f.HTMLName)
	expiry := strings.TrimSpace(f.ExpiryDate)
	if n := NormalizeExpiry(expiry); n != "" {
		expiry = n
	}
	return VideoRecord{
		ID:            uuid.New().String(),
		HTMLName:      name,
		Category:      f.Category,
		Title:         strings.TrimSpace(f.Title),
		VideoURL:      strings.TrimSpace(f.VideoURL),
		ExpiryDate:    expiry,
		Remarks:       strings.TrimSpace(f.Remarks),
		GeneratedLink: DeriveLink(f.Category, name),
	}
}

// Apply replaces the mutable fields of an existing record, keeping its id and
// re-deriving the link.
func Apply(existing VideoRecord, f Fields) VideoRecord {
	updated := New(f)
	updated.ID = existing.ID
	return updated
}

// NormalizeExpiry converts the HTML datetime-local shape (YYYY-MM-DDTHH:MM)
// into the stored shape (YYYY-MM-DD HH:MM:00). A value already in a stored
// shape passes through; anything else collapses to empty, meaning "never
// expires". Malformed input is deliberately not an error.
func NormalizeExpiry(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) == 16 && s[10] == 'T' {
		date, clock := s[:10], s[11:]
		normalized := date + " " + clock + ":00"
		if expiryPattern.MatchString(normalized) {
			return normalized
		}
	}
	if expiryPattern.MatchString(s) {
		return s
	}
	return ""
}
