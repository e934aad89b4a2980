// SPDX-License-Identifier: MIT

// Package expiry evaluates record expiry timestamps.
package expiry

import (
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// extra layouts tolerated for historical documents written by other tooling.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// Instant parses an expiry string into the precise local instant after which
// the record must no longer play. ok is false for empty or unparseable input.
//
// A bare date (length <= 10) expires at the end of that calendar day: the
// instant is the start of the next day minus one millisecond.
func Instant(expiry string) (time.Time, bool) {
	s := strings.TrimSpace(expiry)
	if s == "" {
		return time.Time{}, false
	}

	if len(s) <= len(dateLayout) {
		day, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return time.Time{}, false
		}
		return day.AddDate(0, 0, 1).Add(-time.Millisecond), true
	}

	if ts, err := time.ParseInLocation(datetimeLayout, s, time.Local); err == nil {
		return ts, true
	}
	for _, layout := range fallbackLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// IsExpired reports whether a record with the given expiry string is expired
// at the given time. The boundary is inclusive: now == instant means expired.
//
// Empty and malformed expiry strings never expire. The fail-open handling of
// malformed input is a deliberate policy carried over from the deployed
// system; callers may depend on permissive parsing.
func IsExpired(expiry string, now time.Time) bool {
	instant, ok := Instant(expiry)
	if !ok {
		return false
	}
	return !now.Before(instant)
}
