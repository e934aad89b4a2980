// SPDX-License-Identifier: MIT

// Package gateway implements the persistence gateway contract: the video list
// is a single JSON document fetched whole and replaced whole. There are no
// partial updates and no conditional writes; concurrent writers clobber each
// other last-write-wins, an accepted limitation of the deployed system.
package gateway

import (
	"context"
	"fmt"

	"github.com/rsvideo/console/internal/record"
)

// DocumentName is the canonical object key / file name of the video list.
const DocumentName = "video_list.json"

// Gateway is the opaque read/write contract the record store depends on.
type Gateway interface {
	// Fetch retrieves and decodes the stored document. A missing document is
	// not an error: it decodes to an empty list.
	Fetch(ctx context.Context) ([]record.VideoRecord, error)
	// Put replaces the stored document wholesale with the supplied JSON body.
	Put(ctx context.Context, doc []byte) error
}

// TransportError wraps a failed gateway operation.
type TransportError struct {
	Op     string // "fetch" or "put"
	Status int    // HTTP status when applicable, 0 otherwise
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
