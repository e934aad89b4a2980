// SPDX-License-Identifier: MIT

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rsvideo/console/internal/record"
)

// HTTPGateway talks to a remote document host: a public GET location for the
// document and a separate write endpoint that replaces it.
type HTTPGateway struct {
	docURL    string
	uploadURL string
	http      *http.Client
}

// NewHTTP creates a gateway against the given document URL and write endpoint.
func NewHTTP(docURL, uploadURL string) *HTTPGateway {
	return &HTTPGateway{
		docURL:    strings.TrimSpace(docURL),
		uploadURL: strings.TrimSpace(uploadURL),
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch GETs the document. 404 decodes to an empty list; any other non-2xx
// status, transport failure, or malformed body is a TransportError.
func (g *HTTPGateway) Fetch(ctx context.Context) ([]record.VideoRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.docURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "fetch", Err: err}
	}
	res, err := g.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "fetch", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return []record.VideoRecord{}, nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &TransportError{Op: "fetch", Status: res.StatusCode, Err: errors.New("unexpected status")}
	}

	var records []record.VideoRecord
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		return nil, &TransportError{Op: "fetch", Err: fmt.Errorf("decode document: %w", err)}
	}
	if records == nil {
		records = []record.VideoRecord{}
	}
	return records, nil
}

// Put POSTs the full document body to the write endpoint. Success is any 2xx;
// anything else surfaces the endpoint's error body.
func (g *HTTPGateway) Put(ctx context.Context, doc []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.uploadURL, bytes.NewReader(doc))
	if err != nil {
		return &TransportError{Op: "put", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.http.Do(req)
	if err != nil {
		return &TransportError{Op: "put", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}

	// The endpoint distinguishes failure with a machine-readable body; keep a
	// bounded excerpt for the log and the operator warning.
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return &TransportError{
		Op:     "put",
		Status: res.StatusCode,
		Err:    fmt.Errorf("write endpoint rejected document: %s", strings.TrimSpace(string(body))),
	}
}
