// SPDX-License-Identifier: MIT

package gateway

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsvideo/console/internal/record"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DocumentName)
	g := NewFile(path)
	ctx := context.Background()

	records := []record.VideoRecord{{
		ID:            "abc",
		HTMLName:      "ep01",
		Category:      "ddry",
		Title:         "Test",
		VideoURL:      "https://x/y.mp4",
		GeneratedLink: "/player?category=ddry&name=ep01",
	}}
	doc, err := json.MarshalIndent(records, "", "  ")
	require.NoError(t, err)

	require.NoError(t, g.Put(ctx, doc))

	got, err := g.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestFileFetchMissingIsEmptyList(t *testing.T) {
	g := NewFile(filepath.Join(t.TempDir(), "nope", DocumentName))
	got, err := g.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFileFetchMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), DocumentName)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := NewFile(path).Fetch(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestFileWatchSeesReplacement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DocumentName)
	g := NewFile(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- g.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, g.Put(ctx, []byte("[]")))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not report the document replacement")
	}

	cancel()
	require.NoError(t, <-done)
}
