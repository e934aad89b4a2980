// SPDX-License-Identifier: MIT

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/google/renameio/v2"

	xlog "github.com/rsvideo/console/internal/log"
	"github.com/rsvideo/console/internal/record"
)

// FileGateway persists the document to a local file. It backs single-host
// deployments and tests; writes are atomic and durable so a crash mid-save
// never leaves a truncated document.
type FileGateway struct {
	path string
}

// NewFile creates a file gateway persisting to the given path.
func NewFile(path string) *FileGateway {
	return &FileGateway{path: path}
}

// Path returns the document location.
func (g *FileGateway) Path() string {
	return g.path
}

// Fetch reads and decodes the document. A missing file is an empty list.
func (g *FileGateway) Fetch(_ context.Context) ([]record.VideoRecord, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []record.VideoRecord{}, nil
		}
		return nil, &TransportError{Op: "fetch", Err: err}
	}

	var records []record.VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &TransportError{Op: "fetch", Err: fmt.Errorf("decode document: %w", err)}
	}
	if records == nil {
		records = []record.VideoRecord{}
	}
	return records, nil
}

// Put atomically replaces the document. renameio handles temp file creation,
// fsync, atomic rename, and cleanup on error.
func (g *FileGateway) Put(_ context.Context, doc []byte) error {
	pending, err := renameio.NewPendingFile(g.path, renameio.WithPermissions(0o644))
	if err != nil {
		return &TransportError{Op: "put", Err: fmt.Errorf("create pending document: %w", err)}
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger := xlog.WithComponent("gateway")
			logger.Debug().Err(err).Msg("cleanup pending document")
		}
	}()

	if _, err := pending.Write(doc); err != nil {
		return &TransportError{Op: "put", Err: fmt.Errorf("write document: %w", err)}
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return &TransportError{Op: "put", Err: fmt.Errorf("atomically replace document: %w", err)}
	}
	return nil
}

// Watch invokes onChange whenever the document file is rewritten by someone
// else, until ctx is done. The parent directory is watched because atomic
// replacement swaps the inode on every save.
func (g *FileGateway) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(g.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger := xlog.WithComponent("gateway")
	name := filepath.Base(g.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("document changed on disk")
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("document watch error")
		}
	}
}
