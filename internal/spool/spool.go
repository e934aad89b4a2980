// SPDX-License-Identifier: MIT

// Package spool keeps the pending document durable after a failed save.
//
// A mutation is applied to the in-memory list before persistence, so a failed
// put leaves memory ahead of remote storage. The spool stores that serialized
// document locally; the operator can download it for manual recovery, and the
// next successful save clears it.
package spool

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

var (
	keyDoc = []byte("pending/doc")
	keyTS  = []byte("pending/ts")

	// ErrEmpty is returned by Latest when no pending document is spooled.
	ErrEmpty = errors.New("spool: no pending document")
)

// Spool is a single-slot durable store for the newest unsaved document.
type Spool struct {
	db *badger.DB
}

// Open opens (or creates) the spool database in dir.
func Open(dir string) (*Spool, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open spool: %w", err)
	}
	return &Spool{db: db}, nil
}

// Save replaces the pending document. Only the newest one is kept; the
// in-memory list is already ahead of anything older.
func (s *Spool) Save(doc []byte) error {
	ts := time.Now().Format(time.RFC3339Nano)
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyDoc, doc); err != nil {
			return err
		}
		return txn.Set(keyTS, []byte(ts))
	})
	if err != nil {
		return fmt.Errorf("spool save: %w", err)
	}
	return nil
}

// Latest returns the pending document and when it was spooled.
func (s *Spool) Latest() ([]byte, time.Time, error) {
	var doc []byte
	var ts time.Time
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyDoc)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrEmpty
			}
			return err
		}
		doc, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		tsItem, err := txn.Get(keyTS)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		raw, err := tsItem.ValueCopy(nil)
		if err != nil {
			return err
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, string(raw)); perr == nil {
			ts = parsed
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return nil, time.Time{}, ErrEmpty
		}
		return nil, time.Time{}, fmt.Errorf("spool read: %w", err)
	}
	return doc, ts, nil
}

// Clear drops the pending document after a successful save.
func (s *Spool) Clear() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(keyDoc); err != nil {
			return err
		}
		return txn.Delete(keyTS)
	})
	if err != nil {
		return fmt.Errorf("spool clear: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Spool) Close() error {
	return s.db.Close()
}
