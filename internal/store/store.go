// SPDX-License-Identifier: MIT

// Package store holds the authoritative in-memory video list and keeps it in
// sync with the persistence gateway. The full list is the unit of
// persistence: every mutation rewrites the whole document.
//
// Mutations are optimistic: the in-memory list is updated first, then the
// document is written out. A failed write leaves memory ahead of remote
// storage until the next successful write; the pending document is spooled so
// nothing is lost, and the result tells the caller whether the change is
// "persisted" or only "applied".
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rsvideo/console/internal/audit"
	"github.com/rsvideo/console/internal/batch"
	"github.com/rsvideo/console/internal/expiry"
	"github.com/rsvideo/console/internal/gateway"
	xlog "github.com/rsvideo/console/internal/log"
	"github.com/rsvideo/console/internal/metrics"
	"github.com/rsvideo/console/internal/record"
)

// ErrNotFound is returned when a mutation names an unknown record id.
var ErrNotFound = errors.New("record not found")

// MutationResult reports what happened to a single-record mutation.
// Applied means the in-memory list changed; Persisted means the remote
// document was rewritten too. Applied-but-not-persisted is the degraded state
// the operator must be warned about, with Pending holding the serialized
// document for manual recovery.
type MutationResult struct {
	Record    record.VideoRecord
	Applied   bool
	Persisted bool
	Pending   []byte
}

// BatchResult reports a batch insert. The batch is all-or-nothing: when
// Errors is non-empty nothing was inserted.
type BatchResult struct {
	Inserted  []record.VideoRecord
	Errors    []string
	Persisted bool
	Pending   []byte
}

// Store owns the record list for the process lifetime. Callers receive
// snapshots and never reach into shared memory directly.
type Store struct {
	mu      sync.RWMutex
	records []record.VideoRecord

	gw     gateway.Gateway
	spool  PendingSpool
	trail  *audit.Trail
	logger zerolog.Logger
}

// PendingSpool is the durable fallback for documents that failed to save.
type PendingSpool interface {
	Save(doc []byte) error
	Latest() ([]byte, time.Time, error)
	Clear() error
}

// Option configures a Store.
type Option func(*Store)

// WithSpool attaches a durable pending-document spool.
func WithSpool(s PendingSpool) Option {
	return func(st *Store) { st.spool = s }
}

// WithAudit attaches a mutation audit trail.
func WithAudit(t *audit.Trail) Option {
	return func(st *Store) { st.trail = t }
}

// New creates an empty store backed by the given gateway. Call Load to pull
// the remote document.
func New(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:      gw,
		records: []record.VideoRecord{},
		logger:  xlog.WithComponent("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the remote document and replaces the in-memory list. Any
// transport or parse failure degrades to an empty list; the returned error is
// a non-fatal warning, never a reason to stop serving.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()
	records, err := s.gw.Fetch(ctx)
	metrics.ObserveGatewayOp("fetch", time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("document load failed, continuing with empty list")
		records = []record.VideoRecord{}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	metrics.SetRecordCount(len(records))

	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	s.logger.Info().Int("records", len(records)).Msg("document loaded")
	return nil
}

// Count returns the current list length.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns a copy of the list in stored (insertion) order.
func (s *Store) Snapshot() []record.VideoRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]record.VideoRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Filter returns the records matching an optional category code and an
// optional case-insensitive title substring. It is a read-only projection;
// stored order is preserved and never mutated by filtering.
func (s *Store) Filter(categoryCode, query string) []record.VideoRecord {
	query = strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]record.VideoRecord, 0, len(s.records))
	for _, r := range s.records {
		if categoryCode != "" && r.Category != categoryCode {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Title), query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Find looks up the record matching both category and htmlName, the public
// player route contract.
func (s *Store) Find(categoryCode, htmlName string) (record.VideoRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.Category == categoryCode && r.HTMLName == htmlName {
			return r, true
		}
	}
	return record.VideoRecord{}, false
}

// Get looks up a record by id.
func (s *Store) Get(id string) (record.VideoRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return record.VideoRecord{}, false
}

// ExpiryEntries projects the list for the expiry watcher.
func (s *Store) ExpiryEntries() []expiry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]expiry.Entry, len(s.records))
	for i, r := range s.records {
		out[i] = expiry.Entry{ID: r.ID, Expiry: r.ExpiryDate}
	}
	return out
}

// Document serializes the current list, pretty-printed for human diffing.
func (s *Store) Document() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalDocument(s.records)
}

func marshalDocument(records []record.VideoRecord) ([]byte, error) {
	if records == nil {
		records = []record.VideoRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// Create validates the fields, assigns an id, derives the link, appends the
// record, and rewrites the document.
func (s *Store) Create(ctx context.Context, f record.Fields, actor string) (MutationResult, error) {
	if err := record.Validate(f); err != nil {
		metrics.RecordMutation("create", "rejected")
		return MutationResult{}, err
	}

	rec := record.New(f)

	s.mu.Lock()
	s.records = append(s.records, rec)
	doc, merr := marshalDocument(s.records)
	count := len(s.records)
	s.mu.Unlock()
	metrics.SetRecordCount(count)

	res := s.finishMutation(ctx, audit.OpCreate, rec, doc, merr, actor)
	return res, nil
}

// Update replaces the record with the matching id in place, preserving list
// order, and rewrites the document.
func (s *Store) Update(ctx context.Context, id string, f record.Fields, actor string) (MutationResult, error) {
	if err := record.Validate(f); err != nil {
		metrics.RecordMutation("update", "rejected")
		return MutationResult{}, err
	}

	s.mu.Lock()
	idx := -1
	for i, r := range s.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		metrics.RecordMutation("update", "rejected")
		return MutationResult{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	rec := record.Apply(s.records[idx], f)
	s.records[idx] = rec
	doc, merr := marshalDocument(s.records)
	s.mu.Unlock()

	res := s.finishMutation(ctx, audit.OpUpdate, rec, doc, merr, actor)
	return res, nil
}

// Delete removes the record with the matching id and rewrites the remaining
// list. The removal is irreversible; there is no soft delete and no history.
func (s *Store) Delete(ctx context.Context, id string, actor string) (MutationResult, error) {
	s.mu.Lock()
	idx := -1
	for i, r := range s.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		metrics.RecordMutation("delete", "rejected")
		return MutationResult{}, fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	rec := s.records[idx]
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	doc, merr := marshalDocument(s.records)
	count := len(s.records)
	s.mu.Unlock()
	metrics.SetRecordCount(count)

	res := s.finishMutation(ctx, audit.OpDelete, rec, doc, merr, actor)
	return res, nil
}

// BatchInsert parses delimited lines and appends all parsed records in one
// mutation with a single document rewrite. The batch is all-or-nothing: any
// line error rejects the whole batch and nothing is inserted.
func (s *Store) BatchInsert(ctx context.Context, lines []string, actor string) (BatchResult, error) {
	parsed := batch.Parse(lines)
	if !parsed.OK() {
		metrics.BatchRejectedTotal.Inc()
		metrics.RecordMutation("batch_insert", "rejected")
		if s.trail != nil {
			s.trail.Record(ctx, audit.Event{
				Op:     audit.OpBatch,
				Actor:  actor,
				Result: "rejected",
				Detail: strings.Join(parsed.Errors, "; "),
			})
		}
		return BatchResult{Errors: parsed.Errors}, nil
	}
	if len(parsed.Fields) == 0 {
		return BatchResult{Inserted: []record.VideoRecord{}, Persisted: true}, nil
	}

	inserted := make([]record.VideoRecord, 0, len(parsed.Fields))
	for _, f := range parsed.Fields {
		inserted = append(inserted, record.New(f))
	}

	s.mu.Lock()
	s.records = append(s.records, inserted...)
	doc, merr := marshalDocument(s.records)
	count := len(s.records)
	s.mu.Unlock()
	metrics.SetRecordCount(count)

	persisted, pending := s.persist(ctx, doc, merr)
	outcome := "persisted"
	if !persisted {
		outcome = "pending"
	}
	metrics.RecordMutation("batch_insert", outcome)
	if s.trail != nil {
		s.trail.Record(ctx, audit.Event{
			Op:     audit.OpBatch,
			Actor:  actor,
			Result: outcome,
			Detail: fmt.Sprintf("%d records", len(inserted)),
		})
	}
	return BatchResult{Inserted: inserted, Persisted: persisted, Pending: pending}, nil
}

// ImportDocument replaces the whole list with the supplied JSON document and
// writes it through, the native form of the upload endpoint.
func (s *Store) ImportDocument(ctx context.Context, doc []byte, actor string) error {
	var records []record.VideoRecord
	if err := json.Unmarshal(doc, &records); err != nil {
		return fmt.Errorf("document is not a record array: %w", err)
	}
	if records == nil {
		records = []record.VideoRecord{}
	}

	start := time.Now()
	err := s.gw.Put(ctx, doc)
	metrics.ObserveGatewayOp("put", time.Since(start), err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	metrics.SetRecordCount(len(records))

	if s.trail != nil {
		s.trail.Record(ctx, audit.Event{Op: audit.OpUpload, Actor: actor, Result: "persisted",
			Detail: fmt.Sprintf("%d records", len(records))})
	}
	return nil
}

// ExportDocument returns the document an operator should save by hand: the
// spooled pending one if a save failed, else the current serialized list.
// pending reports which of the two it is.
func (s *Store) ExportDocument() (doc []byte, spooledAt time.Time, pending bool, err error) {
	if s.spool != nil {
		if d, ts, serr := s.spool.Latest(); serr == nil {
			return d, ts, true, nil
		}
	}
	d, err := s.Document()
	return d, time.Time{}, false, err
}

// finishMutation persists the document and reports the outcome for a
// single-record mutation.
func (s *Store) finishMutation(ctx context.Context, op audit.Op, rec record.VideoRecord, doc []byte, merr error, actor string) MutationResult {
	persisted, pending := s.persist(ctx, doc, merr)
	outcome := "persisted"
	if !persisted {
		outcome = "pending"
	}
	metrics.RecordMutation(string(op), outcome)
	if s.trail != nil {
		s.trail.Record(ctx, audit.Event{Op: op, RecordID: rec.ID, Actor: actor, Result: outcome})
	}
	return MutationResult{Record: rec, Applied: true, Persisted: persisted, Pending: pending}
}

// persist writes the serialized document through the gateway. On failure the
// document is spooled and returned so the caller can offer it for manual
// save; the in-memory list is deliberately not rolled back.
func (s *Store) persist(ctx context.Context, doc []byte, merr error) (bool, []byte) {
	if merr != nil {
		// Marshalling a slice of plain structs does not fail in practice;
		// treat it like a failed save rather than crashing.
		s.logger.Error().Err(merr).Msg("document serialization failed")
		return false, nil
	}

	start := time.Now()
	err := s.gw.Put(ctx, doc)
	metrics.ObserveGatewayOp("put", time.Since(start), err)
	if err == nil {
		if s.spool != nil {
			if cerr := s.spool.Clear(); cerr != nil {
				s.logger.Warn().Err(cerr).Msg("clearing pending spool failed")
			}
		}
		return true, nil
	}

	s.logger.Warn().Err(err).Msg("document save failed, remote state is now stale")
	if s.spool != nil {
		if serr := s.spool.Save(doc); serr != nil {
			s.logger.Error().Err(serr).Msg("spooling pending document failed")
		}
	}
	return false, doc
}
