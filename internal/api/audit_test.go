// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsvideo/console/internal/audit"
)

func newTestTrail(t *testing.T) *audit.Trail {
	t.Helper()
	trail, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = trail.Close() })
	return trail
}

func TestAuditEndpointReturnsRecentEvents(t *testing.T) {
	trail := newTestTrail(t)
	trail.Record(context.Background(), audit.Event{Op: audit.OpCreate, RecordID: "id-1", Actor: "admin", Result: "persisted"})
	trail.Record(context.Background(), audit.Event{Op: audit.OpDelete, RecordID: "id-1", Actor: "admin", Result: "persisted"})

	env := newTestEnv(t, WithAudit(trail))
	token := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/audit", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var events []audit.Event
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&events))
	require.Len(t, events, 2)

	// Newest first.
	require.Equal(t, audit.OpDelete, events[0].Op)
	require.Equal(t, audit.OpCreate, events[1].Op)
	require.Equal(t, "admin", events[0].Actor)
}

func TestAuditEndpointHonorsLimit(t *testing.T) {
	trail := newTestTrail(t)
	for _, id := range []string{"a", "b", "c"} {
		trail.Record(context.Background(), audit.Event{Op: audit.OpCreate, RecordID: id, Actor: "admin", Result: "persisted"})
	}

	env := newTestEnv(t, WithAudit(trail))
	token := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/audit?limit=2", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var events []audit.Event
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&events))
	require.Len(t, events, 2)
	require.Equal(t, "c", events[0].RecordID)
}

func TestAuditEndpointRequiresToken(t *testing.T) {
	env := newTestEnv(t, WithAudit(newTestTrail(t)))

	rr := env.do(t, http.MethodGet, "/api/audit", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuditEndpointWithoutTrail(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/audit", token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
