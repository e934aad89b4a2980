// SPDX-License-Identifier: MIT

package spool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSpool(t *testing.T) *Spool {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSpoolEmptyByDefault(t *testing.T) {
	s := openTestSpool(t)
	_, _, err := s.Latest()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestSpoolSaveAndLatest(t *testing.T) {
	s := openTestSpool(t)
	before := time.Now().Add(-time.Second)

	require.NoError(t, s.Save([]byte(`[{"id":"1"}]`)))

	doc, ts, err := s.Latest()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(doc))
	assert.True(t, ts.After(before), "timestamp should be recent")
}

func TestSpoolKeepsNewestOnly(t *testing.T) {
	s := openTestSpool(t)
	require.NoError(t, s.Save([]byte(`["old"]`)))
	require.NoError(t, s.Save([]byte(`["new"]`)))

	doc, _, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, string(doc))
}

func TestSpoolClear(t *testing.T) {
	s := openTestSpool(t)
	require.NoError(t, s.Save([]byte(`[]`)))
	require.NoError(t, s.Clear())

	_, _, err := s.Latest()
	require.ErrorIs(t, err, ErrEmpty)

	// Clearing an already empty spool is fine.
	require.NoError(t, s.Clear())
}
