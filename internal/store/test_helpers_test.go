package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/phoneloc/internal/route"
	"github.com/roach88/phoneloc/internal/testutil"
)

var router = route.NewDefault()

// createTestStore opens a fresh store in a temp dir with a deterministic
// clock and a recording change hook.
func createTestStore(t *testing.T, opts ...Option) (*Store, *testutil.RecordingHook) {
	t.Helper()
	hook := &testutil.RecordingHook{}
	path := filepath.Join(t.TempDir(), "test.db")
	all := append([]Option{
		WithClock(testutil.NewDeterministicClock(1_700_000_000_000, 1000)),
		WithChangeHook(hook),
	}, opts...)
	s, err := Open(path, all...)
	require.NoError(t, err, "Open() failed")
	t.Cleanup(func() { s.Close() })
	return s, hook
}

// mustInsert inserts v through the collection address and returns the id.
func mustInsert(t *testing.T, s *Store, v Values) int64 {
	t.Helper()
	id, inserted, err := s.Insert(context.Background(), router.Resolve(route.CollectionAddress), v)
	require.NoError(t, err)
	require.True(t, inserted, "expected %v to be inserted", v)
	return id
}

// queryAddress runs a default query against address.
func queryAddress(t *testing.T, s *Store, address string) []Record {
	t.Helper()
	recs, err := s.Query(context.Background(), router.Resolve(address), QueryOptions{})
	require.NoError(t, err)
	return recs
}
