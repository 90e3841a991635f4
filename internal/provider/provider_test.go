package provider

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phoneloc/internal/notify"
	"github.com/roach88/phoneloc/internal/queryir"
	"github.com/roach88/phoneloc/internal/route"
	"github.com/roach88/phoneloc/internal/store"
	"github.com/roach88/phoneloc/internal/testutil"
)

type fixture struct {
	p      *Provider
	s      *store.Store
	marker *testutil.RecordingHook
	logs   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	marker := &testutil.RecordingHook{}
	n := notify.New(notify.WithBackupMarker(marker))

	s, err := store.Open(filepath.Join(t.TempDir(), "phoneloc.db"),
		store.WithClock(testutil.NewDeterministicClock(0, 1)),
		store.WithChangeHook(n),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	return &fixture{p: New(s, WithLogger(logger)), s: s, marker: marker, logs: logs}
}

func TestProvider_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := route.NumberAddress("5551234")

	count, err := f.p.Update(ctx, addr, store.Values{"location": "CityA", "phone_type": 1, "engine_type": 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = f.p.Update(ctx, addr, store.Values{"location": "CityB"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	recs, err := f.p.Query(ctx, addr, store.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "CityB", recs[0].Location)
	assert.Equal(t, int64(1), recs[0].PhoneType)

	assert.Equal(t, 2, f.marker.Marks(), "one backup mark per committed change")
}

func TestProvider_Insert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, inserted, err := f.p.Insert(ctx, route.CollectionAddress, store.Values{"number": "1", "location": "CityA"})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "/phonelocation/1", item)

	item, inserted, err = f.p.Insert(ctx, route.CollectionAddress, store.Values{"number": "1", "location": "CityB"})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Empty(t, item)
	assert.Equal(t, 1, f.marker.Marks())

	recs, err := f.p.Query(ctx, route.ItemAddress(1), store.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "CityA", recs[0].Location)
}

func TestProvider_FaultKinds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.p.Query(ctx, "/phonelocation/bogus/x", store.QueryOptions{})
	assert.True(t, IsRouting(err))
	assert.ErrorIs(t, err, store.ErrNoMatch)

	_, _, err = f.p.Insert(ctx, route.ItemAddress(1), store.Values{"number": "1"})
	assert.True(t, IsMisuse(err))

	_, err = f.p.Update(ctx, route.NumberAddress("1"), store.Values{"location": "x"}, queryir.Equals{Field: "location", Value: "y"})
	assert.True(t, IsMisuse(err))
	assert.ErrorIs(t, err, store.ErrUnsupported)

	_, err = f.p.Update(ctx, route.ItemAddress(1), store.Values{"location": "x"}, nil)
	assert.True(t, IsMisuse(err))

	_, err = f.p.Update(ctx, route.LocationAddress("CityA"), store.Values{"location": "x"}, nil)
	assert.True(t, IsMisuse(err))

	_, err = f.p.Query(ctx, route.CollectionAddress, store.QueryOptions{Filter: queryir.Equals{Field: "nope", Value: 1}})
	assert.True(t, IsValidation(err))

	_, _, err = f.p.Insert(ctx, route.CollectionAddress, store.Values{"location": "no number"})
	assert.True(t, IsValidation(err))

	var fault *Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, "insert", fault.Op)
	assert.Equal(t, route.CollectionAddress, fault.Address)

	assert.Zero(t, f.marker.Marks())
}

func TestProvider_UpdateRejectsEmptyValues(t *testing.T) {
	f := newFixture(t)

	for _, v := range []store.Values{nil, {}} {
		count, err := f.p.Update(context.Background(), "/not/routable", v, nil)
		assert.Zero(t, count)
		assert.True(t, IsValidation(err), "checked before routing")
	}
}

func TestProvider_QueryStorageFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	_, err := f.s.DB().Exec("DROP TABLE location")
	require.NoError(t, err)

	recs, err := f.p.Query(context.Background(), route.CollectionAddress, store.QueryOptions{})
	assert.Nil(t, recs)
	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.Contains(t, f.logs.String(), "query failed")
}

func TestProvider_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.p.Insert(ctx, route.CollectionAddress, store.Values{"number": "1"})
	require.NoError(t, err)

	assert.Zero(t, f.p.Delete(ctx, route.CollectionAddress, nil))
	assert.Zero(t, f.p.Delete(ctx, route.NumberAddress("1"), nil))
	assert.Zero(t, f.p.Delete(ctx, "/junk", nil))

	recs, err := f.p.Query(ctx, route.CollectionAddress, store.QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 1, f.marker.Marks())
}

func TestProvider_Type(t *testing.T) {
	f := newFixture(t)

	for _, addr := range []string{
		route.CollectionAddress,
		route.ItemAddress(9),
		route.NumberAddress("1"),
		route.PhoneTypeAddress("1"),
		route.LocationAddress("CityA"),
		"content://phonelocation/bynumber/1",
	} {
		assert.Equal(t, ItemType, f.p.Type(addr), addr)
	}
	assert.Empty(t, f.p.Type("/phonelocation/0"))
	assert.Empty(t, f.p.Type("/other"))
}

func TestFault_Error(t *testing.T) {
	f := &Fault{Kind: KindMisuse, Op: "update", Address: "/phonelocation/bynumber/1", Err: store.ErrUnsupported}
	assert.Equal(t, "MISUSE: update /phonelocation/bynumber/1: unsupported operation", f.Error())
	assert.False(t, IsMisuse(errors.New("plain")))
}
