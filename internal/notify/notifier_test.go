package notify

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phoneloc/internal/route"
	phtestutil "github.com/roach88/phoneloc/internal/testutil"
)

// collector records the changes it sees.
type collector struct {
	mu      sync.Mutex
	changes []Change
}

func (c *collector) OnChange(ch Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, ch)
}

func (c *collector) addresses() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.changes))
	for i, ch := range c.changes {
		out[i] = ch.Address
	}
	return out
}

func register(t *testing.T, n *Notifier, address string, descendants bool) *collector {
	t.Helper()
	c := &collector{}
	_, err := n.Register(address, descendants, c)
	require.NoError(t, err)
	return c
}

func TestNotify_ExactAddress(t *testing.T) {
	n := New()
	item := register(t, n, route.ItemAddress(3), false)
	other := register(t, n, route.ItemAddress(4), false)

	n.Notify(route.ItemAddress(3))

	assert.Equal(t, []string{route.ItemAddress(3)}, item.addresses())
	assert.Empty(t, other.addresses())
}

func TestNotify_AncestorNeedsDescendants(t *testing.T) {
	n := New()
	deep := register(t, n, route.CollectionAddress, true)
	shallow := register(t, n, route.CollectionAddress, false)

	n.Notify(route.NumberAddress("5551234"))

	assert.Len(t, deep.addresses(), 1)
	assert.Empty(t, shallow.addresses())
}

func TestNotify_DescendantObserversSeeParentChange(t *testing.T) {
	n := New()
	item := register(t, n, route.ItemAddress(7), false)
	byNumber := register(t, n, route.NumberAddress("1"), false)

	n.Notify(route.CollectionAddress)

	assert.Len(t, item.addresses(), 1)
	assert.Len(t, byNumber.addresses(), 1)
}

func TestNotify_EmptyAddressMeansCollection(t *testing.T) {
	n := New()
	c := register(t, n, route.CollectionAddress, false)

	n.Notify("")

	assert.Equal(t, []string{route.CollectionAddress}, c.addresses())
}

func TestNotify_SchemeFormEquivalent(t *testing.T) {
	n := New()
	c := register(t, n, "content://phonelocation/3", false)

	n.Notify("/phonelocation/3")

	assert.Len(t, c.addresses(), 1)
}

func TestNotify_ChangeIdentity(t *testing.T) {
	n := New()
	c := register(t, n, route.CollectionAddress, true)

	n.Notify(route.CollectionAddress)
	n.Notify(route.ItemAddress(1))

	require.Len(t, c.changes, 2)
	assert.Equal(t, uint64(1), c.changes[0].Seq)
	assert.Equal(t, uint64(2), c.changes[1].Seq)
	assert.NotEqual(t, c.changes[0].ID, c.changes[1].ID)

	id, err := uuid.Parse(c.changes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNotify_BackupMarkedOncePerChange(t *testing.T) {
	marker := &phtestutil.RecordingHook{}
	n := New(WithBackupMarker(marker))
	register(t, n, route.CollectionAddress, true)
	register(t, n, route.ItemAddress(1), false)

	n.Notify(route.ItemAddress(1))
	assert.Equal(t, 1, marker.Marks(), "one mark regardless of observer count")

	n.Notify("/not/routable")
	assert.Equal(t, 2, marker.Marks())
}

func TestRegister_Errors(t *testing.T) {
	n := New()

	_, err := n.Register(route.CollectionAddress, false, nil)
	assert.Error(t, err)

	_, err = n.Register("", false, ObserverFunc(func(Change) {}))
	assert.Error(t, err)
}

func TestUnregister(t *testing.T) {
	n := New()
	c := &collector{}
	h, err := n.Register(route.CollectionAddress, true, c)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Observers())

	assert.True(t, n.Unregister(h))
	assert.False(t, n.Unregister(h), "second unregister is a no-op")
	assert.Zero(t, n.Observers())

	n.Notify(route.CollectionAddress)
	assert.Empty(t, c.addresses())
}

func TestNotify_ObserverMayUnregisterItself(t *testing.T) {
	n := New()
	var h Handle
	calls := 0
	h, err := n.Register(route.CollectionAddress, false, ObserverFunc(func(Change) {
		calls++
		n.Unregister(h)
	}))
	require.NoError(t, err)

	n.Notify(route.CollectionAddress)
	n.Notify(route.CollectionAddress)
	assert.Equal(t, 1, calls)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	n := New(WithMetrics(m), WithBackupMarker(&phtestutil.RecordingHook{}))
	n.Notify(route.NumberAddress("1"))
	n.Notify(route.NumberAddress("2"))
	n.Notify(route.CollectionAddress)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.changes.WithLabelValues("by_number")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.changes.WithLabelValues("collection")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.backupMarks))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestNotify_Concurrent(t *testing.T) {
	marker := &phtestutil.RecordingHook{}
	n := New(WithBackupMarker(marker))
	c := register(t, n, route.CollectionAddress, true)

	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Notify(route.ItemAddress(i))
		}()
	}
	wg.Wait()

	assert.Len(t, c.addresses(), 20)
	assert.Equal(t, 20, marker.Marks())
}
