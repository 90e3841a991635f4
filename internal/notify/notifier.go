package notify

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/phoneloc/internal/route"
)

// Change describes one committed mutation.
type Change struct {
	// ID is a UUIDv7, time-ordered across changes.
	ID string

	// Address is the address the mutation was requested on.
	Address string

	// Seq increases by one per Notify call, starting at 1.
	Seq uint64
}

// Observer receives changes.
type Observer interface {
	OnChange(Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Change)

// OnChange calls f(c).
func (f ObserverFunc) OnChange(c Change) { f(c) }

// BackupMarker is told that persisted data changed and a backup is due.
type BackupMarker interface {
	DataChanged()
}

// Handle identifies a registration for Unregister.
type Handle uint64

type registration struct {
	handle      Handle
	address     string
	segments    []string
	descendants bool
	observer    Observer
}

// Notifier implements store.ChangeHook.
//
// Thread-safety: Register, Unregister and Notify are safe for concurrent use.
// Observers are called outside the registration lock, on the goroutine that
// called Notify.
type Notifier struct {
	router  *route.Router
	marker  BackupMarker
	metrics *Metrics
	logger  *slog.Logger

	mu     sync.RWMutex
	next   Handle
	seq    uint64
	byHand map[Handle]registration
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithBackupMarker sets the backup marker invoked once per change.
func WithBackupMarker(m BackupMarker) Option {
	return func(n *Notifier) { n.marker = m }
}

// WithMetrics records change counts in m.
func WithMetrics(m *Metrics) Option {
	return func(n *Notifier) { n.metrics = m }
}

// WithRouter sets the router used to label changes by pattern.
func WithRouter(r *route.Router) Option {
	return func(n *Notifier) { n.router = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// New creates a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		router: route.NewDefault(),
		logger: slog.Default(),
		byHand: make(map[Handle]registration),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Register subscribes o to changes covering address. With descendants set, o
// also sees changes to any address below address.
func (n *Notifier) Register(address string, descendants bool, o Observer) (Handle, error) {
	if o == nil {
		return 0, fmt.Errorf("register %q: nil observer", address)
	}
	segs, ok := route.Segments(address)
	if !ok {
		return 0, fmt.Errorf("register %q: malformed address", address)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	h := n.next
	n.byHand[h] = registration{
		handle:      h,
		address:     address,
		segments:    segs,
		descendants: descendants,
		observer:    o,
	}
	return h, nil
}

// Unregister removes a registration. It reports whether h was registered.
func (n *Notifier) Unregister(h Handle) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.byHand[h]; !ok {
		return false
	}
	delete(n.byHand, h)
	return true
}

// Notify publishes a change for address. An empty address means the whole
// collection.
func (n *Notifier) Notify(address string) {
	if address == "" {
		address = route.CollectionAddress
	}
	changed, ok := route.Segments(address)

	n.mu.Lock()
	n.seq++
	change := Change{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Address: address,
		Seq:     n.seq,
	}
	var targets []registration
	if ok {
		for _, reg := range n.byHand {
			if covers(reg, changed) {
				targets = append(targets, reg)
			}
		}
	}
	n.mu.Unlock()

	// Registration order.
	sort.Slice(targets, func(i, j int) bool { return targets[i].handle < targets[j].handle })
	for _, reg := range targets {
		reg.observer.OnChange(change)
	}

	if n.marker != nil {
		n.marker.DataChanged()
		n.metrics.recordBackupMark()
	}

	pattern := n.router.Resolve(address).Pattern
	n.metrics.recordChange(pattern.String())

	n.logger.Debug("change published",
		"change_id", change.ID,
		"seq", change.Seq,
		"address", address,
		"pattern", pattern.String(),
		"observers", len(targets),
	)
}

// Observers returns the number of live registrations.
func (n *Notifier) Observers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.byHand)
}

// covers reports whether reg should see a change to the changed segments.
func covers(reg registration, changed []string) bool {
	switch {
	case len(reg.segments) == len(changed):
		return hasPrefix(changed, reg.segments)
	case len(reg.segments) < len(changed):
		return reg.descendants && hasPrefix(changed, reg.segments)
	default:
		return hasPrefix(reg.segments, changed)
	}
}

func hasPrefix(segs, prefix []string) bool {
	if len(prefix) > len(segs) {
		return false
	}
	for i, p := range prefix {
		if segs[i] != p {
			return false
		}
	}
	return true
}
