package testutil

import "sync"

// RecordingHook records every address it is notified about.
// It satisfies store.ChangeHook and notify.BackupMarker.
type RecordingHook struct {
	mu        sync.Mutex
	addresses []string
	marks     int
}

// Notify records address.
func (h *RecordingHook) Notify(address string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addresses = append(h.addresses, address)
}

// DataChanged counts a backup mark.
func (h *RecordingHook) DataChanged() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.marks++
}

// Addresses returns a copy of the recorded addresses in call order.
func (h *RecordingHook) Addresses() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.addresses))
	copy(out, h.addresses)
	return out
}

// Count returns how many notifications were recorded.
func (h *RecordingHook) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.addresses)
}

// Marks returns how many backup marks were recorded.
func (h *RecordingHook) Marks() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.marks
}

// Reset clears everything recorded so far.
func (h *RecordingHook) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addresses = nil
	h.marks = 0
}
