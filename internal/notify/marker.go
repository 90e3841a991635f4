package notify

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

// FileMarker marks data as changed by touching a file. A backup agent
// watching the file's mtime picks up the change.
type FileMarker struct {
	Path   string
	Logger *slog.Logger

	mu sync.Mutex
}

// DataChanged creates Path if missing and sets its modification time to now.
// Failures are logged; a missed mark never fails the write that caused it.
func (m *FileMarker) DataChanged() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := touch(m.Path); err != nil {
		logger := m.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("backup mark failed", "path", m.Path, "error", err)
	}
}

func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	now := time.Now()
	return os.Chtimes(path, now, now)
}
