package notify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMarker_CreatesAndTouches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phoneloc.changed")
	m := &FileMarker{Path: path}

	m.DataChanged()
	_, err := os.Stat(path)
	require.NoError(t, err)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	m.DataChanged()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(old))
}

func TestFileMarker_FailureDoesNotPanic(t *testing.T) {
	m := &FileMarker{Path: filepath.Join(t.TempDir(), "missing", "dir", "marker")}
	assert.NotPanics(t, m.DataChanged)
}
