package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "meshes.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0644))

	w, err := New(nil, target)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(target, []byte("[{}]"), 0644))

	select {
	case name := <-w.Changes():
		assert.Equal(t, target, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := New(nil, filepath.Join(t.TempDir(), "meshes.json"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, open := <-w.Changes()
	assert.False(t, open)
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := New(nil, filepath.Join(t.TempDir(), "nope", "meshes.json"))
	assert.ErrorContains(t, err, "watch:")
}
