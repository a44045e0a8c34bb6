package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreGetBeforeAnyWrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "tracker")
	require.NoError(t, err)

	_, err = store.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "tracker")
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte(`{"students":[]}`)
	require.NoError(t, store.Set(ctx, payload))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Overwrites replace the whole blob.
	require.NoError(t, store.Set(ctx, []byte(`{}`)))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got)
}

func TestFileStoreLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "tracker")
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tracker.json", entries[0].Name())
}

func TestFileStoreCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileStore(dir, "tracker")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, []byte("abc")))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
	assert.Equal(t, 1, store.Writes())

	// Returned slice is a copy; mutating it must not corrupt the stored blob.
	got[0] = 'z'
	again, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
