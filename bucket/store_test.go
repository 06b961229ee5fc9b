package bucket_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clouddrop/clouddrop"
	"github.com/clouddrop/clouddrop/bucket"
)

func newStore(t *testing.T) (*bucket.Store, string) {
	t.Helper()
	tempDir := t.TempDir()
	root, err := os.OpenRoot(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return bucket.NewStore(root), tempDir
}

func TestStore_Open_Success(t *testing.T) {
	store, tempDir := newStore(t)

	content := []byte("test content")
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "test.txt"), content, 0o644))

	rc, err := store.Open(context.Background(), "test.txt")
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, content, data)
	assert.NoError(t, rc.Close())
}

func TestStore_Open_NotFound(t *testing.T) {
	store, _ := newStore(t)

	rc, err := store.Open(context.Background(), "nonexistent.txt")

	assert.Nil(t, rc)
	assert.ErrorIs(t, err, clouddrop.ErrNotFound)
}

func TestStore_Open_ContextCanceled(t *testing.T) {
	store, _ := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Open(ctx, "test.txt")
	assert.Equal(t, context.Canceled, err)
}

func TestStore_Write_Success(t *testing.T) {
	store, tempDir := newStore(t)

	result, err := store.Write(context.Background(), "test.txt", bytes.NewReader([]byte("test content")))

	require.NoError(t, err)
	assert.Equal(t, int64(12), result.BytesWritten)
	assert.Len(t, result.ETag, 64) // SHA256 hex length

	data, err := os.ReadFile(filepath.Join(tempDir, "test.txt"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("test content"), data)
}

func TestStore_Write_CreatesDateDirectory(t *testing.T) {
	store, tempDir := newStore(t)

	_, err := store.Write(context.Background(), "2024-03-01/1709287200000-a.png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tempDir, "2024-03-01", "1709287200000-a.png"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestStore_Write_OverwritesExisting(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	first, err := store.Write(ctx, "test.txt", bytes.NewReader([]byte("old content")))
	require.NoError(t, err)

	second, err := store.Write(ctx, "test.txt", bytes.NewReader([]byte("new")))
	require.NoError(t, err)
	assert.NotEqual(t, first.ETag, second.ETag)

	rc, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	data, _ := io.ReadAll(rc)
	assert.Equal(t, "new", string(data))
}

func TestStore_Write_LeavesNoTempFileOnCancel(t *testing.T) {
	store, tempDir := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Write(ctx, "test.txt", bytes.NewReader([]byte("data")))
	assert.Error(t, err)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Remove(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, err := store.Write(ctx, "test.txt", bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	assert.NoError(t, store.Remove(ctx, "test.txt"))
	assert.ErrorIs(t, store.Remove(ctx, "test.txt"), clouddrop.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, err := store.Write(ctx, "2024-03-01/1-a.png", bytes.NewReader([]byte("png data")))
	require.NoError(t, err)
	_, err = store.Write(ctx, "loose.txt", bytes.NewReader([]byte("text")))
	require.NoError(t, err)

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byKey := make(map[string]clouddrop.ObjectRecord, len(records))
	for _, rec := range records {
		byKey[rec.Key] = rec
	}

	png, ok := byKey["2024-03-01/1-a.png"]
	require.True(t, ok)
	assert.Equal(t, int64(8), png.Size)
	assert.Equal(t, "image/png", png.ContentType)
	assert.Len(t, png.ETag, 64)
	assert.False(t, png.Uploaded.IsZero())

	txt, ok := byKey["loose.txt"]
	require.True(t, ok)
	assert.Equal(t, "text/plain; charset=utf-8", txt.ContentType)
}

func TestStore_List_Empty(t *testing.T) {
	store, _ := newStore(t)

	records, err := store.List(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, records)
}
