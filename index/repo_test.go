package index_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clouddrop/clouddrop"
	"github.com/clouddrop/clouddrop/index"
)

// setupTestIndex opens an index on a throwaway database file. A file DSN
// keeps every pooled connection on the same database, unlike ":memory:".
func setupTestIndex(t *testing.T) *index.Index {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "index.db")

	ix, err := index.Open(context.Background(), index.Config{DSN: dsn, Table: "objects"})
	require.NoError(t, err, "failed to open index")

	t.Cleanup(func() { _ = ix.Close() })

	return ix
}

func record(key string, uploaded time.Time) clouddrop.ObjectRecord {
	return clouddrop.ObjectRecord{
		Key:         key,
		Size:        42,
		ETag:        "etag-" + key,
		ContentType: "application/octet-stream",
		Uploaded:    uploaded,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     index.Config
		wantErr bool
	}{
		{name: "valid", cfg: index.Config{DSN: "clouddrop.db", Table: "objects"}},
		{name: "empty dsn", cfg: index.Config{Table: "objects"}, wantErr: true},
		{name: "empty table", cfg: index.Config{DSN: "clouddrop.db"}, wantErr: true},
		{name: "uppercase table", cfg: index.Config{DSN: "clouddrop.db", Table: "Objects"}, wantErr: true},
		{name: "table with semicolon", cfg: index.Config{DSN: "clouddrop.db", Table: "objects; drop"}, wantErr: true},
		{name: "table starting with digit", cfg: index.Config{DSN: "clouddrop.db", Table: "1objects"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIndex_Get(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	uploaded := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := record("2024-03-01/1709287200000-a.png", uploaded)

	_, created, err := ix.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)

	t.Run("existing key", func(t *testing.T) {
		got, err := ix.Get(ctx, rec.Key)
		require.NoError(t, err)
		assert.Equal(t, rec.Key, got.Key)
		assert.Equal(t, rec.Size, got.Size)
		assert.Equal(t, rec.ETag, got.ETag)
		assert.Equal(t, rec.ContentType, got.ContentType)
		assert.True(t, uploaded.Equal(got.Uploaded))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := ix.Get(ctx, "2024-03-01/nope.png")
		assert.ErrorIs(t, err, clouddrop.ErrNotFound)
	})
}

func TestIndex_Upsert_Overwrite(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	first := record("2024-03-01/1-a.txt", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	_, created, err := ix.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := first
	second.Size = 99
	second.ETag = "new-etag"
	second.Uploaded = time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	_, created, err = ix.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, created, "overwrite should not report a new record")

	got, err := ix.Get(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Size)
	assert.Equal(t, "new-etag", got.ETag)
	assert.True(t, second.Uploaded.Equal(got.Uploaded), "overwrite should refresh uploaded_at")
}

func TestIndex_Delete(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	rec := record("2024-03-01/1-a.txt", time.Now().UTC())
	_, _, err := ix.Upsert(ctx, rec)
	require.NoError(t, err)

	require.NoError(t, ix.Delete(ctx, rec.Key))

	_, err = ix.Get(ctx, rec.Key)
	assert.ErrorIs(t, err, clouddrop.ErrNotFound)

	err = ix.Delete(ctx, rec.Key)
	assert.ErrorIs(t, err, clouddrop.ErrNotFound)
}

func TestIndex_List_Pagination(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		rec := record(fmt.Sprintf("2024-03-01/%d-file.txt", i), base.Add(time.Duration(i)*time.Minute))
		_, _, err := ix.Upsert(ctx, rec)
		require.NoError(t, err)
	}

	page1, err := ix.List(ctx, clouddrop.ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := ix.List(ctx, clouddrop.ListQuery{Limit: 2, Cursor: page1.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	require.NotEmpty(t, page2.NextCursor)

	page3, err := ix.List(ctx, clouddrop.ListQuery{Limit: 2, Cursor: page2.NextCursor})
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.Empty(t, page3.NextCursor, "last page should have no cursor")

	var keys []string
	for _, page := range []clouddrop.ListPage{page1, page2, page3} {
		for _, item := range page.Items {
			keys = append(keys, item.Key)
		}
	}
	assert.IsIncreasing(t, keys, "pages should walk keys in order without repeats")
}

func TestIndex_List_PrefixFilter(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, key := range []string{"2024-03-01/1-a.txt", "2024-03-01/2-b.txt", "2024-03-02/3-c.txt"} {
		_, _, err := ix.Upsert(ctx, record(key, now))
		require.NoError(t, err)
	}

	page, err := ix.List(ctx, clouddrop.ListQuery{Prefix: "2024-03-01/", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Empty(t, page.NextCursor)
}

func TestIndex_List_PrefixWithWildcards(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	now := time.Now().UTC()
	_, _, err := ix.Upsert(ctx, record("reports/100%_done.txt", now))
	require.NoError(t, err)
	_, _, err = ix.Upsert(ctx, record("reports/100x-done.txt", now))
	require.NoError(t, err)

	page, err := ix.List(ctx, clouddrop.ListQuery{Prefix: "reports/100%", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "reports/100%_done.txt", page.Items[0].Key)
}

func TestIndex_List_InvalidCursor(t *testing.T) {
	ix := setupTestIndex(t)

	_, err := ix.List(context.Background(), clouddrop.ListQuery{Limit: 10, Cursor: "not-base64!!!"})
	assert.Error(t, err)
}

func TestIndex_List_Empty(t *testing.T) {
	ix := setupTestIndex(t)

	page, err := ix.List(context.Background(), clouddrop.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.NextCursor)
}

func TestOpen_ReopenExistingDatabase(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	ix, err := index.Open(ctx, index.Config{DSN: dsn, Table: "objects"})
	require.NoError(t, err)

	_, _, err = ix.Upsert(ctx, record("keep.txt", time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	reopened, err := index.Open(ctx, index.Config{DSN: dsn, Table: "objects"})
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep.txt", got.Key)
}
