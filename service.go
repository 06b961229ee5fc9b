package clouddrop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// MetadataIndex defines the interface for object metadata persistence.
// Implementations must handle concurrent access safely.
//
// All methods accept a context for cancellation and timeout control.
type MetadataIndex interface {
	// Get retrieves the record for a key. Returns ErrNotFound if the key
	// does not exist.
	Get(ctx context.Context, key string) (ObjectRecord, error)

	// Upsert creates or replaces the record for rec.Key and reports
	// whether a new record was created. An overwrite replaces every
	// field, including Uploaded.
	Upsert(ctx context.Context, rec ObjectRecord) (ObjectRecord, bool, error)

	// Delete removes the record for a key. Returns ErrNotFound if the
	// key does not exist.
	Delete(ctx context.Context, key string) error

	// List retrieves one page of records matching the query. The page's
	// NextCursor is empty once the listing is exhausted.
	List(ctx context.Context, q ListQuery) (ListPage, error)
}

// BlobStore defines the interface for physical byte storage.
// Implementations can use the local filesystem, S3, or any other backend.
type BlobStore interface {
	// Open retrieves a blob for reading. Returns ErrNotFound if the blob
	// does not exist. The caller closes the returned ReadSeekCloser.
	Open(ctx context.Context, key string) (io.ReadSeekCloser, error)

	// Write stores content under key, overwriting any existing blob.
	// Implementations should write atomically and compute an ETag during
	// the copy.
	Write(ctx context.Context, key string, content io.Reader) (SaveResult, error)

	// Remove deletes a blob. Returns ErrNotFound if the blob does not
	// exist.
	Remove(ctx context.Context, key string) error

	// List walks the whole store and returns a record per blob, with
	// Uploaded taken from storage metadata. Used for index rebuilds, not
	// on the request path.
	List(ctx context.Context) ([]ObjectRecord, error)
}

// timelinePageSize is the index page size the timeline accumulates over.
const timelinePageSize = 500

// Service implements the file-sharing operations over a metadata index
// and a blob store. It holds no cross-request state; the index and store
// are the only shared resources.
type Service struct {
	index          MetadataIndex
	blobs          BlobStore
	cleanupTimeout time.Duration
}

// ServiceConfig holds configuration options for Service.
type ServiceConfig struct {
	CleanupTimeout time.Duration // Timeout for blob cleanup after a failed upsert (default: 30s)
}

// NewService creates a Service over the given index and blob store.
func NewService(index MetadataIndex, blobs BlobStore, cfg ServiceConfig) *Service {
	cleanupTimeout := cfg.CleanupTimeout
	if cleanupTimeout <= 0 {
		cleanupTimeout = 30 * time.Second
	}
	return &Service{
		index:          index,
		blobs:          blobs,
		cleanupTimeout: cleanupTimeout,
	}
}

// Upload stores one file under a freshly generated date-prefixed key and
// records its metadata. If the metadata upsert fails the stored blob is
// removed again, using a background context so cleanup survives request
// cancellation. Returns the record with the generated key.
func (s *Service) Upload(ctx context.Context, filename, contentType string, content io.Reader) (ObjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return ObjectRecord{}, fmt.Errorf("upload: %w", err)
	}

	if filename == "" {
		return ObjectRecord{}, fmt.Errorf("upload: %w: filename cannot be empty", ErrInvalidInput)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	key := NewObjectKey(now, filename)

	saved, err := s.blobs.Write(ctx, key, content)
	if err != nil {
		return ObjectRecord{}, fmt.Errorf("upload %s: write failed: %w", key, err)
	}

	rec := ObjectRecord{
		Key:         key,
		Size:        saved.BytesWritten,
		ETag:        saved.ETag,
		ContentType: contentType,
		Uploaded:    now.UTC(),
	}

	stored, _, upsertErr := s.index.Upsert(ctx, rec)
	if upsertErr != nil {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), s.cleanupTimeout)
		defer cancel()

		if rmErr := s.blobs.Remove(cleanupCtx, key); rmErr != nil && !errors.Is(rmErr, ErrNotFound) {
			return ObjectRecord{}, fmt.Errorf("upload %s: index upsert failed (%w) and cleanup failed: %w", key, upsertErr, rmErr)
		}
		return ObjectRecord{}, fmt.Errorf("upload %s: index upsert failed: %w", key, upsertErr)
	}

	return stored, nil
}

// Get returns the record and content for one object key.
func (s *Service) Get(ctx context.Context, key string) (ObjectRecord, io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return ObjectRecord{}, nil, fmt.Errorf("get %s: %w", key, err)
	}

	if !IsValidKey(key) {
		return ObjectRecord{}, nil, fmt.Errorf("get %s: %w", key, ErrInvalidInput)
	}

	rec, err := s.index.Get(ctx, key)
	if err != nil {
		return ObjectRecord{}, nil, fmt.Errorf("get %s: %w", key, err)
	}

	content, err := s.blobs.Open(ctx, rec.Key)
	if err != nil {
		return ObjectRecord{}, nil, fmt.Errorf("get %s: %w", key, err)
	}

	return rec, content, nil
}

// Delete removes an object and its metadata. Deleting an absent key is
// not an error: delete is idempotent, mirroring object-store semantics.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	if !IsValidKey(key) {
		return fmt.Errorf("delete %s: %w", key, ErrInvalidInput)
	}

	if err := s.blobs.Remove(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	if err := s.index.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// Timeline lists every object record, accumulating index pages until the
// cursor is exhausted, and groups them into date buckets. The listing is
// not a snapshot: writes racing a timeline request may or may not appear.
func (s *Service) Timeline(ctx context.Context) (Timeline, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}

	var records []ObjectRecord
	cursor := ""

	for {
		page, err := s.index.List(ctx, ListQuery{Limit: timelinePageSize, Cursor: cursor})
		if err != nil {
			return nil, fmt.Errorf("timeline: %w", err)
		}

		records = append(records, page.Items...)

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return BuildTimeline(records), nil
}

// Sync rebuilds the metadata index from a full walk of the blob store.
// It is meant for recovery and initial adoption of an existing storage
// tree, processes records sequentially and stops at the first error.
func (s *Service) Sync(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("sync: %w", err)
	}

	records, err := s.blobs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync: %w", err)
	}

	for i, rec := range records {
		if _, _, upsertErr := s.index.Upsert(ctx, rec); upsertErr != nil {
			return i, fmt.Errorf("sync %s: %w", rec.Key, upsertErr)
		}
	}

	return len(records), nil
}
