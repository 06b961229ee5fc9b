package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clouddrop/clouddrop"
)

const defaultListLimit = 100

// Get retrieves the record for a key. Returns clouddrop.ErrNotFound if
// the key does not exist.
func (ix *Index) Get(ctx context.Context, key string) (clouddrop.ObjectRecord, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT key, size, etag, content_type, uploaded_at FROM %s WHERE key = ?`, ix.table)

	var rec clouddrop.ObjectRecord
	var uploadedAt string

	err := ix.db.QueryRowContext(ctx, query, key).Scan(
		&rec.Key, &rec.Size, &rec.ETag, &rec.ContentType, &uploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return clouddrop.ObjectRecord{}, clouddrop.ErrNotFound
		}
		return clouddrop.ObjectRecord{}, fmt.Errorf("get: %w", err)
	}

	rec.Uploaded, err = time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return clouddrop.ObjectRecord{}, fmt.Errorf("get: parse uploaded_at: %w", err)
	}

	return rec, nil
}

// Upsert creates or replaces the record for rec.Key and reports whether
// a new record was created. An overwrite replaces every field, including
// the upload timestamp.
func (ix *Index) Upsert(ctx context.Context, rec clouddrop.ObjectRecord) (clouddrop.ObjectRecord, bool, error) {
	var existing string
	checkQuery := fmt.Sprintf(`SELECT key FROM %s WHERE key = ?`, ix.table) //nolint:gosec // table name is validated

	err := ix.db.QueryRowContext(ctx, checkQuery, rec.Key).Scan(&existing)
	isInsert := errors.Is(err, sql.ErrNoRows)
	if err != nil && !isInsert {
		return clouddrop.ObjectRecord{}, false, fmt.Errorf("upsert: check existing: %w", err)
	}

	uploadedAt := rec.Uploaded.UTC().Format(time.RFC3339Nano)

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (key, size, etag, content_type, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			size = excluded.size,
			etag = excluded.etag,
			content_type = excluded.content_type,
			uploaded_at = excluded.uploaded_at`, ix.table)

	if _, err := ix.db.ExecContext(ctx, query, rec.Key, rec.Size, rec.ETag, rec.ContentType, uploadedAt); err != nil {
		return clouddrop.ObjectRecord{}, false, fmt.Errorf("upsert: %w", err)
	}

	rec.Uploaded = rec.Uploaded.UTC()

	return rec, isInsert, nil
}

// Delete removes the record for a key. Returns clouddrop.ErrNotFound if
// the key does not exist.
func (ix *Index) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, ix.table) //nolint:gosec // table name is validated

	result, err := ix.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", clouddrop.ErrNotFound)
	}

	return nil
}

// List retrieves one page of records matching the query, ordered by key.
// It fetches limit+1 rows to detect whether another page exists; the
// returned page's NextCursor is empty once the listing is exhausted.
func (ix *Index) List(ctx context.Context, q clouddrop.ListQuery) (clouddrop.ListPage, error) {
	afterKey, err := DecodeCursor(q.Cursor)
	if err != nil {
		return clouddrop.ListPage{}, fmt.Errorf("list: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	escapedPrefix := EscapeLikePattern(q.Prefix)

	var query string
	var args []any

	if afterKey == "" {
		query = fmt.Sprintf(`
			SELECT key, size, etag, content_type, uploaded_at
			FROM %s
			WHERE key LIKE ? || '%%' ESCAPE '\'
			ORDER BY key
			LIMIT ?
		`, ix.table)
		args = []any{escapedPrefix, limit + 1}
	} else {
		query = fmt.Sprintf(`
			SELECT key, size, etag, content_type, uploaded_at
			FROM %s
			WHERE key LIKE ? || '%%' ESCAPE '\' AND key > ?
			ORDER BY key
			LIMIT ?
		`, ix.table)
		args = []any{escapedPrefix, afterKey, limit + 1}
	}

	rows, err := ix.db.QueryContext(ctx, query, args...)
	if err != nil {
		return clouddrop.ListPage{}, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]clouddrop.ObjectRecord, 0, limit)
	for rows.Next() {
		var rec clouddrop.ObjectRecord
		var uploadedAt string

		if scanErr := rows.Scan(&rec.Key, &rec.Size, &rec.ETag, &rec.ContentType, &uploadedAt); scanErr != nil {
			return clouddrop.ListPage{}, fmt.Errorf("list: scan: %w", scanErr)
		}

		var parseErr error
		rec.Uploaded, parseErr = time.Parse(time.RFC3339Nano, uploadedAt)
		if parseErr != nil {
			return clouddrop.ListPage{}, fmt.Errorf("list: parse uploaded_at: %w", parseErr)
		}

		items = append(items, rec)
	}

	if err := rows.Err(); err != nil {
		return clouddrop.ListPage{}, fmt.Errorf("list: rows: %w", err)
	}

	var nextCursor string
	if len(items) > limit {
		// Cursor points to the last item of the current page
		nextCursor = EncodeCursor(items[limit-1].Key)
		items = items[:limit]
	}

	return clouddrop.ListPage{Items: items, NextCursor: nextCursor}, nil
}
