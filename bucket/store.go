// Package bucket provides a filesystem-backed blob store for clouddrop.
// It supports atomic writes using temp files, SHA256-based etags, and
// content type detection based on file extensions.
package bucket

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/clouddrop/clouddrop"
)

// Store provides blob storage on the local filesystem.
type Store struct {
	root *os.Root
}

// NewStore creates a Store over the given root directory. The root
// provides sandboxed file operations preventing path traversal.
func NewStore(root *os.Root) *Store {
	return &Store{root: root}
}

// Open opens a blob for reading. Returns clouddrop.ErrNotFound if the
// blob does not exist.
func (s *Store) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clouddrop.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}

	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write atomically writes content under key using a temp file and rename.
// It creates intermediate directories as needed and returns a SaveResult
// containing the number of bytes written and the SHA256-based etag. The
// operation respects context cancellation. An existing blob under the
// same key is silently overwritten.
func (s *Store) Write(ctx context.Context, key string, content io.Reader) (clouddrop.SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return clouddrop.SaveResult{}, ctxErr
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return clouddrop.SaveResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(t.Name()); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	written, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return clouddrop.SaveResult{}, fmt.Errorf("could not copy blob contents: %w", err)
	}

	err = t.Sync()
	if err != nil {
		return clouddrop.SaveResult{}, fmt.Errorf("could not sync written blob: %w", err)
	}

	destDir := filepath.Dir(key)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return clouddrop.SaveResult{}, fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, key); renameErr != nil {
		return clouddrop.SaveResult{}, fmt.Errorf("failed to rename blob: %w", renameErr)
	}

	etag := hex.EncodeToString(h.Sum(nil))
	success = true

	return clouddrop.SaveResult{BytesWritten: written, ETag: etag}, nil
}

// Remove deletes a blob. Returns clouddrop.ErrNotFound if the blob does
// not exist.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return clouddrop.ErrNotFound
		}
		return fmt.Errorf("could not delete blob: %w", err)
	}
	return nil
}

// List recursively walks the root directory and returns a record per
// blob, with size, SHA256-based etag, detected content type and the file
// modification time as the upload timestamp. Intended for index rebuilds,
// not for the request path.
func (s *Store) List(ctx context.Context) ([]clouddrop.ObjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []clouddrop.ObjectRecord

	err := s.walkDir(ctx, ".", &records)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	return records, nil
}

func (s *Store) walkDir(ctx context.Context, dir string, records *[]clouddrop.ObjectRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		return err
	}

	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return err
		}

		entryPath := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if err := s.walkDir(ctx, entryPath, records); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("walk dir: %w", err)
		}

		f, err := s.root.Open(entryPath)
		if err != nil {
			return fmt.Errorf("walk dir: %w", err)
		}

		h := sha256.New()
		_, copyErr := io.Copy(h, f)

		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close blob", "key", entryPath, "err", closeErr)
		}

		if copyErr != nil {
			return fmt.Errorf("walk dir: %w", copyErr)
		}

		*records = append(*records, clouddrop.ObjectRecord{
			Key:         filepath.ToSlash(entryPath),
			Size:        info.Size(),
			ETag:        hex.EncodeToString(h.Sum(nil)),
			ContentType: detectContentType(entryPath),
			Uploaded:    info.ModTime().UTC(),
		})
	}

	return nil
}

func detectContentType(key string) string {
	ext := filepath.Ext(key)
	contentType := mime.TypeByExtension(ext)

	if contentType == "" {
		return "application/octet-stream"
	}

	return contentType
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
