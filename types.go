package clouddrop

import "time"

// ObjectRecord is the metadata the bucket keeps for one stored object.
// Uploaded is refreshed on every overwrite of the same key.
type ObjectRecord struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ETag        string    `json:"etag"`
	ContentType string    `json:"contentType"`
	Uploaded    time.Time `json:"uploaded"`
}

// TimelineEntry is the per-object view the timeline exposes. Field names
// match the wire format the app consumes.
type TimelineEntry struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	Uploaded    time.Time `json:"uploaded"`
	ContentType string    `json:"contentType"`
}

// Timeline maps a YYYY-MM-DD date bucket to its entries, newest first.
// It is rebuilt from a full listing on every request and never persisted.
type Timeline map[string][]TimelineEntry

// ListQuery selects a page of object records from the index.
type ListQuery struct {
	Prefix string
	Limit  int
	Cursor string
}

// ListPage is one page of a listing. An empty NextCursor means the
// listing is exhausted.
type ListPage struct {
	Items      []ObjectRecord `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// SaveResult reports the outcome of writing a blob.
type SaveResult struct {
	BytesWritten int64
	ETag         string
}
