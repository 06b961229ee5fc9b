package clientcli

import "time"

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath   string
	ContentType string // optional, auto-detect if empty
	Recursive   bool
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string `json:"local_path"`
	Key       string `json:"key"` // server-assigned object key
	Size      int64  `json:"size_bytes"`
	Err       error  `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	Key       string
	LocalPath string // empty = derive from key, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	Key         string `json:"key"`
	LocalPath   string `json:"local_path"`
	ETag        string `json:"etag"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	Keys []string
}

// DeleteResult represents the result of deleting a single object.
type DeleteResult struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// TimelineEntry mirrors one object in the server's timeline response.
type TimelineEntry struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	Uploaded    time.Time `json:"uploaded"`
	ContentType string    `json:"contentType"`
}

// Timeline maps date buckets (YYYY-MM-DD) to their objects, newest
// first within each bucket.
type Timeline map[string][]TimelineEntry

// TotalObjects counts the objects across all date buckets.
func (t Timeline) TotalObjects() int {
	total := 0
	for _, entries := range t {
		total += len(entries)
	}
	return total
}

// TotalSize sums the object sizes across all date buckets.
func (t Timeline) TotalSize() int64 {
	var total int64
	for _, entries := range t {
		for _, e := range entries {
			total += e.Size
		}
	}
	return total
}

// serverUploadResponse mirrors the JSON response from /api/upload.
type serverUploadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// serverLoginResponse mirrors the JSON response from /api/login.
type serverLoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// serverDeleteResponse mirrors the JSON response from DELETE /<key>.
type serverDeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
