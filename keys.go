package clouddrop

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"
)

// NewObjectKey builds the storage key for an uploaded file:
// <YYYY-MM-DD>/<epoch-millis>-<filename>. The date prefix is the UTC
// calendar day of now, which is what the timeline groups on. The filename
// is flattened to its base name so client-supplied paths cannot escape
// the date bucket.
func NewObjectKey(now time.Time, filename string) string {
	return fmt.Sprintf("%s/%d-%s", now.UTC().Format(time.DateOnly), now.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename reduces a client-supplied filename to a safe single
// path segment. Backslashes are treated as separators too, since browser
// uploads from Windows may carry them.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == "" {
		return "unnamed"
	}
	return name
}

// IsValidKey validates that a key string is acceptable for direct object
// access. It checks that the key:
//   - is not empty, ".", or "/"
//   - is relative (does not start with "/")
//   - does not end with "/"
//   - does not contain ".." (path traversal)
//   - does not contain "//" (empty segments)
//   - does not contain "." segments (/., /./, or ending with /.)
//   - is valid UTF-8
//   - does not contain null bytes, control characters (< 0x20), or DEL
//
// Unlike a strict path validator it allows spaces, which show up in
// ordinary uploaded filenames.
func IsValidKey(k string) bool {
	if k == "" || k == "/" || k == "." {
		return false
	}

	if k[0] == '/' {
		return false
	}

	if strings.HasSuffix(k, "/") {
		return false
	}

	if strings.Contains(k, "..") {
		return false
	}

	if strings.Contains(k, "//") {
		return false
	}

	if !utf8.ValidString(k) {
		return false
	}

	if strings.HasPrefix(k, "./") || strings.Contains(k, "/./") || strings.HasSuffix(k, "/.") {
		return false
	}

	for _, r := range k {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}
