package index

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeCursor encodes an object key into an opaque pagination cursor.
// Listings order by key, so the key alone identifies the page boundary.
func EncodeCursor(key string) string {
	return base64.StdEncoding.EncodeToString([]byte(key))
}

// DecodeCursor decodes a pagination cursor back into an object key. An
// empty cursor decodes to an empty key, meaning the first page.
func DecodeCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return "", fmt.Errorf("invalid cursor: invalid encoding: %w", err)
	}

	key := string(raw)
	if key == "" {
		return "", fmt.Errorf("invalid cursor: empty key")
	}

	return key, nil
}

// EscapeLikePattern escapes LIKE wildcards so prefixes match literally.
// The queries using the result declare backslash as the escape character.
func EscapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
