package clouddrop

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var dateBucketRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateBucket returns the timeline bucket for one object record. If the
// key's first path segment is a strict YYYY-MM-DD date and the key has at
// least two segments, that segment wins; otherwise the bucket is the UTC
// calendar day of the upload timestamp.
func DateBucket(rec ObjectRecord) string {
	if first, rest, ok := strings.Cut(rec.Key, "/"); ok && rest != "" && dateBucketRegex.MatchString(first) {
		return first
	}
	return rec.Uploaded.UTC().Format(time.DateOnly)
}

// BuildTimeline groups object records into date buckets and sorts each
// bucket by upload time, newest first. Records with equal timestamps keep
// their relative order from the listing. An empty listing yields an empty
// (non-nil) timeline.
//
// Consumers that render buckets in reverse-chronological order can sort
// the map keys lexicographically descending: for YYYY-MM-DD strings that
// equals chronological descending.
func BuildTimeline(records []ObjectRecord) Timeline {
	timeline := make(Timeline)

	for _, rec := range records {
		bucket := DateBucket(rec)
		timeline[bucket] = append(timeline[bucket], TimelineEntry{
			Key:         rec.Key,
			Size:        rec.Size,
			Uploaded:    rec.Uploaded,
			ContentType: rec.ContentType,
		})
	}

	for _, entries := range timeline {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Uploaded.After(entries[j].Uploaded)
		})
	}

	return timeline
}
