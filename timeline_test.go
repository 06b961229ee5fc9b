package clouddrop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clouddrop/clouddrop"
)

func ts(day int, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestDateBucket_FromKeyPrefix(t *testing.T) {
	rec := clouddrop.ObjectRecord{
		Key:      "2024-01-05/999-a.png",
		Uploaded: ts(1, 10), // actual upload day is 2024-03-01
	}

	assert.Equal(t, "2024-01-05", clouddrop.DateBucket(rec))
}

func TestDateBucket_FallsBackToUploadTime(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"no prefix", "a.png"},
		{"prefix not a date", "photos/a.png"},
		{"date-ish but loose", "2024-1-5/a.png"},
		{"date with extra text", "2024-01-05x/a.png"},
		{"date key without second segment", "2024-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := clouddrop.ObjectRecord{Key: tt.key, Uploaded: ts(1, 10)}
			assert.Equal(t, "2024-03-01", clouddrop.DateBucket(rec))
		})
	}
}

func TestDateBucket_UploadTimeIsBucketedInUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	rec := clouddrop.ObjectRecord{
		Key:      "a.png",
		Uploaded: time.Date(2024, 2, 29, 22, 0, 0, 0, loc), // 2024-03-01 03:00 UTC
	}

	assert.Equal(t, "2024-03-01", clouddrop.DateBucket(rec))
}

func TestBuildTimeline_Empty(t *testing.T) {
	timeline := clouddrop.BuildTimeline(nil)

	require.NotNil(t, timeline)
	assert.Empty(t, timeline)
}

func TestBuildTimeline_GroupsAndSortsNewestFirst(t *testing.T) {
	records := []clouddrop.ObjectRecord{
		{Key: "2024-03-01/1-a.png", Uploaded: ts(1, 9)},
		{Key: "2024-03-01/2-b.png", Uploaded: ts(1, 11)},
		{Key: "2024-03-01/3-c.png", Uploaded: ts(1, 10)},
		{Key: "loose.txt", Uploaded: ts(2, 8)},
	}

	timeline := clouddrop.BuildTimeline(records)

	require.Len(t, timeline, 2)

	march1 := timeline["2024-03-01"]
	require.Len(t, march1, 3)
	assert.Equal(t, "2024-03-01/2-b.png", march1[0].Key)
	assert.Equal(t, "2024-03-01/3-c.png", march1[1].Key)
	assert.Equal(t, "2024-03-01/1-a.png", march1[2].Key)

	march2 := timeline["2024-03-02"]
	require.Len(t, march2, 1)
	assert.Equal(t, "loose.txt", march2[0].Key)
}

func TestBuildTimeline_StableOnEqualTimestamps(t *testing.T) {
	same := ts(1, 12)
	records := []clouddrop.ObjectRecord{
		{Key: "2024-03-01/1-first.png", Uploaded: same},
		{Key: "2024-03-01/2-second.png", Uploaded: same},
		{Key: "2024-03-01/3-third.png", Uploaded: same},
	}

	timeline := clouddrop.BuildTimeline(records)

	entries := timeline["2024-03-01"]
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-03-01/1-first.png", entries[0].Key)
	assert.Equal(t, "2024-03-01/2-second.png", entries[1].Key)
	assert.Equal(t, "2024-03-01/3-third.png", entries[2].Key)
}

func TestBuildTimeline_CarriesDisplayFields(t *testing.T) {
	records := []clouddrop.ObjectRecord{
		{Key: "2024-03-01/1-a.png", Size: 42, ContentType: "image/png", ETag: "abc", Uploaded: ts(1, 9)},
	}

	timeline := clouddrop.BuildTimeline(records)

	entries := timeline["2024-03-01"]
	require.Len(t, entries, 1)
	assert.Equal(t, clouddrop.TimelineEntry{
		Key:         "2024-03-01/1-a.png",
		Size:        42,
		Uploaded:    ts(1, 9),
		ContentType: "image/png",
	}, entries[0])
}
