package workspace

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"journal-cli/internal/model"
)

func entryAt(id string, at time.Time) model.JournalEntry {
	return model.JournalEntry{ID: id, Title: id, CreatedAt: at}
}

// now is pinned to a Wednesday so the week boundaries are unambiguous.
var groupNow = time.Date(2026, 6, 17, 15, 30, 0, 0, time.UTC)

func TestGroupByTimeBuckets(t *testing.T) {
	entries := []model.JournalEntry{
		entryAt("today", time.Date(2026, 6, 17, 9, 0, 0, 0, time.UTC)),
		entryAt("midnight", time.Date(2026, 6, 17, 0, 0, 0, 0, time.UTC)),
		entryAt("yesterday", time.Date(2026, 6, 16, 23, 0, 0, 0, time.UTC)),
		entryAt("monday", time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)),
		entryAt("lastweek", time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)),
		entryAt("thismonth", time.Date(2026, 6, 3, 12, 0, 0, 0, time.UTC)),
		entryAt("lastmonth", time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)),
		entryAt("older", time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC)),
	}

	groups := GroupByTime(entries, groupNow, time.Sunday)

	byBucket := map[model.Bucket][]string{}
	for _, g := range groups {
		for _, e := range g.Entries {
			byBucket[g.Bucket] = append(byBucket[g.Bucket], e.ID)
		}
	}

	require.Equal(t, []string{"today", "midnight"}, byBucket[model.BucketToday])
	require.Equal(t, []string{"yesterday"}, byBucket[model.BucketYesterday])
	require.Equal(t, []string{"monday"}, byBucket[model.BucketThisWeek])
	require.Equal(t, []string{"lastweek"}, byBucket[model.BucketLastWeek])
	require.Equal(t, []string{"thismonth"}, byBucket[model.BucketThisMonth])
	require.Equal(t, []string{"lastmonth"}, byBucket[model.BucketLastMonth])
	require.Equal(t, []string{"older"}, byBucket[model.BucketOlder])
}

// The configured week start moves the this-week/last-week boundary: a
// Sunday entry is this week when weeks start Sunday, last week when they
// start Monday.
func TestGroupByTimeWeekStart(t *testing.T) {
	sunday := []model.JournalEntry{
		entryAt("sun", time.Date(2026, 6, 14, 12, 0, 0, 0, time.UTC)),
	}

	groups := GroupByTime(sunday, groupNow, time.Sunday)
	require.Len(t, groups, 1)
	require.Equal(t, model.BucketThisWeek, groups[0].Bucket)

	groups = GroupByTime(sunday, groupNow, time.Monday)
	require.Len(t, groups, 1)
	require.Equal(t, model.BucketLastWeek, groups[0].Bucket)
}

func TestGroupByTimeSkipsEmptyBucketsInOrder(t *testing.T) {
	entries := []model.JournalEntry{
		entryAt("older", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		entryAt("today", groupNow),
	}

	groups := GroupByTime(entries, groupNow, time.Sunday)
	require.Len(t, groups, 2)
	require.Equal(t, model.BucketToday, groups[0].Bucket)
	require.Equal(t, model.BucketOlder, groups[1].Bucket)
}

// Every entry must land in exactly one bucket regardless of timestamp.
func TestGroupByTimePartitions(t *testing.T) {
	var entries []model.JournalEntry
	for i := 0; i < 120; i++ {
		entries = append(entries, entryAt(fmt.Sprintf("e%d", i), groupNow.AddDate(0, 0, -i)))
	}

	groups := GroupByTime(entries, groupNow, time.Sunday)
	seen := map[string]int{}
	for _, g := range groups {
		for _, e := range g.Entries {
			seen[e.ID]++
		}
	}
	require.Len(t, seen, len(entries))
	for id, n := range seen {
		require.Equal(t, 1, n, "entry %s appeared %d times", id, n)
	}
}

func TestGroupByTimeEmptyInput(t *testing.T) {
	require.Empty(t, GroupByTime(nil, groupNow, time.Sunday))
}
