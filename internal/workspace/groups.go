package workspace

import (
	"time"

	"journal-cli/internal/model"
)

// GroupByTime partitions entries into display buckets relative to now.
// Boundaries are local midnights computed from now; the checks run in
// bucket order and the first match wins, so the overlapping week/month
// windows never double-count. Every entry lands in exactly one bucket.
func GroupByTime(entries []model.JournalEntry, now time.Time, weekStart time.Weekday) []model.EntryGroup {
	startOfToday := startOfDay(now)
	startOfYesterday := startOfToday.AddDate(0, 0, -1)

	// Most recent week-start boundary at or before today.
	back := (int(now.Weekday()) - int(weekStart) + 7) % 7
	startOfThisWeek := startOfToday.AddDate(0, 0, -back)
	startOfLastWeek := startOfThisWeek.AddDate(0, 0, -7)

	startOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth := startOfThisMonth.AddDate(0, -1, 0)

	buckets := make(map[model.Bucket][]model.JournalEntry, len(model.Buckets))
	for _, e := range entries {
		t := e.CreatedAt.In(now.Location())
		var b model.Bucket
		switch {
		case !t.Before(startOfToday):
			b = model.BucketToday
		case !t.Before(startOfYesterday):
			b = model.BucketYesterday
		case !t.Before(startOfThisWeek):
			b = model.BucketThisWeek
		case !t.Before(startOfLastWeek):
			b = model.BucketLastWeek
		case !t.Before(startOfThisMonth):
			b = model.BucketThisMonth
		case !t.Before(startOfLastMonth):
			b = model.BucketLastMonth
		default:
			b = model.BucketOlder
		}
		buckets[b] = append(buckets[b], e)
	}

	var groups []model.EntryGroup
	for _, b := range model.Buckets {
		if len(buckets[b]) == 0 {
			continue
		}
		groups = append(groups, model.EntryGroup{Bucket: b, Entries: buckets[b]})
	}
	return groups
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
