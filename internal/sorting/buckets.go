package sorting

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"time"

	"matterdesk/internal/domain/models"
)

// Year buckets stop here; anything before lands in the Older bucket.
const olderCutoffYear = 2020

// TimeframeBucket is one recency group of the bucketed listing.
type TimeframeBucket struct {
	Timeframe string
	Chats     []models.TreeItem
}

// TimeframeBuckets partitions items into recency buckets evaluated in order:
// Today, Past 7 Days, Past 30 Days, the three previous calendar months
// (labelled "January 2026"), one bucket per year back to the cutoff, then
// Older. Every window is inclusive on both ends and every window's upper
// bound is "now", so earlier buckets shadow later ones; each bucket consumes
// matching items from the shared remaining pool, which puts every item in
// exactly one bucket. Empty buckets are omitted.
//
// The returned sequence is finite and single-use: ranging it a second time
// yields nothing.
func TimeframeBuckets(items []models.TreeItem, now time.Time) iter.Seq[TimeframeBucket] {
	consumed := false
	return func(yield func(TimeframeBucket) bool) {
		if consumed {
			return
		}
		consumed = true

		remaining := slices.Clone(items)

		// emit drains items inside [start, now] from the pool and yields
		// them under the label. Returns false once the consumer stops.
		emit := func(label string, start time.Time) bool {
			var taken, rest []models.TreeItem
			for _, item := range remaining {
				if !item.CreatedAt.Before(start) && !item.CreatedAt.After(now) {
					taken = append(taken, item)
				} else {
					rest = append(rest, item)
				}
			}
			remaining = rest
			if len(taken) == 0 {
				return true
			}
			return yield(TimeframeBucket{Timeframe: label, Chats: taken})
		}

		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if !emit("Today", startOfDay) {
			return
		}
		if !emit("Past 7 Days", now.AddDate(0, 0, -7)) {
			return
		}
		if !emit("Past 30 Days", now.AddDate(0, 0, -30)) {
			return
		}

		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for monthIndex := 1; monthIndex <= 3; monthIndex++ {
			monthStart := firstOfMonth.AddDate(0, -monthIndex, 0)
			label := fmt.Sprintf("%s %d", monthStart.Month(), monthStart.Year())
			if !emit(label, monthStart) {
				return
			}
		}

		for year := now.Year(); year >= olderCutoffYear; year-- {
			yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
			if !emit(strconv.Itoa(year), yearStart) {
				return
			}
		}

		if len(remaining) > 0 {
			yield(TimeframeBucket{Timeframe: "Older", Chats: remaining})
		}
	}
}
