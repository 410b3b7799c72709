package utils

import (
	"sort"
	"time"
)

// SortDates sorts a slice of time.Time in ascending order.
func SortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
}

// NearestDate returns the date from a sorted slice closest to target.
//
// Ties (target exactly between two dates) resolve to the earlier date.
// It assumes dates is sorted ascending and non-empty.
func NearestDate(target time.Time, dates []time.Time) time.Time {
	if len(dates) == 0 {
		panic("NearestDate: empty date slice")
	}

	// First index with dates[i] >= target.
	i := sort.Search(len(dates), func(i int) bool {
		return !dates[i].Before(target)
	})

	if i <= 0 {
		return dates[0]
	}
	if i >= len(dates) {
		return dates[len(dates)-1]
	}

	before := target.Sub(dates[i-1])
	after := dates[i].Sub(target)
	if before <= after {
		return dates[i-1]
	}
	return dates[i]
}
