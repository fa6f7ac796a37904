package engine

import (
	"sort"
	"time"

	"github.com/roach88/presente/internal/model"
)

// DistinctDaysInWindow returns the largest number of distinct civil days
// (in loc) that have at least one timestamp inside a window of `window`
// consecutive days. A window anchored on day D covers D-(window-1)..D.
// Input order does not matter; several timestamps on one day count once.
func DistinctDaysInWindow(dates []time.Time, window int, loc *time.Location) int {
	if window <= 0 || len(dates) == 0 {
		return 0
	}
	if loc == nil {
		loc = time.Local
	}

	seen := make(map[int64]bool, len(dates))
	days := make([]int64, 0, len(dates))
	for _, t := range dates {
		ord := model.DayOf(t, loc).Ordinal()
		if !seen[ord] {
			seen[ord] = true
			days = append(days, ord)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	best, start := 0, 0
	for end := range days {
		for days[end]-days[start] > int64(window-1) {
			start++
		}
		if n := end - start + 1; n > best {
			best = n
		}
	}
	return best
}
