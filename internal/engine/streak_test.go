package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.UTC)
}

func TestDistinctDaysInWindow(t *testing.T) {
	tests := []struct {
		name   string
		dates  []time.Time
		window int
		want   int
	}{
		{"empty", nil, 3, 0},
		{"zero window", []time.Time{day(1, 9)}, 0, 0},
		{"single", []time.Time{day(1, 9)}, 3, 1},
		{"three consecutive with duplicate", []time.Time{day(1, 9), day(1, 20), day(2, 9), day(3, 9)}, 3, 3},
		{"gap breaks the window", []time.Time{day(1, 9), day(2, 9), day(4, 9)}, 3, 2},
		{"unordered input", []time.Time{day(3, 9), day(1, 9), day(2, 9)}, 3, 3},
		{"best window wins", []time.Time{day(1, 9), day(5, 9), day(6, 9), day(7, 9)}, 3, 3},
		{"wider window", []time.Time{day(1, 9), day(2, 9), day(4, 9)}, 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DistinctDaysInWindow(tt.dates, tt.window, time.UTC))
		})
	}
}

func TestDistinctDaysInWindow_UsesLocation(t *testing.T) {
	// 23:30 UTC on the 1st is already the 2nd in UTC+2.
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	dates := []time.Time{
		time.Date(2024, time.March, 1, 23, 30, 0, 0, time.UTC),
		time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 2, DistinctDaysInWindow(dates, 3, time.UTC))
	assert.Equal(t, 1, DistinctDaysInWindow(dates, 3, plusTwo))
}
