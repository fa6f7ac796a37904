package model

import "time"

// Day is a civil calendar date with no time of day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the civil date of t in loc. A nil loc means t's own location.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Ordinal returns a day count that increases by one per calendar day.
// Differences between ordinals are day distances, independent of DST.
func (d Day) Ordinal() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
}

// Timestamps extracts submission times from dated records.
func Timestamps[T Dated](records []T) []time.Time {
	out := make([]time.Time, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Timestamp())
	}
	return out
}
