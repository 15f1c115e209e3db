// Package scheduling holds the pure conflict-detection and availability
// logic for room bookings. It has no store access and no state of its own;
// callers fetch the relevant bookings and hand them in.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const MinutesPerDay = 24 * 60

// ParseClock converts a wall-clock "H:MM" or "HH:MM" string to minutes
// since midnight. Malformed input fails fast; it is never treated as zero.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q: want H:MM or HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q: bad hour", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, fmt.Errorf("malformed time %q: bad minute", s)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}

	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as a slot label, hour
// unpadded and minute zero-padded ("8:00", "17:30").
func FormatClock(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// Interval is a half-open [Start, End) time-of-day range in minutes since
// midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval parses a start/end clock pair and enforces the strict
// ordering invariant: zero-length and inverted ranges are rejected.
func NewInterval(startTime, endTime string) (Interval, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Interval{}, err
	}
	if start >= end {
		return Interval{}, fmt.Errorf("start time %s must be before end time %s", startTime, endTime)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// intervals (one ending exactly when the other starts) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// HasConflict reports whether the candidate overlaps any existing interval.
// It short-circuits on the first hit; the result is a boolean predicate,
// not a ranking, so order among the existing intervals is irrelevant.
func HasConflict(candidate Interval, existing []Interval) bool {
	for _, iv := range existing {
		if candidate.Overlaps(iv) {
			return true
		}
	}
	return false
}

// DayWindow buckets a date into its [midnight, next midnight) window in
// the given reference location. The location must be the same one
// everywhere bookings are bucketed.
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	local := date.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return dayStart, dayStart.AddDate(0, 0, 1)
}
