package domain

import (
	"fmt"
	"time"
)

// TimeRange selects how far back the resident list reaches.
type TimeRange string

const (
	OneMonth    TimeRange = "1M"
	ThreeMonths TimeRange = "3M"
	SixMonths   TimeRange = "6M"
	OneYear     TimeRange = "1Y"
)

const DefaultTimeRange = OneMonth

func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case OneMonth, ThreeMonths, SixMonths, OneYear:
		return TimeRange(s), nil
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

func (r TimeRange) DisplayName() string {
	switch r {
	case ThreeMonths:
		return "Last 3 months"
	case SixMonths:
		return "Last 6 months"
	case OneYear:
		return "Last 1 year"
	default:
		return "Last 1 month"
	}
}

// Window resolves the range against now. The result is live: its upper bound
// is the current instant.
func (r TimeRange) Window(now time.Time) Window {
	return Window{Start: monthsBefore(now, r.months()), End: now, Live: true}
}

func (r TimeRange) months() int {
	switch r {
	case ThreeMonths:
		return 3
	case SixMonths:
		return 6
	case OneYear:
		return 12
	default:
		return 1
	}
}

// monthsBefore steps back n calendar months, clamping the day to the end of
// the target month (Mar 31 -> Feb 28) instead of overflowing.
func monthsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(d, last)-1)
}

// Window bounds a transaction query. Start is inclusive. End is exclusive,
// except for live windows where End is the current instant and is included.
type Window struct {
	Start time.Time
	End   time.Time
	Live  bool
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.Live {
		return !t.After(w.End)
	}
	return t.Before(w.End)
}
