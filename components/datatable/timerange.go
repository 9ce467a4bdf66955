package datatable

import (
	"fmt"
	"time"
)

// TimeRange names the fixed calendar windows a search can be scoped to.
type TimeRange string

const (
	RangeNone    TimeRange = ""
	RangeToday   TimeRange = "today"
	Range1Week   TimeRange = "1week"
	Range1Month  TimeRange = "1month"
	Range6Months TimeRange = "6months"
	Range1Year   TimeRange = "1year"
	Range10Years TimeRange = "10years"
	RangeAllTime TimeRange = "alltime"
)

// AllTimeEpoch anchors the lower bound of the all-time window.
var AllTimeEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimeWindow is an inclusive [Start, End] window over the named row field.
type TimeWindow struct {
	Field string    `json:"field,omitempty"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WindowFor translates a TimeRange into an inclusive window ending at now.
func WindowFor(now time.Time, r TimeRange) (TimeWindow, error) {
	var start time.Time
	switch r {
	case RangeToday:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case Range1Week:
		start = now.AddDate(0, 0, -7)
	case Range1Month:
		start = now.AddDate(0, -1, 0)
	case Range6Months:
		start = now.AddDate(0, -6, 0)
	case Range1Year:
		start = now.AddDate(-1, 0, 0)
	case Range10Years:
		start = now.AddDate(-10, 0, 0)
	case RangeAllTime:
		start = AllTimeEpoch
	default:
		return TimeWindow{}, fmt.Errorf("datatable: unknown time range %q", r)
	}
	return TimeWindow{Start: start, End: now}, nil
}
