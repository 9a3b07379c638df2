package quote

import (
	"fmt"
	"strings"
	"time"
)

// whenLayouts are the request time formats recognized for after-hours detection.
var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Window is a time-of-day range in minutes after midnight. End before Start
// means the window wraps past midnight. Start == End is an empty window.
type Window struct {
	Start int
	End   int
}

// ParseWindow builds a Window from two "HH:MM" clock strings.
func ParseWindow(start, end string) (Window, error) {
	s, err := parseClock(start)
	if err != nil {
		return Window{}, fmt.Errorf("after-hours start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Window{}, fmt.Errorf("after-hours end: %w", err)
	}
	return Window{Start: s, End: e}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether t's wall-clock time falls inside the window.
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	switch {
	case w.Start == w.End:
		return false
	case w.Start < w.End:
		return m >= w.Start && m < w.End
	default:
		return m >= w.Start || m < w.End
	}
}

// ParseWhen parses the request time. Values without a zone are read in loc.
// ok is false for anything it cannot parse.
func ParseWhen(when string, loc *time.Location) (t time.Time, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	when = strings.TrimSpace(when)
	for _, layout := range whenLayouts {
		if parsed, err := time.ParseInLocation(layout, when, loc); err == nil {
			return parsed.In(loc), true
		}
	}
	return time.Time{}, false
}
