// Package prayer computes the daily prayer times from a location, a date, a
// calculation convention and a juristic school, and provides the helpers the
// CLI uses to present them.
package prayer

import (
	"fmt"
	"time"
)

// Prayer pairs an event with its time on a particular day.
type Prayer struct {
	Event Event
	Time  time.Time
}

// Name returns the event's display name.
func (p Prayer) Name() string {
	return p.Event.String()
}

// Next returns the first prayer strictly after now.
// If all prayers have passed it returns false (caller should look at tomorrow).
func Next(prayers []Prayer, now time.Time) (Prayer, bool) {
	for _, p := range prayers {
		if p.Time.After(now) {
			return p, true
		}
	}
	return Prayer{}, false
}

// Current returns the latest prayer at or before now.
// Before the first prayer of the day it returns false.
func Current(prayers []Prayer, now time.Time) (Prayer, bool) {
	var (
		cur   Prayer
		found bool
	)
	for _, p := range prayers {
		if p.Time.After(now) {
			break
		}
		cur, found = p, true
	}
	return cur, found
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(p Prayer, now time.Time) time.Duration {
	return p.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
