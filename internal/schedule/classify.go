package schedule

import (
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// State is the result of Classify: exactly one of InPrayerWindow,
// InForbiddenWindow or Neutral.
type State interface {
	// Kind names the variant, e.g. "prayer", "forbidden" or "neutral".
	Kind() string
	state()
}

// InPrayerWindow means now lies within a prayer's window.
type InPrayerWindow struct {
	Period    Period        `json:"period" yaml:"period"`
	Start     time.Time     `json:"start" yaml:"start"`
	End       time.Time     `json:"end" yaml:"end"`
	Remaining time.Duration `json:"remaining" yaml:"remaining"`
}

// InForbiddenWindow means prayer is disallowed at now.
type InForbiddenWindow struct {
	Restriction Restriction   `json:"restriction" yaml:"restriction"`
	Start       time.Time     `json:"start" yaml:"start"`
	End         time.Time     `json:"end" yaml:"end"`
	Remaining   time.Duration `json:"remaining" yaml:"remaining"`
}

// Neutral means now is in no window, e.g. the forenoon after the
// post-sunrise restriction ends.
type Neutral struct{}

func (InPrayerWindow) Kind() string    { return "prayer" }
func (InForbiddenWindow) Kind() string { return "forbidden" }
func (Neutral) Kind() string           { return "neutral" }

func (InPrayerWindow) state()    {}
func (InForbiddenWindow) state() {}
func (Neutral) state()           {}

// Classify reports what now means for the day described by t. now should
// fall on the civil day of t; times before Fajr are treated as the tail of
// the previous night.
func Classify(t prayer.Times, now time.Time) State {
	return Build(t).Classify(now)
}

// Classify is Classify for an already built schedule.
func (s Schedule) Classify(now time.Time) State {
	for _, f := range s.Forbidden {
		if f.Contains(now) {
			return InForbiddenWindow{
				Restriction: f.Restriction,
				Start:       f.Start,
				End:         f.End,
				Remaining:   remaining(now, f.End),
			}
		}
	}

	t := s.Times
	events := t.Ordered()
	next := len(events)
	for i, e := range events {
		if e.After(now) {
			next = i
			break
		}
	}

	var w Window
	switch next {
	case len(events):
		// Isha has passed; the night runs until tomorrow's Fajr.
		w = Window{PeriodIsha, t.Isha, t.Fajr.Add(24 * time.Hour)}
		return inWindow(w, now)
	case 0:
		// Before Fajr: still in yesterday's Isha.
		w = Window{PeriodIsha, t.Isha.Add(-24 * time.Hour), t.Fajr}
		return inWindow(w, now)
	}

	switch prayer.AllEvents[next-1] {
	case prayer.Fajr:
		w = s.Window(PeriodFajr)
	case prayer.Dhuhr:
		w = s.Window(PeriodDhuhr)
	case prayer.Asr:
		w = s.Window(PeriodAsr)
	case prayer.Maghrib:
		w = s.Window(PeriodMaghrib)
	default:
		return Neutral{}
	}
	if !w.Contains(now) {
		return Neutral{}
	}
	return inWindow(w, now)
}

func inWindow(w Window, now time.Time) InPrayerWindow {
	return InPrayerWindow{
		Period:    w.Period,
		Start:     w.Start,
		End:       w.End,
		Remaining: remaining(now, w.End),
	}
}

func remaining(now, end time.Time) time.Duration {
	if d := end.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Summary flattens a State for display and encoding.
type Summary struct {
	Kind  string    `json:"kind" yaml:"kind"`
	Label string    `json:"label,omitempty" yaml:"label,omitempty"`
	Start time.Time `json:"start,omitzero" yaml:"start,omitempty"`
	End   time.Time `json:"end,omitzero" yaml:"end,omitempty"`

	Remaining        time.Duration `json:"-" yaml:"-"`
	RemainingSeconds int64         `json:"remaining_seconds" yaml:"remaining_seconds"`
}

// Summarize returns the common fields of any State.
func Summarize(st State) Summary {
	var s Summary
	switch v := st.(type) {
	case InPrayerWindow:
		s = Summary{Label: v.Period.String(), Start: v.Start, End: v.End, Remaining: v.Remaining}
	case InForbiddenWindow:
		s = Summary{Label: v.Restriction.String(), Start: v.Start, End: v.End, Remaining: v.Remaining}
	}
	if st != nil {
		s.Kind = st.Kind()
	}
	s.RemainingSeconds = int64(s.Remaining / time.Second)
	return s
}
