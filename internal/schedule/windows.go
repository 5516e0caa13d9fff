// Package schedule turns a day's prayer times into prayer windows and
// forbidden windows, and classifies an instant against them.
package schedule

import (
	"strconv"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// Fixed policy durations for the forbidden windows and window gaps.
const (
	AfterSunriseDuration = 15 * time.Minute
	ZawalDuration        = 6 * time.Minute
	BeforeSunsetDuration = 15 * time.Minute

	// gap separates a window's end from the next event.
	gap = time.Minute
)

// Period names a prayer window. It differs from prayer.Event: Sunrise has no
// window and Tahajjud has no single event.
type Period int

const (
	PeriodFajr Period = iota
	PeriodDhuhr
	PeriodAsr
	PeriodMaghrib
	PeriodIsha
	PeriodTahajjud
)

var periodNames = [...]string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha", "Tahajjud"}

func (p Period) String() string {
	if p < PeriodFajr || p > PeriodTahajjud {
		return "Period(" + strconv.Itoa(int(p)) + ")"
	}
	return periodNames[p]
}

// MarshalText encodes the period by name.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Restriction labels one of the three daily forbidden windows.
type Restriction int

const (
	AfterSunrise Restriction = iota
	Zawal
	BeforeSunset
)

var restrictionNames = [...]string{"After Sunrise", "Zawal", "Before Sunset"}

func (r Restriction) String() string {
	if r < AfterSunrise || r > BeforeSunset {
		return "Restriction(" + strconv.Itoa(int(r)) + ")"
	}
	return restrictionNames[r]
}

// MarshalText encodes the restriction by name.
func (r Restriction) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Window is a closed interval [Start, End] during which a prayer may be said.
type Window struct {
	Period Period    `json:"period" yaml:"period"`
	Start  time.Time `json:"start" yaml:"start"`
	End    time.Time `json:"end" yaml:"end"`
}

// Contains reports whether t lies in [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ForbiddenWindow is a half-open interval [Start, End) during which prayer is
// disallowed.
type ForbiddenWindow struct {
	Restriction Restriction `json:"restriction" yaml:"restriction"`
	Start       time.Time   `json:"start" yaml:"start"`
	End         time.Time   `json:"end" yaml:"end"`
}

// Contains reports whether t lies in [Start, End).
func (f ForbiddenWindow) Contains(t time.Time) bool {
	return !t.Before(f.Start) && t.Before(f.End)
}

// Schedule is the derived window set of one civil day.
type Schedule struct {
	Times prayer.Times `json:"times" yaml:"times"`

	// Prayers holds one window per Period, indexed by Period.
	Prayers [6]Window `json:"prayers" yaml:"prayers"`
	// Forbidden holds one window per Restriction, indexed by Restriction.
	Forbidden [3]ForbiddenWindow `json:"forbidden" yaml:"forbidden"`

	// Night runs from Maghrib to the next day's Fajr.
	Night    time.Duration `json:"-" yaml:"-"`
	Midnight time.Time     `json:"midnight" yaml:"midnight"`
}

// Build derives the windows of a day. Windows are not validated: offsets
// that reorder the times produce inverted windows, which are passed through.
func Build(t prayer.Times) Schedule {
	nextFajr := t.Fajr.Add(24 * time.Hour)
	night := nextFajr.Sub(t.Maghrib)
	midnight := t.Maghrib.Add(night / 2)
	lastThird := t.Maghrib.Add(night * 2 / 3)

	return Schedule{
		Times:    t,
		Night:    night,
		Midnight: midnight,
		Prayers: [6]Window{
			PeriodFajr:     {PeriodFajr, t.Fajr, t.Sunrise.Add(-gap)},
			PeriodDhuhr:    {PeriodDhuhr, t.Dhuhr, t.Asr.Add(-gap)},
			PeriodAsr:      {PeriodAsr, t.Asr, t.Maghrib.Add(-BeforeSunsetDuration)},
			PeriodMaghrib:  {PeriodMaghrib, t.Maghrib, t.Isha.Add(-gap)},
			PeriodIsha:     {PeriodIsha, t.Isha, midnight},
			PeriodTahajjud: {PeriodTahajjud, lastThird, nextFajr.Add(-gap)},
		},
		Forbidden: [3]ForbiddenWindow{
			AfterSunrise: {AfterSunrise, t.Sunrise, t.Sunrise.Add(AfterSunriseDuration)},
			Zawal:        {Zawal, t.Dhuhr.Add(-ZawalDuration), t.Dhuhr},
			BeforeSunset: {BeforeSunset, t.Maghrib.Add(-BeforeSunsetDuration), t.Maghrib},
		},
	}
}

// Window returns the window of a single period.
func (s Schedule) Window(p Period) Window {
	return s.Prayers[p]
}

// WindowOf returns the window opened by an event. Sunrise opens none.
func (s Schedule) WindowOf(e prayer.Event) (Window, bool) {
	switch e {
	case prayer.Fajr:
		return s.Prayers[PeriodFajr], true
	case prayer.Dhuhr:
		return s.Prayers[PeriodDhuhr], true
	case prayer.Asr:
		return s.Prayers[PeriodAsr], true
	case prayer.Maghrib:
		return s.Prayers[PeriodMaghrib], true
	case prayer.Isha:
		return s.Prayers[PeriodIsha], true
	}
	return Window{}, false
}
