package prayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/solar"
	"golang.org/x/sync/errgroup"
)

// Location is a point on the earth in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Config is everything needed to compute one civil day.
type Config struct {
	Location Location

	// Date selects the civil day in its own location. The UTC offset of that
	// location at local midnight is used for the calculation, and every
	// resulting time is expressed in it.
	Date time.Time

	// Convention is a registry name; unknown names fall back to Custom.
	Convention string
	School     School
	Offsets    Offsets
}

// Times holds the six instants of a civil day.
type Times struct {
	Fajr    time.Time `json:"fajr" yaml:"fajr"`
	Sunrise time.Time `json:"sunrise" yaml:"sunrise"`
	Dhuhr   time.Time `json:"dhuhr" yaml:"dhuhr"`
	Asr     time.Time `json:"asr" yaml:"asr"`
	Maghrib time.Time `json:"maghrib" yaml:"maghrib"`
	Isha    time.Time `json:"isha" yaml:"isha"`
}

// ErrNoIsha means a convention defines neither an Isha angle nor an interval.
var ErrNoIsha = errors.New("convention defines no Isha rule")

// At returns the instant of a single event.
func (t Times) At(e Event) time.Time {
	switch e {
	case Fajr:
		return t.Fajr
	case Sunrise:
		return t.Sunrise
	case Dhuhr:
		return t.Dhuhr
	case Asr:
		return t.Asr
	case Maghrib:
		return t.Maghrib
	case Isha:
		return t.Isha
	}
	return time.Time{}
}

func (t *Times) set(e Event, v time.Time) {
	switch e {
	case Fajr:
		t.Fajr = v
	case Sunrise:
		t.Sunrise = v
	case Dhuhr:
		t.Dhuhr = v
	case Asr:
		t.Asr = v
	case Maghrib:
		t.Maghrib = v
	case Isha:
		t.Isha = v
	}
}

// Ordered returns the six instants in event order.
func (t Times) Ordered() [6]time.Time {
	return [6]time.Time{t.Fajr, t.Sunrise, t.Dhuhr, t.Asr, t.Maghrib, t.Isha}
}

// Prayers returns the selected events as Prayer values, in the given order.
func (t Times) Prayers(selected []Event) []Prayer {
	out := make([]Prayer, 0, len(selected))
	for _, e := range selected {
		out = append(out, Prayer{Event: e, Time: t.At(e)})
	}
	return out
}

// Compute derives the prayer times for cfg. Offsets are applied last and are
// not checked against neighbouring events.
func Compute(cfg Config) (Times, error) {
	conv, _ := Lookup(cfg.Convention)

	y, m, d := cfg.Date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, cfg.Date.Location())
	_, offset := midnight.Zone()

	in := solar.Compute(solar.Params{
		Latitude:        cfg.Location.Latitude,
		Longitude:       cfg.Location.Longitude,
		Date:            midnight,
		TZOffsetMinutes: offset / 60,
		DawnDepression:  conv.FajrAngle,
		DuskDepression:  conv.IshaAngle,
		ShadowFactor:    cfg.School.ShadowFactor(),
	})

	t := Times{
		Fajr:    in.Dawn,
		Sunrise: in.Sunrise,
		Dhuhr:   in.Noon,
		Asr:     in.Afternoon,
		Maghrib: in.Sunset,
		Isha:    in.Dusk,
	}

	if conv.IshaInterval > 0 {
		t.Isha = t.Maghrib.Add(time.Duration(conv.IshaInterval) * time.Minute)
	}
	if t.Isha.IsZero() {
		return Times{}, fmt.Errorf("%s: %w", conv.Name, ErrNoIsha)
	}

	for e, minutes := range cfg.Offsets {
		if minutes == 0 {
			continue
		}
		t.set(e, t.At(e).Add(time.Duration(minutes)*time.Minute))
	}

	return t, nil
}

// maxParallelDays bounds the fan-out of ComputeDays.
const maxParallelDays = 8

// ComputeDays computes days consecutive civil days starting at cfg.Date.
// Days are computed concurrently; the result is in date order.
func ComputeDays(ctx context.Context, cfg Config, days int) ([]Times, error) {
	if days < 1 {
		return nil, fmt.Errorf("invalid number of days: %d", days)
	}

	out := make([]Times, days)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDays)

	for i := 0; i < days; i++ {
		dayCfg := cfg
		dayCfg.Date = cfg.Date.AddDate(0, 0, i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := Compute(dayCfg)
			if err != nil {
				return fmt.Errorf("%s: %w", dayCfg.Date.Format("2006-01-02"), err)
			}
			out[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
