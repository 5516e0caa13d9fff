package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// Response is the envelope of the Al Adhan timings endpoint.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings maps the API's event names to clock readings such as "15:02" or
// "15:02 (BST)". The API also reports Imsak, Midnight and the night thirds.
type Timings map[string]string

// Times reads the six events the engine computes as instants on date's
// civil day in date's location.
func (t Timings) Times(date time.Time) (prayer.Times, error) {
	at := make(map[prayer.Event]time.Time, len(prayer.AllEvents))
	for _, e := range prayer.AllEvents {
		raw, ok := t[e.String()]
		if !ok {
			return prayer.Times{}, fmt.Errorf("%s: missing", e)
		}
		v, err := parseClock(raw, date)
		if err != nil {
			return prayer.Times{}, fmt.Errorf("%s: %w", e, err)
		}
		at[e] = v
	}
	return prayer.Times{
		Fajr:    at[prayer.Fajr],
		Sunrise: at[prayer.Sunrise],
		Dhuhr:   at[prayer.Dhuhr],
		Asr:     at[prayer.Asr],
		Maghrib: at[prayer.Maghrib],
		Isha:    at[prayer.Isha],
	}, nil
}

// parseClock reads "HH:MM", ignoring anything after the first space, on
// date's day.
func parseClock(raw string, date time.Time) (time.Time, error) {
	clock, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
	hm, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock reading %q", raw)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, date.Location()), nil
}

type DateInfo struct {
	Readable string    `json:"readable"`
	Hijri    HijriDate `json:"hijri"`
}

// HijriDate is the Hijri calendar date the API reports for the request day.
type HijriDate struct {
	Day         string           `json:"day"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"`
}

// Format renders "5 Muḥarram 1448 AH". It returns "" unless day, month and
// year are all present.
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	era := h.Designation.Abbreviated
	if era == "" {
		era = "AH"
	}
	return fmt.Sprintf("%s %s %s %s", h.Day, h.Month.En, h.Year, era)
}

// Meta echoes the parameters the API used.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
