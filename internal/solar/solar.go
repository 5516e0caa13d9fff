// Package solar computes the local clock times at which the sun crosses the
// elevations that matter for prayer times: dawn and dusk depressions, sunrise
// and sunset, solar noon, and the shadow-length based afternoon event.
//
// It uses the low-precision solar position series (declination and equation
// of time accurate to about a minute between 1950 and 2050). Hour angles are
// solved with the acos argument clamped to [-1, 1], so near the poles, or for
// depressions the sun never reaches on a given date, the result is a defined
// but degenerate time (solar midnight or solar noon) rather than NaN. Callers
// at extreme latitudes should treat those times as approximate.
package solar

import (
	"math"
	"time"
)

// HorizonElevation is the apparent elevation of the sun's centre at sunrise
// and sunset, accounting for refraction and the solar radius.
const HorizonElevation = -0.833

const (
	j2000        = 2451545.0
	minutesInDay = 24 * 60
)

// Params describes a single day's calculation.
type Params struct {
	Latitude  float64
	Longitude float64

	// Date selects the civil day. Only its year, month and day (read in its
	// own location) are used; results are placed in the same location.
	Date time.Time

	// TZOffsetMinutes is the UTC offset in effect at the start of Date,
	// e.g. 360 for UTC+6. Every event is reckoned in it.
	TZOffsetMinutes int

	// DawnDepression and DuskDepression are degrees below the horizon.
	// A zero DuskDepression means no dusk angle is defined and Dusk is left zero.
	DawnDepression float64
	DuskDepression float64

	// ShadowFactor is the shadow-length multiplier for the afternoon event:
	// 1 for the majority schools, 2 for Hanafi. Zero is treated as 1.
	ShadowFactor float64
}

// Instants are the six solar events of a civil day, at minute resolution.
type Instants struct {
	Dawn      time.Time
	Sunrise   time.Time
	Noon      time.Time
	Afternoon time.Time
	Sunset    time.Time
	Dusk      time.Time // zero when Params.DuskDepression is zero
}

// Compute returns the solar instants for p. It never fails: out-of-range
// hour-angle arguments are clamped.
func Compute(p Params) Instants {
	pos := positionAt(julianDay(p.Date, p.TZOffsetMinutes))

	lat := radians(p.Latitude)
	noon := 12 + float64(p.TZOffsetMinutes)/60 - p.Longitude/15 - pos.equationOfTime/60

	factor := p.ShadowFactor
	if factor == 0 {
		factor = 1
	}
	asrElevation := degrees(math.Atan(1 / (factor + math.Abs(math.Tan(lat-pos.declination)))))

	at := func(hours float64) time.Time {
		return clockTime(p.Date, p.TZOffsetMinutes, hours)
	}
	before := func(elevation float64) time.Time {
		return at(noon - hourAngle(lat, pos.declination, elevation)/15)
	}
	after := func(elevation float64) time.Time {
		return at(noon + hourAngle(lat, pos.declination, elevation)/15)
	}

	in := Instants{
		Dawn:      before(-p.DawnDepression),
		Sunrise:   before(HorizonElevation),
		Noon:      at(noon),
		Afternoon: after(asrElevation),
		Sunset:    after(HorizonElevation),
	}
	if p.DuskDepression != 0 {
		in.Dusk = after(-p.DuskDepression)
	}
	return in
}

// position is the part of the sun's apparent position the prayer formulas need.
type position struct {
	declination    float64 // radians
	equationOfTime float64 // minutes
}

func positionAt(jd float64) position {
	d := jd - j2000

	g := radians(math.Mod(357.529+0.98560028*d, 360))
	q := math.Mod(280.459+0.98564736*d, 360)
	l := radians(q + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))
	e := radians(23.439 - 0.00000036*d)

	y := math.Tan(e / 2)
	eqt := 4 * degrees(y*y*math.Sin(2*radians(q))-2*0.0167*math.Sin(g))

	return position{
		declination:    math.Asin(math.Sin(e) * math.Sin(l)),
		equationOfTime: eqt,
	}
}

// julianDay converts local midnight of date's civil day, shifted to UTC by
// the offset, to a fractional day count on the Julian day number scale: 00:00
// UTC maps to the integer day number, half a day ahead of the astronomical JD.
// For a local midnight this lands the solar position near local noon.
func julianDay(date time.Time, tzOffsetMinutes int) float64 {
	y, m, d := date.Date()
	utc := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(-time.Duration(tzOffsetMinutes) * time.Minute)

	year := utc.Year()
	month := int(utc.Month())
	day := float64(utc.Day()) +
		(float64(utc.Hour())+float64(utc.Minute())/60+float64(utc.Second())/3600)/24

	a := (14 - month) / 12
	y2 := year + 4800 - a
	m2 := month + 12*a - 3

	jdn := (153*m2+2)/5 + 365*y2 + floorDiv(y2, 4) - floorDiv(y2, 100) + floorDiv(y2, 400) - 32045
	return day + float64(jdn)
}

// hourAngle returns, in degrees, how far from solar noon the sun reaches the
// given elevation.
func hourAngle(lat, decl, elevation float64) float64 {
	cosH := (math.Sin(radians(elevation)) - math.Sin(lat)*math.Sin(decl)) /
		(math.Cos(lat) * math.Cos(decl))
	return degrees(math.Acos(clamp(cosH)))
}

// clockTime places a fractional hour, reckoned at UTC+offsetMinutes, on
// date's civil day, rounded to the nearest minute and wrapped into
// [00:00, 24:00). The instant is returned in date's location, so on a day
// the location changes offset the wall clock follows the new offset.
func clockTime(date time.Time, offsetMinutes int, hours float64) time.Time {
	m := int(math.Round(hours * 60))
	m = ((m % minutesInDay) + minutesInDay) % minutesInDay

	y, mon, d := date.Date()
	zone := time.FixedZone("", offsetMinutes*60)
	return time.Date(y, mon, d, m/60, m%60, 0, 0, zone).In(date.Location())
}

func clamp(x float64) float64 {
	// 0/0 at the poles.
	if math.IsNaN(x) {
		return 1
	}
	return math.Max(-1, math.Min(1, x))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func radians(d float64) float64 { return d * math.Pi / 180 }

func degrees(r float64) float64 { return r * 180 / math.Pi }
