package prayer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Event is one of the six daily instants the engine computes.
type Event int

// Events in chronological order for an ordinary day.
const (
	Fajr Event = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
)

// AllEvents lists every event in chronological order.
var AllEvents = []Event{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ErrUnknownEvent is returned when a name matches no event.
var ErrUnknownEvent = errors.New("unknown prayer name")

var eventNames = [...]string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

var shortNames = [...]string{"F", "S", "D", "A", "M", "I"}

// String returns the canonical name, e.g. "Dhuhr".
func (e Event) String() string {
	if e < Fajr || e > Isha {
		return "Event(" + strconv.Itoa(int(e)) + ")"
	}
	return eventNames[e]
}

// Short returns a one-letter abbreviation for status lines.
func (e Event) Short() string {
	if e < Fajr || e > Isha {
		return "?"
	}
	return shortNames[e]
}

// MarshalText encodes the event by its canonical name.
func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText accepts anything ParseEvent does.
func (e *Event) UnmarshalText(b []byte) error {
	v, err := ParseEvent(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// aliases maps the astronomical names of the instants onto events.
var aliases = map[string]Event{
	"dawn":      Fajr,
	"noon":      Dhuhr,
	"solarnoon": Dhuhr,
	"midday":    Dhuhr,
	"zuhr":      Dhuhr,
	"afternoon": Asr,
	"sunset":    Maghrib,
	"dusk":      Isha,
}

// ParseEvent resolves a prayer or event name, ignoring case.
// Astronomical aliases like "sunset" or "dawn" are accepted.
func ParseEvent(name string) (Event, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range eventNames {
		if strings.ToLower(n) == key {
			return Event(i), nil
		}
	}
	if e, ok := aliases[key]; ok {
		return e, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}

// ParseEventList parses a comma-separated list like "Fajr,Dhuhr,Isha".
func ParseEventList(list string) ([]Event, error) {
	var out []Event
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		e, err := ParseEvent(part)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Offsets adjusts individual events by a signed number of minutes.
// Missing entries mean no adjustment.
type Offsets map[Event]int

// ParseOffsets parses "Dhuhr:1,Maghrib:-2" style lists.
func ParseOffsets(s string) (Offsets, error) {
	out := Offsets{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid offset %q: want Name:minutes", part)
		}
		e, err := ParseEvent(name)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("invalid offset minutes in %q: %w", part, err)
		}
		out[e] += n
	}
	return out, nil
}

// String renders offsets in ParseOffsets syntax, in event order.
func (o Offsets) String() string {
	var parts []string
	for _, e := range AllEvents {
		if n, ok := o[e]; ok && n != 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e, n))
		}
	}
	return strings.Join(parts, ",")
}
