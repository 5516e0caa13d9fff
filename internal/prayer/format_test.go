package prayer

import (
	"strings"
	"testing"
	"time"
)

// Asr in Dhaka on 2026-06-21, seen from 13:00.
func asrFromLunch() (Prayer, time.Time) {
	return Prayer{Event: Asr, Time: time.Date(2026, 6, 21, 15, 18, 0, 0, dhakaZone)},
		time.Date(2026, 6, 21, 13, 0, 0, 0, dhakaZone)
}

func TestFormatOutput_Modes(t *testing.T) {
	p, now := asrFromLunch()

	for mode, want := range map[string]string{
		FormatTimeRemaining:      "2h 18m",
		FormatNextPrayerTime:     "15:18",
		FormatNameAndTime:        "Asr 15:18",
		FormatNameAndRemaining:   "Asr 2h 18m",
		FormatShortNameAndTime:   "A 15:18",
		FormatShortNameAndRemain: "A 2h 18m",
		FormatFull:               "Asr 15:18 (2h 18m)",
		"no-such-mode":           "Asr 15:18",
		"":                       "Asr 15:18",
	} {
		if got := FormatOutput(p, now, mode, Layout24h); got != want {
			t.Errorf("mode %q: got %q, want %q", mode, got, want)
		}
	}
}

func TestFormatOutput_TwelveHour(t *testing.T) {
	p, now := asrFromLunch()
	if got := FormatOutput(p, now, FormatFull, Layout12h); got != "Asr 3:18 PM (2h 18m)" {
		t.Errorf("got %q", got)
	}
}

func TestFormatOutput_Template(t *testing.T) {
	p, now := asrFromLunch()

	tests := []struct{ tmpl, want string }{
		{"{{.Name}} in {{.Remaining}}", "Asr in 2h 18m"},
		{"{{.ShortName}}@{{.Time}}", "A@15:18"},
		{"{{.Hours}}:{{printf \"%02d\" .Minutes}}", "2:18"},
		{"plain {{\"text\"}}", "plain text"},
	}
	for _, tt := range tests {
		if got := FormatOutput(p, now, tt.tmpl, Layout24h); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.tmpl, got, tt.want)
		}
	}
}

func TestFormatOutput_TemplateErrors(t *testing.T) {
	p, now := asrFromLunch()

	for _, tmpl := range []string{"{{.Name", "{{.Qibla}}", "{{template \"x\"}}"} {
		if got := FormatOutput(p, now, tmpl, Layout24h); !strings.HasPrefix(got, "template-err: ") {
			t.Errorf("%q: got %q, want template-err", tmpl, got)
		}
	}
}

func TestFormatOutput_Countdown(t *testing.T) {
	maghrib := time.Date(2026, 6, 21, 18, 48, 0, 0, dhakaZone)
	p := Prayer{Event: Maghrib, Time: maghrib}

	tests := []struct {
		now  time.Time
		want string
	}{
		{maghrib.Add(-25 * time.Minute), "25m"},
		{maghrib.Add(-30 * time.Second), "0m"},
		{maghrib, "0m"},
		{maghrib.Add(time.Hour), "0m"},
	}
	for _, tt := range tests {
		if got := FormatOutput(p, tt.now, FormatTimeRemaining, Layout24h); got != tt.want {
			t.Errorf("at %s: got %q, want %q", tt.now.Format(Layout24h), got, tt.want)
		}
	}
}

func TestClockLayout(t *testing.T) {
	for in, want := range map[string]string{"12h": Layout12h, "24h": Layout24h, "": Layout24h, "12H": Layout24h} {
		if got := ClockLayout(in); got != want {
			t.Errorf("ClockLayout(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatRange(t *testing.T) {
	start := time.Date(2026, 6, 21, 3, 44, 0, 0, dhakaZone)
	end := time.Date(2026, 6, 21, 5, 11, 0, 0, dhakaZone)

	if got := FormatRange(start, end, Layout24h); got != "03:44 – 05:11" {
		t.Errorf("24h: got %q", got)
	}
	if got := FormatRange(start, end, Layout12h); got != "3:44 AM – 5:11 AM" {
		t.Errorf("12h: got %q", got)
	}
}
