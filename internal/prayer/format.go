package prayer

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Status-line modes accepted by FormatOutput.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// Each named mode is shorthand for a template over FormatData.
var modeTemplates = map[string]string{
	FormatTimeRemaining:      "{{.Remaining}}",
	FormatNextPrayerTime:     "{{.Time}}",
	FormatNameAndTime:        "{{.Name}} {{.Time}}",
	FormatNameAndRemaining:   "{{.Name}} {{.Remaining}}",
	FormatShortNameAndTime:   "{{.ShortName}} {{.Time}}",
	FormatShortNameAndRemain: "{{.ShortName}} {{.Remaining}}",
	FormatFull:               "{{.Name}} {{.Time}} ({{.Remaining}})",
}

const (
	Layout24h = "15:04"
	Layout12h = "3:04 PM"
)

// ClockLayout maps the "12h"/"24h" setting to a time layout. Anything but
// "12h" is treated as 24h.
func ClockLayout(timeFormat string) string {
	if timeFormat == "12h" {
		return Layout12h
	}
	return Layout24h
}

// FormatData is what a status-line template is executed against.
type FormatData struct {
	Name      string // "Asr"
	ShortName string // "A"
	Time      string // "15:02" or "3:02 PM"
	Remaining string // "2h 15m"
	Hours     int
	Minutes   int // minutes past Hours
}

// FormatOutput renders p for a status line. mode is either one of the
// Format* names or a text/template such as "{{.Name}} in {{.Remaining}}".
// Unknown names fall back to name-and-time. Template failures are returned
// inline as "template-err: ..." so a status bar shows them.
func FormatOutput(p Prayer, now time.Time, mode string, layout string) string {
	src := mode
	if !strings.Contains(mode, "{{") {
		var ok bool
		if src, ok = modeTemplates[mode]; !ok {
			src = modeTemplates[FormatNameAndTime]
		}
	}

	d := TimeRemaining(p, now)
	out, err := execTemplate(src, FormatData{
		Name:      p.Name(),
		ShortName: p.Event.Short(),
		Time:      p.Time.Format(layout),
		Remaining: FormatRemaining(d),
		Hours:     int(d.Hours()),
		Minutes:   int(d.Minutes()) % 60,
	})
	if err != nil {
		return "template-err: " + err.Error()
	}
	return out
}

// FormatRange renders a window as "start – end".
func FormatRange(start, end time.Time, layout string) string {
	return fmt.Sprintf("%s – %s", start.Format(layout), end.Format(layout))
}

func execTemplate(src string, data FormatData) (string, error) {
	t, err := template.New("status").Option("missingkey=error").Parse(src)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
