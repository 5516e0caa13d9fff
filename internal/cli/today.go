package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/smokyabdulrahman/prayer-engine/internal/schedule"
)

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	times, err := prayer.Compute(s.prayerConfig(s.date))
	if err != nil {
		return err
	}
	sched := schedule.Build(times)

	var state *schedule.Summary
	if s.today() {
		sum := schedule.Summarize(sched.Classify(s.now))
		state = &sum
	}

	w := cmd.OutOrStdout()
	if structured() {
		return writeStructured(w, todayOutput{
			Date:     s.date.Format("2006-01-02"),
			Settings: s.settings(),
			Schedule: sched,
			State:    state,
		})
	}

	printTodayRich(w, s, sched, state)
	return nil
}

// todayOutput is the --json/--yaml shape of the root command.
type todayOutput struct {
	Date     string            `json:"date" yaml:"date"`
	Settings settings          `json:"settings" yaml:"settings"`
	Schedule schedule.Schedule `json:"schedule" yaml:"schedule"`
	State    *schedule.Summary `json:"state,omitempty" yaml:"state,omitempty"`
}

// printTodayRich renders the colored terminal view of one day.
func printTodayRich(w io.Writer, s *session, sched schedule.Schedule, state *schedule.Summary) {
	layout := s.layout

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place)
	fmt.Fprintf(w, "  %s\n", s.date.Format("Monday, 2 January 2006"))
	fmt.Fprintf(w, "  %s\n", display.Dim(fmt.Sprintf("%s · %s · %s", s.convention, s.school, s.loc)))
	fmt.Fprintln(w)

	prayers := sched.Times.Prayers(s.events)
	next, hasNext := prayer.Next(prayers, s.now)

	table := display.NewTable([]string{"Prayer", "Time", "Window"})
	for i, p := range prayers {
		window := ""
		if win, ok := sched.WindowOf(p.Event); ok {
			window = prayer.FormatRange(win.Start, win.End, layout)
		}
		table.AddRow([]string{p.Name(), p.Time.Format(layout), window})
		if hasNext && state != nil && p.Event == next.Event {
			table.SetHighlightRow(i)
		}
	}
	fmt.Fprint(w, table.Render())
	fmt.Fprintln(w)

	for _, f := range sched.Forbidden {
		fmt.Fprintf(w, "  %s  %s\n", display.Red(fmt.Sprintf("%-13s", f.Restriction)), prayer.FormatRange(f.Start, f.End, layout))
	}
	tahajjud := sched.Window(schedule.PeriodTahajjud)
	fmt.Fprintf(w, "  %s  %s\n", display.Cyan(fmt.Sprintf("%-13s", "Tahajjud")), prayer.FormatRange(tahajjud.Start, tahajjud.End, layout))
	fmt.Fprintf(w, "  %s  %s\n", display.Gray(fmt.Sprintf("%-13s", "Midnight")), sched.Midnight.Format(layout))

	if state != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", stateLine(*state))
		if cur, ok := prayer.Current(prayers, s.now); ok {
			fmt.Fprintf(w, "  %s\n", display.Dim(fmt.Sprintf("Current: %s since %s", cur.Name(), cur.Time.Format(layout))))
		}
		if hasNext {
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(next, s.now))
			fmt.Fprintf(w, "  %s\n", display.Accent(fmt.Sprintf("Next: %s at %s (in %s)", next.Name(), next.Time.Format(layout), remaining)))
		}
	}
	fmt.Fprintln(w)
}

// stateLine describes a classified instant in one line.
func stateLine(s schedule.Summary) string {
	switch s.Kind {
	case "prayer":
		return display.Green(fmt.Sprintf("● %s time · %s left", s.Label, prayer.FormatRemaining(s.Remaining)))
	case "forbidden":
		return display.Red(fmt.Sprintf("✕ %s · prayer forbidden for %s", s.Label, prayer.FormatRemaining(s.Remaining)))
	}
	return display.Gray("○ No prayer window")
}
