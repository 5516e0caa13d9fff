package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// maxDays bounds list and query ranges.
const maxDays = 366

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days|week|month]",
		Short: "Show a multi-day timetable",
		Long:  "Print N days of prayer times (default 7), starting at --date or today.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := 7
			if len(args) == 1 {
				n, err := parseDays(args[0])
				if err != nil {
					return err
				}
				days = n
			}
			return runList(cmd, days)
		},
	}
}

func newWeekCmd() *cobra.Command  { return newSpanCmd("week", 7) }
func newMonthCmd() *cobra.Command { return newSpanCmd("month", 30) }

// newSpanCmd is a fixed-length shorthand for list.
func newSpanCmd(name string, days int) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Show the next %d days", days),
		Long:  fmt.Sprintf("Shorthand for 'list %d'.", days),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, days)
		},
	}
}

// parseDays accepts a positive integer, "week" or "month".
func parseDays(v string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxDays {
		return 0, fmt.Errorf("invalid number of days: %q (must be 1-%d, 'week' or 'month')", v, maxDays)
	}
	return n, nil
}

// listDay is one row of list output.
type listDay struct {
	Date  string       `json:"date" yaml:"date"`
	Times prayer.Times `json:"times" yaml:"times"`
}

// listOutput is the --json/--yaml shape of list, week and month.
type listOutput struct {
	Settings settings  `json:"settings" yaml:"settings"`
	Days     []listDay `json:"days" yaml:"days"`
}

func runList(cmd *cobra.Command, days int) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	all, err := prayer.ComputeDays(cmd.Context(), s.prayerConfig(s.date), days)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if structured() {
		out := listOutput{Settings: s.settings()}
		for _, t := range all {
			out.Days = append(out.Days, listDay{Date: t.Dhuhr.Format("2006-01-02"), Times: t})
		}
		return writeStructured(w, out)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Boldf("Prayer Times · %d Days", days))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place)
	fmt.Fprintf(w, "  %s\n", display.Dim(fmt.Sprintf("%s · %s · %s", s.convention, s.school, s.loc)))
	fmt.Fprintln(w)

	headers := []string{"Date"}
	for _, e := range s.events {
		headers = append(headers, e.String())
	}
	tbl := display.NewTable(headers)

	today := s.now.Format("2006-01-02")
	for i, t := range all {
		row := []string{t.Dhuhr.Format("Mon 02 Jan")}
		for _, p := range t.Prayers(s.events) {
			row = append(row, p.Time.Format(s.layout))
		}
		tbl.AddRow(row)
		if t.Dhuhr.Format("2006-01-02") == today {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}
