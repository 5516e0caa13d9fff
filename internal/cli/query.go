package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a single prayer time for today, or across multiple days with --days.\n\nValid prayer names: Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// queryDay is one entry of query output.
type queryDay struct {
	Date string    `json:"date" yaml:"date"`
	Time time.Time `json:"time" yaml:"time"`
}

// queryOutput is the --json/--yaml shape of the query command.
type queryOutput struct {
	Prayer prayer.Event `json:"prayer" yaml:"prayer"`
	Days   []queryDay   `json:"days" yaml:"days"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	event, err := prayer.ParseEvent(args[0])
	if err != nil {
		names := make([]string, len(prayer.AllEvents))
		for i, e := range prayer.AllEvents {
			names[i] = e.String()
		}
		return fmt.Errorf("unknown prayer %q; valid names: %s", args[0], strings.Join(names, ", "))
	}

	days := 1
	if flagQueryDays != "" {
		if days, err = parseDays(flagQueryDays); err != nil {
			return fmt.Errorf("invalid --days: %w", err)
		}
	}

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
		out := queryOutput{Prayer: event}
		for _, t := range all {
			out.Days = append(out.Days, queryDay{Date: t.Dhuhr.Format("2006-01-02"), Time: t.At(event)})
		}
		return writeStructured(w, out)
	}

	if days == 1 {
		fmt.Fprintf(w, "%s %s\n", event, all[0].At(event).Format(s.layout))
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Boldf("%s Times · %d Days", event, days))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place)
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Date", event.String()})
	today := s.now.Format("2006-01-02")
	for i, t := range all {
		tbl.AddRow([]string{t.Dhuhr.Format("Mon 02 Jan"), t.At(event).Format(s.layout)})
		if t.Dhuhr.Format("2006-01-02") == today {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}
