package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nThe output has no trailing newline so it fits a status bar.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

// nextOutput is the --json/--yaml shape of the next command.
type nextOutput struct {
	Prayer           prayer.Event `json:"prayer" yaml:"prayer"`
	Time             time.Time    `json:"time" yaml:"time"`
	RemainingSeconds int64        `json:"remaining_seconds" yaml:"remaining_seconds"`
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	// Priority: --prayers flag > config > all events.
	events := s.events
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		events, err = prayer.ParseEventList(flagPrayers)
		if err != nil {
			return fmt.Errorf("invalid --prayers: %w", err)
		}
	}

	next, err := nextPrayer(s, events)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if structured() {
		return writeStructured(w, nextOutput{
			Prayer:           next.Event,
			Time:             next.Time,
			RemainingSeconds: int64(prayer.TimeRemaining(next, s.now) / time.Second),
		})
	}

	fmt.Fprint(w, prayer.FormatOutput(next, s.now, flagFormat, s.layout))
	return nil
}

// nextPrayer finds the first selected prayer after now, rolling over to
// tomorrow once today's have all passed.
func nextPrayer(s *session, events []prayer.Event) (prayer.Prayer, error) {
	if len(events) == 0 {
		return prayer.Prayer{}, fmt.Errorf("no prayers selected")
	}

	for day := 0; day < 2; day++ {
		times, err := prayer.Compute(s.prayerConfig(s.now.AddDate(0, 0, day)))
		if err != nil {
			return prayer.Prayer{}, err
		}
		if next, ok := prayer.Next(times.Prayers(events), s.now); ok {
			return next, nil
		}
	}
	return prayer.Prayer{}, fmt.Errorf("could not determine next prayer")
}
