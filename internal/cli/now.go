package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/smokyabdulrahman/prayer-engine/internal/schedule"
)

func newNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Show whether prayer is allowed right now",
		Long:  "Classify the current moment as inside a prayer window, inside a forbidden\nwindow, or neither.",
		RunE:  runNow,
	}
}

// nowOutput is the --json/--yaml shape of the now command.
type nowOutput struct {
	At    time.Time        `json:"at" yaml:"at"`
	State schedule.Summary `json:"state" yaml:"state"`
}

func runNow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	times, err := prayer.Compute(s.prayerConfig(s.now))
	if err != nil {
		return err
	}
	state := schedule.Summarize(schedule.Classify(times, s.now))

	w := cmd.OutOrStdout()
	if structured() {
		return writeStructured(w, nowOutput{At: s.now, State: state})
	}

	fmt.Fprintln(w, stateLine(state))
	return nil
}
