package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/tui"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live full-screen view of today's windows",
		Long:  "Open an interactive view that updates every second.\nUse ←/→ to move between days, t to return to today and q to quit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), tui.Options{
				Config:   s.prayerConfig(s.now),
				Location: s.loc,
				Place:    s.place,
				Layout:   s.layout,
				Now:      nowFunc,
				Date:     s.date,
			})
		},
	}
}
