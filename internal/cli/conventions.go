package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// conventionInfo is the --json/--yaml shape of one convention.
type conventionInfo struct {
	Name          string  `json:"name" yaml:"name"`
	Description   string  `json:"description" yaml:"description"`
	FajrAngle     float64 `json:"fajr_angle" yaml:"fajr_angle"`
	IshaAngle     float64 `json:"isha_angle,omitempty" yaml:"isha_angle,omitempty"`
	IshaInterval  int     `json:"isha_interval,omitempty" yaml:"isha_interval,omitempty"`
	AladhanMethod int     `json:"aladhan_method" yaml:"aladhan_method"`
}

func newConventionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "conventions",
		Aliases: []string{"methods"},
		Short:   "List the calculation conventions",
		Long:    "Print every supported calculation convention with its twilight angles.",
		Args:    cobra.NoArgs,
		RunE:    runConventions,
	}
}

func runConventions(cmd *cobra.Command, args []string) error {
	convs := prayer.Conventions()
	w := cmd.OutOrStdout()

	if structured() {
		out := make([]conventionInfo, len(convs))
		for i, c := range convs {
			out[i] = conventionInfo{
				Name:          c.Name,
				Description:   c.Description,
				FajrAngle:     c.FajrAngle,
				IshaAngle:     c.IshaAngle,
				IshaInterval:  c.IshaInterval,
				AladhanMethod: c.AladhanMethod,
			}
		}
		return writeStructured(w, out)
	}

	tbl := display.NewTable([]string{"Name", "Fajr", "Isha", "Description"})
	for _, c := range convs {
		tbl.AddRow([]string{c.Name, fmt.Sprintf("%g°", c.FajrAngle), c.IshaRule(), c.Description})
	}
	fmt.Fprintf(w, "\n  %s\n\n", display.Bold("Calculation conventions"))
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintf(w, "\n  %s\n\n", display.Dim("Select one with --convention <name>. Without it, one is suggested from your country."))
	return nil
}
