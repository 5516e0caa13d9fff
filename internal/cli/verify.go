package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/api"
	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

var (
	flagAPIURL    string
	flagTolerance int
	flagNoCache   bool
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare computed times with the Al Adhan API",
		Long:  "Fetch the same day from the Al Adhan API and print the per-event\ndifference in minutes. Fails when any event differs by more than --tolerance.",
		Args:  cobra.NoArgs,
		RunE:  runVerify,
	}

	cmd.Flags().StringVar(&flagAPIURL, "api-url", "", "Al Adhan API base URL")
	cmd.Flags().IntVar(&flagTolerance, "tolerance", 2, "Maximum allowed difference in minutes")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Always query the API")

	return cmd
}

// verifyEvent compares one event.
type verifyEvent struct {
	Event       prayer.Event `json:"event" yaml:"event"`
	Local       time.Time    `json:"local" yaml:"local"`
	Reference   time.Time    `json:"reference" yaml:"reference"`
	DiffMinutes int          `json:"diff_minutes" yaml:"diff_minutes"`
}

// verifyOutput is the --json/--yaml shape of the verify command.
type verifyOutput struct {
	Date     string        `json:"date" yaml:"date"`
	Hijri    string        `json:"hijri,omitempty" yaml:"hijri,omitempty"`
	Settings settings      `json:"settings" yaml:"settings"`
	Events   []verifyEvent `json:"events" yaml:"events"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	local, err := prayer.Compute(s.prayerConfig(s.date))
	if err != nil {
		return err
	}

	conv, _ := prayer.Lookup(s.convention)
	req := api.Request{
		Date:       s.date,
		Location:   s.coords,
		Convention: conv,
		School:     s.school,
		Offsets:    s.offsets,
	}

	resp, err := fetchReference(cmd, s, req)
	if err != nil {
		return err
	}
	reference, err := resp.Data.Timings.Times(s.date)
	if err != nil {
		return fmt.Errorf("invalid API timings: %w", err)
	}

	out := verifyOutput{
		Date:     s.date.Format("2006-01-02"),
		Hijri:    resp.Data.Date.Hijri.Format(),
		Settings: s.settings(),
	}
	var failed int
	for _, e := range prayer.AllEvents {
		diff := int(local.At(e).Sub(reference.At(e)) / time.Minute)
		if abs(diff) > flagTolerance {
			failed++
		}
		out.Events = append(out.Events, verifyEvent{
			Event:       e,
			Local:       local.At(e),
			Reference:   reference.At(e),
			DiffMinutes: diff,
		})
	}

	w := cmd.OutOrStdout()
	if structured() {
		if err := writeStructured(w, out); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Bold("Verification against Al Adhan"))
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s · %s\n", s.place, s.date.Format("Monday, 2 January 2006"))
		if out.Hijri != "" {
			fmt.Fprintf(w, "  %s\n", out.Hijri)
		}
		fmt.Fprintf(w, "  %s\n", display.Dim(fmt.Sprintf("%s · %s · %s", s.convention, s.school, s.loc)))
		fmt.Fprintln(w)

		tbl := display.NewTable([]string{"Event", "Local", "Al Adhan", "Diff"})
		for _, ev := range out.Events {
			diff := fmt.Sprintf("%+d min", ev.DiffMinutes)
			if abs(ev.DiffMinutes) > flagTolerance {
				diff = display.Red(diff)
			} else {
				diff = display.Green(diff)
			}
			tbl.AddRow([]string{ev.Event.String(), ev.Local.Format(s.layout), ev.Reference.Format(s.layout), diff})
		}
		fmt.Fprint(w, tbl.Render())
		fmt.Fprintln(w)
	}

	if failed > 0 {
		return fmt.Errorf("%d event(s) differ by more than %d min", failed, flagTolerance)
	}
	return nil
}

// fetchReference returns the API answer for req, from the cache when possible.
func fetchReference(cmd *cobra.Command, s *session, req api.Request) (*api.Response, error) {
	if flagNoCache {
		return queryAPI(cmd, req)
	}

	c, err := openCache(s.cfg)
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable")
		return queryAPI(cmd, req)
	}
	defer c.Close()

	if resp := c.LoadReference(req); resp != nil {
		log.Debug().Str("date", req.Date.Format("2006-01-02")).Msg("using cached reference timings")
		return resp, nil
	}

	resp, err := queryAPI(cmd, req)
	if err != nil {
		return nil, err
	}
	if err := c.SaveReference(req, resp); err != nil {
		log.Warn().Err(err).Msg("failed to cache reference timings")
	}
	return resp, nil
}

func queryAPI(cmd *cobra.Command, req api.Request) (*api.Response, error) {
	client := api.NewClient()
	if flagAPIURL != "" {
		client.BaseURL = flagAPIURL
	}
	resp, err := client.FetchByCoordinates(cmd.Context(), req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference timings: %w", err)
	}
	return resp, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
