package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/prayer-engine/internal/config"
	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/logging"
)

// Persistent flags, bound in NewRootCmd.
var (
	FlagCity       string
	FlagCountry    string
	FlagLatitude   float64
	FlagLongitude  float64
	FlagTimezone   string
	FlagConvention string
	FlagSchool     string
	FlagOffsets    string
	FlagDate       string
	FlagJSON       bool
	FlagYAML       bool
	FlagCacheDir   string
	FlagTimeFormat string
	FlagVerbose    bool
	FlagNoColor    bool
)

// loadedConfig is the config file as read by PersistentPreRunE.
var loadedConfig *config.Config

// NewRootCmd builds the prayer-times command tree. Without a subcommand it
// prints today's schedule.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-times",
		Short:   "Islamic prayer times, computed locally",
		Long:    "Compute Islamic prayer times, prayer windows and forbidden windows from\nyour coordinates, without any network service.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(FlagVerbose)
			if FlagNoColor {
				display.SetEnabled(false)
			}
			if FlagJSON && FlagYAML {
				return errors.New("--json and --yaml are mutually exclusive")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "City label shown in output")
	pf.StringVar(&FlagCountry, "country", "", "ISO 3166 country code, used to suggest a convention")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Latitude in decimal degrees")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Longitude in decimal degrees")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone, e.g. Asia/Dhaka")
	pf.StringVar(&FlagConvention, "convention", "", "Calculation convention (see 'conventions')")
	pf.StringVar(&FlagSchool, "school", "", "Asr school: standard or hanafi")
	pf.StringVar(&FlagOffsets, "offsets", "", "Per-event minute offsets, e.g. Dhuhr:2,Maghrib:3")
	pf.StringVar(&FlagDate, "date", "", "Day to compute, YYYY-MM-DD (default: today)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON")
	pf.BoolVar(&FlagYAML, "yaml", false, "Output as YAML")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&FlagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newNextCmd(),
		newNowCmd(),
		newListCmd(),
		newWeekCmd(),
		newMonthCmd(),
		newQueryCmd(),
		newVerifyCmd(),
		newWatchCmd(),
		newServeCmd(),
		newConventionsCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

// effectiveConfig layers explicitly set flags over the config file.
// Convention and school stay unset when neither source has them so the
// location can suggest one; they are resolved in newSession.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Config{}
	if loadedConfig != nil {
		cfg = *loadedConfig
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"city", func() { cfg.City = FlagCity }},
		{"country", func() { cfg.Country = FlagCountry }},
		{"latitude", func() { cfg.Latitude = FlagLatitude }},
		{"longitude", func() { cfg.Longitude = FlagLongitude }},
		{"timezone", func() { cfg.Timezone = FlagTimezone }},
		{"convention", func() { cfg.Convention = FlagConvention }},
		{"cache-dir", func() { cfg.CacheDir = FlagCacheDir }},
		{"time-format", func() { cfg.TimeFormat = FlagTimeFormat }},
	}
	local, persistent := cmd.Flags(), cmd.Root().PersistentFlags()
	for _, o := range overrides {
		if flagWasSet(local, persistent, o.flag) {
			o.apply()
		}
	}

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = config.Defaults().TimeFormat
	}
	return &cfg
}

func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	for _, fs := range []*pflag.FlagSet{local, persistent} {
		if f := fs.Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}
