package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/smokyabdulrahman/prayer-engine/internal/server"
)

var (
	flagAddr     string
	flagEnvFiles []string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long: "Start a JSON API under /api/v1 and an HTML athan board at /athan.\n\n" +
			"Settings are read from PRAYER_TIMES_ADDR, PRAYER_TIMES_ENV and\n" +
			"PRAYER_TIMES_CORS_ORIGINS, optionally loaded from a .env file.\n" +
			"Convention, school, offsets and timezone defaults come from the config file.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides PRAYER_TIMES_ADDR)")
	cmd.Flags().StringSliceVar(&flagEnvFiles, "env-file", nil, "Dotenv files to load (default: .env)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	env := server.LoadEnv(flagEnvFiles...)
	if flagAddr != "" {
		env.Addr = flagAddr
	}

	school := cfg.SchoolOrDefault(prayer.Standard)
	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "school") {
		v, err := prayer.ParseSchool(FlagSchool)
		if err != nil {
			return err
		}
		school = v
	}
	offsets := cfg.Offsets
	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "offsets") {
		v, err := prayer.ParseOffsets(FlagOffsets)
		if err != nil {
			return err
		}
		offsets = v
	}

	h := server.NewHandler(server.Defaults{
		Convention: cfg.ConventionOrDefault(prayer.DefaultConvention),
		School:     school,
		Offsets:    offsets,
		Timezone:   cfg.Timezone,
	}, nowFunc)

	return server.Run(cmd.Context(), env, h)
}
