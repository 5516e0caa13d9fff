package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/config"
	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

const configSetExamples = `
  prayer-times config set latitude 23.8103
  prayer-times config set longitude 90.4125
  prayer-times config set timezone Asia/Dhaka
  prayer-times config set convention Karachi
  prayer-times config set school hanafi
  prayer-times config set offsets Dhuhr:1,Maghrib:1,Isha:1`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify the saved settings",
		Long:  "Without a subcommand, print the settings saved in the config file.",
		Args:  cobra.NoArgs,
		RunE:  withConfig(showConfig),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the saved settings",
			Args:  cobra.NoArgs,
			RunE:  withConfig(showConfig),
		},
		&cobra.Command{
			Use:     "set <key> <value>",
			Short:   "Save one setting",
			Long:    "Save one setting. Keys: " + strings.Join(config.ValidKeys, ", "),
			Example: strings.TrimPrefix(configSetExamples, "\n"),
			Args:    cobra.ExactArgs(2),
			RunE: withConfig(func(w io.Writer, cfg *config.Config, args []string) error {
				if err := cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := cfg.Save(); err != nil {
					return err
				}
				stored, _ := cfg.Get(args[0])
				fmt.Fprintf(w, "Set %s = %s\n", args[0], stored)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one saved setting",
			Args:  cobra.ExactArgs(1),
			RunE: withConfig(func(w io.Writer, cfg *config.Config, args []string) error {
				v, err := cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(w, v)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Delete the config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Reset(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.Path()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
	)

	return cmd
}

// withConfig adapts a handler that works on the file contents, ignoring flags.
func withConfig(fn func(w io.Writer, cfg *config.Config, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return fn(cmd.OutOrStdout(), cfg, args)
	}
}

func showConfig(w io.Writer, cfg *config.Config, _ []string) error {
	if structured() {
		return writeStructured(w, cfg)
	}

	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  Configuration (%s)\n\n", path)
	for _, k := range config.ValidKeys {
		v, _ := cfg.Get(k)
		fmt.Fprintf(w, "  %-14s %s\n", k, describeSetting(k, v))
	}
	return nil
}

func describeSetting(key, value string) string {
	if value == "" {
		return display.Dim("(not set)")
	}
	if key == "convention" {
		if conv, ok := prayer.Lookup(value); ok {
			return fmt.Sprintf("%s (%s)", conv.Name, conv.Description)
		}
	}
	return value
}
