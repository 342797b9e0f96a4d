package config

import (
	"fmt"
	"strings"

	"nslpulse/internal/config"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"Without a key, every setting is listed with its effective value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  nslpulse config get               # list all values\n" +
			"  nslpulse config get serve-addr    # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		for _, spec := range config.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, displayValue(spec, cfg))
		}
		return nil
	}

	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	fmt.Fprintln(cmd.OutOrStdout(), displayValue(*spec, cfg))
	return nil
}

// displayValue returns the stored value, or the default marked as such.
func displayValue(spec config.KeySpec, cfg *config.Config) string {
	if v := spec.Get(cfg); v != "" {
		return v
	}
	return spec.Default + " (default)"
}
