package config

import (
	"nslpulse/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pulse daemon settings",
		Long: "View and modify persistent settings used by 'nslpulse serve'.\n\n" +
			"Configuration is stored at ~/.config/nslpulse/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
