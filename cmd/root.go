package cmd

import (
	"fmt"
	"os"

	cfgcmd "nslpulse/cmd/commands/config"
	"nslpulse/cmd/commands/probe"
	"nslpulse/cmd/commands/serve"
	"nslpulse/internal/pulse"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command. Given a target list it probes it,
// the same as "nslpulse probe".
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "nslpulse [paths]",
		Short: "Probe the pulse of NSL servers in the wild",
		Long: `nslpulse fetches the pulse string published by NSL servers and prints a
health report per host: CPU load, database liveness, uptime, disk and
memory usage.

Paths are a single comma-separated argument. Each path must contain a '/'
(append the server's hash or pulse path); paths without a scheme are
probed over http://.

Quick start:
  nslpulse node1.example.com/pulse,node2.example.com/pulse
  nslpulse serve                   # publish this host's pulse
  nslpulse config get              # show daemon settings`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          probe.Run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(probe.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())

	return cmd
}

// Execute runs the root command and exits non-zero on failure. Argument
// errors have already been reported on stdout by the probe loop.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		if !pulse.IsArgumentError(err) {
			fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
