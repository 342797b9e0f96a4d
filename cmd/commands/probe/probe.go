package probe

import (
	"nslpulse/internal/pulse"

	"github.com/spf13/cobra"
)

// NewCommand returns the "probe" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <paths>",
		Short: "Probe one or more pulse endpoints",
		Long: `Fetch and report the pulse of each comma-separated path, in order.

Every path is checked for a '/' before anything is fetched: a single
malformed path aborts the whole run. Once probing starts, a failing host
(unreachable, bad status, unexpected body) is reported and the remaining
hosts are still probed.

Examples:
  nslpulse probe node1.example.com/pulse
  nslpulse probe "10.0.0.5:50110/pulse, https://node2.example.com/nsl/abc123"`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          Run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	return cmd
}

// Run probes the targets in args[0] and writes the report to the command's
// stdout. It returns an error only for argument errors.
func Run(cmd *cobra.Command, args []string) error {
	var targets []string
	if len(args) > 0 {
		targets = pulse.SplitTargets(args[0])
	}

	runner := pulse.NewRunner(pulse.NewHTTPFetcher(nil), cmd.OutOrStdout())
	_, err := runner.Run(cmd.Context(), targets)
	return err
}
