package serve

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nslpulse/internal/config"
	"nslpulse/internal/server"
	"nslpulse/internal/sysinfo"

	"github.com/spf13/cobra"
)

// options are the resolved daemon settings.
type options struct {
	addr        string
	path        string
	mount       string
	dbProcesses []string
}

// NewCommand returns the "serve" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Publish this host's pulse over HTTP",
		Long: `Run a small HTTP daemon that answers GET requests with this host's pulse
string: load average, database liveness, uptime, disk and memory usage.

Flags override the persisted settings from 'nslpulse config'. The daemon
stops on SIGINT or SIGTERM.

Examples:
  nslpulse serve
  nslpulse serve --addr 127.0.0.1:50110 --path /nsl/abc123 --mount /home`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config: "+config.DefaultServeAddr+")")
	cmd.Flags().String("path", "", "URL path to publish the pulse on (default from config: "+config.DefaultServePath+")")
	cmd.Flags().String("mount", "", "Mount point to report disk usage for (default from config: "+config.DefaultDiskMount+")")
	cmd.Flags().String("db-processes", "", "Comma-separated database process names")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := resolveOptions(cmd, cfg)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	collector := sysinfo.NewCollector(opts.mount, opts.dbProcesses)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := server.NewHandler(opts.path, collector, logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "NSL Pulse Server")
	fmt.Fprintf(cmd.OutOrStdout(), "publishing pulse on %s%s (disk: %s)\n", opts.addr, opts.path, opts.mount)

	return server.ListenAndServe(ctx, opts.addr, handler, logger)
}

// resolveOptions applies explicitly set flags over the loaded config and
// validates the result with the config key validators.
func resolveOptions(cmd *cobra.Command, cfg *config.Config) (options, error) {
	merged := *cfg
	for flag, key := range map[string]string{
		"addr":         "serve-addr",
		"path":         "serve-path",
		"mount":        "disk-mount",
		"db-processes": "db-processes",
	} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		value, _ := cmd.Flags().GetString(flag)
		spec := config.Lookup(key)
		if spec.Validate != nil {
			if err := spec.Validate(value); err != nil {
				return options{}, fmt.Errorf("--%s: %w", flag, err)
			}
		}
		spec.Set(&merged, value)
	}

	return options{
		addr:        merged.Addr(),
		path:        merged.PulsePath(),
		mount:       merged.Mount(),
		dbProcesses: merged.DatabaseProcesses(),
	}, nil
}
