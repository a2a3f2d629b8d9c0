package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/config"
	"github.com/ajitpratap0/datacontainer/pkg/logger"
	"github.com/ajitpratap0/datacontainer/pkg/metrics"
)

var version = "0.1.0"

// app holds the state shared by every command
type app struct {
	configPath string
	logLevel   string
	output     string
	dump       bool

	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "datacontainer",
		Short: "Inspect, classify and bin tabular datasets",
		Long: `datacontainer loads a dataset (JSON, GeoJSON, CSV or Arrow, optionally
compressed) into an in-memory column store and reports column domains, class
boundaries, bins and groups, or converts it to Arrow.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a configuration file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "json", "Output format (json, yaml)")
	root.PersistentFlags().BoolVar(&a.dump, "metrics", false, "Print collected metrics to stderr when done")

	root.AddCommand(
		a.versionCmd(),
		a.domainCmd(),
		a.boundsCmd(),
		a.binCmd(),
		a.groupByCmd(),
		a.exportCmd(),
	)
	return root
}

// setup loads the configuration and installs the global logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadViper(a.configPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Metrics.Dump = a.dump
	}
	if a.output != "json" && a.output != "yaml" {
		return fmt.Errorf("unsupported output format %q", a.output)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, logger.CommandKey, cmd.Name())
	if len(args) > 0 {
		ctx = context.WithValue(ctx, logger.DatasetKey, args[0])
	}
	a.log = logger.WithContext(ctx)
	a.log.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.Stringer("default_method", cfg.Binning.DefaultMethod),
		zap.Int("default_num_classes", cfg.Binning.DefaultNumClasses))
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.cfg != nil && a.cfg.Metrics.Dump {
		if err := metrics.Dump(cmd.ErrOrStderr(), prometheus.DefaultGatherer); err != nil {
			return err
		}
	}
	_ = logger.Sync()
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// no configuration is needed to print the version
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "datacontainer v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
