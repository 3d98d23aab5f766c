package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/hydrogrid"
	"github.com/viant/hydrogrid/tracing"
	"gopkg.in/yaml.v3"
)

var (
	version         = "0.1.0"
	configFlag      string
	seedFlag        uint64
	tickFlag        time.Duration
	retriesFlag     int
	metricsAddrFlag string
	reportFlag      string
	traceFlag       string
	verboseFlag     bool
	logLevelFlag    string

	rootCmd = &cobra.Command{
		Use:           "hydrogrid",
		Short:         "hydrogrid - hydroelectric grid allocation simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run [probA probB probC numH1 numH2 numH3]",
		Short: "Run the grid until interrupted or generation is exhausted",
		Long: `Run the grid until interrupted (Ctrl+C) or until minimum generation cannot be restored.

probA, probB and probC are the odds of no rain, a downpour and a deluge on each draw
and must sum to 1. numH1, numH2 and numH3 are the number of units of each type.
Without positional arguments the values come from --config or the defaults.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 6 {
				return fmt.Errorf("expected 0 or 6 arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevelFlag)
			if err != nil {
				return err
			}
			config, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if config.Tracing.File != "" {
				provider, err := tracing.Init("hydrogrid", version, config.Tracing.File)
				if err != nil {
					return fmt.Errorf("failed to initialise tracing: %w", err)
				}
				defer provider.Shutdown(context.WithoutCancel(ctx))
			}

			srv, err := hydrogrid.New(ctx, hydrogrid.WithConfig(config), hydrogrid.WithLogger(logger))
			if err != nil {
				return err
			}
			final, err := srv.Runtime().Run(ctx)
			if final != nil {
				fmt.Fprintln(cmd.OutOrStdout(), render(final))
			}
			return err
		},
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(config)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hydrogrid",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hydrogrid version %s\n", version)
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "YAML configuration file or URL")
	flags.Uint64Var(&seedFlag, "seed", 0, "base random seed (0 picks one)")
	flags.DurationVar(&tickFlag, "tick", 0, "simulation tick")
	flags.IntVar(&retriesFlag, "retries", 0, "allocation retries below minimum generation")
	flags.StringVar(&metricsAddrFlag, "metrics-addr", "", "address serving Prometheus /metrics")
	flags.StringVar(&reportFlag, "report", "", "URL receiving the final report, %s expands to the run ID")
	flags.StringVar(&traceFlag, "trace", "", "file receiving OpenTelemetry spans")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "log every unit on each allocation pass")
	flags.StringVar(&logLevelFlag, "log-level", "info", "debug, info, warn or error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers defaults, the config file, positional arguments and flags.
func loadConfig(cmd *cobra.Command, args []string) (*hydrogrid.Config, error) {
	config := hydrogrid.DefaultConfig()
	if configFlag != "" {
		var err error
		if config, err = hydrogrid.LoadConfig(cmd.Context(), configFlag); err != nil {
			return nil, err
		}
	}
	if len(args) == 6 {
		probabilities := make([]float64, 3)
		for i := range probabilities {
			value, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", hydrogrid.ErrInvalidProbability, args[i])
			}
			probabilities[i] = value
		}
		counts := make([]int, 3)
		for i := range counts {
			value, err := strconv.Atoi(args[i+3])
			if err != nil {
				return nil, fmt.Errorf("%w: %q", hydrogrid.ErrInvalidCount, args[i+3])
			}
			counts[i] = value
		}
		config.Rain.Probabilities = probabilities
		if err := config.SetCounts(counts...); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		config.Simulation.Seed = seedFlag
	}
	if tickFlag > 0 {
		config.Simulation.Tick = tickFlag
	}
	if cmd.Flags().Changed("retries") {
		config.Allocator.Retries = retriesFlag
	}
	if metricsAddrFlag != "" {
		config.Metrics.Addr = metricsAddrFlag
	}
	if reportFlag != "" {
		config.Report.URL = reportFlag
	}
	if traceFlag != "" {
		config.Tracing.File = traceFlag
	}
	if verboseFlag {
		config.Report.Verbose = true
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var aLevel slog.Level
	if err := aLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: aLevel})), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
