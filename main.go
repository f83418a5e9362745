package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"voice-capture/config"
	"voice-capture/metrics"
)

// app carries what every command needs once the configuration is loaded.
type app struct {
	fs       afero.Fs
	out      io.Writer
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{fs: afero.NewOsFs(), out: os.Stdout}

	if err := newRootCommand(a, os.LookupEnv).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(a *app, lookup func(string) (string, bool)) *cobra.Command {
	var (
		configPath  string
		logLevel    string
		metricsFile string
	)

	root := &cobra.Command{
		Use:           "voice-capture",
		Short:         "Record speech from the microphone and stop when the speaker goes quiet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Loader{Fs: a.fs, Lookup: lookup}.Load(configPath)
			if err != nil {
				return err
			}

			if logLevel != "" {
				cfg.Logging.Level = logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg.Logging.Level)
			a.registry = prometheus.NewRegistry()
			a.metrics = metrics.New(a.registry)
			a.out = cmd.OutOrStdout()

			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if metricsFile == "" {
				return nil
			}

			return prometheus.WriteToTextfile(metricsFile, a.registry)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		newListenCommand(a),
		newTrimCommand(a),
		newAnalyzeCommand(a),
		newPlayCommand(a),
		newDevicesCommand(a),
	)

	return root
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
