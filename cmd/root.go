package cmd

import (
	"fmt"
	"os"

	"dataset-manifest/core/config"
	"dataset-manifest/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string
	workers   int
	logLevel  string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Dataset manifest builder",
	Long: `Builds fingerprinted JSON manifests for image datasets.

It joins the AVA label file against image directories or zip archives,
hashes archive contents, computes CLIP vectors through an embedding service
and serves the resulting catalog over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives readable timestamps for CLI errors.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the .env file")
	RootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "Partitions processed concurrently (overrides PIPELINE_WORKERS)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
}

// setup loads the configuration, applies explicitly set persistent flags and
// builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Pipeline.Workers = workers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}
