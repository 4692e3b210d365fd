package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dataset-manifest/feature/archive"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var hashIndent int

var hashCmd = &cobra.Command{
	Use:   "hash <input_dir> <output_dir>",
	Short: "Write a sha256 manifest for every zip archive",
	Long: `Walks input_dir for .zip archives and writes one manifest per archive to
output_dir listing file_path, file_name and sha256 of every entry.`,
	Args: cobra.ExactArgs(2),
	RunE: runHash,
}

func init() {
	hashCmd.Flags().IntVar(&hashIndent, "indent", 0, "JSON indent (overrides PIPELINE_ARCHIVE_INDENT)")
	RootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	defer l.Sync()

	if cmd.Flags().Changed("indent") {
		cfg.Pipeline.ArchiveIndent = hashIndent
	}

	pub, err := publisher(ctx, cfg, l)
	if err != nil {
		return err
	}

	l.Info("Starting hash run", zap.String("input", args[0]), zap.String("output", args[1]))
	summary, err := archive.NewService(l, pub).Run(ctx, archive.Options{
		InputDir:  args[0],
		OutputDir: args[1],
		Workers:   cfg.Pipeline.Workers,
		Indent:    cfg.Pipeline.ArchiveIndent,
	})
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), summary)
	return nil
}
