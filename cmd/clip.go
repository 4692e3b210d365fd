package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dataset-manifest/core/embedding"
	"dataset-manifest/feature/clip"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	clipEndpoint string
	clipModel    string
	clipIndent   int
)

var clipCmd = &cobra.Command{
	Use:   "clip <input_dir> <output_dir>",
	Short: "Write CLIP vectors for the images inside every zip archive",
	Long: `Posts every image entry of the .zip archives under input_dir to the embedding
service and writes one <archive>_clip_vectors.json per archive to output_dir.`,
	Args: cobra.ExactArgs(2),
	RunE: runClip,
}

func init() {
	f := clipCmd.Flags()
	f.StringVar(&clipEndpoint, "endpoint", "", "Embedding service URL (overrides EMBEDDING_ENDPOINT)")
	f.StringVar(&clipModel, "model", "", "Embedding model (overrides EMBEDDING_MODEL)")
	f.IntVar(&clipIndent, "indent", 0, "JSON indent (overrides PIPELINE_ARCHIVE_INDENT)")
	RootCmd.AddCommand(clipCmd)
}

func runClip(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	defer l.Sync()

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Embedding.Endpoint = clipEndpoint
	}
	if flags.Changed("model") {
		cfg.Embedding.Model = clipModel
	}
	if flags.Changed("indent") {
		cfg.Pipeline.ArchiveIndent = clipIndent
	}

	embedder, err := embedding.NewHTTPEmbedder(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	pub, err := publisher(ctx, cfg, l)
	if err != nil {
		return err
	}

	l.Info("Starting clip run",
		zap.String("input", args[0]),
		zap.String("output", args[1]),
		zap.String("endpoint", cfg.Embedding.Endpoint),
	)
	summary, err := clip.NewService(embedder, l, pub).Run(ctx, clip.Options{
		InputDir:  args[0],
		OutputDir: args[1],
		Model:     embedder.Model(),
		Workers:   cfg.Pipeline.Workers,
		Indent:    cfg.Pipeline.ArchiveIndent,
	})
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), summary)
	return nil
}
