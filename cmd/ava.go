package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dataset-manifest/core/catalog"
	"dataset-manifest/core/database"
	"dataset-manifest/feature/ava"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	avaLabels     string
	avaSource     string
	avaDuplicates string
	avaIndent     int
	avaStrictKeys bool
)

var avaCmd = &cobra.Command{
	Use:   "ava <images_dir> <output_dir>",
	Short: "Join AVA.txt against image files and write the manifests",
	Long: `Fingerprints every image below images_dir, links it to its AVA.txt row by the
numeric id in its file name and writes:

  <images_dir>/<dir>/<dir>.json   matched records per directory (--source dir)
  <output_dir>/<archive>.json     matched records per archive (--source zip)
  <output_dir>/AVA.json           every matched record
  <output_dir>/error.txt          Index and ImageId of unmatched records

Examples:
  manifest ava images-sorted .
  manifest ava --source zip --workers 4 --duplicates first-wins archives out`,
	Args: cobra.ExactArgs(2),
	RunE: runAva,
}

func init() {
	f := avaCmd.Flags()
	f.StringVar(&avaLabels, "labels", "", "Label file (overrides PIPELINE_LABELS)")
	f.StringVar(&avaSource, "source", ava.SourceDirectory, "Partition source: dir or zip")
	f.StringVar(&avaDuplicates, "duplicates", "", "Duplicate policy: last-wins, first-wins or error (overrides PIPELINE_DUPLICATES)")
	f.IntVar(&avaIndent, "indent", 0, "JSON indent (overrides PIPELINE_INDENT)")
	f.BoolVar(&avaStrictKeys, "strict-keys", false, "Fail when the label file repeats an image id")
	RootCmd.AddCommand(avaCmd)
}

func runAva(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	defer l.Sync()

	flags := cmd.Flags()
	if flags.Changed("labels") {
		cfg.Pipeline.Labels = avaLabels
	}
	if flags.Changed("duplicates") {
		cfg.Pipeline.Duplicates = avaDuplicates
	}
	if flags.Changed("indent") {
		cfg.Pipeline.Indent = avaIndent
	}
	if flags.Changed("strict-keys") {
		cfg.Pipeline.StrictKeys = avaStrictKeys
	}

	policy, err := cfg.Pipeline.Policy()
	if err != nil {
		return err
	}

	var opts []ava.ServiceOption
	pub, err := publisher(ctx, cfg, l)
	if err != nil {
		return err
	}
	if pub != nil {
		opts = append(opts, ava.WithPublisher(pub))
	}

	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		cat := catalog.New(db)
		if err := cat.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, ava.WithCatalog(cat))
	}

	l.Info("Starting join",
		zap.String("images", args[0]),
		zap.String("output", args[1]),
		zap.String("labels", cfg.Pipeline.Labels),
		zap.String("source", avaSource),
		zap.String("duplicates", string(policy)),
	)

	res, err := ava.NewService(l, opts...).Run(ctx, ava.Options{
		ImagesDir:  args[0],
		OutputDir:  args[1],
		Labels:     cfg.Pipeline.Labels,
		Source:     avaSource,
		Workers:    cfg.Pipeline.Workers,
		Indent:     cfg.Pipeline.Indent,
		Policy:     policy,
		StrictKeys: cfg.Pipeline.StrictKeys,
	})
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), res.Summary)
	fmt.Fprintf(cmd.OutOrStdout(), "%d records, %d matched, %d unmatched\n", res.Records, res.Matched, res.Unmatched)
	return nil
}
