package clip

import (
	"context"
	"fmt"
	"os"

	"dataset-manifest/core/embedding"
	"dataset-manifest/core/logger"
	"dataset-manifest/core/manifest"
	"dataset-manifest/core/reconcile"
	"dataset-manifest/core/walker"

	"go.uber.org/zap"
)

// Options describes one clip run.
type Options struct {
	InputDir  string
	OutputDir string
	Model     string
	Workers   int
	Indent    int
}

// Service runs the clip pipeline.
type Service struct {
	embedder embedding.Embedder
	logger   *zap.Logger
	publish  manifest.Sink
}

// NewService creates a clip service. A non-nil publish sink receives a copy of
// every manifest.
func NewService(embedder embedding.Embedder, logger *zap.Logger, publish manifest.Sink) *Service {
	return &Service{embedder: embedder, logger: logger, publish: publish}
}

// ManifestName returns the document name of an archive's vector manifest.
func ManifestName(p walker.Partition) string {
	return p.FlatName() + "_clip_vectors.json"
}

// Run embeds the images of every archive under opts.InputDir.
func (s *Service) Run(ctx context.Context, opts Options) (*reconcile.Summary, error) {
	log, _ := logger.WithRun(s.logger)
	log = log.With(zap.String("model", opts.Model))

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	var sink manifest.Sink = manifest.NewFileSink(opts.OutputDir)
	if s.publish != nil {
		sink = manifest.Tee(sink, s.publish)
	}

	spec := &reconcile.Spec[Vector, Vector]{
		Adapter: NewAdapter(s.embedder, opts.Model),
		Walker:  walker.NewArchiveWalker(walker.ArchiveImageExtensions()),
		Sink: reconcile.SinkFunc[Vector](func(ctx context.Context, p walker.Partition, vectors []Vector) error {
			return manifest.Write(ctx, sink, ManifestName(p), vectors, opts.Indent)
		}),
		Root:    opts.InputDir,
		Workers: opts.Workers,
	}
	return reconcile.Run(ctx, spec, log)
}
