package archive

import (
	"context"
	"fmt"
	"os"
	"time"

	"dataset-manifest/core/logger"
	"dataset-manifest/core/manifest"
	"dataset-manifest/core/reconcile"
	"dataset-manifest/core/walker"

	"go.uber.org/zap"
)

// Options describes one hash run.
type Options struct {
	InputDir  string
	OutputDir string
	Workers   int
	Indent    int
}

// Service runs the hash pipeline.
type Service struct {
	logger  *zap.Logger
	publish manifest.Sink
}

// NewService creates a hash service. A non-nil publish sink receives a copy of
// every manifest.
func NewService(logger *zap.Logger, publish manifest.Sink) *Service {
	return &Service{logger: logger, publish: publish}
}

// ManifestName returns the document name of an archive's manifest.
func ManifestName(p walker.Partition) string {
	return p.FlatName() + ".json"
}

// Run hashes every archive under opts.InputDir.
func (s *Service) Run(ctx context.Context, opts Options) (*reconcile.Summary, error) {
	log, _ := logger.WithRun(s.logger)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	var sink manifest.Sink = manifest.NewFileSink(opts.OutputDir)
	if s.publish != nil {
		sink = manifest.Tee(sink, s.publish)
	}

	// Commits run on one goroutine, so sizes needs no lock.
	sizes := make(map[string]int64)
	spec := &reconcile.Spec[Entry, Entry]{
		Adapter: Adapter{},
		Walker:  walker.NewArchiveWalker(nil),
		Sink: reconcile.SinkFunc[Entry](func(ctx context.Context, p walker.Partition, entries []Entry) error {
			if info, err := os.Stat(p.Path); err == nil {
				sizes[p.Key] = info.Size()
			}
			return manifest.Write(ctx, sink, ManifestName(p), entries, opts.Indent)
		}),
		Root:    opts.InputDir,
		Workers: opts.Workers,
	}

	summary, err := reconcile.Run(ctx, spec, log)
	if err != nil {
		return nil, err
	}

	for _, ps := range summary.Partitions {
		if ps.Err != nil {
			continue
		}
		size := sizes[ps.Key]
		log.Info("Archive hashed",
			zap.String("partition", ps.Key),
			zap.Int("entries", ps.Results),
			zap.Float64("mb", float64(size)/(1024*1024)),
			zap.Float64("uncompressed_mb", float64(ps.Bytes)/(1024*1024)),
			zap.Duration("elapsed", ps.Elapsed),
			zap.Float64("mb_per_s", Throughput(size, ps.Elapsed)),
		)
	}
	return summary, nil
}

// Throughput returns the processing speed in MiB per second. The hash run
// passes the archive's size on disk.
func Throughput(bytes int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(bytes) / (1024 * 1024) / elapsed.Seconds()
}
