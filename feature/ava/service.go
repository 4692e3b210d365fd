package ava

import (
	"context"
	"fmt"
	"os"

	"dataset-manifest/core/catalog"
	"dataset-manifest/core/dataset"
	"dataset-manifest/core/logger"
	"dataset-manifest/core/manifest"
	"dataset-manifest/core/reconcile"
	"dataset-manifest/core/walker"

	"go.uber.org/zap"
)

const (
	// GlobalManifest is the name of the document listing every matched record.
	GlobalManifest = "AVA.json"
	// ErrorReport is the name of the unmatched report.
	ErrorReport = "error.txt"

	// SourceDirectory walks one subdirectory per partition.
	SourceDirectory = "dir"
	// SourceArchive walks one zip archive per partition.
	SourceArchive = "zip"
)

// Options describes one join run.
type Options struct {
	// ImagesDir is the root holding the partitions.
	ImagesDir string
	// OutputDir receives AVA.json, error.txt and archive partition manifests.
	OutputDir string
	// Labels is the path of the AVA label file.
	Labels string
	// Source is SourceDirectory or SourceArchive.
	Source string
	// Workers is the number of partitions processed concurrently.
	Workers int
	// Indent is the JSON indent of every manifest.
	Indent int
	// Policy resolves repeated matches of the same id.
	Policy reconcile.DuplicatePolicy
	// StrictKeys rejects label files that repeat an id.
	StrictKeys bool
}

// Result summarizes a join run.
type Result struct {
	RunID     string             `json:"run_id"`
	Summary   *reconcile.Summary `json:"summary"`
	Records   int                `json:"records"`
	Matched   int                `json:"matched"`
	Unmatched int                `json:"unmatched"`
	Cataloged int                `json:"cataloged"`
}

// Service runs the join pipeline.
type Service struct {
	logger  *zap.Logger
	publish manifest.Sink
	catalog *catalog.Catalog
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPublisher copies every document to sink as well.
func WithPublisher(sink manifest.Sink) ServiceOption {
	return func(s *Service) { s.publish = sink }
}

// WithCatalog upserts the matched records into c after the run.
func WithCatalog(c *catalog.Catalog) ServiceOption {
	return func(s *Service) { s.catalog = c }
}

// NewService creates a new join service.
func NewService(logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PartitionManifest returns the document name of a partition manifest.
func PartitionManifest(source string, p walker.Partition) string {
	if source == SourceArchive {
		return p.FlatName() + ".json"
	}
	return p.Key + "/" + p.Name() + ".json"
}

// Run loads the labels, walks the images and writes every document.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	log, runID := logger.WithRun(s.logger)

	store, err := s.loadLabels(opts, log)
	if err != nil {
		return nil, err
	}

	var w walker.Walker
	var partitionRoot string
	switch opts.Source {
	case SourceDirectory, "":
		w = walker.NewDirectoryWalker(walker.JoinImageExtensions())
		partitionRoot = opts.ImagesDir
	case SourceArchive:
		w = walker.NewArchiveWalker(walker.JoinImageExtensions())
		partitionRoot = opts.OutputDir
	default:
		return nil, fmt.Errorf("unknown source %q (want %s or %s)", opts.Source, SourceDirectory, SourceArchive)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	partitionSink := s.sink(manifest.NewFileSink(partitionRoot))
	globalSink := s.sink(manifest.NewFileSink(opts.OutputDir))

	spec := &reconcile.Spec[Hit, dataset.Record]{
		Adapter: NewAdapter(store, opts.Policy, log),
		Walker:  w,
		Sink: reconcile.SinkFunc[dataset.Record](func(ctx context.Context, p walker.Partition, recs []dataset.Record) error {
			return manifest.Write(ctx, partitionSink, PartitionManifest(opts.Source, p), recs, opts.Indent)
		}),
		Root:    opts.ImagesDir,
		Workers: opts.Workers,
	}

	summary, err := reconcile.Run(ctx, spec, log)
	if err != nil {
		return nil, err
	}

	matched := store.Matched()
	unmatched := store.Unmatched()
	if err := manifest.Write(ctx, globalSink, GlobalManifest, matched, opts.Indent); err != nil {
		return nil, err
	}
	if err := manifest.WriteReport(ctx, globalSink, ErrorReport, unmatched); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     runID,
		Summary:   summary,
		Records:   store.Len(),
		Matched:   len(matched),
		Unmatched: len(unmatched),
	}

	if s.catalog != nil {
		n, err := s.catalog.Upsert(ctx, matched)
		if err != nil {
			return nil, err
		}
		res.Cataloged = n
		log.Info("Catalog updated", zap.Int("images", n))
	}

	log.Info("Join finished",
		zap.Int("records", res.Records),
		zap.Int("matched", res.Matched),
		zap.Int("unmatched", res.Unmatched),
		zap.Strings("aborted", summary.Aborted),
	)
	return res, nil
}

func (s *Service) loadLabels(opts Options, log *zap.Logger) (*dataset.Store, error) {
	f, err := os.Open(opts.Labels)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels: %w", err)
	}
	defer f.Close()

	rows, err := dataset.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.Labels, err)
	}

	loadOpts := []dataset.LoadOption{
		dataset.WithDuplicateHook(func(id int64) {
			log.Warn("Duplicate image id in labels, keeping the later row", zap.Int64("image_id", id))
		}),
	}
	if opts.StrictKeys {
		loadOpts = append(loadOpts, dataset.WithStrictKeys())
	}
	store, err := dataset.Load(rows, loadOpts...)
	if err != nil {
		return nil, err
	}
	log.Info("Labels loaded", zap.String("path", opts.Labels), zap.Int("records", store.Len()))
	return store, nil
}

func (s *Service) sink(local manifest.Sink) manifest.Sink {
	if s.publish == nil {
		return local
	}
	return manifest.Tee(local, s.publish)
}
