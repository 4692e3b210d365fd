package reconcile

import (
	"context"
	"fmt"
	"time"

	"dataset-manifest/core/walker"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type outcome[H any] struct {
	hits    []H
	files   int
	skipped int
	bytes   int64
	elapsed time.Duration
	err     error
}

// Run walks every partition under spec.Root, processes its files through the
// adapter, commits the hits in partition order and hands each partition's
// results to the sink. Per-file and per-partition failures are logged and
// recorded in the summary; the returned error is reserved for failures that
// stop the whole run.
func Run[H, R any](ctx context.Context, spec *Spec[H, R], logger *zap.Logger) (*Summary, error) {
	start := time.Now()
	log := logger.With(zap.String("pipeline", spec.Adapter.Name()))

	partitions, err := spec.Walker.Partitions(spec.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	workers := workerCount(spec.Workers)
	log.Info("Reconciliation started",
		zap.String("root", spec.Root),
		zap.Int("partitions", len(partitions)),
		zap.Int("workers", workers),
	)

	outcomes := make([]outcome[H], len(partitions))
	done := make([]chan struct{}, len(partitions))
	for i := range done {
		done[i] = make(chan struct{})
	}

	// window bounds partitions that are walking or waiting for commit.
	window := make(chan struct{}, workers)
	started := make([]bool, len(partitions))
	stop := make(chan struct{})
	var g errgroup.Group
	g.SetLimit(workers)

	go func() {
		for i, p := range partitions {
			select {
			case window <- struct{}{}:
			case <-stop:
				for j := i; j < len(partitions); j++ {
					outcomes[j].err = context.Canceled
					close(done[j])
				}
				return
			}
			started[i] = true
			g.Go(func() error {
				defer close(done[i])
				outcomes[i] = processPartition(ctx, spec, p, log)
				return nil
			})
		}
	}()

	summary := &Summary{Partitions: make([]PartitionSummary, 0, len(partitions))}
	var runErr error
	for i, p := range partitions {
		<-done[i]
		if started[i] {
			<-window
		}
		if runErr == nil && ctx.Err() != nil {
			runErr = ctx.Err()
			close(stop)
		}
		if runErr != nil {
			continue
		}

		ps := commitPartition(ctx, spec, p, outcomes[i], log)
		outcomes[i] = outcome[H]{}

		summary.Partitions = append(summary.Partitions, ps)
		summary.Files += ps.Files
		summary.Skipped += ps.Skipped
		summary.Results += ps.Results
		if ps.Err != nil {
			summary.Aborted = append(summary.Aborted, p.Key)
		}
	}
	_ = g.Wait()

	summary.Elapsed = time.Since(start)
	if runErr != nil {
		return summary, runErr
	}

	log.Info("Reconciliation finished",
		zap.Int("partitions", len(summary.Partitions)),
		zap.Int("aborted", len(summary.Aborted)),
		zap.Int("files", summary.Files),
		zap.Int("skipped", summary.Skipped),
		zap.Int("results", summary.Results),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func workerCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func processPartition[H, R any](ctx context.Context, spec *Spec[H, R], p walker.Partition, log *zap.Logger) outcome[H] {
	start := time.Now()
	plog := log.With(zap.String("partition", p.Key))
	plog.Debug("Processing partition", zap.String("path", p.Path))

	var o outcome[H]
	o.err = spec.Walker.Walk(ctx, p, func(f walker.File) error {
		hit, err := spec.Adapter.Process(ctx, p, f)
		if err != nil {
			if IsItemError(err) {
				plog.Warn("Skipping file", zap.String("entry", f.Path), zap.Error(err))
				o.skipped++
				return nil
			}
			return err
		}
		o.hits = append(o.hits, hit)
		o.files++
		o.bytes += f.Size
		return nil
	})
	o.elapsed = time.Since(start)
	return o
}

func commitPartition[H, R any](ctx context.Context, spec *Spec[H, R], p walker.Partition, o outcome[H], log *zap.Logger) PartitionSummary {
	plog := log.With(zap.String("partition", p.Key))
	ps := PartitionSummary{
		Key:     p.Key,
		Files:   o.files,
		Skipped: o.skipped,
		Bytes:   o.bytes,
		Elapsed: o.elapsed,
	}

	if o.err != nil {
		plog.Error("Partition aborted", zap.String("path", p.Path), zap.Error(o.err))
		ps.Err = o.err
		return ps
	}

	results := spec.Adapter.Commit(p, o.hits)
	if err := spec.Sink.WritePartition(ctx, p, results); err != nil {
		plog.Error("Failed to write partition manifest", zap.Error(err))
		ps.Err = err
		return ps
	}
	ps.Results = len(results)

	plog.Info("Partition complete",
		zap.Int("files", ps.Files),
		zap.Int("skipped", ps.Skipped),
		zap.Int("results", ps.Results),
		zap.Duration("elapsed", ps.Elapsed),
	)
	return ps
}
