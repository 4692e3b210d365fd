package reconcile

import (
	"context"

	"dataset-manifest/core/walker"
)

// Adapter defines the pipeline-specific half of a reconciliation run.
// H is the per-file hit produced by Process; R is the per-partition result
// written to the manifest.
type Adapter[H, R any] interface {
	// Name returns the pipeline name used in logs (e.g. "ava", "clip").
	Name() string

	// Process handles a single file. Errors for which IsItemError is true skip
	// the file; any other error aborts the partition.
	// Process may run concurrently for different partitions.
	Process(ctx context.Context, p walker.Partition, f walker.File) (H, error)

	// Commit folds the hits of one fully walked partition into the adapter's
	// state and returns the results to flush. Commit is never called
	// concurrently and is called in partition order.
	Commit(p walker.Partition, hits []H) []R
}

// Sink receives the committed results of each partition.
type Sink[R any] interface {
	WritePartition(ctx context.Context, p walker.Partition, results []R) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc[R any] func(ctx context.Context, p walker.Partition, results []R) error

// WritePartition calls f.
func (f SinkFunc[R]) WritePartition(ctx context.Context, p walker.Partition, results []R) error {
	return f(ctx, p, results)
}
