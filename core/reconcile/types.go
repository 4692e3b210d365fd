package reconcile

import (
	"time"

	"dataset-manifest/core/walker"
)

// Spec bundles everything a reconciliation run needs.
type Spec[H, R any] struct {
	// Adapter provides the pipeline-specific processing.
	Adapter Adapter[H, R]

	// Walker enumerates the partitions and files under Root.
	Walker walker.Walker

	// Sink receives each partition's results right after its commit.
	Sink Sink[R]

	// Root is the source directory handed to the walker.
	Root string

	// Workers is the number of partitions processed concurrently.
	// Values below 1 mean 1.
	Workers int
}

// PartitionSummary describes one processed partition.
type PartitionSummary struct {
	// Key is the partition key.
	Key string `json:"key"`

	// Files counts files processed successfully.
	Files int `json:"files"`

	// Skipped counts files skipped because of an item error.
	Skipped int `json:"skipped"`

	// Results counts results handed to the sink.
	Results int `json:"results"`

	// Bytes is the partition size on disk, when the walker knows it.
	Bytes int64 `json:"bytes"`

	// Elapsed is the wall time spent walking the partition.
	Elapsed time.Duration `json:"elapsed"`

	// Err is set when the partition was aborted or its manifest failed to write.
	Err error `json:"-"`
}

// Summary aggregates a whole run.
type Summary struct {
	// Partitions lists every partition in processing order.
	Partitions []PartitionSummary `json:"partitions"`

	// Files counts files processed successfully across all partitions.
	Files int `json:"files"`

	// Skipped counts skipped files across all partitions.
	Skipped int `json:"skipped"`

	// Results counts results written across all partitions.
	Results int `json:"results"`

	// Aborted lists the keys of partitions that produced no manifest.
	Aborted []string `json:"aborted"`

	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed"`
}
