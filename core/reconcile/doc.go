// Package reconcile provides the partition engine that joins physical files
// against a pipeline's data model and flushes one manifest per partition.
//
// The engine is generic over the pipeline through an Adapter, in the same way
// every dataset pipeline shares one scheduling model:
//
//   - Process runs once per accepted file, inside the partition's worker. It
//     does the expensive work (hashing, embedding) and returns a hit.
//   - Commit runs once per partition, on a single goroutine, strictly in
//     partition order. It folds the hits into shared state (the RecordStore
//     for the join pipeline) and returns the results to flush.
//
// # Failure Model
//
// Errors that concern one file (KeyParseError, DuplicateMatchError, decode
// failures from the embedding capability) are logged and the file is skipped.
// Any other error from the walk, such as an unreadable archive, aborts the
// partition: nothing it produced is committed and no manifest is written for
// it. Sibling partitions continue. Only a failure to list partitions, or a
// cancelled context, fails the run.
//
// # Concurrency
//
// With Workers > 1, partitions are walked concurrently. At most Workers
// partitions are in flight or waiting for commit at any time, and commits are
// serialized in partition order, so duplicate-match policies resolve exactly
// as they do with a single worker and output is identical between runs.
//
// # Usage
//
//	summary, err := reconcile.Run(ctx, &reconcile.Spec[ava.Hit, dataset.Record]{
//	    Adapter: adapter,
//	    Walker:  walker.NewDirectoryWalker(walker.JoinImageExtensions()),
//	    Sink:    partitionWriter,
//	    Root:    "images-sorted",
//	    Workers: 4,
//	}, logger)
package reconcile
