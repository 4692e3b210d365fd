// Package manifest serializes pipeline results into JSON manifests and the
// unmatched report, and delivers them to one or more sinks.
//
// # Encoding
//
// Encode writes a JSON array one element at a time. Each element is marshalled
// with github.com/goccy/go-json, so struct field order is the declaration order
// and map keys are sorted. Identical input always yields identical bytes, which
// keeps manifests diffable between runs.
//
// # Sinks
//
//   - FileSink: writes below a root directory through a temp file and rename,
//     so a crashed run never leaves a truncated manifest behind.
//   - BucketSink: buffers the document and uploads it with a single PutObject
//     when the writer is closed.
//   - Tee: fans one document out to several sinks.
//
// # Report
//
// WriteReport renders the unmatched records as a two column plain text table
// (Index, ImageId) using go-pretty.
package manifest
