// Package dataset holds the tabular side of the join: the rating rows read from
// AVA.txt and the in-memory Store that indexes them by image id.
//
// # Records
//
// Each Record carries the original row position, the image id, the ten rating
// bucket counts (Histogram) and their sum. The semantic tag and challenge
// columns are parsed but never stored. FileHash and FileName stay empty until a
// physical file is matched; they are always set together.
//
// # Store
//
// A Store is built once with Load, mutated only through SetMatch, and read with
// Get, All, Matched and Unmatched. All slices are returned in ascending image
// id order and are copies, so callers may keep them after the store changes.
//
// # Usage
//
//	rows, err := dataset.ReadRows(f)
//	store, err := dataset.Load(rows, dataset.WithDuplicateHook(func(id int64) {
//	    log.Warn("duplicate image id", zap.Int64("image_id", id))
//	}))
//	store.SetMatch(953619, sum, "953619.jpg", "1")
package dataset
