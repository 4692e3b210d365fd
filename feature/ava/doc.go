// Package ava joins the AVA label file against a tree of image files.
//
// Every image whose file name starts with a numeric id is fingerprinted with
// SHA-256 and linked to the label row carrying that id. The run produces:
//
//   - one manifest per partition with the records matched in it,
//   - AVA.json with every matched record in ascending id order,
//   - error.txt listing the Index and ImageId of records never matched.
//
// # Sources
//
//   - dir: each subdirectory of the images root is a partition and its
//     manifest is written inside it as <dir>/<dir>.json.
//   - zip: every archive below the root is a partition and its manifest is
//     written to the output directory.
//
// # Duplicates
//
// A second file for an id already matched in the same run is resolved by the
// configured reconcile.DuplicatePolicy. Partition manifests hold the record as
// it was when that partition committed; AVA.json holds the final state.
package ava
