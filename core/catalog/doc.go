// Package catalog stores matched dataset records in a SQL table so they can
// be looked up by image id, fingerprint or partition after a run.
//
// The table is named images. image_id is the primary key, file_hash and
// partition are indexed and the rating histogram is kept as JSON text in
// score_dictionary. Upsert replaces existing rows, so re-running a join over
// the same dataset converges to the latest manifest.
package catalog
