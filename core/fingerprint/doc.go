// Package fingerprint computes the content hashes that prove a physical file
// belongs to a dataset entry.
//
// A fingerprint is the lowercase hex SHA-256 digest of the file bytes. The same
// digest is used by every pipeline, so manifests produced from a directory tree
// and from zip archives can be compared to find renamed or duplicated files.
//
// # Usage
//
//	sum := fingerprint.Sum(data)
//
//	// Streaming, without holding the file in memory:
//	sum, n, err := fingerprint.Reader(f)
package fingerprint
