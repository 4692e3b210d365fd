package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"dataset-manifest/core/fingerprint"
	"dataset-manifest/core/walker"
)

// Entry is one fingerprinted archive member.
type Entry struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	SHA256   string `json:"sha256"`
}

// Adapter hashes archive entries. It keeps no state between partitions.
type Adapter struct{}

// Name implements reconcile.Adapter.
func (Adapter) Name() string { return "hash" }

// Process reads and fingerprints one entry.
func (Adapter) Process(ctx context.Context, p walker.Partition, f walker.File) (Entry, error) {
	rc, err := f.Open()
	if err != nil {
		return Entry{}, err
	}
	defer rc.Close()

	sum, _, err := fingerprint.Reader(rc)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to fingerprint %s: %w", f.Path, err)
	}
	return Entry{
		FilePath: filepath.Join(filepath.Dir(p.Path), filepath.FromSlash(f.Path)),
		FileName: f.Name,
		SHA256:   sum,
	}, nil
}

// Commit returns the entries unchanged.
func (Adapter) Commit(_ walker.Partition, hits []Entry) []Entry {
	return hits
}
