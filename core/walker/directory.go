package walker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DirectoryWalker treats each immediate subdirectory of the root as a partition.
type DirectoryWalker struct {
	exts Extensions
}

// NewDirectoryWalker creates a walker accepting files with the given extensions.
func NewDirectoryWalker(exts Extensions) *DirectoryWalker {
	return &DirectoryWalker{exts: exts}
}

// Partitions returns the subdirectories of root sorted by name. Symlinks to
// directories count as partitions. Plain files at the top level are ignored.
func (w *DirectoryWalker) Partitions(root string) ([]Partition, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	// os.ReadDir returns entries sorted by filename.
	partitions := make([]Partition, 0, len(entries))
	for _, e := range entries {
		full := filepath.Join(root, e.Name())
		if !e.IsDir() {
			// Dangling links are skipped like any other non-directory.
			info, err := os.Stat(full)
			if err != nil || !info.IsDir() {
				continue
			}
		}
		partitions = append(partitions, Partition{
			Key:  e.Name(),
			Path: full,
		})
	}
	return partitions, nil
}

// Walk visits the accepted regular files directly inside p, following symlinks.
func (w *DirectoryWalker) Walk(ctx context.Context, p Partition, fn func(File) error) error {
	entries, err := os.ReadDir(p.Path)
	if err != nil {
		return fmt.Errorf("failed to list partition %s: %w", p.Key, err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || !w.exts.Allows(e.Name()) {
			continue
		}

		full := filepath.Join(p.Path, e.Name())
		info, err := os.Stat(full)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		f := File{
			Partition: p.Key,
			Name:      e.Name(),
			Path:      full,
			Size:      info.Size(),
			open:      func() (io.ReadCloser, error) { return os.Open(full) },
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
