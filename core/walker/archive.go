package walker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ArchiveError reports an archive that could not be opened or read. It aborts
// the partition it belongs to.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// IsArchiveError reports whether err is or wraps an ArchiveError.
func IsArchiveError(err error) bool {
	var e *ArchiveError
	return errors.As(err, &e)
}

// ArchiveWalker treats each zip archive under the root as a partition.
type ArchiveWalker struct {
	exts Extensions
}

// NewArchiveWalker creates a walker accepting archive entries with the given
// extensions. Pass nil to accept every entry.
func NewArchiveWalker(exts Extensions) *ArchiveWalker {
	return &ArchiveWalker{exts: exts}
}

// Partitions walks root recursively and returns every *.zip file, sorted by
// partition key.
func (w *ArchiveWalker) Partitions(root string) ([]Partition, error) {
	var partitions []Partition
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".zip") {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		partitions = append(partitions, Partition{
			Key:  strings.TrimSuffix(rel, path.Ext(rel)),
			Path: p,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for archives: %w", root, err)
	}

	sort.Slice(partitions, func(i, j int) bool { return partitions[i].Key < partitions[j].Key })
	return partitions, nil
}

// Walk opens the archive once, visits its accepted entries in archive order and
// closes it before returning.
func (w *ArchiveWalker) Walk(ctx context.Context, p Partition, fn func(File) error) error {
	r, err := zip.OpenReader(p.Path)
	if err != nil {
		return &ArchiveError{Path: p.Path, Err: err}
	}
	defer r.Close()

	for _, zf := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if zf.FileInfo().IsDir() || strings.HasSuffix(zf.Name, "/") {
			continue
		}
		name := path.Base(zf.Name)
		if !w.exts.Allows(name) {
			continue
		}

		entry := zf
		f := File{
			Partition: p.Key,
			Name:      name,
			Path:      entry.Name,
			Size:      int64(entry.UncompressedSize64),
			open: func() (io.ReadCloser, error) {
				rc, err := entry.Open()
				if err != nil {
					return nil, &ArchiveError{Path: p.Path, Err: fmt.Errorf("open %s: %w", entry.Name, err)}
				}
				return &entryReader{ReadCloser: rc, archive: p.Path, entry: entry.Name}, nil
			},
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// entryReader reports decompression and checksum failures as ArchiveErrors.
type entryReader struct {
	io.ReadCloser
	archive string
	entry   string
}

func (r *entryReader) Read(b []byte) (int, error) {
	n, err := r.ReadCloser.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		err = &ArchiveError{Path: r.archive, Err: fmt.Errorf("read %s: %w", r.entry, err)}
	}
	return n, err
}
