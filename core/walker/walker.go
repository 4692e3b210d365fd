package walker

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Partition is one output grouping: a subdirectory or an archive.
type Partition struct {
	// Key identifies the partition in manifests and logs. For directories it
	// is the directory name; for archives it is the slash-separated path
	// relative to the root without the .zip suffix.
	Key string

	// Path is the filesystem path of the directory or archive.
	Path string
}

// Name returns the last element of the partition key.
func (p Partition) Name() string {
	return path.Base(p.Key)
}

// FlatName returns the key with path separators replaced by underscores,
// for use as a file name in a flat output directory.
func (p Partition) FlatName() string {
	return strings.ReplaceAll(p.Key, "/", "_")
}

// File is one physical file encountered during a walk. It is only valid
// inside the Walk callback that produced it.
type File struct {
	// Partition is the key of the owning partition.
	Partition string

	// Name is the base file name, e.g. "953619.jpg".
	Name string

	// Path is the path of the file inside its container: the entry path for
	// archives, the filesystem path for directories.
	Path string

	// Size is the uncompressed size in bytes.
	Size int64

	open func() (io.ReadCloser, error)
}

// Open returns a reader over the file's bytes.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content source", f.Path)
	}
	return f.open()
}

// Stem returns the file name up to the first '.'.
func (f File) Stem() string {
	if i := strings.IndexByte(f.Name, '.'); i >= 0 {
		return f.Name[:i]
	}
	return f.Name
}

// Walker enumerates partitions and their files.
type Walker interface {
	// Partitions lists the partitions under root in processing order.
	Partitions(root string) ([]Partition, error)

	// Walk calls fn for every accepted file of p, in order. An error from fn
	// stops the walk and is returned unchanged.
	Walk(ctx context.Context, p Partition, fn func(File) error) error
}
