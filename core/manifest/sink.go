package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"dataset-manifest/core/storage"

	"github.com/minio/minio-go/v7"
)

// Sink opens named documents for writing. Names are slash separated and
// relative; the document becomes visible only once the writer is closed
// without error.
type Sink interface {
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}

// aborter is implemented by writers that can discard a partially written
// document instead of publishing it on Close.
type aborter interface {
	Abort()
}

func abort(w io.Writer) {
	if a, ok := w.(aborter); ok {
		a.Abort()
	}
}

// FileSink writes documents below Dir.
type FileSink struct {
	Dir string
}

// NewFileSink returns a sink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Create opens a temp file next to the destination. Close syncs it and renames
// it into place, replacing any previous version.
func (s *FileSink) Create(_ context.Context, name string) (io.WriteCloser, error) {
	dst := filepath.Join(s.Dir, filepath.FromSlash(name))
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &atomicFile{File: tmp, dst: dst}, nil
}

type atomicFile struct {
	*os.File
	dst     string
	aborted bool
}

func (f *atomicFile) Abort() { f.aborted = true }

func (f *atomicFile) Close() error {
	tmpName := f.Name()
	if f.aborted {
		_ = f.File.Close()
		_ = os.Remove(tmpName)
		return nil
	}
	if err := f.Sync(); err != nil {
		_ = f.File.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := f.File.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.dst); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// BucketSink uploads documents to an object storage bucket.
type BucketSink struct {
	Client storage.Client
	Bucket string
	Prefix string
}

// NewBucketSink returns a sink that stores documents under bucket/prefix.
func NewBucketSink(client storage.Client, bucket, prefix string) *BucketSink {
	return &BucketSink{Client: client, Bucket: bucket, Prefix: prefix}
}

// Create returns a buffer that is uploaded when closed.
func (s *BucketSink) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	return &objectWriter{ctx: ctx, sink: s, key: storage.ObjectKey(s.Prefix, name)}, nil
}

type objectWriter struct {
	bytes.Buffer
	ctx     context.Context
	sink    *BucketSink
	key     string
	aborted bool
}

func (w *objectWriter) Abort() { w.aborted = true }

func (w *objectWriter) Close() error {
	if w.aborted {
		return nil
	}
	size := int64(w.Len())
	_, err := w.sink.Client.PutObject(w.ctx, w.sink.Bucket, w.key, bytes.NewReader(w.Bytes()), size, minio.PutObjectOptions{
		ContentType: contentType(w.key),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", w.key, err)
	}
	return nil
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Tee returns a sink that writes every document to all of sinks.
func Tee(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	ws := make(multiWriter, 0, len(t))
	for _, s := range t {
		w, err := s.Create(ctx, name)
		if err != nil {
			ws.Abort()
			_ = ws.Close()
			return nil, err
		}
		ws = append(ws, w)
	}
	return ws, nil
}

type multiWriter []io.WriteCloser

func (m multiWriter) Write(p []byte) (int, error) {
	for _, w := range m {
		if _, err := w.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (m multiWriter) Abort() {
	for _, w := range m {
		abort(w)
	}
}

func (m multiWriter) Close() error {
	var errs []error
	for _, w := range m {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
