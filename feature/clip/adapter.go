package clip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"dataset-manifest/core/embedding"
	"dataset-manifest/core/fingerprint"
	"dataset-manifest/core/walker"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImageSize caps the bytes read from a single archive entry.
const MaxImageSize = 256 << 20

// Vector is the manifest entry of one image.
type Vector struct {
	ZipFile    string    `json:"zipfile"`
	FileName   string    `json:"filename"`
	FileHash   string    `json:"file_hash"`
	ClipModel  string    `json:"clip_model"`
	ClipVector []float32 `json:"clip_vector"`
}

// Adapter embeds archive images.
type Adapter struct {
	embedder embedding.Embedder
	model    string
}

// NewAdapter creates an adapter that records model as the clip_model of every entry.
func NewAdapter(embedder embedding.Embedder, model string) *Adapter {
	return &Adapter{embedder: embedder, model: model}
}

// Name implements reconcile.Adapter.
func (a *Adapter) Name() string { return "clip" }

// Process reads the image, fingerprints it and asks the embedder for its vector.
func (a *Adapter) Process(ctx context.Context, p walker.Partition, f walker.File) (Vector, error) {
	rc, err := f.Open()
	if err != nil {
		return Vector{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxImageSize+1))
	if err != nil {
		return Vector{}, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	if len(data) > MaxImageSize {
		return Vector{}, &embedding.DecodeError{Entry: f.Path, Err: fmt.Errorf("image larger than %d bytes", MaxImageSize)}
	}

	if err := checkDecodable(f.Path, data); err != nil {
		return Vector{}, err
	}

	vec, err := a.embedder.Embed(ctx, data)
	if err != nil {
		var de *embedding.DecodeError
		if errors.As(err, &de) && de.Entry == "" {
			de.Entry = f.Path
		}
		return Vector{}, err
	}

	return Vector{
		ZipFile:    filepath.Base(p.Path),
		FileName:   f.Name,
		FileHash:   fingerprint.Sum(data),
		ClipModel:  a.model,
		ClipVector: embedding.Normalize(vec),
	}, nil
}

// Commit returns the vectors unchanged.
func (a *Adapter) Commit(_ walker.Partition, hits []Vector) []Vector {
	return hits
}

func checkDecodable(entry string, data []byte) error {
	switch strings.ToLower(filepath.Ext(entry)) {
	case ".ppm", ".pgm":
		return nil
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return &embedding.DecodeError{Entry: entry, Err: err}
	}
	return nil
}
