package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ZipEntry is one member of a test archive. A name ending in "/" creates a
// directory entry.
type ZipEntry struct {
	Name string
	Data []byte
}

// WriteZip builds a zip archive at path with the given entries in order.
func WriteZip(t testing.TB, path string, entries ...ZipEntry) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("zip create %s: %v", e.Name, err)
		}
		if len(e.Data) > 0 {
			if _, err := w.Write(e.Data); err != nil {
				t.Fatalf("zip write %s: %v", e.Name, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	WriteFile(t, path, buf.Bytes())
}

// PNG returns a small valid PNG image whose pixels depend on seed, so distinct
// seeds give distinct bytes.
func PNG(t testing.TB, seed uint8) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: seed, G: 10, B: 20, A: 255})
	img.Set(1, 1, color.RGBA{R: 30, G: seed, B: 40, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}
