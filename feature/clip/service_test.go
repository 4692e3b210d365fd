package clip_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"dataset-manifest/core/embedding"
	"dataset-manifest/core/fingerprint"
	"dataset-manifest/feature/clip"
	"dataset-manifest/internal/testsupport"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEmbedder returns a vector derived from the image length and rejects
// images listed in reject.
type fakeEmbedder struct {
	mu     sync.Mutex
	calls  int
	reject map[int]bool
	fail   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, image []byte) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	if f.reject[len(image)] {
		return nil, &embedding.DecodeError{Err: errors.New("unsupported")}
	}
	return []float32{3, 4}, nil
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")

	png1 := testsupport.PNG(t, 1)
	png2 := testsupport.PNG(t, 2)
	testsupport.WriteZip(t, filepath.Join(in, "set.zip"),
		testsupport.ZipEntry{Name: "a/one.PNG", Data: png1},
		testsupport.ZipEntry{Name: "notes.txt", Data: []byte("text")},
		testsupport.ZipEntry{Name: "broken.jpg", Data: []byte("not a jpeg")},
		testsupport.ZipEntry{Name: "two.png", Data: png2},
		testsupport.ZipEntry{Name: "gray.pgm", Data: []byte("P5 1 1 255 x")},
	)

	emb := &fakeEmbedder{reject: map[int]bool{len("P5 1 1 255 x"): true}}
	svc := clip.NewService(emb, zap.NewNop(), nil)

	summary, err := svc.Run(context.Background(), clip.Options{
		InputDir: in, OutputDir: out, Model: "ViT-L/14", Workers: 1, Indent: 4,
	})
	require.NoError(t, err)
	assert.Empty(t, summary.Aborted)
	assert.Equal(t, 2, summary.Skipped, "broken.jpg fails the decode check, gray.pgm is rejected by the embedder")
	assert.Equal(t, 3, emb.calls, "undecodable images never reach the embedder")

	data, err := os.ReadFile(filepath.Join(out, "set_clip_vectors.json"))
	require.NoError(t, err)
	var vectors []clip.Vector
	require.NoError(t, json.Unmarshal(data, &vectors))
	require.Len(t, vectors, 2)

	assert.Equal(t, "set.zip", vectors[0].ZipFile)
	assert.Equal(t, "one.PNG", vectors[0].FileName)
	assert.Equal(t, fingerprint.Sum(png1), vectors[0].FileHash)
	assert.Equal(t, "ViT-L/14", vectors[0].ClipModel)
	require.Len(t, vectors[0].ClipVector, 2)
	assert.InDelta(t, 0.6, vectors[0].ClipVector[0], 1e-6)
	assert.InDelta(t, 0.8, vectors[0].ClipVector[1], 1e-6)

	assert.Equal(t, "two.png", vectors[1].FileName)
	assert.Equal(t, fingerprint.Sum(png2), vectors[1].FileHash)
}

func TestRun_EmbedderFailureAbortsArchive(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")
	testsupport.WriteZip(t, filepath.Join(in, "set.zip"),
		testsupport.ZipEntry{Name: "one.png", Data: testsupport.PNG(t, 1)},
	)

	svc := clip.NewService(&fakeEmbedder{fail: errors.New("connection refused")}, zap.NewNop(), nil)
	summary, err := svc.Run(context.Background(), clip.Options{InputDir: in, OutputDir: out, Model: "ViT-L/14"})
	require.NoError(t, err)
	assert.Equal(t, []string{"set"}, summary.Aborted)

	_, err = os.Stat(filepath.Join(out, "set_clip_vectors.json"))
	assert.True(t, os.IsNotExist(err))
}
