package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dataset-manifest/core/fingerprint"
	"dataset-manifest/feature/archive"
	"dataset-manifest/internal/testsupport"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")

	testsupport.WriteZip(t, filepath.Join(in, "a.zip"),
		testsupport.ZipEntry{Name: "docs/"},
		testsupport.ZipEntry{Name: "docs/readme.txt", Data: []byte("hello")},
		testsupport.ZipEntry{Name: "img.jpg", Data: []byte("jpeg bytes")},
		testsupport.ZipEntry{Name: "empty.bin"},
	)
	testsupport.WriteZip(t, filepath.Join(in, "nested", "b.zip"),
		testsupport.ZipEntry{Name: "x", Data: []byte("x")},
	)
	testsupport.WriteFile(t, filepath.Join(in, "bad.zip"), []byte("garbage"))

	svc := archive.NewService(zap.NewNop(), nil)
	summary, err := svc.Run(context.Background(), archive.Options{InputDir: in, OutputDir: out, Workers: 2, Indent: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"bad"}, summary.Aborted)

	data, err := os.ReadFile(filepath.Join(out, "a.json"))
	require.NoError(t, err)
	var entries []archive.Entry
	require.NoError(t, json.Unmarshal(data, &entries))

	assert.Equal(t, []archive.Entry{
		{FilePath: filepath.Join(in, "docs", "readme.txt"), FileName: "readme.txt", SHA256: fingerprint.Sum([]byte("hello"))},
		{FilePath: filepath.Join(in, "img.jpg"), FileName: "img.jpg", SHA256: fingerprint.Sum([]byte("jpeg bytes"))},
		{FilePath: filepath.Join(in, "empty.bin"), FileName: "empty.bin", SHA256: fingerprint.Sum(nil)},
	}, entries)
	assert.Contains(t, string(data), "[\n    {\n        \"file_path\": ")

	nested, err := os.ReadFile(filepath.Join(out, "nested_b.json"))
	require.NoError(t, err)
	var b []archive.Entry
	require.NoError(t, json.Unmarshal(nested, &b))
	require.Len(t, b, 1)
	assert.Equal(t, filepath.Join(in, "nested", "x"), b[0].FilePath)

	_, err = os.Stat(filepath.Join(out, "bad.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_LogsArchiveSize(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	zipPath := filepath.Join(in, "a.zip")
	testsupport.WriteZip(t, zipPath, testsupport.ZipEntry{Name: "big.bin", Data: make([]byte, 64<<10)})
	info, err := os.Stat(zipPath)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	_, err = archive.NewService(zap.New(core), nil).Run(context.Background(), archive.Options{InputDir: in, OutputDir: filepath.Join(root, "out")})
	require.NoError(t, err)

	hashed := logs.FilterMessage("Archive hashed").All()
	require.Len(t, hashed, 1)
	fields := hashed[0].ContextMap()
	assert.Equal(t, "a", fields["partition"])
	assert.InDelta(t, float64(info.Size())/(1024*1024), fields["mb"], 1e-12)
	assert.InDelta(t, 64.0/1024, fields["uncompressed_mb"], 1e-12)
}

func TestRun_MissingInput(t *testing.T) {
	svc := archive.NewService(zap.NewNop(), nil)
	_, err := svc.Run(context.Background(), archive.Options{InputDir: filepath.Join(t.TempDir(), "nope"), OutputDir: t.TempDir()})
	assert.Error(t, err)
}

func TestThroughput(t *testing.T) {
	assert.InDelta(t, 2.0, archive.Throughput(4<<20, 2*time.Second), 1e-9)
	assert.Zero(t, archive.Throughput(100, 0))
}
