package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"dataset-manifest/core/reconcile"
	"dataset-manifest/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() { RootCmd.SetArgs(nil) })
	err := RootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ava", "hash", "clip", "serve"} {
		assert.True(t, names[want], want)
	}
}

func TestArgsValidation(t *testing.T) {
	for _, name := range []string{"ava", "hash", "clip"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, name, "only-one")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "accepts 2 arg(s)")
		})
	}
}

func TestAva(t *testing.T) {
	root := t.TempDir()
	images := filepath.Join(root, "images")
	out := filepath.Join(root, "out")
	labels := filepath.Join(root, "AVA.txt")

	testsupport.WriteFile(t, labels, []byte(
		"1 953619 0 1 5 17 38 36 15 6 5 1 1 22 1396\n"+
			"2 42 0 0 0 0 1 0 0 0 0 0 0 0 1396\n"))
	testsupport.WriteFile(t, filepath.Join(images, "1", "953619.png"), testsupport.PNG(t, 1))

	stdout, err := execute(t, "ava", images, out,
		"--config-dir", root,
		"--labels", labels,
		"--workers", "2",
		"--duplicates", "last-wins",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 records, 1 matched, 1 unmatched")
	assert.FileExists(t, filepath.Join(out, "AVA.json"))
	assert.FileExists(t, filepath.Join(out, "error.txt"))
	assert.FileExists(t, filepath.Join(images, "1", "1.json"))
}

func TestAva_BadPolicy(t *testing.T) {
	root := t.TempDir()
	_, err := execute(t, "ava", root, root, "--config-dir", root, "--duplicates", "newest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newest")
}

func TestHash(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "zips")
	testsupport.WriteZip(t, filepath.Join(in, "a.zip"), testsupport.ZipEntry{Name: "x.bin", Data: []byte("x")})

	stdout, err := execute(t, "hash", in, filepath.Join(root, "out"), "--config-dir", root, "--indent", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 aborted")
	assert.FileExists(t, filepath.Join(root, "out", "a.json"))
}

func TestClip_MissingEndpoint(t *testing.T) {
	root := t.TempDir()
	t.Setenv("EMBEDDING_ENDPOINT", "")
	_, err := execute(t, "clip", root, root, "--config-dir", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create embedder")
}

func TestRenderSummary(t *testing.T) {
	s := &reconcile.Summary{
		Partitions: []reconcile.PartitionSummary{
			{Key: "1", Files: 3, Results: 3, Elapsed: 2 * time.Millisecond},
			{Key: "2", Files: 1, Skipped: 1, Err: errors.New("boom")},
		},
		Files:   4,
		Skipped: 1,
		Results: 3,
		Aborted: []string{"2"},
	}
	var buf bytes.Buffer
	renderSummary(&buf, s)

	got := buf.String()
	assert.Contains(t, got, "PARTITION")
	assert.Contains(t, got, "aborted")
	assert.Contains(t, got, "total")
	assert.Contains(t, got, "1 aborted")
	assert.NotContains(t, got, "ABORTED")
	assert.Contains(t, got, "2ms")
}
