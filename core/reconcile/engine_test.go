package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"dataset-manifest/core/walker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeWalker serves in-memory partitions. Files named "broken" fail the walk
// for their partition, which the engine must treat as an abort.
type fakeWalker struct {
	order   []string
	files   map[string][]string
	delay   map[string]time.Duration
	listErr error
}

func (w *fakeWalker) Partitions(root string) ([]walker.Partition, error) {
	if w.listErr != nil {
		return nil, w.listErr
	}
	out := make([]walker.Partition, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, walker.Partition{Key: key, Path: root + "/" + key})
	}
	return out, nil
}

func (w *fakeWalker) Walk(ctx context.Context, p walker.Partition, fn func(walker.File) error) error {
	if d := w.delay[p.Key]; d > 0 {
		time.Sleep(d)
	}
	for _, name := range w.files[p.Key] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name == "broken" {
			return fmt.Errorf("read %s: %w", p.Key, io.ErrUnexpectedEOF)
		}
		if err := fn(walker.File{Partition: p.Key, Name: name, Path: name, Size: int64(len(name))}); err != nil {
			return err
		}
	}
	return nil
}

type skipErr struct{ name string }

func (e *skipErr) Error() string { return "skip " + e.name }
func (e *skipErr) ItemError()    {}

// recordingAdapter upper-cases names, skips names starting with "x" and keeps
// the order in which partitions were committed.
type recordingAdapter struct {
	mu        sync.Mutex
	committed []string
	last      map[string]string
}

func (a *recordingAdapter) Name() string { return "recording" }

func (a *recordingAdapter) Process(ctx context.Context, p walker.Partition, f walker.File) (string, error) {
	if strings.HasPrefix(f.Name, "x") {
		return "", &skipErr{name: f.Name}
	}
	return strings.ToUpper(f.Name), nil
}

func (a *recordingAdapter) Commit(p walker.Partition, hits []string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.committed = append(a.committed, p.Key)
	if a.last == nil {
		a.last = map[string]string{}
	}
	for _, h := range hits {
		a.last[h] = p.Key
	}
	return hits
}

type memorySink struct {
	written map[string][]string
	failOn  string
}

func (s *memorySink) WritePartition(ctx context.Context, p walker.Partition, results []string) error {
	if p.Key == s.failOn {
		return errors.New("disk full")
	}
	if s.written == nil {
		s.written = map[string][]string{}
	}
	s.written[p.Key] = append([]string(nil), results...)
	return nil
}

func newWalker() *fakeWalker {
	return &fakeWalker{
		order: []string{"a", "b", "c", "d"},
		files: map[string][]string{
			"a": {"1.jpg", "dup.jpg"},
			"b": {"2.jpg", "x-skip.jpg", "3.jpg"},
			"c": {"4.jpg", "broken", "5.jpg"},
			"d": {"dup.jpg"},
		},
		// Make early partitions slow so concurrent runs finish out of order.
		delay: map[string]time.Duration{"a": 30 * time.Millisecond, "b": 10 * time.Millisecond},
	}
}

func TestRun(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("Workers%d", workers), func(t *testing.T) {
			adapter := &recordingAdapter{}
			sink := &memorySink{}
			spec := &Spec[string, string]{
				Adapter: adapter,
				Walker:  newWalker(),
				Sink:    sink,
				Root:    "/data",
				Workers: workers,
			}

			summary, err := Run(context.Background(), spec, zap.NewNop())
			require.NoError(t, err)

			// Commits always happen in partition order.
			assert.Equal(t, []string{"a", "b", "d"}, adapter.committed)
			// So the later duplicate always wins.
			assert.Equal(t, "d", adapter.last["DUP.JPG"])

			assert.Equal(t, []string{"1.JPG", "DUP.JPG"}, sink.written["a"])
			assert.Equal(t, []string{"2.JPG", "3.JPG"}, sink.written["b"])
			assert.NotContains(t, sink.written, "c", "aborted partition must not be flushed")

			assert.Equal(t, []string{"c"}, summary.Aborted)
			require.Len(t, summary.Partitions, 4)
			assert.Equal(t, "c", summary.Partitions[2].Key)
			assert.Error(t, summary.Partitions[2].Err)
			assert.Equal(t, 1, summary.Skipped)
			assert.Equal(t, 5, summary.Results)
			assert.Equal(t, 1, summary.Partitions[1].Skipped)
		})
	}
}

func TestRun_SinkFailureIsPartitionScoped(t *testing.T) {
	sink := &memorySink{failOn: "a"}
	spec := &Spec[string, string]{
		Adapter: &recordingAdapter{},
		Walker:  newWalker(),
		Sink:    sink,
	}

	summary, err := Run(context.Background(), spec, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, summary.Aborted)
	assert.Contains(t, sink.written, "b")
	assert.Contains(t, sink.written, "d")
}

func TestRun_ListError(t *testing.T) {
	spec := &Spec[string, string]{
		Adapter: &recordingAdapter{},
		Walker:  &fakeWalker{listErr: errors.New("no such directory")},
		Sink:    &memorySink{},
	}

	_, err := Run(context.Background(), spec, zap.NewNop())
	assert.ErrorContains(t, err, "no such directory")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &memorySink{}
	spec := &Spec[string, string]{
		Adapter: &recordingAdapter{},
		Walker:  newWalker(),
		Sink:    sink,
		Workers: 2,
	}

	_, err := Run(ctx, spec, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.written)
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"", LastWins, false},
		{"last-wins", LastWins, false},
		{"first-wins", FirstWins, false},
		{"error", RejectDuplicates, false},
		{"newest", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDuplicatePolicy_Resolve(t *testing.T) {
	dup := &DuplicateMatchError{ID: 7, Partition: "2", Entry: "7.jpg", Existing: "1/7.jpg"}

	apply, err := LastWins.Resolve(dup)
	assert.True(t, apply)
	assert.NoError(t, err)

	apply, err = FirstWins.Resolve(dup)
	assert.False(t, apply)
	assert.NoError(t, err)

	apply, err = RejectDuplicates.Resolve(dup)
	assert.False(t, apply)
	assert.True(t, IsItemError(err))
	assert.ErrorContains(t, err, "image id 7 already matched")
}

func TestIsItemError(t *testing.T) {
	kpe := &KeyParseError{Partition: "1", Entry: "cover.jpg", Err: errors.New("invalid syntax")}
	assert.True(t, IsItemError(kpe))
	assert.True(t, IsItemError(fmt.Errorf("wrapped: %w", kpe)))
	assert.False(t, IsItemError(io.ErrUnexpectedEOF))
	assert.False(t, IsItemError(nil))
}
