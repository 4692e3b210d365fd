package manifest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Encode writes items as a JSON array. An indent of 0 or less produces a
// compact document; otherwise every nesting level is indented by that many
// spaces. The output always ends with a newline.
func Encode[T any](w io.Writer, items []T, indent int) error {
	bw := bufio.NewWriter(w)
	if len(items) == 0 {
		if _, err := bw.WriteString("[]\n"); err != nil {
			return err
		}
		return bw.Flush()
	}

	pad := ""
	sep, head, tail := ",", "[", "]\n"
	if indent > 0 {
		pad = strings.Repeat(" ", indent)
		sep, head, tail = ",\n", "[\n", "\n]\n"
	}

	if _, err := bw.WriteString(head); err != nil {
		return err
	}
	for i := range items {
		var (
			data []byte
			err  error
		)
		if indent > 0 {
			data, err = json.MarshalIndent(items[i], pad, pad)
		} else {
			data, err = json.Marshal(items[i])
		}
		if err != nil {
			return fmt.Errorf("failed to encode item %d: %w", i, err)
		}
		if i > 0 {
			if _, err := bw.WriteString(sep); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(pad); err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString(tail); err != nil {
		return err
	}
	return bw.Flush()
}

// Write encodes items into the named document of sink.
func Write[T any](ctx context.Context, sink Sink, name string, items []T, indent int) (err error) {
	w, err := sink.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to finish %s: %w", name, cerr)
		}
	}()

	if err := Encode(w, items, indent); err != nil {
		abort(w)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
