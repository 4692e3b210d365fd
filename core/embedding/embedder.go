package embedding

import (
	"context"
	"fmt"
	"math"
)

// Embedder computes an embedding vector for an encoded image.
type Embedder interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
}

// DecodeError reports image bytes the embedder cannot open.
type DecodeError struct {
	Entry string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("cannot decode image: %v", e.Err)
	}
	return fmt.Sprintf("cannot decode image %s: %v", e.Entry, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ItemError marks the error as file-scoped.
func (e *DecodeError) ItemError() {}

// Normalize scales v to unit L2 norm in place and returns it. A zero vector is
// returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		v[i] = float32(float64(x) / norm)
	}
	return v
}
