package dataset

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Buckets is the number of rating buckets per image.
const Buckets = 10

// Histogram holds the vote count for rating buckets "1" through "10".
// Index 0 is bucket "1".
type Histogram [Buckets]int

// Total returns the number of votes across all buckets.
func (h Histogram) Total() int {
	total := 0
	for _, v := range h {
		total += v
	}
	return total
}

// Get returns the count for a bucket label ("1".."10").
func (h Histogram) Get(label string) (int, bool) {
	n, err := strconv.Atoi(label)
	if err != nil || n < 1 || n > Buckets {
		return 0, false
	}
	return h[n-1], true
}

// MarshalJSON encodes the histogram as an object keyed by bucket label in
// bucket order, so "10" follows "9" rather than "1".
func (h Histogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"%d":%d`, i+1, v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the object form written by MarshalJSON.
func (h *Histogram) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Histogram
	for label, v := range raw {
		n, err := strconv.Atoi(label)
		if err != nil || n < 1 || n > Buckets {
			return fmt.Errorf("invalid rating bucket %q", label)
		}
		out[n-1] = v
	}
	*h = out
	return nil
}

// Record is one dataset item. The JSON field order is the manifest schema.
type Record struct {
	Index      int       `json:"Index"`
	ImageID    int64     `json:"ImageId"`
	FileHash   string    `json:"FileHash"`
	FileName   string    `json:"FileName"`
	ScoreCount int       `json:"ScoreCount"`
	Scores     Histogram `json:"ScoreDictionary"`

	// Partition is the directory or archive the match was found in.
	Partition string `json:"-"`
}

// Matched reports whether a physical file has been linked to the record.
func (r Record) Matched() bool {
	return r.FileHash != ""
}
