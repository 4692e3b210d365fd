package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Columns is the number of whitespace-separated fields per AVA.txt line:
// index, image id, ten bucket counts, two semantic tags, challenge id.
const Columns = 2 + Buckets + 3

// Row is one parsed line of the tabular source.
type Row struct {
	Index        int
	ImageID      int64
	Counts       Histogram
	SemanticTag1 int
	SemanticTag2 int
	ChallengeID  int
}

// ParseError reports a malformed line in the tabular source.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadRows parses every non-blank line of r. Any malformed line fails the
// whole read.
func ReadRows(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var rows []Row
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		row, err := parseRow(fields)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tabular source: %w", err)
	}
	return rows, nil
}

func parseRow(fields []string) (Row, error) {
	if len(fields) != Columns {
		return Row{}, fmt.Errorf("expected %d columns, got %d", Columns, len(fields))
	}

	ints := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return Row{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		ints[i] = v
	}

	row := Row{
		Index:        int(ints[0]),
		ImageID:      ints[1],
		SemanticTag1: int(ints[2+Buckets]),
		SemanticTag2: int(ints[3+Buckets]),
		ChallengeID:  int(ints[4+Buckets]),
	}
	for i := 0; i < Buckets; i++ {
		if ints[2+i] < 0 {
			return Row{}, fmt.Errorf("bucket %d: negative count %d", i+1, ints[2+i])
		}
		row.Counts[i] = int(ints[2+i])
	}
	return row, nil
}
