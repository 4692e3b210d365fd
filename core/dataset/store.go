package dataset

import (
	"fmt"
	"sort"
	"sync"
)

// DuplicateKeyError is returned by Load in strict mode when two rows share an
// image id.
type DuplicateKeyError struct {
	ID int64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate image id %d", e.ID)
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	strict      bool
	onDuplicate func(id int64)
}

// WithStrictKeys makes Load fail on the first duplicate id instead of letting
// the later row overwrite the earlier one.
func WithStrictKeys() LoadOption {
	return func(o *loadOptions) { o.strict = true }
}

// WithDuplicateHook registers a callback invoked for every overwritten id.
func WithDuplicateHook(fn func(id int64)) LoadOption {
	return func(o *loadOptions) { o.onDuplicate = fn }
}

// Store is the in-memory record table keyed by image id. It is safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[int64]*Record
}

// Load builds a Store from rows in source order. By default a later row with
// the same id replaces the earlier one.
func Load(rows []Row, opts ...LoadOption) (*Store, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{records: make(map[int64]*Record, len(rows))}
	for _, row := range rows {
		if _, exists := s.records[row.ImageID]; exists {
			if o.strict {
				return nil, &DuplicateKeyError{ID: row.ImageID}
			}
			if o.onDuplicate != nil {
				o.onDuplicate(row.ImageID)
			}
		}
		s.records[row.ImageID] = &Record{
			Index:      row.Index,
			ImageID:    row.ImageID,
			ScoreCount: row.Counts.Total(),
			Scores:     row.Counts,
		}
	}
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns a copy of the record for id.
func (s *Store) Get(id int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// SetMatch links a physical file to the record for id and returns the updated
// record. It is a no-op returning false when id is unknown or fileHash is empty.
func (s *Store) SetMatch(id int64, fileHash, fileName, partition string) (Record, bool) {
	if fileHash == "" || fileName == "" {
		return Record{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	r.FileHash = fileHash
	r.FileName = fileName
	r.Partition = partition
	return *r, true
}

// All returns every record in ascending id order.
func (s *Store) All() []Record {
	return s.filter(func(Record) bool { return true })
}

// Matched returns the records linked to a physical file.
func (s *Store) Matched() []Record {
	return s.filter(Record.Matched)
}

// Unmatched returns the records never linked to a physical file.
func (s *Store) Unmatched() []Record {
	return s.filter(func(r Record) bool { return !r.Matched() })
}

func (s *Store) filter(keep func(Record) bool) []Record {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if keep(*r) {
			out = append(out, *r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ImageID < out[j].ImageID })
	return out
}
