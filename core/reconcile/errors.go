package reconcile

import (
	"errors"
	"fmt"
)

// ItemError is implemented by errors that concern a single file. The engine
// logs and skips the file instead of aborting the partition.
type ItemError interface {
	error
	ItemError()
}

// IsItemError reports whether err is or wraps an ItemError.
func IsItemError(err error) bool {
	var ie ItemError
	return errors.As(err, &ie)
}

// KeyParseError reports a file whose name does not carry a numeric id.
type KeyParseError struct {
	Partition string
	Entry     string
	Err       error
}

func (e *KeyParseError) Error() string {
	return fmt.Sprintf("partition %s: cannot derive image id from %q: %v", e.Partition, e.Entry, e.Err)
}

func (e *KeyParseError) Unwrap() error { return e.Err }

// ItemError marks the error as file-scoped.
func (e *KeyParseError) ItemError() {}

// DuplicateMatchError reports a second physical file for an id that is
// already matched, under the error duplicate policy.
type DuplicateMatchError struct {
	ID        int64
	Partition string
	Entry     string
	Existing  string
}

func (e *DuplicateMatchError) Error() string {
	return fmt.Sprintf("image id %d already matched to %s, rejecting %s/%s", e.ID, e.Existing, e.Partition, e.Entry)
}

// ItemError marks the error as file-scoped.
func (e *DuplicateMatchError) ItemError() {}
