package reconcile

import "fmt"

// DuplicatePolicy decides what happens when a second physical file matches an
// id that is already matched in the same run.
type DuplicatePolicy string

const (
	// LastWins lets the later file overwrite the earlier match.
	LastWins DuplicatePolicy = "last-wins"
	// FirstWins keeps the earlier match and skips the later file.
	FirstWins DuplicatePolicy = "first-wins"
	// RejectDuplicates keeps the earlier match and reports the later file as a
	// DuplicateMatchError.
	RejectDuplicates DuplicatePolicy = "error"
)

// ParseDuplicatePolicy validates a policy name. The empty string selects LastWins.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", LastWins:
		return LastWins, nil
	case FirstWins:
		return FirstWins, nil
	case RejectDuplicates:
		return RejectDuplicates, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want %s, %s or %s)", s, LastWins, FirstWins, RejectDuplicates)
	}
}

// Resolve decides whether a new match replaces an existing one. It returns
// apply=false when the new file must be dropped, together with an error when
// the drop should be reported.
func (p DuplicatePolicy) Resolve(dup *DuplicateMatchError) (apply bool, err error) {
	switch p {
	case FirstWins:
		return false, nil
	case RejectDuplicates:
		return false, dup
	default:
		return true, nil
	}
}
