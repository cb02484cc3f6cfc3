package entry

import (
	"errors"
	"fmt"
)

// ErrUnparseable is matched by every UnparseableError.
var ErrUnparseable = errors.New("unparseable entry")

// UnparseableError reports a line no time pattern matched. It is recoverable:
// the day is recorded as unreadable and the run goes on.
type UnparseableError struct {
	Index  int
	Text   string
	Reason string
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Index+1, e.Text, e.Reason)
}

// Unwrap returns ErrUnparseable.
func (e *UnparseableError) Unwrap() error {
	return ErrUnparseable
}

func unparseable(raw RawEntry, format string, args ...any) *UnparseableError {
	return &UnparseableError{Index: raw.Index, Text: raw.Text, Reason: fmt.Sprintf(format, args...)}
}
