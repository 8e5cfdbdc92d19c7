package history

import (
	"errors"
	"fmt"
)

// MalformedRowError reports a history row that cannot be used: its field
// count differs from the header, or it has no identifier. Line is 1-based
// and counts the header.
type MalformedRowError struct {
	Path   string
	Line   int
	Fields int
	Want   int
	Reason string
}

func (e *MalformedRowError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		loc = e.Path + ":" + loc
	}
	if e.Reason != "" {
		return fmt.Sprintf("malformed history row at %s: %s", loc, e.Reason)
	}
	return fmt.Sprintf("malformed history row at %s: got %d fields, want %d", loc, e.Fields, e.Want)
}

// IsMalformedRow reports whether err is (or wraps) a *MalformedRowError.
func IsMalformedRow(err error) bool {
	var mr *MalformedRowError
	return errors.As(err, &mr)
}
