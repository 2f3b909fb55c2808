package factor

import (
	"errors"
	"fmt"
)

// ErrLoad is matched by every LoadError.
var ErrLoad = errors.New("load factor table failed")

// LoadError reports a missing, malformed, or incomplete table source.
// Row is the 1-based line (CSV) or entry (YAML) number, 0 when not row-specific.
type LoadError struct {
	Source string
	Row    int
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "load factor table " + e.Source
	if e.Row > 0 {
		msg += fmt.Sprintf(": row %d", e.Row)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrLoad.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }
