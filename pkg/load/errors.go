package load

import (
	"errors"
	"fmt"
)

// Error is the diagnostic produced by a failed load. Its message has the form
//
//	<reason> in <op>("<rel>")
//
// followed by ` (resolved to: "<path>")` once the relative path was resolved.
type Error struct {
	// Reason is the sentinel describing the failure, e.g. loader.ErrOpenFailed.
	Reason error
	// Op is the name of the function that was invoked.
	Op string
	// Rel is the relative path exactly as passed by the caller.
	Rel string
	// Resolved is the resolved path, empty if resolution failed.
	Resolved string
	// Err is the complete underlying error.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s in %s(%q)", e.Reason, e.Op, e.Rel)
	if e.Resolved != "" {
		msg += fmt.Sprintf(" (resolved to: %q)", e.Resolved)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds the diagnostic for a failed op. resolved is empty when resolution
// itself failed.
func NewError(op, rel, resolved string, err error) *Error {
	return &Error{
		Reason:   reason(err),
		Op:       op,
		Rel:      rel,
		Resolved: resolved,
		Err:      err,
	}
}

// reason extracts the sentinel from err, falling back to err itself.
func reason(err error) error {
	type kinded interface {
		Unwrap() []error
	}

	var k kinded
	if errors.As(err, &k) {
		if errs := k.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return err
}
