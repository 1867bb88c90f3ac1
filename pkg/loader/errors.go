package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrOpenFailed covers every reason a file cannot be opened for reading, including
	// missing files, permission problems and directories.
	ErrOpenFailed = errors.New("file not found")

	// ErrReadFailed indicates an I/O error after the file was opened.
	ErrReadFailed = errors.New("unable to read the file")

	// ErrInvalidEncoding indicates that text content is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid utf8")
)

// Error describes a failed load of Path. Kind is one of the sentinel errors of this
// package; Cause holds the underlying error, if any.
type Error struct {
	Path  string
	Kind  error
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func newError(path string, kind, cause error) *Error {
	return &Error{
		Path:  path,
		Kind:  kind,
		Cause: cause,
	}
}
