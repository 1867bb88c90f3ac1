package resolve

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrInvalidBase is returned when the base location has no parent directory.
var ErrInvalidBase = errors.New("invalid source file path")

// Resolve joins rel onto the directory containing base. The result is purely a function
// of its arguments; relative results are interpreted by the operating system against the
// working directory when opened.
//
// Joining follows filepath.Join, so an absolute rel is appended to the base directory.
func Resolve(base, rel string) (string, error) {
	if !hasParent(base) {
		return "", ErrInvalidBase
	}
	return filepath.Join(filepath.Dir(base), rel), nil
}

func hasParent(base string) bool {
	rest := base[len(filepath.VolumeName(base)):]
	if rest == "" {
		return false
	}
	// A path made only of separators is a root.
	return strings.TrimLeft(rest, string([]rune{'/', filepath.Separator})) != ""
}

// Caller returns the source file of the function skip frames above the caller of Caller.
// Caller(0) identifies the function calling Caller, Caller(1) its caller and so forth.
//
// The returned path is the one recorded at build time. Binaries built with -trimpath
// report module-relative paths, which then resolve against the working directory.
func Caller(skip int) (string, error) {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok || file == "" {
		return "", ErrInvalidBase
	}
	return file, nil
}
