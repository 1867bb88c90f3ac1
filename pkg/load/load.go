// Package load reads files located relative to the Go source file that calls it, at run
// time, and returns their content for the remainder of the program.
//
// It is the run-time counterpart of a //go:embed directive: the path is resolved against
// the directory of the calling source file as recorded at build time, the file is read
// when the function is called, and the content is never freed. Every call re-reads the
// file and retains a fresh copy.
//
//	var schema = load.MustText("schema.sql")
//
// The Must variants panic with an *Error on any failure, mirroring a build that fails on
// a missing embedded asset. Bytes and Text return the same *Error instead. Binaries built
// with -trimpath record module-relative source paths, which are then resolved against the
// working directory.
package load

import (
	"errors"

	"github.com/rs/zerolog"

	"peertech.de/rtembed/pkg/loader"
	"peertech.de/rtembed/pkg/resolve"
)

var (
	fileLoader = loader.Default
	logger     = zerolog.Nop()
)

// SetLoader replaces the loader used by all functions of this package. It is not safe to
// call concurrently with loads.
func SetLoader(l *loader.Loader) {
	fileLoader = l
}

// SetLogger sets the logger used to report fatal load failures. It is not safe to call
// concurrently with loads.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Bytes reads the file at rel, relative to the caller's source file.
func Bytes(rel string) ([]byte, error) {
	base, err := resolve.Caller(1)
	if err != nil {
		return nil, NewError("Bytes", rel, "", err)
	}
	return loadBytes("Bytes", base, rel)
}

// Text reads the file at rel, relative to the caller's source file, and validates it as
// UTF-8.
func Text(rel string) (string, error) {
	base, err := resolve.Caller(1)
	if err != nil {
		return "", NewError("Text", rel, "", err)
	}
	return loadText("Text", base, rel)
}

// MustBytes is like Bytes but panics on failure.
func MustBytes(rel string) []byte {
	base, err := resolve.Caller(1)
	if err != nil {
		abort(NewError("MustBytes", rel, "", err))
	}
	data, err := loadBytes("MustBytes", base, rel)
	if err != nil {
		abort(err)
	}
	return data
}

// MustText is like Text but panics on failure.
func MustText(rel string) string {
	base, err := resolve.Caller(1)
	if err != nil {
		abort(NewError("MustText", rel, "", err))
	}
	s, err := loadText("MustText", base, rel)
	if err != nil {
		abort(err)
	}
	return s
}

// BytesFrom reads the file at rel relative to the directory of base. It serves callers
// that know their location by other means, such as generated code or interpreters.
func BytesFrom(base, rel string) ([]byte, error) {
	return loadBytes("BytesFrom", base, rel)
}

// TextFrom is the text counterpart of BytesFrom.
func TextFrom(base, rel string) (string, error) {
	return loadText("TextFrom", base, rel)
}

func loadBytes(op, base, rel string) ([]byte, error) {
	path, err := resolve.Resolve(base, rel)
	if err != nil {
		return nil, NewError(op, rel, "", err)
	}

	data, err := fileLoader.Bytes(path)
	if err != nil {
		return nil, NewError(op, rel, path, err)
	}
	return data, nil
}

func loadText(op, base, rel string) (string, error) {
	path, err := resolve.Resolve(base, rel)
	if err != nil {
		return "", NewError(op, rel, "", err)
	}

	s, err := fileLoader.Text(path)
	if err != nil {
		return "", NewError(op, rel, path, err)
	}
	return s, nil
}

func abort(err error) {
	event := logger.Error().Err(err)

	var lerr *Error
	if errors.As(err, &lerr) {
		event = event.
			Str("op", lerr.Op).
			Str("rel", lerr.Rel).
			Str("resolved", lerr.Resolved)
	}

	event.Msg("Failed to load file")
	panic(err)
}
