// Package loader reads whole files and hands out references that stay valid for the rest
// of the process.
//
// By default every successful load is pinned in a retain.Arena and never released, so
// repeated loads of the same file each grow the process by the file size. Each call
// opens, reads and retains its own copy; nothing is cached or shared between calls.
package loader

import (
	"fmt"
	"io"
	"unicode/utf8"
	"unsafe"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"peertech.de/rtembed/pkg/retain"
)

// Default loads from the operating system file system into retain.Default.
var Default = New()

func New(opts ...Option) *Loader {
	// Default options
	options := Options{
		Fs:     afero.NewOsFs(),
		Arena:  retain.Default,
		Logger: zerolog.Nop(),
		Retain: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Loader{options: options}
}

// Loader is safe for concurrent use.
type Loader struct {
	options Options
}

// Bytes reads the file at path in full. The returned slice must not be modified; its
// capacity equals its length.
func (l *Loader) Bytes(path string) ([]byte, error) {
	scopedLog := l.options.Logger.With().
		Str("path", path).
		Logger()

	f, err := l.options.Fs.Open(path)
	if err != nil {
		return nil, newError(path, ErrOpenFailed, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, newError(path, ErrOpenFailed, err)
	}
	if fi.IsDir() {
		return nil, newError(path, ErrOpenFailed, fmt.Errorf("%s is a directory", path))
	}

	data, err := readAll(f, fi.Size())
	if err != nil {
		return nil, newError(path, ErrReadFailed, err)
	}

	if !l.options.Retain {
		scopedLog.Debug().Int("size", len(data)).Msg("Loaded file")
		return data[:len(data):len(data)], nil
	}

	data = l.options.Arena.Retain(data)
	scopedLog.Debug().
		Int("size", len(data)).
		Int64("retained_bytes", l.options.Arena.Size()).
		Msg("Loaded and retained file")

	return data, nil
}

// Text reads the file at path and validates it as UTF-8. The returned string shares
// memory with the loaded buffer. On ErrInvalidEncoding the buffer has already been
// retained and is not released.
func (l *Loader) Text(path string) (string, error) {
	data, err := l.Bytes(path)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", newError(path, ErrInvalidEncoding, nil)
	}

	if len(data) == 0 {
		return "", nil
	}
	return unsafe.String(&data[0], len(data)), nil
}

// readAll reads until EOF. The size hint only sizes the initial buffer; files that grow
// or shrink while being read are returned as read.
func readAll(r io.Reader, hint int64) ([]byte, error) {
	if hint <= 0 || int64(int(hint)) != hint {
		return io.ReadAll(r)
	}

	buf := make([]byte, 0, int(hint)+1)
	for {
		n, err := r.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}
	}
}
