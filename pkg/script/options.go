package script

import (
	"io"

	"github.com/spf13/afero"

	"peertech.de/rtembed/pkg/loader"
)

type Option func(*Options)

type Options struct {
	Fs     afero.Fs
	Loader *loader.Loader
	Stdout io.Writer
}

// WithFs sets the file system scripts are read from. Unless WithLoader is given, load_bytes
// and load_text read from it as well.
func WithFs(fs afero.Fs) Option {
	return func(o *Options) {
		o.Fs = fs
	}
}

// WithLoader sets the loader used by load_bytes and load_text.
func WithLoader(l *loader.Loader) Option {
	return func(o *Options) {
		o.Loader = l
	}
}

// WithStdout sets the destination of print().
func WithStdout(w io.Writer) Option {
	return func(o *Options) {
		o.Stdout = w
	}
}
