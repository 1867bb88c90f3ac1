package loader

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"peertech.de/rtembed/pkg/retain"
)

type Option func(*Options)

type Options struct {
	Fs     afero.Fs
	Arena  *retain.Arena
	Logger zerolog.Logger

	// Retain pins every loaded buffer in Arena. When false, buffers are owned by the
	// garbage collector and live only as long as the caller references them.
	Retain bool
}

func WithFs(fs afero.Fs) Option {
	return func(o *Options) {
		o.Fs = fs
	}
}

func WithArena(a *retain.Arena) Option {
	return func(o *Options) {
		o.Arena = a
		o.Retain = true
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithoutRetention disables the process-lifetime leak. Loaded content stays valid while
// referenced but is reclaimed afterwards, and the arena statistics no longer grow.
func WithoutRetention() Option {
	return func(o *Options) {
		o.Retain = false
	}
}
