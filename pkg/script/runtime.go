// Package script runs Starlark scripts that can read files located next to themselves.
//
// Scripts get two predeclared builtins:
//
//	load_bytes(rel) -> bytes
//	load_text(rel)  -> string
//
// Both resolve rel against the directory of the script that calls them and abort
// execution with a load diagnostic if the file cannot be read.
package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"peertech.de/rtembed/pkg/loader"
)

func NewRuntime(extra starlark.StringDict, opts ...Option) *Runtime {
	// Default options
	options := Options{
		Fs:     afero.NewOsFs(),
		Stdout: os.Stderr,
	}

	for _, opt := range opts {
		opt(&options)
	}

	// Scripts and the files they load share one file system.
	if options.Loader == nil {
		if options.Fs == nil {
			options.Fs = afero.NewOsFs()
		}
		options.Loader = loader.New(loader.WithFs(options.Fs))
	}

	globals := starlark.StringDict{
		"struct":     starlark.NewBuiltin("struct", starlarkstruct.Make),
		"load_bytes": NewLoadBytes(options.Loader),
		"load_text":  NewLoadText(options.Loader),
	}

	// Add extra predeclared values
	for k, v := range extra {
		globals[k] = v
	}

	return &Runtime{
		options: options,
		opts:    &syntax.FileOptions{},
		globals: globals,
	}
}

type Runtime struct {
	options Options
	opts    *syntax.FileOptions
	globals starlark.StringDict
}

// Load reads and executes the script at path. Files loaded by the script resolve against
// the absolute location of path.
func (r *Runtime) Load(ctx context.Context, path string) (starlark.StringDict, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve script path: %w", err)
	}

	src, err := afero.ReadFile(r.options.Fs, abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return r.Run(ctx, abs, src)
}

// Run executes src as if it were read from filename.
func (r *Runtime) Run(ctx context.Context, filename string, src []byte) (starlark.StringDict, error) {
	thread := r.thread(filename)

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	return starlark.ExecFileOptions(r.opts, thread, filename, src, r.globals)
}

func (r *Runtime) thread(name string) *starlark.Thread {
	thread := &starlark.Thread{
		Name: name,
		Print: func(thread *starlark.Thread, msg string) {
			pos := thread.CallFrame(1).Pos
			fmt.Fprintf(r.options.Stdout, "[%s:%d] %s\n", pos.Filename(), pos.Line, msg)
		},
	}

	return thread
}
