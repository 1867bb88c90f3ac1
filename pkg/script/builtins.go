package script

import (
	"go.starlark.net/starlark"

	"peertech.de/rtembed/pkg/load"
	"peertech.de/rtembed/pkg/loader"
	"peertech.de/rtembed/pkg/resolve"
)

// NewLoadBytes returns the load_bytes builtin. It resolves its argument against the file
// of the calling script and returns the content as bytes.
func NewLoadBytes(l *loader.Loader) *starlark.Builtin {
	return starlark.NewBuiltin("load_bytes", func(
		thread *starlark.Thread,
		b *starlark.Builtin,
		args starlark.Tuple,
		kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		rel, path, err := resolveArgs(thread, b, args, kwargs)
		if err != nil {
			return nil, err
		}

		data, err := l.Bytes(path)
		if err != nil {
			return nil, load.NewError(b.Name(), rel, path, err)
		}
		return starlark.Bytes(data), nil
	})
}

// NewLoadText returns the load_text builtin, the UTF-8 validating variant of load_bytes.
func NewLoadText(l *loader.Loader) *starlark.Builtin {
	return starlark.NewBuiltin("load_text", func(
		thread *starlark.Thread,
		b *starlark.Builtin,
		args starlark.Tuple,
		kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		rel, path, err := resolveArgs(thread, b, args, kwargs)
		if err != nil {
			return nil, err
		}

		s, err := l.Text(path)
		if err != nil {
			return nil, load.NewError(b.Name(), rel, path, err)
		}
		return starlark.String(s), nil
	})
}

func resolveArgs(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (rel, path string, err error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &rel); err != nil {
		return "", "", err
	}

	// Frame 0 is the builtin itself, frame 1 the calling script.
	base := thread.CallFrame(1).Pos.Filename()

	path, err = resolve.Resolve(base, rel)
	if err != nil {
		return "", "", load.NewError(b.Name(), rel, "", err)
	}
	return rel, path, nil
}
