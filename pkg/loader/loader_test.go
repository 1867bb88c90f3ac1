package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"peertech.de/rtembed/pkg/retain"
)

func newMemLoader(t *testing.T, files map[string][]byte, opts ...Option) (*Loader, *retain.Arena) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fs, name, content, 0644); err != nil {
			t.Fatal(err)
		}
	}

	arena := &retain.Arena{}
	opts = append([]Option{WithFs(fs), WithArena(arena)}, opts...)
	return New(opts...), arena
}

func TestBytes(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{name: "text", content: []byte("Hello, world!")},
		{name: "binary", content: []byte{0x00, 0xff, 0xfe, 0x10}},
		{name: "empty", content: []byte{}},
		{name: "large", content: bytes.Repeat([]byte("0123456789abcdef"), 64*1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, arena := newMemLoader(t, map[string][]byte{"/src/file": tt.content})

			got, err := l.Bytes("/src/file")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.content) {
				t.Errorf("content mismatch: expected %d bytes, got %d", len(tt.content), len(got))
			}
			if len(got) != cap(got) {
				t.Errorf("expected cap %d, got %d", len(got), cap(got))
			}
			if arena.Len() != 1 || arena.Size() != int64(len(tt.content)) {
				t.Errorf("expected 1 buffer of %d bytes retained, got %d buffers of %d bytes",
					len(tt.content), arena.Len(), arena.Size())
			}
		})
	}
}

func TestBytesOpenFailed(t *testing.T) {
	dir := t.TempDir()
	l := New(WithArena(&retain.Arena{}))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.txt")},
		{name: "directory", path: dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Bytes(tt.path)
			if !errors.Is(err, ErrOpenFailed) {
				t.Fatalf("expected ErrOpenFailed, got %v", err)
			}

			var lerr *Error
			if !errors.As(err, &lerr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if lerr.Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, lerr.Path)
			}
		})
	}
}

func TestBytesMissingIsNotExist(t *testing.T) {
	l := New(WithArena(&retain.Arena{}))

	_, err := l.Bytes(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected underlying cause to be os.ErrNotExist, got %v", err)
	}
}

type failingFs struct {
	afero.Fs
}

func (fs failingFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return failingFile{File: f}, nil
}

type failingFile struct {
	afero.File
}

var errDevice = fmt.Errorf("device error")

func (f failingFile) Read(p []byte) (int, error) {
	return 0, errDevice
}

func TestBytesReadFailed(t *testing.T) {
	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, "/src/file", []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	arena := &retain.Arena{}
	l := New(WithFs(failingFs{Fs: mem}), WithArena(arena))

	_, err := l.Bytes("/src/file")
	if !errors.Is(err, ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
	if !errors.Is(err, errDevice) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if arena.Len() != 0 {
		t.Errorf("expected nothing retained, got %d buffers", arena.Len())
	}
}

func TestText(t *testing.T) {
	l, _ := newMemLoader(t, map[string][]byte{
		"/src/greeting.txt": []byte("Hello, world!"),
		"/src/unicode.txt":  []byte("Grüße, 世界"),
		"/src/empty.txt":    {},
	})

	tests := []struct {
		path string
		want string
	}{
		{path: "/src/greeting.txt", want: "Hello, world!"},
		{path: "/src/unicode.txt", want: "Grüße, 世界"},
		{path: "/src/empty.txt", want: ""},
	}

	for _, tt := range tests {
		got, err := l.Text(tt.path)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.want, got)
		}
	}
}

func TestTextInvalidEncoding(t *testing.T) {
	l, arena := newMemLoader(t, map[string][]byte{"/src/invalid.bin": {0xff, 0xfe}})

	_, err := l.Text("/src/invalid.bin")
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
	if err.Error() != "invalid utf8" {
		t.Errorf("expected message %q, got %q", "invalid utf8", err.Error())
	}

	// The failed text load is not rolled back.
	if arena.Len() != 1 || arena.Size() != 2 {
		t.Errorf("expected 1 buffer of 2 bytes retained, got %d buffers of %d bytes", arena.Len(), arena.Size())
	}

	data, err := l.Bytes("/src/invalid.bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, []byte{0xff, 0xfe}) {
		t.Errorf("expected ff fe, got % x", data)
	}
}

func TestIndependentLoads(t *testing.T) {
	l, arena := newMemLoader(t, map[string][]byte{"/src/file": []byte("same")})

	first, err := l.Bytes("/src/file")
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.Bytes("/src/file")
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("expected equal content, got %q and %q", first, second)
	}
	if &first[0] == &second[0] {
		t.Errorf("expected independent allocations")
	}
	if arena.Len() != 2 || arena.Size() != 8 {
		t.Errorf("expected 2 buffers of 8 bytes retained, got %d buffers of %d bytes", arena.Len(), arena.Size())
	}
}

func TestRereadsCurrentContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := New(WithFs(fs), WithArena(&retain.Arena{}))

	if err := afero.WriteFile(fs, "/src/file", []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}
	first, err := l.Text("/src/file")
	if err != nil {
		t.Fatal(err)
	}

	if err := afero.WriteFile(fs, "/src/file", []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	second, err := l.Text("/src/file")
	if err != nil {
		t.Fatal(err)
	}

	if first != "v1" || second != "v2" {
		t.Errorf("expected v1 then v2, got %q then %q", first, second)
	}
}

func TestWithoutRetention(t *testing.T) {
	l, arena := newMemLoader(t, map[string][]byte{"/src/file": []byte("data")}, WithoutRetention())

	got, err := l.Text("/src/file")
	if err != nil {
		t.Fatal(err)
	}
	if got != "data" {
		t.Errorf("expected %q, got %q", "data", got)
	}
	if arena.Len() != 0 {
		t.Errorf("expected nothing retained, got %d buffers", arena.Len())
	}
}

func TestConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	arena := &retain.Arena{}
	l := New(WithArena(arena))

	const files = 32
	for i := 0; i < files; i++ {
		content := bytes.Repeat([]byte{byte('a' + i%26)}, 1024+i)
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%02d", i)), content, 0644); err != nil {
			t.Fatal(err)
		}
	}

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < files; i++ {
		i := i
		g.Go(func() error {
			path := filepath.Join(dir, fmt.Sprintf("f%02d", i))
			want := bytes.Repeat([]byte{byte('a' + i%26)}, 1024+i)

			got, err := l.Bytes(path)
			if err != nil {
				return err
			}
			if !bytes.Equal(got, want) {
				return fmt.Errorf("%s: corrupted read", path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if arena.Len() != files {
		t.Errorf("expected %d retained buffers, got %d", files, arena.Len())
	}
}
