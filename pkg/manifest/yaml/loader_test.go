package yaml

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := `
variables:
  locale: en
assets:
  - name: greeting
    path: "i18n/{{ .locale }}/greeting.txt"
    text: true
  - path: ../shared/logo.png
`
	if err := afero.WriteFile(fs, "/app/assets.yaml", []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	l := &Loader{Fs: fs}
	assets, err := l.Load(context.Background(), "/app/assets.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}

	first := assets[0]
	if first.Name != "greeting" || !first.Text {
		t.Errorf("unexpected first asset %+v", first)
	}
	if first.Rel != "i18n/en/greeting.txt" {
		t.Errorf("expected templated path, got %q", first.Rel)
	}
	if want := filepath.FromSlash("/app/i18n/en/greeting.txt"); first.Path != want {
		t.Errorf("expected %q, got %q", want, first.Path)
	}

	second := assets[1]
	if second.Name != "../shared/logo.png" || second.Text {
		t.Errorf("unexpected second asset %+v", second)
	}
	if want := filepath.FromSlash("/shared/logo.png"); second.Path != want {
		t.Errorf("expected %q, got %q", want, second.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing path",
			src:  "assets:\n  - name: nothing\n",
			want: "has no path",
		},
		{
			name: "unknown variable",
			src:  "assets:\n  - path: \"{{ .missing }}\"\n",
			want: "template execution error",
		},
		{
			name: "invalid yaml",
			src:  "assets: [",
			want: "parse variables error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "/app/assets.yaml", []byte(tt.src), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := (&Loader{Fs: fs}).Load(context.Background(), "/app/assets.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := (&Loader{Fs: afero.NewMemMapFs()}).Load(context.Background(), "/app/assets.yaml")
	if err == nil || !strings.Contains(err.Error(), "read manifest file error") {
		t.Errorf("expected read error, got %v", err)
	}
}
