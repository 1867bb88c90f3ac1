package yaml

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"peertech.de/rtembed/pkg/manifest"
	"peertech.de/rtembed/pkg/resolve"
)

// Manifest represents the complete YAML manifest structure containing variables for
// templating and a list of assets.
type Manifest struct {
	Variables map[string]any `yaml:"variables" json:"variables"`
	Assets    []Asset        `yaml:"assets" json:"assets"`
}

// Asset represents a single asset definition in the manifest.
type Asset struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
	Text bool   `yaml:"text" json:"text"`
}

// Loader implements the manifest.Loader interface for YAML-based manifests
type Loader struct {
	// Fs defaults to the operating system file system.
	Fs afero.Fs
}

// Load parses the manifest at path and resolves every asset against it.
func (l *Loader) Load(ctx context.Context, path string) ([]manifest.Asset, error) {
	fs := l.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest load error [%s]: %w", path, err)
	}

	m, err := load(fs, abs)
	if err != nil {
		return nil, fmt.Errorf("manifest load error [%s]: %w", path, err)
	}

	out := make([]manifest.Asset, 0, len(m.Assets))
	for i, a := range m.Assets {
		if a.Path == "" {
			return nil, fmt.Errorf("manifest error: asset %d has no path", i)
		}

		resolved, err := resolve.Resolve(abs, a.Path)
		if err != nil {
			return nil, fmt.Errorf("manifest error: asset %q: %w", a.Path, err)
		}

		name := a.Name
		if name == "" {
			name = a.Path
		}

		out = append(out, manifest.Asset{
			Name: name,
			Rel:  a.Path,
			Path: resolved,
			Text: a.Text,
		})
	}

	return out, nil
}

// load reads and processes a YAML manifest file with template variable substitution.
//
// Template syntax uses {{ }} delimiters for variable substitution.
func load(fs afero.Fs, path string) (*Manifest, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read manifest file error: %w", err)
	}

	// Initial parsing to extract variables
	var preliminary struct {
		Variables map[string]any `yaml:"variables"`
	}
	if err := yaml.Unmarshal(raw, &preliminary); err != nil {
		return nil, fmt.Errorf("parse variables error: %w", err)
	}

	// Substitute variables
	tmpl, err := template.New("manifest").Delims("{{", "}}").Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, preliminary.Variables); err != nil {
		return nil, fmt.Errorf("template execution error: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(buf.Bytes(), &m); err != nil {
		return nil, fmt.Errorf("final manifest parse error: %w", err)
	}

	return &m, nil
}
