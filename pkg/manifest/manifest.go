package manifest

import (
	"context"
)

// Asset is a file a program expects to load at run time.
type Asset struct {
	// Name is a human-readable label. It defaults to Rel.
	Name string
	// Rel is the path as written in the manifest, relative to the manifest file.
	Rel string
	// Path is Rel resolved against the directory of the manifest file.
	Path string
	// Text requests UTF-8 validation in addition to reading the bytes.
	Text bool
}

// Loader defines the interface for loading asset manifests.
//
// The manifest file plays the role of the calling source file: every relative asset
// path is resolved against the directory containing the manifest.
//
// Returns:
//   - []Asset: assets in declaration order, with Path already resolved
//   - error: any error encountered while reading, templating or parsing the manifest
type Loader interface {
	Load(ctx context.Context, path string) ([]Asset, error)
}
