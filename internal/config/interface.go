package config

import (
	"context"
	"io/fs"
)

// Loader is the interface for a format-specific patch configuration loader.
type Loader interface {
	// Load reads patch definitions from the given files or directories and
	// translates them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadFS does the same as Load for every matching file in fsys.
	LoadFS(ctx context.Context, fsys fs.FS) (*Model, error)
}
