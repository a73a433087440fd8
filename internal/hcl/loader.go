package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/patchgrid/internal/config"
	"github.com/specialistvlad/patchgrid/internal/ctxlog"
	"github.com/specialistvlad/patchgrid/internal/fsutil"
)

// Extension is the file extension of patch files.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL patch loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load reads every patch file found under paths. Directories are walked
// recursively in lexical order; paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	return l.decodeAll(ctx, files, os.ReadFile)
}

// LoadFS reads every patch file in fsys, in lexical path order.
func (l *Loader) LoadFS(ctx context.Context, fsys fs.FS) (*config.Model, error) {
	files, err := fsutil.FindFSFilesByExtension(fsys, Extension)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded patch files: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Discovered embedded HCL files.", "count", len(files))

	return l.decodeAll(ctx, files, func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	})
}

func (l *Loader) decodeAll(ctx context.Context, files []string, read func(string) ([]byte, error)) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	evalCtx, err := newEvalContext(processEnviron())
	if err != nil {
		return nil, fmt.Errorf("failed to build evaluation context: %w", err)
	}

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		src, err := read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}

		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Patches {
			model.Patches = append(model.Patches, translatePatch(file, block))
		}
		logger.Debug("Decoded HCL file.", "file", file, "patches", len(root.Patches))
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "patches", len(model.Patches))
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == Extension {
				add(path)
			}
			continue
		}

		found, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return allFiles, nil
}
