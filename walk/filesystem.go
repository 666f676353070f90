package walk

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/swiftbridge/swiftbridge/project"
)

type filesystemWalker struct {
	proj  *project.Project
	paths []string
}

func (w *filesystemWalker) Root() string {
	return w.proj.Root
}

func (w *filesystemWalker) Walk(ctx context.Context, fn WalkFunc) error {
	paths := w.paths
	if len(paths) == 0 {
		paths = []string{w.proj.Root}
	}

	walkFn := func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return fn(nil, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, relErr := w.proj.Rel(path)
		if relErr != nil {
			return relErr
		}

		if info.IsDir() {
			// don't descend into the metadata folder or excluded directories
			if info.Name() == project.MetadataDirName || w.proj.Excluded(path) {
				return filepath.SkipDir
			}

			return nil
		}

		if !wants(w.proj, relPath) {
			return nil
		}

		return fn(&File{Path: path, RelPath: relPath, Info: info}, nil)
	}

	for _, path := range paths {
		if err := filepath.Walk(path, walkFn); err != nil {
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}

	return nil
}
