package walk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/swiftbridge/swiftbridge/project"
)

// gitWalker emits the swift files recorded in the git index, skipping
// anything untracked.
type gitWalker struct {
	proj  *project.Project
	paths []string

	log  *log.Logger
	repo *git.Repository
}

func newGitWalker(proj *project.Project, paths []string) (Walker, error) {
	repo, err := git.PlainOpen(proj.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repo at %s: %w", proj.Root, err)
	}

	return &gitWalker{
		proj:  proj,
		paths: paths,
		log:   log.WithPrefix("walk | git"),
		repo:  repo,
	}, nil
}

func (w *gitWalker) Root() string {
	return w.proj.Root
}

func (w *gitWalker) Walk(ctx context.Context, fn WalkFunc) error {
	index, err := w.repo.Storer.Index()
	if err != nil {
		return fmt.Errorf("failed to open git index: %w", err)
	}

	for _, entry := range index.Entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// only regular files
		if entry.Mode == filemode.Dir || entry.Mode == filemode.Symlink {
			continue
		}

		relPath := filepath.FromSlash(entry.Name)
		if !wants(w.proj, relPath) {
			continue
		}

		if len(w.paths) > 0 && !w.inPaths(relPath) {
			continue
		}

		path := filepath.Join(w.proj.Root, relPath)

		info, err := os.Lstat(path)
		if os.IsNotExist(err) {
			// in the index but removed from disk without being staged
			w.log.Warnf("%s is in the index but missing from the filesystem", path)

			continue
		} else if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if err := fn(&File{Path: path, RelPath: relPath, Info: info}, nil); err != nil {
			return err
		}
	}

	return nil
}

func (w *gitWalker) inPaths(relPath string) bool {
	for _, path := range w.paths {
		rel, err := w.proj.Rel(path)
		if err != nil {
			continue
		}

		if relPath == rel || strings.HasPrefix(relPath, rel+string(os.PathSeparator)) {
			return true
		}
	}

	return false
}
