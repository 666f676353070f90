// Package walk discovers the swift files of a project for the project-wide
// formatting path.
package walk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/swiftbridge/swiftbridge/project"
)

// Extension is the only file extension the walkers emit.
const Extension = ".swift"

type Type int

const (
	Auto Type = iota
	Filesystem
	Git
)

// TypeString parses a walker type from its flag value.
func TypeString(s string) (Type, error) {
	switch s {
	case "auto":
		return Auto, nil
	case "filesystem":
		return Filesystem, nil
	case "git":
		return Git, nil
	default:
		return Auto, fmt.Errorf("unknown walk type: %s", s)
	}
}

// File is a swift file discovered within the project.
type File struct {
	Path    string
	RelPath string
	Info    fs.FileInfo
}

func (f *File) String() string {
	return f.Path
}

// WalkFunc is invoked for each file emitted by a Walker.
type WalkFunc func(file *File, err error) error

type Walker interface {
	Root() string
	Walk(ctx context.Context, fn WalkFunc) error
}

// New creates a walker for the project, restricted to paths when non-empty.
// Auto resolves to git when the project root is a git worktree.
func New(walkerType Type, proj *project.Project, paths []string) (Walker, error) {
	if walkerType == Auto {
		if _, err := os.Stat(filepath.Join(proj.Root, ".git")); err == nil {
			walkerType = Git
		} else {
			walkerType = Filesystem
		}
	}

	switch walkerType {
	case Filesystem:
		return &filesystemWalker{proj: proj, paths: paths}, nil
	case Git:
		return newGitWalker(proj, paths)
	default:
		return nil, fmt.Errorf("unknown walker type: %v", walkerType)
	}
}

// wants filters walker output down to project swift files.
func wants(proj *project.Project, relPath string) bool {
	if !strings.HasSuffix(relPath, Extension) {
		return false
	}

	if strings.HasPrefix(relPath, project.MetadataDirName+string(os.PathSeparator)) {
		return false
	}

	return !proj.Excluded(filepath.Join(proj.Root, relPath))
}
