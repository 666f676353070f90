// Package project models the identity of the tree being formatted: its root,
// its content roots and the paths excluded from it.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// MetadataDirName is the folder holding swiftbridge's own per-project state.
const MetadataDirName = ".swiftbridge"

type Project struct {
	// Root is the absolute path of the project root.
	Root string
	// ContentRoots are the absolute directories considered part of the
	// project. Defaults to {Root}.
	ContentRoots []string
	// Excludes are glob patterns, relative to Root, carved out of the
	// project.
	Excludes []string

	excludes []glob.Glob
}

// New creates a project rooted at root. Exclude patterns are compiled
// eagerly so invalid globs surface at startup rather than mid-walk.
func New(root string, excludes []string) (*Project, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for project root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat project root: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	p := &Project{
		Root:         root,
		ContentRoots: []string{root},
		Excludes:     excludes,
	}

	p.excludes, err = compileGlobs(excludes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile project excludes: %w", err)
	}

	return p, nil
}

// Find walks up from dir looking for an existing project marker (the
// metadata folder or a .git folder), falling back to dir itself.
func Find(dir string, excludes []string) (*Project, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}

	for d := dir; ; d = filepath.Dir(d) {
		for _, marker := range []string{MetadataDirName, ".git"} {
			if _, err := os.Stat(filepath.Join(d, marker)); err == nil {
				return New(d, excludes)
			}
		}

		if d == filepath.Dir(d) {
			break
		}
	}

	return New(dir, excludes)
}

// MetadataDir is the designated folder for swiftbridge state inside the
// project. It is always considered part of the project, whether or not it
// exists yet.
func (p *Project) MetadataDir() string {
	return filepath.Join(p.Root, MetadataDirName)
}

// Contains reports whether path falls under one of the project's content
// roots.
func (p *Project) Contains(path string) bool {
	path, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	for _, root := range p.ContentRoots {
		if path == root || strings.HasPrefix(path, root+string(os.PathSeparator)) {
			return true
		}
	}

	return false
}

// Excluded reports whether path matches one of the project's exclude
// patterns. Paths outside the project are not considered excluded; they are
// simply not contained. A directory also counts as excluded when a pattern
// like `dir/**` carves out everything beneath it.
func (p *Project) Excluded(path string) bool {
	rel, err := p.Rel(path)
	if err != nil {
		return false
	}

	return pathMatches(rel, p.excludes) ||
		pathMatches(rel+string(os.PathSeparator), p.excludes)
}

// Rel returns path relative to the project root.
func (p *Project) Rel(path string) (string, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return "", fmt.Errorf("failed to determine a path relative to %s: %w", p.Root, err)
	}

	return rel, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, len(patterns))

	for i, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile glob %v: %w", pattern, err)
		}

		globs[i] = g
	}

	return globs, nil
}

func pathMatches(path string, globs []glob.Glob) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}

	return false
}

// FindUp searches dir and its ancestors for the first of fileNames,
// returning the matching path and its directory.
func FindUp(searchDir string, fileNames ...string) (path string, dir string, err error) {
	searchDir, err = filepath.Abs(searchDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to get absolute path for %s: %w", searchDir, err)
	}

	for d := searchDir; ; d = filepath.Dir(d) {
		for _, f := range fileNames {
			candidate := filepath.Join(d, f)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, d, nil
			}
		}

		if d == filepath.Dir(d) {
			break
		}
	}

	return "", "", fmt.Errorf("could not find %s in %s", fileNames, searchDir)
}
