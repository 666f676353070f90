// Package test provides helpers shared by the test suites.
package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	cp "github.com/otiai10/copy"
	"github.com/stretchr/testify/require"
	"github.com/swiftbridge/swiftbridge/project"
	"github.com/swiftbridge/swiftbridge/settings"
)

// TempExamples copies the example fixture tree into a fresh temp dir and
// returns its path.
func TempExamples(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	TempExamplesInDir(t, tempDir)

	return tempDir
}

func TempExamplesInDir(t *testing.T, dir string) {
	t.Helper()

	require.NoError(t, cp.Copy(examplesDir(t), dir), "failed to copy test data to dir")
}

func examplesDir(t *testing.T) string {
	t.Helper()

	// test packages run with their package dir as cwd, so locate the fixture
	// tree by searching upwards for the module root
	dir, err := os.Getwd()
	require.NoError(t, err)

	for ; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "test", "examples")
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return candidate
		}
	}

	t.Fatal("could not locate test/examples")

	return ""
}

// TempProject copies the fixture tree into a temp dir and marks it as a
// project by creating the metadata folder.
func TempProject(t *testing.T) string {
	t.Helper()

	root := TempExamples(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, project.MetadataDirName), 0o755))

	return root
}

// WriteSettings persists s into the metadata folder of the project at root.
func WriteSettings(t *testing.T, root string, s settings.Settings) {
	t.Helper()

	require.NoError(t, s.Save(filepath.Join(root, project.MetadataDirName)))
}

// WriteTOML writes a swiftbridge.toml style config file for CLI tests.
func WriteTOML(t *testing.T, path string, cfg map[string]any) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err, "failed to create config file")

	defer f.Close()

	require.NoError(t, toml.NewEncoder(f).Encode(cfg), "failed to write config file")
}

// Formatter writes an executable shell script standing in for swift-format
// and returns its path.
func Formatter(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "swift-format")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))

	return path
}
