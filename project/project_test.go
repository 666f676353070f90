package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swiftbridge/swiftbridge/project"
	"github.com/swiftbridge/swiftbridge/test"
)

func TestFind(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)

	// discovery walks up from a nested directory to the metadata marker
	proj, err := project.Find(filepath.Join(root, "Sources", "App"), nil)
	as.NoError(err)
	as.Equal(root, proj.Root)

	// a directory without markers becomes its own project
	plain := t.TempDir()

	proj, err = project.Find(plain, nil)
	as.NoError(err)
	as.Equal(plain, proj.Root)

	// a .git folder works as a marker too
	gitRoot := t.TempDir()
	as.NoError(os.MkdirAll(filepath.Join(gitRoot, ".git"), 0o755))
	as.NoError(os.MkdirAll(filepath.Join(gitRoot, "nested"), 0o755))

	proj, err = project.Find(filepath.Join(gitRoot, "nested"), nil)
	as.NoError(err)
	as.Equal(gitRoot, proj.Root)
}

func TestContains(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)

	proj, err := project.New(root, nil)
	as.NoError(err)

	as.True(proj.Contains(root))
	as.True(proj.Contains(filepath.Join(root, "main.swift")))
	as.True(proj.Contains(proj.MetadataDir()))
	as.False(proj.Contains(filepath.Dir(root)))
	as.False(proj.Contains(t.TempDir()))
}

func TestExcluded(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)

	proj, err := project.New(root, []string{"Generated/**", "*.generated.swift"})
	as.NoError(err)

	as.True(proj.Excluded(filepath.Join(root, "Generated", "Messages.swift")))
	as.True(proj.Excluded(filepath.Join(root, "API.generated.swift")))
	as.False(proj.Excluded(filepath.Join(root, "main.swift")))

	// a pattern carving out a folder's contents excludes the folder itself
	as.True(proj.Excluded(filepath.Join(root, "Generated")))
	as.False(proj.Excluded(filepath.Join(root, "Sources")))

	// paths outside the project are not excluded, just not contained
	as.False(proj.Excluded(t.TempDir()))

	_, err = project.New(root, []string{"[invalid"})
	as.Error(err)
}

func TestMetadataDir(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)

	proj, err := project.New(root, nil)
	as.NoError(err)
	as.Equal(filepath.Join(root, project.MetadataDirName), proj.MetadataDir())
}

func TestFindUp(t *testing.T) {
	as := require.New(t)

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	as.NoError(os.MkdirAll(nested, 0o755))
	as.NoError(os.WriteFile(filepath.Join(root, "swiftbridge.toml"), []byte(""), 0o644))

	path, dir, err := project.FindUp(nested, "swiftbridge.toml")
	as.NoError(err)
	as.Equal(filepath.Join(root, "swiftbridge.toml"), path)
	as.Equal(root, dir)

	_, _, err = project.FindUp(t.TempDir(), "no-such-file-anywhere.xyz")
	as.Error(err)
}
