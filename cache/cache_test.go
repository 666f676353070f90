package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"
	"github.com/swiftbridge/swiftbridge/cache"
	"github.com/swiftbridge/swiftbridge/test"
	"github.com/swiftbridge/swiftbridge/walk"
)

func newFile(t *testing.T, root string, relPath string) *walk.File {
	t.Helper()

	path := filepath.Join(root, relPath)

	info, err := os.Lstat(path)
	require.NoError(t, err)

	return &walk.File{Path: path, RelPath: relPath, Info: info}
}

func TestCache(t *testing.T) {
	as := require.New(t)

	// keep the cache db out of the user's real xdg tree
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	xdg.Reload()

	root := test.TempProject(t)
	hash := cache.ConfigHash("/usr/bin/swift-format", "")

	db, err := cache.Open(root)
	as.NoError(err)

	t.Cleanup(func() {
		as.NoError(db.Close())
	})

	file := newFile(t, root, "main.swift")

	// unknown files are always considered changed
	changed, err := db.Changed(file, hash)
	as.NoError(err)
	as.True(changed)

	as.NoError(db.Update([]*walk.File{file}, hash))

	changed, err = db.Changed(file, hash)
	as.NoError(err)
	as.False(changed)

	// a different effective config invalidates the entry
	cfg := filepath.Join(t.TempDir(), "cfg.json")
	as.NoError(os.WriteFile(cfg, []byte(`{"lineLength": 90}`), 0o644))

	changed, err = db.Changed(file, cache.ConfigHash("/usr/bin/swift-format", cfg))
	as.NoError(err)
	as.True(changed)

	// touching the file invalidates the entry
	future := time.Now().Add(2 * time.Second)
	as.NoError(os.Chtimes(file.Path, future, future))

	file = newFile(t, root, "main.swift")

	changed, err = db.Changed(file, hash)
	as.NoError(err)
	as.True(changed)
}

func TestClear(t *testing.T) {
	as := require.New(t)

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	xdg.Reload()

	root := test.TempProject(t)

	db, err := cache.Open(root)
	as.NoError(err)

	file := newFile(t, root, "main.swift")
	hash := cache.ConfigHash("swift-format", "")

	as.NoError(db.Update([]*walk.File{file}, hash))
	as.NoError(db.Close())

	as.NoError(cache.Clear(root))

	path, err := cache.Path(root)
	as.NoError(err)

	_, err = os.Stat(path)
	as.ErrorIs(err, os.ErrNotExist)

	// clearing an absent cache is not an error
	as.NoError(cache.Clear(root))
}

func TestConfigHash(t *testing.T) {
	as := require.New(t)

	cfg := filepath.Join(t.TempDir(), "cfg.json")
	as.NoError(os.WriteFile(cfg, []byte(`{"lineLength": 90}`), 0o644))

	a := cache.ConfigHash("swift-format", "")
	b := cache.ConfigHash("swift-format", cfg)
	as.NotEqual(a, b)

	as.NoError(os.WriteFile(cfg, []byte(`{"lineLength": 91}`), 0o644))

	c := cache.ConfigHash("swift-format", cfg)
	as.NotEqual(b, c)

	as.NotEqual(a, cache.ConfigHash("other-binary", ""))
}
