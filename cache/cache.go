// Package cache remembers which files were already formatted with a given
// configuration, so project-wide runs skip unchanged files. Entries are
// keyed by relative path and compared on size, modtime and the effective
// configuration hash.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/swiftbridge/swiftbridge/walk"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

const bucketPaths = "paths"

// Entry records the state a file had the last time it came out of a run
// clean.
type Entry struct {
	Size       int64
	ModTime    int64
	ConfigHash []byte
}

type Cache struct {
	db *bolt.DB
}

// Path returns a unique local cache file path for the given project root,
// using its SHA-256 hash.
func Path(root string) (string, error) {
	digest := sha256.Sum256([]byte(root))
	name := hex.EncodeToString(digest[:])

	path, err := xdg.CacheFile(fmt.Sprintf("swiftbridge/format-cache/%v.db", name))
	if err != nil {
		return "", fmt.Errorf("could not resolve local path for the cache: %w", err)
	}

	return path, nil
}

// Open initialises the cache db for a project root.
func Open(root string) (*Cache, error) {
	path, err := Path(root)
	if err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketPaths)); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		return nil
	})
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close cache db: %w", err)
	}

	return nil
}

// Changed reports whether file needs formatting under the given config
// hash. Unknown files are always considered changed.
func (c *Cache) Changed(file *walk.File, configHash []byte) (bool, error) {
	changed := true

	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketPaths)).Get([]byte(file.RelPath))
		if raw == nil {
			return nil
		}

		var entry Entry
		if err := msgpack.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal cache entry for %s: %w", file.RelPath, err)
		}

		changed = entry.Size != file.Info.Size() ||
			entry.ModTime != file.Info.ModTime().Unix() ||
			!bytes.Equal(entry.ConfigHash, configHash)

		return nil
	})
	if err != nil {
		return true, err
	}

	return changed, nil
}

// Update records the current state of files after a clean run.
func (c *Cache) Update(files []*walk.File, configHash []byte) error {
	if len(files) == 0 {
		return nil
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketPaths))

		for _, file := range files {
			info, err := os.Stat(file.Path)
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", file.Path, err)
			}

			entry := Entry{
				Size:       info.Size(),
				ModTime:    info.ModTime().Unix(),
				ConfigHash: configHash,
			}

			raw, err := msgpack.Marshal(&entry)
			if err != nil {
				return fmt.Errorf("failed to marshal cache entry for %s: %w", file.RelPath, err)
			}

			if err = bucket.Put([]byte(file.RelPath), raw); err != nil {
				return fmt.Errorf("failed to put cache entry for %s: %w", file.RelPath, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update cache: %w", err)
	}

	return nil
}

// Clear removes the cache db for a project root.
func Clear(root string) error {
	path, err := Path(root)
	if err != nil {
		return err
	}

	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache db at %s: %w", path, err)
	}

	return nil
}

// ConfigHash fingerprints the effective configuration for an invocation: the
// executable plus the config file bytes, if any.
func ConfigHash(executable string, configPath string) []byte {
	h := sha256.New()
	h.Write([]byte(executable))

	if configPath != "" {
		if raw, err := os.ReadFile(configPath); err == nil {
			h.Write(raw)
		}
	}

	return h.Sum(nil)
}
