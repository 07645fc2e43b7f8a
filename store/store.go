// Package store caches rendered WAV bytes in a badger key-value database so
// repeated renders of the same settings are served from disk.
package store

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no render is cached for the settings.
var ErrNotFound = errors.New("render not cached")

// Cache is a badger-backed render cache. Keys are the sha256 of the
// canonical settings string, values the complete WAV byte sequence.
type Cache struct {
	db *badger.DB
}

// DefaultDir returns the platform cache directory for the render cache.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	dir := filepath.Join(base, "chipfx", "renders")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return dir, nil
}

// Open opens (or creates) the cache at dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open render cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get returns the cached WAV bytes for a settings string, or ErrNotFound.
func (c *Cache) Get(settings string) ([]byte, error) {
	var wav []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(settings))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		wav, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wav, nil
}

// Put stores the WAV bytes for a settings string.
func (c *Cache) Put(settings string, wav []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(settings), wav)
	})
}

func key(settings string) []byte {
	sum := sha256.Sum256([]byte(settings))
	return sum[:]
}
