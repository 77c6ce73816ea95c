// Package store mirrors the balloon set to a local cache on every
// mutation and pushes debounced best-effort snapshots to the remote
// annotation store.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"balloon-annotator/internal/annotation"
)

// ErrNotFound is returned when no record exists for a key, locally or
// remotely.
var ErrNotFound = errors.New("store: not found")

// Cache is the client-local persistent store for annotation sets,
// keyed by (inspection id, item id). It is the fast path on every
// mutation and the source of truth across restarts when the remote
// has no snapshot.
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultCacheDir returns the per-user cache location.
func DefaultCacheDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "balloon-annotator", "annotations")
}

// Save writes the full balloon list for the given key. Errors are
// returned for logging but the in-memory state stays authoritative;
// callers treat a failed cache write as non-fatal.
func (c *Cache) Save(inspectionID, itemID string, balloons []annotation.Balloon) error {
	data, err := json.MarshalIndent(balloons, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal annotations: %w", err)
	}
	if err := os.WriteFile(c.path(inspectionID, itemID), data, 0o644); err != nil {
		return fmt.Errorf("write annotation cache: %w", err)
	}
	return nil
}

// Load reads the balloon list for the given key. Returns ErrNotFound
// when the key has never been cached.
func (c *Cache) Load(inspectionID, itemID string) ([]annotation.Balloon, error) {
	data, err := os.ReadFile(c.path(inspectionID, itemID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read annotation cache: %w", err)
	}

	var balloons []annotation.Balloon
	if err := json.Unmarshal(data, &balloons); err != nil {
		return nil, fmt.Errorf("decode annotation cache: %w", err)
	}
	return balloons, nil
}

// SaveQuiet saves and logs any failure instead of returning it; used
// on the synchronous mutation path where a cache error must not
// interrupt editing.
func (c *Cache) SaveQuiet(inspectionID, itemID string, balloons []annotation.Balloon) {
	if err := c.Save(inspectionID, itemID, balloons); err != nil {
		log.Warn().Err(err).
			Str("inspection", inspectionID).
			Str("item", itemID).
			Msg("annotation cache write failed")
	}
}

func (c *Cache) path(inspectionID, itemID string) string {
	name := sanitize(inspectionID) + "_" + sanitize(itemID) + ".json"
	return filepath.Join(c.dir, name)
}

// sanitize keeps cache file names portable.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
