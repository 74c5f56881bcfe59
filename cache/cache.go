// Package cache provides a cache of external tilesets keyed by file path,
// so that maps referencing the same TSX file share one parsed Tileset.
//
// A cache is not safe for concurrent use; callers must synchronize.
package cache

import (
	"os"
	"path/filepath"

	"github.com/eak1mov/go-libtmx/tmx"
)

type ResourceCache interface {
	// Get returns the tileset stored for path, if any.
	Get(path string) (*tmx.Tileset, bool)

	// GetOrTryInsert returns the tileset stored for path. Otherwise it calls
	// factory once and stores its result; on failure the cache is unchanged
	// and the factory error is returned.
	GetOrTryInsert(path string, factory func() (*tmx.Tileset, error)) (*tmx.Tileset, error)
}

// FilesystemCache implements ResourceCache for tilesets loaded from files.
// Paths are compared after filepath.Clean.
type FilesystemCache struct {
	tilesets map[string]*tmx.Tileset
}

func NewFilesystemCache() *FilesystemCache {
	return &FilesystemCache{tilesets: make(map[string]*tmx.Tileset)}
}

func (c *FilesystemCache) Get(path string) (*tmx.Tileset, bool) {
	tileset, ok := c.tilesets[filepath.Clean(path)]
	return tileset, ok
}

func (c *FilesystemCache) GetOrTryInsert(path string, factory func() (*tmx.Tileset, error)) (*tmx.Tileset, error) {
	key := filepath.Clean(path)
	if tileset, ok := c.tilesets[key]; ok {
		return tileset, nil
	}

	tileset, err := factory()
	if err != nil {
		return nil, err
	}
	c.tilesets[key] = tileset
	return tileset, nil
}

// Len returns the number of cached tilesets.
func (c *FilesystemCache) Len() int {
	return len(c.tilesets)
}

// LoadTileset returns the tileset of the TSX file at path, parsing it on
// the first request only.
func LoadTileset(c ResourceCache, path string, opts ...tmx.Option) (*tmx.Tileset, error) {
	return c.GetOrTryInsert(path, func() (*tmx.Tileset, error) {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		return tmx.ParseTileset(file, opts...)
	})
}

// ResolveTilesets returns a copy of m in which every external tileset
// reference, loaded relative to dir, is replaced by a copy of the cached
// tileset carrying the reference's FirstGID. Inline tilesets are shared with
// m, which is never modified.
func ResolveTilesets(c ResourceCache, m *tmx.Map, dir string, opts ...tmx.Option) (*tmx.Map, error) {
	tilesets := make([]*tmx.Tileset, len(m.Tilesets))
	for i, ref := range m.Tilesets {
		if ref.Source == "" {
			tilesets[i] = ref
			continue
		}
		path := ref.Source
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		shared, err := LoadTileset(c, path, opts...)
		if err != nil {
			return nil, err
		}
		resolved := *shared
		resolved.FirstGID = ref.FirstGID
		resolved.Source = ref.Source
		tilesets[i] = &resolved
	}

	resolved := *m
	resolved.Tilesets = tilesets
	return &resolved, nil
}
