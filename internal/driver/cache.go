package driver

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"brook/internal/irfile"
)

// Increment when cacheEntry changes shape.
const cacheSchemaVersion uint16 = 1

const cacheIndexName = "index.mp"

// Cache remembers which sources already have an up-to-date container on disk.
// An entry is valid while the source hash, the container format version and
// the output file size all match. Safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	dir   string
	index map[string]cacheEntry
	dirty bool
}

type cacheEntry struct {
	Schema     uint16
	Format     [3]byte
	SourceHash [32]byte
	Output     string
	Size       int64
}

type cacheIndex struct {
	Schema  uint16
	Entries map[string]cacheEntry
}

// OpenCache loads the index stored in dir. A missing or unreadable index
// starts an empty cache.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	c := &Cache{dir: dir, index: make(map[string]cacheEntry)}

	data, err := os.ReadFile(filepath.Join(dir, cacheIndexName))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, err
	}
	var idx cacheIndex
	if err := msgpack.Unmarshal(data, &idx); err != nil || idx.Schema != cacheSchemaVersion {
		// битый или старый индекс: пересобираем всё
		c.dirty = true
		return c, nil
	}
	if idx.Entries != nil {
		c.index = idx.Entries
	}
	return c, nil
}

// Lookup reports whether src (with content hash) has a valid output.
func (c *Cache) Lookup(src string, hash [32]byte) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	e, ok := c.index[src]
	c.mu.Unlock()
	if !ok || e.Schema != cacheSchemaVersion || e.Format != irfile.Version || e.SourceHash != hash {
		return "", false
	}
	st, err := os.Stat(e.Output)
	if err != nil || st.Size() != e.Size {
		return "", false
	}
	return e.Output, true
}

// Store records a freshly written output for src.
func (c *Cache) Store(src string, hash [32]byte, output string, size int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index[src] = cacheEntry{
		Schema:     cacheSchemaVersion,
		Format:     irfile.Version,
		SourceHash: hash,
		Output:     output,
		Size:       size,
	}
	c.dirty = true
}

// Forget drops the entry of src.
func (c *Cache) Forget(src string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[src]; ok {
		delete(c.index, src)
		c.dirty = true
	}
}

// Save writes the index atomically when it changed.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	data, err := msgpack.Marshal(cacheIndex{Schema: cacheSchemaVersion, Entries: c.index})
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(c.dir, cacheIndexName), data); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// writeAtomic replaces path through a temp file in the same directory.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
