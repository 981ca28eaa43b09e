package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/dbcmd/compiler/load"
)

// cacheVersion is mixed into every key; bump it when emitted code changes.
const cacheVersion = "dbcmd/1"

// Cache stores the rendered files of declarations. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the files stored under key, and false when there are none.
	Get(key string) ([]*Artifact, bool, error)
	// Put stores rendered files under key.
	Put(key string, files []*Artifact) error
}

// CacheKey returns the cache key of a declaration under cfg. Generation is a
// function of the declaration, the default naming policy and the header, so
// the key covers exactly those.
func CacheKey(d *load.Declaration, cfg *Config) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n%s\n%s\n%q\n", cacheVersion, d.Fingerprint(), cfg.Naming, cfg.Header)
	return hex.EncodeToString(h.Sum(nil))
}

type cachedFile struct {
	Kind    ArtifactKind `msgpack:"kind"`
	Name    string       `msgpack:"name"`
	Content []byte       `msgpack:"content"`
}

type cacheEntry struct {
	RunID   string       `msgpack:"run_id"`
	Created time.Time    `msgpack:"created"`
	Files   []cachedFile `msgpack:"files"`
}

func newEntry(runID string, files []*Artifact) (*cacheEntry, error) {
	e := &cacheEntry{RunID: runID, Created: time.Now().UTC()}
	for _, f := range files {
		b, err := f.Render()
		if err != nil {
			return nil, err
		}
		e.Files = append(e.Files, cachedFile{Kind: f.Kind, Name: f.Name, Content: b})
	}
	return e, nil
}

func (e *cacheEntry) artifacts() []*Artifact {
	files := make([]*Artifact, len(e.Files))
	for i, f := range e.Files {
		files[i] = &Artifact{Kind: f.Kind, Name: f.Name, Content: f.Content}
	}
	return files
}

// MemoryCache is an in-process Cache, used by long-running watch loops.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*cacheEntry)}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) ([]*Artifact, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return e.artifacts(), true, nil
}

// Put implements Cache.
func (c *MemoryCache) Put(key string, files []*Artifact) error {
	e, err := newEntry("", files)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	return nil
}

// Len returns the number of cached declarations.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// DirCache is a Cache storing one msgpack file per key under a directory.
type DirCache struct {
	dir   string
	runID string
}

// NewDirCache returns a cache rooted at dir. The directory is created on
// the first Put.
func NewDirCache(dir string) *DirCache {
	return &DirCache{dir: dir, runID: uuid.NewString()}
}

// Dir returns the cache directory.
func (c *DirCache) Dir() string { return c.dir }

func (c *DirCache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+".msgpack")
}

// Get implements Cache.
func (c *DirCache) Get(key string) ([]*Artifact, bool, error) {
	buf, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	e := &cacheEntry{}
	if err := msgpack.Unmarshal(buf, e); err != nil {
		// A corrupt entry is a miss; the next Put replaces it.
		return nil, false, nil
	}
	return e.artifacts(), true, nil
}

// Put implements Cache.
func (c *DirCache) Put(key string, files []*Artifact) error {
	e, err := newEntry(c.runID, files)
	if err != nil {
		return err
	}
	buf, err := msgpack.Marshal(e)
	if err != nil {
		return err
	}
	return writeFile(c.path(key), buf)
}

// Clear removes every entry of the cache.
func (c *DirCache) Clear() error {
	return os.RemoveAll(c.dir)
}
