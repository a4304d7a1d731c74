package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"zapc/internal/project"
)

// Bump when the Payload format changes; older entries are then
// silently ignored on Get.
const payloadSchemaVersion uint16 = 1

// DescriptorCache stores the last successfully compiled descriptor per
// root schema, keyed by the hash of the root's canonical path.
// Thread-safe for concurrent access.
type DescriptorCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the cached record for one root schema.
type Payload struct {
	Schema uint16

	// Root and Files describe what was compiled, for inspection and
	// cleanup tooling.
	Root  string
	Files []string

	// ContentHash aggregates the source hashes; when it matches the
	// current sources the evolution check is a no-op.
	ContentHash project.Digest

	// Descriptor is the serialized wire descriptor.
	Descriptor []byte
}

// OpenCache initializes a cache at the standard per-user location
// ($XDG_CACHE_HOME/app, falling back to ~/.cache/app).
func OpenCache(app string) (*DescriptorCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCacheAt(filepath.Join(base, app))
}

// OpenCacheAt initializes a cache rooted at an explicit directory.
func OpenCacheAt(dir string) (*DescriptorCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DescriptorCache{dir: dir}, nil
}

func (c *DescriptorCache) pathFor(key project.Digest) string {
	// A "desc" subdirectory keeps the cache root listable and easy
	// to clean by hand.
	return filepath.Join(c.dir, "desc", hex.EncodeToString(key[:])+".mp")
}

// Put serializes a payload and atomically replaces the cache entry.
func (c *DescriptorCache) Put(key project.Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. Returns false without error when the entry is
// absent or was written by an incompatible format version.
func (c *DescriptorCache) Get(key project.Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "failed to close cache file: %v\n", closeErr)
		}
	}()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != payloadSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DescriptorCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
