package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/topi314/tint"
	"github.com/vmihailenco/msgpack/v5"

	"bitflags/internal/project"
	"bitflags/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache remembers which outputs a declaration file produced, keyed by
// the digest of its content and generation options.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the outputs produced for one cache key.
type DiskPayload struct {
	Schema uint16

	Source         string
	OutputPath     string
	OutputHash     project.Digest
	TestOutputPath string
	TestOutputHash project.Digest
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "files", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
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
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
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

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from a digest inside the cache dir
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached payload.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "files")); err != nil {
		return fmt.Errorf("failed to drop cache %s: %w", c.dir, err)
	}
	return nil
}

func cacheKey(file *source.File, pkg, dir string, opts Options) project.Digest {
	return project.DigestOf(
		strconv.FormatUint(uint64(diskCacheSchemaVersion), 10),
		project.Digest(file.Hash).String(),
		pkg,
		dir,
		opts.suffix(),
		strconv.FormatBool(opts.Tests),
		opts.Version,
	)
}

// loadCached fills res from disk when the cache has an entry for key and
// the outputs it names still hash the same.
func loadCached(ctx context.Context, res *Result, key project.Digest, cache *DiskCache) bool {
	if cache == nil {
		return false
	}
	var payload DiskPayload
	ok, err := cache.Get(key, &payload)
	if err != nil {
		slog.DebugContext(ctx, "cache read failed", slog.String("path", res.Path), tint.Err(err))
		return false
	}
	if !ok || payload.OutputPath != res.OutputPath || payload.TestOutputPath != res.TestOutputPath {
		slog.DebugContext(ctx, "cache miss", slog.String("path", res.Path))
		return false
	}
	hash, out, ok := hashFile(payload.OutputPath)
	if !ok || hash != payload.OutputHash {
		slog.DebugContext(ctx, "cache stale", slog.String("path", payload.OutputPath))
		return false
	}
	var testOut []byte
	if payload.TestOutputPath != "" {
		hash, testOut, ok = hashFile(payload.TestOutputPath)
		if !ok || hash != payload.TestOutputHash {
			slog.DebugContext(ctx, "cache stale", slog.String("path", payload.TestOutputPath))
			return false
		}
	}
	slog.DebugContext(ctx, "cache hit", slog.String("path", res.Path))
	res.Output = out
	res.TestOutput = testOut
	res.Cached = true
	return true
}

func storeCached(ctx context.Context, res *Result, key project.Digest, cache *DiskCache) {
	if cache == nil {
		return
	}
	payload := &DiskPayload{
		Schema:     diskCacheSchemaVersion,
		Source:     res.Path,
		OutputPath: res.OutputPath,
		OutputHash: sha256Digest(res.Output),
	}
	if res.TestOutputPath != "" {
		payload.TestOutputPath = res.TestOutputPath
		payload.TestOutputHash = sha256Digest(res.TestOutput)
	}
	if err := cache.Put(key, payload); err != nil {
		slog.DebugContext(ctx, "cache write failed", slog.String("path", res.Path), tint.Err(err))
	}
}
