package hirtypes

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// SliceSpan is a precomputed (start, width) pair for one Slice-kind index
// expression, cached per distinct symbolic-bindings tuple so a
// monomorphized instance of a parametric function never recomputes it
// (spec.md §4.E: "look up pre-computed (start, width) keyed by the
// non-constant subset of the current bindings").
type SliceSpan struct {
	Start uint32
	Width uint32
}

// sliceCacheEntry is the on-disk payload for one (function, bindings)
// tuple, grounded on the teacher's DiskPayload shape (schema-versioned,
// msgpack-serialized, one file per key).
type sliceCacheEntry struct {
	Schema uint16
	Spans  map[uint32]SliceSpan // keyed by the Index op's ExprID
}

const sliceCacheSchemaVersion uint16 = 1

// SliceCache holds precomputed slice metadata in memory, and optionally
// mirrors it to disk so repeated lowering runs over the same module and
// bindings skip recomputation entirely. Thread-safe: spec.md §5 permits
// concurrently lowered engines to read type-info concurrently, and the
// wave-parallel driver (internal/lowpipeline) populates entries for
// distinct functions from distinct goroutines.
type SliceCache struct {
	mu      sync.RWMutex
	mem     map[string]map[uint32]SliceSpan
	diskDir string // empty disables disk persistence
}

// NewSliceCache builds an in-memory-only cache.
func NewSliceCache() *SliceCache {
	return &SliceCache{mem: make(map[string]map[uint32]SliceSpan)}
}

// NewSliceCacheWithDisk builds a cache that also mirrors entries under
// dir, mirroring the teacher's OpenDiskCache (one file per key, atomic
// rename on write).
func NewSliceCacheWithDisk(dir string) (*SliceCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SliceCache{mem: make(map[string]map[uint32]SliceSpan), diskDir: dir}, nil
}

// Key derives a cache key from bindings (the engine passes its
// non-constant subset), sorted by name in byte order, plus the mangled
// function name it belongs to.
func Key(fnMangled string, bindings Bindings) string {
	sorted := make([]Binding, len(bindings))
	copy(sorted, bindings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	key := fnMangled
	for _, kv := range sorted {
		key += "/" + kv.Name + "=" + strconv.FormatInt(kv.Value, 10)
	}
	return key
}

func (c *SliceCache) diskPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.diskDir, hex.EncodeToString(sum[:])+".mp")
}

// Get returns the cached span for exprID under key, checking memory first
// and falling back to disk when enabled.
func (c *SliceCache) Get(key string, exprID uint32) (SliceSpan, bool) {
	c.mu.RLock()
	if tbl, ok := c.mem[key]; ok {
		span, ok := tbl[exprID]
		c.mu.RUnlock()
		return span, ok
	}
	c.mu.RUnlock()

	if c.diskDir == "" {
		return SliceSpan{}, false
	}
	entry, ok, err := c.loadDisk(key)
	if err != nil || !ok {
		return SliceSpan{}, false
	}
	c.mu.Lock()
	c.mem[key] = entry.Spans
	c.mu.Unlock()
	span, ok := entry.Spans[exprID]
	return span, ok
}

// Put records span for exprID under key, and persists the whole table
// for key to disk when enabled.
func (c *SliceCache) Put(key string, exprID uint32, span SliceSpan) error {
	c.mu.Lock()
	tbl, ok := c.mem[key]
	if !ok {
		tbl = make(map[uint32]SliceSpan)
		c.mem[key] = tbl
	}
	tbl[exprID] = span
	snapshot := make(map[uint32]SliceSpan, len(tbl))
	for k, v := range tbl {
		snapshot[k] = v
	}
	c.mu.Unlock()

	if c.diskDir == "" {
		return nil
	}
	return c.storeDisk(key, sliceCacheEntry{Schema: sliceCacheSchemaVersion, Spans: snapshot})
}

func (c *SliceCache) storeDisk(key string, entry sliceCacheEntry) error {
	p := c.diskPath(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

func (c *SliceCache) loadDisk(key string) (sliceCacheEntry, bool, error) {
	f, err := os.Open(c.diskPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sliceCacheEntry{}, false, nil
		}
		return sliceCacheEntry{}, false, err
	}
	defer f.Close()

	var entry sliceCacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return sliceCacheEntry{}, false, err
	}
	if entry.Schema != sliceCacheSchemaVersion {
		return sliceCacheEntry{}, false, fmt.Errorf("hirtypes: slice cache schema mismatch for %q: got %d, want %d", key, entry.Schema, sliceCacheSchemaVersion)
	}
	return entry, true, nil
}
