package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"bracecheck/internal/braces"
	"bracecheck/internal/project"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// DiskCache stores scan results on disk, keyed by file content and scanner options.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskFinding is the cached form of braces.Finding.
type DiskFinding struct {
	Kind   uint8
	Line   uint32
	Col    uint32
	Offset uint32
}

// DiskPayload is what gets written per cache entry.
type DiskPayload struct {
	Schema    uint16
	Columns   string
	Findings  []DiskFinding
	Opens     int
	Closes    int
	Pairs     int
	LastClose int
}

// OpenDiskCache initializes a disk cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
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

// OpenDiskCacheAt initializes a disk cache rooted at dir.
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

// CacheKey derives the entry key for a file hash and scan options.
func CacheKey(contentHash [32]byte, opts braces.Options) project.Digest {
	return project.Combine(project.Digest(contentHash),
		[]byte(opts.Columns.String()),
		[]byte(strconv.FormatBool(opts.LeadingBOM)),
		[]byte(strconv.Itoa(int(diskCacheSchemaVersion))))
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "scans", hexKey[:2], hexKey+".mp")
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
	tmpName := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmpName, p)
}

// Get reads and deserializes a payload from the disk cache.
// Entries written with another schema are reported as misses.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
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
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func resultToPayload(res braces.Result, opts braces.Options) *DiskPayload {
	payload := &DiskPayload{
		Schema:    diskCacheSchemaVersion,
		Columns:   opts.Columns.String(),
		Findings:  make([]DiskFinding, len(res.Findings)),
		Opens:     res.Opens,
		Closes:    res.Closes,
		Pairs:     res.Pairs,
		LastClose: res.LastClose,
	}
	for i, f := range res.Findings {
		payload.Findings[i] = DiskFinding{
			Kind:   uint8(f.Kind),
			Line:   f.Pos.Line,
			Col:    f.Pos.Col,
			Offset: f.Offset,
		}
	}
	return payload
}

func payloadToResult(payload *DiskPayload) braces.Result {
	res := braces.Result{
		Findings:  make([]braces.Finding, len(payload.Findings)),
		Opens:     payload.Opens,
		Closes:    payload.Closes,
		Pairs:     payload.Pairs,
		LastClose: payload.LastClose,
	}
	for i, f := range payload.Findings {
		res.Findings[i] = braces.Finding{
			Kind:   braces.Kind(f.Kind),
			Pos:    braces.Position{Line: f.Line, Col: f.Col},
			Offset: f.Offset,
		}
	}
	return res
}
