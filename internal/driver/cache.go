package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when CheckEntry changes shape; old entries become misses.
const checkCacheSchema uint16 = 1

// CheckCache remembers check outcomes per content hash so unchanged clean
// files skip the reparse on the next run. Safe for concurrent use.
type CheckCache struct {
	mu  sync.RWMutex
	dir string
}

// CheckEntry is the cached outcome for one file content.
type CheckEntry struct {
	Schema   uint16
	Errors   int
	Warnings int
}

// Clean reports whether the cached run produced no diagnostics at all.
// Only clean entries are worth a skip: dirty files reparse so the
// diagnostics render with fresh spans.
func (e CheckEntry) Clean() bool {
	return e.Errors == 0 && e.Warnings == 0
}

// OpenCheckCache initializes the cache under $XDG_CACHE_HOME/<app>, falling
// back to ~/.cache/<app>.
func OpenCheckCache(app string) (*CheckCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CheckCache{dir: dir}, nil
}

func (c *CheckCache) pathFor(key [32]byte) string {
	// Entries live in a "checks" subdirectory so Drop and manual cleanup
	// never touch anything else stored under the app dir.
	return filepath.Join(c.dir, "checks", hex.EncodeToString(key[:])+".mp")
}

// CacheKey mixes the file content hash with the parse options: the flag
// vocabulary, the warning polarity and the diagnostics cap all change what
// a check reports, so each combination gets its own entry.
func (o Options) CacheKey(contentHash [32]byte) [32]byte {
	h := sha256.New()
	h.Write(contentHash[:])
	fmt.Fprintf(h, "|max=%d|warn=%d", o.limit(), o.FlagWarning)
	for _, f := range o.KnownFlags {
		fmt.Fprintf(h, "|flag=%s", f)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// Put writes the entry atomically: encode to a temp file, then rename.
func (c *CheckCache) Put(key [32]byte, entry CheckEntry) error {
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
		// Both are no-ops after a successful rename.
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	entry.Schema = checkCacheSchema
	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key. A missing, corrupt or schema-mismatched
// entry is a miss, never a failure: the cache must not break a run.
func (c *CheckCache) Get(key [32]byte) (CheckEntry, bool, error) {
	if c == nil {
		return CheckEntry{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CheckEntry{}, false, nil
		}
		return CheckEntry{}, false, err
	}
	defer func() { _ = f.Close() }()

	var entry CheckEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return CheckEntry{}, false, nil
	}
	if entry.Schema != checkCacheSchema {
		return CheckEntry{}, false, nil
	}
	return entry, true, nil
}

// Drop removes every cached entry. Used after format changes and by
// the clean command.
func (c *CheckCache) Drop() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// Rename aside first so a concurrent reader never sees a half-removed
	// tree, then delete at leisure.
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
