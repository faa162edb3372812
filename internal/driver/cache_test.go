package driver

import (
	"crypto/sha256"
	"os"
	"testing"

	"dv6/internal/parser"
)

func openTestCache(t *testing.T) *CheckCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := OpenCheckCache("dv6-test")
	if err != nil {
		t.Fatalf("OpenCheckCache: %v", err)
	}
	return c
}

func TestCheckCachePutGet(t *testing.T) {
	c := openTestCache(t)
	key := sha256.Sum256([]byte("#word\n\tyomi:a\n"))

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("expected a miss before Put, ok=%v err=%v", ok, err)
	}

	if err := c.Put(key, CheckEntry{Errors: 2, Warnings: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected a hit, ok=%v err=%v", ok, err)
	}
	if entry.Errors != 2 || entry.Warnings != 1 {
		t.Fatalf("wrong entry: %+v", entry)
	}
	if entry.Clean() {
		t.Fatalf("entry with diagnostics must not be clean")
	}
	if !(CheckEntry{}).Clean() {
		t.Fatalf("zero entry must be clean")
	}
}

func TestCheckCacheCorruptEntryIsMiss(t *testing.T) {
	c := openTestCache(t)
	key := sha256.Sum256([]byte("x"))

	if err := c.Put(key, CheckEntry{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := os.WriteFile(c.pathFor(key), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("corrupt entry must read as a miss, ok=%v err=%v", ok, err)
	}
}

func TestCheckCacheDrop(t *testing.T) {
	c := openTestCache(t)
	key := sha256.Sum256([]byte("y"))

	if err := c.Put(key, CheckEntry{Warnings: 3}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Drop(); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("expected a miss after Drop, ok=%v err=%v", ok, err)
	}
	// Dropping twice is fine, and a dropped cache accepts new entries.
	if err := c.Drop(); err != nil {
		t.Fatalf("second Drop: %v", err)
	}
	if err := c.Put(key, CheckEntry{}); err != nil {
		t.Fatalf("Put after Drop: %v", err)
	}
}

func TestCheckCacheNilReceiver(t *testing.T) {
	var c *CheckCache
	key := sha256.Sum256([]byte("z"))

	if err := c.Put(key, CheckEntry{}); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("nil Get must miss, ok=%v err=%v", ok, err)
	}
	if err := c.Drop(); err != nil {
		t.Fatalf("nil Drop: %v", err)
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	hash := sha256.Sum256([]byte("content"))

	base := Options{}.CacheKey(hash)
	if again := (Options{}).CacheKey(hash); again != base {
		t.Fatalf("same options must produce the same key")
	}
	if other := (Options{FlagWarning: parser.WarnUnknownFlags}).CacheKey(hash); other == base {
		t.Fatalf("polarity must change the key")
	}
	if other := (Options{KnownFlags: []string{"NOVEL"}}).CacheKey(hash); other == base {
		t.Fatalf("vocabulary must change the key")
	}
	if other := (Options{MaxDiagnostics: 7}).CacheKey(hash); other == base {
		t.Fatalf("diagnostics cap must change the key")
	}
	if other := (Options{}).CacheKey(sha256.Sum256([]byte("other"))); other == base {
		t.Fatalf("content must change the key")
	}
}
