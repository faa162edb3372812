package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dv6/internal/driver"
)

func writeCheckFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCheckCountsAndOrder(t *testing.T) {
	dir := t.TempDir()
	writeCheckFile(t, filepath.Join(dir, "a.dv6"), "#あ\n\tyomi:あ\n")
	writeCheckFile(t, filepath.Join(dir, "b.dv6"), "#broken\n")
	writeCheckFile(t, filepath.Join(dir, "skip.txt"), "not dictionary source\n")

	sum, err := Check(context.Background(), Request{Dir: dir, Jobs: 2})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if sum.Files != 2 || len(sum.Reports) != 2 {
		t.Fatalf("expected 2 files, got files=%d reports=%d", sum.Files, len(sum.Reports))
	}
	if sum.Errors != 1 || sum.Warnings != 0 {
		t.Fatalf("expected 1 error and 0 warnings, got %d/%d", sum.Errors, sum.Warnings)
	}

	clean := sum.Reports[0]
	if clean.Path != filepath.Join(dir, "a.dv6") || clean.Errors != 0 || clean.Result == nil {
		t.Fatalf("unexpected first report: %+v", clean)
	}
	broken := sum.Reports[1]
	if broken.Errors != 1 || broken.Result == nil || !broken.Result.Bag.HasErrors() {
		t.Fatalf("unexpected second report: %+v", broken)
	}

	if !sum.Timings.Has(StageWalk) || !sum.Timings.Has(StageParse) {
		t.Fatalf("expected walk and parse timings to be recorded")
	}
}

func TestCheckCacheSkipsCleanFiles(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := driver.OpenCheckCache("dv6-test")
	if err != nil {
		t.Fatalf("OpenCheckCache: %v", err)
	}

	dir := t.TempDir()
	writeCheckFile(t, filepath.Join(dir, "clean.dv6"), "#あ\n\tyomi:あ\n")
	// flag:SPL warns under the default polarity, so this file is never clean.
	writeCheckFile(t, filepath.Join(dir, "warn.dv6"), "#w\n\tflag:SPL\n")

	first, err := Check(context.Background(), Request{Dir: dir, Cache: cache, Jobs: 1})
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}
	if first.CacheHits != 0 || first.Errors != 0 || first.Warnings != 1 {
		t.Fatalf("unexpected first run: %+v", first)
	}

	second, err := Check(context.Background(), Request{Dir: dir, Cache: cache, Jobs: 1})
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if second.CacheHits != 1 {
		t.Fatalf("expected 1 cache hit, got %d", second.CacheHits)
	}
	if second.Errors != 0 || second.Warnings != 1 {
		t.Fatalf("cache must not change totals: %+v", second)
	}

	hit := second.Reports[0]
	if !hit.CacheHit || hit.Result != nil {
		t.Fatalf("expected clean.dv6 served from cache: %+v", hit)
	}
	reparsed := second.Reports[1]
	if reparsed.CacheHit || reparsed.Result == nil {
		t.Fatalf("expected warn.dv6 reparsed: %+v", reparsed)
	}
}

func TestCheckEmitsEvents(t *testing.T) {
	dir := t.TempDir()
	writeCheckFile(t, filepath.Join(dir, "a.dv6"), "#あ\n\tyomi:あ\n")
	writeCheckFile(t, filepath.Join(dir, "b.dv6"), "#broken\n")

	ch := make(chan Event, 64)
	_, err := Check(context.Background(), Request{Dir: dir, Jobs: 1, Progress: ChannelSink{Ch: ch}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	close(ch)

	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	if len(events) < 6 {
		t.Fatalf("expected at least 6 events, got %d: %+v", len(events), events)
	}
	if events[0].Stage != StageWalk || events[0].Status != StatusWorking || events[0].File != "" {
		t.Fatalf("expected run-level walk event first, got %+v", events[0])
	}

	queued := 0
	terminal := map[string]Status{}
	for _, ev := range events {
		if ev.File == "" {
			continue
		}
		switch ev.Status {
		case StatusQueued:
			queued++
		case StatusDone, StatusError:
			terminal[ev.File] = ev.Status
		}
	}
	if queued != 2 {
		t.Fatalf("expected 2 queued events, got %d", queued)
	}
	if terminal[filepath.Join(dir, "a.dv6")] != StatusDone {
		t.Fatalf("expected a.dv6 done, got %v", terminal)
	}
	if terminal[filepath.Join(dir, "b.dv6")] != StatusError {
		t.Fatalf("expected b.dv6 error, got %v", terminal)
	}
}

func TestCheckReportsReadFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling.dv6")); err != nil {
		t.Skipf("symlink unavailable: %v", err)
	}

	sum, err := Check(context.Background(), Request{Dir: dir, Jobs: 1})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if sum.Errors != 1 || len(sum.Reports) != 1 {
		t.Fatalf("expected the read failure to count as one error: %+v", sum)
	}
	r := sum.Reports[0]
	if r.Err == nil || r.Result != nil || r.Errors != 1 {
		t.Fatalf("unexpected report: %+v", r)
	}
}

func TestCheckCancelled(t *testing.T) {
	dir := t.TempDir()
	writeCheckFile(t, filepath.Join(dir, "a.dv6"), "#あ\n\tyomi:あ\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Check(ctx, Request{Dir: dir, Jobs: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
