package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"dv6/internal/driver"
	"dv6/internal/source"
	"dv6/internal/trace"
)

// Request configures one check run over a dictionary directory.
type Request struct {
	Dir      string
	Options  driver.Options
	Jobs     int
	Cache    *driver.CheckCache // nil runs without the cache
	Progress ProgressSink       // nil runs silently
}

// FileReport is the outcome for one file of the run.
type FileReport struct {
	Path     string
	Result   *driver.ParseResult // nil on a cache hit or read failure
	Err      error               // set when the file could not be read
	CacheHit bool
	Errors   int
	Warnings int
	Elapsed  time.Duration
}

// Summary aggregates a whole run. A read failure counts as one error so
// exit codes treat it like a broken file.
type Summary struct {
	Reports   []FileReport
	Files     int
	Errors    int
	Warnings  int
	CacheHits int
	Timings   Timings
}

// Check walks dir, parses every dictionary file in parallel and aggregates
// the outcome. Unchanged files whose previous run was clean are served from
// the cache without a reparse.
func Check(ctx context.Context, req Request) (*Summary, error) {
	tr := trace.FromContext(ctx)
	run := trace.Begin(tr, trace.ScopeRun, "check "+req.Dir, 0)

	sum := &Summary{}

	walkStart := time.Now()
	emit(req.Progress, Event{Stage: StageWalk, Status: StatusWorking})
	walk := trace.Begin(tr, trace.ScopeStage, "walk", run.ID())
	files, err := driver.ListFiles(req.Dir)
	if err != nil {
		walk.End(err.Error())
		run.End("walk failed")
		emit(req.Progress, Event{Stage: StageWalk, Status: StatusError, Err: err})
		return nil, err
	}
	walkElapsed := time.Since(walkStart)
	sum.Timings.Set(StageWalk, walkElapsed)
	walk.End(fmt.Sprintf("%d file(s)", len(files)))
	emit(req.Progress, Event{Stage: StageWalk, Status: StatusDone, Elapsed: walkElapsed})

	sum.Files = len(files)
	if len(files) == 0 {
		run.End("no files")
		return sum, nil
	}

	for _, path := range files {
		emit(req.Progress, Event{File: path, Stage: StageParse, Status: StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns exactly one slot, so no mutex around reports.
	reports := make([]FileReport, len(files))

	parseStart := time.Now()
	parse := trace.Begin(tr, trace.ScopeStage, "parse", run.ID())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			reports[i] = req.checkOne(path, tr, parse.ID())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		parse.End(err.Error())
		run.End("canceled")
		return nil, err
	}
	sum.Timings.Set(StageParse, time.Since(parseStart))

	sum.Reports = reports
	for _, r := range reports {
		sum.Errors += r.Errors
		sum.Warnings += r.Warnings
		if r.CacheHit {
			sum.CacheHits++
		}
	}
	parse.End(fmt.Sprintf("%d file(s)", len(files)))
	run.End(fmt.Sprintf("%d error(s), %d warning(s)", sum.Errors, sum.Warnings))
	return sum, nil
}

// checkOne reads, cache-probes and parses a single file, emitting progress
// events along the way.
func (req Request) checkOne(path string, tr trace.Tracer, parent uint64) FileReport {
	start := time.Now()

	content, err := os.ReadFile(path)
	if err != nil {
		trace.Point(tr, trace.ScopeFile, path, "read failed", parent)
		elapsed := time.Since(start)
		emit(req.Progress, Event{File: path, Stage: StageParse, Status: StatusError, Err: err, Elapsed: elapsed})
		return FileReport{Path: path, Err: err, Errors: 1, Elapsed: elapsed}
	}

	// The hash must match what Load would compute, so normalize first.
	normalized, _ := source.Normalize(content)
	key := req.Options.CacheKey(sha256.Sum256(normalized))

	if req.Cache != nil {
		if entry, ok, _ := req.Cache.Get(key); ok && entry.Clean() {
			trace.Point(tr, trace.ScopeFile, path, "cache hit", parent)
			elapsed := time.Since(start)
			emit(req.Progress, Event{File: path, Stage: StageCache, Status: StatusDone, Elapsed: elapsed})
			return FileReport{Path: path, CacheHit: true, Elapsed: elapsed}
		}
	}

	span := trace.Begin(tr, trace.ScopeFile, path, parent)
	emit(req.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	res := driver.ParseBytes(path, normalized, req.Options)

	errs := len(res.Bag.Errors())
	warns := len(res.Bag.Warnings())
	if req.Cache != nil {
		// Best effort: a failed Put only costs the next run a reparse.
		_ = req.Cache.Put(key, driver.CheckEntry{Errors: errs, Warnings: warns})
	}
	span.End(fmt.Sprintf("%d error(s), %d warning(s)", errs, warns))

	elapsed := time.Since(start)
	status := StatusDone
	if errs > 0 {
		status = StatusError
	}
	emit(req.Progress, Event{File: path, Stage: StageParse, Status: status, Elapsed: elapsed})

	return FileReport{Path: path, Result: res, Errors: errs, Warnings: warns, Elapsed: elapsed}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
