package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"dv6/internal/ast"
	"dv6/internal/diag"
	"dv6/internal/parser"
	"dv6/internal/source"
	"dv6/internal/trace"
)

// DirResult is the parse outcome for one file of a directory run.
// Doc is nil when the file failed to load; the load error lives in Bag.
type DirResult struct {
	Path string
	File *source.File
	Doc  *ast.Document
	Bag  *diag.Bag
}

// ListFiles returns every *.dv6 file under dir, sorted so output order is
// deterministic. The check pipeline shares this walk.
func ListFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".dv6") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ParseDir parses every *.dv6 file under dir in parallel. Results come back
// in ListFiles order no matter which goroutine finished first.
func ParseDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []DirResult, error) {
	tr := trace.FromContext(ctx)

	files, err := ListFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	stage := trace.Begin(tr, trace.ScopeStage, "parse "+dir, 0)

	// Loading stays serial: FileSet is not safe for concurrent writes, and
	// the parse work dwarfs the IO anyway.
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns exactly one slot, so no mutex around results.
	results := make([]DirResult, len(files))

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

			bag := diag.NewBag(opts.limit())

			if loadErr, failed := loadErrors[path]; failed {
				trace.Point(tr, trace.ScopeFile, path, "load failed", stage.ID())
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{},
				})
				results[i] = DirResult{Path: path, Bag: bag}
				return nil
			}

			span := trace.Begin(tr, trace.ScopeFile, path, stage.ID())
			file := fileSet.Get(fileIDs[path])
			doc := parser.Parse(file, opts.parserOptions(bag))
			span.End(fmt.Sprintf("%d error(s), %d warning(s)", len(bag.Errors()), len(bag.Warnings())))
			results[i] = DirResult{Path: path, File: file, Doc: doc, Bag: bag}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		stage.End(err.Error())
		return fileSet, results, err
	}
	stage.End(fmt.Sprintf("%d file(s)", len(files)))
	return fileSet, results, nil
}
