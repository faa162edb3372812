package driver

import (
	"dv6/internal/diag"
	"dv6/internal/lines"
	"dv6/internal/source"
)

// SplitResult bundles the logical lines of one file.
type SplitResult struct {
	FileSet *source.FileSet
	File    *source.File
	Lines   []lines.Line
	Bag     *diag.Bag
}

// SplitFile loads one dictionary file and splits it into logical lines
// without lifting a tree. Backs the lines command.
func SplitFile(path string, opts Options) (*SplitResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return splitInto(fs, id, opts), nil
}

// SplitText splits in-memory content under the given name.
func SplitText(name string, content []byte, opts Options) *SplitResult {
	fs := source.NewFileSet()
	content, flags := source.Normalize(content)
	id := fs.Add(name, content, flags|source.FileVirtual)
	return splitInto(fs, id, opts)
}

func splitInto(fs *source.FileSet, id source.FileID, opts Options) *SplitResult {
	file := fs.Get(id)
	bag := diag.NewBag(opts.limit())
	ls := lines.Split(file, lines.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return &SplitResult{FileSet: fs, File: file, Lines: ls, Bag: bag}
}
