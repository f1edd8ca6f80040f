package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"brook/internal/diag"
	"brook/internal/ir"
	"brook/internal/source"
	"brook/internal/trace"
)

const (
	SourceExt = ".bk"
	ObjectExt = ".bkc"
)

// BuildRequest describes a multi-file build.
type BuildRequest struct {
	Files          []string
	BaseDir        string // outputs mirror the layout below BaseDir
	OutDir         string // "" writes each container next to its source
	Jobs           int    // <= 0 means GOMAXPROCS
	Cache          *Cache // nil disables caching
	MaxDiagnostics int
	Options
}

// FileResult is the outcome for one source.
type FileResult struct {
	Path    string
	Output  string
	Object  *ir.Object // nil for cache hits and failures
	Cached  bool
	Err     error
	Elapsed time.Duration
}

type BuildResult struct {
	FileSet *source.FileSet
	Files   []FileResult // in request order
	Bag     *diag.Bag
}

// Failed counts files that did not produce a container.
func (r *BuildResult) Failed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err != nil {
			n++
		}
	}
	return n
}

// Build compiles every file of req independently. A failing file is recorded
// in its FileResult and in Bag; the other files still build. The returned
// error is reserved for cancellation.
func Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	tr := trace.FromContext(ctx)
	ctx, sp := trace.Start(ctx, trace.ScopeDriver, "build")
	defer sp.WithExtra("files", fmt.Sprint(len(req.Files))).End("")

	res := &BuildResult{
		FileSet: source.NewFileSet(),
		Files:   make([]FileResult, len(req.Files)),
		Bag:     diag.NewBag(req.MaxDiagnostics),
	}
	rep := diag.BagReporter{Bag: res.Bag}

	// FileSet не потокобезопасен на запись: грузим всё заранее
	files := make([]*source.File, len(req.Files))
	for i, path := range req.Files {
		res.Files[i] = FileResult{Path: path, Output: OutputPath(path, req.BaseDir, req.OutDir)}
		emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := res.FileSet.Load(path)
		if err != nil {
			res.Files[i].Err = err
			rep.Report(diag.Diagnostic{Severity: diag.SevError, Code: diag.IOLoadFileError, Message: err.Error(), Path: path})
			emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		files[i] = res.FileSet.Get(id)
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(req.Files))))

	for i, file := range files {
		if file == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// результаты пишутся по уникальному индексу, мьютекс не нужен
			r := &res.Files[i]
			start := time.Now()
			buildOne(gctx, file, r, req, rep)
			r.Elapsed = time.Since(start)
			if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
				return r.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		trace.Fail(tr, "build", err, sp.ID())
		return res, err
	}
	if err := req.Cache.Save(); err != nil {
		trace.Fail(tr, "cache", err, sp.ID())
	}
	return res, nil
}

func buildOne(ctx context.Context, file *source.File, r *FileResult, req BuildRequest, rep diag.Reporter) {
	ctx, sp := trace.Start(ctx, trace.ScopeModule, "file:"+file.Path)
	start := time.Now()

	if out, ok := req.Cache.Lookup(file.Path, file.Hash); ok && out == r.Output {
		r.Cached = true
		sp.End("cached")
		emit(req.Progress, Event{File: file.Path, Status: StatusCached})
		return
	}

	unit, err := Compile(ctx, file, req.Options)
	if err == nil {
		err = runStage(ctx, file.Path, StageWrite, req.Options, func() error {
			return writeAtomic(r.Output, unit.Encoded)
		})
	}
	if err != nil {
		r.Err = err
		req.Cache.Forget(file.Path)
		diag.ReportError(rep, file.Path, err)
		sp.End("error")
		return
	}
	r.Object = unit.Object
	req.Cache.Store(file.Path, file.Hash, r.Output, int64(len(unit.Encoded)))
	sp.End("ok")
	emit(req.Progress, Event{File: file.Path, Status: StatusDone, Elapsed: time.Since(start)})
}

// OutputPath maps a source path to its container path.
func OutputPath(src, baseDir, outDir string) string {
	stem := strings.TrimSuffix(src, SourceExt)
	if outDir == "" {
		return stem + ObjectExt
	}
	rel := filepath.Base(stem)
	if baseDir != "" {
		if r, err := filepath.Rel(baseDir, stem); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return filepath.Join(outDir, rel+ObjectExt)
}

// ExpandSources turns manifest or command-line entries into a sorted,
// de-duplicated list of source files. An entry is a file, a directory
// (walked for *.bk) or a glob pattern, relative entries resolved against base.
func ExpandSources(base string, entries []string) ([]string, error) {
	var out []string
	for _, entry := range entries {
		p := entry
		if base != "" && !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		if strings.ContainsAny(entry, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("bad source pattern %q: %w", entry, err)
			}
			out = append(out, matches...)
			continue
		}
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
