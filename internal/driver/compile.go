package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"brook/internal/ast"
	"brook/internal/builtins"
	"brook/internal/ir"
	"brook/internal/irfile"
	"brook/internal/irgen"
	"brook/internal/lexer"
	"brook/internal/observ"
	"brook/internal/parser"
	"brook/internal/source"
	"brook/internal/trace"
)

// Options configure a compilation.
type Options struct {
	Registry builtins.Registry // nil means builtins.Standard()
	Timer    *observ.Timer     // optional --timings collector
	Progress ProgressSink      // optional
}

// Unit is the result of compiling one source file.
type Unit struct {
	File    *source.File
	Builder *ast.Builder
	AST     ast.FileID
	Object  *ir.Object
	Encoded []byte
}

// Compile runs parse, generate and encode over file. The first *diag.Error
// of any stage is returned unchanged; the unit holds whatever stages finished.
func Compile(ctx context.Context, file *source.File, opts Options) (*Unit, error) {
	u := &Unit{File: file}

	err := runStage(ctx, file.Path, StageParse, opts, func() error {
		u.Builder = ast.NewBuilder(ast.Hints{})
		id, err := parser.ParseFile(lexer.New(file), u.Builder)
		u.AST = id
		return err
	})
	if err != nil {
		return u, err
	}

	err = runStage(ctx, file.Path, StageGenerate, opts, func() error {
		obj, err := irgen.Generate(u.Builder, u.AST, file, irgen.Options{Registry: opts.Registry})
		u.Object = obj
		return err
	})
	if err != nil {
		return u, err
	}

	err = runStage(ctx, file.Path, StageEncode, opts, func() error {
		data, err := irfile.Encode(u.Object)
		u.Encoded = data
		return err
	})
	return u, err
}

// CompileSource compiles an in-memory buffer registered as a virtual file.
func CompileSource(ctx context.Context, name string, src []byte, opts Options) (*Unit, error) {
	fs := source.NewFileSet()
	return Compile(ctx, fs.Get(fs.AddVirtual(name, src)), opts)
}

// runStage wraps one pipeline step with a pass span, a timer phase and progress events.
func runStage(ctx context.Context, path string, stage Stage, opts Options, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tr := trace.FromContext(ctx)
	sp := trace.Begin(tr, trace.ScopePass, string(stage), trace.CurrentSpan(ctx))
	idx := opts.Timer.Begin(string(stage))
	emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusWorking})

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	note := path
	if err != nil {
		note = fmt.Sprintf("%s: failed", path)
		trace.Fail(tr, string(stage), err, sp.ID())
	}
	opts.Timer.End(idx, note)
	sp.WithExtra("file", path).WithExtra("us", strconv.FormatInt(elapsed.Microseconds(), 10)).End(statusOf(err))
	if err != nil {
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: elapsed})
	}
	return err
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
