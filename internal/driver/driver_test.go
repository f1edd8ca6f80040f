package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"brook/internal/diag"
	"brook/internal/ir"
	"brook/internal/irfile"
	"brook/internal/observ"
	"brook/internal/token"
	"brook/internal/trace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestCompileSource(t *testing.T) {
	unit, err := CompileSource(context.Background(), "t.bk", []byte("let x = 1;\nprint(x + 2);\n"), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if unit.Object == nil || len(unit.Object.Externs) != 1 || unit.Object.Externs[0].Name != "print" {
		t.Fatalf("object = %+v", unit.Object)
	}
	back, err := irfile.Decode(unit.Encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(back, unit.Object) {
		t.Fatal("encoded container does not match the object")
	}
}

func TestCompileStopsAtFirstError(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"lex", "let a = 1 @ 2;", diag.LexBadToken},
		{"syntax", "let = 1;", diag.SynExpected},
		{"semantic", "print(y);", diag.SemaUndeclaredVariable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := CompileSource(context.Background(), "t.bk", []byte(tt.src), Options{})
			de, ok := diag.AsError(err)
			if !ok {
				t.Fatalf("error %v is not a *diag.Error", err)
			}
			if de.Code != tt.code {
				t.Fatalf("code = %s, want %s", de.Code.ID(), tt.code.ID())
			}
			if unit.Encoded != nil {
				t.Fatal("failed unit must not be encoded")
			}
		})
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompileSource(ctx, "t.bk", []byte("print(1);"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestCompileTimingsAndTrace(t *testing.T) {
	var buf bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatText))
	timer := observ.NewTimer()
	if _, err := CompileSource(ctx, "t.bk", []byte("print(1);"), Options{Timer: timer}); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	if strings.Join(names, ",") != "parse,generate,encode" {
		t.Fatalf("phases = %v", names)
	}
	for _, want := range []string{"→ parse", "← generate (ok)", "← encode (ok)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("trace missing %q:\n%s", want, buf.String())
		}
	}
}

func TestTokenizeRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.bk")
	writeFile(t, path, "let $ x")
	res, err := Tokenize(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	var kinds []token.Kind
	for _, tok := range res.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.KwLet, token.Invalid, token.Ident}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexBadToken || items[0].Col != 5 {
		t.Fatalf("diagnostics = %+v", items)
	}

	if _, err := Tokenize(filepath.Join(t.TempDir(), "missing.bk"), 10); err == nil {
		t.Fatal("missing file must fail")
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) statuses(file string) []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Status
	for _, ev := range r.events {
		if ev.File == file && ev.Status != StatusWorking {
			out = append(out, ev.Status)
		}
	}
	return out
}

func TestBuildWithCache(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "src", "a.bk")
	bad := filepath.Join(dir, "src", "b.bk")
	nested := filepath.Join(dir, "src", "sub", "c.bk")
	writeFile(t, good, "let x = 2;\nprint(x * 3);\n")
	writeFile(t, bad, "let y = ;\n")
	writeFile(t, nested, "loop { break; }\n")

	files, err := ExpandSources(dir, []string{"src"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("sources = %v", files)
	}

	cache, err := OpenCache(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	req := BuildRequest{
		Files:   files,
		BaseDir: filepath.Join(dir, "src"),
		OutDir:  filepath.Join(dir, "out"),
		Jobs:    2,
		Cache:   cache,
		Options: Options{Progress: rec},
	}
	res, err := Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() != 1 || !res.Bag.HasErrors() || res.Bag.Len() != 1 {
		t.Fatalf("failed = %d, diagnostics = %+v", res.Failed(), res.Bag.Items())
	}
	for _, fr := range res.Files {
		_, statErr := os.Stat(fr.Output)
		if (fr.Err == nil) != (statErr == nil) {
			t.Errorf("%s: err = %v, output stat = %v", fr.Path, fr.Err, statErr)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "sub", "c.bkc")); err != nil {
		t.Fatalf("nested output: %v", err)
	}
	if got := rec.statuses(good); len(got) != 2 || got[0] != StatusQueued || got[1] != StatusDone {
		t.Fatalf("events for a.bk = %v", got)
	}
	if got := rec.statuses(bad); got[len(got)-1] != StatusError {
		t.Fatalf("events for b.bk = %v", got)
	}

	// второй прогон с новым индексом с диска
	cache, err = OpenCache(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	req.Cache = cache
	req.Progress = nil
	res, err = Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	cached := map[string]bool{}
	for _, fr := range res.Files {
		cached[fr.Path] = fr.Cached
	}
	if !cached[good] || !cached[nested] || cached[bad] {
		t.Fatalf("cached = %v", cached)
	}

	writeFile(t, good, "print(7);\n")
	res, err = Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Files[0].Path != good || res.Files[0].Cached || res.Files[0].Object == nil {
		t.Fatalf("changed source must be rebuilt: %+v", res.Files[0])
	}
}

func TestBuildMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.bk")
	res, err := Build(context.Background(), BuildRequest{Files: []string{missing}})
	if err != nil {
		t.Fatal(err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Fatalf("diagnostics = %+v", items)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		src, base, out, want string
	}{
		{"a/b.bk", "", "", "a/b.bkc"},
		{"/p/src/x/y.bk", "/p/src", "/p/out", "/p/out/x/y.bkc"},
		{"/elsewhere/y.bk", "/p/src", "/p/out", "/p/out/y.bkc"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.src, tt.base, tt.out); got != filepath.FromSlash(tt.want) {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestLoadObject(t *testing.T) {
	dir := t.TempDir()
	unit, err := CompileSource(context.Background(), "t.bk", []byte("print(1);"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.bkc")
	if err := os.WriteFile(good, unit.Encoded, 0o600); err != nil {
		t.Fatal(err)
	}
	obj, err := LoadObject(good, nil)
	if err != nil || !ir.Equal(obj, unit.Object) {
		t.Fatalf("LoadObject = %v", err)
	}

	badPath := filepath.Join(dir, "bad.bkc")
	if err := os.WriteFile(badPath, []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(4)
	if _, err := LoadObject(badPath, diag.BagReporter{Bag: bag}); err == nil {
		t.Fatal("garbage must not load")
	}
	if items := bag.Items(); len(items) != 1 || items[0].Code != diag.ObjBadMagic {
		t.Fatalf("diagnostics = %+v", items)
	}
	if ObjectCode(os.ErrNotExist) != diag.IOLoadFileError {
		t.Fatal("plain I/O errors map to IOLoadFileError")
	}
}

func TestBuildTestdataPrograms(t *testing.T) {
	files, err := ExpandSources(filepath.Join("..", "..", "testdata", "programs"), []string{"."})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("no sample programs")
	}
	out := t.TempDir()
	res, err := Build(context.Background(), BuildRequest{Files: files, OutDir: out, Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() != 0 {
		for _, fr := range res.Files {
			if fr.Err != nil {
				t.Errorf("%s: %v", fr.Path, fr.Err)
			}
		}
		t.FailNow()
	}
	for _, fr := range res.Files {
		obj, err := irfile.ReadFile(fr.Output)
		if err != nil {
			t.Fatalf("%s: %v", fr.Output, err)
		}
		if err := ir.Validate(obj); err != nil {
			t.Errorf("%s: %v", fr.Path, err)
		}
	}
}
