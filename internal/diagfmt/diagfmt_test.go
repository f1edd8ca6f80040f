package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"brook/internal/ast"
	"brook/internal/diag"
	"brook/internal/lexer"
	"brook/internal/parser"
	"brook/internal/source"
)

func errorAt(t *testing.T, src string, start, end uint32, code diag.Code, msg string) *diag.Error {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.bk", []byte(src)))
	return diag.NewError(f, code, source.Span{File: f.ID, Start: start, End: end}, msg)
}

func TestErrorCaretAlignment(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		start, end uint32
		want       string
	}{
		{
			name:  "non-ascii identifier",
			src:   "let é = 1 +;\n",
			start: 12, end: 13,
			want: "error[SYN2003]: expected statement\n" +
				"  --> t.bk:1:12\n" +
				"  |\n" +
				"1 | let é = 1 +;\n" +
				"  |            ^\n",
		},
		{
			name:  "wide rune",
			src:   "let 变 = ;",
			start: 10, end: 11,
			want: "error[SYN2003]: expected statement\n" +
				"  --> t.bk:1:9\n" +
				"  |\n" +
				"1 | let 变 = ;\n" +
				"  |          ^\n",
		},
		{
			name:  "multi byte span",
			src:   "x = foo(1);",
			start: 4, end: 7,
			want: "error[SYN2003]: expected statement\n" +
				"  --> t.bk:1:5\n" +
				"  |\n" +
				"1 | x = foo(1);\n" +
				"  |     ^~~\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := errorAt(t, tt.src, tt.start, tt.end, diag.SynExpectStatement, "expected statement")
			var buf bytes.Buffer
			Error(&buf, e, PrettyOpts{})
			if buf.String() != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestErrorHintAndColor(t *testing.T) {
	e := errorAt(t, "let x = 1\n", 9, 9, diag.SynExpectSemicolon, "expected `;`").WithHint("add `;`", "let x = 1;")
	var plain, colored bytes.Buffer
	Error(&plain, e, PrettyOpts{})
	Error(&colored, e, PrettyOpts{Color: true})
	if !strings.Contains(plain.String(), "  = hint: add `;`\n  = try: let x = 1;\n") {
		t.Fatalf("missing hint:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatal("plain output has escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatal("colored output has no escape codes")
	}
}

func TestPrettyBag(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("/work/src/a.bk", []byte("1 +\n")))
	e := diag.NewError(f, diag.SynExpected, source.Span{File: f.ID, Start: 3, End: 3}, "expected expression")

	bag := diag.NewBag(10)
	bag.Add(e.Diagnostic())
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.IOLoadFileError, Message: "no such file", Path: "/work/src/b.bk"})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{BaseDir: "/work"})
	out := buf.String()
	for _, want := range []string{
		"error[SYN2002]: expected expression\n  --> src/a.bk:1:4\n",
		"1 | 1 +\n",
		"error[IO5001]: no such file\n  --> src/b.bk\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	Summary(&buf, 2, PrettyOpts{})
	if buf.String() != "error: aborting due to 2 errors\n" {
		t.Errorf("summary = %q", buf.String())
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.bk", []byte("let x\n= 1;")))
	toks, err := lexer.New(f).All()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 || !strings.Contains(lines[2], `"=" at 2:1-2:2`) {
		t.Fatalf("pretty tokens:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 5 || out[3].Text != "1" || out[3].Line != 2 || out[3].Col != 3 {
		t.Fatalf("json tokens = %+v", out)
	}
}

func parse(t *testing.T, src string) (*ast.Builder, ast.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.bk", []byte(src)))
	b := ast.NewBuilder(ast.Hints{})
	id, err := parser.ParseFile(lexer.New(f), b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return b, id
}

func TestFormatASTPretty(t *testing.T) {
	b, id := parse(t, "let x = 1 + 2;\nif (x) { print(x); }")
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, b, id, nil); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	prefixes := []string{
		"File (span(",
		"├─ LetStmt x (",
		"│  └─ value: Binary + (",
		"│     ├─ Lit 1 (",
		"│     └─ Lit 2 (",
		"└─ IfStmt (",
		"   └─ If (",
		"      ├─ cond: Ident x (",
		"      └─ then: Block (",
		"         └─ ExprStmt; (",
		"            └─ Call print (",
		"               └─ Ident x (",
	}
	if len(lines) != len(prefixes) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i, p := range prefixes {
		if !strings.HasPrefix(lines[i], p) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], p)
		}
	}
}

func TestFormatASTJSON(t *testing.T) {
	b, id := parse(t, "let y: i8 = -(3);")
	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, b, id); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	let := root.Children[0]
	if let.Kind != "Let" || let.Fields["name"] != "y" || let.Fields["type"] != "i8" {
		t.Fatalf("let = %+v", let)
	}
	un := let.Children[0]
	if un.Kind != "Unary" || un.Fields["op"] != "-" || un.Children[0].Kind != "Group" {
		t.Fatalf("unary = %+v", un)
	}
	if lit := un.Children[0].Children[0]; lit.Fields["value"] != "3" {
		t.Fatalf("literal = %+v", lit)
	}
}

func TestDisplayPath(t *testing.T) {
	tests := []struct {
		path string
		mode PathMode
		base string
		want string
	}{
		{"", PathModeAuto, "", "<input>"},
		{"/a/b/c.bk", PathModeAuto, "/a", "b/c.bk"},
		{"/x/c.bk", PathModeAuto, "/a", "/x/c.bk"},
		{"rel/c.bk", PathModeAuto, "/a", "rel/c.bk"},
		{"/a/b/c.bk", PathModeBasename, "", "c.bk"},
	}
	for _, tt := range tests {
		if got := displayPath(tt.path, tt.mode, tt.base); got != tt.want {
			t.Errorf("displayPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
