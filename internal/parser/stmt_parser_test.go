package parser

import (
	"strings"
	"testing"

	"brook/internal/ast"
	"brook/internal/diag"
)

func TestBlockTail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tail value", "{ 1 }", "{tail 1}"},
		{"statement only", "{ 1; }", "{1;}"},
		{"if as tail", "{ if (0) {1} else {2} }", "{tail if 0 {tail 1} else {tail 2}}"},
		{"let then tail", "{ let x = 1; x }", "{let x = 1; tail x}"},
		{"return inside", "{ return 1; }", "{return 1;}"},
		{"block-like statement without semicolon", "{ if (a) {b;} c }", "{if a {b;} tail c}"},
		{"block-like statement with semicolon", "{ loop {break;}; 2 }", "{loop {break;}; tail 2}"},
		{"empty", "{}", "{}"},
		{"noop", "{ ; }", "{;}"},
		{"nested", "{ { 1 } }", "{tail {tail 1}}"},
		{"assignment tail", "{ x = 3 }", "{tail x = 3}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, f := parseSource(t, tt.input)
			if len(f.Stmts) != 1 {
				t.Fatalf("got %d top-level statements", len(f.Stmts))
			}
			if got := renderStmt(b, f.Stmts[0]); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			if b.Stmts.Get(f.Stmts[0]).Kind != ast.StmtBlock {
				t.Errorf("top-level block must be a block statement")
			}
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"let x;", "let x;"},
		{"let x: i32;", "let x: i32;"},
		{"let x: i8 = 5;", "let x: i8 = 5;"},
		{"let x = f(1);", "let x = f(1);"},
		{"return ();", "return ();"},
		{"while (x < 10) { x = x + 1; }", "while (x < 10) {x = (x + 1);}"},
		{"loop { break; continue; }", "loop {break; continue;}"},
		{"if (x) y = 1;", "if x y = 1;"},
		{"if (x) {1} else if (y) {2} else {3}", "if x {tail 1} else if y {tail 2} else {tail 3}"},
		{";;", "; ;"},
	}
	for _, tt := range tests {
		b, f := parseSource(t, tt.input)
		if got := renderFile(b, f); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestStatementKinds(t *testing.T) {
	b, f := parseSource(t, "if (1) {} while (1) {} loop {} {} 1;")
	want := []ast.StmtKind{ast.StmtIf, ast.StmtWhile, ast.StmtLoop, ast.StmtBlock, ast.StmtExpr}
	if len(f.Stmts) != len(want) {
		t.Fatalf("got %d statements", len(f.Stmts))
	}
	for i, id := range f.Stmts {
		if got := b.Stmts.Get(id).Kind; got != want[i] {
			t.Errorf("stmt %d: got %s, want %s", i, got, want[i])
		}
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		line  uint32
		col   uint32
	}{
		{"empty input", "", diag.SynExpectStatement, 1, 1},
		{"only comments", "// nothing\n", diag.SynExpectStatement, 2, 1},
		{"missing semicolon", "let x = 1", diag.SynExpected, 1, 10},
		{"return without value", "return;", diag.SynExpected, 1, 7},
		{"break without semicolon", "break }", diag.SynExpected, 1, 7},
		{"let without name", "let = 1;", diag.SynExpected, 1, 5},
		{"unclosed block", "{ 1;", diag.SynExpected, 1, 5},
		{"stray brace", "}", diag.SynExpectStatement, 1, 1},
		{"bad statement in block", "{\n  let 1;\n}", diag.SynExpected, 2, 7},
		{"missing semicolon in block", "{ 1 2 }", diag.SynExpectSemicolon, 1, 5},
		{"if without paren", "if x {}", diag.SynExpected, 1, 4},
		{"unterminated comment", "1; /*", diag.LexUnterminatedBlockComment, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := parseError(t, tt.input)
			if de.Code != tt.code || de.Line != tt.line || de.Col != tt.col {
				t.Errorf("got %s at %d:%d (%s), want %s at %d:%d",
					de.Code, de.Line, de.Col, de.Message, tt.code, tt.line, tt.col)
			}
		})
	}
}

// Каждый уровень `1 + { ... }` разбирается один раз; при повторном разборе
// глубина 60 не уложилась бы в тест.
func TestDeeplyNestedBlockTails(t *testing.T) {
	const depth = 60
	var sb strings.Builder
	for range depth {
		sb.WriteString("{ 1 + ")
	}
	sb.WriteString("2")
	for range depth {
		sb.WriteString(" }")
	}
	src := sb.String()

	_, f := parseSource(t, src+";")
	if len(f.Stmts) != 1 {
		t.Fatalf("got %d statements", len(f.Stmts))
	}

	// без `;` перед `}` ошибка та же, что и без вложенности
	de := parseError(t, "{ "+strings.Replace(src, "2", "2 3", 1)+" }")
	if de.Code != diag.SynExpectSemicolon {
		t.Fatalf("got %s (%s), want SynExpectSemicolon", de.Code, de.Message)
	}
}
