package lexer_test

import (
	"strings"
	"testing"

	"brook/internal/diag"
	"brook/internal/lexer"
	"brook/internal/source"
	"brook/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *source.File) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bk", []byte(input))
	file := fs.Get(id)
	return lexer.New(file), file
}

func collectKinds(t *testing.T, input string) []token.Kind {
	t.Helper()
	lx, _ := makeTestLexer(input)
	toks, err := lx.All()
	if err != nil {
		t.Fatalf("unexpected error for %q: %v", input, err)
	}
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func equalKinds(a, b []token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLexer_Basic(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"", nil},
		{"let x: i32 = 1;", []token.Kind{token.KwLet, token.Ident, token.Colon, token.Ident, token.Assign, token.IntLit, token.Semicolon}},
		{"if (a) { b } else { c }", []token.Kind{token.KwIf, token.LParen, token.Ident, token.RParen, token.LBrace, token.Ident, token.RBrace, token.KwElse, token.LBrace, token.Ident, token.RBrace}},
		{"while loop return break continue", []token.Kind{token.KwWhile, token.KwLoop, token.KwReturn, token.KwBreak, token.KwContinue}},
		{"f(a, b)", []token.Kind{token.Ident, token.LParen, token.Ident, token.Comma, token.Ident, token.RParen}},
		{"a+b-c*d/e", []token.Kind{token.Ident, token.Plus, token.Ident, token.Minus, token.Ident, token.Star, token.Ident, token.Slash, token.Ident}},
		{"Let IF", []token.Kind{token.Ident, token.Ident}},
	}
	for _, tt := range tests {
		got := collectKinds(t, tt.input)
		if !equalKinds(got, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLexer_TwoCharOpsAreGreedy(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"==", []token.Kind{token.EqEq}},
		{"!=", []token.Kind{token.BangEq}},
		{">= <=", []token.Kind{token.GtEq, token.LtEq}},
		{"<< >>", []token.Kind{token.Shl, token.Shr}},
		{"===", []token.Kind{token.EqEq, token.Assign}},
		{"<<=", []token.Kind{token.Shl, token.Assign}},
		{"< <", []token.Kind{token.Lt, token.Lt}},
		{"a>b", []token.Kind{token.Ident, token.Gt, token.Ident}},
	}
	for _, tt := range tests {
		got := collectKinds(t, tt.input)
		if !equalKinds(got, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLexer_IntegerLiterals(t *testing.T) {
	tests := []struct {
		input string
		text  []string
	}{
		{"0", []string{"0"}},
		{"123", []string{"123"}},
		{"0x1F", []string{"0x1F"}},
		{"0b101", []string{"0b101"}},
		{"170141183460469231731687303715884105727", []string{"170141183460469231731687303715884105727"}},
		{"1 2", []string{"1", "2"}},
	}
	for _, tt := range tests {
		lx, _ := makeTestLexer(tt.input)
		toks, err := lx.All()
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.input, err)
		}
		if len(toks) != len(tt.text) {
			t.Fatalf("%q: got %d tokens, want %d", tt.input, len(toks), len(tt.text))
		}
		for i, tok := range toks {
			if tok.Kind != token.IntLit || tok.Text != tt.text[i] {
				t.Errorf("%q: token %d = %v %q, want IntLit %q", tt.input, i, tok.Kind, tok.Text, tt.text[i])
			}
		}
	}
}

func TestLexer_MalformedNumbers(t *testing.T) {
	for _, input := range []string{"0b102", "0xg", "0x", "12abc", "170141183460469231731687303715884105728"} {
		lx, _ := makeTestLexer(input)
		tok, err := lx.Next()
		if err == nil {
			t.Errorf("%q: expected error, got token %v", input, tok)
			continue
		}
		de, ok := diag.AsError(err)
		if !ok || de.Code != diag.LexBadNumber {
			t.Errorf("%q: expected LexBadNumber, got %v", input, err)
			continue
		}
		if de.Line != 1 || de.Col != 1 {
			t.Errorf("%q: error at %d:%d, want 1:1", input, de.Line, de.Col)
		}
	}
}

func TestLexer_Comments(t *testing.T) {
	got := collectKinds(t, "a // line\n/* block\n * more */ b /**/ c //")
	want := []token.Kind{token.Ident, token.Ident, token.Ident}
	if !equalKinds(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexer_UnterminatedBlockComment(t *testing.T) {
	lx, _ := makeTestLexer("a /* never closed")
	if tok, err := lx.Next(); err != nil || tok.Kind != token.Ident {
		t.Fatalf("first token: %v %v", tok, err)
	}
	_, err := lx.Next()
	de, ok := diag.AsError(err)
	if !ok || de.Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected unterminated comment error, got %v", err)
	}
	if de.Col != 3 {
		t.Errorf("error column = %d, want 3", de.Col)
	}
}

func TestLexer_BadTokenIsResumable(t *testing.T) {
	lx, _ := makeTestLexer("a $ b")
	if tok, err := lx.Next(); err != nil || tok.Kind != token.Ident {
		t.Fatalf("first token: %v %v", tok, err)
	}
	tok, err := lx.Next()
	de, ok := diag.AsError(err)
	if !ok || de.Code != diag.LexBadToken {
		t.Fatalf("expected bad token error, got %v", err)
	}
	if tok.Kind != token.Invalid || tok.Text != "$" || de.Col != 3 {
		t.Errorf("bad token = %v %q at col %d", tok.Kind, tok.Text, de.Col)
	}
	tok, err = lx.Next()
	if err != nil || tok.Kind != token.Ident || tok.Text != "b" {
		t.Errorf("after bad token: %v %v", tok, err)
	}
}

func TestLexer_UnicodeIdentifiers(t *testing.T) {
	lx, file := makeTestLexer("привет _x1 λ2\nназад")
	toks, err := lx.All()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"привет", "_x1", "λ2", "назад"}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tok := range toks {
		if tok.Kind != token.Ident || tok.Text != want[i] {
			t.Errorf("token %d = %v %q, want Ident %q", i, tok.Kind, tok.Text, want[i])
		}
	}
	if pos := file.Position(toks[1].Span.Start); pos.Line != 1 || pos.Col != 8 {
		t.Errorf("_x1 position = %d:%d, want 1:8", pos.Line, pos.Col)
	}
	if pos := file.Position(toks[3].Span.Start); pos.Line != 2 || pos.Col != 1 {
		t.Errorf("назад position = %d:%d, want 2:1", pos.Line, pos.Col)
	}
}

// Токены вместе с пропущенными пробелами и комментариями восстанавливают вход.
func TestLexer_SpansCoverInput(t *testing.T) {
	inputs := []string{
		"let x = 1; // c\nwhile (x < 10) { x = x + 1; }",
		"/* a */f(0x10,0b1)  \t\r\n{ }",
		"  λ==b>>2",
	}
	for _, input := range inputs {
		lx, file := makeTestLexer(input)
		toks, err := lx.All()
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		var sb strings.Builder
		var prev uint32
		for _, tok := range toks {
			gap := string(file.Content[prev:tok.Span.Start])
			if strings.TrimSpace(stripComments(gap)) != "" {
				t.Errorf("%q: gap %q before %q is not trivia", input, gap, tok.Text)
			}
			sb.WriteString(gap)
			if tok.Span.Text(file) != tok.Text {
				t.Errorf("%q: span text %q != token text %q", input, tok.Span.Text(file), tok.Text)
			}
			sb.WriteString(tok.Text)
			prev = tok.Span.End
		}
		sb.Write(file.Content[prev:])
		if sb.String() != input {
			t.Errorf("reconstructed %q, want %q", sb.String(), input)
		}
	}
}

func stripComments(s string) string {
	for {
		if i := strings.Index(s, "/*"); i >= 0 {
			j := strings.Index(s[i:], "*/")
			s = s[:i] + s[i+j+2:]
			continue
		}
		if i := strings.Index(s, "//"); i >= 0 {
			j := strings.IndexByte(s[i:], '\n')
			if j < 0 {
				s = s[:i]
			} else {
				s = s[:i] + s[i+j:]
			}
			continue
		}
		return s
	}
}

func TestLexer_SaveGoto(t *testing.T) {
	lx, _ := makeTestLexer("a b c")
	if _, err := lx.Next(); err != nil {
		t.Fatal(err)
	}
	saved := lx.Save()
	if tok, _ := lx.Peek(); tok.Text != "b" {
		t.Fatalf("peek = %q", tok.Text)
	}
	if !lx.Save().Equal(saved) {
		t.Fatalf("peek moved the saved position")
	}
	_, _ = lx.Next()
	_, _ = lx.Next()
	lx.Goto(saved)
	if tok, _ := lx.Next(); tok.Text != "b" {
		t.Errorf("after goto: %q, want b", tok.Text)
	}
	tok, _ := lx.Next()
	tok, _ = lx.Next()
	if tok.Kind != token.EOF {
		t.Errorf("want EOF, got %v", tok.Kind)
	}
	if tok, _ = lx.Next(); tok.Kind != token.EOF {
		t.Errorf("EOF must repeat, got %v", tok.Kind)
	}
}
