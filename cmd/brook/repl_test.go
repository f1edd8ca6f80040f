package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"brook/internal/diag"
	"brook/internal/diagfmt"
)

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"let x = 1;", false},
		{"while (x) {", true},
		{"while (x) {\n x = x - 1;\n}", false},
		{"print(", true},
		{"/* open comment", true},
		{"/* closed */ let y;", false},
		{"}", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := incomplete(tt.src); got != tt.want {
			t.Errorf("incomplete(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestSessionAccumulatesProgram(t *testing.T) {
	var out, errw bytes.Buffer
	s := newSession(&out, &errw, diagfmt.PrettyOpts{})
	ctx := context.Background()

	if err := s.submit(ctx, "let x = 1;"); err != nil {
		t.Fatalf("first entry: %v", err)
	}
	if err := s.submit(ctx, "print(x + 1);"); err != nil {
		t.Fatalf("second entry: %v", err)
	}
	if got := s.program.String(); got != "let x = 1;\nprint(x + 1);\n" {
		t.Fatalf("program = %q", got)
	}
	if len(s.last.Object.Externs) != 1 || s.last.Object.Externs[0].Name != "print" {
		t.Fatalf("externs = %+v", s.last.Object.Externs)
	}
}

func TestSessionDropsFailedEntry(t *testing.T) {
	var out, errw bytes.Buffer
	s := newSession(&out, &errw, diagfmt.PrettyOpts{})
	ctx := context.Background()

	if err := s.submit(ctx, "let x = 1;"); err != nil {
		t.Fatal(err)
	}
	err := s.submit(ctx, "print(y);")
	if err == nil {
		t.Fatal("expected undeclared variable error")
	}
	de, ok := diag.AsError(err)
	if !ok || de.Code != diag.SemaUndeclaredVariable {
		t.Fatalf("err = %v, want SemaUndeclaredVariable", err)
	}
	if got := s.program.String(); got != "let x = 1;\n" {
		t.Fatalf("program changed after failure: %q", got)
	}

	s.report(err)
	if !strings.Contains(errw.String(), "error[") {
		t.Fatalf("report output = %q", errw.String())
	}
}

func TestSessionCommands(t *testing.T) {
	var out, errw bytes.Buffer
	s := newSession(&out, &errw, diagfmt.PrettyOpts{})

	s.command(":dump")
	if !strings.Contains(out.String(), "nothing compiled yet") {
		t.Fatalf(":dump before compile = %q", out.String())
	}
	if err := s.submit(context.Background(), "let a = 2;"); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	s.command(":dump")
	if !strings.Contains(out.String(), "block") {
		t.Fatalf(":dump = %q", out.String())
	}

	out.Reset()
	s.command(":tokens")
	if !strings.Contains(out.String(), `"let"`) {
		t.Fatalf(":tokens = %q", out.String())
	}

	s.command(":reset")
	if s.program.Len() != 0 || s.last != nil {
		t.Fatal(":reset kept state")
	}
	if !s.command(":quit") {
		t.Fatal(":quit must end the session")
	}
	s.command(":bogus")
	if !strings.Contains(errw.String(), "unknown command") {
		t.Fatalf("stderr = %q", errw.String())
	}
}

func TestRunBatch(t *testing.T) {
	var out, errw bytes.Buffer
	s := newSession(&out, &errw, diagfmt.PrettyOpts{})
	if err := runBatch(context.Background(), s, strings.NewReader("let n = 3;\nwhile (n) { n = n - 1; }\n")); err != nil {
		t.Fatal(err)
	}
	if out.Len() == 0 {
		t.Fatal("no IR printed")
	}

	out.Reset()
	err := runBatch(context.Background(), newSession(&out, &errw, diagfmt.PrettyOpts{}), strings.NewReader("let = ;"))
	if _, ok := err.(exitError); !ok {
		t.Fatalf("err = %v, want exitError", err)
	}
}

func TestCommonDir(t *testing.T) {
	tests := []struct {
		files []string
		want  string
	}{
		{[]string{"src/a.bk", "src/b.bk"}, "src"},
		{[]string{"src/x/a.bk", "src/y/b.bk"}, "src"},
		{[]string{"a.bk", "lib/b.bk"}, "."},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := commonDir(tt.files); got != tt.want {
			t.Errorf("commonDir(%v) = %q, want %q", tt.files, got, tt.want)
		}
	}
}
