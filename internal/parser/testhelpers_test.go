package parser

import (
	"fmt"
	"strings"
	"testing"

	"brook/internal/ast"
	"brook/internal/diag"
	"brook/internal/lexer"
	"brook/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Builder, *ast.File) {
	t.Helper()
	b, fileID, err := tryParse(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return b, b.Files.Get(fileID)
}

func tryParse(input string) (*ast.Builder, ast.FileID, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.bk", []byte(input)))
	b := ast.NewBuilder(ast.Hints{})
	fileID, err := ParseFile(lexer.New(file), b)
	return b, fileID, err
}

func parseError(t *testing.T, input string) *diag.Error {
	t.Helper()
	_, _, err := tryParse(input)
	if err == nil {
		t.Fatalf("parse %q: expected error", input)
	}
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("parse %q: error %T is not *diag.Error", input, err)
	}
	return de
}

// renderStmt печатает statement в компактной форме для сравнения в тестах.
func renderStmt(b *ast.Builder, id ast.StmtID) string {
	stmt := b.Stmts.Get(id)
	switch stmt.Kind {
	case ast.StmtLet:
		let, _ := b.Stmts.Let(id)
		s := "let " + let.Name
		if let.Type != "" {
			s += ": " + let.Type
		}
		if let.Value.IsValid() {
			s += " = " + renderExpr(b, let.Value)
		}
		return s + ";"
	case ast.StmtReturn:
		ret, _ := b.Stmts.Return(id)
		return "return " + renderExpr(b, ret.Value) + ";"
	case ast.StmtBreak:
		return "break;"
	case ast.StmtContinue:
		return "continue;"
	case ast.StmtNoop:
		return ";"
	default:
		es, _ := b.Stmts.Expr(id)
		s := renderExpr(b, es.Expr)
		if es.Semicolon {
			s += ";"
		}
		return s
	}
}

func renderExpr(b *ast.Builder, id ast.ExprID) string {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return "<none>"
	}
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := b.Exprs.Literal(id)
		return lit.Value.String()
	case ast.ExprIdent:
		ident, _ := b.Exprs.Ident(id)
		return ident.Name
	case ast.ExprVoid:
		return "()"
	case ast.ExprGroup:
		g, _ := b.Exprs.Group(id)
		return "[" + renderExpr(b, g.Inner) + "]"
	case ast.ExprUnary:
		u, _ := b.Exprs.Unary(id)
		return u.Op.String() + renderExpr(b, u.Operand)
	case ast.ExprBinary:
		bin, _ := b.Exprs.Binary(id)
		return fmt.Sprintf("(%s %s %s)", renderExpr(b, bin.Left), bin.Op, renderExpr(b, bin.Right))
	case ast.ExprAssign:
		a, _ := b.Exprs.Assign(id)
		return a.Name + " = " + renderExpr(b, a.Value)
	case ast.ExprCall:
		c, _ := b.Exprs.Call(id)
		args := make([]string, 0, len(c.Args))
		for _, arg := range c.Args {
			args = append(args, renderExpr(b, arg))
		}
		return c.Name + "(" + strings.Join(args, ", ") + ")"
	case ast.ExprIf:
		data, _ := b.Exprs.If(id)
		s := "if " + renderExpr(b, data.Cond) + " " + renderExpr(b, data.Then)
		if data.Else.IsValid() {
			s += " else " + renderExpr(b, data.Else)
		}
		return s
	case ast.ExprWhile:
		data, _ := b.Exprs.While(id)
		return "while " + renderExpr(b, data.Cond) + " " + renderExpr(b, data.Body)
	case ast.ExprLoop:
		data, _ := b.Exprs.Loop(id)
		return "loop " + renderExpr(b, data.Body)
	case ast.ExprBlock:
		data, _ := b.Exprs.Block(id)
		parts := make([]string, 0, len(data.Stmts)+1)
		for _, s := range data.Stmts {
			parts = append(parts, renderStmt(b, s))
		}
		if data.Tail.IsValid() {
			parts = append(parts, "tail "+renderExpr(b, data.Tail))
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return "?"
	}
}

func renderFile(b *ast.Builder, f *ast.File) string {
	parts := make([]string, 0, len(f.Stmts))
	for _, s := range f.Stmts {
		parts = append(parts, renderStmt(b, s))
	}
	return strings.Join(parts, " ")
}
