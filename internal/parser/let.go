package parser

import (
	"brook/internal/ast"
	"brook/internal/token"
)

// parseLetStmt разбирает `let name [: type] [= expr];`.
// Без `=` переменная остаётся неинициализированной (Value == NoExprID).
func (p *Parser) parseLetStmt() (ast.StmtID, error) {
	kw, err := p.advance()
	if err != nil {
		return ast.NoStmtID, err
	}

	name, err := p.expect(token.Ident, "variable name after `let`")
	if err != nil {
		return ast.NoStmtID, err
	}
	data := ast.LetStmt{Name: name.Text, NameSpan: name.Span}

	if _, ok, err := p.eat(token.Colon); err != nil {
		return ast.NoStmtID, err
	} else if ok {
		typ, err := p.expect(token.Ident, "type name after `:`")
		if err != nil {
			return ast.NoStmtID, err
		}
		data.Type, data.TypeSpan = typ.Text, typ.Span
	}

	if _, ok, err := p.eat(token.Assign); err != nil {
		return ast.NoStmtID, err
	} else if ok {
		if data.Value, err = p.parseExpr(); err != nil {
			return ast.NoStmtID, err
		}
	}

	semi, err := p.expect(token.Semicolon, "`;` after variable declaration")
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewLet(kw.Span.Cover(semi.Span), data), nil
}
