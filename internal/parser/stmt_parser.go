package parser

import (
	"brook/internal/ast"
	"brook/internal/diag"
	"brook/internal/token"
)

// parseStmt выбирает разбор по lookahead.
func (p *Parser) parseStmt() (ast.StmtID, error) {
	tok, err := p.peek()
	if err != nil {
		return ast.NoStmtID, err
	}

	switch tok.Kind {
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwBreak:
		return p.parseLoopControl(ast.StmtBreak)
	case token.KwContinue:
		return p.parseLoopControl(ast.StmtContinue)
	case token.KwLet:
		return p.parseLetStmt()
	case token.Semicolon:
		semi, err := p.advance()
		if err != nil {
			return ast.NoStmtID, err
		}
		return p.arenas.Stmts.NewSimple(ast.StmtNoop, semi.Span), nil
	case token.EOF, token.RBrace:
		return ast.NoStmtID, p.errAt(diag.SynExpectStatement, tok.Span, "expected statement, found "+describe(tok))
	}

	exprID, err := p.parseExpr()
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.finishExprStmt(exprID)
}

// finishExprStmt оборачивает выражение в statement.
// Block-like expressions take an optional `;`, everything else requires one.
func (p *Parser) finishExprStmt(exprID ast.ExprID) (ast.StmtID, error) {
	expr := p.arenas.Exprs.Get(exprID)
	span := expr.Span

	semi, ok, err := p.eat(token.Semicolon)
	if err != nil {
		return ast.NoStmtID, err
	}
	if ok {
		span = span.Cover(semi.Span)
	} else if !expr.Kind.BlockLike() {
		return ast.NoStmtID, p.errAt(diag.SynExpectSemicolon, semi.Span, "expected `;` after expression, found "+describe(semi))
	}
	return p.arenas.Stmts.NewExpr(ast.StmtKindFor(expr.Kind), span, exprID, ok), nil
}

// return expr ;
func (p *Parser) parseReturnStmt() (ast.StmtID, error) {
	kw, err := p.advance()
	if err != nil {
		return ast.NoStmtID, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return ast.NoStmtID, err
	}
	semi, err := p.expect(token.Semicolon, "`;` after return value")
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewReturn(kw.Span.Cover(semi.Span), value), nil
}

// break ; | continue ;
func (p *Parser) parseLoopControl(kind ast.StmtKind) (ast.StmtID, error) {
	kw, err := p.advance()
	if err != nil {
		return ast.NoStmtID, err
	}
	semi, err := p.expect(token.Semicolon, "`;` after `"+kw.Text+"`")
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.arenas.Stmts.NewSimple(kind, kw.Span.Cover(semi.Span)), nil
}
