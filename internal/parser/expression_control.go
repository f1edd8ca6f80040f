package parser

import (
	"brook/internal/ast"
	"brook/internal/token"
)

// parseCondition: `(` expr `)`.
func (p *Parser) parseCondition(kw string) (ast.ExprID, error) {
	if _, err := p.expect(token.LParen, "`(` after `"+kw+"`"); err != nil {
		return ast.NoExprID, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	if _, err := p.expect(token.RParen, "`)` after condition"); err != nil {
		return ast.NoExprID, err
	}
	return cond, nil
}

// if (cond) then [else els]
func (p *Parser) parseIfExpr() (ast.ExprID, error) {
	kw, err := p.advance()
	if err != nil {
		return ast.NoExprID, err
	}
	cond, err := p.parseCondition("if")
	if err != nil {
		return ast.NoExprID, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	end := p.arenas.Exprs.Get(then).Span

	els := ast.NoExprID
	save := p.lx.Save()
	tok, err := p.advance()
	if err != nil {
		return ast.NoExprID, err
	}
	if tok.Kind == token.KwElse {
		if els, err = p.parseExpr(); err != nil {
			return ast.NoExprID, err
		}
		end = p.arenas.Exprs.Get(els).Span
	} else {
		p.lx.Goto(save)
	}
	return p.arenas.Exprs.NewIf(kw.Span.Cover(end), cond, then, els), nil
}

// while (cond) body
func (p *Parser) parseWhileExpr() (ast.ExprID, error) {
	kw, err := p.advance()
	if err != nil {
		return ast.NoExprID, err
	}
	cond, err := p.parseCondition("while")
	if err != nil {
		return ast.NoExprID, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	return p.arenas.Exprs.NewWhile(kw.Span.Cover(p.arenas.Exprs.Get(body).Span), cond, body), nil
}

// loop body
func (p *Parser) parseLoopExpr() (ast.ExprID, error) {
	kw, err := p.advance()
	if err != nil {
		return ast.NoExprID, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	return p.arenas.Exprs.NewLoop(kw.Span.Cover(p.arenas.Exprs.Get(body).Span), body), nil
}
