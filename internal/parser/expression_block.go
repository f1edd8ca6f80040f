package parser

import (
	"brook/internal/ast"
	"brook/internal/token"
)

// parseBlockExpr разбирает `{ stmt* [tail] }`.
//
// Токены, с которых выражение начаться не может (`let`, `return`, `break`,
// `continue`, `;`), сразу уходят в parseStmt. Иначе разбираем выражение один
// раз: перед `}` это хвост блока, в остальных случаях finishExprStmt требует
// `;` по обычному правилу. Повторного разбора нет, поэтому вложенные блоки
// разбираются за линейное время.
func (p *Parser) parseBlockExpr() (ast.ExprID, error) {
	open, err := p.advance()
	if err != nil {
		return ast.NoExprID, err
	}

	var (
		stmts []ast.StmtID
		tail  = ast.NoExprID
	)
	for {
		tok, err := p.peek()
		if err != nil {
			return ast.NoExprID, err
		}
		if tok.Kind == token.RBrace {
			break
		}
		if tok.Kind == token.EOF {
			_, err = p.expect(token.RBrace, "`}` to close block")
			return ast.NoExprID, err
		}

		if startsStmt(tok.Kind) {
			stmtID, err := p.parseStmt()
			if err != nil {
				return ast.NoExprID, err
			}
			stmts = append(stmts, stmtID)
			continue
		}

		exprID, err := p.parseExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		next, err := p.peek()
		if err != nil {
			return ast.NoExprID, err
		}
		if next.Kind == token.RBrace {
			tail = exprID
			break
		}
		stmtID, err := p.finishExprStmt(exprID)
		if err != nil {
			return ast.NoExprID, err
		}
		stmts = append(stmts, stmtID)
	}

	closeTok, err := p.advance()
	if err != nil {
		return ast.NoExprID, err
	}
	return p.arenas.Exprs.NewBlock(open.Span.Cover(closeTok.Span), stmts, tail), nil
}

// startsStmt reports tokens that open a statement but never an expression.
func startsStmt(k token.Kind) bool {
	switch k {
	case token.KwLet, token.KwReturn, token.KwBreak, token.KwContinue, token.Semicolon:
		return true
	}
	return false
}
