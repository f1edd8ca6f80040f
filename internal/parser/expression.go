package parser

import (
	"brook/internal/ast"
	"brook/internal/bignum"
	"brook/internal/diag"
	"brook/internal/token"
)

// parseExpr: верхний уровень выражения, выбор по lookahead.
func (p *Parser) parseExpr() (ast.ExprID, error) {
	tok, err := p.peek()
	if err != nil {
		return ast.NoExprID, err
	}

	switch tok.Kind {
	case token.LBrace:
		return p.parseBlockExpr()
	case token.KwIf:
		return p.parseIfExpr()
	case token.KwWhile:
		return p.parseWhileExpr()
	case token.KwLoop:
		return p.parseLoopExpr()
	case token.Ident:
		return p.parseAssignOrArith()
	default:
		return p.parseArith()
	}
}

// parseAssignOrArith: `name = expr` или обычное арифметическое выражение,
// начинающееся с идентификатора.
func (p *Parser) parseAssignOrArith() (ast.ExprID, error) {
	save := p.lx.Save()
	name, err := p.advance()
	if err != nil {
		return ast.NoExprID, err
	}
	if _, ok, err := p.eat(token.Assign); err != nil {
		return ast.NoExprID, err
	} else if !ok {
		p.lx.Goto(save)
		return p.parseArith()
	}

	value, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	span := name.Span.Cover(p.arenas.Exprs.Get(value).Span)
	return p.arenas.Exprs.NewAssign(span, name.Text, name.Span, value), nil
}

// parseArith: [+|-] primary [op expr].
// Правая часть разбирается как полное выражение, затем дерево
// поворачивается, если оператор слева связывает сильнее (см. rebalance).
func (p *Parser) parseArith() (ast.ExprID, error) {
	tok, err := p.peek()
	if err != nil {
		return ast.NoExprID, err
	}

	var (
		unary    ast.ExprUnaryOp
		hasUnary bool
	)
	switch tok.Kind {
	case token.Plus:
		unary, hasUnary = ast.ExprUnaryPlus, true
	case token.Minus:
		unary, hasUnary = ast.ExprUnaryMinus, true
	}
	if hasUnary {
		if _, err = p.advance(); err != nil {
			return ast.NoExprID, err
		}
	}

	left, err := p.parsePrimary()
	if err != nil {
		return ast.NoExprID, err
	}
	if hasUnary {
		span := tok.Span.Cover(p.arenas.Exprs.Get(left).Span)
		left = p.arenas.Exprs.NewUnary(span, unary, left)
	}

	next, err := p.peek()
	if err != nil {
		return ast.NoExprID, err
	}
	op, ok := binaryOpFor(next.Kind)
	if !ok {
		return left, nil
	}
	if _, err = p.advance(); err != nil {
		return ast.NoExprID, err
	}

	right, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	return p.rebalance(op, left, right), nil
}

// rebalance строит `left op right`. Если right является бинарным выражением
// `r1 op2 r2` и op связывает сильнее op2, результат `(left op r1) op2 r2`.
// Equal precedence keeps the right-leaning shape: 1-2-3 is 1-(2-3).
func (p *Parser) rebalance(op ast.ExprBinaryOp, left, right ast.ExprID) ast.ExprID {
	exprs := p.arenas.Exprs
	leftSpan := exprs.Get(left).Span

	if rb, ok := exprs.Binary(right); ok && precedence(op) > precedence(rb.Op) {
		r1, r2, op2 := rb.Left, rb.Right, rb.Op
		inner := exprs.NewBinary(leftSpan.Cover(exprs.Get(r1).Span), op, left, r1)
		return exprs.NewBinary(exprs.Get(inner).Span.Cover(exprs.Get(r2).Span), op2, inner, r2)
	}
	return exprs.NewBinary(leftSpan.Cover(exprs.Get(right).Span), op, left, right)
}

// parsePrimary: литерал, (expr), (), идентификатор или вызов name(args).
func (p *Parser) parsePrimary() (ast.ExprID, error) {
	tok, err := p.peek()
	if err != nil {
		return ast.NoExprID, err
	}

	switch tok.Kind {
	case token.IntLit:
		if _, err = p.advance(); err != nil {
			return ast.NoExprID, err
		}
		value, perr := bignum.ParseLiteral(tok.Text)
		if perr != nil {
			return ast.NoExprID, p.errAt(diag.LexBadNumber, tok.Span, "cannot parse integer literal `"+tok.Text+"`: "+perr.Error())
		}
		return p.arenas.Exprs.NewLiteral(tok.Span, value, tok.Text), nil

	case token.LParen:
		return p.parseParen()

	case token.Ident:
		if _, err = p.advance(); err != nil {
			return ast.NoExprID, err
		}
		isCall, err := p.at(token.LParen)
		if err != nil {
			return ast.NoExprID, err
		}
		if isCall {
			return p.parseCallArgs(tok)
		}
		return p.arenas.Exprs.NewIdent(tok.Span, tok.Text), nil

	default:
		return ast.NoExprID, p.errAt(diag.SynExpected, tok.Span, "expected expression, found "+describe(tok))
	}
}

// parseParen: `()`: void, иначе `(expr)`.
func (p *Parser) parseParen() (ast.ExprID, error) {
	open, err := p.advance()
	if err != nil {
		return ast.NoExprID, err
	}
	if closeTok, ok, err := p.eat(token.RParen); err != nil {
		return ast.NoExprID, err
	} else if ok {
		return p.arenas.Exprs.NewVoid(open.Span.Cover(closeTok.Span)), nil
	}

	inner, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	closeTok, err := p.expect(token.RParen, "`)`")
	if err != nil {
		return ast.NoExprID, err
	}
	return p.arenas.Exprs.NewGroup(open.Span.Cover(closeTok.Span), inner), nil
}

// parseCallArgs: name уже съеден, lookahead: `(`.
// Первый аргумент без разделителя, остальные через запятую.
func (p *Parser) parseCallArgs(name token.Token) (ast.ExprID, error) {
	if _, err := p.advance(); err != nil {
		return ast.NoExprID, err
	}

	var args []ast.ExprID
	closeTok, ok, err := p.eat(token.RParen)
	if err != nil {
		return ast.NoExprID, err
	}
	if !ok {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return ast.NoExprID, err
			}
			args = append(args, arg)

			_, more, err := p.eat(token.Comma)
			if err != nil {
				return ast.NoExprID, err
			}
			if !more {
				break
			}
		}
		if closeTok, err = p.expect(token.RParen, "`,` or `)` in argument list"); err != nil {
			return ast.NoExprID, err
		}
	}
	return p.arenas.Exprs.NewCall(name.Span.Cover(closeTok.Span), name.Text, name.Span, args), nil
}
