package parser

import (
	"fmt"

	"brook/internal/diag"
	"brook/internal/source"
	"brook/internal/token"
)

func (p *Parser) peek() (token.Token, error) {
	return p.lx.Peek()
}

// advance: съедает следующий токен
func (p *Parser) advance() (token.Token, error) {
	return p.lx.Next()
}

// at reports whether the lookahead has kind k.
func (p *Parser) at(k token.Kind) (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	return tok.Kind == k, nil
}

// eat съедает токен, только если он вида k.
func (p *Parser) eat(k token.Kind) (token.Token, bool, error) {
	tok, err := p.peek()
	if err != nil || tok.Kind != k {
		return tok, false, err
	}
	tok, err = p.advance()
	return tok, err == nil, err
}

// expect: ожидаем конкретный токен. Если нет: ошибка SynExpected в позиции lookahead.
func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	tok, ok, err := p.eat(k)
	if err != nil {
		return tok, err
	}
	if !ok {
		return tok, p.errAt(diag.SynExpected, tok.Span, fmt.Sprintf("expected %s, found %s", what, describe(tok)))
	}
	return tok, nil
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) error {
	return diag.NewError(p.src, code, sp, msg)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.Invalid:
		return "`" + tok.Text + "`"
	default:
		return "`" + tok.Kind.Spelling() + "`"
	}
}
