package lexer

import (
	"brook/internal/diag"
	"brook/internal/token"
)

// Жадность: сначала 2-символьные операторы, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() (token.Token, error) {
	start := lx.rd.Save()

	switch {
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start), nil
	case lx.try2('!', '='):
		return lx.emit(token.BangEq, start), nil
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start), nil
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start), nil
	case lx.try2('<', '<'):
		return lx.emit(token.Shl, start), nil
	case lx.try2('>', '>'):
		return lx.emit(token.Shr, start), nil
	}

	// односимвольные
	var k token.Kind
	switch lx.rd.Bump() {
	case '{':
		k = token.LBrace
	case '}':
		k = token.RBrace
	case '(':
		k = token.LParen
	case ')':
		k = token.RParen
	case ';':
		k = token.Semicolon
	case ':':
		k = token.Colon
	case ',':
		k = token.Comma
	case '=':
		k = token.Assign
	case '+':
		k = token.Plus
	case '-':
		k = token.Minus
	case '*':
		k = token.Star
	case '/':
		k = token.Slash
	case '<':
		k = token.Lt
	case '>':
		k = token.Gt
	default:
		// неизвестный символ: позиция уже сдвинута на один, лексинг можно продолжить
		tok := lx.emit(token.Invalid, start)
		return tok, lx.errAt(diag.LexBadToken, tok.Span, "bad token `"+tok.Text+"`")
	}
	return lx.emit(k, start), nil
}

// try2 пробует "съесть" 2 символа, если совпадает.
func (lx *Lexer) try2(a, b rune) bool {
	ch0, ch1 := lx.rd.Peek2()
	if ch0 != a || ch1 != b {
		return false
	}
	lx.rd.Bump()
	lx.rd.Bump()
	return true
}
