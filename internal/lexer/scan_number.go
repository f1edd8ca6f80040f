package lexer

import (
	"brook/internal/bignum"
	"brook/internal/diag"
	"brook/internal/token"
)

// scanNumber: 123, 0x1F, 0b101.
// Префикс 0x/0b меняет основание только если сразу за ним идёт цифра этого основания,
// иначе '0': обычное десятичное число. Сканирование жадное: все ASCII буквы и цифры
// входят в литерал, а проверку делает bignum.ParseLiteral.
func (lx *Lexer) scanNumber() (token.Token, error) {
	start := lx.rd.Save()

	if ch0, ch1 := lx.rd.Peek2(); ch0 == '0' && (ch1 == 'x' || ch1 == 'b') {
		save := lx.rd.Save()
		lx.rd.Bump()
		lx.rd.Bump()
		if !isRadixDigit(lx.rd.Peek(), ch1) {
			lx.rd.Goto(save)
		}
	}
	for isASCIIAlnum(lx.rd.Peek()) {
		lx.rd.Bump()
	}

	tok := lx.emit(token.IntLit, start)
	if _, err := bignum.ParseLiteral(tok.Text); err != nil {
		tok.Kind = token.Invalid
		return tok, lx.errAt(diag.LexBadNumber, tok.Span, "cannot parse integer literal `"+tok.Text+"`: "+err.Error())
	}
	return tok, nil
}

func isRadixDigit(ch rune, prefix rune) bool {
	if prefix == 'b' {
		return ch == '0' || ch == '1'
	}
	return ch < 0x80 && isHex(byte(ch))
}
