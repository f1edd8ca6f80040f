package lexer

import (
	"unicode"

	"brook/internal/diag"
)

// skipTrivia пропускает пробелы и комментарии перед значимым токеном.
//   - любой unicode.IsSpace
//   - // ... до \n или EOF
//   - /* ... */ без вложенности; незакрытый: ошибка
func (lx *Lexer) skipTrivia() error {
	for !lx.rd.EOF() {
		ch0, ch1 := lx.rd.Peek2()
		switch {
		case unicode.IsSpace(ch0):
			lx.rd.Bump()
		case ch0 == '/' && ch1 == '/':
			for !lx.rd.EOF() && lx.rd.Peek() != '\n' {
				lx.rd.Bump()
			}
		case ch0 == '/' && ch1 == '*':
			if err := lx.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (lx *Lexer) skipBlockComment() error {
	start := lx.rd.Save()
	lx.rd.Bump()
	lx.rd.Bump()
	for !lx.rd.EOF() {
		if ch0, ch1 := lx.rd.Peek2(); ch0 == '*' && ch1 == '/' {
			lx.rd.Bump()
			lx.rd.Bump()
			return nil
		}
		lx.rd.Bump()
	}
	return lx.errAt(diag.LexUnterminatedBlockComment, lx.rd.SpanFrom(start), "unterminated block comment")
}
