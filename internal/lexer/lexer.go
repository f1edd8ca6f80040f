package lexer

import (
	"brook/internal/diag"
	"brook/internal/source"
	"brook/internal/token"
)

// Lexer is a pull-based token producer over a Reader.
type Lexer struct {
	file *source.File
	rd   *Reader

	look     *token.Token // 1 элементный буфер для токена
	lookErr  error
	lookFrom Cursor // позиция, с которой был прочитан look
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file: file,
		rd:   NewReader(file),
	}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Next возвращает следующий значимый токен.
// After the input is exhausted it always returns an EOF token.
// A lexical error comes back together with an Invalid token; the reader has
// already moved past the offending text, so lexing can resume.
func (lx *Lexer) Next() (token.Token, error) {
	if lx.look != nil {
		tok, err := *lx.look, lx.lookErr
		lx.look, lx.lookErr = nil, nil
		return tok, err
	}

	if err := lx.skipTrivia(); err != nil {
		return token.Token{Kind: token.Invalid, Span: lx.EmptySpan()}, err
	}
	if lx.rd.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}, nil
	}

	ch := lx.rd.Peek()
	switch {
	case isIdentStartRune(ch):
		return lx.scanIdentOrKeyword(), nil
	case isDec(ch):
		return lx.scanNumber()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() (token.Token, error) {
	if lx.look != nil {
		return *lx.look, lx.lookErr
	}
	from := lx.rd.Save()
	tok, err := lx.Next()
	lx.look, lx.lookErr, lx.lookFrom = &tok, err, from
	return tok, err
}

// Save returns the position the next call to Next will start reading from.
func (lx *Lexer) Save() Cursor {
	if lx.look != nil {
		return lx.lookFrom
	}
	return lx.rd.Save()
}

// Goto rewinds the lexer to a position obtained from Save and drops the lookahead.
func (lx *Lexer) Goto(c Cursor) {
	lx.look, lx.lookErr = nil, nil
	lx.rd.Goto(c)
}

// EmptySpan is a zero-length span at the current read position.
func (lx *Lexer) EmptySpan() source.Span {
	off := lx.Save().Off
	return source.Span{File: lx.file.ID, Start: off, End: off}
}

// All lexes the whole file and stops at EOF or at the first error.
func (lx *Lexer) All() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return out, err
		}
		if tok.Kind == token.EOF {
			return out, nil
		}
		out = append(out, tok)
	}
}

func (lx *Lexer) errAt(code diag.Code, sp source.Span, msg string) error {
	return diag.NewError(lx.file, code, sp, msg)
}

func (lx *Lexer) emit(k token.Kind, start Cursor) token.Token {
	sp := lx.rd.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
