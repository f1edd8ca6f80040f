package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"brook/internal/source"
)

const eofRune rune = -1

// Reader advances a Cursor one code point at a time.
// Save and Goto give the parser its backtracking points.
type Reader struct {
	cur   Cursor
	limit uint32
}

// NewReader creates a reader positioned at the start of f.
func NewReader(f *source.File) *Reader {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return &Reader{cur: NewCursor(f), limit: limit}
}

// EOF проверяет, достигнут ли конец файла
func (r *Reader) EOF() bool {
	return r.cur.Off >= r.limit
}

// Peek returns the current code point without consuming it, or eofRune.
func (r *Reader) Peek() rune {
	ch, _ := r.decodeAt(r.cur.Off)
	return ch
}

// Peek2 returns the current and the next code point.
func (r *Reader) Peek2() (rune, rune) {
	ch0, sz := r.decodeAt(r.cur.Off)
	if ch0 == eofRune {
		return eofRune, eofRune
	}
	ch1, _ := r.decodeAt(r.cur.Off + uint32(sz))
	return ch0, ch1
}

// Bump consumes one code point and returns it, tracking line and column.
func (r *Reader) Bump() rune {
	ch, sz := r.decodeAt(r.cur.Off)
	if ch == eofRune {
		return eofRune
	}
	r.cur.Off += uint32(sz)
	if ch == '\n' {
		r.cur.Line++
		r.cur.Col = 1
	} else {
		r.cur.Col++
	}
	return ch
}

// Eat consumes the next code point if it equals ch.
func (r *Reader) Eat(ch rune) bool {
	if r.Peek() == ch {
		r.Bump()
		return true
	}
	return false
}

// Save returns the current position.
func (r *Reader) Save() Cursor {
	return r.cur
}

// Goto rewinds (or fast-forwards) to a position previously returned by Save.
func (r *Reader) Goto(c Cursor) {
	r.cur = c
}

// SpanFrom получает Span для фрагмента, начиная с сохранённой позиции.
func (r *Reader) SpanFrom(start Cursor) source.Span {
	return source.Span{File: r.cur.File.ID, Start: start.Off, End: r.cur.Off}
}

func (r *Reader) decodeAt(off uint32) (rune, int) {
	if off >= r.limit {
		return eofRune, 0
	}
	content := r.cur.File.Content
	if b := content[off]; b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	// invalid UTF-8 comes back as RuneError of width 1 and lexes as a bad token
	return utf8.DecodeRune(content[off:r.limit])
}
