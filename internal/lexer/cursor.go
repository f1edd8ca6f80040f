package lexer

import (
	"brook/internal/source"
)

// Cursor представляет собой сохранённую позицию в файле.
// It is a plain value: copy it to save a position, hand it to Goto to rewind.
// Two cursors are equal when they point at the same line and column.
type Cursor struct {
	File *source.File
	Off  uint32 // byte offset of the first unread code point
	Line uint32 // 1-based
	Col  uint32 // 1-based, in code points
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	return Cursor{File: f, Off: 0, Line: 1, Col: 1}
}

// Rest returns the text not yet consumed.
func (c Cursor) Rest() string {
	if c.File == nil || int(c.Off) >= len(c.File.Content) {
		return ""
	}
	return string(c.File.Content[c.Off:])
}

// Equal compares positions by line and column only.
func (c Cursor) Equal(other Cursor) bool {
	return c.Line == other.Line && c.Col == other.Col
}

// Before reports whether c points at an earlier source position than other.
func (c Cursor) Before(other Cursor) bool {
	if c.Line != other.Line {
		return c.Line < other.Line
	}
	return c.Col < other.Col
}

// Pos returns the cursor position as a LineCol.
func (c Cursor) Pos() source.LineCol {
	return source.LineCol{Line: c.Line, Col: c.Col}
}
