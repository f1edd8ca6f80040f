package diag

import (
	"errors"
	"fmt"

	"brook/internal/source"
)

// Error is the structured failure produced by every compilation phase.
// The first Error aborts the phase; nothing is recovered past it.
type Error struct {
	Code    Code
	Message string
	Path    string
	Source  string // full text of the offending line
	Line    uint32 // 1-based
	Col     uint32 // 1-based, in code points
	Span    source.Span
	Hint    string
	Snippet string
}

// NewError resolves span against f and builds an Error.
func NewError(f *source.File, code Code, span source.Span, msg string) *Error {
	e := &Error{Code: code, Message: msg, Span: span, Line: 1, Col: 1}
	if f == nil {
		return e
	}
	pos := f.Position(span.Start)
	e.Path = f.Path
	e.Line = pos.Line
	e.Col = max(pos.Col, 1)
	e.Source = f.GetLine(pos.Line)
	return e
}

// WithHint attaches a hint and an optional replacement snippet.
func (e *Error) WithHint(hint, snippet string) *Error {
	e.Hint = hint
	e.Snippet = snippet
	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Col, e.Message)
}

// Diagnostic converts the error to a Bag entry.
func (e *Error) Diagnostic() Diagnostic {
	d := Diagnostic{
		Severity: SevError,
		Code:     e.Code,
		Message:  e.Message,
		Primary:  e.Span,
		Path:     e.Path,
		Line:     e.Line,
		Col:      e.Col,
	}
	if e.Hint != "" {
		d.Notes = append(d.Notes, Note{Span: e.Span, Msg: e.Hint})
	}
	return d
}

// Offset is the byte position the error points at, used to pick the
// deepest failure among alternatives.
func (e *Error) Offset() uint32 {
	return e.Span.Start
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
