package token

import (
	"brook/internal/source"
)

// Token represents a single source token with its location.
// Two tokens are equal when kind and span are equal.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwIf, KwElse, KwWhile, KwLoop, KwReturn, KwBreak, KwContinue, KwLet:
		return true
	default:
		return false
	}
}

// IsBinaryOp reports whether the token can join two operands of a binary expression.
func (t Token) IsBinaryOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, EqEq, BangEq, Lt, LtEq, Gt, GtEq, Shl, Shr:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
