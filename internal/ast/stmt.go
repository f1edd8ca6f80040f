package ast

import (
	"brook/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtIf
	StmtWhile
	StmtLoop
	StmtReturn
	StmtBreak
	StmtContinue
	StmtLet
	StmtExpr
	StmtNoop
)

var stmtKindNames = [...]string{
	StmtBlock:    "Block",
	StmtIf:       "If",
	StmtWhile:    "While",
	StmtLoop:     "Loop",
	StmtReturn:   "Return",
	StmtBreak:    "Break",
	StmtContinue: "Continue",
	StmtLet:      "Let",
	StmtExpr:     "Expr",
	StmtNoop:     "Noop",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Stmt?"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// LetStmt: `let name [: type] [= value];`. Value is NoExprID when uninitialised,
// Type is empty when no annotation is written.
type LetStmt struct {
	Name     string
	NameSpan source.Span
	Type     string
	TypeSpan source.Span
	Value    ExprID
}

// ExprStmt backs StmtExpr and the block-like statement kinds
// (StmtBlock, StmtIf, StmtWhile, StmtLoop).
type ExprStmt struct {
	Expr      ExprID
	Semicolon bool
}

type ReturnStmt struct {
	Value ExprID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Lets    *Arena[LetStmt]
	Exprs   *Arena[ExprStmt]
	Returns *Arena[ReturnStmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Lets:    NewArena[LetStmt](capHint),
		Exprs:   NewArena[ExprStmt](capHint),
		Returns: NewArena[ReturnStmt](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewLet(span source.Span, data LetStmt) StmtID {
	return s.new(StmtLet, span, PayloadID(s.Lets.Allocate(data)))
}

func (s *Stmts) Let(id StmtID) (*LetStmt, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(stmt.Payload)), true
}

// NewExpr wraps an expression as a statement. kind must be StmtExpr or one of
// the block-like kinds.
func (s *Stmts) NewExpr(kind StmtKind, span source.Span, expr ExprID, semicolon bool) StmtID {
	return s.new(kind, span, PayloadID(s.Exprs.Allocate(ExprStmt{Expr: expr, Semicolon: semicolon})))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	stmt := s.Get(id)
	if stmt == nil {
		return nil, false
	}
	switch stmt.Kind {
	case StmtExpr, StmtBlock, StmtIf, StmtWhile, StmtLoop:
		return s.Exprs.Get(uint32(stmt.Payload)), true
	default:
		return nil, false
	}
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, PayloadID(s.Returns.Allocate(ReturnStmt{Value: value})))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(stmt.Payload)), true
}

// NewSimple allocates a payload-free statement (break, continue, noop).
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, NoPayloadID)
}
