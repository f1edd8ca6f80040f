package ast

import (
	"brook/internal/source"
)

type Hints struct{ Files, Stmts, Exprs uint }

// Builder owns every arena of one syntax tree.
type Builder struct {
	Files *Files
	Stmts *Stmts
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushStmt(file FileID, stmt StmtID) {
	f := b.Files.Get(file)
	f.Stmts = append(f.Stmts, stmt)
}

// StmtKindFor maps a block-like expression kind to the statement kind that
// wraps it; every other expression becomes StmtExpr.
func StmtKindFor(k ExprKind) StmtKind {
	switch k {
	case ExprBlock:
		return StmtBlock
	case ExprIf:
		return StmtIf
	case ExprWhile:
		return StmtWhile
	case ExprLoop:
		return StmtLoop
	default:
		return StmtExpr
	}
}
