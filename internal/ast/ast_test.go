package ast

import (
	"testing"

	"brook/internal/bignum"
	"brook/internal/source"
)

func TestArenaIDsAreOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be nil")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 {
		t.Fatalf("first id = %d", id)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range index must be nil")
	}
}

func TestPayloadAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{}
	lit := b.Exprs.NewLiteral(sp, bignum.FromInt64(3), "3")
	if _, ok := b.Exprs.Binary(lit); ok {
		t.Fatalf("literal must not decode as binary")
	}
	data, ok := b.Exprs.Literal(lit)
	if !ok || data.Text != "3" {
		t.Fatalf("literal payload = %+v", data)
	}

	bin := b.Exprs.NewBinary(sp, ExprBinaryMul, lit, lit)
	stmt := b.Stmts.NewExpr(StmtKindFor(ExprBinary), sp, bin, true)
	es, ok := b.Stmts.Expr(stmt)
	if !ok || es.Expr != bin || !es.Semicolon {
		t.Fatalf("expr stmt = %+v", es)
	}
	if _, ok := b.Stmts.Let(stmt); ok {
		t.Fatalf("expr stmt must not decode as let")
	}
}

func TestBlockLikeKinds(t *testing.T) {
	for _, k := range []ExprKind{ExprBlock, ExprIf, ExprWhile, ExprLoop} {
		if !k.BlockLike() {
			t.Errorf("%s must be block-like", k)
		}
	}
	for _, k := range []ExprKind{ExprAssign, ExprBinary, ExprCall, ExprVoid, ExprGroup} {
		if k.BlockLike() {
			t.Errorf("%s must not be block-like", k)
		}
		if StmtKindFor(k) != StmtExpr {
			t.Errorf("%s must wrap as StmtExpr", k)
		}
	}
}
