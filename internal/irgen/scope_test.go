package irgen

import "testing"

func TestScopes(t *testing.T) {
	var s Scopes
	s.Enter(ScopeRoot)
	if !s.Declare("x", Var{Offset: 0, Size: 64}) {
		t.Fatal("declare x")
	}
	if s.Declare("x", Var{Offset: 1, Size: 64}) {
		t.Fatal("redeclaration in the same scope must fail")
	}

	s.Enter(ScopeBlock)
	if !s.Declare("x", Var{Offset: 1, Size: 8}) {
		t.Fatal("shadowing in an inner scope must succeed")
	}
	if v, _ := s.Resolve("x"); v.Offset != 1 || v.Size != 8 {
		t.Fatalf("innermost binding must win, got %+v", v)
	}
	if !s.Rebind("x", 5) {
		t.Fatal("rebind")
	}
	var order []uint32
	s.live(s.Len(), func(b *binding) { order = append(order, b.v.Offset) })
	if len(order) != 2 || order[0] != 0 || order[1] != 5 {
		t.Fatalf("live order = %v", order)
	}

	s.Exit()
	if v, ok := s.Resolve("x"); !ok || v.Offset != 0 {
		t.Fatalf("outer binding after exit = %+v %v", v, ok)
	}
	if _, ok := s.Resolve("y"); ok {
		t.Fatal("y must be undeclared")
	}
	if s.Rebind("y", 1) {
		t.Fatal("rebind of undeclared name must fail")
	}
}

func TestInnermostLoop(t *testing.T) {
	var s Scopes
	s.Enter(ScopeRoot)
	if _, _, ok := s.innermostLoop(); ok {
		t.Fatal("no loop yet")
	}
	s.enterLoop(1, 2)
	s.Enter(ScopeBlock)
	s.enterLoop(3, 4)
	s.Enter(ScopeBlock)
	depth, loop, ok := s.innermostLoop()
	if !ok || depth != 3 || loop.header != 3 || loop.exit != 4 {
		t.Fatalf("innermost loop = %d %+v %v", depth, loop, ok)
	}
}
