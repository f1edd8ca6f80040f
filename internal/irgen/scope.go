package irgen

import (
	"brook/internal/ir"
)

type ScopeKind uint8

const (
	ScopeRoot ScopeKind = iota
	ScopeBlock
	ScopeLoop
)

// Var is a variable binding: the stack slot currently holding its value and its width.
type Var struct {
	Offset uint32
	Size   uint8
}

type binding struct {
	name string
	v    Var
}

// loopTargets are the branch targets of the loop a ScopeLoop belongs to.
type loopTargets struct {
	header ir.BlockID
	exit   ir.BlockID
}

type scope struct {
	kind  ScopeKind
	vars  []binding // порядок объявления
	index map[string]int
	loop  loopTargets
}

// Scopes is the lexical scope stack, innermost last.
type Scopes struct {
	stack []scope
}

// Enter pushes a new empty scope.
func (s *Scopes) Enter(kind ScopeKind) {
	s.stack = append(s.stack, scope{kind: kind, index: make(map[string]int)})
}

// enterLoop pushes a loop scope remembering where break and continue go.
func (s *Scopes) enterLoop(header, exit ir.BlockID) {
	s.Enter(ScopeLoop)
	s.stack[len(s.stack)-1].loop = loopTargets{header: header, exit: exit}
}

// Exit pops the innermost scope together with its bindings.
func (s *Scopes) Exit() {
	s.stack = s.stack[:len(s.stack)-1]
}

// Len is the number of scopes on the stack.
func (s *Scopes) Len() int {
	return len(s.stack)
}

// Declare binds name in the innermost scope. It fails when the innermost
// scope already binds name; outer bindings are shadowed.
func (s *Scopes) Declare(name string, v Var) bool {
	top := &s.stack[len(s.stack)-1]
	if _, dup := top.index[name]; dup {
		return false
	}
	top.index[name] = len(top.vars)
	top.vars = append(top.vars, binding{name: name, v: v})
	return true
}

// Resolve searches innermost to outermost.
func (s *Scopes) Resolve(name string) (Var, bool) {
	if b := s.lookup(name); b != nil {
		return b.v, true
	}
	return Var{}, false
}

// Rebind points an existing variable at a new stack slot.
func (s *Scopes) Rebind(name string, offset uint32) bool {
	b := s.lookup(name)
	if b == nil {
		return false
	}
	b.v.Offset = offset
	return true
}

func (s *Scopes) lookup(name string) *binding {
	for i := len(s.stack) - 1; i >= 0; i-- {
		sc := &s.stack[i]
		if j, ok := sc.index[name]; ok {
			return &sc.vars[j]
		}
	}
	return nil
}

// innermostLoop returns the depth of the innermost loop scope.
func (s *Scopes) innermostLoop() (int, loopTargets, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].kind == ScopeLoop {
			return i, s.stack[i].loop, true
		}
	}
	return 0, loopTargets{}, false
}

// live visits every binding of the outermost depth scopes, outermost scope
// first and in declaration order inside a scope. Branch senders and receivers
// both walk this order, so it fixes the layout of block arguments.
func (s *Scopes) live(depth int, fn func(b *binding)) {
	for i := 0; i < depth && i < len(s.stack); i++ {
		for j := range s.stack[i].vars {
			fn(&s.stack[i].vars[j])
		}
	}
}
