// Package builtins lists the external functions a brook program may call.
// Only signatures live here; the bodies belong to the execution backend.
package builtins

import (
	"slices"
)

// Signature describes one external function as the generator sees it.
type Signature struct {
	Name    string
	Arity   uint8
	Returns bool
}

// Registry resolves a call name to its signature.
type Registry interface {
	Lookup(name string) (Signature, bool)
}

var standard = []Signature{
	{Name: "print", Arity: 1, Returns: false},
	{Name: "input", Arity: 0, Returns: true},
	{Name: "pow", Arity: 2, Returns: true},
	{Name: "randint", Arity: 2, Returns: true},
}

// Table is a fixed, ordered set of signatures.
type Table struct {
	sigs []Signature
}

// Standard returns the registry of functions every backend provides.
func Standard() *Table {
	return &Table{sigs: slices.Clone(standard)}
}

// NewTable builds a registry from sigs; later duplicates are ignored.
func NewTable(sigs ...Signature) *Table {
	t := &Table{}
	for _, s := range sigs {
		if _, dup := t.Lookup(s.Name); !dup {
			t.sigs = append(t.sigs, s)
		}
	}
	return t
}

func (t *Table) Lookup(name string) (Signature, bool) {
	for _, s := range t.sigs {
		if s.Name == name {
			return s, true
		}
	}
	return Signature{}, false
}

// All returns the signatures in declaration order.
func (t *Table) All() []Signature {
	return slices.Clone(t.sigs)
}
