package ir

import (
	"slices"
)

// ExternFunc is an entry of the external function table.
type ExternFunc struct {
	Name    string
	Arity   uint8
	Returns bool
}

// Block is a straight-line instruction sequence with a fixed argument list.
// ArgSizes lists the bit width of every incoming argument, bottom of stack first.
type Block struct {
	ArgSizes []uint8
	Instrs   []Instr
}

// Argc returns the number of block arguments.
func (b *Block) Argc() int {
	return len(b.ArgSizes)
}

// Terminated reports whether the block already ends in a terminator.
func (b *Block) Terminated() bool {
	if b == nil || len(b.Instrs) == 0 {
		return false
	}
	return b.Instrs[len(b.Instrs)-1].Op.IsTerminator()
}

// Object is a complete compiled program. Blocks[0] is the entry block.
type Object struct {
	Externs []ExternFunc
	Blocks  []Block
}

// Block returns the block with the given id or nil.
func (o *Object) Block(id BlockID) *Block {
	if int(id) >= len(o.Blocks) {
		return nil
	}
	return &o.Blocks[id]
}

// Extern returns the external function with the given id or nil.
func (o *Object) Extern(id FuncID) *ExternFunc {
	if int(id) >= len(o.Externs) {
		return nil
	}
	return &o.Externs[id]
}

// Equal reports whether a and b describe the same program.
func Equal(a, b *Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	return slices.Equal(a.Externs, b.Externs) &&
		slices.EqualFunc(a.Blocks, b.Blocks, func(x, y Block) bool {
			return slices.Equal(x.ArgSizes, y.ArgSizes) && slices.Equal(x.Instrs, y.Instrs)
		})
}
