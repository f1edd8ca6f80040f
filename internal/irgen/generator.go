// Package irgen lowers a parsed brook program into an ir.Object.
//
// Каждый блок моделирует свой стек значений (список ширин). Переменная это
// слот на этом стеке; чтение делает DupAt, присваивание просто перевешивает
// binding на новый верхний слот. При переходе в другой блок все живые
// переменные дублируются на вершину и становятся аргументами блока-приёмника.
package irgen

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"brook/internal/ast"
	"brook/internal/builtins"
	"brook/internal/diag"
	"brook/internal/ir"
	"brook/internal/source"
)

// ErrInternal marks generator invariant violations, never user errors.
var ErrInternal = errors.New("irgen: internal error")

type Options struct {
	// Registry resolves external functions; nil means builtins.Standard().
	Registry builtins.Registry
}

// Generator holds the state of one compilation. It is not safe for concurrent use.
type Generator struct {
	ast    *ast.Builder
	src    *source.File
	reg    builtins.Registry
	obj    *ir.Object
	stacks [][]uint8 // смоделированный стек для каждого блока
	cur    int       // текущий блок, -1 если закрыт терминатором
	scopes Scopes

	externs map[string]ir.FuncID
	temps   int
}

// Generate lowers file into a new object. On error no object is returned.
func Generate(b *ast.Builder, file ast.FileID, src *source.File, opts Options) (*ir.Object, error) {
	g := New(b, src, opts)
	return g.Lower(file)
}

func New(b *ast.Builder, src *source.File, opts Options) *Generator {
	reg := opts.Registry
	if reg == nil {
		reg = builtins.Standard()
	}
	return &Generator{
		ast:     b,
		src:     src,
		reg:     reg,
		obj:     &ir.Object{},
		cur:     -1,
		externs: make(map[string]ir.FuncID),
	}
}

// Lower generates the program body of file.
func (g *Generator) Lower(file ast.FileID) (*ir.Object, error) {
	f := g.ast.Files.Get(file)
	if f == nil {
		return nil, fmt.Errorf("%w: unknown file %d", ErrInternal, file)
	}

	g.scopes.Enter(ScopeRoot)
	defer g.scopes.Exit()

	g.enter(g.appendBlock(nil))
	for _, stmtID := range f.Stmts {
		if err := g.lowerStmt(stmtID); err != nil {
			return nil, err
		}
	}
	if g.cur >= 0 {
		if err := g.emit(ir.Ret()); err != nil {
			return nil, err
		}
	}

	if err := ir.Validate(g.obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return g.obj, nil
}

// appendBlock allocates a new empty block taking arguments of the given widths.
func (g *Generator) appendBlock(argSizes []uint8) ir.BlockID {
	id := ir.BlockID(len(g.obj.Blocks)) //nolint:gosec // blocks are allocated one at a time
	g.obj.Blocks = append(g.obj.Blocks, ir.Block{ArgSizes: slices.Clone(argSizes)})
	g.stacks = append(g.stacks, slices.Clone(argSizes))
	return id
}

// enter moves the insertion point to the end of block id.
func (g *Generator) enter(id ir.BlockID) {
	g.cur = int(id)
}

func (g *Generator) stack() []uint8 {
	return g.stacks[g.cur]
}

// top returns the offset and width of the top stack slot.
func (g *Generator) top() (uint32, uint8) {
	st := g.stack()
	off, err := safecast.Conv[uint32](len(st) - 1)
	if err != nil {
		panic(fmt.Errorf("stack offset overflow: %w", err))
	}
	return off, st[len(st)-1]
}

// emit appends in to the current block and applies its stack effect.
// A terminator closes the block.
func (g *Generator) emit(in ir.Instr) error {
	if g.cur < 0 {
		return fmt.Errorf("%w: emit %s into a closed block", ErrInternal, in)
	}
	st := g.stacks[g.cur]
	need := func(n int) error {
		if len(st) < n {
			return fmt.Errorf("%w: bb%d: %s needs %d values, stack has %d", ErrInternal, g.cur, in, n, len(st))
		}
		return nil
	}

	switch {
	case in.Op == ir.OpPushConst:
		st = append(st, in.Size)
	case in.Op == ir.OpDup:
		if err := need(1); err != nil {
			return err
		}
		st = append(st, st[len(st)-1])
	case in.Op == ir.OpDupAt:
		if int(in.Offset) >= len(st) {
			return fmt.Errorf("%w: bb%d: dupat %d past stack of %d", ErrInternal, g.cur, in.Offset, len(st))
		}
		st = append(st, st[in.Offset])
	case in.Op == ir.OpCast:
		if err := need(1); err != nil {
			return err
		}
		st[len(st)-1] = in.Size
	case in.Op == ir.OpSwap:
		if err := need(2); err != nil {
			return err
		}
		n := len(st)
		st[n-1], st[n-2] = st[n-2], st[n-1]
	case in.Op.IsBinary():
		if err := need(2); err != nil {
			return err
		}
		st = st[:len(st)-1]
	case in.Op == ir.OpNeg, in.Op == ir.OpRetVal:
		if err := need(1); err != nil {
			return err
		}
	case in.Op == ir.OpCall:
		fn := g.obj.Extern(in.Func)
		if fn == nil {
			return fmt.Errorf("%w: call of undeclared function f%d", ErrInternal, in.Func)
		}
		if err := need(int(fn.Arity)); err != nil {
			return err
		}
		st = st[:len(st)-int(fn.Arity)]
		if fn.Returns {
			st = append(st, ir.DefaultWidth)
		}
	case in.Op == ir.OpBr:
		if err := g.checkEdge(st, in.Target); err != nil {
			return err
		}
	case in.Op == ir.OpBrZ:
		if err := need(1); err != nil {
			return err
		}
		st = st[:len(st)-1]
		if err := g.checkEdge(st, in.Target); err != nil {
			return err
		}
		if err := g.checkEdge(st, in.Else); err != nil {
			return err
		}
	}

	g.stacks[g.cur] = st
	blk := &g.obj.Blocks[g.cur]
	blk.Instrs = append(blk.Instrs, in)
	if in.Op.IsTerminator() {
		g.cur = -1
	}
	return nil
}

// checkEdge enforces that a branch passes exactly what the target declares.
func (g *Generator) checkEdge(st []uint8, target ir.BlockID) error {
	tb := g.obj.Block(target)
	if tb == nil {
		return fmt.Errorf("%w: branch to unknown bb%d", ErrInternal, target)
	}
	argc := tb.Argc()
	if len(st) < argc || !slices.Equal(st[len(st)-argc:], tb.ArgSizes) {
		return fmt.Errorf("%w: bb%d: branch to bb%d passes %v, block takes %v",
			ErrInternal, g.cur, target, st[max(0, len(st)-argc):], tb.ArgSizes)
	}
	return nil
}

// liveSizes returns the widths of the variables in the outermost depth scopes.
func (g *Generator) liveSizes(depth int) []uint8 {
	var sizes []uint8
	g.scopes.live(depth, func(b *binding) { sizes = append(sizes, b.v.Size) })
	return sizes
}

// passVars duplicates every live variable of the outermost depth scopes onto the stack.
func (g *Generator) passVars(depth int) error {
	var err error
	g.scopes.live(depth, func(b *binding) {
		if err == nil {
			err = g.emit(ir.DupAt(b.v.Offset))
		}
	})
	return err
}

// receiveVars rebinds live variables to the arguments of the block just entered.
func (g *Generator) receiveVars(depth int) {
	var slot uint32
	g.scopes.live(depth, func(b *binding) {
		b.v.Offset = slot
		slot++
	})
}

// branch passes the live variables and jumps to target.
func (g *Generator) branch(depth int, target ir.BlockID) error {
	if err := g.passVars(depth); err != nil {
		return err
	}
	return g.emit(ir.Br(target))
}

// ensureOpen makes sure there is a block to emit into. Code following a
// terminator goes into a fresh block without predecessors.
func (g *Generator) ensureOpen() {
	if g.cur >= 0 {
		return
	}
	depth := g.scopes.Len()
	g.enter(g.appendBlock(g.liveSizes(depth)))
	g.receiveVars(depth)
}

// declareExtern returns the id of an external function, adding it to the
// object's table on first use.
func (g *Generator) declareExtern(sig builtins.Signature) ir.FuncID {
	if id, ok := g.externs[sig.Name]; ok {
		return id
	}
	id := ir.FuncID(len(g.obj.Externs)) //nolint:gosec // bounded by the registry size
	g.obj.Externs = append(g.obj.Externs, ir.ExternFunc{Name: sig.Name, Arity: sig.Arity, Returns: sig.Returns})
	g.externs[sig.Name] = id
	return id
}

func (g *Generator) errAt(code diag.Code, sp source.Span, msg string) error {
	return diag.NewError(g.src, code, sp, msg)
}

// varName нормализует идентификатор (NFC), чтобы разные записи одного имени совпадали.
func varName(name string) string {
	return norm.NFC.String(name)
}

// widthOf maps a type annotation to a bit width.
func widthOf(typeName string) (uint8, bool) {
	switch typeName {
	case "i8":
		return 8, true
	case "i16":
		return 16, true
	case "i32":
		return 32, true
	case "i64":
		return 64, true
	case "i128":
		return 128, true
	default:
		return 0, false
	}
}
