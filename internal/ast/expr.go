package ast

import (
	"brook/internal/bignum"
	"brook/internal/source"
)

type ExprKind uint8

const (
	ExprBlock ExprKind = iota
	ExprIf
	ExprWhile
	ExprLoop
	ExprAssign
	ExprBinary
	ExprUnary
	ExprLit
	ExprIdent
	ExprGroup
	ExprVoid
	ExprCall
)

var exprKindNames = [...]string{
	ExprBlock:  "Block",
	ExprIf:     "If",
	ExprWhile:  "While",
	ExprLoop:   "Loop",
	ExprAssign: "Assign",
	ExprBinary: "Binary",
	ExprUnary:  "Unary",
	ExprLit:    "Lit",
	ExprIdent:  "Ident",
	ExprGroup:  "Group",
	ExprVoid:   "Void",
	ExprCall:   "Call",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr?"
}

// BlockLike reports whether an expression of this kind may stand as a
// statement without a trailing semicolon.
func (k ExprKind) BlockLike() bool {
	switch k {
	case ExprBlock, ExprIf, ExprWhile, ExprLoop:
		return true
	default:
		return false
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryEq
	ExprBinaryNe
	ExprBinaryLt
	ExprBinaryLe
	ExprBinaryGt
	ExprBinaryGe
	ExprBinaryShl
	ExprBinaryShr
)

var binaryOpSpelling = [...]string{
	ExprBinaryAdd: "+",
	ExprBinarySub: "-",
	ExprBinaryMul: "*",
	ExprBinaryDiv: "/",
	ExprBinaryEq:  "==",
	ExprBinaryNe:  "!=",
	ExprBinaryLt:  "<",
	ExprBinaryLe:  "<=",
	ExprBinaryGt:  ">",
	ExprBinaryGe:  ">=",
	ExprBinaryShl: "<<",
	ExprBinaryShr: ">>",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpSpelling) {
		return binaryOpSpelling[op]
	}
	return "?"
}

type ExprUnaryOp uint8

const (
	ExprUnaryPlus ExprUnaryOp = iota
	ExprUnaryMinus
)

func (op ExprUnaryOp) String() string {
	if op == ExprUnaryMinus {
		return "-"
	}
	return "+"
}

type ExprBlockData struct {
	Stmts []StmtID
	Tail  ExprID // NoExprID when the block has no value tail
}

type ExprIfData struct {
	Cond ExprID
	Then ExprID
	Else ExprID // NoExprID without else
}

type ExprWhileData struct {
	Cond ExprID
	Body ExprID
}

type ExprLoopData struct {
	Body ExprID
}

type ExprAssignData struct {
	Name     string
	NameSpan source.Span
	Value    ExprID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprLitData struct {
	Value bignum.Int128
	Text  string
}

type ExprIdentData struct {
	Name string
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprCallData struct {
	Name     string
	NameSpan source.Span
	Args     []ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Blocks   *Arena[ExprBlockData]
	Ifs      *Arena[ExprIfData]
	Whiles   *Arena[ExprWhileData]
	Loops    *Arena[ExprLoopData]
	Assigns  *Arena[ExprAssignData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Literals *Arena[ExprLitData]
	Idents   *Arena[ExprIdentData]
	Groups   *Arena[ExprGroupData]
	Calls    *Arena[ExprCallData]
}

// NewExprs creates expression arenas preallocated with capHint slots each.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Blocks:   NewArena[ExprBlockData](capHint),
		Ifs:      NewArena[ExprIfData](capHint),
		Whiles:   NewArena[ExprWhileData](capHint),
		Loops:    NewArena[ExprLoopData](capHint),
		Assigns:  NewArena[ExprAssignData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
		Unaries:  NewArena[ExprUnaryData](capHint),
		Literals: NewArena[ExprLitData](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Groups:   NewArena[ExprGroupData](capHint),
		Calls:    NewArena[ExprCallData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewBlock(span source.Span, stmts []StmtID, tail ExprID) ExprID {
	return e.new(ExprBlock, span, PayloadID(e.Blocks.Allocate(ExprBlockData{Stmts: stmts, Tail: tail})))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprIf, span, PayloadID(e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els})))
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	p, ok := e.payload(id, ExprIf)
	if !ok {
		return nil, false
	}
	return e.Ifs.Get(p), true
}

func (e *Exprs) NewWhile(span source.Span, cond, body ExprID) ExprID {
	return e.new(ExprWhile, span, PayloadID(e.Whiles.Allocate(ExprWhileData{Cond: cond, Body: body})))
}

func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	p, ok := e.payload(id, ExprWhile)
	if !ok {
		return nil, false
	}
	return e.Whiles.Get(p), true
}

func (e *Exprs) NewLoop(span source.Span, body ExprID) ExprID {
	return e.new(ExprLoop, span, PayloadID(e.Loops.Allocate(ExprLoopData{Body: body})))
}

func (e *Exprs) Loop(id ExprID) (*ExprLoopData, bool) {
	p, ok := e.payload(id, ExprLoop)
	if !ok {
		return nil, false
	}
	return e.Loops.Get(p), true
}

func (e *Exprs) NewAssign(span source.Span, name string, nameSpan source.Span, value ExprID) ExprID {
	return e.new(ExprAssign, span, PayloadID(e.Assigns.Allocate(ExprAssignData{Name: name, NameSpan: nameSpan, Value: value})))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, PayloadID(e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, PayloadID(e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewLiteral(span source.Span, value bignum.Int128, text string) ExprID {
	return e.new(ExprLit, span, PayloadID(e.Literals.Allocate(ExprLitData{Value: value, Text: text})))
}

func (e *Exprs) Literal(id ExprID) (*ExprLitData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, PayloadID(e.Idents.Allocate(ExprIdentData{Name: name})))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(ExprGroup, span, PayloadID(e.Groups.Allocate(ExprGroupData{Inner: inner})))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	p, ok := e.payload(id, ExprGroup)
	if !ok {
		return nil, false
	}
	return e.Groups.Get(p), true
}

// NewVoid: литерал `()`.
func (e *Exprs) NewVoid(span source.Span) ExprID {
	return e.new(ExprVoid, span, NoPayloadID)
}

// NewCall creates a call of an external function by name.
func (e *Exprs) NewCall(span source.Span, name string, nameSpan source.Span, args []ExprID) ExprID {
	return e.new(ExprCall, span, PayloadID(e.Calls.Allocate(ExprCallData{Name: name, NameSpan: nameSpan, Args: args})))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}
