package irgen

import (
	"fmt"
	"slices"
	"strconv"

	"brook/internal/ast"
	"brook/internal/diag"
	"brook/internal/ir"
)

// lowerValue lowers an expression whose value is needed.
func (g *Generator) lowerValue(id ast.ExprID) error {
	if !g.producesValue(id) {
		return g.errAt(diag.SemaNoValue, g.ast.Exprs.Get(id).Span, "expression has no value")
	}
	return g.lowerExpr(id, true)
}

// lowerExpr lowers id. want tells value-carrying control flow (if/else)
// whether the result has to be carried into the join block.
func (g *Generator) lowerExpr(id ast.ExprID, want bool) error {
	expr := g.ast.Exprs.Get(id)
	if expr == nil {
		return fmt.Errorf("%w: unknown expression %d", ErrInternal, id)
	}
	g.ensureOpen()

	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := g.ast.Exprs.Literal(id)
		size := ir.DefaultWidth
		if !lit.Value.FitsInt64() {
			size = 128
		}
		return g.emit(ir.PushConst(size, lit.Value))

	case ast.ExprIdent:
		ident, _ := g.ast.Exprs.Ident(id)
		v, ok := g.scopes.Resolve(varName(ident.Name))
		if !ok {
			return g.errAt(diag.SemaUndeclaredVariable, expr.Span, fmt.Sprintf("undeclared variable `%s`", ident.Name))
		}
		return g.emit(ir.DupAt(v.Offset))

	case ast.ExprGroup:
		data, _ := g.ast.Exprs.Group(id)
		return g.lowerExpr(data.Inner, want)

	case ast.ExprVoid:
		return nil

	case ast.ExprUnary:
		data, _ := g.ast.Exprs.Unary(id)
		if err := g.lowerValue(data.Operand); err != nil {
			return err
		}
		if data.Op == ast.ExprUnaryMinus {
			return g.emit(ir.Neg())
		}
		return nil

	case ast.ExprBinary:
		data, _ := g.ast.Exprs.Binary(id)
		return g.lowerBinary(data)

	case ast.ExprAssign:
		data, _ := g.ast.Exprs.Assign(id)
		return g.lowerAssign(data)

	case ast.ExprCall:
		data, _ := g.ast.Exprs.Call(id)
		return g.lowerCall(expr, data)

	case ast.ExprBlock:
		data, _ := g.ast.Exprs.Block(id)
		return g.lowerBlock(data, want)

	case ast.ExprIf:
		data, _ := g.ast.Exprs.If(id)
		return g.lowerIf(data, want && g.producesValue(id))

	case ast.ExprWhile:
		data, _ := g.ast.Exprs.While(id)
		return g.lowerWhile(data)

	case ast.ExprLoop:
		data, _ := g.ast.Exprs.Loop(id)
		return g.lowerLoop(data)

	default:
		return fmt.Errorf("%w: expression kind %s", ErrInternal, expr.Kind)
	}
}

var binaryOps = map[ast.ExprBinaryOp]ir.Op{
	ast.ExprBinaryAdd: ir.OpAdd,
	ast.ExprBinarySub: ir.OpSub,
	ast.ExprBinaryMul: ir.OpMul,
	ast.ExprBinaryDiv: ir.OpDiv,
	ast.ExprBinaryEq:  ir.OpEq,
	ast.ExprBinaryNe:  ir.OpNe,
	ast.ExprBinaryLt:  ir.OpLt,
	ast.ExprBinaryLe:  ir.OpLe,
	ast.ExprBinaryGt:  ir.OpGt,
	ast.ExprBinaryGe:  ir.OpGe,
	ast.ExprBinaryShl: ir.OpShl,
	ast.ExprBinaryShr: ir.OpShr,
}

// lowerBinary: left, right, выравнивание ширины, операция.
// Если правая часть уходит в другие блоки, левое значение сохраняется во
// временной переменной, чтобы пережить переход.
func (g *Generator) lowerBinary(data *ast.ExprBinaryData) error {
	if err := g.lowerValue(data.Left); err != nil {
		return err
	}
	if g.hasControlFlow(data.Right) {
		if err := g.spilled(func(fetch func() error) error {
			if err := g.lowerValue(data.Right); err != nil {
				return err
			}
			if err := fetch(); err != nil {
				return err
			}
			return g.emit(ir.Swap())
		}); err != nil {
			return err
		}
	} else if err := g.lowerValue(data.Right); err != nil {
		return err
	}

	st := g.stack()
	ls, rs := st[len(st)-2], st[len(st)-1]
	switch {
	case ls < rs:
		for _, in := range []ir.Instr{ir.Swap(), ir.Cast(rs), ir.Swap()} {
			if err := g.emit(in); err != nil {
				return err
			}
		}
	case rs < ls:
		if err := g.emit(ir.Cast(ls)); err != nil {
			return err
		}
	}
	return g.emit(ir.Binary(binaryOps[data.Op]))
}

// spilled binds the current top value to a hidden variable for the duration
// of body; fetch pushes its current value.
func (g *Generator) spilled(body func(fetch func() error) error) error {
	name := "$" + strconv.Itoa(g.temps)
	g.temps++
	off, size := g.top()

	g.scopes.Enter(ScopeBlock)
	defer g.scopes.Exit()
	g.scopes.Declare(name, Var{Offset: off, Size: size})

	return body(func() error {
		v, _ := g.scopes.Resolve(name)
		return g.emit(ir.DupAt(v.Offset))
	})
}

// lowerAssign: новое значение на вершине стека становится слотом переменной.
func (g *Generator) lowerAssign(data *ast.ExprAssignData) error {
	name := varName(data.Name)
	v, ok := g.scopes.Resolve(name)
	if !ok {
		return g.errAt(diag.SemaUndeclaredVariable, data.NameSpan, fmt.Sprintf("undeclared variable `%s`", data.Name))
	}
	if err := g.lowerValue(data.Value); err != nil {
		return err
	}
	if err := g.castTop(v.Size); err != nil {
		return err
	}
	off, _ := g.top()
	g.scopes.Rebind(name, off)
	return nil
}

// lowerCall: аргументы приводятся к 64 битам, функция объявляется при первом вызове.
func (g *Generator) lowerCall(expr *ast.Expr, data *ast.ExprCallData) error {
	sig, ok := g.reg.Lookup(varName(data.Name))
	if !ok {
		return g.errAt(diag.SemaUnknownFunction, data.NameSpan, fmt.Sprintf("unknown function `%s`", data.Name))
	}
	if len(data.Args) != int(sig.Arity) {
		return g.errAt(diag.SemaArgCount, expr.Span,
			fmt.Sprintf("function `%s` takes %d arguments, %d given", sig.Name, sig.Arity, len(data.Args)))
	}
	if err := g.lowerArgs(data.Args); err != nil {
		return err
	}
	return g.emit(ir.Call(g.declareExtern(sig)))
}

func (g *Generator) lowerArgs(args []ast.ExprID) error {
	spill := false
	for _, arg := range args[min(1, len(args)):] {
		spill = spill || g.hasControlFlow(arg)
	}
	if spill {
		return g.lowerSpilledArgs(args, nil)
	}
	for _, arg := range args {
		if err := g.lowerArg(arg); err != nil {
			return err
		}
	}
	return nil
}

// lowerSpilledArgs keeps every evaluated argument in a hidden variable and
// pushes them all, in order, once the last one is computed.
func (g *Generator) lowerSpilledArgs(args []ast.ExprID, fetches []func() error) error {
	if len(args) == 0 {
		for _, fetch := range fetches {
			if err := fetch(); err != nil {
				return err
			}
		}
		return nil
	}
	if err := g.lowerArg(args[0]); err != nil {
		return err
	}
	return g.spilled(func(fetch func() error) error {
		return g.lowerSpilledArgs(args[1:], append(slices.Clip(fetches), fetch))
	})
}

func (g *Generator) lowerArg(arg ast.ExprID) error {
	if err := g.lowerValue(arg); err != nil {
		return err
	}
	return g.castTop(ir.DefaultWidth)
}
