package irgen

import (
	"brook/internal/ast"
)

// producesValue statically decides whether lowering id leaves a value on the stack.
func (g *Generator) producesValue(id ast.ExprID) bool {
	expr := g.ast.Exprs.Get(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ast.ExprLit, ast.ExprIdent, ast.ExprUnary, ast.ExprBinary:
		return true
	case ast.ExprVoid, ast.ExprAssign, ast.ExprWhile, ast.ExprLoop:
		return false
	case ast.ExprGroup:
		data, _ := g.ast.Exprs.Group(id)
		return g.producesValue(data.Inner)
	case ast.ExprCall:
		data, _ := g.ast.Exprs.Call(id)
		sig, ok := g.reg.Lookup(varName(data.Name))
		// неизвестная функция: ошибка появится при генерации
		return !ok || sig.Returns
	case ast.ExprBlock:
		data, _ := g.ast.Exprs.Block(id)
		return data.Tail.IsValid() && g.producesValue(data.Tail)
	case ast.ExprIf:
		data, _ := g.ast.Exprs.If(id)
		return data.Else.IsValid() && g.producesValue(data.Then) && g.producesValue(data.Else)
	default:
		return false
	}
}

// hasControlFlow reports whether lowering id may leave the current block.
func (g *Generator) hasControlFlow(id ast.ExprID) bool {
	expr := g.ast.Exprs.Get(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ast.ExprBlock, ast.ExprIf, ast.ExprWhile, ast.ExprLoop:
		return true
	case ast.ExprGroup:
		data, _ := g.ast.Exprs.Group(id)
		return g.hasControlFlow(data.Inner)
	case ast.ExprUnary:
		data, _ := g.ast.Exprs.Unary(id)
		return g.hasControlFlow(data.Operand)
	case ast.ExprBinary:
		data, _ := g.ast.Exprs.Binary(id)
		return g.hasControlFlow(data.Left) || g.hasControlFlow(data.Right)
	case ast.ExprAssign:
		data, _ := g.ast.Exprs.Assign(id)
		return g.hasControlFlow(data.Value)
	case ast.ExprCall:
		data, _ := g.ast.Exprs.Call(id)
		for _, arg := range data.Args {
			if g.hasControlFlow(arg) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
