package irgen

import (
	"fmt"

	"brook/internal/ast"
	"brook/internal/bignum"
	"brook/internal/diag"
	"brook/internal/ir"
)

func (g *Generator) lowerStmt(id ast.StmtID) error {
	stmt := g.ast.Stmts.Get(id)
	if stmt == nil {
		return fmt.Errorf("%w: unknown statement %d", ErrInternal, id)
	}
	g.ensureOpen()

	switch stmt.Kind {
	case ast.StmtLet:
		let, _ := g.ast.Stmts.Let(id)
		return g.lowerLet(let)
	case ast.StmtReturn:
		ret, _ := g.ast.Stmts.Return(id)
		return g.lowerReturn(ret)
	case ast.StmtBreak, ast.StmtContinue:
		return g.lowerLoopControl(stmt)
	case ast.StmtNoop:
		return nil
	default:
		es, ok := g.ast.Stmts.Expr(id)
		if !ok {
			return fmt.Errorf("%w: statement kind %s", ErrInternal, stmt.Kind)
		}
		return g.lowerExpr(es.Expr, false)
	}
}

// lowerLet: значение (или ноль нужной ширины) остаётся на стеке и становится слотом переменной.
func (g *Generator) lowerLet(let *ast.LetStmt) error {
	size := ir.DefaultWidth
	if let.Type != "" {
		w, ok := widthOf(let.Type)
		if !ok {
			return g.errAt(diag.SemaUnknownType, let.TypeSpan, fmt.Sprintf("unknown type `%s`", let.Type))
		}
		size = w
	}

	if let.Value.IsValid() {
		if err := g.lowerValue(let.Value); err != nil {
			return err
		}
		// без аннотации переменная берёт ширину значения
		if let.Type == "" {
			_, size = g.top()
		}
		if err := g.castTop(size); err != nil {
			return err
		}
	} else if err := g.emit(ir.PushConst(size, bignum.Int128{})); err != nil {
		return err
	}

	name := varName(let.Name)
	off, _ := g.top()
	if !g.scopes.Declare(name, Var{Offset: off, Size: size}) {
		return g.errAt(diag.SemaRedeclaredVariable, let.NameSpan, fmt.Sprintf("variable `%s` is already declared in this scope", let.Name))
	}
	return nil
}

// return (): без значения, иначе retval.
func (g *Generator) lowerReturn(ret *ast.ReturnStmt) error {
	if expr := g.ast.Exprs.Get(ret.Value); expr != nil && expr.Kind == ast.ExprVoid {
		return g.emit(ir.Ret())
	}
	if err := g.lowerValue(ret.Value); err != nil {
		return err
	}
	return g.emit(ir.RetVal())
}

// break/continue передают переменные, видимые снаружи цикла.
func (g *Generator) lowerLoopControl(stmt *ast.Stmt) error {
	depth, loop, ok := g.scopes.innermostLoop()
	if !ok {
		kw := "break"
		if stmt.Kind == ast.StmtContinue {
			kw = "continue"
		}
		return g.errAt(diag.SemaNotInLoop, stmt.Span, fmt.Sprintf("`%s` outside of a loop", kw))
	}
	target := loop.exit
	if stmt.Kind == ast.StmtContinue {
		target = loop.header
	}
	return g.branch(depth, target)
}

// castTop widens or narrows the top value to size bits.
func (g *Generator) castTop(size uint8) error {
	if _, cur := g.top(); cur == size {
		return nil
	}
	return g.emit(ir.Cast(size))
}
