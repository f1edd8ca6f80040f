package irgen

import (
	"brook/internal/ast"
	"brook/internal/ir"
)

// lowerBlock: новая область видимости; хвост, если есть, оставляет значение на вершине.
func (g *Generator) lowerBlock(data *ast.ExprBlockData, want bool) error {
	g.scopes.Enter(ScopeBlock)
	defer g.scopes.Exit()

	for _, stmtID := range data.Stmts {
		if err := g.lowerStmt(stmtID); err != nil {
			return err
		}
	}
	if data.Tail.IsValid() {
		return g.lowerExpr(data.Tail, want)
	}
	return nil
}

// lowerScoped lowers an if arm or loop body inside its own scope unless it
// is a block, which opens one itself.
func (g *Generator) lowerScoped(id ast.ExprID, want bool) error {
	if g.ast.Exprs.Get(id).Kind == ast.ExprBlock {
		return g.lowerExpr(id, want)
	}
	g.scopes.Enter(ScopeBlock)
	defer g.scopes.Exit()
	return g.lowerExpr(id, want)
}

// lowerIf:
//
//	cond; passVars; dupat cond; brz else|after, then
//	then:  receive; arm; passVars [dupat value]; br after
//	else:  receive; arm; passVars [dupat value]; br after
//	after: receive [value]
//
// With a value the join block takes it as one extra trailing argument; its
// width is the then arm's, the else value is cast to match.
func (g *Generator) lowerIf(data *ast.ExprIfData, withValue bool) error {
	if err := g.lowerValue(data.Cond); err != nil {
		return err
	}
	condOff, _ := g.top()

	depth := g.scopes.Len()
	vars := g.liveSizes(depth)
	thenB := g.appendBlock(vars)

	after, hasAfter := ir.BlockID(0), false
	falseB := ir.BlockID(0)
	if data.Else.IsValid() {
		falseB = g.appendBlock(vars)
	} else {
		after, hasAfter = g.appendBlock(vars), true
		falseB = after
	}

	if err := g.passVars(depth); err != nil {
		return err
	}
	if err := g.emit(ir.DupAt(condOff)); err != nil {
		return err
	}
	if err := g.emit(ir.BrZ(falseB, thenB)); err != nil {
		return err
	}

	valueSize := uint8(0)
	join := func() error {
		if g.cur < 0 {
			// ветка завершилась return/break/continue
			return nil
		}
		var valOff uint32
		if withValue {
			off, size := g.top()
			if valueSize == 0 {
				valueSize = size
			} else if err := g.castTop(valueSize); err != nil {
				return err
			}
			valOff = off
		}
		if !hasAfter {
			args := vars
			if withValue {
				args = append(append([]uint8(nil), vars...), valueSize)
			}
			after, hasAfter = g.appendBlock(args), true
		}
		if err := g.passVars(depth); err != nil {
			return err
		}
		if withValue {
			if err := g.emit(ir.DupAt(valOff)); err != nil {
				return err
			}
		}
		return g.emit(ir.Br(after))
	}

	g.enter(thenB)
	g.receiveVars(depth)
	if err := g.lowerScoped(data.Then, withValue); err != nil {
		return err
	}
	if err := join(); err != nil {
		return err
	}

	if data.Else.IsValid() {
		g.enter(falseB)
		g.receiveVars(depth)
		if err := g.lowerScoped(data.Else, withValue); err != nil {
			return err
		}
		if err := join(); err != nil {
			return err
		}
	}

	if hasAfter {
		g.enter(after)
		g.receiveVars(depth)
	}
	// без hasAfter обе ветки закрыты: дальше: недостижимый код, см. ensureOpen
	return nil
}

// lowerWhile:
//
//	passVars; br header
//	header: receive; cond; passVars; dupat cond; brz exit, body
//	body:   receive; body; passVars; br header
//	exit:   receive
func (g *Generator) lowerWhile(data *ast.ExprWhileData) error {
	depth := g.scopes.Len()
	vars := g.liveSizes(depth)
	header := g.appendBlock(vars)
	if err := g.branch(depth, header); err != nil {
		return err
	}

	g.enter(header)
	g.receiveVars(depth)
	if err := g.lowerValue(data.Cond); err != nil {
		return err
	}
	condOff, _ := g.top()
	body := g.appendBlock(vars)
	exit := g.appendBlock(vars)
	if err := g.passVars(depth); err != nil {
		return err
	}
	if err := g.emit(ir.DupAt(condOff)); err != nil {
		return err
	}
	if err := g.emit(ir.BrZ(exit, body)); err != nil {
		return err
	}

	g.enter(body)
	g.receiveVars(depth)
	if err := g.lowerLoopBody(data.Body, header, exit, depth); err != nil {
		return err
	}

	g.enter(exit)
	g.receiveVars(depth)
	return nil
}

// lowerLoop:
//
//	passVars; br header
//	header: receive; body; passVars; br header
//	exit:   receive (only reachable through break)
func (g *Generator) lowerLoop(data *ast.ExprLoopData) error {
	depth := g.scopes.Len()
	vars := g.liveSizes(depth)
	header := g.appendBlock(vars)
	exit := g.appendBlock(vars)
	if err := g.branch(depth, header); err != nil {
		return err
	}

	g.enter(header)
	g.receiveVars(depth)
	if err := g.lowerLoopBody(data.Body, header, exit, depth); err != nil {
		return err
	}

	g.enter(exit)
	g.receiveVars(depth)
	return nil
}

// lowerLoopBody lowers body inside a loop scope and closes it with the back edge.
func (g *Generator) lowerLoopBody(body ast.ExprID, header, exit ir.BlockID, depth int) error {
	g.scopes.enterLoop(header, exit)
	err := g.lowerScoped(body, false)
	g.scopes.Exit()
	if err != nil {
		return err
	}
	if g.cur < 0 {
		return nil
	}
	return g.branch(depth, header)
}
