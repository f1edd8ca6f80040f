package parser

import (
	"brook/internal/ast"
	"brook/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет.
const (
	precCompare        = 0 // == != < <= > >= << >>
	precAdditive       = 1 // + -
	precMultiplicative = 2 // * /
)

func binaryOpFor(k token.Kind) (ast.ExprBinaryOp, bool) {
	switch k {
	case token.Plus:
		return ast.ExprBinaryAdd, true
	case token.Minus:
		return ast.ExprBinarySub, true
	case token.Star:
		return ast.ExprBinaryMul, true
	case token.Slash:
		return ast.ExprBinaryDiv, true
	case token.EqEq:
		return ast.ExprBinaryEq, true
	case token.BangEq:
		return ast.ExprBinaryNe, true
	case token.Lt:
		return ast.ExprBinaryLt, true
	case token.LtEq:
		return ast.ExprBinaryLe, true
	case token.Gt:
		return ast.ExprBinaryGt, true
	case token.GtEq:
		return ast.ExprBinaryGe, true
	case token.Shl:
		return ast.ExprBinaryShl, true
	case token.Shr:
		return ast.ExprBinaryShr, true
	default:
		return 0, false
	}
}

func precedence(op ast.ExprBinaryOp) int {
	switch op {
	case ast.ExprBinaryMul, ast.ExprBinaryDiv:
		return precMultiplicative
	case ast.ExprBinaryAdd, ast.ExprBinarySub:
		return precAdditive
	default:
		return precCompare
	}
}
