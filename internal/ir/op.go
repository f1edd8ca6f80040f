package ir

// Op enumerates stack-machine instructions. The numeric value is the opcode
// byte stored in the binary container, so existing values must not change.
type Op uint8

const (
	// OpInvalid is never emitted.
	OpInvalid Op = iota
	// OpPushConst pushes a sized integer constant.
	OpPushConst
	// OpDup duplicates the top of the stack.
	OpDup
	// OpDupAt pushes a copy of the slot at Offset, counted from the block's stack bottom.
	OpDupAt
	// OpCast changes the width of the top value to Size bits.
	OpCast
	// OpSwap exchanges the two top values.
	OpSwap
	// OpBr jumps to Target.
	OpBr
	// OpBrZ pops a condition and jumps to Target when it is zero, to Else otherwise.
	OpBrZ
	// OpCall calls external function Func.
	OpCall
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpShl
	OpShr
	// OpNeg negates the top value.
	OpNeg
	// OpRet returns without a value.
	OpRet
	// OpRetVal returns the top value.
	OpRetVal

	opCount
)

var opNames = [...]string{
	OpInvalid:   "invalid",
	OpPushConst: "push",
	OpDup:       "dup",
	OpDupAt:     "dupat",
	OpCast:      "cast",
	OpSwap:      "swap",
	OpBr:        "br",
	OpBrZ:       "brz",
	OpCall:      "call",
	OpAdd:       "add",
	OpSub:       "sub",
	OpMul:       "mul",
	OpDiv:       "div",
	OpEq:        "eq",
	OpNe:        "ne",
	OpLt:        "lt",
	OpLe:        "le",
	OpGt:        "gt",
	OpGe:        "ge",
	OpShl:       "shl",
	OpShr:       "shr",
	OpNeg:       "neg",
	OpRet:       "ret",
	OpRetVal:    "retval",
}

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return "op?"
}

// Valid reports whether op is a known, emittable opcode.
func (op Op) Valid() bool {
	return op > OpInvalid && op < opCount
}

// IsTerminator reports whether op ends a block.
func (op Op) IsTerminator() bool {
	switch op {
	case OpBr, OpBrZ, OpRet, OpRetVal:
		return true
	default:
		return false
	}
}

// IsBinary reports whether op consumes two operands and produces one.
func (op Op) IsBinary() bool {
	return op >= OpAdd && op <= OpShr
}

// LegalWidth reports whether bits is one of the integer widths the machine supports.
func LegalWidth(bits uint8) bool {
	switch bits {
	case 8, 16, 32, 64, 128:
		return true
	default:
		return false
	}
}

// DefaultWidth is the width of literals and of uninitialised unannotated variables.
const DefaultWidth uint8 = 64
