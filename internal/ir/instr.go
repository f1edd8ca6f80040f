package ir

import (
	"fmt"

	"brook/internal/bignum"
)

type (
	BlockID uint32
	FuncID  uint32
)

// Instr is one stack-machine instruction. Only the fields its Op uses are set.
type Instr struct {
	Op     Op
	Size   uint8         // PushConst, Cast
	Value  bignum.Int128 // PushConst
	Offset uint32        // DupAt
	Target BlockID       // Br; BrZ when zero
	Else   BlockID       // BrZ when non-zero
	Func   FuncID        // Call
}

func PushConst(size uint8, v bignum.Int128) Instr { return Instr{Op: OpPushConst, Size: size, Value: v} }
func Dup() Instr                                  { return Instr{Op: OpDup} }
func DupAt(offset uint32) Instr                   { return Instr{Op: OpDupAt, Offset: offset} }
func Cast(size uint8) Instr                       { return Instr{Op: OpCast, Size: size} }
func Swap() Instr                                 { return Instr{Op: OpSwap} }
func Br(target BlockID) Instr                     { return Instr{Op: OpBr, Target: target} }
func BrZ(zero, nonZero BlockID) Instr             { return Instr{Op: OpBrZ, Target: zero, Else: nonZero} }
func Call(fn FuncID) Instr                        { return Instr{Op: OpCall, Func: fn} }
func Neg() Instr                                  { return Instr{Op: OpNeg} }
func Ret() Instr                                  { return Instr{Op: OpRet} }
func RetVal() Instr                               { return Instr{Op: OpRetVal} }

// Binary builds an arithmetic, comparison or shift instruction.
func Binary(op Op) Instr {
	if !op.IsBinary() {
		panic(fmt.Sprintf("ir: %s is not a binary op", op))
	}
	return Instr{Op: op}
}

// Successors returns the blocks a terminator can jump to.
func (in Instr) Successors() []BlockID {
	switch in.Op {
	case OpBr:
		return []BlockID{in.Target}
	case OpBrZ:
		return []BlockID{in.Target, in.Else}
	default:
		return nil
	}
}

func (in Instr) String() string {
	switch in.Op {
	case OpPushConst:
		return fmt.Sprintf("push i%d %s", in.Size, in.Value)
	case OpDupAt:
		return fmt.Sprintf("dupat %d", in.Offset)
	case OpCast:
		return fmt.Sprintf("cast i%d", in.Size)
	case OpBr:
		return fmt.Sprintf("br bb%d", in.Target)
	case OpBrZ:
		return fmt.Sprintf("brz bb%d, bb%d", in.Target, in.Else)
	case OpCall:
		return fmt.Sprintf("call f%d", in.Func)
	default:
		return in.Op.String()
	}
}
