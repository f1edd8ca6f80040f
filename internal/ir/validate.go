package ir

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks IR object invariants.
// Every violation found is reported; the result joins them with errors.Join.
func Validate(o *Object) error {
	if o == nil {
		return nil
	}
	if len(o.Blocks) == 0 {
		return errors.New("object has no entry block")
	}
	var errs []error
	if argc := o.Blocks[0].Argc(); argc != 0 {
		errs = append(errs, fmt.Errorf("bb0: entry block takes %d arguments, want 0", argc))
	}
	for i := range o.Blocks {
		if err := validateBlock(o, BlockID(i)); err != nil { //nolint:gosec // i < len(o.Blocks)
			errs = append(errs, fmt.Errorf("bb%d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func validateBlock(o *Object, id BlockID) error {
	b := &o.Blocks[id]
	var errs []error

	for i, sz := range b.ArgSizes {
		if !LegalWidth(sz) {
			errs = append(errs, fmt.Errorf("argument %d has illegal width %d", i, sz))
		}
	}
	if !b.Terminated() {
		errs = append(errs, errors.New("unterminated block"))
	}

	// simulated stack of value widths
	stack := slices.Clone(b.ArgSizes)
	need := func(at int, in Instr, n int) bool {
		if len(stack) < n {
			errs = append(errs, fmt.Errorf("instr %d (%s): needs %d values, stack has %d", at, in, n, len(stack)))
			return false
		}
		return true
	}

	for at, in := range b.Instrs {
		if in.Op.IsTerminator() && at != len(b.Instrs)-1 {
			errs = append(errs, fmt.Errorf("instr %d (%s): terminator in the middle of the block", at, in))
		}
		switch {
		case in.Op == OpPushConst:
			if !LegalWidth(in.Size) {
				errs = append(errs, fmt.Errorf("instr %d (%s): illegal width", at, in))
			}
			stack = append(stack, in.Size)
		case in.Op == OpDup:
			if need(at, in, 1) {
				stack = append(stack, stack[len(stack)-1])
			}
		case in.Op == OpDupAt:
			if int(in.Offset) >= len(stack) {
				errs = append(errs, fmt.Errorf("instr %d (%s): offset out of range, stack has %d", at, in, len(stack)))
				stack = append(stack, DefaultWidth)
				continue
			}
			stack = append(stack, stack[in.Offset])
		case in.Op == OpCast:
			if !LegalWidth(in.Size) {
				errs = append(errs, fmt.Errorf("instr %d (%s): illegal width", at, in))
			}
			if need(at, in, 1) {
				stack[len(stack)-1] = in.Size
			}
		case in.Op == OpSwap:
			if need(at, in, 2) {
				n := len(stack)
				stack[n-1], stack[n-2] = stack[n-2], stack[n-1]
			}
		case in.Op.IsBinary():
			if need(at, in, 2) {
				n := len(stack)
				if stack[n-1] != stack[n-2] {
					errs = append(errs, fmt.Errorf("instr %d (%s): operand widths %d and %d differ", at, in, stack[n-2], stack[n-1]))
				}
				stack = stack[:n-1]
			}
		case in.Op == OpNeg:
			need(at, in, 1)
		case in.Op == OpCall:
			fn := o.Extern(in.Func)
			if fn == nil {
				errs = append(errs, fmt.Errorf("instr %d (%s): unknown function", at, in))
				continue
			}
			if need(at, in, int(fn.Arity)) {
				stack = stack[:len(stack)-int(fn.Arity)]
				if fn.Returns {
					stack = append(stack, DefaultWidth)
				}
			}
		case in.Op == OpBr:
			errs = append(errs, checkEdge(o, at, in, in.Target, stack)...)
		case in.Op == OpBrZ:
			if need(at, in, 1) {
				rest := stack[:len(stack)-1]
				errs = append(errs, checkEdge(o, at, in, in.Target, rest)...)
				errs = append(errs, checkEdge(o, at, in, in.Else, rest)...)
			}
		case in.Op == OpRetVal:
			need(at, in, 1)
		case in.Op == OpRet:
		default:
			errs = append(errs, fmt.Errorf("instr %d: invalid opcode %d", at, in.Op))
		}
	}
	return errors.Join(errs...)
}

// checkEdge verifies that the top of stack matches the target's argument list.
func checkEdge(o *Object, at int, in Instr, target BlockID, stack []uint8) []error {
	tb := o.Block(target)
	if tb == nil {
		return []error{fmt.Errorf("instr %d (%s): branch target bb%d out of range", at, in, target)}
	}
	argc := tb.Argc()
	if len(stack) < argc {
		return []error{fmt.Errorf("instr %d (%s): bb%d takes %d arguments, stack has %d", at, in, target, argc, len(stack))}
	}
	if passed := stack[len(stack)-argc:]; !slices.Equal(passed, tb.ArgSizes) {
		return []error{fmt.Errorf("instr %d (%s): passes widths %v to bb%d, want %v", at, in, passed, target, tb.ArgSizes)}
	}
	return nil
}
