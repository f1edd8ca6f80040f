// Package bignum holds the fixed 128-bit signed integer used for literal
// values and constant immediates.
package bignum

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrParse reports digits that are not valid in the selected radix.
	ErrParse = errors.New("invalid integer literal")
	// ErrRange reports a literal that does not fit in 128 signed bits.
	ErrRange = errors.New("integer literal out of range")
)

// Int128 is a two's complement 128-bit integer split into halves.
type Int128 struct {
	Hi int64
	Lo uint64
}

// FromInt64 sign-extends v.
func FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// FitsInt64 reports whether the value is representable as int64.
func (i Int128) FitsInt64() bool {
	return (i.Hi == 0 && i.Lo>>63 == 0) || (i.Hi == -1 && i.Lo>>63 == 1)
}

// IsZero reports whether i == 0.
func (i Int128) IsZero() bool { return i.Hi == 0 && i.Lo == 0 }

// Neg returns -i with wrap-around at the minimum value.
func (i Int128) Neg() Int128 {
	lo := ^i.Lo + 1
	hi := ^i.Hi
	if lo == 0 {
		hi++
	}
	return Int128{Hi: hi, Lo: lo}
}

// Big converts to a math/big integer.
func (i Int128) Big() *big.Int {
	v := new(big.Int).SetInt64(i.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(i.Lo))
}

func (i Int128) String() string {
	if i.FitsInt64() {
		return fmt.Sprintf("%d", int64(i.Lo))
	}
	return i.Big().String()
}

var (
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	mask64    = new(big.Int).SetUint64(^uint64(0))
)

// FromBig converts v, failing with ErrRange when it needs more than 128 bits.
func FromBig(v *big.Int) (Int128, error) {
	if v.Cmp(minInt128) < 0 || v.Cmp(maxInt128) > 0 {
		return Int128{}, ErrRange
	}
	lo := new(big.Int).And(v, mask64).Uint64()
	hi := new(big.Int).Rsh(v, 64).Int64()
	return Int128{Hi: hi, Lo: lo}, nil
}

// Radix detects a 0x/0b prefix. The prefix only counts when at least
// one digit of that radix follows it.
func Radix(text string) (radix int, digits string) {
	if len(text) >= 3 && text[0] == '0' {
		switch text[1] {
		case 'x':
			if isDigit(text[2], 16) {
				return 16, text[2:]
			}
		case 'b':
			if isDigit(text[2], 2) {
				return 2, text[2:]
			}
		}
	}
	return 10, text
}

// ParseLiteral parses a literal as written in source (optional 0x/0b prefix, no sign).
func ParseLiteral(text string) (Int128, error) {
	radix, digits := Radix(text)
	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r > 0x7f || !isDigit(byte(r), radix) }) >= 0 {
		return Int128{}, ErrParse
	}
	v, ok := new(big.Int).SetString(digits, radix)
	if !ok {
		return Int128{}, ErrParse
	}
	return FromBig(v)
}

func isDigit(b byte, radix int) bool {
	switch radix {
	case 2:
		return b == '0' || b == '1'
	case 16:
		return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	default:
		return b >= '0' && b <= '9'
	}
}
