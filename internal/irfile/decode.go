package irfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"brook/internal/bignum"
	"brook/internal/ir"
)

// stream: чтение с проверкой границ; никаких паник на битых данных.
type stream struct {
	data []byte
}

func (s stream) bytes(off, n uint64) ([]byte, error) {
	size := uint64(len(s.data))
	if off > size || n > size-off {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, off, size)
	}
	return s.data[off : off+n], nil
}

func (s stream) u8(off uint64) (byte, error) {
	b, err := s.bytes(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s stream) u16(off uint64) (uint16, error) {
	b, err := s.bytes(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (s stream) u32(off uint64) (uint32, error) {
	b, err := s.bytes(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (s stream) u64(off uint64) (uint64, error) {
	b, err := s.bytes(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Decode parses a container produced by Encode.
func Decode(data []byte) (*ir.Object, error) {
	s := stream{data: data}

	magic, err := s.bytes(0, 4)
	if err != nil {
		if len(data) == 0 || string(data) != Magic[:len(data)] {
			return nil, fmt.Errorf("%w: %q", ErrBadMagic, data)
		}
		return nil, err
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, magic)
	}
	ver, err := s.bytes(4, 3)
	if err != nil {
		return nil, err
	}
	if ver[0] != Version[0] || ver[1] > Version[1] {
		return nil, fmt.Errorf("%w: %d.%d.%d, reader supports %d.%d.x",
			ErrUnsupportedVersion, ver[0], ver[1], ver[2], Version[0], Version[1])
	}

	var hdr [4]uint32
	for i := range hdr {
		if hdr[i], err = s.u32(uint64(7 + 4*i)); err != nil {
			return nil, err
		}
	}
	externCount, externOff, blockCount, blockOff := uint64(hdr[0]), uint64(hdr[1]), uint64(hdr[2]), uint64(hdr[3])

	// каждая запись занимает хотя бы несколько байт: отсекаем абсурдные счётчики до аллокаций
	if externCount*4 > uint64(len(data)) || blockCount*blockEntrySize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d externs, %d blocks in %d bytes", ErrTruncated, externCount, blockCount, len(data))
	}

	obj := &ir.Object{}
	if externCount > 0 {
		obj.Externs = make([]ir.ExternFunc, 0, externCount)
	}
	off := externOff
	for i := range externCount {
		fn, next, err := decodeExtern(s, off)
		if err != nil {
			return nil, fmt.Errorf("extern %d: %w", i, err)
		}
		obj.Externs = append(obj.Externs, fn)
		off = next
	}

	obj.Blocks = make([]ir.Block, 0, blockCount)
	for i := range blockCount {
		b, err := decodeBlock(s, blockOff+i*blockEntrySize, externCount, blockCount)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		obj.Blocks = append(obj.Blocks, b)
	}
	return obj, nil
}

func decodeExtern(s stream, off uint64) (ir.ExternFunc, uint64, error) {
	n, err := s.u16(off)
	if err != nil {
		return ir.ExternFunc{}, 0, err
	}
	name, err := s.bytes(off+2, uint64(n))
	if err != nil {
		return ir.ExternFunc{}, 0, err
	}
	if !utf8.Valid(name) {
		return ir.ExternFunc{}, 0, fmt.Errorf("%w: name is not valid UTF-8", ErrMalformed)
	}
	tail, err := s.bytes(off+2+uint64(n), 2)
	if err != nil {
		return ir.ExternFunc{}, 0, err
	}
	if tail[1] > 1 {
		return ir.ExternFunc{}, 0, fmt.Errorf("%w: returns flag %d", ErrMalformed, tail[1])
	}
	fn := ir.ExternFunc{Name: string(name), Arity: tail[0], Returns: tail[1] == 1}
	return fn, off + 2 + uint64(n) + 2, nil
}

func decodeBlock(s stream, entry, externCount, blockCount uint64) (ir.Block, error) {
	var f [4]uint32
	for i := range f {
		v, err := s.u32(entry + uint64(4*i))
		if err != nil {
			return ir.Block{}, err
		}
		f[i] = v
	}
	instrCount, argc, argOff, instrOff := uint64(f[0]), uint64(f[1]), uint64(f[2]), uint64(f[3])

	var b ir.Block
	if argc > 0 {
		sizes, err := s.bytes(argOff, argc)
		if err != nil {
			return ir.Block{}, err
		}
		for i, sz := range sizes {
			if !ir.LegalWidth(sz) {
				return ir.Block{}, fmt.Errorf("%w: argument %d width %d", ErrMalformed, i, sz)
			}
		}
		b.ArgSizes = append([]uint8(nil), sizes...)
	}

	if _, err := s.bytes(instrOff, instrCount*instrSize); err != nil {
		return ir.Block{}, err
	}
	if instrCount > 0 {
		b.Instrs = make([]ir.Instr, 0, instrCount)
	}
	for i := range instrCount {
		in, err := decodeInstr(s, instrOff+i*instrSize, externCount, blockCount)
		if err != nil {
			return ir.Block{}, fmt.Errorf("instr %d: %w", i, err)
		}
		b.Instrs = append(b.Instrs, in)
	}
	return b, nil
}

func decodeInstr(s stream, off, externCount, blockCount uint64) (ir.Instr, error) {
	opb, err := s.u8(off)
	if err != nil {
		return ir.Instr{}, err
	}
	op := ir.Op(opb)
	if !op.Valid() {
		return ir.Instr{}, fmt.Errorf("%w: %d", ErrUnknownOpcode, opb)
	}
	var f [3]uint64
	for i := range f {
		if f[i], err = s.u64(off + 1 + uint64(8*i)); err != nil {
			return ir.Instr{}, err
		}
	}

	width := func(v uint64) (uint8, error) {
		if v > 255 || !ir.LegalWidth(uint8(v)) {
			return 0, fmt.Errorf("%w: %s width %d", ErrMalformed, op, v)
		}
		return uint8(v), nil
	}
	block := func(v uint64) (ir.BlockID, error) {
		if v >= blockCount {
			return 0, fmt.Errorf("%w: %s target bb%d of %d blocks", ErrMalformed, op, v, blockCount)
		}
		return ir.BlockID(v), nil //nolint:gosec // blockCount came from a u32
	}

	in := ir.Instr{Op: op}
	switch op {
	case ir.OpPushConst:
		if in.Size, err = width(f[0]); err != nil {
			return ir.Instr{}, err
		}
		in.Value = bignum.Int128{Hi: int64(f[1]), Lo: f[2]} //nolint:gosec // bit pattern of the high half
	case ir.OpDupAt:
		if f[0] > 1<<32-1 {
			return ir.Instr{}, fmt.Errorf("%w: dupat offset %d", ErrMalformed, f[0])
		}
		in.Offset = uint32(f[0])
	case ir.OpCast:
		if in.Size, err = width(f[0]); err != nil {
			return ir.Instr{}, err
		}
	case ir.OpBr:
		if in.Target, err = block(f[0]); err != nil {
			return ir.Instr{}, err
		}
	case ir.OpBrZ:
		if in.Target, err = block(f[0]); err != nil {
			return ir.Instr{}, err
		}
		if in.Else, err = block(f[1]); err != nil {
			return ir.Instr{}, err
		}
	case ir.OpCall:
		if f[0] >= externCount {
			return ir.Instr{}, fmt.Errorf("%w: call of f%d, %d externs", ErrMalformed, f[0], externCount)
		}
		in.Func = ir.FuncID(f[0]) //nolint:gosec // externCount came from a u32
	}
	return in, nil
}

// Read decodes a container from r.
func Read(r io.Reader) (*ir.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// ReadFile decodes the container stored at path.
func ReadFile(path string) (*ir.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
