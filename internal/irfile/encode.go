package irfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"

	"brook/internal/ir"
)

// Encode serialises o into a new byte slice.
func Encode(o *ir.Object) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: nil object", ErrMalformed)
	}

	externSize := 0
	for i, fn := range o.Externs {
		if len(fn.Name) > maxNameLen {
			return nil, fmt.Errorf("%w: extern %d name is %d bytes long", ErrMalformed, i, len(fn.Name))
		}
		externSize += 2 + len(fn.Name) + 2
	}
	externOff := headerSize
	blockOff := externOff + externSize
	dataOff := blockOff + len(o.Blocks)*blockEntrySize

	total := dataOff
	for i := range o.Blocks {
		total += o.Blocks[i].Argc() + len(o.Blocks[i].Instrs)*instrSize
	}

	var err error
	u32 := func(v int) uint32 {
		n, cerr := safecast.Conv[uint32](v)
		if cerr != nil && err == nil {
			err = fmt.Errorf("%w: %d does not fit the container: %w", ErrMalformed, v, cerr)
		}
		return n
	}

	le := binary.LittleEndian
	buf := make([]byte, 0, total)
	buf = append(buf, Magic...)
	buf = append(buf, Version[:]...)
	buf = le.AppendUint32(buf, u32(len(o.Externs)))
	buf = le.AppendUint32(buf, u32(externOff))
	buf = le.AppendUint32(buf, u32(len(o.Blocks)))
	buf = le.AppendUint32(buf, u32(blockOff))

	for _, fn := range o.Externs {
		buf = le.AppendUint16(buf, uint16(len(fn.Name))) //nolint:gosec // checked against maxNameLen
		buf = append(buf, fn.Name...)
		buf = append(buf, fn.Arity, boolByte(fn.Returns))
	}

	// таблица блоков фиксированного шага, данные: после неё
	off := dataOff
	for i := range o.Blocks {
		b := &o.Blocks[i]
		buf = le.AppendUint32(buf, u32(len(b.Instrs)))
		buf = le.AppendUint32(buf, u32(b.Argc()))
		buf = le.AppendUint32(buf, u32(off))
		buf = le.AppendUint32(buf, u32(off+b.Argc()))
		off += b.Argc() + len(b.Instrs)*instrSize
	}
	for i := range o.Blocks {
		b := &o.Blocks[i]
		buf = append(buf, b.ArgSizes...)
		for _, in := range b.Instrs {
			buf = appendInstr(buf, in)
		}
	}
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func appendInstr(buf []byte, in ir.Instr) []byte {
	var a, b, c uint64
	switch in.Op {
	case ir.OpPushConst:
		a, b, c = uint64(in.Size), uint64(in.Value.Hi), in.Value.Lo //nolint:gosec // bit pattern of the high half
	case ir.OpDupAt:
		a = uint64(in.Offset)
	case ir.OpCast:
		a = uint64(in.Size)
	case ir.OpBr:
		a = uint64(in.Target)
	case ir.OpBrZ:
		a, b = uint64(in.Target), uint64(in.Else)
	case ir.OpCall:
		a = uint64(in.Func)
	}
	le := binary.LittleEndian
	buf = append(buf, byte(in.Op))
	buf = le.AppendUint64(buf, a)
	buf = le.AppendUint64(buf, b)
	return le.AppendUint64(buf, c)
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// Write encodes o to w.
func Write(w io.Writer, o *ir.Object) error {
	data, err := Encode(o)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile encodes o into the file at path.
func WriteFile(path string, o *ir.Object) error {
	data, err := Encode(o)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
