package ir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable listing of o.
func Dump(w io.Writer, o *Object) error {
	if w == nil || o == nil {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "externs=%d\n", len(o.Externs))
	for i, fn := range o.Externs {
		ret := ""
		if fn.Returns {
			ret = " -> value"
		}
		fmt.Fprintf(&sb, "  f%d: %s/%d%s\n", i, fn.Name, fn.Arity, ret)
	}
	fmt.Fprintf(&sb, "blocks=%d\n", len(o.Blocks))
	for i := range o.Blocks {
		b := &o.Blocks[i]
		args := make([]string, 0, len(b.ArgSizes))
		for _, sz := range b.ArgSizes {
			args = append(args, fmt.Sprintf("i%d", sz))
		}
		fmt.Fprintf(&sb, "bb%d(%s):\n", i, strings.Join(args, ", "))
		for _, in := range b.Instrs {
			fmt.Fprintf(&sb, "  %s\n", in)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// DumpString is Dump into a string.
func DumpString(o *Object) string {
	var sb strings.Builder
	_ = Dump(&sb, o)
	return sb.String()
}
