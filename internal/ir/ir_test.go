package ir

import (
	"strings"
	"testing"

	"brook/internal/bignum"
)

func sampleObject() *Object {
	return &Object{
		Externs: []ExternFunc{{Name: "print", Arity: 1}},
		Blocks: []Block{
			{Instrs: []Instr{
				PushConst(64, bignum.FromInt64(3)),
				PushConst(64, bignum.FromInt64(0)),
				BrZ(2, 1),
			}},
			{ArgSizes: []uint8{64}, Instrs: []Instr{
				DupAt(0),
				Call(0),
				Br(2),
			}},
			{ArgSizes: []uint8{64}, Instrs: []Instr{
				DupAt(0),
				Neg(),
				RetVal(),
			}},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(sampleObject()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Object)
		want   string
	}{
		{"unterminated", func(o *Object) { o.Blocks[2].Instrs = o.Blocks[2].Instrs[:2] }, "unterminated block"},
		{"mid-block terminator", func(o *Object) {
			o.Blocks[2].Instrs = append([]Instr{Ret()}, o.Blocks[2].Instrs...)
		}, "terminator in the middle"},
		{"target out of range", func(o *Object) { o.Blocks[1].Instrs[2] = Br(9) }, "out of range"},
		{"argument count", func(o *Object) { o.Blocks[1].ArgSizes = []uint8{64, 64} }, "takes 2 arguments"},
		{"width mismatch at edge", func(o *Object) { o.Blocks[2].ArgSizes = []uint8{32} }, "passes widths"},
		{"unknown function", func(o *Object) { o.Blocks[1].Instrs[1] = Call(4) }, "unknown function"},
		{"dupat offset", func(o *Object) { o.Blocks[1].Instrs[0] = DupAt(5) }, "offset out of range"},
		{"illegal width", func(o *Object) { o.Blocks[0].Instrs[0].Size = 12 }, "illegal width"},
		{"binary widths", func(o *Object) {
			o.Blocks[2].Instrs = []Instr{DupAt(0), PushConst(8, bignum.FromInt64(1)), Binary(OpAdd), RetVal()}
		}, "operand widths"},
		{"entry args", func(o *Object) { o.Blocks[0].ArgSizes = []uint8{64} }, "entry block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := sampleObject()
			tt.mutate(o)
			err := Validate(o)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestDump(t *testing.T) {
	got := DumpString(sampleObject())
	want := `externs=1
  f0: print/1
blocks=3
bb0():
  push i64 3
  push i64 0
  brz bb2, bb1
bb1(i64):
  dupat 0
  call f0
  br bb2
bb2(i64):
  dupat 0
  neg
  retval
`
	if got != want {
		t.Errorf("dump mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestEqual(t *testing.T) {
	a, b := sampleObject(), sampleObject()
	if !Equal(a, b) {
		t.Fatalf("identical objects must be equal")
	}
	b.Blocks[0].Instrs[0].Value = bignum.FromInt64(4)
	if Equal(a, b) {
		t.Fatalf("different constants must not be equal")
	}
}

func TestOpClassification(t *testing.T) {
	for op := OpAdd; op <= OpShr; op++ {
		if !op.IsBinary() || op.IsTerminator() {
			t.Errorf("%s misclassified", op)
		}
	}
	for _, op := range []Op{OpBr, OpBrZ, OpRet, OpRetVal} {
		if !op.IsTerminator() {
			t.Errorf("%s must terminate", op)
		}
	}
	if OpInvalid.Valid() || Op(200).Valid() {
		t.Errorf("invalid opcodes accepted")
	}
}
