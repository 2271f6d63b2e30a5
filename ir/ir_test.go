package ir

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

type testSym string

func (s testSym) Name() string     { return string(s) }
func (s testSym) FullName() string { return "Test." + string(s) }

func TestOpcodeTable(t *testing.T) {
	for op := Opcode(0); op < numOpcodes; op++ {
		assert.NotEmpty(t, opNames[op], "opcode %d has no name", op)
	}
	terminators := []Opcode{OpJump, OpBranch, OpReturn}
	for op := Opcode(0); op < numOpcodes; op++ {
		assert.Equal(t, contains(terminators, op), op.IsTerminator(), op.String())
		if op.IsTerminator() || op.IsMarker() {
			assert.False(t, op.HasTarget(), op.String())
		}
	}
	assert.Equal(t, "op(200)", Opcode(200).String())
	assert.False(t, Opcode(200).IsTerminator())
}

func contains(ops []Opcode, op Opcode) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func TestResultMatchesHasTarget(t *testing.T) {
	p := NewProcedure("f", testSym("f"), types.Int32)
	r := p.DefineRegister(types.Int32)
	loc := p.DefineLocal(testSym("x"), types.Int32, false)
	instrs := []Instruction{
		&Nop{},
		&SequencePoint{},
		&StartScope{},
		&EndScope{},
		&Jump{Target: p.Entry},
		&Branch{Condition: r, Then: p.Entry, Else: p.Entry},
		&Return{Value: r},
		&Load{Target: r, Source: loc},
		&Store{Dest: loc, Value: r},
		&LoadStatic{Target: r, Field: testSym("g")},
		&StoreStatic{Field: testSym("g"), Value: r},
		&LoadField{Target: r, Receiver: r, Field: testSym("x")},
		&StoreField{Receiver: r, Field: testSym("x"), Value: r},
		&LoadElement{Target: r, Array: r, Indices: []Operand{r}},
		&StoreElement{Array: r, Indices: []Operand{r}, Value: r},
		&AddressOf{Target: r, Source: loc},
		&Call{Target: r, Procedure: testSym("f")},
		&MemberCall{Target: r, Procedure: testSym("f"), Receiver: r},
		&NewObject{Target: r, Constructor: testSym("ctor")},
		&NewArray{Target: r, Elem: types.Int32, Dimensions: []Operand{r}},
		&NewDelegate{Target: r, Procedure: testSym("f")},
		&ArrayLength{Target: r, Array: r},
		&Box{Target: r, Value: r},
		&Unbox{Target: r, Value: r},
		&Unary{Target: r, Op: token.NEG, Operand: r},
		&Binary{Target: r, Op: token.ADD, Left: r, Right: r},
	}
	require.Len(t, instrs, int(numOpcodes))
	for i, instr := range instrs {
		assert.Equal(t, Opcode(i), instr.Opcode())
		_, isValue := instr.(ValueInstruction)
		assert.Equal(t, instr.Opcode().HasTarget(), isValue, instr.Opcode().String())
	}
}

func TestAttachAssignsDenseIndices(t *testing.T) {
	p := NewProcedure("f", testSym("f"), types.UnitType)
	later := p.NewBasicBlock(testSym("later"))
	mid := p.NewBasicBlock(nil)
	assert.Equal(t, -1, p.Entry.Index)
	assert.Equal(t, "bb?", later.Name())

	p.Attach(p.Entry)
	p.Attach(mid)
	p.Attach(later)
	p.Attach(mid)

	assert.Equal(t, 0, p.Entry.Index)
	assert.Equal(t, 1, mid.Index)
	assert.Equal(t, 2, later.Index)
	assert.Equal(t, []*BasicBlock{p.Entry, mid, later}, p.Blocks())
}

func TestDefineLocalIsIdempotent(t *testing.T) {
	p := NewProcedure("f", testSym("f"), types.UnitType)
	x := testSym("x")
	a := p.DefineLocal(x, types.Int32, false)
	b := p.DefineLocal(x, types.Int32, false)
	assert.Same(t, a, b)
	assert.Len(t, p.Locals(), 1)
	got, ok := p.Local(x)
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestVerify(t *testing.T) {
	p := NewProcedure("f", testSym("f"), types.Int32)
	exit := p.NewBasicBlock(nil)
	p.Attach(p.Entry)
	p.Entry.InsertLast(&Jump{Target: exit})
	p.Attach(exit)
	exit.InsertLast(&Return{Value: Constant{Value: 1, Typ: types.Int32}})
	assert.Empty(t, Verify(p))

	exit.InsertLast(&Nop{})
	errs := Verify(p)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "return is followed by 1 instruction(s)")
	assert.Contains(t, errs[1].Error(), "reachable block has no terminator")
}

func TestVerifyDetachedTarget(t *testing.T) {
	p := NewProcedure("f", testSym("f"), types.UnitType)
	ghost := p.NewBasicBlock(nil)
	p.Attach(p.Entry)
	p.Entry.InsertLast(&Jump{Target: ghost})
	errs := Verify(p)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "not attached")
}

func TestCFGHelpers(t *testing.T) {
	p := NewProcedure("loop", testSym("loop"), types.UnitType)
	cond := p.NewBasicBlock(nil)
	body := p.NewBasicBlock(nil)
	exit := p.NewBasicBlock(nil)
	dead := p.NewBasicBlock(nil)
	for _, b := range []*BasicBlock{p.Entry, cond, body, exit, dead} {
		p.Attach(b)
	}
	c := Constant{Value: true, Typ: types.BoolType}
	p.Entry.InsertLast(&Jump{Target: cond})
	cond.InsertLast(&Branch{Condition: c, Then: exit, Else: body})
	body.InsertLast(&Jump{Target: cond})
	exit.InsertLast(&Return{Value: Void{}})
	dead.InsertLast(&Return{Value: Void{}})

	assert.Equal(t, []*BasicBlock{exit, body}, Successors(cond))
	preds := Predecessors(p)
	assert.ElementsMatch(t, []*BasicBlock{p.Entry, body}, preds[cond])
	assert.True(t, IsBackEdge(body, cond))
	assert.False(t, IsBackEdge(p.Entry, cond))

	reach := Reachable(p)
	assert.True(t, reach[exit])
	assert.False(t, reach[dead])
}

func TestConstantString(t *testing.T) {
	tests := []struct {
		c    Constant
		want string
	}{
		{Constant{Value: 3, Typ: types.Int32}, "3"},
		{Constant{Value: "a\"b", Typ: types.StringType}, `"a\"b"`},
		{Constant{Value: 1.5, Typ: types.Float64}, "1.5"},
		{Constant{Value: false, Typ: types.BoolType}, "false"},
		{Constant{Typ: types.Int32}, "default(int32)"},
		{Constant{Typ: types.ObjectType}, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.String())
		})
	}
	assert.True(t, IsVoid(nil))
	assert.True(t, IsVoid(Void{}))
	assert.False(t, IsVoid(Constant{Value: 1, Typ: types.Int32}))
}

func TestFormat(t *testing.T) {
	asm := NewAssembly("Demo", uuid.Nil)
	f := asm.Root.DefineProcedure(testSym("id"), types.Int32)
	n := f.DefineParameter(testSym("n"), types.Int32)
	tmp := f.DefineLocal(testSym("tmp"), types.Int32, true)
	f.Attach(f.Entry)
	r0 := f.DefineRegister(types.Int32)
	r1 := f.DefineRegister(types.ObjectType)
	f.Entry.InsertLast(&Load{Target: r0, Source: n})
	f.Entry.InsertLast(&Store{Dest: tmp, Value: r0})
	f.Entry.InsertLast(&Box{Target: r1, Value: r0})
	f.Entry.InsertLast(&Return{Value: r0})
	asm.Root.DefineField(testSym("count"), types.Int32, true)
	asm.EntryPoint = f

	want := `assembly Demo
mvid 00000000-0000-0000-0000-000000000000
entry Test.id

module Demo
  field static count: int32
  proc Test.id(arg0 n: int32) -> int32
    local loc0 <tmp>: int32
    bb0:
      r0 := load arg0
      store loc0, r0
      r1 := box r0 as object
      return r0
`
	assert.Equal(t, want, Format(asm))

	got, ok := asm.LookupProcedure(testSym("id"))
	require.True(t, ok)
	assert.Same(t, f, got)
}

func TestModuleNesting(t *testing.T) {
	asm := NewAssembly("Root", uuid.Nil)
	sub := asm.Root.DefineModule(testSym("Sub"))
	leaf := sub.DefineModule(testSym("Leaf"))
	assert.Equal(t, "Root.Sub.Leaf", leaf.FullName())
	assert.Equal(t, []*Module{asm.Root, sub, leaf}, asm.Modules())

	assert.False(t, sub.HasGlobalInitializer())
	init := sub.GlobalInitializer()
	assert.Same(t, init, sub.GlobalInitializer())
	assert.Equal(t, GlobalInitializerName, init.Name)
	assert.True(t, sub.HasGlobalInitializer())
}

func TestMetadataNamesAreNormalized(t *testing.T) {
	// "é" as e + combining acute accent composes to U+00E9.
	p := NewProcedure("cafe\u0301", nil, types.UnitType)
	assert.Equal(t, "caf\u00e9", p.Name)
}
