package llvmgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/irgen/codegen"
	"github.com/thiremani/irgen/intrinsics"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/samples"
	"github.com/thiremani/irgen/types"
)

func TestMangleIdent(t *testing.T) {
	tests := []struct {
		name     string
		ident    string
		expected string
	}{
		{"simple", "foo", "3foo"},
		{"single char", "x", "1x"},
		{"with underscore", "foo_bar", "7foo_bar"},
		{"digits", "x1y2", "4x1y2"},
		{"space", "a b", "5a$20b"},
		{"angle brackets", "<script>", "12$3Cscript$3E"},
		{"leading dot", ".ctor", "7$2Ector"},
		{"unicode", "π", "6$CF$80"},
		{"empty", "", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MangleIdent(tt.ident))
		})
	}
}

func TestMangleType(t *testing.T) {
	point := &types.Named{Name: "Point", Value: true}
	tests := []struct {
		typ      types.Type
		expected string
	}{
		{types.UnitType, "v"},
		{types.NeverType, "z"},
		{types.BoolType, "b"},
		{types.Int32, "i32"},
		{types.Int{Width: 8, Unsigned: true}, "u8"},
		{types.Float64, "f64"},
		{types.StringType, "s"},
		{types.ObjectType, "o"},
		{types.ArrayOf(types.ObjectType), "A1o"},
		{types.Array{Elem: types.Int64, Rank: 2}, "A2i64"},
		{types.Func{Params: []types.Type{types.Int32, types.StringType}, Return: types.BoolType}, "F2i32sb"},
		{types.Ptr{Elem: point}, "PN5Point"},
		{&types.TypeParam{Name: "T"}, "T1T"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, MangleType(tt.typ))
		})
	}
}

func TestMangle(t *testing.T) {
	assert.Equal(t, "Ir_9Factorial4fact", ManglePath("Factorial", "fact"))
	assert.Equal(t, "Ir_9Factorial4fact$i32", Mangle([]string{"Factorial", "fact"}, []types.Type{types.Int32}))
	assert.Equal(t, "Ir_6Script12$3Cscript$3E", Mangle([]string{"Script", ir.ScriptEntryName}, nil))
	// overloads that share a path differ in their parameter codes
	assert.NotEqual(t,
		Mangle([]string{"M", "f"}, []types.Type{types.Int32}),
		Mangle([]string{"M", "f"}, []types.Type{types.Int64}))
}

func generate(t *testing.T, name string, entry codegen.EntryConvention) *ir.Assembly {
	t.Helper()
	s, ok := samples.Lookup(name)
	require.True(t, ok, "no sample %q", name)
	asm, err := codegen.GenerateAssembly(s.Build(), codegen.Options{
		Name:      s.Name,
		Mvid:      codegen.MvidFor(s.Name, true),
		Entry:     entry,
		Verify:    true,
		WellKnown: intrinsics.WellKnown(),
	})
	require.NoError(t, err)
	return asm
}

func emit(t *testing.T, name string) string {
	t.Helper()
	s, _ := samples.Lookup(name)
	text, err := Emit(generate(t, name, s.Entry))
	require.NoError(t, err)
	return text
}

func TestEmitAllSamples(t *testing.T) {
	for _, s := range samples.All() {
		t.Run(s.Name, func(t *testing.T) {
			text := emit(t, s.Name)
			assert.Contains(t, text, "define i32 @main()")
		})
	}
}

func TestEmitFactorial(t *testing.T) {
	text := emit(t, "factorial")
	assert.Contains(t, text, "@Ir_9factorial4fact$i32(")
	assert.Contains(t, text, "icmp sle i32")
	assert.Contains(t, text, "mul i32")
	// the runtime library is only referenced, never defined
	assert.Contains(t, text, "declare")
	assert.NotContains(t, text, "@irgen_array_new")
}

func TestEmitWithoutEntry(t *testing.T) {
	text, err := Emit(generate(t, "factorial", codegen.NoEntry))
	require.NoError(t, err)
	assert.NotContains(t, text, "@main()")
}

func TestEmitValueType(t *testing.T) {
	text := emit(t, "point")
	assert.Contains(t, text, "%Ir_5point5Point = type { double }")
	assert.Contains(t, text, "getelementptr")
	assert.Contains(t, text, "fmul double")
	// boxing the point for ToString copies it to the heap
	assert.Contains(t, text, "@irgen_alloc(")
}

func TestEmitArraysAndBoxing(t *testing.T) {
	text := emit(t, "variadic")
	assert.Contains(t, text, "@irgen_array_new(")
	assert.Contains(t, text, "@irgen_array_element(")
	assert.Contains(t, text, "@irgen_alloc(")
}

// Paths start at the root module, which is named after the assembly.
func TestEmitScriptRunsInitializerFirst(t *testing.T) {
	text := emit(t, "script")
	assert.Contains(t, text, "@Ir_6script26$3Cglobal$20initializer$3E()")
	assert.Contains(t, text, "@Ir_6script12$3Cscript$3E()")
	assert.Contains(t, text, "@Ir_6script8greeting")
}
