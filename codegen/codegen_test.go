package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/intrinsics"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/types"
)

func catch(fn func()) (err error) {
	defer contract.Recover(&err)
	fn()
	return nil
}

func lit(v any, typ types.Type) *bound.LiteralExpression {
	return &bound.LiteralExpression{Value: v, Typ: typ}
}

func stmt(e bound.Expression) bound.Statement {
	return &bound.ExpressionStatement{Expression: e}
}

func block(stmts ...bound.Statement) bound.Statement {
	return stmt(&bound.BlockExpression{Statements: stmts, Value: &bound.UnitExpression{}})
}

func compile(proc *ir.Procedure, body bound.Statement) error {
	return catch(func() {
		newFunctionBodyCodegen(proc, types.IsValueType).compileBody(body)
	})
}

func count(p *ir.Procedure, op ir.Opcode) int {
	n := 0
	for _, b := range p.Blocks() {
		for _, instr := range b.Instructions {
			if instr.Opcode() == op {
				n++
			}
		}
	}
	return n
}

func requireICE(t *testing.T, err error, kind contract.ICEKind, node string) {
	t.Helper()
	require.Error(t, err)
	var ice *contract.InternalError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, kind, ice.Kind)
	assert.Equal(t, node, ice.Node)
}

func TestInternalErrors(t *testing.T) {
	tests := []struct {
		name string
		body bound.Statement
		kind contract.ICEKind
		node string
	}{
		{
			name: "if reaching codegen",
			body: stmt(&bound.IfExpression{Condition: lit(true, types.BoolType), Then: lit(int32(1), types.Int32), Else: lit(int32(2), types.Int32), Typ: types.Int32}),
			kind: contract.ShouldHaveBeenLowered,
			node: "IfExpression",
		},
		{
			name: "expanded variadic call",
			body: stmt(&bound.CallExpression{Method: intrinsics.WriteAll, Arguments: []bound.Expression{lit(int32(1), types.Int32)}, Expanded: true}),
			kind: contract.ShouldHaveBeenLowered,
			node: "expanded variadic CallExpression",
		},
		{
			name: "local function",
			body: &bound.LocalFunctionStatement{Function: bound.NewFunction("inner", types.UnitType)},
			kind: contract.ShouldHaveBeenLowered,
			node: "LocalFunctionStatement",
		},
		{
			name: "type reference as a value",
			body: stmt(&bound.TypeExpression{Referenced: types.Int32}),
			kind: contract.IllegalNode,
			node: "TypeExpression",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := ir.NewProcedure("f", nil, types.UnitType)
			requireICE(t, compile(proc, tt.body), tt.kind, tt.node)
		})
	}
}

func TestCapturedLocal(t *testing.T) {
	outer := bound.NewLocal("x", types.Int32)
	proc := ir.NewProcedure("inner", nil, types.Int32)
	err := compile(proc, stmt(&bound.ReturnExpression{Value: &bound.LocalExpression{Local: outer}}))

	var ice *contract.InternalError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, contract.CapturedLocal, ice.Kind)
	assert.Equal(t, "x", ice.Msg)
}

func TestUnreachableCodeIsDropped(t *testing.T) {
	proc := ir.NewProcedure("f", nil, types.Int32)
	require.NoError(t, compile(proc, block(
		stmt(&bound.ReturnExpression{Value: lit(int32(1), types.Int32)}),
		stmt(&bound.CallExpression{Method: intrinsics.WriteLine, Arguments: []bound.Expression{lit("dead", types.StringType)}}),
	)))

	require.Len(t, proc.Blocks(), 1)
	require.Len(t, proc.Entry.Instructions, 1)
	assert.Equal(t, ir.OpReturn, proc.Entry.Instructions[0].Opcode())
}

func TestFallingOffTheEndReturnsVoid(t *testing.T) {
	proc := ir.NewProcedure("f", nil, types.UnitType)
	require.NoError(t, compile(proc, block()))
	require.Len(t, proc.Entry.Instructions, 1)
	ret, ok := proc.Entry.Instructions[0].(*ir.Return)
	require.True(t, ok)
	assert.True(t, ir.IsVoid(ret.Value))
}

func TestConditionalGotoOnNeverSkipsBranch(t *testing.T) {
	target := bound.NewLabel("target")
	proc := ir.NewProcedure("f", nil, types.BoolType)
	require.NoError(t, compile(proc, block(
		&bound.ConditionalGotoStatement{
			Condition: &bound.ReturnExpression{Value: lit(true, types.BoolType)},
			Target:    target,
		},
		&bound.LabelStatement{Label: target},
		stmt(&bound.ReturnExpression{Value: lit(false, types.BoolType)}),
	)))

	assert.Zero(t, count(proc, ir.OpBranch))
	assert.Zero(t, count(proc, ir.OpJump))
	assert.Equal(t, 2, count(proc, ir.OpReturn))
	assert.Empty(t, ir.Verify(proc))
}

func TestBoxingConversions(t *testing.T) {
	t.Run("value into object return", func(t *testing.T) {
		proc := ir.NewProcedure("f", nil, types.ObjectType)
		require.NoError(t, compile(proc, stmt(&bound.ReturnExpression{Value: lit(int32(1), types.Int32)})))
		assert.Equal(t, 1, count(proc, ir.OpBox))
		assert.Zero(t, count(proc, ir.OpUnbox))
	})
	t.Run("object into value return", func(t *testing.T) {
		o := bound.NewParameter("o", types.ObjectType)
		proc := ir.NewProcedure("f", nil, types.Int32)
		proc.DefineParameter(o, o.Type)
		require.NoError(t, compile(proc, stmt(&bound.ReturnExpression{Value: &bound.ParameterExpression{Parameter: o}})))
		assert.Equal(t, 1, count(proc, ir.OpUnbox))
		assert.Zero(t, count(proc, ir.OpBox))
	})
	t.Run("reference to reference", func(t *testing.T) {
		proc := ir.NewProcedure("f", nil, types.ObjectType)
		require.NoError(t, compile(proc, stmt(&bound.ReturnExpression{Value: lit("s", types.StringType)})))
		assert.Zero(t, count(proc, ir.OpBox))
		assert.Zero(t, count(proc, ir.OpUnbox))
	})
}

func TestScopes(t *testing.T) {
	var scopes []Scope[string, int]
	PushScope(&scopes, FuncScope)
	Put(scopes, "a", 1)
	PushScope(&scopes, BlockScope)
	Put(scopes, "b", 2)

	v, ok := Get(scopes, "a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// lookups stop at the nearest function scope
	PushScope(&scopes, FuncScope)
	_, ok = Get(scopes, "a")
	assert.False(t, ok)
	PopScope(&scopes)

	PopScope(&scopes)
	_, ok = Get(scopes, "b")
	assert.False(t, ok)

	err := catch(func() { PopScope(&scopes) })
	require.Error(t, err)
}

func TestGenerateAssemblyRequiresWellKnown(t *testing.T) {
	_, err := GenerateAssembly(bound.NewModule("M", nil), Options{Name: "m"})
	require.Error(t, err)
}

func TestMissingEntryPoint(t *testing.T) {
	mod := bound.NewModule("M", nil)
	helper := bound.NewFunction("helper", types.UnitType)
	helper.Body = block()
	mod.Add(helper)

	asm, err := GenerateAssembly(mod, Options{
		Name:      "m",
		Mvid:      MvidFor("m", true),
		Entry:     ProgramEntry,
		WellKnown: intrinsics.WellKnown(),
	})
	require.NoError(t, err)
	assert.Nil(t, asm.EntryPoint)
	require.Len(t, asm.Root.Procedures(), 1)
}

func TestMvidFor(t *testing.T) {
	assert.Equal(t, MvidFor("a", true), MvidFor("a", true))
	assert.NotEqual(t, MvidFor("a", true), MvidFor("b", true))
	assert.NotEqual(t, MvidFor("a", false), MvidFor("a", false))
}
