package bound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/irgen/types"
)

// identity rewrites nothing; every node must come back unchanged.
type identity struct{}

func (r identity) RewriteStatement(s Statement) Statement {
	return RewriteStatementChildren(r, s)
}

func (r identity) RewriteExpression(e Expression) Expression {
	return RewriteExpressionChildren(r, e)
}

// replaceLiteral swaps every literal 1 for literal 2.
type replaceLiteral struct{}

func (r replaceLiteral) RewriteStatement(s Statement) Statement {
	return RewriteStatementChildren(r, s)
}

func (r replaceLiteral) RewriteExpression(e Expression) Expression {
	if lit, ok := e.(*LiteralExpression); ok && lit.Value == 1 {
		return &LiteralExpression{Value: 2, Typ: lit.Typ}
	}
	return RewriteExpressionChildren(r, e)
}

func lit(v int) *LiteralExpression {
	return &LiteralExpression{Value: v, Typ: types.Int32}
}

func sampleBlock() *BlockExpression {
	x := NewLocal("x", types.Int32)
	return &BlockExpression{
		Locals: []*Local{x},
		Statements: []Statement{
			&LocalDeclaration{Local: x, Value: lit(1)},
			&ExpressionStatement{Expression: &IfExpression{
				Condition: &LiteralExpression{Value: true, Typ: types.BoolType},
				Then:      lit(3),
				Else:      &LocalExpression{Local: x},
				Typ:       types.Int32,
			}},
		},
		Value: &LocalExpression{Local: x},
	}
}

func TestIdentityRewriteSharesTree(t *testing.T) {
	block := sampleBlock()
	got := identity{}.RewriteExpression(block)
	assert.Same(t, block, got)
}

func TestRewriteCopiesOnlyChangedSpine(t *testing.T) {
	block := sampleBlock()
	got := replaceLiteral{}.RewriteExpression(block).(*BlockExpression)

	require.NotSame(t, block, got)
	assert.Same(t, block.Locals[0], got.Locals[0])
	// The if statement did not change and is shared.
	assert.Same(t, block.Statements[1], got.Statements[1])
	assert.Same(t, block.Value, got.Value)

	decl := got.Statements[0].(*LocalDeclaration)
	assert.Equal(t, 2, decl.Value.(*LiteralExpression).Value)
	// The input is untouched.
	assert.Equal(t, 1, block.Statements[0].(*LocalDeclaration).Value.(*LiteralExpression).Value)
}

func TestUpdateReturnsReceiverWhenUnchanged(t *testing.T) {
	call := &CallExpression{
		Method:    NewFunction("f", types.UnitType, NewParameter("a", types.Int32)),
		Arguments: []Expression{lit(1)},
	}
	assert.Same(t, call, call.Update(nil, call.Arguments))
	assert.Same(t, call, call.Update(nil, []Expression{call.Arguments[0]}))
	assert.NotSame(t, call, call.Update(nil, []Expression{lit(1)}))
}

func TestCountKind(t *testing.T) {
	block := sampleBlock()
	assert.Equal(t, 1, CountKind(block, IfExpressionKind))
	assert.Equal(t, 2, CountKind(block, LocalExpressionKind))
	assert.Equal(t, 3, CountKind(block, LiteralExpressionKind))

	skipped := 0
	Inspect(block, func(n Node) bool {
		if n.Kind() == IfExpressionKind {
			return false
		}
		if n.Kind() == LiteralExpressionKind {
			skipped++
		}
		return true
	})
	assert.Equal(t, 1, skipped)
}

func TestSymbolNames(t *testing.T) {
	root := NewModule("App", nil)
	sub := NewModule("Math", root)
	point := NewClass("Point", true)
	sub.Add(point)
	length := NewFunction("Length", types.Float64)
	length.Static = false
	point.Add(length)
	counter := NewField("counter", types.Int32, true)
	root.Add(counter)

	assert.Equal(t, "App.Math", sub.FullName())
	assert.Equal(t, "App.Math.Point.Length", length.FullName())
	assert.Equal(t, "App.counter", counter.FullName())
	assert.Equal(t, point.Type, length.ReceiverType())
	assert.True(t, types.IsValueType(length.ReceiverType()))
	assert.Equal(t, []Symbol{sub, counter}, root.Members)
}

func TestPropertyAddClaimsAccessors(t *testing.T) {
	m := NewModule("M", nil)
	getter := NewFunction("get_P", types.Int32)
	setter := NewFunction("set_P", types.UnitType, NewParameter("value", types.Int32))
	p := &Property{Nm: "P", Type: types.Int32, Static: true, Getter: getter, Setter: setter}
	m.Add(p)
	assert.Equal(t, "M.get_P", getter.FullName())
	assert.Equal(t, "M.set_P", setter.FullName())

	lv := &PropertySetLvalue{Getter: getter, Setter: setter}
	assert.Equal(t, types.Int32, lv.Type())
}

func TestVariadicFunction(t *testing.T) {
	f := NewFunction("log", types.UnitType,
		NewParameter("level", types.Int32),
		NewVariadicParameter("rest", types.ObjectType))
	assert.True(t, f.IsVariadic())
	assert.Same(t, f, f.Params[1].Function)
	assert.Equal(t, "(int32, object[]) -> unit", f.Type().String())
}
