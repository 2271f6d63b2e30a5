package lower

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/intrinsics"
	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

var wk = intrinsics.WellKnown()

func int32Lit(v int32) *bound.LiteralExpression {
	return &bound.LiteralExpression{Value: v, Typ: types.Int32}
}

func strLit(s string) *bound.LiteralExpression {
	return &bound.LiteralExpression{Value: s, Typ: types.StringType}
}

func stmt(e bound.Expression) *bound.ExpressionStatement {
	return &bound.ExpressionStatement{Expression: e}
}

func call(fn *bound.Function, args ...bound.Expression) *bound.CallExpression {
	return &bound.CallExpression{Method: fn, Arguments: args}
}

func rewriteExpr(t *testing.T, e bound.Expression) bound.Expression {
	t.Helper()
	out, ok := Rewrite(wk, stmt(e)).(*bound.ExpressionStatement)
	require.True(t, ok)
	return out.Expression
}

func countCalls(n bound.Node, fn *bound.Function) int {
	count := 0
	bound.Inspect(n, func(n bound.Node) bool {
		if c, ok := n.(*bound.CallExpression); ok && c.Method == fn {
			count++
		}
		return true
	})
	return count
}

func find[T bound.Node](n bound.Node) []T {
	var found []T
	bound.Inspect(n, func(n bound.Node) bool {
		if x, ok := n.(T); ok {
			found = append(found, x)
		}
		return true
	})
	return found
}

var highLevelKinds = []bound.NodeKind{
	bound.IfExpressionKind,
	bound.WhileExpressionKind,
	bound.RelationalExpressionKind,
	bound.AndExpressionKind,
	bound.OrExpressionKind,
	bound.StringExpressionKind,
	bound.MatchExpressionKind,
	bound.PropertyGetExpressionKind,
	bound.PropertySetExpressionKind,
	bound.IndexGetExpressionKind,
	bound.IndexSetExpressionKind,
	bound.IndirectCallExpressionKind,
	bound.PropertySetLvalueKind,
	bound.IndexSetLvalueKind,
}

func assertReduced(t *testing.T, n bound.Node) {
	t.Helper()
	for _, k := range highLevelKinds {
		assert.Zero(t, bound.CountKind(n, k), "%s survived lowering", k)
	}
}

func TestIfLowering(t *testing.T) {
	out := rewriteExpr(t, &bound.IfExpression{
		Condition: boolLiteral(true),
		Then:      int32Lit(1),
		Else:      int32Lit(2),
		Typ:       types.Int32,
	})

	block, ok := out.(*bound.BlockExpression)
	require.True(t, ok)
	require.Len(t, block.Locals, 1)
	assert.True(t, block.Locals[0].Synthesized)
	require.Len(t, block.Statements, 9)
	assert.IsType(t, &bound.ConditionalGotoStatement{}, block.Statements[0])
	assert.IsType(t, &bound.SequencePointStatement{}, block.Statements[8])
	assert.Equal(t, &bound.LocalExpression{Local: block.Locals[0]}, block.Value)
	assert.Equal(t, 3, bound.CountKind(block, bound.LabelStatementKind))
	// each branch value is assigned exactly once
	assert.Equal(t, 2, bound.CountKind(block, bound.AssignmentExpressionKind))
	assertReduced(t, block)
}

func TestWhileLowering(t *testing.T) {
	cont, brk := bound.NewLabel("continue"), bound.NewLabel("break")
	p := bound.NewParameter("p", types.BoolType)
	out := rewriteExpr(t, &bound.WhileExpression{
		Condition:     &bound.ParameterExpression{Parameter: p},
		Body:          call(bound.NewFunction("tick", types.UnitType)),
		ContinueLabel: cont,
		BreakLabel:    brk,
	})

	block := out.(*bound.BlockExpression)
	require.Len(t, block.Statements, 5)
	assert.Equal(t, cont, block.Statements[0].(*bound.LabelStatement).Label)
	cg := block.Statements[1].(*bound.ConditionalGotoStatement)
	assert.Equal(t, brk, cg.Target)
	assert.Equal(t, wk.BoolNot, cg.Condition.(*bound.UnaryExpression).Operator)
	assert.Equal(t, brk, block.Statements[4].(*bound.LabelStatement).Label)
	assert.Equal(t, types.UnitType, block.Type())
}

func TestRelationalChainEvaluatesOperandsOnce(t *testing.T) {
	f := bound.NewFunction("f", types.Int32)
	g := bound.NewFunction("g", types.Int32)
	h := bound.NewFunction("h", types.Int32)
	lss := intrinsics.Binary(token.LSS, types.Int32, types.Int32)
	leq := intrinsics.Binary(token.LEQ, types.Int32, types.Int32)

	out := rewriteExpr(t, &bound.RelationalExpression{
		First: call(f),
		Comparisons: []bound.Comparison{
			{Operator: lss, Next: call(g)},
			{Operator: leq, Next: call(h)},
		},
	})

	for _, fn := range []*bound.Function{f, g, h} {
		assert.Equal(t, 1, countCalls(out, fn), fn.Name())
	}
	// the second comparison is only reached through a conditional jump
	assert.Equal(t, 1, bound.CountKind(out, bound.ConditionalGotoStatementKind))
	assert.Len(t, find[*bound.BinaryExpression](out), 2)
	assertReduced(t, out)
}

func TestSingleComparisonIsABinaryExpression(t *testing.T) {
	lss := intrinsics.Binary(token.LSS, types.Int32, types.Int32)
	out := rewriteExpr(t, &bound.RelationalExpression{
		First:       int32Lit(1),
		Comparisons: []bound.Comparison{{Operator: lss, Next: int32Lit(2)}},
	})
	bin, ok := out.(*bound.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, lss, bin.Operator)
}

func TestShortCircuitOperators(t *testing.T) {
	rhs := bound.NewFunction("rhs", types.BoolType)
	tests := []struct {
		name string
		expr bound.Expression
	}{
		{"and", &bound.AndExpression{Left: boolLiteral(false), Right: call(rhs)}},
		{"or", &bound.OrExpression{Left: boolLiteral(true), Right: call(rhs)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := rewriteExpr(t, tt.expr)
			// the right operand sits behind the branch, never in the condition
			cg := find[*bound.ConditionalGotoStatement](out)
			require.Len(t, cg, 1)
			assert.Zero(t, countCalls(cg[0].Condition, rhs))
			assert.Equal(t, 1, countCalls(out, rhs))
			assertReduced(t, out)
		})
	}
}

func TestStringLowering(t *testing.T) {
	a := bound.NewLocal("a", types.Int32)
	b := bound.NewLocal("b", types.StringType)

	t.Run("empty", func(t *testing.T) {
		out := rewriteExpr(t, &bound.StringExpression{})
		assert.Equal(t, "", out.(*bound.LiteralExpression).Value)
	})
	t.Run("text", func(t *testing.T) {
		out := rewriteExpr(t, &bound.StringExpression{Parts: []bound.StringPart{&bound.StringText{Text: "hi {x}"}}})
		assert.Equal(t, "hi {x}", out.(*bound.LiteralExpression).Value)
	})
	t.Run("single interpolation", func(t *testing.T) {
		out := rewriteExpr(t, &bound.StringExpression{Parts: []bound.StringPart{
			&bound.StringInterpolation{Value: &bound.LocalExpression{Local: a}},
		}})
		assert.Equal(t, wk.ToString, out.(*bound.CallExpression).Method)
	})
	t.Run("format", func(t *testing.T) {
		out := rewriteExpr(t, &bound.StringExpression{Parts: []bound.StringPart{
			&bound.StringText{Text: "x{"},
			&bound.StringInterpolation{Value: &bound.LocalExpression{Local: a}},
			&bound.StringText{Text: "} "},
			&bound.StringInterpolation{Value: &bound.LocalExpression{Local: b}},
		}})
		block := out.(*bound.BlockExpression)
		format := block.Value.(*bound.CallExpression)
		assert.Equal(t, wk.Format, format.Method)
		assert.Equal(t, "x{{{0}}} {1}", format.Arguments[0].(*bound.LiteralExpression).Value)

		arrays := find[*bound.ArrayCreationExpression](block)
		require.Len(t, arrays, 1)
		assert.Equal(t, int32(2), arrays[0].Sizes[0].(*bound.LiteralExpression).Value)
		assert.Len(t, find[*bound.ArrayAccessLvalue](block), 2)
	})
}

func TestVariadicCallPacksTrailingArguments(t *testing.T) {
	log := bound.NewFunction("log", types.UnitType,
		bound.NewParameter("prefix", types.StringType),
		bound.NewVariadicParameter("values", types.ObjectType))

	out := rewriteExpr(t, &bound.CallExpression{
		Method:    log,
		Arguments: []bound.Expression{strLit(">"), int32Lit(1), int32Lit(2), int32Lit(3)},
		Expanded:  true,
	})

	block := out.(*bound.BlockExpression)
	require.Len(t, block.Locals, 2)
	packed := block.Value.(*bound.CallExpression)
	assert.False(t, packed.Expanded)
	require.Len(t, packed.Arguments, 2)
	assert.Equal(t, &bound.LocalExpression{Local: block.Locals[1]}, packed.Arguments[1])

	arrays := find[*bound.ArrayCreationExpression](block)
	require.Len(t, arrays, 1)
	assert.Equal(t, types.ObjectType, arrays[0].ElementType)
	assert.Equal(t, int32(3), arrays[0].Sizes[0].(*bound.LiteralExpression).Value)
	assert.Len(t, find[*bound.ArrayAccessLvalue](block), 3)
}

func TestUnexpandedCallIsLeftAlone(t *testing.T) {
	arr := bound.NewLocal("arr", types.ArrayOf(types.ObjectType))
	c := &bound.CallExpression{
		Method:    intrinsics.WriteAll,
		Arguments: []bound.Expression{&bound.LocalExpression{Local: arr}},
	}
	assert.Same(t, c, rewriteExpr(t, c))
}

func TestMatchLowering(t *testing.T) {
	x := bound.NewParameter("x", types.Int32)
	out := rewriteExpr(t, &bound.MatchExpression{
		Matched: &bound.ParameterExpression{Parameter: x},
		Arms: []bound.MatchArm{
			{Pattern: &bound.LiteralPattern{Value: int32(1), Typ: types.Int32}, Value: strLit("one")},
			{Pattern: &bound.DiscardPattern{}, Value: strLit("other")},
		},
		Typ: types.StringType,
	})

	block := out.(*bound.BlockExpression)
	require.Len(t, block.Locals, 1)
	assert.Equal(t, types.Int32, block.Locals[0].Type)
	// the matched value is evaluated once, into the first statement
	assert.Equal(t, 1, bound.CountKind(block, bound.ParameterExpressionKind))
	assert.Equal(t, 1, countCalls(block, wk.ObjectEquals))

	// arms are tested in source order
	gotos := find[*bound.ConditionalGotoStatement](block)
	require.Len(t, gotos, 2)
	assert.Equal(t, wk.ObjectEquals, gotos[0].Condition.(*bound.CallExpression).Method)
	assertReduced(t, block)
}

func TestMatchRejectsBindingPatterns(t *testing.T) {
	var err error
	func() {
		defer contract.Recover(&err)
		rewriteExpr(t, &bound.MatchExpression{
			Matched: int32Lit(1),
			Arms: []bound.MatchArm{
				{Pattern: &bound.BindingPattern{Local: bound.NewLocal("y", types.Int32)}, Value: int32Lit(2)},
			},
			Typ: types.Int32,
		})
	}()
	var ice *contract.InternalError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, contract.UnsupportedPattern, ice.Kind)
	assert.Equal(t, string(bound.BindingPatternKind), ice.Node)
}

func TestAccessorLowering(t *testing.T) {
	counter := bound.NewClass("Counter", false)
	getter := bound.NewFunction("get_Count", types.Int32)
	setter := bound.NewFunction("set_Count", types.UnitType, bound.NewParameter("value", types.Int32))
	getter.Static, setter.Static = false, false
	counter.Add(getter, setter)
	newCounter := bound.NewFunction("newCounter", counter.Type)
	add := intrinsics.Binary(token.ADD, types.Int32, types.Int32)

	t.Run("get", func(t *testing.T) {
		out := rewriteExpr(t, &bound.PropertyGetExpression{Receiver: call(newCounter), Getter: getter})
		c := out.(*bound.CallExpression)
		assert.Equal(t, getter, c.Method)
		assert.Equal(t, newCounter, c.Receiver.(*bound.CallExpression).Method)
	})

	t.Run("set", func(t *testing.T) {
		out := rewriteExpr(t, &bound.PropertySetExpression{Receiver: call(newCounter), Setter: setter, Value: int32Lit(4)})
		block := out.(*bound.BlockExpression)
		assert.Equal(t, 1, countCalls(block, setter))
		assert.Equal(t, 1, countCalls(block, newCounter))
		assert.IsType(t, &bound.LocalExpression{}, block.Value)
	})

	t.Run("compound assignment", func(t *testing.T) {
		out := rewriteExpr(t, &bound.AssignmentExpression{
			CompoundOperator: add,
			Left:             &bound.PropertySetLvalue{Receiver: call(newCounter), Getter: getter, Setter: setter},
			Right:            int32Lit(1),
		})
		// receiver evaluated once, read once, written once
		assert.Equal(t, 1, countCalls(out, newCounter))
		assert.Equal(t, 1, countCalls(out, getter))
		assert.Equal(t, 1, countCalls(out, setter))
		assert.Equal(t, types.Int32, out.Type())
		assertReduced(t, out)
	})

	t.Run("indexer", func(t *testing.T) {
		item := bound.NewFunction("set_Item", types.UnitType,
			bound.NewParameter("index", types.Int32), bound.NewParameter("value", types.StringType))
		item.Static = false
		counter.Add(item)
		out := rewriteExpr(t, &bound.IndexSetExpression{
			Receiver: call(newCounter), Setter: item, Indices: []bound.Expression{int32Lit(0)}, Value: strLit("v"),
		})
		setCalls := find[*bound.CallExpression](out)
		var set *bound.CallExpression
		for _, c := range setCalls {
			if c.Method == item {
				set = c
			}
		}
		require.NotNil(t, set)
		assert.Len(t, set.Arguments, 2)
	})
}

func TestIndirectCallBecomesInvoke(t *testing.T) {
	fnType := types.Func{Params: []types.Type{types.Int32}, Return: types.Int32}
	f := bound.NewLocal("f", fnType)
	invoke := intrinsics.InvokeFor(fnType)
	out := rewriteExpr(t, &bound.IndirectCallExpression{
		Callee:    &bound.LocalExpression{Local: f},
		Invoke:    invoke,
		Arguments: []bound.Expression{int32Lit(3)},
	})
	c := out.(*bound.CallExpression)
	assert.Equal(t, invoke, c.Method)
	assert.Equal(t, f, c.Receiver.(*bound.LocalExpression).Local)
}

func TestUselessStatementsAreElided(t *testing.T) {
	value := int32Lit(5)
	out := rewriteExpr(t, &bound.BlockExpression{
		Statements: []bound.Statement{
			&bound.NoOpStatement{},
			stmt(&bound.UnitExpression{}),
			stmt(&bound.BlockExpression{Value: &bound.UnitExpression{}}),
		},
		Value: value,
	})
	assert.Same(t, value, out)
}

func TestRewriteIsIdempotent(t *testing.T) {
	x := bound.NewParameter("x", types.Int32)
	lss := intrinsics.Binary(token.LSS, types.Int32, types.Int32)
	body := stmt(&bound.BlockExpression{
		Statements: []bound.Statement{
			stmt(&bound.WhileExpression{
				Condition: &bound.RelationalExpression{
					First:       &bound.ParameterExpression{Parameter: x},
					Comparisons: []bound.Comparison{{Operator: lss, Next: int32Lit(10)}, {Operator: lss, Next: int32Lit(20)}},
				},
				Body: &bound.UnitExpression{},
			}),
		},
		Value: &bound.IfExpression{
			Condition: &bound.OrExpression{Left: boolLiteral(true), Right: boolLiteral(false)},
			Then:      strLit("a"),
			Else:      &bound.StringExpression{Parts: []bound.StringPart{&bound.StringText{Text: "b"}}},
			Typ:       types.StringType,
		},
	})

	once := Rewrite(wk, body)
	assertReduced(t, once)
	assert.Same(t, once, Rewrite(wk, once))
}

func TestExtractLocalFunctions(t *testing.T) {
	inner := bound.NewFunction("inner", types.UnitType)
	nested := bound.NewFunction("nested", types.UnitType)
	body := stmt(&bound.BlockExpression{
		Statements: []bound.Statement{
			&bound.LocalFunctionStatement{Function: inner},
			stmt(call(intrinsics.WriteLine, strLit("a"))),
			stmt(&bound.BlockExpression{
				Statements: []bound.Statement{&bound.LocalFunctionStatement{Function: nested}},
				Value:      &bound.UnitExpression{},
			}),
		},
		Value: &bound.UnitExpression{},
	})

	out, extracted := ExtractLocalFunctions(body)
	assert.Equal(t, []*bound.Function{inner, nested}, extracted)
	assert.Zero(t, bound.CountKind(out, bound.LocalFunctionStatementKind))
	assert.Equal(t, 1, countCalls(out, intrinsics.WriteLine))

	again, none := ExtractLocalFunctions(out)
	assert.Empty(t, none)
	assert.Same(t, out, again)
}

func TestInjectSequencePoints(t *testing.T) {
	x := bound.NewLocal("x", types.Int32)
	y := bound.NewLocal("y", types.Int32)
	body := stmt(&bound.BlockExpression{
		Base:   bound.At(token.NewRange("a.src", 1, 1, 20)),
		Locals: []*bound.Local{x, y},
		Statements: []bound.Statement{
			&bound.LocalDeclaration{Base: bound.At(token.NewRange("a.src", 2, 3, 12)), Local: x, Value: int32Lit(1)},
			&bound.LocalDeclaration{Base: bound.At(token.NewRange("a.src", 3, 3, 8)), Local: y},
		},
		Value: &bound.UnitExpression{},
	})

	out := InjectSequencePoints(body)
	points := find[*bound.SequencePointStatement](out)
	require.Len(t, points, 3)

	brace := points[0]
	assert.True(t, brace.EmitNoOp)
	assert.Nil(t, brace.Statement)
	assert.Equal(t, 1, brace.Location.Start.Line)
	assert.Equal(t, brace.Location.Start.Column+1, brace.Location.End.Column)

	assert.False(t, points[1].EmitNoOp, "declaration with an initializer")
	assert.True(t, points[2].EmitNoOp, "declaration without an initializer")

	// the unit value has no syntax of its own
	assert.Empty(t, find[*bound.SequencePointExpression](out))
}
