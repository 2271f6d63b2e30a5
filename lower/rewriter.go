package lower

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/types"
)

// Rewrite lowers the high-level constructs in body (if, while, match, comparison
// chains, short-circuit operators, string interpolation, variadic calls, property
// and indexer access, indirect calls) into blocks, labels, gotos and plain calls.
// The result contains only node kinds local codegen understands.
func Rewrite(wk *bound.WellKnown, body bound.Statement) bound.Statement {
	r := &localRewriter{wk: wk}
	return r.RewriteStatement(body)
}

type localRewriter struct {
	wk *bound.WellKnown
}

func (r *localRewriter) RewriteStatement(s bound.Statement) bound.Statement {
	return bound.RewriteStatementChildren(r, s)
}

// RewriteExpression applies one lowering rule and rewrites the rule's output again,
// so nested constructs in the operands are lowered by the second pass.
func (r *localRewriter) RewriteExpression(e bound.Expression) bound.Expression {
	var lowered bound.Expression
	switch e := e.(type) {
	case *bound.IfExpression:
		lowered = r.lowerIf(e)
	case *bound.WhileExpression:
		lowered = r.lowerWhile(e)
	case *bound.RelationalExpression:
		lowered = r.lowerRelational(e)
	case *bound.AndExpression:
		lowered = &bound.IfExpression{
			Base: e.Base, Condition: e.Left, Then: e.Right, Else: boolLiteral(false), Typ: types.BoolType,
		}
	case *bound.OrExpression:
		lowered = &bound.IfExpression{
			Base: e.Base, Condition: e.Left, Then: boolLiteral(true), Else: e.Right, Typ: types.BoolType,
		}
	case *bound.StringExpression:
		lowered = r.lowerString(e)
	case *bound.CallExpression:
		if !e.Expanded || !e.Method.IsVariadic() {
			return bound.RewriteExpressionChildren(r, e)
		}
		lowered = r.lowerVariadicCall(e)
	case *bound.IndirectCallExpression:
		lowered = &bound.CallExpression{Base: e.Base, Receiver: e.Callee, Method: e.Invoke, Arguments: e.Arguments}
	case *bound.MatchExpression:
		lowered = r.lowerMatch(e)
	case *bound.PropertyGetExpression:
		lowered = &bound.CallExpression{Base: e.Base, Receiver: e.Receiver, Method: e.Getter}
	case *bound.IndexGetExpression:
		lowered = &bound.CallExpression{Base: e.Base, Receiver: e.Receiver, Method: e.Getter, Arguments: e.Indices}
	case *bound.PropertySetExpression:
		lowered = r.lowerSetter(e.Base, e.Receiver, e.Setter, nil, e.Value)
	case *bound.IndexSetExpression:
		lowered = r.lowerSetter(e.Base, e.Receiver, e.Setter, e.Indices, e.Value)
	case *bound.AssignmentExpression:
		switch lv := e.Left.(type) {
		case *bound.PropertySetLvalue:
			lowered = r.lowerAccessorAssignment(e, lv.Receiver, lv.Getter, lv.Setter, nil)
		case *bound.IndexSetLvalue:
			lowered = r.lowerAccessorAssignment(e, lv.Receiver, lv.Getter, lv.Setter, lv.Indices)
		default:
			return bound.RewriteExpressionChildren(r, e)
		}
	case *bound.BlockExpression:
		return elideUseless(bound.RewriteExpressionChildren(r, e).(*bound.BlockExpression))
	default:
		return bound.RewriteExpressionChildren(r, e)
	}
	if glog.V(5) {
		glog.Infof("lower: %s -> %s", e.Kind(), lowered.Kind())
	}
	return r.RewriteExpression(lowered)
}

// if (c) t else e
//
//	  conditional goto then when c
//	  goto else
//	then:
//	  result = t
//	  goto finally
//	else:
//	  result = e
//	finally:
//	  nop
//	  result
func (r *localRewriter) lowerIf(n *bound.IfExpression) bound.Expression {
	result := bound.NewSynthesizedLocal("result", n.Typ)
	thenLabel := bound.NewLabel("then")
	elseLabel := bound.NewLabel("else")
	finallyLabel := bound.NewLabel("finally")
	return &bound.BlockExpression{
		Base:   n.Base,
		Locals: []*bound.Local{result},
		Statements: []bound.Statement{
			&bound.ConditionalGotoStatement{Condition: n.Condition, Target: thenLabel},
			gotoStatement(elseLabel),
			&bound.LabelStatement{Label: thenLabel},
			assignStatement(result, n.Then),
			gotoStatement(finallyLabel),
			&bound.LabelStatement{Label: elseLabel},
			assignStatement(result, n.Else),
			&bound.LabelStatement{Label: finallyLabel},
			&bound.SequencePointStatement{EmitNoOp: true},
		},
		Value: &bound.LocalExpression{Local: result},
	}
}

// while (c) b
//
//	continue:
//	  conditional goto break when !c
//	  b
//	  goto continue
//	break:
func (r *localRewriter) lowerWhile(n *bound.WhileExpression) bound.Expression {
	continueLabel, breakLabel := n.ContinueLabel, n.BreakLabel
	if continueLabel == nil {
		continueLabel = bound.NewLabel("continue")
	}
	if breakLabel == nil {
		breakLabel = bound.NewLabel("break")
	}
	return &bound.BlockExpression{
		Base: n.Base,
		Statements: []bound.Statement{
			&bound.LabelStatement{Label: continueLabel},
			&bound.ConditionalGotoStatement{
				Condition: &bound.UnaryExpression{Operator: r.wk.BoolNot, Operand: n.Condition},
				Target:    breakLabel,
			},
			&bound.ExpressionStatement{Expression: n.Body},
			gotoStatement(continueLabel),
			&bound.LabelStatement{Label: breakLabel},
		},
		Value: &bound.UnitExpression{},
	}
}

// a < b < c evaluates each operand once, left to right, into a temporary and
// joins the pairwise comparisons with short-circuit and.
func (r *localRewriter) lowerRelational(n *bound.RelationalExpression) bound.Expression {
	contract.Assertf(len(n.Comparisons) > 0, "relational expression without comparisons")
	if len(n.Comparisons) == 1 {
		c := n.Comparisons[0]
		return &bound.BinaryExpression{Base: n.Base, Operator: c.Operator, Left: n.First, Right: c.Next}
	}

	operands := make([]bound.Expression, 0, len(n.Comparisons)+1)
	operands = append(operands, n.First)
	for _, c := range n.Comparisons {
		operands = append(operands, c.Next)
	}

	locals := make([]*bound.Local, len(operands))
	stmts := make([]bound.Statement, len(operands))
	for i, op := range operands {
		locals[i] = bound.NewSynthesizedLocal(fmt.Sprintf("cmp%d", i), op.Type())
		stmts[i] = &bound.LocalDeclaration{Local: locals[i], Value: op}
	}

	var value bound.Expression
	for i := len(n.Comparisons) - 1; i >= 0; i-- {
		cmp := &bound.BinaryExpression{
			Operator: n.Comparisons[i].Operator,
			Left:     &bound.LocalExpression{Local: locals[i]},
			Right:    &bound.LocalExpression{Local: locals[i+1]},
		}
		if value == nil {
			value = cmp
			continue
		}
		value = &bound.AndExpression{Left: cmp, Right: value}
	}
	return &bound.BlockExpression{Base: n.Base, Locals: locals, Statements: stmts, Value: value}
}

var formatEscaper = strings.NewReplacer("{", "{{", "}", "}}")

func (r *localRewriter) lowerString(n *bound.StringExpression) bound.Expression {
	switch len(n.Parts) {
	case 0:
		return &bound.LiteralExpression{Base: n.Base, Value: "", Typ: types.StringType}
	case 1:
		switch part := n.Parts[0].(type) {
		case *bound.StringText:
			return &bound.LiteralExpression{Base: n.Base, Value: part.Text, Typ: types.StringType}
		case *bound.StringInterpolation:
			return &bound.CallExpression{
				Base: n.Base, Method: r.wk.ToString, Arguments: []bound.Expression{part.Value},
			}
		}
	}

	var format strings.Builder
	var values []bound.Expression
	for _, part := range n.Parts {
		switch part := part.(type) {
		case *bound.StringText:
			format.WriteString(formatEscaper.Replace(part.Text))
		case *bound.StringInterpolation:
			fmt.Fprintf(&format, "{%d}", len(values))
			values = append(values, part.Value)
		default:
			contract.Failf("unrecognized string part %v", part.Kind())
		}
	}

	args := bound.NewSynthesizedLocal("args", types.ArrayOf(types.ObjectType))
	stmts := []bound.Statement{
		&bound.LocalDeclaration{Local: args, Value: &bound.ArrayCreationExpression{
			ElementType: types.ObjectType,
			Sizes:       []bound.Expression{int32Literal(len(values))},
		}},
	}
	for i, v := range values {
		stmts = append(stmts, storeElementStatement(args, i, v))
	}
	return &bound.BlockExpression{
		Base:       n.Base,
		Locals:     []*bound.Local{args},
		Statements: stmts,
		Value: &bound.CallExpression{
			Method: r.wk.Format,
			Arguments: []bound.Expression{
				&bound.LiteralExpression{Value: format.String(), Typ: types.StringType},
				&bound.LocalExpression{Local: args},
			},
		},
	}
}

// lowerVariadicCall packs the trailing arguments of an expanded call into an array.
// Every argument is evaluated, in order, before the array is built.
func (r *localRewriter) lowerVariadicCall(n *bound.CallExpression) bound.Expression {
	params := n.Method.Params
	fixed := len(params) - 1
	contract.Assertf(len(n.Arguments) >= fixed,
		"%s takes at least %d arguments, got %d", n.Method.FullName(), fixed, len(n.Arguments))

	var locals []*bound.Local
	var stmts []bound.Statement
	temp := func(name string, value bound.Expression) bound.Expression {
		l := bound.NewSynthesizedLocal(name, value.Type())
		locals = append(locals, l)
		stmts = append(stmts, &bound.LocalDeclaration{Local: l, Value: value})
		return &bound.LocalExpression{Local: l}
	}

	receiver := n.Receiver
	if receiver != nil && !isStable(receiver) {
		receiver = temp("receiver", receiver)
	}
	args := make([]bound.Expression, 0, len(params))
	for i := 0; i < fixed; i++ {
		args = append(args, temp(fmt.Sprintf("arg%d", i), n.Arguments[i]))
	}

	trailing := n.Arguments[fixed:]
	arrayType := params[fixed].Type
	elem := types.Type(types.ObjectType)
	if at, ok := arrayType.(types.Array); ok {
		elem = at.Elem
	}
	packed := bound.NewSynthesizedLocal("varargs", arrayType)
	locals = append(locals, packed)
	stmts = append(stmts, &bound.LocalDeclaration{Local: packed, Value: &bound.ArrayCreationExpression{
		ElementType: elem,
		Sizes:       []bound.Expression{int32Literal(len(trailing))},
	}})
	for i, v := range trailing {
		stmts = append(stmts, storeElementStatement(packed, i, v))
	}
	args = append(args, &bound.LocalExpression{Local: packed})

	return &bound.BlockExpression{
		Base:       n.Base,
		Locals:     locals,
		Statements: stmts,
		Value:      &bound.CallExpression{Receiver: receiver, Method: n.Method, Arguments: args},
	}
}

// lowerMatch tests arms in source order against a single evaluation of the
// matched value. No arm matching yields the default value of the match type.
func (r *localRewriter) lowerMatch(n *bound.MatchExpression) bound.Expression {
	matched := bound.NewSynthesizedLocal("matched", n.Matched.Type())
	var value bound.Expression = &bound.LiteralExpression{Value: nil, Typ: n.Typ}
	for i := len(n.Arms) - 1; i >= 0; i-- {
		arm := n.Arms[i]
		cond := r.patternTest(arm.Pattern, matched)
		if arm.Guard != nil {
			cond = &bound.AndExpression{Left: cond, Right: arm.Guard}
		}
		value = &bound.IfExpression{Condition: cond, Then: arm.Value, Else: value, Typ: n.Typ}
	}
	return &bound.BlockExpression{
		Base:       n.Base,
		Locals:     []*bound.Local{matched},
		Statements: []bound.Statement{&bound.LocalDeclaration{Local: matched, Value: n.Matched}},
		Value:      value,
	}
}

func (r *localRewriter) patternTest(p bound.Pattern, matched *bound.Local) bound.Expression {
	switch p := p.(type) {
	case *bound.DiscardPattern:
		return boolLiteral(true)
	case *bound.LiteralPattern:
		return &bound.CallExpression{
			Base:   p.Base,
			Method: r.wk.ObjectEquals,
			Arguments: []bound.Expression{
				&bound.LocalExpression{Local: matched},
				&bound.LiteralExpression{Base: p.Base, Value: p.Value, Typ: p.Typ},
			},
		}
	default:
		contract.Unsupported(string(p.Kind()))
		return nil
	}
}

// lowerSetter calls setter with the indices and value, all evaluated once into
// temporaries, and yields the value.
func (r *localRewriter) lowerSetter(
	base bound.Base, receiver bound.Expression, setter *bound.Function, indices []bound.Expression,
	value bound.Expression,
) bound.Expression {
	b := newTempBlock(base)
	receiver = b.stabilize("receiver", receiver)
	indices = b.stabilizeAll(indices)
	params := setter.Params
	result := b.declare("value", params[len(params)-1].Type, value)
	return b.finish(result, receiver, setter, indices)
}

func (r *localRewriter) lowerAccessorAssignment(
	n *bound.AssignmentExpression, receiver bound.Expression, getter, setter *bound.Function,
	indices []bound.Expression,
) bound.Expression {
	b := newTempBlock(n.Base)
	receiver = b.stabilize("receiver", receiver)
	indices = b.stabilizeAll(indices)
	value := n.Right
	if n.CompoundOperator != nil {
		contract.Assertf(getter != nil, "compound assignment to %s without a getter", setter.FullName())
		current := &bound.CallExpression{Receiver: receiver, Method: getter, Arguments: indices}
		value = &bound.BinaryExpression{Operator: n.CompoundOperator, Left: current, Right: n.Right}
	}
	result := b.declare("value", n.Left.Type(), value)
	return b.finish(result, receiver, setter, indices)
}

// tempBlock accumulates temporaries for the accessor lowerings.
type tempBlock struct {
	base   bound.Base
	locals []*bound.Local
	stmts  []bound.Statement
}

func newTempBlock(base bound.Base) *tempBlock {
	return &tempBlock{base: base}
}

func (b *tempBlock) declare(name string, typ types.Type, value bound.Expression) *bound.Local {
	l := bound.NewSynthesizedLocal(name, typ)
	b.locals = append(b.locals, l)
	b.stmts = append(b.stmts, &bound.LocalDeclaration{Local: l, Value: value})
	return l
}

func (b *tempBlock) stabilize(name string, e bound.Expression) bound.Expression {
	if e == nil || isStable(e) {
		return e
	}
	return &bound.LocalExpression{Local: b.declare(name, e.Type(), e)}
}

func (b *tempBlock) stabilizeAll(es []bound.Expression) []bound.Expression {
	if len(es) == 0 {
		return es
	}
	out := make([]bound.Expression, len(es))
	for i, e := range es {
		out[i] = &bound.LocalExpression{Local: b.declare(fmt.Sprintf("index%d", i), e.Type(), e)}
	}
	return out
}

func (b *tempBlock) finish(
	result *bound.Local, receiver bound.Expression, setter *bound.Function, indices []bound.Expression,
) bound.Expression {
	args := append(append([]bound.Expression(nil), indices...), &bound.LocalExpression{Local: result})
	b.stmts = append(b.stmts, &bound.ExpressionStatement{
		Expression: &bound.CallExpression{Receiver: receiver, Method: setter, Arguments: args},
	})
	return &bound.BlockExpression{
		Base:       b.base,
		Locals:     b.locals,
		Statements: b.stmts,
		Value:      &bound.LocalExpression{Local: result},
	}
}

// isStable reports whether evaluating e twice is indistinguishable from once.
func isStable(e bound.Expression) bool {
	switch e.(type) {
	case *bound.LocalExpression, *bound.ParameterExpression, *bound.LiteralExpression, *bound.UnitExpression:
		return true
	}
	return false
}

// elideUseless drops useless statements from a block and collapses a block left
// with neither locals nor statements into its value.
func elideUseless(b *bound.BlockExpression) bound.Expression {
	var stmts []bound.Statement
	for i, s := range b.Statements {
		if isUselessStatement(s) {
			if stmts == nil {
				stmts = append(make([]bound.Statement, 0, len(b.Statements)), b.Statements[:i]...)
			}
			continue
		}
		if stmts != nil {
			stmts = append(stmts, s)
		}
	}
	if stmts == nil {
		stmts = b.Statements
	}
	if len(b.Locals) == 0 && len(stmts) == 0 {
		return b.Value
	}
	return b.Update(b.Locals, stmts, b.Value)
}

func isUselessStatement(s bound.Statement) bool {
	switch s := s.(type) {
	case *bound.NoOpStatement:
		return true
	case *bound.ExpressionStatement:
		return isUselessExpression(s.Expression)
	}
	return false
}

func isUselessExpression(e bound.Expression) bool {
	switch e := e.(type) {
	case *bound.UnitExpression:
		return true
	case *bound.BlockExpression:
		return len(e.Locals) == 0 && len(e.Statements) == 0 && isUselessExpression(e.Value)
	}
	return false
}

func boolLiteral(v bool) *bound.LiteralExpression {
	return &bound.LiteralExpression{Value: v, Typ: types.BoolType}
}

func int32Literal(v int) *bound.LiteralExpression {
	return &bound.LiteralExpression{Value: int32(v), Typ: types.Int32}
}

func gotoStatement(target *bound.Label) bound.Statement {
	return &bound.ExpressionStatement{Expression: &bound.GotoExpression{Target: target}}
}

func assignStatement(l *bound.Local, value bound.Expression) bound.Statement {
	return &bound.ExpressionStatement{Expression: &bound.AssignmentExpression{
		Left:  &bound.LocalLvalue{Local: l},
		Right: value,
	}}
}

func storeElementStatement(array *bound.Local, index int, value bound.Expression) bound.Statement {
	return &bound.ExpressionStatement{Expression: &bound.AssignmentExpression{
		Left: &bound.ArrayAccessLvalue{
			Array:   &bound.LocalExpression{Local: array},
			Indices: []bound.Expression{int32Literal(index)},
		},
		Right: value,
	}}
}
