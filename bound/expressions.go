package bound

import (
	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

type UnitExpression struct {
	Base
}

func (*UnitExpression) Kind() NodeKind   { return UnitExpressionKind }
func (*UnitExpression) Type() types.Type { return types.UnitType }
func (*UnitExpression) expressionNode()  {}

// LiteralExpression is a constant. A nil Value is the default value of Typ.
type LiteralExpression struct {
	Base
	Value any
	Typ   types.Type
}

func (*LiteralExpression) Kind() NodeKind     { return LiteralExpressionKind }
func (n *LiteralExpression) Type() types.Type { return n.Typ }
func (*LiteralExpression) expressionNode()    {}

// StringExpression is a possibly interpolated string.
type StringExpression struct {
	Base
	Parts []StringPart
}

func (*StringExpression) Kind() NodeKind   { return StringExpressionKind }
func (*StringExpression) Type() types.Type { return types.StringType }
func (*StringExpression) expressionNode()  {}

func (n *StringExpression) Update(parts []StringPart) *StringExpression {
	if sameSlice(parts, n.Parts) {
		return n
	}
	return &StringExpression{Base: n.Base, Parts: parts}
}

type LocalExpression struct {
	Base
	Local *Local
}

func (*LocalExpression) Kind() NodeKind     { return LocalExpressionKind }
func (n *LocalExpression) Type() types.Type { return n.Local.Type }
func (*LocalExpression) expressionNode()    {}

type ParameterExpression struct {
	Base
	Parameter *Parameter
}

func (*ParameterExpression) Kind() NodeKind     { return ParameterExpressionKind }
func (n *ParameterExpression) Type() types.Type { return n.Parameter.Type }
func (*ParameterExpression) expressionNode()    {}

// GlobalExpression reads a static field.
type GlobalExpression struct {
	Base
	Field *Field
}

func (*GlobalExpression) Kind() NodeKind     { return GlobalExpressionKind }
func (n *GlobalExpression) Type() types.Type { return n.Field.Type }
func (*GlobalExpression) expressionNode()    {}

type FieldExpression struct {
	Base
	Receiver Expression
	Field    *Field
}

func (*FieldExpression) Kind() NodeKind     { return FieldExpressionKind }
func (n *FieldExpression) Type() types.Type { return n.Field.Type }
func (*FieldExpression) expressionNode()    {}

func (n *FieldExpression) Update(receiver Expression) *FieldExpression {
	if receiver == n.Receiver {
		return n
	}
	return &FieldExpression{Base: n.Base, Receiver: receiver, Field: n.Field}
}

type ArrayAccessExpression struct {
	Base
	Array   Expression
	Indices []Expression
}

func (*ArrayAccessExpression) Kind() NodeKind     { return ArrayAccessExpressionKind }
func (n *ArrayAccessExpression) Type() types.Type { return elementType(n.Array.Type()) }
func (*ArrayAccessExpression) expressionNode()    {}

func (n *ArrayAccessExpression) Update(array Expression, indices []Expression) *ArrayAccessExpression {
	if array == n.Array && sameSlice(indices, n.Indices) {
		return n
	}
	return &ArrayAccessExpression{Base: n.Base, Array: array, Indices: indices}
}

type ArrayLengthExpression struct {
	Base
	Array Expression
}

func (*ArrayLengthExpression) Kind() NodeKind   { return ArrayLengthExpressionKind }
func (*ArrayLengthExpression) Type() types.Type { return types.Int32 }
func (*ArrayLengthExpression) expressionNode()  {}

func (n *ArrayLengthExpression) Update(array Expression) *ArrayLengthExpression {
	if array == n.Array {
		return n
	}
	return &ArrayLengthExpression{Base: n.Base, Array: array}
}

type ArrayCreationExpression struct {
	Base
	ElementType types.Type
	Sizes       []Expression
}

func (*ArrayCreationExpression) Kind() NodeKind  { return ArrayCreationExpressionKind }
func (*ArrayCreationExpression) expressionNode() {}

func (n *ArrayCreationExpression) Type() types.Type {
	return types.Array{Elem: n.ElementType, Rank: len(n.Sizes)}
}

func (n *ArrayCreationExpression) Update(sizes []Expression) *ArrayCreationExpression {
	if sameSlice(sizes, n.Sizes) {
		return n
	}
	return &ArrayCreationExpression{Base: n.Base, ElementType: n.ElementType, Sizes: sizes}
}

type ObjectCreationExpression struct {
	Base
	ObjectType  types.Type
	Constructor *Function
	Arguments   []Expression
}

func (*ObjectCreationExpression) Kind() NodeKind     { return ObjectCreationExpressionKind }
func (n *ObjectCreationExpression) Type() types.Type { return n.ObjectType }
func (*ObjectCreationExpression) expressionNode()    {}

func (n *ObjectCreationExpression) Update(args []Expression) *ObjectCreationExpression {
	if sameSlice(args, n.Arguments) {
		return n
	}
	return &ObjectCreationExpression{Base: n.Base, ObjectType: n.ObjectType, Constructor: n.Constructor, Arguments: args}
}

// CallExpression calls Method. Receiver is nil for static calls.
// Expanded marks a variadic call whose trailing arguments have not been packed yet.
type CallExpression struct {
	Base
	Receiver  Expression
	Method    *Function
	Arguments []Expression
	Expanded  bool
}

func (*CallExpression) Kind() NodeKind     { return CallExpressionKind }
func (n *CallExpression) Type() types.Type { return n.Method.ReturnType }
func (*CallExpression) expressionNode()    {}

func (n *CallExpression) Update(receiver Expression, args []Expression) *CallExpression {
	if receiver == n.Receiver && sameSlice(args, n.Arguments) {
		return n
	}
	return &CallExpression{Base: n.Base, Receiver: receiver, Method: n.Method, Arguments: args, Expanded: n.Expanded}
}

// IndirectCallExpression calls a function value through its Invoke method.
type IndirectCallExpression struct {
	Base
	Callee    Expression
	Invoke    *Function
	Arguments []Expression
}

func (*IndirectCallExpression) Kind() NodeKind     { return IndirectCallExpressionKind }
func (n *IndirectCallExpression) Type() types.Type { return n.Invoke.ReturnType }
func (*IndirectCallExpression) expressionNode()    {}

func (n *IndirectCallExpression) Update(callee Expression, args []Expression) *IndirectCallExpression {
	if callee == n.Callee && sameSlice(args, n.Arguments) {
		return n
	}
	return &IndirectCallExpression{Base: n.Base, Callee: callee, Invoke: n.Invoke, Arguments: args}
}

// DelegateCreationExpression turns a method into a function value.
type DelegateCreationExpression struct {
	Base
	Receiver     Expression
	Method       *Function
	DelegateType types.Type
}

func (*DelegateCreationExpression) Kind() NodeKind     { return DelegateCreationExpressionKind }
func (n *DelegateCreationExpression) Type() types.Type { return n.DelegateType }
func (*DelegateCreationExpression) expressionNode()    {}

func (n *DelegateCreationExpression) Update(receiver Expression) *DelegateCreationExpression {
	if receiver == n.Receiver {
		return n
	}
	return &DelegateCreationExpression{Base: n.Base, Receiver: receiver, Method: n.Method, DelegateType: n.DelegateType}
}

type UnaryExpression struct {
	Base
	Operator *Function
	Operand  Expression
}

func (*UnaryExpression) Kind() NodeKind     { return UnaryExpressionKind }
func (n *UnaryExpression) Type() types.Type { return n.Operator.ReturnType }
func (*UnaryExpression) expressionNode()    {}

func (n *UnaryExpression) Update(operand Expression) *UnaryExpression {
	if operand == n.Operand {
		return n
	}
	return &UnaryExpression{Base: n.Base, Operator: n.Operator, Operand: operand}
}

type BinaryExpression struct {
	Base
	Operator *Function
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) Kind() NodeKind     { return BinaryExpressionKind }
func (n *BinaryExpression) Type() types.Type { return n.Operator.ReturnType }
func (*BinaryExpression) expressionNode()    {}

func (n *BinaryExpression) Update(left, right Expression) *BinaryExpression {
	if left == n.Left && right == n.Right {
		return n
	}
	return &BinaryExpression{Base: n.Base, Operator: n.Operator, Left: left, Right: right}
}

// Comparison is one `op next` link of a relational chain.
type Comparison struct {
	Operator *Function
	Next     Expression
}

// RelationalExpression is a chain `first op1 e1 op2 e2 ...`.
type RelationalExpression struct {
	Base
	First       Expression
	Comparisons []Comparison
}

func (*RelationalExpression) Kind() NodeKind   { return RelationalExpressionKind }
func (*RelationalExpression) Type() types.Type { return types.BoolType }
func (*RelationalExpression) expressionNode()  {}

func (n *RelationalExpression) Update(first Expression, comparisons []Comparison) *RelationalExpression {
	if first == n.First && sameSlice(comparisons, n.Comparisons) {
		return n
	}
	return &RelationalExpression{Base: n.Base, First: first, Comparisons: comparisons}
}

type AndExpression struct {
	Base
	Left  Expression
	Right Expression
}

func (*AndExpression) Kind() NodeKind   { return AndExpressionKind }
func (*AndExpression) Type() types.Type { return types.BoolType }
func (*AndExpression) expressionNode()  {}

func (n *AndExpression) Update(left, right Expression) *AndExpression {
	if left == n.Left && right == n.Right {
		return n
	}
	return &AndExpression{Base: n.Base, Left: left, Right: right}
}

type OrExpression struct {
	Base
	Left  Expression
	Right Expression
}

func (*OrExpression) Kind() NodeKind   { return OrExpressionKind }
func (*OrExpression) Type() types.Type { return types.BoolType }
func (*OrExpression) expressionNode()  {}

func (n *OrExpression) Update(left, right Expression) *OrExpression {
	if left == n.Left && right == n.Right {
		return n
	}
	return &OrExpression{Base: n.Base, Left: left, Right: right}
}

// AssignmentExpression stores Right into Left. With a CompoundOperator it
// stores `Left op Right`. Its value is the stored value.
type AssignmentExpression struct {
	Base
	CompoundOperator *Function
	Left             Lvalue
	Right            Expression
}

func (*AssignmentExpression) Kind() NodeKind     { return AssignmentExpressionKind }
func (n *AssignmentExpression) Type() types.Type { return n.Left.Type() }
func (*AssignmentExpression) expressionNode()    {}

func (n *AssignmentExpression) Update(left Lvalue, right Expression) *AssignmentExpression {
	if left == n.Left && right == n.Right {
		return n
	}
	return &AssignmentExpression{Base: n.Base, CompoundOperator: n.CompoundOperator, Left: left, Right: right}
}

// BlockExpression scopes Locals over Statements and evaluates to Value.
type BlockExpression struct {
	Base
	Locals     []*Local
	Statements []Statement
	Value      Expression
}

func (*BlockExpression) Kind() NodeKind     { return BlockExpressionKind }
func (n *BlockExpression) Type() types.Type { return n.Value.Type() }
func (*BlockExpression) expressionNode()    {}

func (n *BlockExpression) Update(locals []*Local, stmts []Statement, value Expression) *BlockExpression {
	if sameSlice(locals, n.Locals) && sameSlice(stmts, n.Statements) && value == n.Value {
		return n
	}
	return &BlockExpression{Base: n.Base, Locals: locals, Statements: stmts, Value: value}
}

type IfExpression struct {
	Base
	Condition Expression
	Then      Expression
	Else      Expression
	Typ       types.Type
}

func (*IfExpression) Kind() NodeKind     { return IfExpressionKind }
func (n *IfExpression) Type() types.Type { return n.Typ }
func (*IfExpression) expressionNode()    {}

func (n *IfExpression) Update(cond, then, els Expression) *IfExpression {
	if cond == n.Condition && then == n.Then && els == n.Else {
		return n
	}
	return &IfExpression{Base: n.Base, Condition: cond, Then: then, Else: els, Typ: n.Typ}
}

type WhileExpression struct {
	Base
	Condition     Expression
	Body          Expression
	ContinueLabel *Label
	BreakLabel    *Label
}

func (*WhileExpression) Kind() NodeKind   { return WhileExpressionKind }
func (*WhileExpression) Type() types.Type { return types.UnitType }
func (*WhileExpression) expressionNode()  {}

func (n *WhileExpression) Update(cond, body Expression) *WhileExpression {
	if cond == n.Condition && body == n.Body {
		return n
	}
	return &WhileExpression{Base: n.Base, Condition: cond, Body: body, ContinueLabel: n.ContinueLabel, BreakLabel: n.BreakLabel}
}

type GotoExpression struct {
	Base
	Target *Label
}

func (*GotoExpression) Kind() NodeKind   { return GotoExpressionKind }
func (*GotoExpression) Type() types.Type { return types.NeverType }
func (*GotoExpression) expressionNode()  {}

// ReturnExpression leaves the function. Value is a UnitExpression for unit functions.
type ReturnExpression struct {
	Base
	Value Expression
}

func (*ReturnExpression) Kind() NodeKind   { return ReturnExpressionKind }
func (*ReturnExpression) Type() types.Type { return types.NeverType }
func (*ReturnExpression) expressionNode()  {}

func (n *ReturnExpression) Update(value Expression) *ReturnExpression {
	if value == n.Value {
		return n
	}
	return &ReturnExpression{Base: n.Base, Value: value}
}

type SequencePointExpression struct {
	Base
	Expression Expression
	Location   *token.Range
	EmitNoOp   bool
}

func (*SequencePointExpression) Kind() NodeKind     { return SequencePointExpressionKind }
func (n *SequencePointExpression) Type() types.Type { return n.Expression.Type() }
func (*SequencePointExpression) expressionNode()    {}

func (n *SequencePointExpression) Update(expr Expression) *SequencePointExpression {
	if expr == n.Expression {
		return n
	}
	return &SequencePointExpression{Base: n.Base, Expression: expr, Location: n.Location, EmitNoOp: n.EmitNoOp}
}

// MatchArm is `Pattern [if Guard] -> Value`. Guard is nil when absent.
type MatchArm struct {
	Pattern Pattern
	Guard   Expression
	Value   Expression
}

type MatchExpression struct {
	Base
	Matched Expression
	Arms    []MatchArm
	Typ     types.Type
}

func (*MatchExpression) Kind() NodeKind     { return MatchExpressionKind }
func (n *MatchExpression) Type() types.Type { return n.Typ }
func (*MatchExpression) expressionNode()    {}

func (n *MatchExpression) Update(matched Expression, arms []MatchArm) *MatchExpression {
	if matched == n.Matched && sameSlice(arms, n.Arms) {
		return n
	}
	return &MatchExpression{Base: n.Base, Matched: matched, Arms: arms, Typ: n.Typ}
}

type PropertyGetExpression struct {
	Base
	Receiver Expression
	Getter   *Function
}

func (*PropertyGetExpression) Kind() NodeKind     { return PropertyGetExpressionKind }
func (n *PropertyGetExpression) Type() types.Type { return n.Getter.ReturnType }
func (*PropertyGetExpression) expressionNode()    {}

func (n *PropertyGetExpression) Update(receiver Expression) *PropertyGetExpression {
	if receiver == n.Receiver {
		return n
	}
	return &PropertyGetExpression{Base: n.Base, Receiver: receiver, Getter: n.Getter}
}

type PropertySetExpression struct {
	Base
	Receiver Expression
	Setter   *Function
	Value    Expression
}

func (*PropertySetExpression) Kind() NodeKind     { return PropertySetExpressionKind }
func (n *PropertySetExpression) Type() types.Type { return n.Value.Type() }
func (*PropertySetExpression) expressionNode()    {}

func (n *PropertySetExpression) Update(receiver, value Expression) *PropertySetExpression {
	if receiver == n.Receiver && value == n.Value {
		return n
	}
	return &PropertySetExpression{Base: n.Base, Receiver: receiver, Setter: n.Setter, Value: value}
}

type IndexGetExpression struct {
	Base
	Receiver Expression
	Getter   *Function
	Indices  []Expression
}

func (*IndexGetExpression) Kind() NodeKind     { return IndexGetExpressionKind }
func (n *IndexGetExpression) Type() types.Type { return n.Getter.ReturnType }
func (*IndexGetExpression) expressionNode()    {}

func (n *IndexGetExpression) Update(receiver Expression, indices []Expression) *IndexGetExpression {
	if receiver == n.Receiver && sameSlice(indices, n.Indices) {
		return n
	}
	return &IndexGetExpression{Base: n.Base, Receiver: receiver, Getter: n.Getter, Indices: indices}
}

type IndexSetExpression struct {
	Base
	Receiver Expression
	Setter   *Function
	Indices  []Expression
	Value    Expression
}

func (*IndexSetExpression) Kind() NodeKind     { return IndexSetExpressionKind }
func (n *IndexSetExpression) Type() types.Type { return n.Value.Type() }
func (*IndexSetExpression) expressionNode()    {}

func (n *IndexSetExpression) Update(receiver Expression, indices []Expression, value Expression) *IndexSetExpression {
	if receiver == n.Receiver && sameSlice(indices, n.Indices) && value == n.Value {
		return n
	}
	return &IndexSetExpression{Base: n.Base, Receiver: receiver, Setter: n.Setter, Indices: indices, Value: value}
}

// FunctionGroupExpression names an overload set. It is never a value.
type FunctionGroupExpression struct {
	Base
	Functions []*Function
}

func (*FunctionGroupExpression) Kind() NodeKind   { return FunctionGroupExpressionKind }
func (*FunctionGroupExpression) Type() types.Type { return types.NeverType }
func (*FunctionGroupExpression) expressionNode()  {}

// TypeExpression names a type in expression position. It is never a value.
type TypeExpression struct {
	Base
	Referenced types.Type
}

func (*TypeExpression) Kind() NodeKind   { return TypeExpressionKind }
func (*TypeExpression) Type() types.Type { return types.NeverType }
func (*TypeExpression) expressionNode()  {}

// ModuleExpression names a module in expression position. It is never a value.
type ModuleExpression struct {
	Base
	Module *Module
}

func (*ModuleExpression) Kind() NodeKind   { return ModuleExpressionKind }
func (*ModuleExpression) Type() types.Type { return types.NeverType }
func (*ModuleExpression) expressionNode()  {}
