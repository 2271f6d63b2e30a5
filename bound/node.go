package bound

import (
	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

// NodeKind names a concrete node type. It is what internal errors report.
type NodeKind string

// Node is the base interface for all bound tree nodes.
type Node interface {
	Kind() NodeKind
	// Syntax is the source range the node was bound from, or nil for synthesized nodes.
	Syntax() *token.Range
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	Type() types.Type
	expressionNode()
}

// Lvalue is the target of an assignment.
type Lvalue interface {
	Node
	Type() types.Type
	lvalueNode()
}

type Pattern interface {
	Node
	patternNode()
}

// StringPart is a text or interpolation segment of a string expression.
type StringPart interface {
	Node
	stringPartNode()
}

// Base carries the fields shared by every node.
type Base struct {
	Range *token.Range
}

func (b Base) Syntax() *token.Range { return b.Range }

// At is shorthand for a Base carrying r.
func At(r *token.Range) Base { return Base{Range: r} }

const (
	NoOpStatementKind            NodeKind = "NoOpStatement"
	ExpressionStatementKind      NodeKind = "ExpressionStatement"
	LocalDeclarationKind         NodeKind = "LocalDeclaration"
	LocalFunctionStatementKind   NodeKind = "LocalFunctionStatement"
	LabelStatementKind           NodeKind = "LabelStatement"
	ConditionalGotoStatementKind NodeKind = "ConditionalGotoStatement"
	SequencePointStatementKind   NodeKind = "SequencePointStatement"

	UnitExpressionKind             NodeKind = "UnitExpression"
	LiteralExpressionKind          NodeKind = "LiteralExpression"
	StringExpressionKind           NodeKind = "StringExpression"
	LocalExpressionKind            NodeKind = "LocalExpression"
	ParameterExpressionKind        NodeKind = "ParameterExpression"
	GlobalExpressionKind           NodeKind = "GlobalExpression"
	FieldExpressionKind            NodeKind = "FieldExpression"
	ArrayAccessExpressionKind      NodeKind = "ArrayAccessExpression"
	ArrayLengthExpressionKind      NodeKind = "ArrayLengthExpression"
	ArrayCreationExpressionKind    NodeKind = "ArrayCreationExpression"
	ObjectCreationExpressionKind   NodeKind = "ObjectCreationExpression"
	CallExpressionKind             NodeKind = "CallExpression"
	IndirectCallExpressionKind     NodeKind = "IndirectCallExpression"
	DelegateCreationExpressionKind NodeKind = "DelegateCreationExpression"
	UnaryExpressionKind            NodeKind = "UnaryExpression"
	BinaryExpressionKind           NodeKind = "BinaryExpression"
	RelationalExpressionKind       NodeKind = "RelationalExpression"
	AndExpressionKind              NodeKind = "AndExpression"
	OrExpressionKind               NodeKind = "OrExpression"
	AssignmentExpressionKind       NodeKind = "AssignmentExpression"
	BlockExpressionKind            NodeKind = "BlockExpression"
	IfExpressionKind               NodeKind = "IfExpression"
	WhileExpressionKind            NodeKind = "WhileExpression"
	GotoExpressionKind             NodeKind = "GotoExpression"
	ReturnExpressionKind           NodeKind = "ReturnExpression"
	SequencePointExpressionKind    NodeKind = "SequencePointExpression"
	MatchExpressionKind            NodeKind = "MatchExpression"
	PropertyGetExpressionKind      NodeKind = "PropertyGetExpression"
	PropertySetExpressionKind      NodeKind = "PropertySetExpression"
	IndexGetExpressionKind         NodeKind = "IndexGetExpression"
	IndexSetExpressionKind         NodeKind = "IndexSetExpression"
	FunctionGroupExpressionKind    NodeKind = "FunctionGroupExpression"
	TypeExpressionKind             NodeKind = "TypeExpression"
	ModuleExpressionKind           NodeKind = "ModuleExpression"

	LocalLvalueKind       NodeKind = "LocalLvalue"
	ParameterLvalueKind   NodeKind = "ParameterLvalue"
	GlobalLvalueKind      NodeKind = "GlobalLvalue"
	FieldLvalueKind       NodeKind = "FieldLvalue"
	ArrayAccessLvalueKind NodeKind = "ArrayAccessLvalue"
	PropertySetLvalueKind NodeKind = "PropertySetLvalue"
	IndexSetLvalueKind    NodeKind = "IndexSetLvalue"
	IllegalLvalueKind     NodeKind = "IllegalLvalue"

	DiscardPatternKind NodeKind = "DiscardPattern"
	LiteralPatternKind NodeKind = "LiteralPattern"
	BindingPatternKind NodeKind = "BindingPattern"

	StringTextKind          NodeKind = "StringText"
	StringInterpolationKind NodeKind = "StringInterpolation"
)
