package bound

import (
	"github.com/golang/glog"

	"github.com/thiremani/irgen/contract"
)

// Inspect traverses the tree rooted at n in depth-first order, calling fn on every
// node. Children of n are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if glog.V(9) {
		glog.V(9).Infof("inspecting %v", n.Kind())
	}

	switch n := n.(type) {
	case *NoOpStatement, *LabelStatement, *LocalFunctionStatement:
	case *ExpressionStatement:
		Inspect(n.Expression, fn)
	case *LocalDeclaration:
		inspectOptional(n.Value, fn)
	case *ConditionalGotoStatement:
		Inspect(n.Condition, fn)
	case *SequencePointStatement:
		if n.Statement != nil {
			Inspect(n.Statement, fn)
		}

	case *UnitExpression, *LiteralExpression, *LocalExpression, *ParameterExpression,
		*GlobalExpression, *GotoExpression, *FunctionGroupExpression, *TypeExpression,
		*ModuleExpression:
	case *StringExpression:
		for _, p := range n.Parts {
			Inspect(p, fn)
		}
	case *FieldExpression:
		Inspect(n.Receiver, fn)
	case *ArrayAccessExpression:
		Inspect(n.Array, fn)
		inspectAll(n.Indices, fn)
	case *ArrayLengthExpression:
		Inspect(n.Array, fn)
	case *ArrayCreationExpression:
		inspectAll(n.Sizes, fn)
	case *ObjectCreationExpression:
		inspectAll(n.Arguments, fn)
	case *CallExpression:
		inspectOptional(n.Receiver, fn)
		inspectAll(n.Arguments, fn)
	case *IndirectCallExpression:
		Inspect(n.Callee, fn)
		inspectAll(n.Arguments, fn)
	case *DelegateCreationExpression:
		inspectOptional(n.Receiver, fn)
	case *UnaryExpression:
		Inspect(n.Operand, fn)
	case *BinaryExpression:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *RelationalExpression:
		Inspect(n.First, fn)
		for _, c := range n.Comparisons {
			Inspect(c.Next, fn)
		}
	case *AndExpression:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *OrExpression:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *AssignmentExpression:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *BlockExpression:
		for _, s := range n.Statements {
			Inspect(s, fn)
		}
		Inspect(n.Value, fn)
	case *IfExpression:
		Inspect(n.Condition, fn)
		Inspect(n.Then, fn)
		Inspect(n.Else, fn)
	case *WhileExpression:
		Inspect(n.Condition, fn)
		Inspect(n.Body, fn)
	case *ReturnExpression:
		Inspect(n.Value, fn)
	case *SequencePointExpression:
		Inspect(n.Expression, fn)
	case *MatchExpression:
		Inspect(n.Matched, fn)
		for _, arm := range n.Arms {
			Inspect(arm.Pattern, fn)
			inspectOptional(arm.Guard, fn)
			Inspect(arm.Value, fn)
		}
	case *PropertyGetExpression:
		inspectOptional(n.Receiver, fn)
	case *PropertySetExpression:
		inspectOptional(n.Receiver, fn)
		Inspect(n.Value, fn)
	case *IndexGetExpression:
		Inspect(n.Receiver, fn)
		inspectAll(n.Indices, fn)
	case *IndexSetExpression:
		Inspect(n.Receiver, fn)
		inspectAll(n.Indices, fn)
		Inspect(n.Value, fn)

	case *LocalLvalue, *ParameterLvalue, *GlobalLvalue, *IllegalLvalue:
	case *FieldLvalue:
		Inspect(n.Receiver, fn)
	case *ArrayAccessLvalue:
		Inspect(n.Array, fn)
		inspectAll(n.Indices, fn)
	case *PropertySetLvalue:
		inspectOptional(n.Receiver, fn)
	case *IndexSetLvalue:
		Inspect(n.Receiver, fn)
		inspectAll(n.Indices, fn)

	case *DiscardPattern, *LiteralPattern, *BindingPattern, *StringText:
	case *StringInterpolation:
		Inspect(n.Value, fn)

	default:
		contract.Failf("unrecognized node kind %v", n.Kind())
	}
}

func inspectAll(exprs []Expression, fn func(Node) bool) {
	for _, e := range exprs {
		Inspect(e, fn)
	}
}

func inspectOptional(e Expression, fn func(Node) bool) {
	if e != nil {
		Inspect(e, fn)
	}
}

// CountKind returns how many nodes of kind occur in the tree rooted at n.
func CountKind(n Node, kind NodeKind) int {
	count := 0
	Inspect(n, func(n Node) bool {
		if n.Kind() == kind {
			count++
		}
		return true
	})
	return count
}
