package bound

import "github.com/thiremani/irgen/token"

type NoOpStatement struct {
	Base
}

func (*NoOpStatement) Kind() NodeKind { return NoOpStatementKind }
func (*NoOpStatement) statementNode() {}

type ExpressionStatement struct {
	Base
	Expression Expression
}

func (*ExpressionStatement) Kind() NodeKind { return ExpressionStatementKind }
func (*ExpressionStatement) statementNode() {}

func (n *ExpressionStatement) Update(expr Expression) *ExpressionStatement {
	if expr == n.Expression {
		return n
	}
	return &ExpressionStatement{Base: n.Base, Expression: expr}
}

// LocalDeclaration introduces Local. Value is nil when there is no initializer.
type LocalDeclaration struct {
	Base
	Local *Local
	Value Expression
}

func (*LocalDeclaration) Kind() NodeKind { return LocalDeclarationKind }
func (*LocalDeclaration) statementNode() {}

func (n *LocalDeclaration) Update(value Expression) *LocalDeclaration {
	if value == n.Value {
		return n
	}
	return &LocalDeclaration{Base: n.Base, Local: n.Local, Value: value}
}

// LocalFunctionStatement declares a nested function in the middle of a block.
type LocalFunctionStatement struct {
	Base
	Function *Function
}

func (*LocalFunctionStatement) Kind() NodeKind { return LocalFunctionStatementKind }
func (*LocalFunctionStatement) statementNode() {}

type LabelStatement struct {
	Base
	Label *Label
}

func (*LabelStatement) Kind() NodeKind { return LabelStatementKind }
func (*LabelStatement) statementNode() {}

// ConditionalGotoStatement jumps to Target when Condition is true.
type ConditionalGotoStatement struct {
	Base
	Condition Expression
	Target    *Label
}

func (*ConditionalGotoStatement) Kind() NodeKind { return ConditionalGotoStatementKind }
func (*ConditionalGotoStatement) statementNode() {}

func (n *ConditionalGotoStatement) Update(cond Expression) *ConditionalGotoStatement {
	if cond == n.Condition {
		return n
	}
	return &ConditionalGotoStatement{Base: n.Base, Condition: cond, Target: n.Target}
}

// SequencePointStatement marks a debugger stop around Statement, which may be nil.
type SequencePointStatement struct {
	Base
	Statement Statement
	Location  *token.Range
	EmitNoOp  bool
}

func (*SequencePointStatement) Kind() NodeKind { return SequencePointStatementKind }
func (*SequencePointStatement) statementNode() {}

func (n *SequencePointStatement) Update(stmt Statement) *SequencePointStatement {
	if stmt == n.Statement {
		return n
	}
	return &SequencePointStatement{Base: n.Base, Statement: stmt, Location: n.Location, EmitNoOp: n.EmitNoOp}
}
