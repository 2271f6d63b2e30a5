package lower

import (
	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/token"
)

// InjectSequencePoints marks debugger stops: every local declaration with source,
// the opening brace of every block with source, and the value of such a block.
// Declarations without an initializer still get a stop through a no-op.
// No stop is placed on closing braces.
func InjectSequencePoints(body bound.Statement) bound.Statement {
	return seqPointInjector{}.RewriteStatement(body)
}

type seqPointInjector struct{}

func (i seqPointInjector) RewriteStatement(s bound.Statement) bound.Statement {
	s = bound.RewriteStatementChildren(i, s)
	decl, ok := s.(*bound.LocalDeclaration)
	if !ok || decl.Syntax() == nil {
		return s
	}
	return &bound.SequencePointStatement{
		Base:      decl.Base,
		Statement: decl,
		Location:  decl.Syntax(),
		EmitNoOp:  decl.Value == nil,
	}
}

func (i seqPointInjector) RewriteExpression(e bound.Expression) bound.Expression {
	e = bound.RewriteExpressionChildren(i, e)
	block, ok := e.(*bound.BlockExpression)
	if !ok || block.Syntax() == nil {
		return e
	}

	stmts := make([]bound.Statement, 0, len(block.Statements)+1)
	stmts = append(stmts, &bound.SequencePointStatement{Location: openingBrace(block.Syntax()), EmitNoOp: true})
	stmts = append(stmts, block.Statements...)

	value := block.Value
	if value.Syntax() != nil {
		value = &bound.SequencePointExpression{Expression: value, Location: value.Syntax()}
	}
	return &bound.BlockExpression{Base: block.Base, Locals: block.Locals, Statements: stmts, Value: value}
}

func openingBrace(r *token.Range) *token.Range {
	return &token.Range{
		FileName: r.FileName,
		Start:    r.Start,
		End:      token.Pos{Line: r.Start.Line, Column: r.Start.Column + 1},
	}
}
