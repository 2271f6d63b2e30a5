package lower

import "github.com/thiremani/irgen/bound"

// ExtractLocalFunctions removes local function declarations from body and returns
// them in pre-order. Bodies of the extracted functions are not searched: they are
// lowered when they are compiled themselves.
func ExtractLocalFunctions(body bound.Statement) (bound.Statement, []*bound.Function) {
	x := &closureExtractor{}
	body = x.RewriteStatement(body)
	return body, x.extracted
}

type closureExtractor struct {
	extracted []*bound.Function
}

func (x *closureExtractor) RewriteStatement(s bound.Statement) bound.Statement {
	if fn, ok := s.(*bound.LocalFunctionStatement); ok {
		x.extracted = append(x.extracted, fn.Function)
		return &bound.NoOpStatement{Base: fn.Base}
	}
	return bound.RewriteStatementChildren(x, s)
}

func (x *closureExtractor) RewriteExpression(e bound.Expression) bound.Expression {
	block, ok := e.(*bound.BlockExpression)
	if !ok {
		return bound.RewriteExpressionChildren(x, e)
	}

	changed := false
	stmts := make([]bound.Statement, 0, len(block.Statements))
	for _, s := range block.Statements {
		if fn, ok := s.(*bound.LocalFunctionStatement); ok {
			x.extracted = append(x.extracted, fn.Function)
			changed = true
			continue
		}
		rewritten := x.RewriteStatement(s)
		changed = changed || rewritten != s
		stmts = append(stmts, rewritten)
	}
	if !changed {
		stmts = block.Statements
	}
	return block.Update(block.Locals, stmts, x.RewriteExpression(block.Value))
}
