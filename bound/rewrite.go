package bound

import "github.com/thiremani/irgen/contract"

// Rewriter is implemented by tree transformations. Implementations handle the
// nodes they care about and hand everything else to the *Children helpers,
// which rebuild a node only when one of its children changed.
type Rewriter interface {
	RewriteStatement(s Statement) Statement
	RewriteExpression(e Expression) Expression
}

// RewriteStatementChildren rewrites the direct children of s with r.
func RewriteStatementChildren(r Rewriter, s Statement) Statement {
	switch s := s.(type) {
	case *NoOpStatement, *LabelStatement, *LocalFunctionStatement:
		return s
	case *ExpressionStatement:
		return s.Update(r.RewriteExpression(s.Expression))
	case *LocalDeclaration:
		return s.Update(rewriteOptional(r, s.Value))
	case *ConditionalGotoStatement:
		return s.Update(r.RewriteExpression(s.Condition))
	case *SequencePointStatement:
		if s.Statement == nil {
			return s
		}
		return s.Update(r.RewriteStatement(s.Statement))
	default:
		contract.Failf("unrecognized statement kind %v", s.Kind())
		return nil
	}
}

// RewriteExpressionChildren rewrites the direct children of e with r.
func RewriteExpressionChildren(r Rewriter, e Expression) Expression {
	switch e := e.(type) {
	case *UnitExpression, *LiteralExpression, *LocalExpression, *ParameterExpression,
		*GlobalExpression, *GotoExpression, *FunctionGroupExpression, *TypeExpression,
		*ModuleExpression:
		return e
	case *StringExpression:
		return e.Update(RewriteStringParts(r, e.Parts))
	case *FieldExpression:
		return e.Update(r.RewriteExpression(e.Receiver))
	case *ArrayAccessExpression:
		return e.Update(r.RewriteExpression(e.Array), RewriteExpressions(r, e.Indices))
	case *ArrayLengthExpression:
		return e.Update(r.RewriteExpression(e.Array))
	case *ArrayCreationExpression:
		return e.Update(RewriteExpressions(r, e.Sizes))
	case *ObjectCreationExpression:
		return e.Update(RewriteExpressions(r, e.Arguments))
	case *CallExpression:
		return e.Update(rewriteOptional(r, e.Receiver), RewriteExpressions(r, e.Arguments))
	case *IndirectCallExpression:
		return e.Update(r.RewriteExpression(e.Callee), RewriteExpressions(r, e.Arguments))
	case *DelegateCreationExpression:
		return e.Update(rewriteOptional(r, e.Receiver))
	case *UnaryExpression:
		return e.Update(r.RewriteExpression(e.Operand))
	case *BinaryExpression:
		return e.Update(r.RewriteExpression(e.Left), r.RewriteExpression(e.Right))
	case *RelationalExpression:
		first := r.RewriteExpression(e.First)
		var comparisons []Comparison
		for i, c := range e.Comparisons {
			next := r.RewriteExpression(c.Next)
			if next != c.Next && comparisons == nil {
				comparisons = append([]Comparison(nil), e.Comparisons[:i]...)
			}
			if comparisons != nil {
				comparisons = append(comparisons, Comparison{Operator: c.Operator, Next: next})
			}
		}
		if comparisons == nil {
			comparisons = e.Comparisons
		}
		return e.Update(first, comparisons)
	case *AndExpression:
		return e.Update(r.RewriteExpression(e.Left), r.RewriteExpression(e.Right))
	case *OrExpression:
		return e.Update(r.RewriteExpression(e.Left), r.RewriteExpression(e.Right))
	case *AssignmentExpression:
		return e.Update(RewriteLvalue(r, e.Left), r.RewriteExpression(e.Right))
	case *BlockExpression:
		return e.Update(e.Locals, RewriteStatements(r, e.Statements), r.RewriteExpression(e.Value))
	case *IfExpression:
		return e.Update(r.RewriteExpression(e.Condition), r.RewriteExpression(e.Then), r.RewriteExpression(e.Else))
	case *WhileExpression:
		return e.Update(r.RewriteExpression(e.Condition), r.RewriteExpression(e.Body))
	case *ReturnExpression:
		return e.Update(r.RewriteExpression(e.Value))
	case *SequencePointExpression:
		return e.Update(r.RewriteExpression(e.Expression))
	case *MatchExpression:
		matched := r.RewriteExpression(e.Matched)
		arms := make([]MatchArm, len(e.Arms))
		for i, arm := range e.Arms {
			arms[i] = MatchArm{
				Pattern: arm.Pattern,
				Guard:   rewriteOptional(r, arm.Guard),
				Value:   r.RewriteExpression(arm.Value),
			}
		}
		if sameSlice(arms, e.Arms) {
			arms = e.Arms
		}
		return e.Update(matched, arms)
	case *PropertyGetExpression:
		return e.Update(rewriteOptional(r, e.Receiver))
	case *PropertySetExpression:
		return e.Update(rewriteOptional(r, e.Receiver), r.RewriteExpression(e.Value))
	case *IndexGetExpression:
		return e.Update(r.RewriteExpression(e.Receiver), RewriteExpressions(r, e.Indices))
	case *IndexSetExpression:
		return e.Update(r.RewriteExpression(e.Receiver), RewriteExpressions(r, e.Indices), r.RewriteExpression(e.Value))
	default:
		contract.Failf("unrecognized expression kind %v", e.Kind())
		return nil
	}
}

// RewriteLvalue rewrites the sub-expressions of an assignment target.
func RewriteLvalue(r Rewriter, lv Lvalue) Lvalue {
	switch lv := lv.(type) {
	case *LocalLvalue, *ParameterLvalue, *GlobalLvalue, *IllegalLvalue:
		return lv
	case *FieldLvalue:
		return lv.Update(r.RewriteExpression(lv.Receiver))
	case *ArrayAccessLvalue:
		return lv.Update(r.RewriteExpression(lv.Array), RewriteExpressions(r, lv.Indices))
	case *PropertySetLvalue:
		return lv.Update(rewriteOptional(r, lv.Receiver))
	case *IndexSetLvalue:
		return lv.Update(r.RewriteExpression(lv.Receiver), RewriteExpressions(r, lv.Indices))
	default:
		contract.Failf("unrecognized lvalue kind %v", lv.Kind())
		return nil
	}
}

// RewriteStatements rewrites each statement, returning stmts itself if nothing changed.
func RewriteStatements(r Rewriter, stmts []Statement) []Statement {
	return rewriteList(stmts, r.RewriteStatement)
}

// RewriteExpressions rewrites each expression, returning exprs itself if nothing changed.
func RewriteExpressions(r Rewriter, exprs []Expression) []Expression {
	return rewriteList(exprs, r.RewriteExpression)
}

func RewriteStringParts(r Rewriter, parts []StringPart) []StringPart {
	return rewriteList(parts, func(p StringPart) StringPart {
		if interp, ok := p.(*StringInterpolation); ok {
			return interp.Update(r.RewriteExpression(interp.Value))
		}
		return p
	})
}

func rewriteList[T comparable](xs []T, fn func(T) T) []T {
	var out []T
	for i, x := range xs {
		y := fn(x)
		if y != x && out == nil {
			out = make([]T, i, len(xs))
			copy(out, xs[:i])
		}
		if out != nil {
			out = append(out, y)
		}
	}
	if out == nil {
		return xs
	}
	return out
}

func rewriteOptional(r Rewriter, e Expression) Expression {
	if e == nil {
		return nil
	}
	return r.RewriteExpression(e)
}
