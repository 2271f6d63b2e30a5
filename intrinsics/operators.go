package intrinsics

import (
	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

// opKey is used as the key for operator symbols.
type opKey struct {
	Operator  token.TokenType
	LeftType  string
	RightType string // empty for unary operators
}

// defaultOps maps an operator and its operand types to the operator symbol.
var defaultOps = map[opKey]*bound.Function{}

var (
	numericTypes = []types.Type{types.Int32, types.Int64, types.Float64}
	integerTypes = []types.Type{types.Int32, types.Int64}
)

func init() {
	arith := []token.TokenType{token.ADD, token.SUB, token.MUL, token.QUO, token.REM}
	bitwise := []token.TokenType{token.AND, token.OR, token.XOR, token.SHL, token.SHR, token.AND_NOT}
	comparisons := []token.TokenType{token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ}

	for _, t := range numericTypes {
		for _, op := range arith {
			defineBinary(op, t, t, t)
		}
		for _, op := range comparisons {
			defineBinary(op, t, t, types.BoolType)
		}
		defineUnary(token.NEG, t)
		defineUnary(token.POS, t)
	}
	for _, t := range integerTypes {
		for _, op := range bitwise {
			defineBinary(op, t, t, t)
		}
	}
	for _, op := range []token.TokenType{token.EQL, token.NEQ, token.AND, token.OR, token.XOR} {
		defineBinary(op, types.BoolType, types.BoolType, types.BoolType)
	}
	defineUnary(token.NOT, types.BoolType)

	// String equality has no instruction; it compiles to a runtime call.
	for _, op := range []token.TokenType{token.EQL, token.NEQ} {
		fn := bound.NewFunction("op_"+opName(op), types.BoolType,
			bound.NewParameter("left", types.StringType),
			bound.NewParameter("right", types.StringType))
		String.Add(fn)
		defaultOps[opKey{Operator: op, LeftType: types.StringType.String(), RightType: types.StringType.String()}] = fn
	}
}

func defineBinary(op token.TokenType, left, right, result types.Type) {
	fn := bound.NewFunction("op_"+opName(op), result,
		bound.NewParameter("left", left),
		bound.NewParameter("right", right))
	fn.Codegen = func(e bound.Emitter, target *ir.Register, args []ir.Operand) {
		e.Write(&ir.Binary{Target: target, Op: op, Left: args[0], Right: args[1]})
	}
	defaultOps[opKey{Operator: op, LeftType: left.String(), RightType: right.String()}] = fn
}

func defineUnary(op token.TokenType, operand types.Type) {
	fn := bound.NewFunction("op_"+opName(op), operand, bound.NewParameter("operand", operand))
	fn.Codegen = func(e bound.Emitter, target *ir.Register, args []ir.Operand) {
		e.Write(&ir.Unary{Target: target, Op: op, Operand: args[0]})
	}
	defaultOps[opKey{Operator: op, LeftType: operand.String()}] = fn
}

var opNames = map[token.TokenType]string{
	token.ADD: "Addition", token.SUB: "Subtraction", token.MUL: "Multiply",
	token.QUO: "Division", token.REM: "Modulus",
	token.AND: "BitwiseAnd", token.OR: "BitwiseOr", token.XOR: "ExclusiveOr",
	token.SHL: "LeftShift", token.SHR: "RightShift", token.AND_NOT: "AndNot",
	token.EQL: "Equality", token.NEQ: "Inequality",
	token.LSS: "LessThan", token.LEQ: "LessThanOrEqual",
	token.GTR: "GreaterThan", token.GEQ: "GreaterThanOrEqual",
	token.NOT: "LogicalNot", token.NEG: "UnaryNegation", token.POS: "UnaryPlus",
}

func opName(op token.TokenType) string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return op.String()
}

// LookupBinary finds the operator symbol for `left op right`.
func LookupBinary(op token.TokenType, left, right types.Type) (*bound.Function, bool) {
	fn, ok := defaultOps[opKey{Operator: op, LeftType: left.String(), RightType: right.String()}]
	return fn, ok
}

// LookupUnary finds the operator symbol for `op operand`.
func LookupUnary(op token.TokenType, operand types.Type) (*bound.Function, bool) {
	fn, ok := defaultOps[opKey{Operator: op, LeftType: operand.String()}]
	return fn, ok
}

// Binary is LookupBinary for operators the caller knows exist.
func Binary(op token.TokenType, left, right types.Type) *bound.Function {
	fn, ok := LookupBinary(op, left, right)
	contract.Assertf(ok, "no operator %v for %v and %v", op, left, right)
	return fn
}

// Unary is LookupUnary for operators the caller knows exist.
func Unary(op token.TokenType, operand types.Type) *bound.Function {
	fn, ok := LookupUnary(op, operand)
	contract.Assertf(ok, "no operator %v for %v", op, operand)
	return fn
}
