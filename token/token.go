package token

import "strconv"

// TokenType identifies the operator an intrinsic or operator symbol implements.
type TokenType int

const (
	ILLEGAL TokenType = iota

	unary_beg
	NOT // !
	NEG // -x
	POS // +x
	unary_end

	arith_beg
	ADD // +
	SUB // -
	MUL // *
	QUO // /
	REM // %

	AND     // &
	OR      // |
	XOR     // ^
	SHL     // <<
	SHR     // >>
	AND_NOT // &^
	arith_end

	comparison_beg
	EQL // ==
	LSS // <
	GTR // >

	NEQ // !=
	LEQ // <=
	GEQ // >=
	comparison_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",

	NOT: "!",
	NEG: "neg",
	POS: "pos",

	ADD: "+",
	SUB: "-",
	MUL: "*",
	QUO: "/",
	REM: "%",

	AND:     "&",
	OR:      "|",
	XOR:     "^",
	SHL:     "<<",
	SHR:     ">>",
	AND_NOT: "&^",

	EQL: "==",
	LSS: "<",
	GTR: ">",

	NEQ: "!=",
	LEQ: "<=",
	GEQ: ">=",
}

func (tokenType TokenType) IsUnary() bool {
	return unary_beg < tokenType && tokenType < unary_end
}

func (tokenType TokenType) IsArithmetic() bool {
	return arith_beg < tokenType && tokenType < arith_end
}

func (tokenType TokenType) IsComparison() bool {
	return comparison_beg < tokenType && tokenType < comparison_end
}

func (tokenType TokenType) String() string {
	s := ""
	if 0 <= tokenType && tokenType < TokenType(len(tokens)) {
		s = tokens[tokenType]
	}

	if s == "" {
		s = "token(" + strconv.Itoa(int(tokenType)) + ")"
	}

	return s
}
