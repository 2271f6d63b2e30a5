package ir

import (
	"fmt"
	"strconv"

	"github.com/thiremani/irgen/types"
)

// Operand is an instruction input: a register, an inline constant, or nothing.
type Operand interface {
	Type() types.Type
	String() string
	isOperand()
}

// Register is a typed temporary. Every value-producing instruction writes a fresh one.
type Register struct {
	Index int
	typ   types.Type
}

func (r *Register) Type() types.Type { return r.typ }
func (r *Register) String() string   { return "r" + strconv.Itoa(r.Index) }
func (*Register) isOperand()         {}

// Constant is an inline literal. A nil Value is the default value of Typ.
type Constant struct {
	Value any
	Typ   types.Type
}

func (c Constant) Type() types.Type { return c.Typ }
func (Constant) isOperand()         {}

func (c Constant) String() string {
	switch v := c.Value.(type) {
	case nil:
		if types.IsValueType(c.Typ) {
			return fmt.Sprintf("default(%s)", c.Typ)
		}
		return "null"
	case string:
		return strconv.Quote(v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Void is the operand of unit-valued expressions and value-less returns.
type Void struct{}

func (Void) Type() types.Type { return types.UnitType }
func (Void) String() string   { return "void" }
func (Void) isOperand()       {}

// IsVoid reports whether op carries no value.
func IsVoid(op Operand) bool {
	_, ok := op.(Void)
	return op == nil || ok
}
