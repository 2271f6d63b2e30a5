package types

import (
	"fmt"
	"strings"
)

type Kind int

const (
	UnitKind Kind = iota
	NeverKind
	BoolKind
	IntKind
	FloatKind
	StrKind
	ObjectKind
	ArrayKind
	FuncKind
	NamedKind
	TypeParamKind
	PtrKind
)

var kindNames = [...]string{
	UnitKind:      "unit",
	NeverKind:     "never",
	BoolKind:      "bool",
	IntKind:       "int",
	FloatKind:     "float",
	StrKind:       "string",
	ObjectKind:    "object",
	ArrayKind:     "array",
	FuncKind:      "func",
	NamedKind:     "named",
	TypeParamKind: "typeparam",
	PtrKind:       "ptr",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is the interface for all types flowing through the bound tree and the IR.
type Type interface {
	String() string
	Kind() Kind
}

// Common concrete types. Primitive types are comparable values, so these are safe as map keys.
var (
	UnitType   Type = Unit{}
	NeverType  Type = Never{}
	BoolType   Type = Bool{}
	Int32      Type = Int{Width: 32}
	Int64      Type = Int{Width: 64}
	Float64    Type = Float{Width: 64}
	StringType Type = Str{}
	ObjectType Type = Object{}
)

// Unit is the type of expressions evaluated only for their effects.
type Unit struct{}

func (Unit) Kind() Kind     { return UnitKind }
func (Unit) String() string { return "unit" }

// Never is the bottom type: expressions of this type do not complete normally.
type Never struct{}

func (Never) Kind() Kind     { return NeverKind }
func (Never) String() string { return "never" }

type Bool struct{}

func (Bool) Kind() Kind     { return BoolKind }
func (Bool) String() string { return "bool" }

// Int represents an integer type with a given bit width.
type Int struct {
	Width    uint32 // e.g. 8, 16, 32, 64
	Unsigned bool
}

func (i Int) String() string {
	if i.Unsigned {
		return fmt.Sprintf("uint%d", i.Width)
	}
	return fmt.Sprintf("int%d", i.Width)
}

func (i Int) Kind() Kind {
	return IntKind
}

// Float represents a floating-point type with a given precision.
type Float struct {
	Width uint32 // 32 or 64
}

func (f Float) String() string {
	return fmt.Sprintf("float%d", f.Width)
}

func (f Float) Kind() Kind {
	return FloatKind
}

type Str struct{}

func (Str) Kind() Kind     { return StrKind }
func (Str) String() string { return "string" }

// Object is the root reference type every value can be boxed into.
type Object struct{}

func (Object) Kind() Kind     { return ObjectKind }
func (Object) String() string { return "object" }

// Array is a reference to a zero-based array with Rank dimensions.
type Array struct {
	Elem Type
	Rank int
}

func ArrayOf(elem Type) Array {
	return Array{Elem: elem, Rank: 1}
}

func (a Array) String() string {
	if a.Rank <= 1 {
		return a.Elem.String() + "[]"
	}
	return a.Elem.String() + "[" + strings.Repeat(",", a.Rank-1) + "]"
}

func (a Array) Kind() Kind { return ArrayKind }

// Func is the type of function values (delegates).
type Func struct {
	Params []Type
	Return Type
}

func (f Func) String() string {
	return fmt.Sprintf("(%s) -> %s", typesStr(f.Params), f.Return)
}

func (f Func) Kind() Kind { return FuncKind }

// Ptr is the address of a storage location, used for value-type receivers.
type Ptr struct {
	Elem Type
}

func (p Ptr) String() string { return "&" + p.Elem.String() }
func (p Ptr) Kind() Kind     { return PtrKind }

// Named is a user-declared class or struct. Identity is pointer identity.
type Named struct {
	Name  string
	Value bool // struct semantics when true
}

func (n *Named) String() string { return n.Name }
func (n *Named) Kind() Kind     { return NamedKind }

// TypeParam is an unsubstituted generic parameter.
type TypeParam struct {
	Name string
}

func (p *TypeParam) String() string { return p.Name }
func (p *TypeParam) Kind() Kind     { return TypeParamKind }

func typesStr(types []Type) string {
	if len(types) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, t := range types {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}
