package types

import "fmt"

// Substitution maps generic parameters to their instantiated types.
type Substitution map[*TypeParam]Type

// Substitute replaces every type parameter in t that s knows about.
func Substitute(t Type, s Substitution) Type {
	if len(s) == 0 {
		return t
	}
	switch t := t.(type) {
	case *TypeParam:
		if r, ok := s[t]; ok {
			return r
		}
		return t
	case Array:
		return Array{Elem: Substitute(t.Elem, s), Rank: t.Rank}
	case Ptr:
		return Ptr{Elem: Substitute(t.Elem, s)}
	case Func:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = Substitute(p, s)
		}
		return Func{Params: params, Return: Substitute(t.Return, s)}
	default:
		return t
	}
}

// IsValueType reports whether values of t are stored inline rather than by reference.
// Unsubstituted type parameters are treated as references.
func IsValueType(t Type) bool {
	switch t := t.(type) {
	case Unit, Bool, Int, Float:
		return true
	case *Named:
		return t.Value
	default:
		return false
	}
}

// IsValueTypeUnder classifies t after applying s.
func IsValueTypeUnder(t Type, s Substitution) bool {
	return IsValueType(Substitute(t, s))
}

// Checks if two type arrays are equal
func EqualTypes(left []Type, right []Type) bool {
	if len(left) != len(right) {
		return false
	}
	for i, l := range left {
		if !TypeEqual(l, right[i]) {
			return false
		}
	}
	return true
}

// TypeEqual performs structural equality on types with a dispatcher by Kind.
func TypeEqual(a, b Type) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	cmp := typeComparer(a.Kind())
	return cmp(a, b)
}

func typeComparer(k Kind) func(a, b Type) bool {
	switch k {
	case UnitKind, NeverKind, BoolKind, StrKind, ObjectKind:
		return eqTrivial
	case IntKind:
		return eqInt
	case FloatKind:
		return eqFloat
	case ArrayKind:
		return eqArray
	case FuncKind:
		return eqFunc
	case NamedKind, TypeParamKind:
		return eqIdentity
	case PtrKind:
		return eqPointer
	default:
		return func(a, b Type) bool { panic(fmt.Sprintf("TypeEqual: unhandled kind %v", k)) }
	}
}

func eqTrivial(a, b Type) bool { return true }

func eqIdentity(a, b Type) bool { return a == b }

func eqInt(a, b Type) bool {
	ai := a.(Int)
	bi := b.(Int)
	return ai.Width == bi.Width && ai.Unsigned == bi.Unsigned
}

func eqFloat(a, b Type) bool {
	return a.(Float).Width == b.(Float).Width
}

func eqArray(a, b Type) bool {
	aa := a.(Array)
	ba := b.(Array)
	return aa.Rank == ba.Rank && TypeEqual(aa.Elem, ba.Elem)
}

func eqPointer(a, b Type) bool {
	return TypeEqual(a.(Ptr).Elem, b.(Ptr).Elem)
}

func eqFunc(a, b Type) bool {
	af := a.(Func)
	bf := b.(Func)
	return EqualTypes(af.Params, bf.Params) && TypeEqual(af.Return, bf.Return)
}
