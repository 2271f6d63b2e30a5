package bound

import "github.com/thiremani/irgen/types"

type LocalLvalue struct {
	Base
	Local *Local
}

func (*LocalLvalue) Kind() NodeKind       { return LocalLvalueKind }
func (n *LocalLvalue) Type() types.Type   { return n.Local.Type }
func (*LocalLvalue) lvalueNode()          {}

type ParameterLvalue struct {
	Base
	Parameter *Parameter
}

func (*ParameterLvalue) Kind() NodeKind     { return ParameterLvalueKind }
func (n *ParameterLvalue) Type() types.Type { return n.Parameter.Type }
func (*ParameterLvalue) lvalueNode()        {}

// GlobalLvalue targets a static field.
type GlobalLvalue struct {
	Base
	Field *Field
}

func (*GlobalLvalue) Kind() NodeKind     { return GlobalLvalueKind }
func (n *GlobalLvalue) Type() types.Type { return n.Field.Type }
func (*GlobalLvalue) lvalueNode()        {}

type FieldLvalue struct {
	Base
	Receiver Expression
	Field    *Field
}

func (*FieldLvalue) Kind() NodeKind     { return FieldLvalueKind }
func (n *FieldLvalue) Type() types.Type { return n.Field.Type }
func (*FieldLvalue) lvalueNode()        {}

func (n *FieldLvalue) Update(receiver Expression) *FieldLvalue {
	if receiver == n.Receiver {
		return n
	}
	return &FieldLvalue{Base: n.Base, Receiver: receiver, Field: n.Field}
}

type ArrayAccessLvalue struct {
	Base
	Array   Expression
	Indices []Expression
}

func (*ArrayAccessLvalue) Kind() NodeKind { return ArrayAccessLvalueKind }
func (*ArrayAccessLvalue) lvalueNode()    {}

func (n *ArrayAccessLvalue) Type() types.Type {
	return elementType(n.Array.Type())
}

func (n *ArrayAccessLvalue) Update(array Expression, indices []Expression) *ArrayAccessLvalue {
	if array == n.Array && sameSlice(indices, n.Indices) {
		return n
	}
	return &ArrayAccessLvalue{Base: n.Base, Array: array, Indices: indices}
}

// PropertySetLvalue targets a property. Getter is only needed for compound assignment.
type PropertySetLvalue struct {
	Base
	Receiver Expression
	Getter   *Function
	Setter   *Function
}

func (*PropertySetLvalue) Kind() NodeKind { return PropertySetLvalueKind }
func (*PropertySetLvalue) lvalueNode()    {}

func (n *PropertySetLvalue) Type() types.Type {
	params := n.Setter.Params
	return params[len(params)-1].Type
}

func (n *PropertySetLvalue) Update(receiver Expression) *PropertySetLvalue {
	if receiver == n.Receiver {
		return n
	}
	return &PropertySetLvalue{Base: n.Base, Receiver: receiver, Getter: n.Getter, Setter: n.Setter}
}

// IndexSetLvalue targets an indexer: the setter takes the indices followed by the value.
type IndexSetLvalue struct {
	Base
	Receiver Expression
	Getter   *Function
	Setter   *Function
	Indices  []Expression
}

func (*IndexSetLvalue) Kind() NodeKind { return IndexSetLvalueKind }
func (*IndexSetLvalue) lvalueNode()    {}

func (n *IndexSetLvalue) Type() types.Type {
	params := n.Setter.Params
	return params[len(params)-1].Type
}

func (n *IndexSetLvalue) Update(receiver Expression, indices []Expression) *IndexSetLvalue {
	if receiver == n.Receiver && sameSlice(indices, n.Indices) {
		return n
	}
	return &IndexSetLvalue{Base: n.Base, Receiver: receiver, Getter: n.Getter, Setter: n.Setter, Indices: indices}
}

// IllegalLvalue stands in for an assignment target that failed to bind.
type IllegalLvalue struct {
	Base
}

func (*IllegalLvalue) Kind() NodeKind   { return IllegalLvalueKind }
func (*IllegalLvalue) Type() types.Type { return types.NeverType }
func (*IllegalLvalue) lvalueNode()      {}

type DiscardPattern struct {
	Base
}

func (*DiscardPattern) Kind() NodeKind { return DiscardPatternKind }
func (*DiscardPattern) patternNode()   {}

// LiteralPattern matches values equal to Value.
type LiteralPattern struct {
	Base
	Value any
	Typ   types.Type
}

func (*LiteralPattern) Kind() NodeKind { return LiteralPatternKind }
func (*LiteralPattern) patternNode()   {}

// BindingPattern matches anything and binds it to Local.
type BindingPattern struct {
	Base
	Local *Local
}

func (*BindingPattern) Kind() NodeKind { return BindingPatternKind }
func (*BindingPattern) patternNode()   {}

type StringText struct {
	Base
	Text string
}

func (*StringText) Kind() NodeKind   { return StringTextKind }
func (*StringText) stringPartNode()  {}

type StringInterpolation struct {
	Base
	Value Expression
}

func (*StringInterpolation) Kind() NodeKind  { return StringInterpolationKind }
func (*StringInterpolation) stringPartNode() {}

func (n *StringInterpolation) Update(value Expression) *StringInterpolation {
	if value == n.Value {
		return n
	}
	return &StringInterpolation{Base: n.Base, Value: value}
}

func elementType(t types.Type) types.Type {
	if arr, ok := t.(types.Array); ok {
		return arr.Elem
	}
	return types.ObjectType
}

func sameSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
