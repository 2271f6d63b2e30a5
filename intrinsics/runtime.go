package intrinsics

import (
	"strconv"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

// System is the module holding runtime library symbols.
var System = bound.NewModule("System", nil)

var (
	Object  = bound.NewModule("Object", System)
	String  = bound.NewModule("String", System)
	Console = bound.NewModule("Console", System)
)

var (
	// ObjectEquals compares two boxed values.
	ObjectEquals = bound.NewFunction("Equals", types.BoolType,
		bound.NewParameter("left", types.ObjectType),
		bound.NewParameter("right", types.ObjectType))

	// Format substitutes `{n}` holes in format with args[n].
	Format = bound.NewFunction("Format", types.StringType,
		bound.NewParameter("format", types.StringType),
		bound.NewParameter("args", types.ArrayOf(types.ObjectType)))

	// ToString renders any value.
	ToString = bound.NewFunction("ToString", types.StringType,
		bound.NewParameter("value", types.ObjectType))

	// WriteLine prints one line.
	WriteLine = bound.NewFunction("WriteLine", types.UnitType,
		bound.NewParameter("line", types.StringType))

	// WriteAll prints every argument, space separated.
	WriteAll = bound.NewFunction("WriteAll", types.UnitType,
		bound.NewVariadicParameter("values", types.ObjectType))
)

func init() {
	Object.Add(ObjectEquals)
	String.Add(Format, ToString)
	Console.Add(WriteLine, WriteAll)
}

// WellKnown returns the runtime symbols lowering depends on.
func WellKnown() *bound.WellKnown {
	return &bound.WellKnown{
		ObjectEquals: ObjectEquals,
		Format:       Format,
		ToString:     ToString,
		BoolNot:      Unary(token.NOT, types.BoolType),
	}
}

// InvokeFor returns the invocation method of function values of type fn.
func InvokeFor(fn types.Func) *bound.Function {
	key := fn.String()
	if inv, ok := invokers[key]; ok {
		return inv
	}
	params := make([]*bound.Parameter, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = bound.NewParameter("arg"+strconv.Itoa(i), p)
	}
	inv := bound.NewFunction("Invoke", fn.Return, params...)
	inv.Static = false
	invokers[key] = inv
	return inv
}

var invokers = map[string]*bound.Function{}
