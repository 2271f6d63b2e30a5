// Package samples builds small bound programs that exercise every lowering and
// codegen path. They back the samples command and the golden IR tests.
package samples

import (
	"sort"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/codegen"
	"github.com/thiremani/irgen/intrinsics"
	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

// Sample is a named program. Build returns a fresh tree on every call, since
// labels and locals are compared by identity.
type Sample struct {
	Name        string
	Description string
	Entry       codegen.EntryConvention
	Build       func() *bound.Module
}

var registry = map[string]Sample{}

func register(s Sample) {
	registry[s.Name] = s
}

// All returns every sample sorted by name.
func All() []Sample {
	out := make([]Sample, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func Lookup(name string) (Sample, bool) {
	s, ok := registry[name]
	return s, ok
}

func init() {
	register(Sample{"factorial", "recursive if expression", codegen.ProgramEntry, factorial})
	register(Sample{"sum", "while loop with compound assignment and sequence points", codegen.ProgramEntry, sum})
	register(Sample{"match", "match with literal, guarded and discard arms", codegen.ProgramEntry, match})
	register(Sample{"greet", "string interpolation", codegen.ProgramEntry, greet})
	register(Sample{"variadic", "expanded call to a variadic function", codegen.ProgramEntry, variadic})
	register(Sample{"counter", "class with an auto property and compound property assignment", codegen.ProgramEntry, counter})
	register(Sample{"point", "value class receiver passed by address", codegen.ProgramEntry, point})
	register(Sample{"closure", "local function extraction", codegen.ProgramEntry, closure})
	register(Sample{"script", "global initializers and a script entry point", codegen.ScriptEntry, script})
	register(Sample{"chain", "comparison chain and short-circuit operators", codegen.ProgramEntry, chain})
}

// fact(n) = if (n <= 1) 1 else n * fact(n - 1)
func factorial() *bound.Module {
	mod := bound.NewModule("Factorial", nil)
	n := bound.NewParameter("n", types.Int32)
	fact := bound.NewFunction("fact", types.Int32, n)
	fact.Body = ret(&bound.IfExpression{
		Condition: binary(token.LEQ, param(n), i32(1)),
		Then:      i32(1),
		Else:      binary(token.MUL, param(n), call(fact, binary(token.SUB, param(n), i32(1)))),
		Typ:       types.Int32,
	})

	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(call(intrinsics.WriteLine, call(intrinsics.ToString, call(fact, i32(10)))))

	mod.Add(fact, main)
	return mod
}

// sum(limit) { var i = 0; var total = 0; while (i < limit) { total += i; i += 1 }; total }
func sum() *bound.Module {
	const file = "sum.irg"
	mod := bound.NewModule("Sum", nil)
	limit := bound.NewParameter("limit", types.Int32)
	fn := bound.NewFunction("sum", types.Int32, limit)
	i := bound.NewLocal("i", types.Int32)
	total := bound.NewLocal("total", types.Int32)
	add := intrinsics.Binary(token.ADD, types.Int32, types.Int32)

	loop := &bound.WhileExpression{
		Base: bound.At(token.NewRange(file, 4, 5, 6)),
		Condition: &bound.RelationalExpression{
			First:       local(i),
			Comparisons: []bound.Comparison{{Operator: intrinsics.Binary(token.LSS, types.Int32, types.Int32), Next: param(limit)}},
		},
		Body: &bound.BlockExpression{
			Base: bound.At(token.NewRange(file, 4, 22, 46)),
			Statements: []bound.Statement{
				stmt(&bound.AssignmentExpression{CompoundOperator: add, Left: &bound.LocalLvalue{Local: total}, Right: local(i)}),
				stmt(&bound.AssignmentExpression{CompoundOperator: add, Left: &bound.LocalLvalue{Local: i}, Right: i32(1)}),
			},
			Value: &bound.UnitExpression{},
		},
	}
	fn.Body = stmt(&bound.BlockExpression{
		Base:   bound.At(&token.Range{FileName: file, Start: token.Pos{Line: 1, Column: 27}, End: token.Pos{Line: 6, Column: 2}}),
		Locals: []*bound.Local{i, total},
		Statements: []bound.Statement{
			&bound.LocalDeclaration{Base: bound.At(token.NewRange(file, 2, 5, 14)), Local: i, Value: i32(0)},
			&bound.LocalDeclaration{Base: bound.At(token.NewRange(file, 3, 5, 18)), Local: total, Value: i32(0)},
			stmt(loop),
			ret(&bound.LocalExpression{Base: bound.At(token.NewRange(file, 5, 12, 17)), Local: total}),
		},
		Value: &bound.UnitExpression{},
	})

	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(call(intrinsics.WriteLine, call(intrinsics.ToString, call(fn, i32(100)))))

	mod.Add(fn, main)
	return mod
}

// describe(x, loud) = match x { 0 -> "zero"; 1 if loud -> "ONE"; 1 -> "one"; _ -> "many" }
func match() *bound.Module {
	mod := bound.NewModule("Match", nil)
	x := bound.NewParameter("x", types.Int32)
	loud := bound.NewParameter("loud", types.BoolType)
	describe := bound.NewFunction("describe", types.StringType, x, loud)
	describe.Body = ret(&bound.MatchExpression{
		Matched: param(x),
		Arms: []bound.MatchArm{
			{Pattern: &bound.LiteralPattern{Value: int32(0), Typ: types.Int32}, Value: str("zero")},
			{Pattern: &bound.LiteralPattern{Value: int32(1), Typ: types.Int32}, Guard: param(loud), Value: str("ONE")},
			{Pattern: &bound.LiteralPattern{Value: int32(1), Typ: types.Int32}, Value: str("one")},
			{Pattern: &bound.DiscardPattern{}, Value: str("many")},
		},
		Typ: types.StringType,
	})

	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(call(intrinsics.WriteLine, call(describe, i32(1), boolean(true))))

	mod.Add(describe, main)
	return mod
}

// greet(name, age) = "Hello, {name}! You are {age} {{years}}."
func greet() *bound.Module {
	mod := bound.NewModule("Greet", nil)
	name := bound.NewParameter("name", types.StringType)
	age := bound.NewParameter("age", types.Int32)
	fn := bound.NewFunction("greet", types.StringType, name, age)
	fn.Body = ret(&bound.StringExpression{Parts: []bound.StringPart{
		&bound.StringText{Text: "Hello, "},
		&bound.StringInterpolation{Value: param(name)},
		&bound.StringText{Text: "! You are "},
		&bound.StringInterpolation{Value: param(age)},
		&bound.StringText{Text: " {years}."},
	}})

	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(call(intrinsics.WriteLine, call(fn, str("Ada"), i32(36))))

	mod.Add(fn, main)
	return mod
}

// main() { WriteAll(1, "two", 3.5) }
func variadic() *bound.Module {
	mod := bound.NewModule("Variadic", nil)
	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(&bound.CallExpression{
		Method:    intrinsics.WriteAll,
		Arguments: []bound.Expression{i32(1), str("two"), &bound.LiteralExpression{Value: 3.5, Typ: types.Float64}},
		Expanded:  true,
	})
	mod.Add(main)
	return mod
}

// class Counter { count: int32; Count { get; set }; Increment() { this.Count += 1 } }
func counter() *bound.Module {
	mod := bound.NewModule("Counters", nil)
	class := bound.NewClass("Counter", false)
	count := bound.NewField("count", types.Int32, false)

	getter := bound.NewFunction("get_Count", types.Int32)
	value := bound.NewParameter("value", types.Int32)
	setter := bound.NewFunction("set_Count", types.UnitType, value)
	increment := bound.NewFunction("Increment", types.UnitType)
	ctor := bound.NewFunction(".ctor", types.UnitType)
	for _, fn := range []*bound.Function{getter, setter, increment, ctor} {
		fn.Static = false
	}
	prop := &bound.Property{Nm: "Count", Type: types.Int32, Getter: getter, Setter: setter}
	class.Add(count, prop, increment, ctor)

	this := func(fn *bound.Function) bound.Expression {
		return &bound.ParameterExpression{Parameter: fn.ThisParameter()}
	}
	getter.Body = ret(&bound.FieldExpression{Receiver: this(getter), Field: count})
	setter.Body = stmt(&bound.AssignmentExpression{
		Left:  &bound.FieldLvalue{Receiver: this(setter), Field: count},
		Right: param(value),
	})
	increment.Body = stmt(&bound.AssignmentExpression{
		CompoundOperator: intrinsics.Binary(token.ADD, types.Int32, types.Int32),
		Left:             &bound.PropertySetLvalue{Receiver: this(increment), Getter: getter, Setter: setter},
		Right:            i32(1),
	})

	c := bound.NewLocal("c", class.Type)
	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(&bound.BlockExpression{
		Locals: []*bound.Local{c},
		Statements: []bound.Statement{
			&bound.LocalDeclaration{Local: c, Value: &bound.ObjectCreationExpression{ObjectType: class.Type, Constructor: ctor}},
			stmt(&bound.CallExpression{Receiver: local(c), Method: increment}),
			stmt(&bound.PropertySetExpression{Receiver: local(c), Setter: setter, Value: i32(41)}),
		},
		Value: call(intrinsics.WriteLine, call(intrinsics.ToString, &bound.PropertyGetExpression{Receiver: local(c), Getter: getter})),
	})

	mod.Add(class, main)
	return mod
}

// struct Point { x: float64; Scale(k) { this.x *= k } }; main() { var p = Point(); p.Scale(2.0) }
func point() *bound.Module {
	mod := bound.NewModule("Points", nil)
	class := bound.NewClass("Point", true)
	x := bound.NewField("x", types.Float64, false)
	k := bound.NewParameter("k", types.Float64)
	scale := bound.NewFunction("Scale", types.UnitType, k)
	ctor := bound.NewFunction(".ctor", types.UnitType)
	scale.Static, ctor.Static = false, false
	class.Add(x, scale, ctor)

	scale.Body = stmt(&bound.AssignmentExpression{
		CompoundOperator: intrinsics.Binary(token.MUL, types.Float64, types.Float64),
		Left:             &bound.FieldLvalue{Receiver: &bound.ParameterExpression{Parameter: scale.ThisParameter()}, Field: x},
		Right:            param(k),
	})

	p := bound.NewLocal("p", class.Type)
	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(&bound.BlockExpression{
		Locals: []*bound.Local{p},
		Statements: []bound.Statement{
			&bound.LocalDeclaration{Local: p, Value: &bound.ObjectCreationExpression{ObjectType: class.Type, Constructor: ctor}},
			stmt(&bound.CallExpression{
				Receiver:  local(p),
				Method:    scale,
				Arguments: []bound.Expression{&bound.LiteralExpression{Value: 2.0, Typ: types.Float64}},
			}),
		},
		Value: call(intrinsics.WriteLine, call(intrinsics.ToString, local(p))),
	})

	mod.Add(class, main)
	return mod
}

// outer(x) { fn twice(y) = y * 2; fn inc(z) = z + 1; twice(x) + inc(x) }
func closure() *bound.Module {
	mod := bound.NewModule("Closure", nil)
	x := bound.NewParameter("x", types.Int32)
	outer := bound.NewFunction("outer", types.Int32, x)

	y := bound.NewParameter("y", types.Int32)
	twice := bound.NewFunction("twice", types.Int32, y)
	twice.Body = ret(binary(token.MUL, param(y), i32(2)))
	z := bound.NewParameter("z", types.Int32)
	inc := bound.NewFunction("inc", types.Int32, z)
	inc.Body = ret(binary(token.ADD, param(z), i32(1)))
	twice.Container, inc.Container = mod, mod

	outer.Body = stmt(&bound.BlockExpression{
		Statements: []bound.Statement{
			&bound.LocalFunctionStatement{Function: twice},
			&bound.LocalFunctionStatement{Function: inc},
			ret(binary(token.ADD, call(twice, param(x)), call(inc, param(x)))),
		},
		Value: &bound.UnitExpression{},
	})

	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(call(intrinsics.WriteLine, call(intrinsics.ToString, call(outer, i32(20)))))

	mod.Add(outer, main)
	return mod
}

// var greeting = "hello"; var answer: object = 42; var runs = 0
// <script> { runs += 1; WriteLine("{greeting} {answer}") }
func script() *bound.Module {
	mod := bound.NewModule("Script", nil)
	greeting := bound.NewField("greeting", types.StringType, true)
	greeting.Initializer = str("hello")
	answer := bound.NewField("answer", types.ObjectType, true)
	answer.Initializer = i32(42)
	runs := bound.NewField("runs", types.Int32, true)
	runs.Initializer = i32(0)

	entry := bound.NewFunction("<script>", types.UnitType)
	entry.Body = stmt(&bound.BlockExpression{
		Statements: []bound.Statement{
			stmt(&bound.AssignmentExpression{
				CompoundOperator: intrinsics.Binary(token.ADD, types.Int32, types.Int32),
				Left:             &bound.GlobalLvalue{Field: runs},
				Right:            i32(1),
			}),
		},
		Value: call(intrinsics.WriteLine, &bound.StringExpression{Parts: []bound.StringPart{
			&bound.StringInterpolation{Value: &bound.GlobalExpression{Field: greeting}},
			&bound.StringText{Text: " "},
			&bound.StringInterpolation{Value: &bound.GlobalExpression{Field: answer}},
		}}),
	})

	mod.Add(greeting, answer, runs, entry)
	return mod
}

// inRange(a, b, c) = a <= b < c or b == 0
func chain() *bound.Module {
	mod := bound.NewModule("Chain", nil)
	a := bound.NewParameter("a", types.Int32)
	b := bound.NewParameter("b", types.Int32)
	c := bound.NewParameter("c", types.Int32)
	fn := bound.NewFunction("inRange", types.BoolType, a, b, c)
	fn.Body = ret(&bound.OrExpression{
		Left: &bound.RelationalExpression{
			First: param(a),
			Comparisons: []bound.Comparison{
				{Operator: intrinsics.Binary(token.LEQ, types.Int32, types.Int32), Next: param(b)},
				{Operator: intrinsics.Binary(token.LSS, types.Int32, types.Int32), Next: param(c)},
			},
		},
		Right: binary(token.EQL, param(b), i32(0)),
	})

	main := bound.NewFunction("main", types.UnitType)
	main.Body = stmt(call(intrinsics.WriteLine, call(intrinsics.ToString, call(fn, i32(1), i32(2), i32(3)))))

	mod.Add(fn, main)
	return mod
}

func i32(v int32) *bound.LiteralExpression {
	return &bound.LiteralExpression{Value: v, Typ: types.Int32}
}

func str(s string) *bound.LiteralExpression {
	return &bound.LiteralExpression{Value: s, Typ: types.StringType}
}

func boolean(v bool) *bound.LiteralExpression {
	return &bound.LiteralExpression{Value: v, Typ: types.BoolType}
}

func param(p *bound.Parameter) *bound.ParameterExpression {
	return &bound.ParameterExpression{Parameter: p}
}

func local(l *bound.Local) *bound.LocalExpression {
	return &bound.LocalExpression{Local: l}
}

func stmt(e bound.Expression) bound.Statement {
	return &bound.ExpressionStatement{Expression: e}
}

func ret(e bound.Expression) bound.Statement {
	return stmt(&bound.ReturnExpression{Value: e})
}

func call(fn *bound.Function, args ...bound.Expression) *bound.CallExpression {
	return &bound.CallExpression{Method: fn, Arguments: args}
}

func binary(op token.TokenType, left, right bound.Expression) *bound.BinaryExpression {
	return &bound.BinaryExpression{
		Operator: intrinsics.Binary(op, left.Type(), right.Type()),
		Left:     left,
		Right:    right,
	}
}
