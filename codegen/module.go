package codegen

import (
	"strings"

	"github.com/golang/glog"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/lower"
	"github.com/thiremani/irgen/types"
)

// procedureTable is satisfied by *ir.Module and *ir.Class.
type procedureTable interface {
	DefineProcedure(sym ir.Symbol, ret types.Type) *ir.Procedure
}

type generator struct {
	opts Options
}

// moduleCodegen walks the members of one module in declaration order, collecting
// static field initializers for the module's global initializer.
type moduleCodegen struct {
	*generator
	module       *ir.Module
	initializers []*bound.Field
}

func (g *generator) compileModule(m *ir.Module, sym *bound.Module) {
	glog.V(3).Infof("codegen: module %s", sym.FullName())
	mc := &moduleCodegen{generator: g, module: m}
	for _, member := range sym.Members {
		mc.compileMember(member)
	}
	mc.compileGlobalInitializer()
}

func (mc *moduleCodegen) compileMember(member bound.Symbol) {
	switch s := member.(type) {
	case *bound.Function:
		mc.compileFunction(mc.module, s)
	case *bound.Field:
		mc.module.DefineField(s, s.Type, s.Static)
		mc.collectInitializer(s)
	case *bound.Property:
		mc.compileProperty(mc.module, s, mc.module.DefineField)
	case *bound.Class:
		mc.compileClass(s)
	case *bound.Module:
		mc.compileModule(mc.module.DefineModule(s), s)
	default:
		contract.Failf("unrecognized module member %T", member)
	}
}

func (mc *moduleCodegen) compileClass(sym *bound.Class) {
	class := mc.module.DefineClass(sym, sym.Type)
	for _, member := range sym.Members {
		switch s := member.(type) {
		case *bound.Function:
			mc.compileFunction(class, s)
		case *bound.Field:
			class.DefineField(s, s.Type, s.Static)
			mc.collectInitializer(s)
		case *bound.Property:
			mc.compileProperty(class, s, class.DefineField)
		case *bound.Class:
			mc.compileClass(s)
		default:
			contract.Failf("unrecognized class member %T", member)
		}
	}
}

func (mc *moduleCodegen) compileProperty(
	table procedureTable, p *bound.Property, defineField func(ir.Symbol, types.Type, bool) *ir.Field,
) {
	if p.BackingField != nil {
		defineField(p.BackingField, p.BackingField.Type, p.BackingField.Static)
		mc.collectInitializer(p.BackingField)
	}
	getter := mc.compileFunction(table, p.Getter)
	setter := mc.compileFunction(table, p.Setter)
	if m, ok := table.(*ir.Module); ok {
		m.DefineProperty(p, getter, setter)
	}
}

func (mc *moduleCodegen) collectInitializer(f *bound.Field) {
	if f.Initializer == nil {
		return
	}
	contract.Assertf(f.Static, "instance field %s has an initializer", f.FullName())
	mc.initializers = append(mc.initializers, f)
}

// compileGlobalInitializer assigns every collected initializer, in declaration
// order, inside the module's global initializer procedure.
func (mc *moduleCodegen) compileGlobalInitializer() {
	if len(mc.initializers) == 0 {
		return
	}
	stmts := make([]bound.Statement, len(mc.initializers))
	for i, f := range mc.initializers {
		stmts[i] = &bound.ExpressionStatement{Expression: &bound.AssignmentExpression{
			Left:  &bound.GlobalLvalue{Field: f},
			Right: f.Initializer,
		}}
	}
	body := &bound.ExpressionStatement{Expression: &bound.BlockExpression{
		Statements: stmts,
		Value:      &bound.UnitExpression{},
	}}
	extracted := mc.compileBody(mc.module.GlobalInitializer(), body)
	mc.compileLocalFunctions(mc.module, extracted)
}

// compileFunction compiles fn and, through a queue, every local function
// extracted from it. Functions without a body only get a signature when they are
// defined here. A nil fn is ignored and yields nil.
func (g *generator) compileFunction(table procedureTable, fn *bound.Function) *ir.Procedure {
	if fn == nil {
		return nil
	}
	proc := g.defineProcedure(table, fn)
	if fn.Body == nil {
		return proc
	}
	g.compileLocalFunctions(table, g.compileBody(proc, fn.Body))
	return proc
}

func (g *generator) compileLocalFunctions(table procedureTable, queue []*bound.Function) {
	for len(queue) > 0 {
		fn := queue[0]
		queue = queue[1:]
		proc := g.defineProcedure(table, fn)
		if fn.Body != nil {
			queue = append(queue, g.compileBody(proc, fn.Body)...)
		}
	}
}

func (g *generator) defineProcedure(table procedureTable, fn *bound.Function) *ir.Procedure {
	proc := table.DefineProcedure(fn, fn.ReturnType)
	if this := fn.ThisParameter(); this != nil {
		proc.DefineParameter(this, this.Type)
	}
	for _, p := range fn.Params {
		proc.DefineParameter(p, p.Type)
	}
	return proc
}

// compileBody runs the lowering pipeline over body, emits it into proc and
// returns the local functions that were extracted along the way.
func (g *generator) compileBody(proc *ir.Procedure, body bound.Statement) []*bound.Function {
	if g.opts.EmitSequencePoints {
		body = lower.InjectSequencePoints(body)
	}
	body = lower.Rewrite(g.opts.WellKnown, body)
	body, extracted := lower.ExtractLocalFunctions(body)

	newFunctionBodyCodegen(proc, g.opts.IsValueType).compileBody(body)

	if g.opts.Verify {
		if errs := ir.Verify(proc); len(errs) > 0 {
			msgs := make([]string, len(errs))
			for i, err := range errs {
				msgs[i] = err.Error()
			}
			contract.Failf("malformed procedure:\n%s", strings.Join(msgs, "\n"))
		}
	}
	return extracted
}
