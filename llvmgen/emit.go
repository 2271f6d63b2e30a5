// Package llvmgen lowers an IR assembly to an LLVM module.
package llvmgen

import (
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"tinygo.org/x/go-llvm"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/types"
)

type function struct {
	value   llvm.Value
	typ     llvm.Type
	hasThis bool
}

type global struct {
	value llvm.Value
	typ   llvm.Type
}

// fieldSlot locates an instance field inside its class layout.
type fieldSlot struct {
	owner llvm.Type
	index int
	typ   llvm.Type
}

type emitter struct {
	asm     *ir.Assembly
	ctx     llvm.Context
	module  llvm.Module
	builder llvm.Builder
	types   *typeMapper

	procs   map[*ir.Procedure]*function
	order   []*ir.Procedure
	symbols map[ir.Symbol]*function
	externs map[ir.Symbol]*function
	runtime map[string]*function
	statics map[ir.Symbol]global
	fields  map[ir.Symbol]fieldSlot

	// classLayouts holds the struct of every class, reference classes included.
	classLayouts map[*types.Named]llvm.Type

	strCounter int
}

// Emit lowers asm and returns the textual LLVM module. The module is verified
// before it is printed.
func Emit(asm *ir.Assembly) (text string, err error) {
	defer contract.Recover(&err)

	ctx := llvm.NewContext()
	defer ctx.Dispose()
	e := &emitter{
		asm:          asm,
		ctx:          ctx,
		module:       ctx.NewModule(asm.Name),
		builder:      ctx.NewBuilder(),
		types:        newTypeMapper(ctx),
		procs:        make(map[*ir.Procedure]*function),
		symbols:      make(map[ir.Symbol]*function),
		externs:      make(map[ir.Symbol]*function),
		runtime:      make(map[string]*function),
		statics:      make(map[ir.Symbol]global),
		fields:       make(map[ir.Symbol]fieldSlot),
		classLayouts: make(map[*types.Named]llvm.Type),
	}
	defer e.module.Dispose()
	defer e.builder.Dispose()

	e.emit()
	if err := llvm.VerifyModule(e.module, llvm.ReturnStatusAction); err != nil {
		return "", errors.Wrapf(err, "llvmgen: %s", asm.Name)
	}
	return e.module.String(), nil
}

func (e *emitter) emit() {
	modules := e.asm.Modules()
	for _, m := range modules {
		e.declareLayouts(m)
	}
	for _, m := range modules {
		e.defineLayouts(m)
	}
	for _, m := range modules {
		e.declareStatics(m)
		e.declareProcedures(m)
	}
	for _, proc := range e.order {
		if len(proc.Blocks()) > 0 {
			newProcEmitter(e, proc, e.procs[proc]).emit()
		}
	}
	if e.asm.EntryPoint != nil {
		e.emitMain(modules)
	}
	glog.V(5).Infof("llvmgen: %s: %d procedures, %d runtime helpers", e.asm.Name, len(e.procs), len(e.runtime))
}

func modulePath(m *ir.Module) []string {
	if m.Parent == nil {
		return []string{m.Name}
	}
	return append(modulePath(m.Parent), m.Name)
}

func join(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

// declareLayouts creates an empty named struct per class so that layouts can
// refer to each other before any body is set.
func (e *emitter) declareLayouts(m *ir.Module) {
	for _, c := range m.Classes {
		named, ok := c.Type.(*types.Named)
		if !ok {
			continue
		}
		st := e.ctx.StructCreateNamed(ManglePath(join(modulePath(m), c.Name)...))
		e.classLayouts[named] = st
		if named.Value {
			e.types.layouts[named] = st
		}
	}
}

func (e *emitter) defineLayouts(m *ir.Module) {
	for _, c := range m.Classes {
		named, ok := c.Type.(*types.Named)
		if !ok {
			continue
		}
		st := e.classLayouts[named]
		var elems []llvm.Type
		for _, f := range c.Fields {
			if f.Static || isVoid(f.Type) {
				continue
			}
			typ := e.types.llvmType(f.Type)
			e.fields[f.Symbol] = fieldSlot{owner: st, index: len(elems), typ: typ}
			elems = append(elems, typ)
		}
		st.StructSetBody(elems, false)
	}
}

func (e *emitter) declareStatics(m *ir.Module) {
	path := modulePath(m)
	for _, f := range m.Fields {
		e.declareStatic(path, f)
	}
	for _, c := range m.Classes {
		for _, f := range c.Fields {
			if f.Static {
				e.declareStatic(join(path, c.Name), f)
			}
		}
	}
}

func (e *emitter) declareStatic(path []string, f *ir.Field) {
	if isVoid(f.Type) {
		return
	}
	typ := e.types.llvmType(f.Type)
	g := llvm.AddGlobal(e.module, typ, ManglePath(join(path, f.Name)...))
	g.SetInitializer(llvm.ConstNull(typ))
	e.statics[f.Symbol] = global{value: g, typ: typ}
}

func (e *emitter) declareProcedures(m *ir.Module) {
	path := modulePath(m)
	for _, p := range m.Procedures() {
		e.declareProcedure(path, p)
	}
	for _, c := range m.Classes {
		for _, p := range c.Procedures() {
			e.declareProcedure(join(path, c.Name), p)
		}
	}
	if m.HasGlobalInitializer() {
		e.declareProcedure(path, m.GlobalInitializer())
	}
}

// procedureName is the last path segment of proc. FullName already carries the
// container, which the mangled path spells out separately.
func procedureName(proc *ir.Procedure) string {
	if proc.Symbol != nil {
		return proc.Symbol.Name()
	}
	return proc.Name
}

func (e *emitter) declareProcedure(path []string, proc *ir.Procedure) {
	var paramTypes []types.Type
	var llvmParams []llvm.Type
	for _, p := range proc.Params {
		paramTypes = append(paramTypes, p.Type())
		switch {
		case isByRefReceiver(proc, p):
			llvmParams = append(llvmParams, e.types.ptr())
		case isVoid(p.Type()):
		default:
			llvmParams = append(llvmParams, e.types.llvmType(p.Type()))
		}
	}
	typ := llvm.FunctionType(e.types.llvmType(proc.ReturnType), llvmParams, false)
	value := llvm.AddFunction(e.module, Mangle(join(path, procedureName(proc)), paramTypes), typ)

	i := 0
	for _, p := range proc.Params {
		if isVoid(p.Type()) && !isByRefReceiver(proc, p) {
			continue
		}
		value.Param(i).SetName(p.Name)
		i++
	}

	fn := &function{value: value, typ: typ, hasThis: thisParameter(proc) != nil}
	e.procs[proc] = fn
	e.order = append(e.order, proc)
	if proc.Symbol != nil {
		e.symbols[proc.Symbol] = fn
	}
	glog.V(5).Infof("llvmgen: declared %s", value.Name())
}

// thisParameter returns the implicit receiver parameter of an instance method.
func thisParameter(proc *ir.Procedure) *ir.Parameter {
	fn, ok := proc.Symbol.(*bound.Function)
	if !ok || len(proc.Params) == 0 {
		return nil
	}
	this := fn.ThisParameter()
	if this == nil || proc.Params[0].Symbol != ir.Symbol(this) {
		return nil
	}
	return proc.Params[0]
}

// isByRefReceiver reports whether p is the receiver of a value-type method.
// Such receivers arrive as the address of the caller's storage.
func isByRefReceiver(proc *ir.Procedure, p *ir.Parameter) bool {
	return p == thisParameter(proc) && types.IsValueType(p.Type())
}

// callee returns the function for sym, declaring an external one shaped after
// the call site when the assembly does not define it.
func (e *emitter) callee(sym ir.Symbol, receiver ir.Operand, args []ir.Operand, ret types.Type) *function {
	if fn, ok := e.symbols[sym]; ok {
		return fn
	}
	if fn, ok := e.externs[sym]; ok {
		return fn
	}
	var paramTypes []types.Type
	if receiver != nil {
		paramTypes = append(paramTypes, receiver.Type())
	}
	for _, a := range args {
		paramTypes = append(paramTypes, a.Type())
	}
	var llvmParams []llvm.Type
	for _, t := range paramTypes {
		if !isVoid(t) {
			llvmParams = append(llvmParams, e.types.llvmType(t))
		}
	}
	typ := llvm.FunctionType(e.types.llvmType(ret), llvmParams, false)
	name := Mangle(strings.Split(sym.FullName(), "."), paramTypes)
	fn := &function{value: llvm.AddFunction(e.module, name, typ), typ: typ}
	e.externs[sym] = fn
	glog.V(5).Infof("llvmgen: external %s", name)
	return fn
}

// constString places value in a private constant global and returns its address.
func (e *emitter) constString(value string) llvm.Value {
	arrType := llvm.ArrayType(e.ctx.Int8Type(), len(value)+1)
	g := llvm.AddGlobal(e.module, arrType, "str."+strconv.Itoa(e.strCounter))
	e.strCounter++
	g.SetInitializer(llvm.ConstString(value, true))
	g.SetLinkage(llvm.PrivateLinkage)
	g.SetUnnamedAddr(true)
	g.SetGlobalConstant(true)
	return g
}

// emitMain adds the process entry: it runs every global initializer in module
// order, then the entry procedure. Parameters of the entry receive zero values.
func (e *emitter) emitMain(modules []*ir.Module) {
	i32 := e.ctx.Int32Type()
	mainType := llvm.FunctionType(i32, []llvm.Type{}, false)
	mainFunc := llvm.AddFunction(e.module, "main", mainType)
	e.builder.SetInsertPointAtEnd(e.ctx.AddBasicBlock(mainFunc, "entry"))

	for _, m := range modules {
		if m.HasGlobalInitializer() {
			initializer := e.procs[m.GlobalInitializer()]
			e.builder.CreateCall(initializer.typ, initializer.value, []llvm.Value{}, "")
		}
	}

	entry := e.asm.EntryPoint
	fn, ok := e.procs[entry]
	contract.Assertf(ok, "entry point %s is not part of the assembly", entry.Name)
	args := make([]llvm.Value, len(fn.typ.ParamTypes()))
	for i, t := range fn.typ.ParamTypes() {
		args[i] = llvm.ConstNull(t)
	}
	if isVoid(entry.ReturnType) {
		e.builder.CreateCall(fn.typ, fn.value, args, "")
		e.builder.CreateRet(llvm.ConstInt(i32, 0, false))
		return
	}
	result := e.builder.CreateCall(fn.typ, fn.value, args, "status")
	if entry.ReturnType.Kind() == types.IntKind {
		e.builder.CreateRet(e.builder.CreateIntCast(result, i32, "exit"))
		return
	}
	e.builder.CreateRet(llvm.ConstInt(i32, 0, false))
}
