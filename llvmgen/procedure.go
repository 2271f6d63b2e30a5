package llvmgen

import (
	"github.com/golang/glog"
	"tinygo.org/x/go-llvm"

	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

// procEmitter lowers the blocks of one procedure. Every slot gets a stack
// allocation in a dedicated entry block; registers map to SSA values.
type procEmitter struct {
	*emitter
	proc *ir.Procedure
	fn   *function

	blocks map[*ir.BasicBlock]llvm.BasicBlock
	slots  map[ir.Slot]llvm.Value
	byRef  map[ir.Slot]bool
	regs   map[*ir.Register]llvm.Value
	// addrs remembers where a value-type register was loaded from, so field
	// stores through it update the original storage.
	addrs map[*ir.Register]llvm.Value

	allocaPoint llvm.Value
}

func newProcEmitter(e *emitter, proc *ir.Procedure, fn *function) *procEmitter {
	return &procEmitter{
		emitter: e,
		proc:    proc,
		fn:      fn,
		blocks:  make(map[*ir.BasicBlock]llvm.BasicBlock),
		slots:   make(map[ir.Slot]llvm.Value),
		byRef:   make(map[ir.Slot]bool),
		regs:    make(map[*ir.Register]llvm.Value),
		addrs:   make(map[*ir.Register]llvm.Value),
	}
}

func (pe *procEmitter) emit() {
	entry := pe.ctx.AddBasicBlock(pe.fn.value, "entry")
	for _, b := range pe.proc.Blocks() {
		pe.blocks[b] = pe.ctx.AddBasicBlock(pe.fn.value, b.Name())
	}

	pe.builder.SetInsertPointAtEnd(entry)
	i := 0
	for _, p := range pe.proc.Params {
		if isByRefReceiver(pe.proc, p) {
			pe.byRef[p] = true
		} else if isVoid(p.Type()) {
			continue
		}
		slot := pe.builder.CreateAlloca(pe.slotType(p), p.Name+".addr")
		pe.builder.CreateStore(pe.fn.value.Param(i), slot)
		pe.slots[p] = slot
		i++
	}
	for _, l := range pe.proc.Locals() {
		if isVoid(l.Type()) {
			continue
		}
		pe.slots[l] = pe.builder.CreateAlloca(pe.slotType(l), l.Name)
	}
	pe.allocaPoint = pe.builder.CreateBr(pe.blocks[pe.proc.Blocks()[0]])

	for _, b := range pe.proc.Blocks() {
		pe.builder.SetInsertPointAtEnd(pe.blocks[b])
		for _, instr := range b.Instructions {
			pe.emitInstruction(instr)
		}
		if b.Terminator() == nil {
			pe.builder.CreateUnreachable()
		}
	}
	glog.V(5).Infof("llvmgen: emitted %s (%d blocks)", pe.fn.value.Name(), len(pe.blocks))
}

func (pe *procEmitter) slotType(s ir.Slot) llvm.Type {
	if p, ok := s.(*ir.Parameter); ok && isByRefReceiver(pe.proc, p) {
		return pe.types.ptr()
	}
	return pe.types.llvmType(s.Type())
}

// alloca places a temporary in the entry block.
func (pe *procEmitter) alloca(typ llvm.Type, name string) llvm.Value {
	b := pe.ctx.NewBuilder()
	defer b.Dispose()
	b.SetInsertPointBefore(pe.allocaPoint)
	return b.CreateAlloca(typ, name)
}

func (pe *procEmitter) block(b *ir.BasicBlock) llvm.BasicBlock {
	bb, ok := pe.blocks[b]
	contract.Assertf(ok, "%s: jump to detached block %s", pe.proc.Name, b.Name())
	return bb
}

// value returns the LLVM value of op. Operands without a runtime
// representation must be filtered out by the caller.
func (pe *procEmitter) value(op ir.Operand) llvm.Value {
	switch op := op.(type) {
	case *ir.Register:
		v, ok := pe.regs[op]
		contract.Assertf(ok, "%s: %s read before it is written", pe.proc.Name, op)
		return v
	case ir.Constant:
		return pe.constant(op)
	}
	contract.Failf("%s: operand %v has no value", pe.proc.Name, op)
	return llvm.Value{}
}

func hasValue(op ir.Operand) bool {
	return !ir.IsVoid(op) && !isVoid(op.Type())
}

func (pe *procEmitter) values(ops []ir.Operand) []llvm.Value {
	vals := []llvm.Value{}
	for _, op := range ops {
		if hasValue(op) {
			vals = append(vals, pe.value(op))
		}
	}
	return vals
}

func (pe *procEmitter) constant(c ir.Constant) llvm.Value {
	typ := pe.types.llvmType(c.Typ)
	switch v := c.Value.(type) {
	case nil:
		return llvm.ConstNull(typ)
	case bool:
		if v {
			return llvm.ConstInt(typ, 1, false)
		}
		return llvm.ConstInt(typ, 0, false)
	case int:
		return llvm.ConstInt(typ, uint64(v), true)
	case int8:
		return llvm.ConstInt(typ, uint64(v), true)
	case int16:
		return llvm.ConstInt(typ, uint64(v), true)
	case int32:
		return llvm.ConstInt(typ, uint64(v), true)
	case int64:
		return llvm.ConstInt(typ, uint64(v), true)
	case uint:
		return llvm.ConstInt(typ, uint64(v), false)
	case uint8:
		return llvm.ConstInt(typ, uint64(v), false)
	case uint16:
		return llvm.ConstInt(typ, uint64(v), false)
	case uint32:
		return llvm.ConstInt(typ, uint64(v), false)
	case uint64:
		return llvm.ConstInt(typ, v, false)
	case float32:
		return llvm.ConstFloat(typ, float64(v))
	case float64:
		return llvm.ConstFloat(typ, v)
	case string:
		return pe.constString(v)
	}
	contract.Failf("unsupported constant %v of type %s", c.Value, c.Typ)
	return llvm.Value{}
}

// define records the value written to target. Registers without a runtime
// representation are dropped.
func (pe *procEmitter) define(target *ir.Register, v llvm.Value) {
	if target == nil || isVoid(target.Type()) {
		return
	}
	pe.regs[target] = v
}

func regName(target *ir.Register) string {
	if target == nil || isVoid(target.Type()) {
		return ""
	}
	return target.String()
}

func (pe *procEmitter) emitInstruction(instr ir.Instruction) {
	b := pe.builder
	switch i := instr.(type) {
	case *ir.Nop, *ir.SequencePoint, *ir.StartScope, *ir.EndScope:
		// debug-only instructions have no LLVM counterpart yet

	case *ir.Jump:
		b.CreateBr(pe.block(i.Target))
	case *ir.Branch:
		b.CreateCondBr(pe.value(i.Condition), pe.block(i.Then), pe.block(i.Else))
	case *ir.Return:
		pe.emitReturn(i)

	case *ir.Load:
		pe.emitLoad(i)
	case *ir.Store:
		if hasValue(i.Value) {
			b.CreateStore(pe.value(i.Value), pe.slotAddress(i.Dest))
		}
	case *ir.AddressOf:
		pe.define(i.Target, pe.slotAddress(i.Source))

	case *ir.LoadStatic:
		if g, ok := pe.static(i.Field); ok {
			pe.define(i.Target, b.CreateLoad(g.typ, g.value, regName(i.Target)))
		}
	case *ir.StoreStatic:
		if g, ok := pe.static(i.Field); ok && hasValue(i.Value) {
			b.CreateStore(pe.value(i.Value), g.value)
		}
	case *ir.LoadField:
		pe.emitLoadField(i)
	case *ir.StoreField:
		pe.emitStoreField(i)

	case *ir.LoadElement:
		if !isVoid(i.Target.Type()) {
			addr := pe.element(i.Array, i.Indices)
			pe.define(i.Target, b.CreateLoad(pe.types.llvmType(i.Target.Type()), addr, regName(i.Target)))
		}
	case *ir.StoreElement:
		if hasValue(i.Value) {
			b.CreateStore(pe.value(i.Value), pe.element(i.Array, i.Indices))
		}
	case *ir.ArrayLength:
		length := pe.callRuntime(rtArrayLength, "len", pe.value(i.Array))
		pe.define(i.Target, b.CreateIntCast(length, pe.types.llvmType(i.Target.Type()), regName(i.Target)))
	case *ir.NewArray:
		args := []llvm.Value{pe.sizeOf(i.Elem), llvm.ConstInt(pe.ctx.Int32Type(), uint64(len(i.Dimensions)), false)}
		args = append(args, pe.indices(i.Dimensions)...)
		pe.define(i.Target, pe.callRuntime(rtArrayNew, regName(i.Target), args...))

	case *ir.Call:
		pe.emitCall(i.Target, i.Procedure, nil, i.Args)
	case *ir.MemberCall:
		pe.emitCall(i.Target, i.Procedure, i.Receiver, i.Args)
	case *ir.NewObject:
		pe.emitNewObject(i)
	case *ir.NewDelegate:
		pe.emitNewDelegate(i)

	case *ir.Box:
		pe.define(i.Target, pe.box(i.Value, regName(i.Target)))
	case *ir.Unbox:
		if !isVoid(i.Target.Type()) {
			pe.define(i.Target, b.CreateLoad(pe.types.llvmType(i.Target.Type()), pe.value(i.Value), regName(i.Target)))
		}

	case *ir.Unary:
		pe.define(i.Target, pe.unary(i))
	case *ir.Binary:
		pe.define(i.Target, pe.binary(i))

	default:
		contract.Failf("llvmgen: unhandled instruction %s", instr.Opcode())
	}
}

func (pe *procEmitter) emitReturn(r *ir.Return) {
	switch {
	case isVoid(pe.proc.ReturnType):
		pe.builder.CreateRetVoid()
	case hasValue(r.Value):
		pe.builder.CreateRet(pe.value(r.Value))
	default:
		// a value-less return out of a value-returning procedure is never reached
		pe.builder.CreateUnreachable()
	}
}

// slotAddress returns the storage of s. For a by-reference receiver that is the
// caller's storage, not the local copy of the pointer.
func (pe *procEmitter) slotAddress(s ir.Slot) llvm.Value {
	slot, ok := pe.slots[s]
	contract.Assertf(ok, "%s: slot %s has no storage", pe.proc.Name, s)
	if pe.byRef[s] {
		return pe.builder.CreateLoad(pe.types.ptr(), slot, "this")
	}
	return slot
}

func (pe *procEmitter) emitLoad(l *ir.Load) {
	if isVoid(l.Target.Type()) {
		return
	}
	addr := pe.slotAddress(l.Source)
	if types.IsValueType(l.Target.Type()) && l.Target.Type().Kind() == types.NamedKind {
		pe.addrs[l.Target] = addr
	}
	pe.define(l.Target, pe.builder.CreateLoad(pe.types.llvmType(l.Target.Type()), addr, regName(l.Target)))
}

func (pe *procEmitter) static(field ir.Symbol) (global, bool) {
	g, ok := pe.statics[field]
	if !ok {
		glog.V(5).Infof("llvmgen: static %s has no storage", field.FullName())
	}
	return g, ok
}

func (pe *procEmitter) fieldSlot(field ir.Symbol) fieldSlot {
	slot, ok := pe.fields[field]
	contract.Assertf(ok, "field %s has no layout", field.FullName())
	return slot
}

// receiverAddress returns the address of the object or value receiver refers
// to, if there is one.
func (pe *procEmitter) receiverAddress(receiver ir.Operand) (llvm.Value, bool) {
	if r, ok := receiver.(*ir.Register); ok {
		if addr, ok := pe.addrs[r]; ok {
			return addr, true
		}
	}
	v := pe.value(receiver)
	if v.Type().TypeKind() == llvm.PointerTypeKind {
		return v, true
	}
	return llvm.Value{}, false
}

func (pe *procEmitter) emitLoadField(l *ir.LoadField) {
	if isVoid(l.Target.Type()) {
		return
	}
	slot := pe.fieldSlot(l.Field)
	if addr, ok := pe.receiverAddress(l.Receiver); ok {
		ptr := pe.builder.CreateStructGEP(slot.owner, addr, slot.index, l.Field.Name()+".addr")
		pe.define(l.Target, pe.builder.CreateLoad(slot.typ, ptr, regName(l.Target)))
		return
	}
	pe.define(l.Target, pe.builder.CreateExtractValue(pe.value(l.Receiver), slot.index, regName(l.Target)))
}

func (pe *procEmitter) emitStoreField(s *ir.StoreField) {
	if !hasValue(s.Value) {
		return
	}
	slot := pe.fieldSlot(s.Field)
	addr, ok := pe.receiverAddress(s.Receiver)
	contract.Assertf(ok, "%s: store to field %s of a temporary", pe.proc.Name, s.Field.Name())
	ptr := pe.builder.CreateStructGEP(slot.owner, addr, slot.index, s.Field.Name()+".addr")
	pe.builder.CreateStore(pe.value(s.Value), ptr)
}

func (pe *procEmitter) indices(ops []ir.Operand) []llvm.Value {
	i64 := pe.ctx.Int64Type()
	out := make([]llvm.Value, len(ops))
	for i, op := range ops {
		out[i] = pe.builder.CreateIntCast(pe.value(op), i64, "")
	}
	return out
}

// element returns the address of array[indices...].
func (pe *procEmitter) element(array ir.Operand, indices []ir.Operand) llvm.Value {
	args := []llvm.Value{pe.value(array), llvm.ConstInt(pe.ctx.Int32Type(), uint64(len(indices)), false)}
	args = append(args, pe.indices(indices)...)
	return pe.callRuntime(rtArrayElement, "elem", args...)
}

func (pe *procEmitter) sizeOf(t types.Type) llvm.Value {
	if isVoid(t) {
		return llvm.ConstInt(pe.ctx.Int64Type(), 0, false)
	}
	return llvm.SizeOf(pe.types.llvmType(t))
}

func (pe *procEmitter) callRuntime(name, result string, args ...llvm.Value) llvm.Value {
	fn := pe.runtimeFunc(name)
	return pe.builder.CreateCall(fn.typ, fn.value, args, result)
}

// box copies a value into a fresh heap cell and returns the cell.
func (pe *procEmitter) box(op ir.Operand, name string) llvm.Value {
	if !hasValue(op) {
		return llvm.ConstNull(pe.types.ptr())
	}
	cell := pe.callRuntime(rtAlloc, name, pe.sizeOf(op.Type()))
	pe.builder.CreateStore(pe.value(op), cell)
	return cell
}

func (pe *procEmitter) emitCall(target *ir.Register, sym ir.Symbol, receiver ir.Operand, args []ir.Operand) {
	var ret types.Type = types.UnitType
	if target != nil {
		ret = target.Type()
	}
	fn := pe.callee(sym, receiver, args, ret)
	var vals []llvm.Value
	if receiver != nil {
		vals = append(vals, pe.value(receiver))
	}
	vals = append(vals, pe.values(args)...)
	pe.define(target, pe.builder.CreateCall(fn.typ, fn.value, vals, regName(target)))
}

// emitNewObject allocates the instance and runs the constructor on it.
// Reference objects live on the heap, value objects in a stack temporary.
func (pe *procEmitter) emitNewObject(n *ir.NewObject) {
	named, ok := n.Target.Type().(*types.Named)
	contract.Assertf(ok, "%s: new of non-class type %s", pe.proc.Name, n.Target.Type())
	layout, ok := pe.classLayouts[named]
	contract.Assertf(ok, "%s: class %s is not part of the assembly", pe.proc.Name, named)
	ctor, ok := pe.symbols[n.Constructor]
	contract.Assertf(ok, "%s: constructor %s is not part of the assembly", pe.proc.Name, n.Constructor.FullName())

	var obj llvm.Value
	if named.Value {
		obj = pe.alloca(layout, "tmp")
		pe.builder.CreateStore(llvm.ConstNull(layout), obj)
	} else {
		obj = pe.callRuntime(rtAlloc, "obj", llvm.SizeOf(layout))
	}
	args := pe.values(n.Args)
	if ctor.hasThis {
		args = append([]llvm.Value{obj}, args...)
	}
	pe.builder.CreateCall(ctor.typ, ctor.value, args, "")

	if named.Value {
		pe.define(n.Target, pe.builder.CreateLoad(layout, obj, regName(n.Target)))
		return
	}
	pe.define(n.Target, obj)
}

func (pe *procEmitter) emitNewDelegate(n *ir.NewDelegate) {
	fn, ok := pe.symbols[n.Procedure]
	contract.Assertf(ok, "%s: delegate target %s is not part of the assembly", pe.proc.Name, n.Procedure.FullName())
	receiver := llvm.ConstNull(pe.types.ptr())
	if n.Receiver != nil && hasValue(n.Receiver) {
		if types.IsValueType(n.Receiver.Type()) {
			receiver = pe.box(n.Receiver, "recv")
		} else {
			receiver = pe.value(n.Receiver)
		}
	}
	pe.define(n.Target, pe.callRuntime(rtDelegateNew, regName(n.Target), fn.value, receiver))
}

func (pe *procEmitter) unary(u *ir.Unary) llvm.Value {
	v := pe.value(u.Operand)
	name := regName(u.Target)
	isFloat := u.Operand.Type().Kind() == types.FloatKind
	switch u.Op {
	case token.NOT:
		return pe.builder.CreateNot(v, name)
	case token.NEG:
		if isFloat {
			return pe.builder.CreateFNeg(v, name)
		}
		return pe.builder.CreateNeg(v, name)
	case token.POS:
		return v
	}
	contract.Failf("unsupported unary operator %s", u.Op)
	return llvm.Value{}
}

func (pe *procEmitter) binary(bin *ir.Binary) llvm.Value {
	l, r := pe.value(bin.Left), pe.value(bin.Right)
	name := regName(bin.Target)
	t := bin.Left.Type()
	switch t.Kind() {
	case types.FloatKind:
		return pe.floatBinary(bin.Op, l, r, name)
	case types.IntKind, types.BoolKind:
		return pe.intBinary(bin.Op, isSigned(t), l, r, name)
	}
	contract.Failf("unsupported operand type %s for %s", t, bin.Op)
	return llvm.Value{}
}

func (pe *procEmitter) intBinary(op token.TokenType, signed bool, l, r llvm.Value, name string) llvm.Value {
	b := pe.builder
	switch op {
	case token.ADD:
		return b.CreateAdd(l, r, name)
	case token.SUB:
		return b.CreateSub(l, r, name)
	case token.MUL:
		return b.CreateMul(l, r, name)
	case token.QUO:
		if signed {
			return b.CreateSDiv(l, r, name)
		}
		return b.CreateUDiv(l, r, name)
	case token.REM:
		if signed {
			return b.CreateSRem(l, r, name)
		}
		return b.CreateURem(l, r, name)
	case token.AND:
		return b.CreateAnd(l, r, name)
	case token.OR:
		return b.CreateOr(l, r, name)
	case token.XOR:
		return b.CreateXor(l, r, name)
	case token.SHL:
		return b.CreateShl(l, r, name)
	case token.SHR:
		if signed {
			return b.CreateAShr(l, r, name)
		}
		return b.CreateLShr(l, r, name)
	case token.AND_NOT:
		return b.CreateAnd(l, b.CreateNot(r, ""), name)
	}
	if pred, ok := intPredicate(op, signed); ok {
		return b.CreateICmp(pred, l, r, name)
	}
	contract.Failf("unsupported integer operator %s", op)
	return llvm.Value{}
}

func intPredicate(op token.TokenType, signed bool) (llvm.IntPredicate, bool) {
	switch op {
	case token.EQL:
		return llvm.IntEQ, true
	case token.NEQ:
		return llvm.IntNE, true
	case token.LSS:
		if signed {
			return llvm.IntSLT, true
		}
		return llvm.IntULT, true
	case token.LEQ:
		if signed {
			return llvm.IntSLE, true
		}
		return llvm.IntULE, true
	case token.GTR:
		if signed {
			return llvm.IntSGT, true
		}
		return llvm.IntUGT, true
	case token.GEQ:
		if signed {
			return llvm.IntSGE, true
		}
		return llvm.IntUGE, true
	}
	return 0, false
}

func (pe *procEmitter) floatBinary(op token.TokenType, l, r llvm.Value, name string) llvm.Value {
	b := pe.builder
	switch op {
	case token.ADD:
		return b.CreateFAdd(l, r, name)
	case token.SUB:
		return b.CreateFSub(l, r, name)
	case token.MUL:
		return b.CreateFMul(l, r, name)
	case token.QUO:
		return b.CreateFDiv(l, r, name)
	case token.REM:
		return b.CreateFRem(l, r, name)
	case token.EQL:
		return b.CreateFCmp(llvm.FloatOEQ, l, r, name)
	case token.NEQ:
		return b.CreateFCmp(llvm.FloatUNE, l, r, name)
	case token.LSS:
		return b.CreateFCmp(llvm.FloatOLT, l, r, name)
	case token.LEQ:
		return b.CreateFCmp(llvm.FloatOLE, l, r, name)
	case token.GTR:
		return b.CreateFCmp(llvm.FloatOGT, l, r, name)
	case token.GEQ:
		return b.CreateFCmp(llvm.FloatOGE, l, r, name)
	}
	contract.Failf("unsupported float operator %s", op)
	return llvm.Value{}
}
