package codegen

import (
	"github.com/golang/glog"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/types"
)

type cursorState int

const (
	// detached: the previous block ended in a terminator and no new block has
	// been attached yet. Anything written here is unreachable and dropped.
	detached cursorState = iota
	attached
)

// functionBodyCodegen translates one lowered function body into the blocks of proc.
type functionBodyCodegen struct {
	proc        *ir.Procedure
	isValueType func(types.Type) bool

	state   cursorState
	current *ir.BasicBlock
	labels  map[*bound.Label]*ir.BasicBlock
	scopes  []Scope[*bound.Local, *ir.Local]
}

var _ bound.Emitter = (*functionBodyCodegen)(nil)

func newFunctionBodyCodegen(proc *ir.Procedure, isValueType func(types.Type) bool) *functionBodyCodegen {
	c := &functionBodyCodegen{
		proc:        proc,
		isValueType: isValueType,
		labels:      make(map[*bound.Label]*ir.BasicBlock),
	}
	PushScope(&c.scopes, FuncScope)
	return c
}

// compileBody emits body into the procedure, starting at its entry block.
// A body that falls off its end returns void.
func (c *functionBodyCodegen) compileBody(body bound.Statement) {
	c.attach(c.proc.Entry)
	c.compileStatement(body)
	if c.state == attached {
		c.Write(&ir.Return{Value: ir.Void{}})
		c.detach()
	}
	if glog.V(3) {
		glog.Infof("codegen: %s: %d blocks, %d registers, %d locals",
			c.proc.Name, len(c.proc.Blocks()), len(c.proc.Registers()), len(c.proc.Locals()))
	}
}

// Write appends instr to the current block. While detached it is dropped.
func (c *functionBodyCodegen) Write(instr ir.Instruction) {
	if c.state == detached {
		if glog.V(7) {
			glog.Infof("codegen: %s: dropping unreachable %s", c.proc.Name, instr)
		}
		return
	}
	if glog.V(7) {
		glog.Infof("codegen: %s: %s: %s", c.proc.Name, c.current.Name(), instr)
	}
	c.current.InsertLast(instr)
}

func (c *functionBodyCodegen) DefineRegister(typ types.Type) *ir.Register {
	return c.proc.DefineRegister(typ)
}

func (c *functionBodyCodegen) attach(b *ir.BasicBlock) {
	c.proc.Attach(b)
	c.current = b
	c.state = attached
}

func (c *functionBodyCodegen) detach() {
	c.current = nil
	c.state = detached
}

// terminate writes a terminator and leaves the cursor detached.
func (c *functionBodyCodegen) terminate(instr ir.Instruction) {
	c.Write(instr)
	c.detach()
}

func (c *functionBodyCodegen) labelBlock(l *bound.Label) *ir.BasicBlock {
	if b, ok := c.labels[l]; ok {
		return b
	}
	b := c.proc.NewBasicBlock(l)
	c.labels[l] = b
	return b
}

func (c *functionBodyCodegen) defineLocal(l *bound.Local) *ir.Local {
	slot := c.proc.DefineLocal(l, l.Type, l.Synthesized)
	Put(c.scopes, l, slot)
	return slot
}

func (c *functionBodyCodegen) lookupLocal(l *bound.Local) *ir.Local {
	slot, ok := Get(c.scopes, l)
	if !ok {
		contract.Captured(l.Name())
	}
	return slot
}

func (c *functionBodyCodegen) lookupParameter(p *bound.Parameter) *ir.Parameter {
	param, ok := c.proc.Parameter(p)
	if !ok {
		contract.Captured(p.Name())
	}
	return param
}

func (c *functionBodyCodegen) compileStatement(s bound.Statement) {
	switch s := s.(type) {
	case *bound.NoOpStatement:
	case *bound.ExpressionStatement:
		c.compileExpression(s.Expression)
	case *bound.LocalDeclaration:
		slot, ok := Get(c.scopes, s.Local)
		if !ok {
			slot = c.defineLocal(s.Local)
		}
		if s.Value != nil {
			value := c.compileExpression(s.Value)
			c.Write(&ir.Store{Dest: slot, Value: c.convert(value, slot.Type())})
		}
	case *bound.LabelStatement:
		b := c.labelBlock(s.Label)
		if c.state == attached {
			c.Write(&ir.Jump{Target: b})
		}
		c.attach(b)
	case *bound.ConditionalGotoStatement:
		c.compileConditionalGoto(s)
	case *bound.SequencePointStatement:
		if s.Location != nil {
			c.Write(&ir.SequencePoint{Range: s.Location})
		}
		if s.Statement != nil {
			c.compileStatement(s.Statement)
		}
		if s.EmitNoOp {
			c.Write(&ir.Nop{})
		}
	case *bound.LocalFunctionStatement:
		contract.Lowered(string(s.Kind()))
	default:
		contract.Failf("unrecognized statement kind %v", s.Kind())
	}
}

// compileConditionalGoto branches to the target when the condition holds and
// falls through into a fresh block otherwise. A condition that never produces a
// value (a return or goto) makes the branch itself unreachable.
func (c *functionBodyCodegen) compileConditionalGoto(s *bound.ConditionalGotoStatement) {
	cond := c.compileExpression(s.Condition)
	if s.Condition.Type().Kind() == types.NeverKind {
		return
	}
	next := c.proc.NewBasicBlock(nil)
	c.Write(&ir.Branch{Condition: cond, Then: c.labelBlock(s.Target), Else: next})
	c.attach(next)
}

func (c *functionBodyCodegen) compileExpression(e bound.Expression) ir.Operand {
	switch e := e.(type) {
	case *bound.SequencePointExpression:
		if e.Location != nil {
			c.Write(&ir.SequencePoint{Range: e.Location})
		}
		value := c.compileExpression(e.Expression)
		if e.EmitNoOp {
			c.Write(&ir.Nop{})
		}
		return value

	case *bound.UnitExpression:
		return ir.Void{}
	case *bound.LiteralExpression:
		return ir.Constant{Value: e.Value, Typ: e.Typ}
	case *bound.BlockExpression:
		return c.compileBlock(e)

	case *bound.GotoExpression:
		c.terminate(&ir.Jump{Target: c.labelBlock(e.Target)})
		return ir.Void{}
	case *bound.ReturnExpression:
		var value ir.Operand = ir.Void{}
		if e.Value != nil {
			value = c.convert(c.compileExpression(e.Value), c.proc.ReturnType)
		}
		c.terminate(&ir.Return{Value: value})
		return ir.Void{}

	case *bound.LocalExpression:
		slot := c.lookupLocal(e.Local)
		target := c.DefineRegister(slot.Type())
		c.Write(&ir.Load{Target: target, Source: slot})
		return target
	case *bound.ParameterExpression:
		param := c.lookupParameter(e.Parameter)
		target := c.DefineRegister(param.Type())
		c.Write(&ir.Load{Target: target, Source: param})
		return target
	case *bound.GlobalExpression:
		target := c.DefineRegister(e.Field.Type)
		c.Write(&ir.LoadStatic{Target: target, Field: e.Field})
		return target
	case *bound.FieldExpression:
		receiver := c.compileExpression(e.Receiver)
		target := c.DefineRegister(e.Field.Type)
		c.Write(&ir.LoadField{Target: target, Receiver: receiver, Field: e.Field})
		return target

	case *bound.ArrayAccessExpression:
		array := c.compileExpression(e.Array)
		indices := c.compileExpressions(e.Indices)
		target := c.DefineRegister(e.Type())
		c.Write(&ir.LoadElement{Target: target, Array: array, Indices: indices})
		return target
	case *bound.ArrayLengthExpression:
		array := c.compileExpression(e.Array)
		target := c.DefineRegister(types.Int32)
		c.Write(&ir.ArrayLength{Target: target, Array: array})
		return target
	case *bound.ArrayCreationExpression:
		dims := c.compileExpressions(e.Sizes)
		target := c.DefineRegister(e.Type())
		c.Write(&ir.NewArray{Target: target, Elem: e.ElementType, Dimensions: dims})
		return target
	case *bound.ObjectCreationExpression:
		args := c.compileArguments(e.Constructor, e.Arguments)
		target := c.DefineRegister(e.ObjectType)
		c.Write(&ir.NewObject{Target: target, Constructor: e.Constructor, Args: args})
		return target
	case *bound.DelegateCreationExpression:
		var receiver ir.Operand
		if e.Receiver != nil {
			receiver = c.compileExpression(e.Receiver)
		}
		target := c.DefineRegister(e.DelegateType)
		c.Write(&ir.NewDelegate{Target: target, Procedure: e.Method, Receiver: receiver})
		return target

	case *bound.CallExpression:
		if e.Expanded && e.Method.IsVariadic() {
			contract.Lowered("expanded variadic " + string(e.Kind()))
		}
		return c.compileCall(e.Receiver, e.Method, e.Arguments)
	case *bound.UnaryExpression:
		return c.compileCall(nil, e.Operator, []bound.Expression{e.Operand})
	case *bound.BinaryExpression:
		return c.compileCall(nil, e.Operator, []bound.Expression{e.Left, e.Right})
	case *bound.AssignmentExpression:
		return c.compileAssignment(e)

	case *bound.IfExpression, *bound.WhileExpression, *bound.RelationalExpression,
		*bound.AndExpression, *bound.OrExpression, *bound.StringExpression, *bound.MatchExpression,
		*bound.PropertyGetExpression, *bound.PropertySetExpression, *bound.IndexGetExpression,
		*bound.IndexSetExpression, *bound.IndirectCallExpression:
		contract.Lowered(string(e.Kind()))
	case *bound.FunctionGroupExpression, *bound.TypeExpression, *bound.ModuleExpression:
		contract.Illegal(string(e.Kind()))
	default:
		contract.Failf("unrecognized expression kind %v", e.Kind())
	}
	return nil
}

func (c *functionBodyCodegen) compileExpressions(es []bound.Expression) []ir.Operand {
	ops := make([]ir.Operand, len(es))
	for i, e := range es {
		ops[i] = c.compileExpression(e)
	}
	return ops
}

// compileBlock scopes the block's locals. Only user-declared locals are announced
// to the debugger through a start/end scope pair.
func (c *functionBodyCodegen) compileBlock(b *bound.BlockExpression) ir.Operand {
	PushScope(&c.scopes, BlockScope)
	defer PopScope(&c.scopes)

	var visible []*ir.Local
	for _, l := range b.Locals {
		slot := c.defineLocal(l)
		if !l.Synthesized {
			visible = append(visible, slot)
		}
	}
	if len(visible) > 0 {
		c.Write(&ir.StartScope{Locals: visible})
	}
	for _, s := range b.Statements {
		c.compileStatement(s)
	}
	value := c.compileExpression(b.Value)
	if len(visible) > 0 {
		c.Write(&ir.EndScope{})
	}
	return value
}

// compileCall evaluates the receiver, then the arguments left to right, and
// invokes method. A method with an inline codegen hook never becomes a call.
func (c *functionBodyCodegen) compileCall(receiver bound.Expression, method *bound.Function, args []bound.Expression) ir.Operand {
	var recv ir.Operand
	if receiver != nil {
		contract.Assertf(method.Codegen == nil, "%s has inline codegen but was called with a receiver", method.FullName())
		recv = c.compileReceiver(receiver, method)
	}
	return c.invoke(method, recv, c.compileArguments(method, args))
}

func (c *functionBodyCodegen) compileArguments(method *bound.Function, args []bound.Expression) []ir.Operand {
	contract.Assertf(len(args) == len(method.Params),
		"%s takes %d arguments, got %d", method.FullName(), len(method.Params), len(args))
	ops := make([]ir.Operand, len(args))
	for i, a := range args {
		ops[i] = c.convert(c.compileExpression(a), method.Params[i].Type)
	}
	return ops
}

func (c *functionBodyCodegen) invoke(method *bound.Function, receiver ir.Operand, args []ir.Operand) ir.Operand {
	target := c.DefineRegister(method.ReturnType)
	switch {
	case method.Codegen != nil:
		method.Codegen(c, target, args)
	case receiver != nil:
		c.Write(&ir.MemberCall{Target: target, Procedure: method, Receiver: receiver, Args: args})
	default:
		c.Write(&ir.Call{Target: target, Procedure: method, Args: args})
	}
	return target
}

// compileReceiver passes value-type receivers by address so the callee can mutate them.
func (c *functionBodyCodegen) compileReceiver(receiver bound.Expression, method *bound.Function) ir.Operand {
	rt := method.ReceiverType()
	if rt == nil || !c.isValueType(rt) {
		return c.compileExpression(receiver)
	}

	var slot ir.Slot
	switch r := receiver.(type) {
	case *bound.LocalExpression:
		slot = c.lookupLocal(r.Local)
	case *bound.ParameterExpression:
		slot = c.lookupParameter(r.Parameter)
	default:
		value := c.compileExpression(receiver)
		spill := c.defineLocal(bound.NewSynthesizedLocal("receiver", receiver.Type()))
		c.Write(&ir.Store{Dest: spill, Value: value})
		slot = spill
	}
	target := c.DefineRegister(types.Ptr{Elem: rt})
	c.Write(&ir.AddressOf{Target: target, Source: slot})
	return target
}

// convert boxes value-type operands flowing into reference-typed positions and
// unboxes in the opposite direction.
func (c *functionBodyCodegen) convert(value ir.Operand, to types.Type) ir.Operand {
	if ir.IsVoid(value) || to == nil {
		return value
	}
	from := value.Type()
	if from.Kind() == types.NeverKind || to.Kind() == types.NeverKind {
		return value
	}
	fromValue, toValue := c.isValueType(from), c.isValueType(to)
	switch {
	case fromValue && !toValue:
		target := c.DefineRegister(to)
		c.Write(&ir.Box{Target: target, Value: value})
		return target
	case !fromValue && toValue:
		target := c.DefineRegister(to)
		c.Write(&ir.Unbox{Target: target, Value: value})
		return target
	}
	return value
}

// lvalue is an assignment target whose sub-expressions have already been evaluated.
type lvalue struct {
	typ   types.Type
	load  func(target *ir.Register) ir.Instruction
	store func(value ir.Operand) ir.Instruction
}

func (c *functionBodyCodegen) compileLvalue(lv bound.Lvalue) lvalue {
	switch lv := lv.(type) {
	case *bound.LocalLvalue:
		return slotLvalue(c.lookupLocal(lv.Local))
	case *bound.ParameterLvalue:
		return slotLvalue(c.lookupParameter(lv.Parameter))
	case *bound.GlobalLvalue:
		return lvalue{
			typ:   lv.Field.Type,
			load:  func(t *ir.Register) ir.Instruction { return &ir.LoadStatic{Target: t, Field: lv.Field} },
			store: func(v ir.Operand) ir.Instruction { return &ir.StoreStatic{Field: lv.Field, Value: v} },
		}
	case *bound.FieldLvalue:
		receiver := c.compileExpression(lv.Receiver)
		return lvalue{
			typ: lv.Field.Type,
			load: func(t *ir.Register) ir.Instruction {
				return &ir.LoadField{Target: t, Receiver: receiver, Field: lv.Field}
			},
			store: func(v ir.Operand) ir.Instruction {
				return &ir.StoreField{Receiver: receiver, Field: lv.Field, Value: v}
			},
		}
	case *bound.ArrayAccessLvalue:
		array := c.compileExpression(lv.Array)
		indices := c.compileExpressions(lv.Indices)
		return lvalue{
			typ: lv.Type(),
			load: func(t *ir.Register) ir.Instruction {
				return &ir.LoadElement{Target: t, Array: array, Indices: indices}
			},
			store: func(v ir.Operand) ir.Instruction {
				return &ir.StoreElement{Array: array, Indices: indices, Value: v}
			},
		}
	case *bound.PropertySetLvalue, *bound.IndexSetLvalue:
		contract.Lowered(string(lv.Kind()))
	case *bound.IllegalLvalue:
		contract.Illegal(string(lv.Kind()))
	default:
		contract.Failf("unrecognized lvalue kind %v", lv.Kind())
	}
	return lvalue{}
}

func slotLvalue(slot ir.Slot) lvalue {
	return lvalue{
		typ:   slot.Type(),
		load:  func(t *ir.Register) ir.Instruction { return &ir.Load{Target: t, Source: slot} },
		store: func(v ir.Operand) ir.Instruction { return &ir.Store{Dest: slot, Value: v} },
	}
}

// compileAssignment evaluates the target's sub-expressions once, then the right
// side. Compound assignment reads the target between the two.
func (c *functionBodyCodegen) compileAssignment(e *bound.AssignmentExpression) ir.Operand {
	lv := c.compileLvalue(e.Left)
	var value ir.Operand
	if e.CompoundOperator == nil {
		value = c.compileExpression(e.Right)
	} else {
		current := c.DefineRegister(lv.typ)
		c.Write(lv.load(current))
		right := c.compileExpression(e.Right)
		op := e.CompoundOperator
		contract.Assertf(len(op.Params) == 2, "compound operator %s is not binary", op.FullName())
		value = c.invoke(op, nil, []ir.Operand{
			c.convert(current, op.Params[0].Type),
			c.convert(right, op.Params[1].Type),
		})
	}
	value = c.convert(value, lv.typ)
	c.Write(lv.store(value))
	return value
}
