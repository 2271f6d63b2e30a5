package ir

import (
	"fmt"
	"strings"

	"github.com/thiremani/irgen/token"
	"github.com/thiremani/irgen/types"
)

// Instruction is a single IR instruction.
type Instruction interface {
	Opcode() Opcode
	// Operands lists the values the instruction reads, in evaluation order.
	Operands() []Operand
	String() string
}

// ValueInstruction is an instruction that writes a result register.
type ValueInstruction interface {
	Instruction
	Result() *Register
}

// Nop has no effect. It anchors sequence points that would otherwise cover nothing.
type Nop struct{}

func (*Nop) Opcode() Opcode      { return OpNop }
func (*Nop) Operands() []Operand { return nil }
func (*Nop) String() string      { return "nop" }

type SequencePoint struct {
	Range *token.Range
}

func (*SequencePoint) Opcode() Opcode        { return OpSequencePoint }
func (*SequencePoint) Operands() []Operand   { return nil }
func (s *SequencePoint) String() string      { return "sequence point " + s.Range.String() }

// StartScope opens a debug scope over the listed locals.
type StartScope struct {
	Locals []*Local
}

func (*StartScope) Opcode() Opcode      { return OpStartScope }
func (*StartScope) Operands() []Operand { return nil }

func (s *StartScope) String() string {
	names := make([]string, len(s.Locals))
	for i, l := range s.Locals {
		names[i] = l.String()
	}
	return "start scope [" + strings.Join(names, ", ") + "]"
}

type EndScope struct{}

func (*EndScope) Opcode() Opcode      { return OpEndScope }
func (*EndScope) Operands() []Operand { return nil }
func (*EndScope) String() string      { return "end scope" }

type Jump struct {
	Target *BasicBlock
}

func (*Jump) Opcode() Opcode      { return OpJump }
func (*Jump) Operands() []Operand { return nil }
func (j *Jump) String() string    { return "jump " + j.Target.Name() }

type Branch struct {
	Condition Operand
	Then      *BasicBlock
	Else      *BasicBlock
}

func (*Branch) Opcode() Opcode        { return OpBranch }
func (b *Branch) Operands() []Operand { return []Operand{b.Condition} }

func (b *Branch) String() string {
	return fmt.Sprintf("branch %s, %s, %s", b.Condition, b.Then.Name(), b.Else.Name())
}

type Return struct {
	Value Operand
}

func (*Return) Opcode() Opcode        { return OpReturn }
func (r *Return) Operands() []Operand { return []Operand{r.Value} }
func (r *Return) String() string      { return "return " + operandString(r.Value) }

// Load reads a local or a parameter.
type Load struct {
	Target *Register
	Source Slot
}

func (*Load) Opcode() Opcode        { return OpLoad }
func (*Load) Operands() []Operand   { return nil }
func (l *Load) Result() *Register   { return l.Target }
func (l *Load) String() string      { return fmt.Sprintf("%s := load %s", l.Target, l.Source) }

// Store writes a local or a parameter.
type Store struct {
	Dest  Slot
	Value Operand
}

func (*Store) Opcode() Opcode        { return OpStore }
func (s *Store) Operands() []Operand { return []Operand{s.Value} }
func (s *Store) String() string      { return fmt.Sprintf("store %s, %s", s.Dest, s.Value) }

type LoadStatic struct {
	Target *Register
	Field  Symbol
}

func (*LoadStatic) Opcode() Opcode      { return OpLoadStatic }
func (*LoadStatic) Operands() []Operand { return nil }
func (l *LoadStatic) Result() *Register { return l.Target }

func (l *LoadStatic) String() string {
	return fmt.Sprintf("%s := load static %s", l.Target, l.Field.FullName())
}

type StoreStatic struct {
	Field Symbol
	Value Operand
}

func (*StoreStatic) Opcode() Opcode        { return OpStoreStatic }
func (s *StoreStatic) Operands() []Operand { return []Operand{s.Value} }

func (s *StoreStatic) String() string {
	return fmt.Sprintf("store static %s, %s", s.Field.FullName(), s.Value)
}

type LoadField struct {
	Target   *Register
	Receiver Operand
	Field    Symbol
}

func (*LoadField) Opcode() Opcode        { return OpLoadField }
func (l *LoadField) Operands() []Operand { return []Operand{l.Receiver} }
func (l *LoadField) Result() *Register   { return l.Target }

func (l *LoadField) String() string {
	return fmt.Sprintf("%s := load field %s.%s", l.Target, l.Receiver, l.Field.Name())
}

type StoreField struct {
	Receiver Operand
	Field    Symbol
	Value    Operand
}

func (*StoreField) Opcode() Opcode        { return OpStoreField }
func (s *StoreField) Operands() []Operand { return []Operand{s.Receiver, s.Value} }

func (s *StoreField) String() string {
	return fmt.Sprintf("store field %s.%s, %s", s.Receiver, s.Field.Name(), s.Value)
}

type LoadElement struct {
	Target  *Register
	Array   Operand
	Indices []Operand
}

func (*LoadElement) Opcode() Opcode { return OpLoadElement }

func (l *LoadElement) Operands() []Operand {
	return append([]Operand{l.Array}, l.Indices...)
}

func (l *LoadElement) Result() *Register { return l.Target }

func (l *LoadElement) String() string {
	return fmt.Sprintf("%s := load element %s[%s]", l.Target, l.Array, operandList(l.Indices))
}

type StoreElement struct {
	Array   Operand
	Indices []Operand
	Value   Operand
}

func (*StoreElement) Opcode() Opcode { return OpStoreElement }

func (s *StoreElement) Operands() []Operand {
	ops := append([]Operand{s.Array}, s.Indices...)
	return append(ops, s.Value)
}

func (s *StoreElement) String() string {
	return fmt.Sprintf("store element %s[%s], %s", s.Array, operandList(s.Indices), s.Value)
}

// AddressOf takes the address of a slot, used for value-type receivers.
type AddressOf struct {
	Target *Register
	Source Slot
}

func (*AddressOf) Opcode() Opcode      { return OpAddressOf }
func (*AddressOf) Operands() []Operand { return nil }
func (a *AddressOf) Result() *Register { return a.Target }
func (a *AddressOf) String() string    { return fmt.Sprintf("%s := address of %s", a.Target, a.Source) }

type Call struct {
	Target    *Register
	Procedure Symbol
	Args      []Operand
}

func (*Call) Opcode() Opcode        { return OpCall }
func (c *Call) Operands() []Operand { return c.Args }
func (c *Call) Result() *Register   { return c.Target }

func (c *Call) String() string {
	return fmt.Sprintf("%s := call %s(%s)", c.Target, c.Procedure.FullName(), operandList(c.Args))
}

type MemberCall struct {
	Target    *Register
	Procedure Symbol
	Receiver  Operand
	Args      []Operand
}

func (*MemberCall) Opcode() Opcode { return OpMemberCall }

func (c *MemberCall) Operands() []Operand {
	return append([]Operand{c.Receiver}, c.Args...)
}

func (c *MemberCall) Result() *Register { return c.Target }

func (c *MemberCall) String() string {
	return fmt.Sprintf("%s := call %s.%s(%s)", c.Target, c.Receiver, c.Procedure.FullName(), operandList(c.Args))
}

type NewObject struct {
	Target      *Register
	Constructor Symbol
	Args        []Operand
}

func (*NewObject) Opcode() Opcode        { return OpNewObject }
func (n *NewObject) Operands() []Operand { return n.Args }
func (n *NewObject) Result() *Register   { return n.Target }

func (n *NewObject) String() string {
	return fmt.Sprintf("%s := new %s(%s)", n.Target, n.Constructor.FullName(), operandList(n.Args))
}

type NewArray struct {
	Target     *Register
	Elem       types.Type
	Dimensions []Operand
}

func (*NewArray) Opcode() Opcode        { return OpNewArray }
func (n *NewArray) Operands() []Operand { return n.Dimensions }
func (n *NewArray) Result() *Register   { return n.Target }

func (n *NewArray) String() string {
	return fmt.Sprintf("%s := new %s[%s]", n.Target, n.Elem, operandList(n.Dimensions))
}

// NewDelegate creates a function value bound to an optional receiver.
type NewDelegate struct {
	Target    *Register
	Procedure Symbol
	Receiver  Operand
}

func (*NewDelegate) Opcode() Opcode { return OpNewDelegate }

func (n *NewDelegate) Operands() []Operand {
	if n.Receiver == nil {
		return nil
	}
	return []Operand{n.Receiver}
}

func (n *NewDelegate) Result() *Register { return n.Target }

func (n *NewDelegate) String() string {
	if n.Receiver == nil {
		return fmt.Sprintf("%s := delegate %s", n.Target, n.Procedure.FullName())
	}
	return fmt.Sprintf("%s := delegate %s.%s", n.Target, n.Receiver, n.Procedure.FullName())
}

type ArrayLength struct {
	Target *Register
	Array  Operand
}

func (*ArrayLength) Opcode() Opcode        { return OpArrayLength }
func (a *ArrayLength) Operands() []Operand { return []Operand{a.Array} }
func (a *ArrayLength) Result() *Register   { return a.Target }
func (a *ArrayLength) String() string      { return fmt.Sprintf("%s := length %s", a.Target, a.Array) }

// Box wraps a value-type operand into a reference of the target register's type.
type Box struct {
	Target *Register
	Value  Operand
}

func (*Box) Opcode() Opcode        { return OpBox }
func (b *Box) Operands() []Operand { return []Operand{b.Value} }
func (b *Box) Result() *Register   { return b.Target }

func (b *Box) String() string {
	return fmt.Sprintf("%s := box %s as %s", b.Target, b.Value, b.Target.Type())
}

// Unbox extracts a value of the target register's type from a reference.
type Unbox struct {
	Target *Register
	Value  Operand
}

func (*Unbox) Opcode() Opcode        { return OpUnbox }
func (u *Unbox) Operands() []Operand { return []Operand{u.Value} }
func (u *Unbox) Result() *Register   { return u.Target }

func (u *Unbox) String() string {
	return fmt.Sprintf("%s := unbox %s as %s", u.Target, u.Value, u.Target.Type())
}

type Unary struct {
	Target  *Register
	Op      token.TokenType
	Operand Operand
}

func (*Unary) Opcode() Opcode        { return OpUnary }
func (u *Unary) Operands() []Operand { return []Operand{u.Operand} }
func (u *Unary) Result() *Register   { return u.Target }
func (u *Unary) String() string      { return fmt.Sprintf("%s := %s %s", u.Target, u.Op, u.Operand) }

type Binary struct {
	Target *Register
	Op     token.TokenType
	Left   Operand
	Right  Operand
}

func (*Binary) Opcode() Opcode        { return OpBinary }
func (b *Binary) Operands() []Operand { return []Operand{b.Left, b.Right} }
func (b *Binary) Result() *Register   { return b.Target }

func (b *Binary) String() string {
	return fmt.Sprintf("%s := %s %s %s", b.Target, b.Left, b.Op, b.Right)
}

func operandString(op Operand) string {
	if op == nil {
		return Void{}.String()
	}
	return op.String()
}

func operandList(ops []Operand) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = operandString(op)
	}
	return strings.Join(parts, ", ")
}
