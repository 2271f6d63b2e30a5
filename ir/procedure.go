package ir

import (
	"strconv"

	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/types"
)

// Slot is an addressable storage location of a procedure: a local or a parameter.
type Slot interface {
	Type() types.Type
	String() string
	isSlot()
}

type Parameter struct {
	Index  int
	Name   string
	Symbol Symbol
	typ    types.Type
}

func (p *Parameter) Type() types.Type { return p.typ }
func (p *Parameter) String() string   { return "arg" + strconv.Itoa(p.Index) }
func (*Parameter) isSlot()            {}

type Local struct {
	Index       int
	Name        string
	Symbol      Symbol
	Synthesized bool
	typ         types.Type
}

func (l *Local) Type() types.Type { return l.typ }
func (l *Local) String() string   { return "loc" + strconv.Itoa(l.Index) }
func (*Local) isSlot()            {}

// Procedure is the compiled form of one function.
type Procedure struct {
	Name       string
	Symbol     Symbol
	ReturnType types.Type
	Params     []*Parameter
	Entry      *BasicBlock

	blocks    []*BasicBlock
	registers []*Register
	locals    []*Local
	localsBy  map[Symbol]*Local
	paramsBy  map[Symbol]*Parameter
	nextBlock int
}

func NewProcedure(name string, sym Symbol, ret types.Type) *Procedure {
	p := &Procedure{
		Name:       metadataName(name),
		Symbol:     sym,
		ReturnType: ret,
		localsBy:   make(map[Symbol]*Local),
		paramsBy:   make(map[Symbol]*Parameter),
	}
	p.Entry = p.NewBasicBlock(nil)
	return p
}

func (p *Procedure) DefineParameter(sym Symbol, typ types.Type) *Parameter {
	if param, ok := p.paramsBy[sym]; ok {
		return param
	}
	param := &Parameter{Index: len(p.Params), Name: metadataName(sym.Name()), Symbol: sym, typ: typ}
	p.Params = append(p.Params, param)
	p.paramsBy[sym] = param
	return param
}

func (p *Procedure) Parameter(sym Symbol) (*Parameter, bool) {
	param, ok := p.paramsBy[sym]
	return param, ok
}

// DefineLocal allocates the slot for sym. Defining the same symbol twice returns the first slot.
func (p *Procedure) DefineLocal(sym Symbol, typ types.Type, synthesized bool) *Local {
	if l, ok := p.localsBy[sym]; ok {
		return l
	}
	l := &Local{
		Index:       len(p.locals),
		Name:        metadataName(sym.Name()),
		Symbol:      sym,
		Synthesized: synthesized,
		typ:         typ,
	}
	p.locals = append(p.locals, l)
	p.localsBy[sym] = l
	return l
}

func (p *Procedure) Local(sym Symbol) (*Local, bool) {
	l, ok := p.localsBy[sym]
	return l, ok
}

func (p *Procedure) Locals() []*Local {
	return p.locals
}

func (p *Procedure) DefineRegister(typ types.Type) *Register {
	r := &Register{Index: len(p.registers), typ: typ}
	p.registers = append(p.registers, r)
	return r
}

func (p *Procedure) Registers() []*Register {
	return p.registers
}

// NewBasicBlock creates a block owned by p. It has no index until it is attached.
func (p *Procedure) NewBasicBlock(label Symbol) *BasicBlock {
	return &BasicBlock{Index: -1, Label: label, Procedure: p}
}

// Attach makes b part of the procedure's layout and assigns its dense index.
// Attaching an already attached block is a no-op.
func (p *Procedure) Attach(b *BasicBlock) {
	contract.Requiref(b.Procedure == p, "b", "block belongs to %s, not %s", b.Procedure.Name, p.Name)
	if b.Index >= 0 {
		return
	}
	b.Index = p.nextBlock
	p.nextBlock++
	p.blocks = append(p.blocks, b)
}

// Blocks returns the attached blocks in attachment order.
func (p *Procedure) Blocks() []*BasicBlock {
	return p.blocks
}

type BasicBlock struct {
	Index        int
	Label        Symbol
	Procedure    *Procedure
	Instructions []Instruction
}

func (b *BasicBlock) Name() string {
	if b.Index < 0 {
		return "bb?"
	}
	return "bb" + strconv.Itoa(b.Index)
}

func (b *BasicBlock) InsertLast(instr Instruction) {
	b.Instructions = append(b.Instructions, instr)
}

// Terminator returns the block's final instruction if it is a terminator.
func (b *BasicBlock) Terminator() Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if !last.Opcode().IsTerminator() {
		return nil
	}
	return last
}
