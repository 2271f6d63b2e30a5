package ir

import (
	"github.com/google/uuid"

	"github.com/thiremani/irgen/types"
)

// Well-known procedure names.
const (
	GlobalInitializerName = "<global initializer>"
	ProgramEntryName      = "main"
	ScriptEntryName       = "<script>"
)

// Assembly is the unit handed to the final encoder.
type Assembly struct {
	Name       string
	Mvid       uuid.UUID
	Root       *Module
	EntryPoint *Procedure
}

func NewAssembly(name string, mvid uuid.UUID) *Assembly {
	return &Assembly{
		Name: metadataName(name),
		Mvid: mvid,
		Root: newModule(name, nil, nil),
	}
}

// Modules returns every module in the assembly, root first, in definition order.
func (a *Assembly) Modules() []*Module {
	var out []*Module
	var walk func(m *Module)
	walk = func(m *Module) {
		out = append(out, m)
		for _, sub := range m.Submodules {
			walk(sub)
		}
	}
	walk(a.Root)
	return out
}

// LookupProcedure finds the procedure compiled for sym anywhere in the assembly.
func (a *Assembly) LookupProcedure(sym Symbol) (*Procedure, bool) {
	for _, m := range a.Modules() {
		if p, ok := m.Procedure(sym); ok {
			return p, true
		}
		for _, c := range m.Classes {
			if p, ok := c.Procedure(sym); ok {
				return p, true
			}
		}
	}
	return nil, false
}

// procTable keeps procedures in insertion order, indexed by their defining symbol.
type procTable struct {
	procs    []*Procedure
	bySymbol map[Symbol]*Procedure
}

// DefineProcedure returns the procedure for sym, creating it on first use.
func (t *procTable) DefineProcedure(sym Symbol, ret types.Type) *Procedure {
	if p, ok := t.bySymbol[sym]; ok {
		return p
	}
	if t.bySymbol == nil {
		t.bySymbol = make(map[Symbol]*Procedure)
	}
	p := NewProcedure(sym.FullName(), sym, ret)
	t.procs = append(t.procs, p)
	t.bySymbol[sym] = p
	return p
}

func (t *procTable) Procedure(sym Symbol) (*Procedure, bool) {
	p, ok := t.bySymbol[sym]
	return p, ok
}

func (t *procTable) Procedures() []*Procedure {
	return t.procs
}

// Module mirrors one source module.
type Module struct {
	procTable
	Name       string
	Symbol     Symbol
	Parent     *Module
	Submodules []*Module
	Classes    []*Class
	Fields     []*Field
	Properties []*Property

	globalInit *Procedure
}

func newModule(name string, sym Symbol, parent *Module) *Module {
	return &Module{Name: metadataName(name), Symbol: sym, Parent: parent}
}

// DefineModule appends a nested module for sym.
func (m *Module) DefineModule(sym Symbol) *Module {
	sub := newModule(sym.Name(), sym, m)
	m.Submodules = append(m.Submodules, sub)
	return sub
}

func (m *Module) DefineClass(sym Symbol, typ types.Type) *Class {
	c := &Class{Name: metadataName(sym.Name()), Symbol: sym, Type: typ, Module: m}
	m.Classes = append(m.Classes, c)
	return c
}

func (m *Module) DefineField(sym Symbol, typ types.Type, static bool) *Field {
	f := &Field{Name: metadataName(sym.Name()), Symbol: sym, Type: typ, Static: static}
	m.Fields = append(m.Fields, f)
	return f
}

func (m *Module) DefineProperty(sym Symbol, getter, setter *Procedure) *Property {
	p := &Property{Name: metadataName(sym.Name()), Symbol: sym, Getter: getter, Setter: setter}
	m.Properties = append(m.Properties, p)
	return p
}

// GlobalInitializer returns the module's initializer procedure, creating it on first use.
func (m *Module) GlobalInitializer() *Procedure {
	if m.globalInit == nil {
		m.globalInit = NewProcedure(GlobalInitializerName, nil, types.UnitType)
	}
	return m.globalInit
}

// HasGlobalInitializer reports whether any field or property initializer was compiled.
func (m *Module) HasGlobalInitializer() bool {
	return m.globalInit != nil
}

// FullName is the dotted path from the root module.
func (m *Module) FullName() string {
	if m.Parent == nil {
		return m.Name
	}
	return m.Parent.FullName() + "." + m.Name
}

// Class is a user-declared type with its fields and compiled methods.
type Class struct {
	procTable
	Name   string
	Symbol Symbol
	Type   types.Type
	Module *Module
	Fields []*Field
}

func (c *Class) DefineField(sym Symbol, typ types.Type, static bool) *Field {
	f := &Field{Name: metadataName(sym.Name()), Symbol: sym, Type: typ, Static: static}
	c.Fields = append(c.Fields, f)
	return f
}

type Field struct {
	Name   string
	Symbol Symbol
	Type   types.Type
	Static bool
}

type Property struct {
	Name   string
	Symbol Symbol
	Getter *Procedure
	Setter *Procedure
}
