package bound

import (
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/types"
)

// Symbol is the base interface for all resolved declarations.
type Symbol interface {
	Name() string     // the simple name for this symbol.
	FullName() string // the dotted path through its containers.
	String() string
	symbol()
}

var _ ir.Symbol = (Symbol)(nil)

func qualify(container Symbol, name string) string {
	if container == nil {
		return name
	}
	return container.FullName() + "." + name
}

// Module is a source module; Members are kept in declaration order.
type Module struct {
	Nm      string
	Parent  *Module
	Members []Symbol
}

func NewModule(name string, parent *Module) *Module {
	m := &Module{Nm: name, Parent: parent}
	if parent != nil {
		parent.Members = append(parent.Members, m)
	}
	return m
}

func (m *Module) symbol()        {}
func (m *Module) Name() string   { return m.Nm }
func (m *Module) String() string { return m.FullName() }

func (m *Module) FullName() string {
	if m.Parent == nil {
		return m.Nm
	}
	return qualify(m.Parent, m.Nm)
}

// Add appends members and claims them for m.
func (m *Module) Add(members ...Symbol) {
	for _, member := range members {
		setContainer(member, m)
		m.Members = append(m.Members, member)
	}
}

func setContainer(member Symbol, container Symbol) {
	switch s := member.(type) {
	case *Function:
		s.Container = container
	case *Field:
		s.Container = container
	case *Property:
		s.Container = container
		if s.Getter != nil {
			s.Getter.Container = container
		}
		if s.Setter != nil {
			s.Setter.Container = container
		}
		if s.BackingField != nil {
			s.BackingField.Container = container
		}
	case *Class:
		s.Container = container
	case *Module:
		if parent, ok := container.(*Module); ok {
			s.Parent = parent
		}
	}
}

// Class is a user-declared type. Value classes have struct semantics.
type Class struct {
	Nm        string
	Container Symbol
	Type      *types.Named
	Members   []Symbol
}

func NewClass(name string, value bool) *Class {
	return &Class{Nm: name, Type: &types.Named{Name: name, Value: value}}
}

func (c *Class) symbol()            {}
func (c *Class) Name() string       { return c.Nm }
func (c *Class) FullName() string   { return qualify(c.Container, c.Nm) }
func (c *Class) String() string     { return c.FullName() }

func (c *Class) Add(members ...Symbol) {
	for _, member := range members {
		setContainer(member, c)
		c.Members = append(c.Members, member)
	}
}

// Emitter is the view of local codegen handed to inline codegen hooks.
type Emitter interface {
	Write(instr ir.Instruction)
	DefineRegister(typ types.Type) *ir.Register
}

// InlineCodegen emits instructions computing target from already compiled operands.
// It replaces the call a function symbol would otherwise compile to.
type InlineCodegen func(e Emitter, target *ir.Register, args []ir.Operand)

// Function is a resolved function, method, operator, or local function.
type Function struct {
	Nm         string
	Container  Symbol
	Params     []*Parameter
	ReturnType types.Type
	// Body is nil for external and abstract functions.
	Body Statement
	// Static functions take no receiver. Module-level functions are static.
	Static  bool
	Codegen InlineCodegen

	this *Parameter
}

func NewFunction(name string, ret types.Type, params ...*Parameter) *Function {
	f := &Function{Nm: name, ReturnType: ret, Params: params, Static: true}
	for _, p := range params {
		p.Function = f
	}
	return f
}

func (f *Function) symbol()          {}
func (f *Function) Name() string     { return f.Nm }
func (f *Function) FullName() string { return qualify(f.Container, f.Nm) }
func (f *Function) String() string   { return f.FullName() }

// IsVariadic reports whether the last parameter collects trailing arguments.
func (f *Function) IsVariadic() bool {
	return len(f.Params) > 0 && f.Params[len(f.Params)-1].IsVariadic
}

// ReceiverType is the containing class type of an instance method, or nil.
func (f *Function) ReceiverType() types.Type {
	if f.Static {
		return nil
	}
	if c, ok := f.Container.(*Class); ok {
		return c.Type
	}
	return nil
}

// ThisParameter is the implicit receiver parameter of an instance method, or nil.
func (f *Function) ThisParameter() *Parameter {
	if f.this == nil {
		if rt := f.ReceiverType(); rt != nil {
			f.this = &Parameter{Nm: "this", Type: rt, Function: f}
		}
	}
	return f.this
}

func (f *Function) Type() types.Func {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return types.Func{Params: params, Return: f.ReturnType}
}

type Parameter struct {
	Nm         string
	Type       types.Type
	IsVariadic bool
	Function   *Function
}

func NewParameter(name string, typ types.Type) *Parameter {
	return &Parameter{Nm: name, Type: typ}
}

// NewVariadicParameter declares a parameter collecting trailing arguments of elem type.
func NewVariadicParameter(name string, elem types.Type) *Parameter {
	return &Parameter{Nm: name, Type: types.ArrayOf(elem), IsVariadic: true}
}

func (p *Parameter) symbol()          {}
func (p *Parameter) Name() string     { return p.Nm }
func (p *Parameter) FullName() string { return p.Nm }
func (p *Parameter) String() string   { return p.Nm }

type Local struct {
	Nm          string
	Type        types.Type
	Mutable     bool
	Synthesized bool
}

func NewLocal(name string, typ types.Type) *Local {
	return &Local{Nm: name, Type: typ, Mutable: true}
}

// NewSynthesizedLocal creates a compiler-introduced temporary.
func NewSynthesizedLocal(name string, typ types.Type) *Local {
	return &Local{Nm: name, Type: typ, Mutable: true, Synthesized: true}
}

func (l *Local) symbol()          {}
func (l *Local) Name() string     { return l.Nm }
func (l *Local) FullName() string { return l.Nm }
func (l *Local) String() string   { return l.Nm }

// Label is a jump target. Labels are compared by identity.
type Label struct {
	Nm string
}

func NewLabel(name string) *Label {
	return &Label{Nm: name}
}

func (l *Label) symbol()          {}
func (l *Label) Name() string     { return l.Nm }
func (l *Label) FullName() string { return l.Nm }
func (l *Label) String() string   { return l.Nm }

type Field struct {
	Nm        string
	Container Symbol
	Type      types.Type
	Static    bool
	Mutable   bool
	// Initializer runs in the module's global initializer. Only static fields may have one.
	Initializer Expression
}

func NewField(name string, typ types.Type, static bool) *Field {
	return &Field{Nm: name, Type: typ, Static: static, Mutable: true}
}

func (f *Field) symbol()          {}
func (f *Field) Name() string     { return f.Nm }
func (f *Field) FullName() string { return qualify(f.Container, f.Nm) }
func (f *Field) String() string   { return f.FullName() }

// Property pairs accessor functions. Auto-properties store through BackingField.
type Property struct {
	Nm           string
	Container    Symbol
	Type         types.Type
	Static       bool
	Getter       *Function
	Setter       *Function
	BackingField *Field
}

func (p *Property) symbol()          {}
func (p *Property) Name() string     { return p.Nm }
func (p *Property) FullName() string { return qualify(p.Container, p.Nm) }
func (p *Property) String() string   { return p.FullName() }
