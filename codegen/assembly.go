package codegen

import (
	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/types"
)

// EntryConvention selects which root-module function becomes the entry point.
type EntryConvention int

const (
	NoEntry EntryConvention = iota
	ProgramEntry            // a function named main
	ScriptEntry             // the synthesized <script> function
)

func (c EntryConvention) entryName() string {
	switch c {
	case ProgramEntry:
		return ir.ProgramEntryName
	case ScriptEntry:
		return ir.ScriptEntryName
	}
	return ""
}

type Options struct {
	// Name of the produced assembly.
	Name  string
	Mvid  uuid.UUID
	Entry EntryConvention

	// EmitSequencePoints injects debugger stops before lowering.
	EmitSequencePoints bool
	// Verify runs ir.Verify on every procedure and fails on the first malformed one.
	Verify             bool

	// WellKnown runtime symbols used by lowering. Required.
	WellKnown   *bound.WellKnown
	// IsValueType decides boxing. Defaults to types.IsValueType.
	IsValueType func(types.Type) bool
}

// MvidFor returns the module version id of an assembly. Deterministic builds
// derive it from the name so that identical inputs give identical output.
func MvidFor(name string, deterministic bool) uuid.UUID {
	if deterministic {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
	}
	return uuid.New()
}

// GenerateAssembly compiles the module tree rooted at root. Internal compiler
// errors raised anywhere below are returned as *contract.InternalError.
func GenerateAssembly(root *bound.Module, opts Options) (asm *ir.Assembly, err error) {
	defer contract.Recover(&err)
	contract.Requiref(root != nil, "root", "must not be nil")
	contract.Requiref(opts.WellKnown != nil, "opts.WellKnown", "must not be nil")
	if opts.IsValueType == nil {
		opts.IsValueType = types.IsValueType
	}

	asm = ir.NewAssembly(opts.Name, opts.Mvid)
	asm.Root.Symbol = root
	g := &generator{opts: opts}
	g.compileModule(asm.Root, root)

	if name := opts.Entry.entryName(); name != "" {
		asm.EntryPoint = findEntry(asm.Root, name)
		if asm.EntryPoint == nil {
			glog.Warningf("codegen: %s: no %q function, assembly has no entry point", asm.Name, name)
		}
	}
	glog.V(1).Infof("codegen: generated %s with %d modules", asm.Name, len(asm.Modules()))
	return asm, nil
}

func findEntry(root *ir.Module, name string) *ir.Procedure {
	for _, p := range root.Procedures() {
		if p.Symbol != nil && p.Symbol.Name() == name {
			return p
		}
	}
	return nil
}
