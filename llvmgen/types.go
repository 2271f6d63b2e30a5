package llvmgen

import (
	"tinygo.org/x/go-llvm"

	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/types"
)

// typeMapper translates IR types. Value-type classes become named structs and
// everything with reference semantics is an opaque pointer.
type typeMapper struct {
	ctx     llvm.Context
	layouts map[*types.Named]llvm.Type
}

func newTypeMapper(ctx llvm.Context) *typeMapper {
	return &typeMapper{ctx: ctx, layouts: make(map[*types.Named]llvm.Type)}
}

func (m *typeMapper) ptr() llvm.Type {
	return llvm.PointerType(m.ctx.Int8Type(), 0)
}

func (m *typeMapper) llvmType(t types.Type) llvm.Type {
	switch t := t.(type) {
	case types.Unit, types.Never:
		return m.ctx.VoidType()
	case types.Bool:
		return m.ctx.Int1Type()
	case types.Int:
		return m.ctx.IntType(int(t.Width))
	case types.Float:
		switch t.Width {
		case 32:
			return m.ctx.FloatType()
		case 64:
			return m.ctx.DoubleType()
		}
		contract.Failf("unsupported float width: %d", t.Width)
	case *types.Named:
		if !t.Value {
			return m.ptr()
		}
		layout, ok := m.layouts[t]
		contract.Assertf(ok, "value type %s has no layout", t)
		return layout
	case types.Str, types.Object, types.Array, types.Func, types.Ptr, *types.TypeParam:
		return m.ptr()
	default:
		contract.Failf("no LLVM type for %v", t)
	}
	return llvm.Type{}
}

// isVoid reports whether values of t have no runtime representation.
func isVoid(t types.Type) bool {
	k := t.Kind()
	return k == types.UnitKind || k == types.NeverKind
}

func isSigned(t types.Type) bool {
	i, ok := t.(types.Int)
	return ok && !i.Unsigned
}
