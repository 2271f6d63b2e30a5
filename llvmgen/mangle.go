package llvmgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thiremani/irgen/contract"
	"github.com/thiremani/irgen/types"
)

// Symbol names are a prefix, the length-prefixed path segments and one code
// per parameter type:
//
//	Ir_ { <len><segment> } { $<type> }
const (
	PREFIX = "Ir_"
	SEP    = "$"
)

// MangleIdent length-prefixes name. Bytes outside [A-Za-z0-9_] are written as
// $XX and the length counts the escaped form, so every result reads back
// unambiguously.
func MangleIdent(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isIdentByte(c) {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "$%02X", c)
	}
	escaped := sb.String()
	return strconv.Itoa(len(escaped)) + escaped
}

func isIdentByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// ManglePath mangles a module, class or member path.
func ManglePath(segments ...string) string {
	var sb strings.Builder
	sb.WriteString(PREFIX)
	for _, s := range segments {
		sb.WriteString(MangleIdent(s))
	}
	return sb.String()
}

// Mangle names a procedure by its path and parameter types, so overloads that
// share a path stay distinct.
func Mangle(path []string, params []types.Type) string {
	var sb strings.Builder
	sb.WriteString(ManglePath(path...))
	for _, p := range params {
		sb.WriteString(SEP)
		sb.WriteString(MangleType(p))
	}
	return sb.String()
}

// MangleType encodes t. Every code starts with a letter, so codes can be
// concatenated without separators.
func MangleType(t types.Type) string {
	switch t := t.(type) {
	case types.Unit:
		return "v"
	case types.Never:
		return "z"
	case types.Bool:
		return "b"
	case types.Int:
		if t.Unsigned {
			return "u" + strconv.Itoa(int(t.Width))
		}
		return "i" + strconv.Itoa(int(t.Width))
	case types.Float:
		return "f" + strconv.Itoa(int(t.Width))
	case types.Str:
		return "s"
	case types.Object:
		return "o"
	case types.Array:
		rank := t.Rank
		if rank < 1 {
			rank = 1
		}
		return "A" + strconv.Itoa(rank) + MangleType(t.Elem)
	case types.Func:
		code := "F" + strconv.Itoa(len(t.Params))
		for _, p := range t.Params {
			code += MangleType(p)
		}
		return code + MangleType(t.Return)
	case types.Ptr:
		return "P" + MangleType(t.Elem)
	case *types.Named:
		return "N" + MangleIdent(t.Name)
	case *types.TypeParam:
		return "T" + MangleIdent(t.Name)
	}
	contract.Failf("cannot mangle type %v", t)
	return ""
}
