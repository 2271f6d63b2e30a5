package codegen

import "github.com/thiremani/irgen/contract"

type ScopeKind int

const (
	FuncScope ScopeKind = iota
	BlockScope
)

// Scope maps bound symbols to the IR slots they were given in one lexical level.
type Scope[K comparable, V any] struct {
	Elems     map[K]V
	ScopeKind ScopeKind
}

func NewScope[K comparable, V any](sk ScopeKind) Scope[K, V] {
	return Scope[K, V]{
		Elems:     make(map[K]V),
		ScopeKind: sk,
	}
}

func PushScope[K comparable, V any](scopes *[]Scope[K, V], sk ScopeKind) {
	*scopes = append(*scopes, NewScope[K, V](sk))
}

func PopScope[K comparable, V any](scopes *[]Scope[K, V]) {
	contract.Assertf(len(*scopes) > 1, "cannot pop function scope")
	*scopes = (*scopes)[:len(*scopes)-1]
}

func Put[K comparable, V any](scopes []Scope[K, V], key K, elem V) {
	scopes[len(scopes)-1].Elems[key] = elem
}

// Get searches from the innermost scope outward and stops at the nearest function
// scope, so a miss means the symbol belongs to an enclosing function.
func Get[K comparable, V any](scopes []Scope[K, V], key K) (V, bool) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if e, ok := scopes[i].Elems[key]; ok {
			return e, true
		}
		if scopes[i].ScopeKind == FuncScope {
			break
		}
	}

	var zero V
	return zero, false
}
