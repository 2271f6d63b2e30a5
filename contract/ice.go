package contract

import "fmt"

// ICEKind classifies an internal compiler error.
type ICEKind int

const (
	// Invariant is a generic broken precondition or assertion.
	Invariant ICEKind = iota
	// ShouldHaveBeenLowered marks a high-level node that reached code generation.
	ShouldHaveBeenLowered
	// IllegalNode marks a node that is not a value in the position it was found.
	IllegalNode
	// UnsupportedPattern marks a match pattern the lowering cannot test.
	UnsupportedPattern
	// CapturedLocal marks an extracted local function reading a local of its parent.
	CapturedLocal
)

var iceKindNames = [...]string{
	Invariant:             "invariant violated",
	ShouldHaveBeenLowered: "should have been lowered",
	IllegalNode:           "illegal node",
	UnsupportedPattern:    "unsupported pattern",
	CapturedLocal:         "captured local",
}

func (k ICEKind) String() string {
	if k >= 0 && int(k) < len(iceKindNames) {
		return iceKindNames[k]
	}
	return fmt.Sprintf("ice(%d)", int(k))
}

// InternalError is the panic value of every internal compiler error raised by the backend.
type InternalError struct {
	Kind ICEKind
	Node string // kind name of the offending node, if any
	Msg  string
}

func (e *InternalError) Error() string {
	switch {
	case e.Node != "" && e.Msg != "":
		return fmt.Sprintf("internal compiler error: %v: %s: %s", e.Kind, e.Node, e.Msg)
	case e.Node != "":
		return fmt.Sprintf("internal compiler error: %v: %s", e.Kind, e.Node)
	case e.Msg != "":
		return fmt.Sprintf("internal compiler error: %v: %s", e.Kind, e.Msg)
	default:
		return fmt.Sprintf("internal compiler error: %v", e.Kind)
	}
}

// Lowered reports that a node of the given kind survived to code generation.
func Lowered(node string) {
	raise(&InternalError{Kind: ShouldHaveBeenLowered, Node: node})
}

// Illegal reports a node that has no value in the position it was compiled in.
func Illegal(node string) {
	raise(&InternalError{Kind: IllegalNode, Node: node})
}

// Unsupported reports a match pattern kind with no lowering.
func Unsupported(pattern string) {
	raise(&InternalError{Kind: UnsupportedPattern, Node: pattern})
}

// Captured reports a local referenced outside the function that declares it.
func Captured(local string) {
	raise(&InternalError{Kind: CapturedLocal, Msg: local})
}

// Recover converts an in-flight internal error panic into an error. Other panics propagate.
// It must be called directly from a deferred function.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ice, ok := r.(*InternalError); ok {
		*err = ice
		return
	}
	panic(r)
}
