package contract

import "fmt"

const (
	assertMsg  = "An assertion has failed"
	requireMsg = "A precondition has failed for %v"
)

// Assert checks a condition and fails if it is false.
func Assert(cond bool) {
	if !cond {
		raise(&InternalError{Kind: Invariant, Msg: assertMsg})
	}
}

// Assertf checks a condition and fails with a formatted message if it is false.
func Assertf(cond bool, msg string, args ...interface{}) {
	if !cond {
		raise(&InternalError{Kind: Invariant, Msg: fmt.Sprintf("%v: %v", assertMsg, fmt.Sprintf(msg, args...))})
	}
}

// Require checks a precondition pertaining to a function parameter.
func Require(cond bool, param string) {
	if !cond {
		raise(&InternalError{Kind: Invariant, Msg: fmt.Sprintf(requireMsg, param)})
	}
}

// Requiref checks a precondition pertaining to a function parameter and adds a formatted message.
func Requiref(cond bool, param string, msg string, args ...interface{}) {
	if !cond {
		raise(&InternalError{
			Kind: Invariant,
			Msg:  fmt.Sprintf("%v: %v", fmt.Sprintf(requireMsg, param), fmt.Sprintf(msg, args...)),
		})
	}
}
