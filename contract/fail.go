package contract

import (
	"fmt"

	"github.com/golang/glog"
)

const failMsg = "A failure has occurred"

// Failf unconditionally abandons the current compilation, formatting and logging the given message.
func Failf(msg string, args ...interface{}) {
	raise(&InternalError{Kind: Invariant, Msg: fmt.Sprintf("%v: %v", failMsg, fmt.Sprintf(msg, args...))})
}

// raise logs and panics with ice so the driver can recover it at the compilation-unit boundary.
func raise(ice *InternalError) {
	if glog.V(1) {
		glog.Errorf("%v", ice)
	}
	panic(ice)
}
