// Package trace captures call stacks for error reports.
package trace

import (
	"fmt"

	"github.com/go-stack/stack"
)

// Trace returns the call stack of the caller, without runtime frames.
// Index 0 is the function that called Trace.
func Trace() stack.CallStack {
	cs := stack.Trace().TrimRuntime()
	if len(cs) > 0 {
		cs = cs[1:]
	}
	return cs
}

// Format renders a call stack one frame per line as "pkg/file.go:42 func".
func Format(cs stack.CallStack) string {
	var s string
	for _, c := range cs {
		s += fmt.Sprintf("%+v %n\n", c, c)
	}
	return s
}
