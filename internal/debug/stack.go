package debug

import (
	"fmt"
	"path"
	"runtime"
	"strings"
)

// callerSkip is the number of frames Assert's panic message skips by
// default: runtime.Callers itself, Stack, CallerStack, and Assert, landing
// the trace on the allocation or deallocation call site that tripped the
// assertion.
const callerSkip = 4

// Stack is like [runtime/debug.Stack], but with a skip parameter and an
// easier to read format: one "name() 0xADDR+0xOFF file:line" line per frame.
func Stack(skip int) string {
	var out strings.Builder

	trace := make([]uintptr, 32)
	for {
		n := runtime.Callers(skip, trace)
		if n < len(trace) {
			trace = trace[:n]
			break
		}
		trace = make([]uintptr, len(trace)*2)
	}

	frames := runtime.CallersFrames(trace)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&out,
			"- %-24v 0x%x+0x%-4x %v:%v\n",
			path.Base(frame.Function)+"()", frame.Entry, frame.PC-frame.Entry,
			frame.File, frame.Line,
		)

		if !more {
			break
		}
	}

	return out.String()
}

// CallerStack dumps a trace starting at the call site that tripped an
// assertion, skipping the frames internal to this package's own helpers.
func CallerStack() string {
	return Stack(callerSkip)
}
