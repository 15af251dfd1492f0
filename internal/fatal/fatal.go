// Package fatal centralizes the allocator's "every error is fatal" policy
// (spec: out-of-reservation, OS call failure, and internal invariant
// violations are never recovered locally).
//
// This intentionally does not gate on the debug build tag the way
// internal/debug's assertions do: these checks guard conditions that are
// always a programming-logic error in this design (an OS call failing, the
// reservation running out), not merely internal-consistency assertions that
// are expensive to keep checking in a release build.
package fatal

import "fmt"

// OnError aborts the process if err is non-nil, tagging it with the failing
// operation (e.g. "mmap", "mprotect", "madvise").
func OnError(op string, err error) {
	if err != nil {
		panic(fmt.Errorf("elasticheap: %s failed: %w", op, err))
	}
}

// OutOfMemory aborts the process. Called when the page manager's
// reservation is exhausted.
func OutOfMemory(reason string) {
	panic(fmt.Errorf("elasticheap: out of memory: %s", reason))
}

// TooLarge aborts the process. Called when a request exceeds the largest
// size class; this engine has no large-object tier.
func TooLarge(n int) {
	panic(fmt.Errorf("elasticheap: request of %d bytes exceeds the largest size class", n))
}
