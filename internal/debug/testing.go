package debug

import (
	"testing"

	"github.com/timandy/routine"
)

// tls holds the test handle that debug-build trace logging reports
// through, keyed per goroutine so concurrent tests sharing this package
// never clobber each other's logger.
var tls = routine.NewThreadLocal[testing.TB]()

// WithTesting routes this goroutine's debug trace output through t.Log
// instead of stderr for the duration of the calling test, restoring the
// previous logger (if any) when the returned func is invoked. The allocator
// tests install it for every test so a failing assertion's trace lands in
// the right test's output.
func WithTesting(t testing.TB) func() {
	t.Helper()

	prev := tls.Get()
	tls.Set(t)
	return func() {
		tls.Set(prev)
	}
}
