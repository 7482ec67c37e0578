//go:build tinygo

package core

import "runtime/interrupt"

// Critical runs fn with interrupts disabled. Interrupt handlers update
// encoder counters and latches; readers that need several of those values
// to be mutually consistent read them inside fn.
func Critical(fn func()) {
	state := interrupt.Disable()
	defer interrupt.Restore(state)
	fn()
}
