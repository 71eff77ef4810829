//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts around schedule mutation, returning
// the previous mask for restoreInterrupts.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
