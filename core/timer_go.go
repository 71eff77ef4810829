//go:build !tinygo

package core

// On the host the tick counter is a plain variable: tests and the
// simulator loop run on one goroutine, so no atomics are needed.

func getSystemTicks() uint32 {
	return systemTicks
}

func setSystemTicks(ticks uint32) {
	systemTicks = ticks
}
