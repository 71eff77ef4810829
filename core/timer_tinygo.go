//go:build tinygo

package core

import "sync/atomic"

// On target the counter may be written from an interrupt while the main
// loop reads it, so both sides go through atomics.

var systemTicksValue uint32

func getSystemTicks() uint32 {
	return atomic.LoadUint32(&systemTicksValue)
}

func setSystemTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicksValue, ticks)
}
