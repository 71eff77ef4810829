//go:build rp2040

package main

import (
	"machine"

	"penplotter/core"
)

// RP2040GPIODriver implements core.GPIODriver directly over TinyGo's
// machine.Pin, with no software debouncing or interrupt wiring: the
// stepper-driver enable line, the only pin this firmware drives through
// it, needs plain digital output and nothing more.
type RP2040GPIODriver struct{}

func NewRP2040GPIODriver() *RP2040GPIODriver {
	return &RP2040GPIODriver{}
}

func (d *RP2040GPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (d *RP2040GPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

func (d *RP2040GPIODriver) ConfigureInputPullDown(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	return nil
}

func (d *RP2040GPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machine.Pin(pin).Set(value)
	return nil
}

func (d *RP2040GPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	return machine.Pin(pin).Get(), nil
}

func (d *RP2040GPIODriver) ReadPin(pin core.GPIOPin) bool {
	return machine.Pin(pin).Get()
}
