//go:build rp2040

package main

import (
	"machine"

	"penplotter/core"
)

// pwmPeripheral abstracts over TinyGo's unexported *pwmGroup type so
// RP2040PWMDriver can be built and tested without it.
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// RP2040PWMDriver implements core.PWMDriver over the RP2040's 8 hardware
// PWM slices, 2 channels each. GetMaxValue reflects the most recently
// configured slice's period, which is fine for this firmware's single
// pen-servo PWM pin.
type RP2040PWMDriver struct {
	slices      map[uint8]uint64
	channels    map[uint32]uint8
	peripherals map[uint8]pwmPeripheral
	lastTop     uint32
}

// NewRP2040PWMDriver creates an RP2040 PWM driver with no slices configured.
func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		slices:      make(map[uint8]uint64),
		channels:    make(map[uint32]uint8),
		peripherals: make(map[uint8]pwmPeripheral),
	}
}

func (d *RP2040PWMDriver) GetMaxValue() uint32 { return d.lastTop }

// ConfigureHardwarePWM maps pin to its RP2040 PWM slice (N>>1 mod 8) and
// channel (N&1), configuring the slice's period from cycleTicks.
func (d *RP2040PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, cycleTicks uint32) (uint32, error) {
	pinNum := uint32(pin)
	sliceNum := uint8((pinNum >> 1) & 0x7)

	pwm, exists := d.peripherals[sliceNum]
	if !exists {
		pwm = d.getPWMPeripheral(sliceNum)
		d.peripherals[sliceNum] = pwm
	}

	// Timer ticks run at core.TimerFreq (1MHz); convert to nanoseconds.
	period := (uint64(cycleTicks) * 1000000000) / core.TimerFreq

	if err := pwm.Configure(machine.PWMConfig{Period: period}); err != nil {
		return 0, err
	}

	channel, err := pwm.Channel(machine.Pin(pinNum))
	if err != nil {
		return 0, err
	}

	d.slices[sliceNum] = period
	d.channels[pinNum] = channel
	d.lastTop = pwm.Top()

	return cycleTicks, nil
}

func (d *RP2040PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	pinNum := uint32(pin)

	channel, exists := d.channels[pinNum]
	if !exists {
		return nil
	}
	sliceNum := uint8((pinNum >> 1) & 0x7)
	pwm, exists := d.peripherals[sliceNum]
	if !exists {
		return nil
	}

	pwm.Set(channel, uint32(value))
	return nil
}

// DisablePWM drops the pin's channel mapping; the slice stays configured
// since other pins may share it.
func (d *RP2040PWMDriver) DisablePWM(pin core.PWMPin) error {
	delete(d.channels, uint32(pin))
	return nil
}

func (d *RP2040PWMDriver) getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return machine.PWM0
	}
}
