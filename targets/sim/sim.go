// Package sim is a pure-Go, hardware-free implementation of the firmware's
// GPIODriver, PWMDriver and StepperBackend interfaces, plus a monotonic
// microsecond Clock. It backs the host simulator binary and is also handy
// for integration tests that want a full Controller without TinyGo.
package sim

import (
	"time"

	"penplotter/core"
)

// GPIO is an in-memory GPIODriver: it records each pin's level without
// touching any hardware.
type GPIO struct {
	pins map[core.GPIOPin]bool
}

// NewGPIO creates an empty simulated GPIO bank.
func NewGPIO() *GPIO {
	return &GPIO{pins: make(map[core.GPIOPin]bool)}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error        { return nil }
func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error   { return nil }
func (g *GPIO) ConfigureInputPullDown(pin core.GPIOPin) error { return nil }

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.pins[pin] = value
	return nil
}

func (g *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	return g.pins[pin], nil
}

func (g *GPIO) ReadPin(pin core.GPIOPin) bool {
	return g.pins[pin]
}

// PWM is an in-memory PWMDriver: SetDutyCycle just records the last value
// written to each pin, which tests can inspect via Duty.
type PWM struct {
	Max  uint32
	duty map[core.PWMPin]core.PWMValue
}

// NewPWM creates a simulated PWM bank with the given maximum duty value.
func NewPWM(max uint32) *PWM {
	return &PWM{Max: max, duty: make(map[core.PWMPin]core.PWMValue)}
}

func (p *PWM) ConfigureHardwarePWM(pin core.PWMPin, cycleTicks uint32) (uint32, error) {
	return cycleTicks, nil
}

func (p *PWM) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	p.duty[pin] = value
	return nil
}

func (p *PWM) GetMaxValue() uint32 { return p.Max }

func (p *PWM) DisablePWM(pin core.PWMPin) error {
	delete(p.duty, pin)
	return nil
}

// Duty returns the last duty cycle value written to pin.
func (p *PWM) Duty(pin core.PWMPin) core.PWMValue { return p.duty[pin] }

// Stepper is a StepperBackend that counts pulses instead of toggling a
// physical pin, recording the direction of each one for assertions.
type Stepper struct {
	Name      string
	Steps     int
	Reversed  int
	Direction bool

	// OnStep, if set, is called after every simulated pulse.
	OnStep func(dir bool)
}

// NewStepper creates a simulated stepper backend identified by name (used
// only for diagnostics).
func NewStepper(name string) *Stepper {
	return &Stepper{Name: name}
}

func (s *Stepper) Init(stepPin, dirPin uint8, invertStep, invertDir bool) error {
	return nil
}

func (s *Stepper) Step() {
	s.Steps++
	if s.Direction {
		s.Reversed++
	}
	if s.OnStep != nil {
		s.OnStep(s.Direction)
	}
}

func (s *Stepper) SetDirection(dir bool) { s.Direction = dir }

func (s *Stepper) Stop() {}

func (s *Stepper) GetName() string { return s.Name }

// Clock drives core's global microsecond clock from the host's monotonic
// wall clock. Sync must be called once per main-loop iteration so
// core.Micros()/core.Millis() track real elapsed time.
type Clock struct {
	start time.Time
}

// NewClock starts a Clock whose epoch is the current instant.
func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

// Sync pushes the current elapsed time into core's global clock.
func (c *Clock) Sync() {
	core.SetTime(uint32(time.Since(c.start).Microseconds()))
}
