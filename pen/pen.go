// Package pen drives the plotter's lift servo through an eased trajectory
// and gates motion on the servo having settled.
package pen

import "penplotter/core"

// Mode is the pen's logical state.
type Mode uint8

const (
	Up Mode = iota
	Down
	Custom
)

func (m Mode) String() string {
	switch m {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "custom"
	}
}

// Servo angles and settle timing for the stock pen lift assembly.
const (
	UpAngle   = 15
	DownAngle = 76

	EaseMillis   = 500
	SettleMillis = 100
)

// Actuator drives one PWM-controlled servo through a cubic ease-out curve
// and reports when the servo has had time to physically settle.
type Actuator struct {
	pwm core.PWMDriver
	pin core.PWMPin

	// UpAngle, DownAngle, EaseMillis and SettleMillis default to the
	// package constants of the same name but may be overridden per
	// actuator, e.g. from a loaded MachineConfig.
	UpAngle, DownAngle         int
	EaseMillis, SettleMillis   uint32

	// OnTransition, if set, is called on every Set, and whenever Up or
	// Down actually changes the servo's logical mode (never on a no-op Up
	// or Down). angle is only meaningful when mode is Custom.
	OnTransition func(mode Mode, angle int)

	mode Mode

	start int    // angle the servo was at when the current ease began
	delta int    // signed change commanded by the current ease
	since uint32 // millis() timestamp the ease began

	live int // last angle actually written to the PWM pin

	canMove bool
}

// New creates a pen actuator bound to the given PWM pin. Init must be
// called before use.
func New(pwm core.PWMDriver, pin core.PWMPin) *Actuator {
	return &Actuator{
		pwm: pwm, pin: pin, mode: Custom,
		UpAngle: UpAngle, DownAngle: DownAngle,
		EaseMillis: EaseMillis, SettleMillis: SettleMillis,
	}
}

// Init configures the PWM pin, drives the servo to angle 0, and raises the
// pen.
func (a *Actuator) Init() error {
	if _, err := a.pwm.ConfigureHardwarePWM(a.pin, core.TimerFromUS(20000)); err != nil {
		return err
	}
	a.start = 0
	a.live = 0
	a.mode = Custom
	if err := a.write(0); err != nil {
		return err
	}
	a.Up()
	return nil
}

// angleAt returns the eased servo angle t milliseconds after the current
// target was set, per the cubic ease-out
//
//	angle = start + delta*(1 - ((EASE-t)/EASE)^3)   for t in [0, EASE]
//	angle = start + delta                            for t > EASE
func (a *Actuator) angleAt(t uint32) int {
	if t >= a.EaseMillis {
		return a.start + a.delta
	}

	remaining := int64(a.EaseMillis - t)
	denom := int64(a.EaseMillis) * int64(a.EaseMillis) * int64(a.EaseMillis)
	coeff := denom - remaining*remaining*remaining

	return a.start + int(coeff*int64(a.delta)/denom)
}

// setTarget begins a new ease from the servo's last commanded angle toward
// v, capturing the start time for angleAt/ReadyToMove.
func (a *Actuator) setTarget(v int) {
	a.start = a.live
	a.delta = v - a.live
	a.since = core.Millis()
	a.canMove = false
}

// write pushes an angle in degrees (0-180) to the PWM pin, and remembers it
// as the servo's live angle.
func (a *Actuator) write(angleDeg int) error {
	a.live = angleDeg
	maxVal := a.pwm.GetMaxValue()
	// Hobby servo pulse: 1ms (0 deg) .. 2ms (180 deg) within a 20ms period.
	dutyUs := 1000 + (angleDeg*1000)/180
	value := core.PWMValue((uint32(dutyUs) * maxVal) / 20000)
	return a.pwm.SetDutyCycle(a.pin, value)
}

// Up raises the pen. A no-op, without restarting the ease, if the pen is
// already up.
func (a *Actuator) Up() {
	if a.mode == Up {
		return
	}
	a.setTarget(a.UpAngle)
	a.mode = Up
	a.notify()
}

// Down lowers the pen. A no-op, without restarting the ease, if the pen is
// already down.
func (a *Actuator) Down() {
	if a.mode == Down {
		return
	}
	a.setTarget(a.DownAngle)
	a.mode = Down
	a.notify()
}

// Set drives the servo to an arbitrary raw angle, leaving the logical mode
// as Custom (neither Up nor Down).
func (a *Actuator) Set(angleDeg int) {
	a.setTarget(angleDeg)
	a.mode = Custom
	a.notify()
}

func (a *Actuator) notify() {
	if a.OnTransition != nil {
		a.OnTransition(a.mode, a.delta+a.start)
	}
}

// Mode reports the pen's current logical mode.
func (a *Actuator) Mode() Mode {
	return a.mode
}

// ReadyToMove reports whether the ease (plus mechanical settle time) has
// completed. As a side effect it re-emits the live eased position to the
// servo so the ease actually drives the hardware; callers must poll this
// on every step attempt, not just once.
func (a *Actuator) ReadyToMove() bool {
	if !a.canMove {
		elapsed := core.ElapsedSince(core.Millis(), a.since)
		_ = a.write(a.angleAt(elapsed))
		if elapsed >= a.EaseMillis+a.SettleMillis {
			a.canMove = true
		}
	}
	return a.canMove
}
