package core

// PWMPin identifies a hardware pin capable of PWM output.
type PWMPin uint32

// PWMValue is a duty-cycle value between 0 and the driver's GetMaxValue.
type PWMValue uint32

// PWMDriver is the servo-PWM seam between the pen actuator and the
// platform. The pen needs one channel at the 20ms hobby-servo period; the
// interface reports the configured resolution so duty math can be done in
// the caller's units.
type PWMDriver interface {
	// ConfigureHardwarePWM claims a PWM channel for pin with the given
	// period in timer ticks, returning the period actually achieved
	// (hardware may round it).
	ConfigureHardwarePWM(pin PWMPin, cycleTicks uint32) (uint32, error)

	// SetDutyCycle sets pin's duty between 0 and GetMaxValue().
	SetDutyCycle(pin PWMPin, value PWMValue) error

	// GetMaxValue reports the full-scale duty value for the most
	// recently configured channel.
	GetMaxValue() uint32

	// DisablePWM releases the pin's channel back to GPIO use.
	DisablePWM(pin PWMPin) error
}
