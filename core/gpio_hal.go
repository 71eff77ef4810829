package core

// GPIOPin identifies a hardware GPIO pin by number.
type GPIOPin uint32

// GPIODriver is the digital-pin seam between the motion core and the
// platform. The plotter uses it for exactly one output, the active-low
// stepper-driver enable line, but the interface covers plain inputs too so
// a target can reuse it for buttons or endstop experiments.
type GPIODriver interface {
	// ConfigureOutput configures pin as a digital output.
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures pin as an input with pull-up.
	ConfigureInputPullUp(pin GPIOPin) error

	// ConfigureInputPullDown configures pin as an input with pull-down.
	ConfigureInputPullDown(pin GPIOPin) error

	// SetPin drives pin high (true) or low (false).
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the pin's current level.
	GetPin(pin GPIOPin) (bool, error)

	// ReadPin reads the pin's current level, swallowing errors; for
	// call sites that have no sensible error path.
	ReadPin(pin GPIOPin) bool
}
