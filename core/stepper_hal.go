package core

// StepperBackend is the per-axis pulse seam between the kinematics core
// and the platform. The core decides direction anew before every raw step,
// so implementations only ever see single-pulse requests; a backend is
// free to generate the pulse in hardware (PIO) or bit-bang it, as long as
// the step-low/high timing is handled internally.
type StepperBackend interface {
	// Init claims the step/dir pin pair, with optional polarity
	// inversion for drivers wired active-low.
	Init(stepPin, dirPin uint8, invertStep, invertDir bool) error

	// Step emits one pulse at the current direction. Called from the
	// paced hot loop, so it must not block longer than the pulse
	// itself.
	Step()

	// SetDirection latches the direction for subsequent Steps, honoring
	// the driver's dir-to-step setup time.
	// dir: true = reverse, false = forward.
	SetDirection(dir bool)

	// Stop immediately halts any in-flight pulse generation.
	Stop()

	// GetName identifies the backend in diagnostics.
	GetName() string
}

// StepperBackendInfo describes a backend's timing characteristics for
// diagnostics.
type StepperBackendInfo struct {
	Name          string
	MaxStepRate   uint32 // maximum steps/second per axis
	MinPulseNs    uint32 // minimum step pulse width (ns)
	TypicalJitter uint32 // typical timing jitter (ns)
	CPUOverhead   uint8  // CPU overhead percentage (0-100)
}
