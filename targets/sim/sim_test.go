package sim

import "testing"

func TestGPIORoundTrip(t *testing.T) {
	g := NewGPIO()
	if err := g.ConfigureOutput(1); err != nil {
		t.Fatalf("ConfigureOutput: %v", err)
	}
	if err := g.SetPin(1, true); err != nil {
		t.Fatalf("SetPin: %v", err)
	}
	if !g.ReadPin(1) {
		t.Error("ReadPin(1) = false, want true after SetPin(1, true)")
	}
	if got, _ := g.GetPin(1); !got {
		t.Error("GetPin(1) = false, want true")
	}
}

func TestPWMRecordsLastDuty(t *testing.T) {
	p := NewPWM(1000)
	if _, err := p.ConfigureHardwarePWM(0, 240); err != nil {
		t.Fatalf("ConfigureHardwarePWM: %v", err)
	}
	if err := p.SetDutyCycle(0, 500); err != nil {
		t.Fatalf("SetDutyCycle: %v", err)
	}
	if got := p.Duty(0); got != 500 {
		t.Errorf("Duty(0) = %d, want 500", got)
	}
	if got := p.GetMaxValue(); got != 1000 {
		t.Errorf("GetMaxValue() = %d, want 1000", got)
	}
	if err := p.DisablePWM(0); err != nil {
		t.Fatalf("DisablePWM: %v", err)
	}
	if got := p.Duty(0); got != 0 {
		t.Errorf("Duty(0) after DisablePWM = %d, want 0", got)
	}
}

func TestStepperCountsPulsesAndDirection(t *testing.T) {
	s := NewStepper("x")
	var seen []bool
	s.OnStep = func(dir bool) { seen = append(seen, dir) }

	s.SetDirection(false)
	s.Step()
	s.SetDirection(true)
	s.Step()

	if s.Steps != 2 {
		t.Errorf("Steps = %d, want 2", s.Steps)
	}
	if s.Reversed != 1 {
		t.Errorf("Reversed = %d, want 1", s.Reversed)
	}
	if len(seen) != 2 || seen[0] != false || seen[1] != true {
		t.Errorf("OnStep history = %v, want [false true]", seen)
	}
	if s.GetName() != "x" {
		t.Errorf("GetName() = %q, want \"x\"", s.GetName())
	}
}
