package pen

import (
	"testing"

	"penplotter/core"
)

type fakePWM struct {
	duty core.PWMValue
	max  uint32
}

func newFakePWM() *fakePWM { return &fakePWM{max: 1000} }

func (f *fakePWM) ConfigureHardwarePWM(pin core.PWMPin, cycleTicks uint32) (uint32, error) {
	return cycleTicks, nil
}
func (f *fakePWM) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	f.duty = value
	return nil
}
func (f *fakePWM) GetMaxValue() uint32              { return f.max }
func (f *fakePWM) DisablePWM(pin core.PWMPin) error { return nil }

func TestActuatorNoopWhenSameMode(t *testing.T) {
	core.SetTime(0)
	pwm := newFakePWM()
	a := New(pwm, 0)
	if err := a.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	core.SetTime(1000 * 1000) // well past settle
	if !a.ReadyToMove() {
		t.Fatal("expected ready after settle")
	}

	a.Up() // already up: must not restart the ease
	if !a.ReadyToMove() {
		t.Error("Up() while already up should not restart the ease")
	}
}

func TestActuatorEaseGatesMotion(t *testing.T) {
	core.SetTime(0)
	pwm := newFakePWM()
	a := New(pwm, 0)
	if err := a.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	core.SetTime(1000 * 1000)
	a.ReadyToMove()

	a.Down()
	if a.ReadyToMove() {
		t.Error("expected not ready immediately after Down()")
	}

	core.SetTime(core.Millis()*1000 + (EaseMillis+SettleMillis-1)*1000)
	if a.ReadyToMove() {
		t.Error("expected not ready just before ease+settle elapses")
	}

	core.SetTime(core.Millis()*1000 + 2*1000)
	if !a.ReadyToMove() {
		t.Error("expected ready once ease+settle has elapsed")
	}
	if a.Mode() != Down {
		t.Errorf("Mode() = %v, want Down", a.Mode())
	}
}

func TestAngleAtMonotonic(t *testing.T) {
	core.SetTime(0)
	pwm := newFakePWM()
	a := New(pwm, 0)
	a.Init()
	a.start = UpAngle
	a.delta = DownAngle - UpAngle

	prev := a.angleAt(0)
	for ms := uint32(1); ms <= EaseMillis; ms++ {
		cur := a.angleAt(ms)
		if cur < prev {
			t.Fatalf("angleAt not monotonic at t=%d: %d < %d", ms, cur, prev)
		}
		prev = cur
	}
	if got := a.angleAt(EaseMillis); got != DownAngle {
		t.Errorf("angleAt(EASE) = %d, want %d", got, DownAngle)
	}
}
