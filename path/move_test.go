package path

import (
	"testing"

	"penplotter/core"
	"penplotter/geom"
	"penplotter/kinematics"
	"penplotter/pen"
)

type fakeGPIO struct{ pins map[core.GPIOPin]bool }

func newFakeGPIO() *fakeGPIO { return &fakeGPIO{pins: map[core.GPIOPin]bool{}} }

func (f *fakeGPIO) ConfigureOutput(pin core.GPIOPin) error        { return nil }
func (f *fakeGPIO) ConfigureInputPullUp(pin core.GPIOPin) error   { return nil }
func (f *fakeGPIO) ConfigureInputPullDown(pin core.GPIOPin) error { return nil }
func (f *fakeGPIO) SetPin(pin core.GPIOPin, value bool) error     { f.pins[pin] = value; return nil }
func (f *fakeGPIO) GetPin(pin core.GPIOPin) (bool, error)         { return f.pins[pin], nil }
func (f *fakeGPIO) ReadPin(pin core.GPIOPin) bool                 { return f.pins[pin] }

type fakePWM struct{ max uint32 }

func (f *fakePWM) ConfigureHardwarePWM(pin core.PWMPin, cycleTicks uint32) (uint32, error) {
	return cycleTicks, nil
}
func (f *fakePWM) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error { return nil }
func (f *fakePWM) GetMaxValue() uint32                                     { return f.max }
func (f *fakePWM) DisablePWM(pin core.PWMPin) error                        { return nil }

func readyFixture(t *testing.T) (*kinematics.Core, *pen.Actuator) {
	t.Helper()
	core.SetTime(0)
	p := pen.New(&fakePWM{max: 1000}, 0)
	if err := p.Init(); err != nil {
		t.Fatalf("pen Init: %v", err)
	}
	core.SetTime(1_000_000)
	c := kinematics.New(newFakeGPIO(), 0, p)
	return c, p
}

// advanceClock moves the simulated time forward so in-progress pen eases
// complete instead of gating StepDir forever.
func advanceClock() {
	core.SetTime(core.GetTime() + 10_000)
}

func runMove(t *testing.T, m *Move, c *kinematics.Core, p *pen.Actuator) []string {
	t.Helper()
	var saved kinematics.Saved
	var messages []string
	responder := func(s string) { messages = append(messages, s) }

	for i := 0; i < 200000 && !m.Done(); i++ {
		advanceClock()
		if c.Cur.Eq(c.To) {
			m.Next(c, p, &saved, responder)
		}
		c.StepDir()
	}
	if !m.Done() {
		t.Fatal("move did not complete within step budget")
	}
	return messages
}

func TestLinearMoveReachesDestination(t *testing.T) {
	c, p := readyFixture(t)
	m := LinearMove(geom.Point{X: 0, Y: 0}, geom.Point{X: 200, Y: 50}, 2400, false)

	msgs := runMove(t, &m, c, p)

	if !c.Cur.Eq(geom.Point{X: 200, Y: 50}) {
		t.Errorf("final position = %v, want (200,50)", c.Cur)
	}
	if len(msgs) == 0 || msgs[len(msgs)-1] != "done" {
		t.Errorf("expected a trailing \"done\" response, got %v", msgs)
	}
	if p.Mode() != pen.Up {
		t.Errorf("pen mode = %v, want Up (StayDown=false)", p.Mode())
	}
}

func TestLinearMoveStayDownKeepsPenDown(t *testing.T) {
	c, p := readyFixture(t)
	m := LinearMove(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, 2400, true)

	runMove(t, &m, c, p)

	if p.Mode() != pen.Down {
		t.Errorf("pen mode = %v, want Down (StayDown=true)", p.Mode())
	}
}

func TestBezierMoveReachesDestination(t *testing.T) {
	c, p := readyFixture(t)
	m := BezierMove(
		geom.Point{X: 0, Y: 0},
		geom.Point{X: 50, Y: 100},
		geom.Point{X: 150, Y: 100},
		geom.Point{X: 200, Y: 0},
		2400, false,
	)

	runMove(t, &m, c, p)

	if !c.Cur.Eq(geom.Point{X: 200, Y: 0}) {
		t.Errorf("final position = %v, want (200,0)", c.Cur)
	}
}

func TestBezierEndpointsMatchControlFormula(t *testing.T) {
	from := geom.Point{X: 10, Y: 20}
	to := geom.Point{X: 300, Y: 400}
	c1 := geom.Point{X: 50, Y: 60}
	c2 := geom.Point{X: 250, Y: 260}

	if got := bezierPoint(from, c1, c2, to, 0); !got.Eq(from) {
		t.Errorf("bezierPoint(t=0) = %v, want %v", got, from)
	}
	if got := bezierPoint(from, c1, c2, to, NPT); !got.Eq(to) {
		t.Errorf("bezierPoint(t=NPT) = %v, want %v", got, to)
	}
}

func TestPauseResumeRoundTrip(t *testing.T) {
	c, p := readyFixture(t)
	m := LinearMove(geom.Point{X: 0, Y: 0}, geom.Point{X: 500, Y: 500}, 2400, false)

	var saved kinematics.Saved
	noop := func(string) {}

	m.Next(c, p, &saved, noop) // already at From: starts the segment
	for i := 0; i < 200; i++ {
		advanceClock()
		if c.Cur.Eq(c.To) {
			m.Next(c, p, &saved, noop)
		}
		c.StepDir()
	}

	m.Pause(c, &saved)
	before := c.Cur
	for i := 0; i < 50; i++ {
		c.StepDir()
	}
	if !c.Cur.Eq(before) {
		t.Errorf("position moved while paused: %v -> %v", before, c.Cur)
	}

	m.Resume(c, p, &saved, noop)
	msgs := runMove(t, &m, c, p)
	if !c.Cur.Eq(geom.Point{X: 500, Y: 500}) {
		t.Errorf("final position after resume = %v, want (500,500)", c.Cur)
	}
	_ = msgs
}
