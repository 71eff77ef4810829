package control

import (
	"strings"
	"testing"

	"penplotter/core"
	"penplotter/geom"
	"penplotter/kinematics"
	"penplotter/pen"
	"penplotter/targets/sim"
)

// output collects every line the controller emits so tests can assert on
// the serial conversation after the fact.
type output struct {
	lines []string
}

func (o *output) emit(s string) { o.lines = append(o.lines, s) }

func (o *output) count(want string) int {
	n := 0
	for _, l := range o.lines {
		if l == want {
			n++
		}
	}
	return n
}

func newFixture(t *testing.T) (*Controller, *output) {
	t.Helper()
	core.SetTime(0)

	gpio := sim.NewGPIO()
	pwm := sim.NewPWM(1000)
	p := pen.New(pwm, 0)
	if err := p.Init(); err != nil {
		t.Fatalf("pen Init: %v", err)
	}
	core.SetTime(1_000_000) // past ease+settle before the first Tick

	k := kinematics.New(gpio, 0, p)
	stepX := sim.NewStepper("x")
	stepY := sim.NewStepper("y")

	out := &output{}
	c := New(k, stepX, stepY, out.emit)
	return c, out
}

// tick advances the simulated clock past the longest per-step delay the
// core ever uses, so neither step pacing nor the pen ease stalls on wall
// time, then runs one loop iteration.
func tick(c *Controller) {
	core.SetTime(core.GetTime() + kinematics.DefaultDelayUS)
	c.Tick()
}

// runUntil ticks the controller until cur reaches the move's final target
// or the tick budget is exhausted.
func runUntil(t *testing.T, c *Controller, target geom.Point, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if c.K.Cur.Eq(target) && c.Move.Done() && c.Queue.Empty() {
			return
		}
		tick(c)
	}
	t.Fatalf("did not reach %v within %d ticks (at %v)", target, maxTicks, c.K.Cur)
}

func TestStraightLineEndToEnd(t *testing.T) {
	c, out := newFixture(t)
	c.Start()
	c.Feed([]byte("l 0,0 100,0\n"))

	runUntil(t, c, geom.Point{X: 100, Y: 0}, 100_000)

	if !c.K.Cur.Eq(geom.Point{X: 100, Y: 0}) {
		t.Errorf("final cur = %v, want (100,0)", c.K.Cur)
	}
	if c.Pen.Mode() != pen.Up {
		t.Errorf("pen mode = %v, want Up at completion", c.Pen.Mode())
	}
	if out.count("pen down") == 0 {
		t.Error("expected at least one \"pen down\" while drawing")
	}
	if out.count("done") != 1 {
		t.Errorf("expected exactly one \"done\", got lines: %v", out.lines)
	}
	if out.count("busy") != 0 || out.count("out of bounds!") != 0 {
		t.Errorf("unexpected diagnostics in %v", out.lines)
	}
}

func TestJogClampsToEnvelope(t *testing.T) {
	c, out := newFixture(t)
	c.Start()
	c.Feed([]byte("go 40000,0\n"))

	runUntil(t, c, geom.Point{X: geom.DefaultEnvelope.LimitX, Y: 0}, 200_000)

	if !c.K.Cur.Eq(geom.Point{X: geom.DefaultEnvelope.LimitX, Y: 0}) {
		t.Errorf("cur = %v, want clamped to envelope limit", c.K.Cur)
	}
	if out.count("out of bounds!") != 0 {
		t.Error("unexpected out-of-bounds diagnostic for a clamped jog")
	}
}

func TestQueueFullRejectsEleventh(t *testing.T) {
	c, out := newFixture(t)
	c.Start()

	// A long move occupies the active slot so none of the l commands can
	// be popped and freed during this test.
	c.Feed([]byte("l 0,0 20000,0\n"))
	tick(c) // pop it into the active slot

	for i := 0; i < 10; i++ {
		c.Feed([]byte("l 0,0 1,0\n"))
	}
	busyBefore := out.count("busy")
	c.Feed([]byte("l 0,0 1,0\n")) // 11th
	busyAfter := out.count("busy")

	if busyAfter != busyBefore+1 {
		t.Errorf("expected exactly one new \"busy\" line for the 11th enqueue, got %d", busyAfter-busyBefore)
	}
	if !c.Queue.Full() {
		t.Error("expected queue full after 10 accepted moves")
	}
}

func TestPauseResumeMidBezier(t *testing.T) {
	c, out := newFixture(t)
	c.Start()
	c.Feed([]byte("0,0 10000,0 10000,10000 0,10000\n"))

	// Run until roughly mid-curve.
	for i := 0; i < 500_000 && c.K.Cur.X < 4000; i++ {
		tick(c)
	}
	if c.K.Cur.X < 4000 {
		t.Fatalf("never reached mid-curve, at %v", c.K.Cur)
	}

	c.Feed([]byte("pause\n"))
	frozen := c.K.Cur
	for i := 0; i < 1000; i++ {
		tick(c)
	}
	if !c.K.Cur.Eq(frozen) {
		t.Errorf("cur moved while paused: %v -> %v", frozen, c.K.Cur)
	}
	if out.count("pen up") == 0 {
		t.Error("expected pause to raise the pen")
	}

	c.Feed([]byte("resume\n"))
	runUntil(t, c, geom.Point{X: 0, Y: 10000}, 500_000)

	if !c.K.Cur.Eq(geom.Point{X: 0, Y: 10000}) {
		t.Errorf("final cur = %v, want (0,10000)", c.K.Cur)
	}
	if out.count("done") != 1 {
		t.Errorf("expected exactly one \"done\", got lines: %v", out.lines)
	}
}

func TestCancelDuringMoveKeepsOrigin(t *testing.T) {
	c, _ := newFixture(t)
	c.Start()
	c.Feed([]byte("l 0,0 500,500\n"))

	for i := 0; i < 200; i++ {
		tick(c)
	}
	before := c.K.Cur

	c.Feed([]byte("cancel\n"))
	if !c.Move.Done() {
		t.Error("expected no active move after cancel")
	}
	if !c.Queue.Empty() {
		t.Error("expected empty queue after cancel")
	}
	if !c.K.Cur.Eq(before) {
		t.Errorf("cancel moved cur: %v -> %v", before, c.K.Cur)
	}
	if c.Pen.Mode() != pen.Up {
		t.Error("expected pen up after cancel")
	}
}

func TestInvalidCommandEmitsDiagnostic(t *testing.T) {
	c, out := newFixture(t)
	c.Start()
	c.Feed([]byte("l 0 0 1,1\n"))

	found := false
	for _, l := range out.lines {
		if strings.Contains(l, "expected comma") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a parse diagnostic, got lines: %v", out.lines)
	}
}

func TestResetZerosOrigin(t *testing.T) {
	c, _ := newFixture(t)
	c.Start()
	c.Feed([]byte("go 100,100\n"))
	runUntil(t, c, geom.Point{X: 100, Y: 100}, 100_000)

	c.Feed([]byte("reset\n"))
	if !c.K.Cur.Eq(geom.Point{}) {
		t.Errorf("cur after reset = %v, want (0,0)", c.K.Cur)
	}
	if !c.K.TrueCur.Eq(geom.Point{}) {
		t.Errorf("true cur after reset = %v, want (0,0)", c.K.TrueCur)
	}
}

func TestStateTelemetryEmitted(t *testing.T) {
	c, out := newFixture(t)
	c.Start()

	for i := 0; i < 200; i++ {
		tick(c)
	}

	found := false
	for _, l := range out.lines {
		if strings.HasPrefix(l, "STATE ") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected periodic STATE telemetry, got lines: %v", out.lines)
	}
}

func TestBootEmitsInit(t *testing.T) {
	c, out := newFixture(t)
	c.Start()
	if len(out.lines) == 0 || out.lines[0] != "init" {
		t.Errorf("expected first emitted line to be \"init\", got %v", out.lines)
	}
}
