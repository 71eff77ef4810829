// Package kinematics implements the CoreXY motion core: it tracks both the
// raw two-motor accumulator position and the logical pen position it maps
// to, decides one pulse direction at a time with an integer Bresenham-style
// sidedness test, and paces steps so Euclidean and Manhattan travel take the
// same wall-clock time.
package kinematics

import (
	"time"

	"penplotter/core"
	"penplotter/geom"
	"penplotter/pen"
)

// DefaultDelayUS is the step interval used before any move has been issued
// and whenever a move is issued with speed 0 (a deliberate stop).
const DefaultDelayUS = 10000

// Saved is a point-in-time snapshot of a Core's motion state, captured when
// a move is interrupted by pause and consumed once to resume it.
type Saved struct {
	Cur, To geom.Point
	US      uint32
}

// Core is the CoreXY motion core for one plotter. Diagonal physical stepper
// motion in raw space corresponds to axis-aligned motion in logical space;
// Cur is kept in both spaces simultaneously.
type Core struct {
	From, TrueFrom geom.Point
	To             geom.Point

	Cur, TrueCur, Diff geom.Point

	us       uint32
	lastStep uint32

	Envelope geom.Envelope
	Pen      *pen.Actuator

	// OnOutOfBounds, if set, is called once whenever a step would leave
	// the work envelope, before the core halts in place.
	OnOutOfBounds func()

	gpio       core.GPIODriver
	driverPin  core.GPIOPin
	moving     bool
	shouldLock bool
}

// New creates a motion core bound to the given driver-enable GPIO pin and
// pen actuator. Use Reset to bring it to a known state.
func New(gpio core.GPIODriver, driverPin core.GPIOPin, p *pen.Actuator) *Core {
	return &Core{
		Envelope:  geom.DefaultEnvelope,
		Pen:       p,
		gpio:      gpio,
		driverPin: driverPin,
		us:        DefaultDelayUS,
		// Starts as "moving" so the first halt actually releases the
		// enable line instead of being swallowed by setMoving's no-op
		// check.
		moving: true,
	}
}

// setMoving updates the moving flag and drives the stepper-driver enable
// line: enabled (logic low) while moving or explicitly locked, released
// (logic high) otherwise.
func (c *Core) setMoving(moving bool) {
	if c.moving != moving {
		_ = c.gpio.SetPin(c.driverPin, !(moving || c.shouldLock))
		c.moving = moving
	}
}

// Lock forces the stepper drivers to stay enabled even while idle, holding
// position against external force.
func (c *Core) Lock() {
	if !c.shouldLock && !c.moving {
		_ = c.gpio.SetPin(c.driverPin, false)
	}
	c.shouldLock = true
}

// Unlock releases the stepper drivers once the core is idle, letting the
// motors free-spin.
func (c *Core) Unlock() {
	if !c.moving && c.shouldLock {
		_ = c.gpio.SetPin(c.driverPin, true)
	}
	c.shouldLock = false
}

// Reset returns the core to the origin with motion stopped. It does not
// move the physical carriage; callers issuing Reset are expected to already
// be at the position they are declaring as (0,0).
func (c *Core) Reset() {
	c.Cur = geom.Point{}
	c.TrueCur = geom.Point{}
	c.To = geom.Point{}
	c.setMoving(false)
	c.us = DefaultDelayUS
}

// InitFrom resumes a move from a previously saved snapshot, recomputing the
// raw-space direction vector from the live accumulator position.
func (c *Core) InitFrom(s Saved) {
	c.From, c.TrueFrom = c.Cur, c.TrueCur
	c.To, c.us = s.To, s.US
	c.Diff = geom.Point{X: c.To.X - c.To.Y, Y: c.To.X + c.To.Y}.Sub(c.TrueCur)
	c.setMoving(true)
}

// Save captures enough state to resume the in-flight move later via
// InitFrom.
func (c *Core) Save() Saved {
	return Saved{Cur: c.Cur, To: c.To, US: c.us}
}

// Init begins a move toward to at the given speed in steps/second. The
// destination is clamped to the work envelope and stored as To before
// anything else, so a speed of 0 stops the core with To set to that
// clamped point; halting in place means passing Cur.
func (c *Core) Init(to geom.Point, speed int) {
	c.From, c.TrueFrom = c.Cur, c.TrueCur
	c.To = c.Envelope.Clamp(to)

	if speed == 0 {
		c.setMoving(false)
		c.us = DefaultDelayUS
		return
	}

	if c.Cur.Eq(c.To) {
		c.us = uint32(1000000 / int64(speed))
		return
	}

	c.setMoving(true)

	c.Diff = geom.Point{X: c.To.X - c.To.Y, Y: c.To.X + c.To.Y}.Sub(c.TrueCur)

	dx := c.To.X - c.Cur.X
	dy := c.To.Y - c.Cur.Y
	stepLenSq := dx*dx + dy*dy

	manhattan := abs64(c.Diff.X) + abs64(c.Diff.Y)
	if manhattan == 0 {
		c.us = uint32(1000000 / int64(speed))
		return
	}

	// Binary search for the least integer l in [1, manhattan] with
	// l^2 >= stepLenSq, so that pacing steps at that rate makes the
	// Euclidean-distance travel time match the Manhattan raw-step count.
	l, r := int64(1), manhattan
	for l < r {
		m := (l + r) / 2
		if m*m < stepLenSq {
			l = m + 1
		} else {
			r = m
		}
	}

	c.us = uint32((1000000 * l) / (manhattan * int64(speed)))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Delay sleeps until at least us microseconds have elapsed since the last
// step, pacing the stepper pulse train.
func (c *Core) Delay() {
	now := core.Micros()
	elapsed := core.ElapsedSince(now, c.lastStep)
	if c.us > elapsed {
		time.Sleep(time.Duration(c.us-elapsed) * time.Microsecond)
	}
	c.lastStep = core.Micros()
}

// quadrant returns which of the four raw-space travel directions diff lies
// in: 0 (+x,+y), 1 (-x,+y), 2 (-x,-y), 3 (+x,-y).
func quadrant(diff geom.Point) int {
	if diff.X > 0 {
		if diff.Y > 0 {
			return 0
		}
		return 3
	}
	if diff.Y > 0 {
		return 1
	}
	return 2
}

// StepDir decides and applies the next single raw-space unit step, gated on
// the pen actuator reporting it is safe to move. It returns the zero point
// when the core has arrived, the pen is still easing, or the destination
// is already reached.
//
// When Diff is axis-aligned in raw space the direction is immediate; when
// it is diagonal, a Bresenham-style sidedness test (the sign of the cross
// product between Diff and the distance already travelled) decides which
// of the two candidate unit steps keeps the path closest to the ideal
// line.
func (c *Core) StepDir() geom.Point {
	// ReadyToMove must run every tick regardless of arrival, since it also
	// drives the pen's in-progress ease.
	canMove := c.Pen.ReadyToMove()
	if c.Cur.Eq(c.To) || !canMove {
		return geom.Point{}
	}

	var ret geom.Point

	switch {
	case c.Diff.X == 0:
		ret.Y = sign(c.Diff.Y)
	case c.Diff.Y == 0:
		ret.X = sign(c.Diff.X)
	default:
		cd := c.TrueCur.Sub(c.TrueFrom)
		det := c.Diff.X*cd.Y >= c.Diff.Y*cd.X
		q := quadrant(c.Diff)

		if det {
			if q%2 == 0 {
				ret.X = int64(1 - q)
			} else {
				ret.Y = int64(2 - q)
			}
		} else {
			if q%2 == 1 {
				ret.X = int64(q - 2)
			} else {
				ret.Y = int64(1 - q)
			}
		}
	}

	c.TrueCur = c.TrueCur.Add(ret)
	floorCur := geom.Point{
		X: (c.TrueCur.X + c.TrueCur.Y) / 2,
		Y: (c.TrueCur.Y - c.TrueCur.X) / 2,
	}
	if (c.TrueCur.X+c.TrueCur.Y)%2 == 0 {
		c.Cur = floorCur
	}

	// The raw accumulator can overshoot the logical envelope by up to
	// half a step; the truncating division maps that back onto the
	// boundary, so only a position a whole unit outside is a fault, and
	// the core then stops in place.
	if floorCur.X < 0 || floorCur.Y < 0 || floorCur.X > c.Envelope.LimitX || floorCur.Y > c.Envelope.LimitY {
		if c.OnOutOfBounds != nil {
			c.OnOutOfBounds()
		}
		c.Init(c.Cur, 0)
		return geom.Point{}
	}

	return ret
}

func sign(v int64) int64 {
	if v > 0 {
		return 1
	}
	return -1
}
