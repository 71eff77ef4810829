// Package path turns a queued linear or cubic-Bezier path segment into a
// sequence of kinematics core targets, stepping the core toward each
// intermediate point until the segment completes.
package path

import (
	"penplotter/geom"
	"penplotter/kinematics"
	"penplotter/pen"
)

// Kind distinguishes the two path primitives a Move can carry.
type Kind uint8

const (
	None Kind = iota
	Linear
	Bezier
)

// NPT is the number of interpolation steps a Bezier Move walks through
// between its endpoints. Using a fixed step count (rather than arc-length
// parameterization) lets the curve be evaluated in pure 64-bit integer
// arithmetic.
const NPT = 300

// MoveSpeed is the speed, in steps/second, used for the pen-up travel move
// to a segment's start point; it is independent of the segment's own speed.
const MoveSpeed = 3200

// Move is one queued path segment: a straight line or a cubic Bezier curve
// from From to To, traced at Speed steps/second with the pen held down
// throughout (unless StayDown is false, which lifts the pen at completion).
type Move struct {
	Kind                   Kind
	From, Ctrl1, Ctrl2, To geom.Point
	Speed                  int
	StayDown               bool

	t       int
	started bool

	isPaused   bool
	restoreCur bool
}

// LinearMove constructs a straight-line Move between two points.
func LinearMove(from, to geom.Point, speed int, stayDown bool) Move {
	return Move{Kind: Linear, From: from, To: to, Speed: speed, StayDown: stayDown}
}

// BezierMove constructs a cubic Bezier Move with the given control points.
func BezierMove(from, ctrl1, ctrl2, to geom.Point, speed int, stayDown bool) Move {
	return Move{Kind: Bezier, From: from, Ctrl1: ctrl1, Ctrl2: ctrl2, To: to, Speed: speed, StayDown: stayDown}
}

// Done reports whether the segment has fully completed (or was never
// started, for a zero-value Move).
func (m *Move) Done() bool {
	return m.Kind == None
}

// Paused reports whether the move is currently frozen by Pause.
func (m *Move) Paused() bool {
	return m.isPaused
}

// bezierPoint evaluates the cubic Bezier curve at parameter t/NPT using
// 64-bit integer arithmetic throughout, avoiding floating point on the hot
// interpolation path.
func bezierPoint(from, c1, c2, to geom.Point, t int) geom.Point {
	nt := int64(NPT - t)
	tt := int64(t)

	x := from.X*nt*nt*nt + 3*c1.X*nt*nt*tt + 3*c2.X*nt*tt*tt + to.X*tt*tt*tt
	y := from.Y*nt*nt*nt + 3*c1.Y*nt*nt*tt + 3*c2.Y*nt*tt*tt + to.Y*tt*tt*tt

	denom := int64(NPT) * NPT * NPT
	return geom.Point{X: x / denom, Y: y / denom}
}

// bezierNext advances the Bezier parameter until either the next sampled
// point differs from the core's current logical position, or the curve is
// exhausted, then issues that point as the next kinematics target.
func (m *Move) bezierNext(c *kinematics.Core) {
	var next geom.Point
	for {
		if m.t >= NPT {
			c.Init(m.To, m.Speed)
			return
		}
		m.t++
		next = bezierPoint(m.From, m.Ctrl1, m.Ctrl2, m.To, m.t)
		if !next.Eq(c.Cur) {
			break
		}
	}
	c.Init(next, m.Speed)
}

// Next drives the move forward by one kinematics target. Call it whenever
// the core has arrived at its previous target (Cur == To) and the move is
// not Done. Next also performs the pause-induced snapshot restore, the
// pen-up travel to the segment's start, and the pen-up/segment-complete
// bookkeeping at the end of the segment.
func (m *Move) Next(c *kinematics.Core, p *pen.Actuator, paused *kinematics.Saved, responder func(string)) {
	if m.restoreCur {
		c.InitFrom(*paused)
		m.restoreCur = false
	}

	if !m.started {
		if !c.Cur.Eq(m.From) {
			p.Up()
			c.Init(m.From, MoveSpeed)
		} else {
			m.started = true
			m.Next(c, p, paused, responder)
		}
		return
	}

	switch m.Kind {
	case Bezier:
		m.bezierNext(c)
	default:
		if !c.Cur.Eq(m.To) {
			c.Init(m.To, m.Speed)
		}
	}

	if (m.Kind == Linear || m.t >= NPT) && c.Cur.Eq(m.To) {
		if !m.StayDown {
			p.Up()
		}
		if responder != nil {
			responder("done")
		}
		m.Kind = None
	} else {
		p.Down()
	}
}

// Pause freezes the move's progress, snapshotting the kinematics core so a
// later Resume can pick up exactly where it left off. The snapshot is
// skipped if already paused, not yet started, or already sitting at the
// sub-target; the halt is issued regardless, so Pause is idempotent.
func (m *Move) Pause(c *kinematics.Core, paused *kinematics.Saved) {
	if !m.isPaused && m.started && !c.Cur.Eq(c.To) {
		*paused = c.Save()
		m.restoreCur = true
	}
	m.isPaused = true
	c.Init(c.Cur, 0)
}

// Resume un-freezes a paused move, restoring the saved kinematics snapshot
// if one was captured, or re-issuing the current target otherwise.
func (m *Move) Resume(c *kinematics.Core, p *pen.Actuator, paused *kinematics.Saved, responder func(string)) {
	if !m.isPaused {
		return
	}
	m.isPaused = false

	if m.restoreCur {
		if !paused.Cur.Eq(c.Cur) {
			c.Init(paused.Cur, m.Speed)
		} else {
			c.InitFrom(*paused)
			m.restoreCur = false
		}
	}

	if !m.restoreCur {
		m.Next(c, p, paused, responder)
	}
}
