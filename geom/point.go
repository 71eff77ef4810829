// Package geom defines the integer 2-D point type shared by the kinematics
// core and the path interpolator, and the rectangular work envelope they
// operate within.
package geom

// Point is a pair of signed integers. It is used both for logical
// positions (half-stepped CoreXY output space) and for raw CoreXY
// accumulator positions, which share the same representation but not the
// same scale.
type Point struct {
	X, Y int64
}

// Add returns the componentwise sum of p and o.
func (p Point) Add(o Point) Point {
	return Point{p.X + o.X, p.Y + o.Y}
}

// Sub returns the componentwise difference of p and o.
func (p Point) Sub(o Point) Point {
	return Point{p.X - o.X, p.Y - o.Y}
}

// Eq reports whether p and o denote the same point.
func (p Point) Eq(o Point) bool {
	return p.X == o.X && p.Y == o.Y
}

// Envelope is the rectangular work area a logical position must stay
// within: [0, LimitX] x [0, LimitY].
type Envelope struct {
	LimitX, LimitY int64
}

// DefaultEnvelope matches the physical machine this firmware was written
// for; MachineConfig may override it.
var DefaultEnvelope = Envelope{LimitX: 29875, LimitY: 24421}

// clampAxis constrains v to [0, limit].
func clampAxis(v, limit int64) int64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// Clamp constrains p componentwise into the envelope.
func (e Envelope) Clamp(p Point) Point {
	return Point{clampAxis(p.X, e.LimitX), clampAxis(p.Y, e.LimitY)}
}

// Contains reports whether p lies within the envelope, inclusive.
func (e Envelope) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= e.LimitX && p.Y <= e.LimitY
}
