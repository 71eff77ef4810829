package command

import (
	"penplotter/geom"
	"penplotter/path"
)

// Kind identifies which action a parsed line produced.
type Kind uint8

const (
	// Noop is issued for lines that were fully handled inside Parse
	// (a diagnostic line was already returned) and need no further
	// controller action.
	Noop Kind = iota
	Enqueue
	Jog
	Halt
	SetPenAngle
	Lock
	Unlock
	Pause
	Resume
	Cancel
	Reset
)

// Action is the result of parsing one command line: either something for
// the controller to apply, or a diagnostic line to echo back (Diagnostic
// non-empty), never both.
type Action struct {
	Kind       Kind
	Move       path.Move
	Target     geom.Point
	Angle      int
	Diagnostic string
}

// DefaultSpeed is the steps/second used for drawing moves (l and bezier
// commands); MoveSpeed is used for pen-up jogs.
const (
	DefaultSpeed = 2400
	MoveSpeed    = 3200
)

// Parse tokenises one command line into an Action. It never returns an
// error; malformed input is reported via Action.Diagnostic with Kind Noop.
func Parse(line string) Action {
	p := newParser(line)
	p.skipWS()

	switch {
	case p.startsWith("cancel"):
		return Action{Kind: Cancel}
	case p.startsWith("reset"):
		return Action{Kind: Reset}
	case p.startsWith("lock"):
		return Action{Kind: Lock}
	case p.startsWith("unlock"):
		return Action{Kind: Unlock}
	case p.startsWith("pause"):
		return Action{Kind: Pause}
	case p.startsWith("resume"):
		return Action{Kind: Resume}
	case p.startsWith("pen"):
		return parsePenAction(p)
	case p.startsWith("go"):
		return parseJogAction(p)
	case p.startsWith("halt"):
		return Action{Kind: Halt}
	default:
		return parseMoveAction(p)
	}
}

func parsePenAction(p *parser) Action {
	p.skipWS()
	angle, n := parseInt(p.rest())
	p.pos += n
	p.skipWS()
	p.expectEnd()
	if p.bad {
		return Action{Kind: Noop, Diagnostic: p.err}
	}
	return Action{Kind: SetPenAngle, Angle: int(angle)}
}

func parseJogAction(p *parser) Action {
	p.skipWS()
	target := p.parsePt()
	p.skipWS()
	p.expectEnd()
	if p.bad {
		return Action{Kind: Noop, Diagnostic: p.err}
	}
	return Action{Kind: Jog, Target: target}
}

// parseMoveAction handles the two path-enqueueing grammars: "l A B
// [stay_down]" for a line, or "A B C D [stay_down]" (no leading letter)
// for a cubic Bezier.
func parseMoveAction(p *parser) Action {
	isLine := p.startsWith("l")

	n := 2
	if !isLine {
		n = 4
	}
	var pts [4]geom.Point
	for i := 0; i < n; i++ {
		p.skipWS()
		pts[i] = p.parsePt()
	}

	p.skipWS()
	stayDown := p.startsWith("stay_down")
	p.skipWS()
	p.expectEnd()

	if p.bad {
		return Action{Kind: Noop, Diagnostic: p.err}
	}

	var m path.Move
	if isLine {
		m = path.LinearMove(pts[0], pts[1], DefaultSpeed, stayDown)
	} else {
		m = path.BezierMove(pts[0], pts[1], pts[2], pts[3], DefaultSpeed, stayDown)
	}
	return Action{Kind: Enqueue, Move: m}
}
