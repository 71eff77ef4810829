// Package control hosts the Controller, the single owner of all mutable
// motion state: the kinematics core, the pen actuator, the command queue,
// the active move, and the input line buffer. It drives them through one
// cooperative main-loop iteration at a time.
package control

import (
	"fmt"

	"penplotter/command"
	"penplotter/core"
	"penplotter/kinematics"
	"penplotter/path"
	"penplotter/pen"
	"penplotter/queue"
)

// LineBufSize is the capacity of the input line buffer; a line that does
// not terminate within this many bytes is discarded with a diagnostic.
const LineBufSize = 200

// stateIntervalTicks is the minimum spacing between STATE telemetry lines,
// in microsecond clock ticks (core.TimerFreq is 1 tick == 1us).
const stateIntervalTicks = 500000

// Controller is the single owner of the plotter's motion state. It is not
// safe for concurrent use: Feed and Tick must be called from one
// cooperative loop, single-threaded and run-to-completion.
type Controller struct {
	K          *kinematics.Core
	Pen        *pen.Actuator
	StepX      core.StepperBackend
	StepY      core.StepperBackend

	Queue queue.Queue
	Move  path.Move
	Saved kinematics.Saved

	// DrawSpeed and MoveSpeed are the steps/second used for drawing moves
	// and pen-up jogs. New seeds them with the firmware defaults; a loaded
	// MachineConfig may override them before the first Tick.
	DrawSpeed int
	MoveSpeed int

	// Out receives every diagnostic, telemetry and state-transition line
	// the firmware would otherwise print to the serial link.
	Out func(string)

	lineBuf [LineBufSize]byte
	lineLen int

	stateTimer core.Timer
}

// New builds a Controller around an already-constructed kinematics core
// (which in turn owns the pen actuator) and the two axis stepper backends.
// Out is called for every output line; it must not be nil.
func New(k *kinematics.Core, stepX, stepY core.StepperBackend, out func(string)) *Controller {
	c := &Controller{
		K: k, Pen: k.Pen, StepX: stepX, StepY: stepY, Out: out,
		DrawSpeed: command.DefaultSpeed, MoveSpeed: command.MoveSpeed,
	}
	c.Pen.OnTransition = c.emitPenTransition
	c.K.OnOutOfBounds = func() { c.Out("out of bounds!") }
	return c
}

// Start emits the boot line and schedules the periodic STATE telemetry.
// Call once before the first Tick.
func (c *Controller) Start() {
	c.Out("init")
	c.stateTimer.WakeTime = core.GetTime() + stateIntervalTicks
	c.stateTimer.Handler = c.fireState
	core.ScheduleTimer(&c.stateTimer)
}

func (c *Controller) fireState(t *core.Timer) uint8 {
	c.emitState()
	t.WakeTime = core.GetTime() + stateIntervalTicks
	return core.SF_RESCHEDULE
}

func (c *Controller) emitState() {
	down := 0
	if c.Pen.Mode() == pen.Down {
		down = 1
	}
	c.Out(fmt.Sprintf("STATE (%d,%d) (%d,%d) (%d,%d) %d",
		c.K.Cur.X, c.K.Cur.Y, c.K.From.X, c.K.From.Y, c.K.To.X, c.K.To.Y, down))
}

func (c *Controller) emitPenTransition(mode pen.Mode, angle int) {
	core.RecordTiming(core.EvtPenTransition, core.GetTime(), uint32(mode), uint32(angle))
	switch mode {
	case pen.Up:
		c.Out("pen up")
	case pen.Down:
		c.Out("pen down")
	default:
		c.Out(fmt.Sprintf("pen at %d", angle))
	}
}

// Feed hands the controller newly-arrived serial bytes. Reading them off
// the link is the caller's job; Feed assembles them into lines in the
// fixed line buffer and dispatches each complete one.
func (c *Controller) Feed(data []byte) {
	for _, b := range data {
		c.handleByte(b)
	}
}

func (c *Controller) handleByte(b byte) {
	if b == '\n' {
		line := string(c.lineBuf[:c.lineLen])
		c.lineLen = 0
		c.apply(command.Parse(line))
		return
	}
	if c.lineLen >= LineBufSize {
		c.Out("input buffer full, retry")
		c.lineLen = 0
		return
	}
	c.lineBuf[c.lineLen] = b
	c.lineLen++
}

// busy reports whether a command that mutates the active move must be
// rejected: an interpolated move is running and has not been paused.
func (c *Controller) busy() bool {
	return !c.Move.Done() && !c.Move.Paused()
}

func (c *Controller) apply(a command.Action) {
	switch a.Kind {
	case command.Noop:
		if a.Diagnostic != "" {
			c.Out(a.Diagnostic)
		}

	case command.Enqueue:
		if c.Queue.Full() {
			c.Out("busy")
			return
		}
		a.Move.Speed = c.DrawSpeed
		c.Queue.Push(a.Move)

	case command.Jog:
		if c.busy() {
			c.Out("busy")
			return
		}
		c.Pen.Up()
		c.K.Init(a.Target, c.MoveSpeed)

	case command.Halt:
		if c.busy() {
			c.Out("busy")
			return
		}
		c.K.Init(c.K.Cur, 0)

	case command.SetPenAngle:
		if c.busy() {
			c.Out("busy")
			return
		}
		c.Pen.Set(a.Angle)

	case command.Lock:
		c.K.Lock()

	case command.Unlock:
		c.K.Unlock()

	case command.Pause:
		core.RecordTiming(core.EvtPaused, core.GetTime(), 0, 0)
		if !c.Move.Done() {
			c.Move.Pause(c.K, &c.Saved)
		}
		c.Pen.Up()

	case command.Resume:
		core.RecordTiming(core.EvtResumed, core.GetTime(), 0, 0)
		if !c.Move.Done() {
			c.Move.Resume(c.K, c.Pen, &c.Saved, c.Out)
		}

	case command.Cancel:
		c.Queue.Clear()
		c.Move = path.Move{}
		c.Pen.Up()
		c.K.Init(c.K.Cur, 0)

	case command.Reset:
		c.Queue.Clear()
		c.Move = path.Move{}
		c.Pen.Up()
		c.K.Reset()
	}
}

// Tick runs one cooperative main-loop iteration: dispatch the periodic
// telemetry timer, pop the next queued move if the active slot is free,
// advance the interpolator until a sub-target is pending, pace the step
// interval, then emit at most one pulse.
func (c *Controller) Tick() {
	core.ProcessTimers()

	// Advance-loop: when a move completes inside Next, loop again so the
	// following queued move starts in the same iteration.
	for {
		if c.Move.Done() && !c.Queue.Empty() {
			c.Move = c.Queue.Pop()
			core.RecordTiming(core.EvtMoveLoaded, core.GetTime(), 0, 0)
		}

		if !c.K.Cur.Eq(c.K.To) {
			break
		}
		if c.Move.Done() || c.Move.Paused() {
			c.K.Init(c.K.Cur, 0)
			break
		}
		c.Move.Next(c.K, c.Pen, &c.Saved, c.Out)
		if !c.Move.Done() {
			break
		}
	}

	c.K.Delay()

	dir := c.K.StepDir()
	switch {
	case dir.X != 0:
		c.StepX.SetDirection(dir.X < 0)
		c.StepX.Step()
		core.RecordTiming(core.EvtStepPulse, core.GetTime(), uint32(dir.X), 0)
	case dir.Y != 0:
		c.StepY.SetDirection(dir.Y < 0)
		c.StepY.Step()
		core.RecordTiming(core.EvtStepPulse, core.GetTime(), 0, uint32(dir.Y))
	}
}
