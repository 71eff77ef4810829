package core

// Timer is one entry in the cooperative schedule: a wake time in timer
// ticks and a handler to run when it comes due. Timers are intrusive
// linked-list nodes; callers own the Timer value and must not reuse it
// while it is scheduled.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

// Handler return values.
const (
	SF_DONE       = 0 // timer is finished, drop it from the schedule
	SF_RESCHEDULE = 1 // re-insert at the handler-updated WakeTime
)

var (
	timerList   *Timer
	currentTime uint32
)

// ScheduleTimer inserts t into the schedule, ordered by WakeTime. Safe to
// call with interrupts active on real hardware; on the host the guard is a
// no-op.
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	insertTimer(t)
}

func insertTimer(t *Timer) {
	if timerList == nil || int32(t.WakeTime-timerList.WakeTime) < 0 {
		t.Next = timerList
		timerList = t
		return
	}

	cur := timerList
	for cur.Next != nil && int32(cur.Next.WakeTime-t.WakeTime) < 0 {
		cur = cur.Next
	}

	t.Next = cur.Next
	cur.Next = t
}

// TimerDispatch pops and runs every timer whose WakeTime has passed. The
// head of the sorted list is always the next due timer, so dispatch stops
// at the first entry still in the future. Only periodic telemetry and
// similar non-hot-path work goes through here; step pacing never does.
// Wake times are compared by signed difference, so ordering and due-ness
// stay correct across a wrap of the 32-bit tick counter.
func TimerDispatch() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for timerList != nil && int32(timerList.WakeTime-currentTime) <= 0 {
		t := timerList
		timerList = t.Next
		t.Next = nil

		if t.Handler(t) == SF_RESCHEDULE {
			insertTimer(t)
		}
	}
}
