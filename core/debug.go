package core

// DebugWriter is a function type for writing debug messages.
type DebugWriter func(string)

// TimingEvent captures a timing-critical event for post-mortem analysis.
type TimingEvent struct {
	EventType uint8
	Clock     uint32
	Value1    uint32
	Value2    uint32
}

// Event type codes for the timing ring.
const (
	EvtStepPulse     = 1 // a stepper pulse was issued
	EvtMoveLoaded    = 2 // a queued move became the active move
	EvtPenTransition = 3 // the pen actuator changed mode
	EvtPaused        = 4 // the active move was paused
	EvtResumed       = 5 // the active move was resumed
)

const TimingRingSize = 32

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether debug output is active
	debugEnabled bool

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  = true

	totalStepCount uint32
)

// SetDebugWriter sets the platform-specific debug output function, letting
// targets redirect it to UART, USB, or a test buffer.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables DebugPrintln output.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming captures a timing event in the ring buffer. Always
// non-blocking; a full ring just overwrites its oldest entry.
func RecordTiming(eventType uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	if eventType == EvtStepPulse {
		totalStepCount++
	}
	timingRing[timingRingHead] = TimingEvent{
		EventType: eventType,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (timingRingHead + 1) % TimingRingSize
}

// GetTotalStepCount returns the number of EvtStepPulse events recorded
// since boot or the last ClearTimingRing.
func GetTotalStepCount() uint32 {
	return totalStepCount
}

// DumpTimingRing outputs the timing ring buffer oldest-to-newest.
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	debugPrintln("[TIMING] total steps: " + itoa(int(totalStepCount)))

	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		idx := (start + i) % TimingRingSize
		evt := &timingRing[idx]
		if evt.EventType == 0 {
			continue
		}

		var name string
		switch evt.EventType {
		case EvtStepPulse:
			name = "STEP"
		case EvtMoveLoaded:
			name = "MOVE_LOADED"
		case EvtPenTransition:
			name = "PEN"
		case EvtPaused:
			name = "PAUSED"
		case EvtResumed:
			name = "RESUMED"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TIMING] " + name +
			" clock=" + itoa(int(evt.Clock)) +
			" v1=" + itoa(int(evt.Value1)) +
			" v2=" + itoa(int(evt.Value2)))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing empties the ring and resets the step counter.
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
	totalStepCount = 0
}

// itoa is a minimal decimal formatter so this package does not pull in
// strconv/fmt on the timing hot path.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
