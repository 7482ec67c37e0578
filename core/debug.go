package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// RingEvent is one entry of the post-mortem event ring. The meaning of
// Kind and the two values is defined by the recording package.
type RingEvent struct {
	Kind   uint8
	Clock  uint32
	Value1 uint32
	Value2 uint32
}

// EventRingSize is the number of events kept for post-mortem dumps
const EventRingSize = 32

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled gates DebugPrintln; DumpEventRing always prints
	debugEnabled bool

	eventRing     [EventRingSize]RingEvent
	eventRingHead uint8
	eventRingLen  uint8
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message if debug output is enabled
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// RecordEvent stores an event in the ring, overwriting the oldest entry
// when full. It never blocks.
func RecordEvent(kind uint8, clock, value1, value2 uint32) {
	idx := eventRingHead
	eventRing[idx] = RingEvent{
		Kind:   kind,
		Clock:  clock,
		Value1: value1,
		Value2: value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	if eventRingLen < EventRingSize {
		eventRingLen++
	}
}

// EventRing returns a copy of the recorded events, oldest first
func EventRing() []RingEvent {
	out := make([]RingEvent, 0, eventRingLen)
	start := (eventRingHead + EventRingSize - eventRingLen) % EventRingSize
	for i := uint8(0); i < eventRingLen; i++ {
		out = append(out, eventRing[(start+i)%EventRingSize])
	}
	return out
}

// DumpEventRing writes the ring to the debug writer, oldest first.
// name maps an event kind to a label.
func DumpEventRing(name func(kind uint8) string) {
	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range EventRing() {
		debugPrintln("[EVENTS] " + name(evt.Kind) +
			" clock=" + Utoa(evt.Clock) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEventRing empties the ring
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = RingEvent{}
	}
	eventRingHead = 0
	eventRingLen = 0
}
