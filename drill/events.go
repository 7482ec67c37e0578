package drill

import "soildrill/core"

// EventKind identifies a drill event in telemetry and in the event ring.
type EventKind uint8

const (
	EventPhase EventKind = iota + 1
	EventSample
	EventFault
	EventRecovery
	EventOutcome
	EventDisable
	EventInitFailed
)

func (k EventKind) String() string {
	switch k {
	case EventPhase:
		return "phase"
	case EventSample:
		return "sample"
	case EventFault:
		return "fault"
	case EventRecovery:
		return "recovery"
	case EventOutcome:
		return "outcome"
	case EventDisable:
		return "disable"
	case EventInitFailed:
		return "init-failed"
	}
	return "event(" + core.Itoa(int(k)) + ")"
}

// EventKindName names raw ring kinds for core.DumpEventRing.
func EventKindName(kind uint8) string {
	return EventKind(kind).String()
}

// Event is emitted on every state change of the drill. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Cycle    uint32
	Clock    uint32
	Phase    Phase
	Snapshot EncoderSnapshot
	Verdict  Verdict
	Cause    FaultCause
	Recovery RecoveryResult
	Outcome  Outcome
}

// Reporter receives drill events, typically a telemetry link.
type Reporter interface {
	Report(ev Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ev Event)

func (f ReporterFunc) Report(ev Event) {
	f(ev)
}

// RingValues packs the event into the two values of a core.RingEvent.
func (e Event) RingValues() (v1, v2 uint32) {
	switch e.Kind {
	case EventPhase:
		return uint32(e.Phase), e.Cycle
	case EventSample:
		return uint32(e.Snapshot.Translational)<<16 | uint32(e.Snapshot.Rotational), uint32(e.Verdict.Bits())
	case EventFault:
		return uint32(e.Cause), uint32(e.Snapshot.Translational)
	case EventRecovery:
		return uint32(e.Recovery), uint32(e.Snapshot.Translational)
	case EventOutcome:
		return uint32(e.Outcome), e.Cycle
	}
	return e.Cycle, 0
}
