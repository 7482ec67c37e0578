package drill

import "soildrill/core"

// Phase is the state of the drill sequencer.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDescending
	PhaseAscending
	PhaseRetracting
	PhaseDone
	PhaseFaulted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseDescending:
		return "DESCENDING"
	case PhaseAscending:
		return "ASCENDING"
	case PhaseRetracting:
		return "RETRACTING"
	case PhaseDone:
		return "DONE"
	case PhaseFaulted:
		return "FAULTED"
	}
	return "PHASE(" + core.Itoa(int(p)) + ")"
}

// Outcome is the result of one drilling cycle.
type Outcome uint8

const (
	OutcomeComplete Outcome = iota
	OutcomeError
)

func (o Outcome) String() string {
	if o == OutcomeComplete {
		return "COMPLETE"
	}
	return "ERROR"
}

// EncoderSnapshot holds the current and previous encoder samples of the
// running phase.
type EncoderSnapshot struct {
	Translational     uint16
	Rotational        uint16
	PrevTranslational uint16
	PrevRotational    uint16
}

// Reset zeroes the snapshot at a phase boundary
func (s *EncoderSnapshot) Reset() {
	*s = EncoderSnapshot{}
}

// Advance shifts the current sample into previous and stores c
func (s *EncoderSnapshot) Advance(c core.EncoderCounts) {
	s.PrevTranslational = s.Translational
	s.PrevRotational = s.Rotational
	s.Translational = c.Translational
	s.Rotational = c.Rotational
}

// Moving reports whether both axes advanced since the previous sample
func (s EncoderSnapshot) Moving() bool {
	return s.Rotational != s.PrevRotational && s.Translational != s.PrevTranslational
}

// TranslationalStalled reports whether the lift axis did not advance
func (s EncoderSnapshot) TranslationalStalled() bool {
	return s.Translational == s.PrevTranslational
}

// Verdict is the per-iteration result of every safety subsystem. A field
// is true when that subsystem passed.
type Verdict struct {
	Encoder   bool
	Obstacle  bool
	Gyro      bool
	Accel     bool
	Vibration bool
}

// OK reports whether every subsystem passed
func (v Verdict) OK() bool {
	return v.Encoder && v.Obstacle && v.Gyro && v.Accel && v.Vibration
}

// Verdict bit positions used on the wire and in the event ring
const (
	VerdictEncoderBit = 1 << iota
	VerdictObstacleBit
	VerdictGyroBit
	VerdictAccelBit
	VerdictVibrationBit
)

// Bits packs the verdict, one set bit per passing subsystem
func (v Verdict) Bits() uint8 {
	var b uint8
	if v.Encoder {
		b |= VerdictEncoderBit
	}
	if v.Obstacle {
		b |= VerdictObstacleBit
	}
	if v.Gyro {
		b |= VerdictGyroBit
	}
	if v.Accel {
		b |= VerdictAccelBit
	}
	if v.Vibration {
		b |= VerdictVibrationBit
	}
	return b
}

// VerdictFromBits unpacks Bits
func VerdictFromBits(b uint8) Verdict {
	return Verdict{
		Encoder:   b&VerdictEncoderBit != 0,
		Obstacle:  b&VerdictObstacleBit != 0,
		Gyro:      b&VerdictGyroBit != 0,
		Accel:     b&VerdictAccelBit != 0,
		Vibration: b&VerdictVibrationBit != 0,
	}
}

// FaultCause says why the sequencer stopped early.
type FaultCause uint8

const (
	CauseNone FaultCause = iota
	CauseVerdict
	CauseOverride
	CausePreflight
	CauseCancelled
)

func (c FaultCause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseVerdict:
		return "verdict"
	case CauseOverride:
		return "override"
	case CausePreflight:
		return "preflight"
	case CauseCancelled:
		return "cancelled"
	}
	return "cause(" + core.Itoa(int(c)) + ")"
}

// FaultRecord is the translational count captured when a fault or
// override was detected. It is the retraction target and can be taken
// exactly once.
type FaultRecord struct {
	Translational uint16
	Cause         FaultCause
	valid         bool
}

func newFaultRecord(count uint16, cause FaultCause) FaultRecord {
	return FaultRecord{Translational: count, Cause: cause, valid: true}
}

// Valid reports whether the record has not been consumed
func (r FaultRecord) Valid() bool {
	return r.valid
}

// Take consumes the record. ok is false if it was already taken or never
// set.
func (r *FaultRecord) Take() (count uint16, ok bool) {
	if !r.valid {
		return 0, false
	}
	r.valid = false
	return r.Translational, true
}

// RecoveryResult is how the override/recovery handler ended.
type RecoveryResult uint8

const (
	RecoveryNotRun RecoveryResult = iota
	RecoverySkipped
	RecoveryRetracted
	RecoveryKilled
	RecoveryStalled
)

func (r RecoveryResult) String() string {
	switch r {
	case RecoveryNotRun:
		return "not-run"
	case RecoverySkipped:
		return "skipped"
	case RecoveryRetracted:
		return "retracted"
	case RecoveryKilled:
		return "killed"
	case RecoveryStalled:
		return "stalled"
	}
	return "recovery(" + core.Itoa(int(r)) + ")"
}

// CycleReport summarizes one cycle of the controller.
type CycleReport struct {
	Cycle      uint32
	Outcome    Outcome
	Phase      Phase // final sequencer phase
	Fault      FaultRecord
	Recovery   RecoveryResult
	InitFailed bool
}

// Status is a point-in-time view of the controller for telemetry.
type Status struct {
	Cycle       uint32
	Phase       Phase
	Snapshot    EncoderSnapshot
	LastOutcome Outcome
	Completed   uint32
	Failed      uint32
}
