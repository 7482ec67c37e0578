package drill

import (
	"context"

	"soildrill/core"
)

// Sequencer runs one descend/ascend pass and stops early on a failing
// verdict, a remote override or context cancellation.
type Sequencer struct {
	s   *session
	agg *Aggregator
}

// NewSequencer returns a standalone sequencer. Controllers build their
// own.
func NewSequencer(cfg Config, p *core.Peripherals, rep Reporter) *Sequencer {
	return &Sequencer{s: newSession(cfg, p, rep), agg: NewAggregator(cfg, p)}
}

// Phase returns the current phase.
func (q *Sequencer) Phase() Phase {
	return q.s.phase
}

// Snapshot returns the encoder snapshot of the current phase.
func (q *Sequencer) Snapshot() EncoderSnapshot {
	return q.s.snap
}

// Run executes the pass. It returns PhaseDone with an invalid record on
// success; otherwise PhaseRetracting or PhaseFaulted with the
// translational count at the moment the problem was detected.
func (q *Sequencer) Run(ctx context.Context) (Phase, FaultRecord) {
	s := q.s
	s.phase = PhaseIdle
	s.snap.Reset()

	if s.remote() == core.RemoteOverride {
		return q.halt(PhaseRetracting, CauseOverride, 0)
	}
	if v := q.agg.Preflight(); !v.OK() {
		s.emit(Event{Kind: EventSample, Phase: PhaseIdle, Verdict: v})
		return q.halt(PhaseFaulted, CausePreflight, 0)
	}

	w := s.cfg.Wiring
	if ph, rec, stopped := q.travel(ctx, PhaseDescending, w.DescendRotational, w.DescendTranslational); stopped {
		return ph, rec
	}
	if ph, rec, stopped := q.dwell(ctx); stopped {
		return ph, rec
	}
	if ph, rec, stopped := q.travel(ctx, PhaseAscending, w.AscendRotational, w.AscendTranslational); stopped {
		return ph, rec
	}
	s.setPhase(PhaseDone)
	return PhaseDone, FaultRecord{}
}

// travel drives both axes until the translational count reaches the
// target. stopped is true when the pass ended early.
func (q *Sequencer) travel(ctx context.Context, phase Phase, rot, trans core.Direction) (Phase, FaultRecord, bool) {
	s := q.s
	s.restartCounts()
	s.setPhase(phase)
	s.drive(rot, trans)

	if s.remote() == core.RemoteOverride {
		return q.haltNow(PhaseRetracting, CauseOverride)
	}

	for {
		if ctx.Err() != nil {
			return q.haltNow(PhaseFaulted, CauseCancelled)
		}
		s.p.Clock.Wait(s.cfg.PollInterval)

		if s.remote() == core.RemoteOverride {
			return q.haltNow(PhaseRetracting, CauseOverride)
		}

		s.sample()
		v := q.agg.Evaluate(s.snap)
		s.emit(Event{Kind: EventSample, Phase: phase, Snapshot: s.snap, Verdict: v})

		if s.remote() == core.RemoteOverride {
			ph, rec := q.halt(PhaseRetracting, CauseOverride, s.snap.Translational)
			return ph, rec, true
		}
		if !v.OK() {
			ph, rec := q.halt(PhaseFaulted, CauseVerdict, s.snap.Translational)
			return ph, rec, true
		}
		if s.snap.Translational >= s.cfg.TargetTicks {
			if phase == PhaseDescending && s.cfg.BottomDwell > 0 {
				// drill keeps spinning through the dwell
				s.p.Motors.Brake(core.AxisTranslational)
				return 0, FaultRecord{}, false
			}
			s.brakeAll()
			s.p.Encoders.Clear()
			return 0, FaultRecord{}, false
		}
	}
}

// dwell spins the drill at depth for BottomDwell with the lift braked.
// Only the remote is watched since the lift is not expected to move.
func (q *Sequencer) dwell(ctx context.Context) (Phase, FaultRecord, bool) {
	s := q.s
	if s.cfg.BottomDwell == 0 {
		return 0, FaultRecord{}, false
	}
	depth := s.snap.Translational
	for waited := uint32(0); waited < s.cfg.BottomDwell; waited += s.cfg.PollInterval {
		if ctx.Err() != nil {
			ph, rec := q.halt(PhaseFaulted, CauseCancelled, depth)
			return ph, rec, true
		}
		if s.remote() == core.RemoteOverride {
			ph, rec := q.halt(PhaseRetracting, CauseOverride, depth)
			return ph, rec, true
		}
		s.p.Clock.Wait(s.cfg.PollInterval)
	}
	s.brakeAll()
	s.p.Encoders.Clear()
	return 0, FaultRecord{}, false
}

// haltNow halts with a fresh encoder reading as the record.
func (q *Sequencer) haltNow(phase Phase, cause FaultCause) (Phase, FaultRecord, bool) {
	count := q.s.p.Encoders.Read().Translational
	ph, rec := q.halt(phase, cause, count)
	return ph, rec, true
}

func (q *Sequencer) halt(phase Phase, cause FaultCause, count uint16) (Phase, FaultRecord) {
	s := q.s
	s.brakeAll()
	rec := newFaultRecord(count, cause)
	snap := s.snap
	snap.Translational = count
	s.emit(Event{Kind: EventFault, Phase: s.phase, Snapshot: snap, Cause: cause})
	s.setPhase(phase)
	return phase, rec
}
