package drill

import (
	"context"

	"soildrill/core"
)

// Recovery retracts the drill to a fault record after a fault or
// override. It never consults the aggregator.
type Recovery struct {
	s *session
}

// NewRecovery returns a standalone recovery handler.
func NewRecovery(cfg Config, p *core.Peripherals, rep Reporter) *Recovery {
	return &Recovery{s: newSession(cfg, p, rep)}
}

// Run brakes, waits the kill-confirmation window and then retracts until
// the translational count reaches the record. rec is consumed.
func (r *Recovery) Run(ctx context.Context, rec *FaultRecord) RecoveryResult {
	s := r.s
	s.brakeAll()
	s.p.Indicators.Set(core.IndicatorError, true)
	target, ok := rec.Take()

	if r.killConfirmed(ctx) {
		s.fullDisable()
		return r.finish(RecoveryKilled)
	}
	if !ok || target == 0 {
		return r.finish(RecoverySkipped)
	}

	w := s.cfg.Wiring
	s.restartCounts()
	if s.phase != PhaseRetracting {
		s.setPhase(PhaseRetracting)
	}
	s.drive(w.AscendRotational, w.AscendTranslational)
	if s.remote() == core.RemoteOff {
		return r.kill()
	}

	for {
		if ctx.Err() != nil {
			return r.kill()
		}
		s.p.Clock.Wait(s.cfg.PollInterval)

		if s.remote() == core.RemoteOff {
			return r.kill()
		}

		s.sample()
		if s.snap.Translational >= target {
			s.brakeAll()
			s.p.Encoders.Clear()
			return r.finish(RecoveryRetracted)
		}
		if s.snap.TranslationalStalled() {
			s.brakeAll()
			s.fullDisable()
			return r.finish(RecoveryStalled)
		}
	}
}

// killConfirmed polls the remote for the kill window. It returns true as
// soon as the remote reads OFF or ctx is cancelled.
func (r *Recovery) killConfirmed(ctx context.Context) bool {
	s := r.s
	var waited uint32
	for {
		if ctx.Err() != nil || s.remote() == core.RemoteOff {
			return true
		}
		if waited >= s.cfg.KillWindow {
			return false
		}
		s.p.Clock.Wait(s.cfg.PollInterval)
		waited += s.cfg.PollInterval
	}
}

// kill stops a retraction in progress.
func (r *Recovery) kill() RecoveryResult {
	r.s.brakeAll()
	r.s.fullDisable()
	return r.finish(RecoveryKilled)
}

func (r *Recovery) finish(res RecoveryResult) RecoveryResult {
	r.s.emit(Event{Kind: EventRecovery, Phase: r.s.phase, Snapshot: r.s.snap, Recovery: res})
	return res
}
