package drill

import (
	"context"

	"soildrill/core"
)

// Controller repeats drilling cycles, one per remote enable.
type Controller struct {
	s   *session
	seq *Sequencer
	rec *Recovery

	lastOutcome Outcome
	completed   uint32
	failed      uint32
}

// NewController validates cfg and p and builds the cycle controller.
func NewController(cfg Config, p *core.Peripherals, rep Reporter) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := newSession(cfg, p, rep)
	return &Controller{
		s:   s,
		seq: &Sequencer{s: s, agg: NewAggregator(cfg, p)},
		rec: &Recovery{s: s},
	}, nil
}

// Run executes cycles until ctx is done and returns ctx.Err().
func (c *Controller) Run(ctx context.Context) error {
	for {
		if _, err := c.RunCycle(ctx); err != nil {
			return err
		}
	}
}

// Status returns the current cycle counter, phase and counts.
func (c *Controller) Status() Status {
	return Status{
		Cycle:       c.s.cycle,
		Phase:       c.s.phase,
		Snapshot:    c.s.snap,
		LastOutcome: c.lastOutcome,
		Completed:   c.completed,
		Failed:      c.failed,
	}
}

// WaitForEnable polls the remote until it reads ENABLED.
func (c *Controller) WaitForEnable(ctx context.Context) error {
	return c.waitRemote(ctx, func(st core.RemoteState) bool { return st == core.RemoteEnabled })
}

func (c *Controller) waitRemote(ctx context.Context, done func(core.RemoteState) bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if done(c.s.remote()) {
			return nil
		}
		c.s.p.Clock.Wait(c.s.cfg.EnablePoll)
	}
}

// RunCycle waits for the remote, runs one drilling cycle and signals the
// outcome. The error is non-nil only if ctx ended before the cycle
// started.
func (c *Controller) RunCycle(ctx context.Context) (CycleReport, error) {
	s := c.s
	if s.cfg.Rearm && s.cycle > 0 {
		err := c.waitRemote(ctx, func(st core.RemoteState) bool { return st != core.RemoteEnabled })
		if err != nil {
			return CycleReport{}, err
		}
	}
	if err := c.WaitForEnable(ctx); err != nil {
		return CycleReport{}, err
	}

	s.cycle++
	s.disabled = false
	s.snap.Reset()
	s.phase = PhaseIdle
	report := CycleReport{Cycle: s.cycle, Outcome: OutcomeError, Phase: PhaseIdle}

	for lamp := core.Indicator(0); lamp < core.IndicatorCount; lamp++ {
		s.p.Indicators.Set(lamp, false)
	}
	s.show("READY", "CYCLE "+core.Utoa(s.cycle))

	if err := s.p.Platform.InitAll(); err != nil {
		core.DebugPrintln("[DRILL] init failed: " + err.Error())
		report.InitFailed = true
		s.emit(Event{Kind: EventInitFailed})
	} else {
		s.show("DRILLING", "CYCLE "+core.Utoa(s.cycle))
		report.Phase, report.Fault = c.seq.Run(ctx)
		switch {
		case report.Phase == PhaseDone:
			report.Outcome = OutcomeComplete
		case report.Fault.Cause == CauseCancelled:
			s.p.Indicators.Set(core.IndicatorError, true)
		default:
			s.show("RECOVERY", report.Fault.Cause.String())
			report.Recovery = c.rec.Run(ctx, &report.Fault)
		}
	}

	c.signal(report)
	s.fullDisable()
	return report, nil
}

func (c *Controller) signal(report CycleReport) {
	s := c.s
	s.p.Indicators.Set(core.IndicatorMotor, false)
	c.lastOutcome = report.Outcome
	line2 := "CYCLE " + core.Utoa(report.Cycle) + " T=" + core.Utoa(uint32(report.Fault.Translational))

	if report.Outcome == OutcomeComplete {
		c.completed++
		s.p.Indicators.Set(core.IndicatorError, false)
		s.p.Indicators.Set(core.IndicatorComplete, true)
		s.show("COMPLETE", "CYCLE "+core.Utoa(report.Cycle))
		s.emit(Event{Kind: EventOutcome, Phase: s.phase, Outcome: OutcomeComplete})
		return
	}

	c.failed++
	s.p.Indicators.Set(core.IndicatorComplete, false)
	s.p.Indicators.Set(core.IndicatorError, true)
	switch {
	case report.InitFailed:
		s.show("INIT FAILED", "CYCLE "+core.Utoa(report.Cycle))
	case report.Recovery == RecoveryKilled:
		s.show("KILLED", line2)
	case report.Recovery == RecoveryStalled:
		s.show("STALLED", line2)
	default:
		s.show("ERROR", line2)
	}
	s.emit(Event{Kind: EventOutcome, Phase: s.phase, Outcome: OutcomeError})
	core.DumpEventRing(EventKindName)
}
