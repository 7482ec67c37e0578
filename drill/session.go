package drill

import "soildrill/core"

// session is the state shared by the sequencer, the recovery handler and
// the controller of one rig.
type session struct {
	cfg Config
	p   *core.Peripherals
	rep Reporter

	cycle    uint32
	phase    Phase
	snap     EncoderSnapshot
	disabled bool
}

func newSession(cfg Config, p *core.Peripherals, rep Reporter) *session {
	return &session{cfg: cfg, p: p, rep: rep}
}

// emit stamps ev and records it. Samples only go to the reporter so the
// ring keeps the state changes leading up to a fault.
func (s *session) emit(ev Event) {
	ev.Cycle = s.cycle
	ev.Clock = s.p.Clock.Now()
	if ev.Kind != EventSample {
		v1, v2 := ev.RingValues()
		core.RecordEvent(uint8(ev.Kind), ev.Clock, v1, v2)
	}
	if s.rep != nil {
		s.rep.Report(ev)
	}
}

func (s *session) setPhase(p Phase) {
	s.phase = p
	s.emit(Event{Kind: EventPhase, Phase: p})
}

func (s *session) drive(rot, trans core.Direction) {
	s.p.Motors.Drive(core.AxisRotational, rot)
	s.p.Motors.Drive(core.AxisTranslational, trans)
	s.p.Indicators.Set(core.IndicatorMotor, true)
}

func (s *session) brakeAll() {
	s.p.Motors.Brake(core.AxisRotational)
	s.p.Motors.Brake(core.AxisTranslational)
	s.p.Indicators.Set(core.IndicatorMotor, false)
}

// restartCounts clears the hardware counters and the snapshot.
func (s *session) restartCounts() {
	s.p.Encoders.Clear()
	s.snap.Reset()
}

func (s *session) sample() {
	s.snap.Advance(s.p.Encoders.Read())
}

func (s *session) remote() core.RemoteState {
	return s.p.Remote.State()
}

func (s *session) show(line1, line2 string) {
	if s.p.Display != nil {
		s.p.Display.Show(line1, line2)
	}
}

// fullDisable stops every actuator and interrupt source. It runs at most
// once per cycle.
func (s *session) fullDisable() {
	if s.disabled {
		return
	}
	s.disabled = true
	s.p.Encoders.Clear()
	s.p.Encoders.Stop()
	s.p.Motors.DisableAll()
	s.p.Vibration.Disable()
	s.p.Indicators.Set(core.IndicatorMotor, false)
	s.emit(Event{Kind: EventDisable})
}
