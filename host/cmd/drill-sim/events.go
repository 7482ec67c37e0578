package main

import (
	"github.com/rs/zerolog"

	"soildrill/core"
	"soildrill/drill"
	"soildrill/sim"
)

type eventLogger struct {
	log zerolog.Logger
	rig *sim.Rig
}

func newEventLogger(log zerolog.Logger, rig *sim.Rig) drill.Reporter {
	return &eventLogger{log: log, rig: rig}
}

func (l *eventLogger) Report(ev drill.Event) {
	var e *zerolog.Event
	switch ev.Kind {
	case drill.EventSample:
		e = l.log.Debug().
			Uint16("trans", ev.Snapshot.Translational).
			Uint16("rotat", ev.Snapshot.Rotational).
			Uint8("verdict", ev.Verdict.Bits())
	case drill.EventPhase:
		e = l.log.Info().Str("phase", ev.Phase.String())
	case drill.EventFault:
		e = l.log.Warn().
			Str("cause", ev.Cause.String()).
			Uint16("trans", ev.Snapshot.Translational)
	case drill.EventRecovery:
		e = l.log.Warn().
			Str("result", ev.Recovery.String()).
			Uint16("trans", ev.Snapshot.Translational)
	case drill.EventOutcome:
		e = l.log.Info().Str("outcome", ev.Outcome.String())
	case drill.EventInitFailed:
		e = l.log.Error()
	default:
		e = l.log.Info()
	}
	e.Uint32("cycle", ev.Cycle).
		Uint32("ms", core.TimerToMS(ev.Clock)).
		Bool("engaged", l.rig.Engaged()).
		Msg(ev.Kind.String())
}
