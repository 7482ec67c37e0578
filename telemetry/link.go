package telemetry

import (
	"soildrill/core"
	"soildrill/drill"
	"soildrill/protocol"
)

// StatusSource provides the answer to get_status.
type StatusSource interface {
	Status() drill.Status
}

// Link is the device end of the telemetry link. It implements
// drill.Reporter.
type Link struct {
	reg    *core.CommandRegistry
	tr     *protocol.Transport
	out    *protocol.ScratchOutput
	flush  func()
	status StatusSource

	statusID   uint16
	phaseID    uint16
	sampleID   uint16
	faultID    uint16
	recoveryID uint16
	outcomeID  uint16
	eventID    uint16
}

// NewLink registers the telemetry messages and writes frames to out.
// flush, if set, must empty out; it is called when out runs short.
func NewLink(out *protocol.ScratchOutput, flush func(), version string) *Link {
	l := &Link{
		reg:   core.NewCommandRegistry(version),
		out:   out,
		flush: flush,
	}
	l.reg.RegisterResponse(IdentifyResponse, formats[IdentifyResponse])
	l.reg.Register(Identify, formats[Identify], l.handleIdentify)
	l.reg.Register(GetStatus, formats[GetStatus], l.handleGetStatus)
	l.reg.Register(DumpEvents, formats[DumpEvents], l.handleDumpEvents)

	l.statusID = l.reg.RegisterResponse(DrillStatus, formats[DrillStatus])
	l.phaseID = l.reg.RegisterResponse(DrillPhase, formats[DrillPhase])
	l.sampleID = l.reg.RegisterResponse(DrillSample, formats[DrillSample])
	l.faultID = l.reg.RegisterResponse(DrillFault, formats[DrillFault])
	l.recoveryID = l.reg.RegisterResponse(DrillRecovery, formats[DrillRecovery])
	l.outcomeID = l.reg.RegisterResponse(DrillOutcome, formats[DrillOutcome])
	l.eventID = l.reg.RegisterResponse(DrillEvent, formats[DrillEvent])

	l.reg.AddConstant("CLOCK_FREQ", core.Utoa(core.TimerFreq))
	l.tr = protocol.NewTransport(out, l.reg.Dispatch)
	l.tr.SetFlushCallback(flush)
	return l
}

// Publish adds the drill thresholds to the dictionary config section.
func (l *Link) Publish(cfg drill.Config) {
	l.reg.AddConstant("TARGET_TICKS", core.Utoa(uint32(cfg.TargetTicks)))
	l.reg.AddConstant("POLL_INTERVAL", core.Utoa(cfg.PollInterval))
	l.reg.AddConstant("KILL_WINDOW", core.Utoa(cfg.KillWindow))
	l.reg.AddConstant("OBSTACLE_MIN", core.Utoa(uint32(cfg.ObstacleMin)))
	l.reg.AddConstant("OBSTACLE_MAX", core.Utoa(uint32(cfg.ObstacleMax)))
}

// SetStatusSource sets what get_status reports.
func (l *Link) SetStatusSource(s StatusSource) {
	l.status = s
}

func (l *Link) Registry() *core.CommandRegistry {
	return l.reg
}

// Receive handles frames from the host.
func (l *Link) Receive(in protocol.InputBuffer) {
	l.tr.Receive(in)
}

// Reset drops link state after a disconnect.
func (l *Link) Reset() {
	l.tr.Reset()
}

func (l *Link) send(id uint16, args func(out protocol.OutputBuffer)) {
	if l.out.Free() < protocol.FrameMaxSize && l.flush != nil {
		l.flush()
	}
	l.tr.Send(id, args)
}

func (l *Link) handleIdentify(data *[]byte) error {
	offset, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	count, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	if count > IdentifyChunk {
		count = IdentifyChunk
	}
	chunk := l.reg.DictionaryChunk(offset, uint8(count))
	l.send(IdentifyResponseID, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, offset)
		protocol.EncodeVLQBytes(out, chunk)
	})
	return nil
}

func (l *Link) handleGetStatus(data *[]byte) error {
	var st drill.Status
	if l.status != nil {
		st = l.status.Status()
	}
	l.send(l.statusID, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, st.Cycle)
		protocol.EncodeVLQUint(out, uint32(st.Phase))
		protocol.EncodeVLQUint(out, uint32(st.Snapshot.Translational))
		protocol.EncodeVLQUint(out, uint32(st.Snapshot.Rotational))
		protocol.EncodeVLQUint(out, uint32(st.LastOutcome))
		protocol.EncodeVLQUint(out, st.Completed)
		protocol.EncodeVLQUint(out, st.Failed)
	})
	return nil
}

func (l *Link) handleDumpEvents(data *[]byte) error {
	for _, ev := range core.EventRing() {
		l.sendRing(ev)
	}
	return nil
}

func (l *Link) sendRing(ev core.RingEvent) {
	l.send(l.eventID, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, uint32(ev.Kind))
		protocol.EncodeVLQUint(out, ev.Clock)
		protocol.EncodeVLQUint(out, ev.Value1)
		protocol.EncodeVLQUint(out, ev.Value2)
	})
}

// Report sends one drill event to the host.
func (l *Link) Report(ev drill.Event) {
	switch ev.Kind {
	case drill.EventPhase:
		l.send(l.phaseID, func(out protocol.OutputBuffer) {
			protocol.EncodeVLQUint(out, ev.Cycle)
			protocol.EncodeVLQUint(out, ev.Clock)
			protocol.EncodeVLQUint(out, uint32(ev.Phase))
		})
	case drill.EventSample:
		l.send(l.sampleID, func(out protocol.OutputBuffer) {
			protocol.EncodeVLQUint(out, ev.Clock)
			protocol.EncodeVLQUint(out, uint32(ev.Snapshot.Translational))
			protocol.EncodeVLQUint(out, uint32(ev.Snapshot.Rotational))
			protocol.EncodeVLQUint(out, uint32(ev.Verdict.Bits()))
		})
	case drill.EventFault:
		l.send(l.faultID, func(out protocol.OutputBuffer) {
			protocol.EncodeVLQUint(out, ev.Cycle)
			protocol.EncodeVLQUint(out, uint32(ev.Cause))
			protocol.EncodeVLQUint(out, uint32(ev.Snapshot.Translational))
		})
	case drill.EventRecovery:
		l.send(l.recoveryID, func(out protocol.OutputBuffer) {
			protocol.EncodeVLQUint(out, ev.Cycle)
			protocol.EncodeVLQUint(out, uint32(ev.Recovery))
			protocol.EncodeVLQUint(out, uint32(ev.Snapshot.Translational))
		})
	case drill.EventOutcome:
		l.send(l.outcomeID, func(out protocol.OutputBuffer) {
			protocol.EncodeVLQUint(out, ev.Cycle)
			protocol.EncodeVLQUint(out, uint32(ev.Outcome))
		})
	default:
		v1, v2 := ev.RingValues()
		l.sendRing(core.RingEvent{Kind: uint8(ev.Kind), Clock: ev.Clock, Value1: v1, Value2: v2})
	}
}
