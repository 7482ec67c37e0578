package drivers

import (
	"sync/atomic"

	"soildrill/core"
)

// PulseBands are the nominal pulse widths of the three remote states.
type PulseBands struct {
	OffUS       uint32
	EnableUS    uint32
	OverrideUS  uint32
	ToleranceUS uint32
}

// DefaultPulseBands returns the RC receiver bands of the rig remote
func DefaultPulseBands() PulseBands {
	return PulseBands{
		OffUS:       1000,
		EnableUS:    2000,
		OverrideUS:  1500,
		ToleranceUS: 10,
	}
}

func (b PulseBands) within(width, center uint32) bool {
	return width+b.ToleranceUS >= center && width <= center+b.ToleranceUS
}

// Classify maps a pulse width to a state. ok is false for widths outside
// every band.
func (b PulseBands) Classify(widthUS uint32) (state core.RemoteState, ok bool) {
	switch {
	case b.within(widthUS, b.OffUS):
		return core.RemoteOff, true
	case b.within(widthUS, b.EnableUS):
		return core.RemoteEnabled, true
	case b.within(widthUS, b.OverrideUS):
		return core.RemoteOverride, true
	}
	return 0, false
}

// PulseDecoder turns edges of the remote receiver output into a
// core.RemoteState. Edge runs in the pin interrupt; State is read by the
// control loop. A pulse outside every band keeps the previous state.
type PulseDecoder struct {
	bands PulseBands
	now   func() uint32

	riseAt    uint32
	high      bool
	state     uint32
	lastValid uint32

	lossTimeoutUS uint32
	failsafe      core.RemoteState
}

// NewPulseDecoder creates a decoder that starts in RemoteOff. now supplies
// microsecond timestamps for the failsafe check.
func NewPulseDecoder(bands PulseBands, now func() uint32) *PulseDecoder {
	return &PulseDecoder{
		bands:     bands,
		now:       now,
		state:     uint32(core.RemoteOff),
		lastValid: now(),
	}
}

// SetFailsafe makes State report failsafe once no valid pulse has been
// seen for timeoutUS. A zero timeout disables the failsafe.
func (d *PulseDecoder) SetFailsafe(timeoutUS uint32, failsafe core.RemoteState) {
	d.lossTimeoutUS = timeoutUS
	d.failsafe = failsafe
}

// Edge takes a level change of the receiver pin
func (d *PulseDecoder) Edge(high bool, nowUS uint32) {
	if high {
		d.riseAt = nowUS
		d.high = true
		return
	}
	if !d.high {
		return
	}
	d.high = false
	d.Pulse(nowUS-d.riseAt, nowUS)
}

// Pulse applies one measured pulse width
func (d *PulseDecoder) Pulse(widthUS, nowUS uint32) {
	state, ok := d.bands.Classify(widthUS)
	if !ok {
		return
	}
	atomic.StoreUint32(&d.state, uint32(state))
	atomic.StoreUint32(&d.lastValid, nowUS)
}

func (d *PulseDecoder) State() core.RemoteState {
	if d.lossTimeoutUS > 0 {
		if d.now()-atomic.LoadUint32(&d.lastValid) > d.lossTimeoutUS {
			return d.failsafe
		}
	}
	return core.RemoteState(atomic.LoadUint32(&d.state))
}
