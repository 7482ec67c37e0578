package telemetry

import (
	"errors"
	"fmt"
	"strings"

	"soildrill/core"
	"soildrill/drill"
	"soildrill/protocol"
)

var ErrUnknownMessage = errors.New("telemetry: unknown message")

var argCounts = map[string]int{
	DrillStatus:   7,
	DrillPhase:    3,
	DrillSample:   4,
	DrillFault:    3,
	DrillRecovery: 3,
	DrillOutcome:  2,
	DrillEvent:    4,
}

// Update is one decoded device message. At most one of Event, Status and
// Ring is set; messages without drill content carry only Name.
type Update struct {
	Name   string
	Event  *drill.Event
	Status *drill.Status
	Ring   *core.RingEvent
}

// Decoder maps response IDs to names using the device dictionary.
type Decoder struct {
	names map[uint16]string
}

// NewDecoder takes the dictionary response table. Keys may carry the
// argument format after the name, as the device publishes them.
func NewDecoder(responses map[string]int) *Decoder {
	d := &Decoder{names: make(map[uint16]string, len(responses))}
	for key, id := range responses {
		name, _, _ := strings.Cut(key, " ")
		d.names[uint16(id)] = name
	}
	return d
}

// Name returns the message name for id.
func (d *Decoder) Name(id uint16) (string, bool) {
	name, ok := d.names[id]
	return name, ok
}

// Decode turns a received message into an Update.
func (d *Decoder) Decode(msg protocol.Message) (Update, error) {
	name, ok := d.names[msg.ID]
	if !ok {
		return Update{}, fmt.Errorf("%w: id %d", ErrUnknownMessage, msg.ID)
	}
	args := append([]byte(nil), msg.Args...)
	n, ok := argCounts[name]
	if !ok {
		return Update{Name: name}, nil
	}
	v, err := decodeArgs(&args, n)
	if err != nil {
		return Update{}, fmt.Errorf("decode %s: %w", name, err)
	}

	u := Update{Name: name}
	switch name {
	case DrillStatus:
		u.Status = &drill.Status{
			Cycle: v[0],
			Phase: drill.Phase(v[1]),
			Snapshot: drill.EncoderSnapshot{
				Translational: uint16(v[2]),
				Rotational:    uint16(v[3]),
			},
			LastOutcome: drill.Outcome(v[4]),
			Completed:   v[5],
			Failed:      v[6],
		}
	case DrillPhase:
		u.Event = &drill.Event{Kind: drill.EventPhase, Cycle: v[0], Clock: v[1], Phase: drill.Phase(v[2])}
	case DrillSample:
		u.Event = &drill.Event{
			Kind:  drill.EventSample,
			Clock: v[0],
			Snapshot: drill.EncoderSnapshot{
				Translational: uint16(v[1]),
				Rotational:    uint16(v[2]),
			},
			Verdict: drill.VerdictFromBits(uint8(v[3])),
		}
	case DrillFault:
		u.Event = &drill.Event{Kind: drill.EventFault, Cycle: v[0], Cause: drill.FaultCause(v[1])}
		u.Event.Snapshot.Translational = uint16(v[2])
	case DrillRecovery:
		u.Event = &drill.Event{Kind: drill.EventRecovery, Cycle: v[0], Recovery: drill.RecoveryResult(v[1])}
		u.Event.Snapshot.Translational = uint16(v[2])
	case DrillOutcome:
		u.Event = &drill.Event{Kind: drill.EventOutcome, Cycle: v[0], Outcome: drill.Outcome(v[1])}
	case DrillEvent:
		u.Ring = &core.RingEvent{Kind: uint8(v[0]), Clock: v[1], Value1: v[2], Value2: v[3]}
	}
	return u, nil
}

func decodeArgs(data *[]byte, n int) ([]uint32, error) {
	v := make([]uint32, n)
	for i := range v {
		x, err := protocol.DecodeVLQUint(data)
		if err != nil {
			return nil, err
		}
		v[i] = x
	}
	return v, nil
}
