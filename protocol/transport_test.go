package protocol

import (
	"testing"
)

type sentCommand struct {
	id   uint16
	args []byte
}

func newDeviceTransport() (*Transport, *ScratchOutput, *[]sentCommand) {
	out := NewScratchOutput()
	var got []sentCommand
	tr := NewTransport(out, func(id uint16, data *[]byte) error {
		arg, err := DecodeVLQUint(data)
		if err != nil {
			return err
		}
		got = append(got, sentCommand{id: id, args: []byte{byte(arg)}})
		return nil
	})
	return tr, out, &got
}

func command(seq uint8, id, arg uint32) []byte {
	out := NewScratchOutput()
	WriteFrame(out, seq, func(o OutputBuffer) {
		EncodeVLQUint(o, id)
		EncodeVLQUint(o, arg)
	})
	return append([]byte(nil), out.Result()...)
}

func parseAll(t *testing.T, data []byte) []Frame {
	t.Helper()
	var frames []Frame
	var d Deframer
	if n := d.Feed(data, func(f Frame) { frames = append(frames, f) }); n != len(data) {
		t.Fatalf("Expected all output to be frames, consumed %d of %d", n, len(data))
	}
	return frames
}

func TestTransportDispatchesAndAcks(t *testing.T) {
	tr, out, got := newDeviceTransport()

	in := NewSliceInputBuffer(append(command(SeqDest, 3, 42), command(0x11, 4, 43)...))
	tr.Receive(in)

	if in.Available() != 0 {
		t.Errorf("Expected input consumed, %d bytes left", in.Available())
	}
	if len(*got) != 2 || (*got)[0].id != 3 || (*got)[1].args[0] != 43 {
		t.Errorf("Unexpected commands %+v", *got)
	}
	acks := parseAll(t, out.Result())
	if len(acks) != 2 || acks[0].Seq != 0x11 || acks[1].Seq != 0x12 {
		t.Errorf("Unexpected acks %+v", acks)
	}
	if tr.Seq() != 0x12 {
		t.Errorf("Expected next sequence 0x12, got 0x%02x", tr.Seq())
	}
}

func TestTransportIgnoresOutOfSequence(t *testing.T) {
	tr, out, got := newDeviceTransport()
	tr.Receive(NewSliceInputBuffer(command(SeqDest, 1, 1)))
	out.Reset()

	// repeat of an already handled frame
	tr.Receive(NewSliceInputBuffer(command(0x15, 1, 1)))
	if len(*got) != 1 {
		t.Errorf("Expected the out of sequence frame dropped, got %d commands", len(*got))
	}
	acks := parseAll(t, out.Result())
	if len(acks) != 1 || acks[0].Seq != 0x11 {
		t.Errorf("Expected a NAK carrying 0x11, got %+v", acks)
	}
}

func TestTransportHostRestart(t *testing.T) {
	tr, _, got := newDeviceTransport()
	resets := 0
	tr.SetResetCallback(func() { resets++ })

	tr.Receive(NewSliceInputBuffer(command(SeqDest, 1, 1)))
	tr.Receive(NewSliceInputBuffer(command(SeqDest, 2, 2)))
	if resets != 1 {
		t.Errorf("Expected one reset, got %d", resets)
	}
	if len(*got) != 2 {
		t.Errorf("Expected the restarted frame handled, got %d commands", len(*got))
	}
}

func TestTransportPartialFrame(t *testing.T) {
	tr, _, got := newDeviceTransport()
	raw := command(SeqDest, 9, 9)

	in := NewFifoBuffer(64)
	in.Write(raw[:4])
	tr.Receive(in)
	if len(*got) != 0 || in.Available() != 4 {
		t.Fatal("Expected a partial frame to wait")
	}
	in.Write(raw[4:])
	tr.Receive(in)
	if len(*got) != 1 {
		t.Errorf("Expected the completed frame handled, got %d", len(*got))
	}
}

func TestTransportResyncAcks(t *testing.T) {
	tr, out, _ := newDeviceTransport()
	flushes := 0
	tr.SetFlushCallback(func() { flushes++ })

	bad := command(SeqDest, 1, 1)
	bad[2] ^= 0xFF // corrupt payload, CRC mismatch
	tr.Receive(NewSliceInputBuffer(bad))

	if len(parseAll(t, out.Result())) != 1 {
		t.Error("Expected an ack after resynchronizing on the trailing sync byte")
	}
	if flushes != 1 {
		t.Errorf("Expected one flush, got %d", flushes)
	}
}

func TestTransportSend(t *testing.T) {
	tr, out, _ := newDeviceTransport()
	tr.Send(12, func(o OutputBuffer) { EncodeVLQUint(o, 500) })

	frames := parseAll(t, out.Result())
	if len(frames) != 1 {
		t.Fatalf("Expected one frame, got %d", len(frames))
	}
	payload := frames[0].Payload
	id, _ := DecodeVLQUint(&payload)
	v, _ := DecodeVLQUint(&payload)
	if id != 12 || v != 500 {
		t.Errorf("Expected message 12 with 500, got %d with %d", id, v)
	}
}
