package protocol

import (
	"errors"
	"net"
	"testing"
	"time"
)

// runDevice serves a device Transport on conn until it is closed. Every
// command is answered with message 100 carrying the argument plus one.
func runDevice(conn net.Conn) {
	out := NewScratchOutput()
	var tr *Transport
	tr = NewTransport(out, func(id uint16, data *[]byte) error {
		v, err := DecodeVLQUint(data)
		if err != nil {
			return err
		}
		tr.Send(100, func(o OutputBuffer) { EncodeVLQUint(o, v+1) })
		return nil
	})
	in := NewFifoBuffer(256)
	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		in.Write(buf[:n])
		tr.Receive(in)
		if out.CurPosition() > 0 {
			if _, err := conn.Write(out.Result()); err != nil {
				return
			}
			out.Reset()
		}
	}
}

func TestHostTransportRoundTrip(t *testing.T) {
	host, dev := net.Pipe()
	go runDevice(dev)
	defer dev.Close()

	ht := NewHostTransport(host)
	defer ht.Close()

	seen := make(chan Message, 4)
	ht.SetResponseHandler(func(m Message) { seen <- m })

	for i := uint32(0); i < 3; i++ {
		if err := ht.SendCommand(7, func(o OutputBuffer) { EncodeVLQUint(o, 10*i) }); err != nil {
			t.Fatalf("SendCommand %d failed: %v", i, err)
		}
		msg, err := ht.ReceiveResponse(time.Second)
		if err != nil {
			t.Fatalf("ReceiveResponse failed: %v", err)
		}
		args := msg.Args
		v, _ := DecodeVLQUint(&args)
		if msg.ID != 100 || v != 10*i+1 {
			t.Errorf("Expected message 100 with %d, got %d with %d", 10*i+1, msg.ID, v)
		}
	}
	if ht.Seq() != 0x13 {
		t.Errorf("Expected sequence 0x13 after three commands, got 0x%02x", ht.Seq())
	}
	if len(seen) != 3 {
		t.Errorf("Expected the handler to see 3 messages, got %d", len(seen))
	}
}

func TestHostTransportAckTimeout(t *testing.T) {
	host, dev := net.Pipe()
	defer dev.Close()
	go func() {
		// swallow everything, never acknowledge
		buf := make([]byte, 64)
		for {
			if _, err := dev.Read(buf); err != nil {
				return
			}
		}
	}()

	ht := NewHostTransport(host)
	defer ht.Close()

	err := ht.SendCommandWithTimeout(1, nil, 20*time.Millisecond)
	if !errors.Is(err, ErrAckTimeout) {
		t.Errorf("Expected ErrAckTimeout, got %v", err)
	}
	if ht.Seq() != SeqDest {
		t.Errorf("Expected the sequence unchanged, got 0x%02x", ht.Seq())
	}
}

func TestHostTransportClose(t *testing.T) {
	host, dev := net.Pipe()
	defer dev.Close()
	ht := NewHostTransport(host)

	if err := ht.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := ht.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if _, err := ht.ReceiveResponse(time.Second); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}
