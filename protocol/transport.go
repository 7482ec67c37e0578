package protocol

import "sync/atomic"

// CommandHandler runs one decoded command. data holds the arguments and
// is advanced past what the handler consumed.
type CommandHandler func(cmdID uint16, data *[]byte) error

// Transport is the device end of the link. It acknowledges every frame
// with the next expected sequence and dispatches in-sequence frames to
// the handler.
type Transport struct {
	nextSeq  uint32 // atomic
	deframer Deframer
	output   OutputBuffer
	handler  CommandHandler
	onReset  func()
	flush    func()
}

func NewTransport(output OutputBuffer, handler CommandHandler) *Transport {
	t := &Transport{
		nextSeq: SeqDest,
		output:  output,
		handler: handler,
	}
	t.deframer.OnResync = t.ack
	return t
}

// Receive consumes complete frames from input.
func (t *Transport) Receive(input InputBuffer) {
	n := t.deframer.Feed(input.Data(), t.handleFrame)
	if n > 0 {
		input.Pop(n)
	}
}

func (t *Transport) handleFrame(f Frame) {
	expected := t.Seq()
	// a host restart begins again at SeqDest
	if f.Seq == SeqDest && expected != SeqDest {
		atomic.StoreUint32(&t.nextSeq, SeqDest)
		expected = SeqDest
		if t.onReset != nil {
			t.onReset()
		}
	}
	if f.Seq == expected {
		atomic.StoreUint32(&t.nextSeq, uint32(NextSeq(f.Seq)))
		t.dispatch(f.Payload)
	}
	// out of sequence frames are answered with the expected sequence
	t.ack()
}

func (t *Transport) dispatch(payload []byte) {
	defer func() {
		if recover() != nil {
			t.deframer.lost = true
		}
	}()
	for len(payload) > 0 {
		id, err := DecodeVLQUint(&payload)
		if err != nil {
			t.deframer.lost = true
			return
		}
		if t.handler == nil {
			return
		}
		if err := t.handler(uint16(id), &payload); err != nil {
			return
		}
	}
}

func (t *Transport) ack() {
	WriteFrame(t.output, t.Seq(), nil)
	if t.flush != nil {
		t.flush()
	}
}

// Seq returns the next sequence expected from the host.
func (t *Transport) Seq() uint8 {
	return uint8(atomic.LoadUint32(&t.nextSeq))
}

// Send writes a message frame: the message ID followed by its arguments.
func (t *Transport) Send(msgID uint16, args func(out OutputBuffer)) {
	WriteFrame(t.output, t.Seq(), func(out OutputBuffer) {
		EncodeVLQUint(out, uint32(msgID))
		if args != nil {
			args(out)
		}
	})
}

// Reset returns to the power-on state, for example after a USB reconnect.
func (t *Transport) Reset() {
	t.deframer.Reset()
	atomic.StoreUint32(&t.nextSeq, SeqDest)
	if t.onReset != nil {
		t.onReset()
	}
}

// SetResetCallback registers fn to run when the host restarts its
// sequence.
func (t *Transport) SetResetCallback(fn func()) {
	t.onReset = fn
}

// SetFlushCallback registers fn to push acknowledgements out at once.
func (t *Transport) SetFlushCallback(fn func()) {
	t.flush = fn
}
