package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrAckTimeout      = errors.New("protocol: acknowledge timeout")
	ErrResponseTimeout = errors.New("protocol: response timeout")
	ErrClosed          = errors.New("protocol: transport closed")
)

// Message is a decoded frame received by the host.
type Message struct {
	Seq  uint8
	ID   uint16
	Args []byte
}

// ResponseHandler sees every message as it arrives. It runs on the read
// goroutine and must not block.
type ResponseHandler func(msg Message)

// HostTransport is the host end of the link: it sends commands, waits for
// the matching acknowledge and queues incoming messages.
type HostTransport struct {
	port io.ReadWriteCloser
	seq  uint32 // atomic

	writeMu sync.Mutex
	readMu  sync.Mutex
	in      *FifoBuffer
	frames  Deframer

	acks      chan uint8
	responses chan Message
	handler   atomic.Value // ResponseHandler

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewHostTransport starts reading from port in the background.
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:      port,
		seq:       SeqDest,
		in:        NewFifoBuffer(OutputBufferSize),
		acks:      make(chan uint8, 1),
		responses: make(chan Message, 64),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go t.readLoop()
	return t
}

// SetResponseHandler installs fn for every received message.
func (t *HostTransport) SetResponseHandler(fn ResponseHandler) {
	t.handler.Store(fn)
}

// SendCommand sends a command and waits up to two seconds for its
// acknowledge.
func (t *HostTransport) SendCommand(cmdID uint16, args func(out OutputBuffer)) error {
	return t.SendCommandWithTimeout(cmdID, args, 2*time.Second)
}

func (t *HostTransport) SendCommandWithTimeout(cmdID uint16, args func(out OutputBuffer), timeout time.Duration) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	seq := t.Seq()
	out := NewScratchOutput()
	WriteFrame(out, seq, func(o OutputBuffer) {
		EncodeVLQUint(o, uint32(cmdID))
		if args != nil {
			args(o)
		}
	})
	frame := out.Result()
	if len(frame) > FrameMaxSize {
		return fmt.Errorf("command %d: %w (%d bytes)", cmdID, ErrPayloadTooLarge, len(frame))
	}

	// drop a stale acknowledge from an earlier resync
	select {
	case <-t.acks:
	default:
	}

	if n, err := t.port.Write(frame); err != nil {
		return fmt.Errorf("write command %d: %w", cmdID, err)
	} else if n != len(frame) {
		return fmt.Errorf("write command %d: short write %d/%d", cmdID, n, len(frame))
	}

	want := NextSeq(seq)
	select {
	case got := <-t.acks:
		if got != want {
			return fmt.Errorf("command %d: expected ack 0x%02x, got 0x%02x", cmdID, want, got)
		}
		atomic.StoreUint32(&t.seq, uint32(want))
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("command %d: %w after %v", cmdID, ErrAckTimeout, timeout)
	case <-t.stop:
		return ErrClosed
	}
}

// ReceiveResponse returns the next queued message.
func (t *HostTransport) ReceiveResponse(timeout time.Duration) (Message, error) {
	select {
	case msg := <-t.responses:
		return msg, nil
	case <-time.After(timeout):
		return Message{}, fmt.Errorf("%w after %v", ErrResponseTimeout, timeout)
	case <-t.stop:
		return Message{}, ErrClosed
	}
}

// Seq returns the sequence of the next command.
func (t *HostTransport) Seq() uint8 {
	return uint8(atomic.LoadUint32(&t.seq))
}

func (t *HostTransport) readLoop() {
	defer close(t.done)
	buf := make([]byte, 256)
	for {
		select {
		case <-t.stop:
			return
		default:
		}

		n, err := t.port.Read(buf)
		if n > 0 {
			t.feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (t *HostTransport) feed(data []byte) {
	t.readMu.Lock()
	defer t.readMu.Unlock()

	for len(data) > 0 {
		w := t.in.Write(data)
		data = data[w:]
		consumed := t.frames.Feed(t.in.Data(), t.dispatch)
		t.in.Pop(consumed)
		if w == 0 && consumed == 0 {
			// a full ring that holds no frame is garbage
			t.in.Reset()
			t.frames.lost = true
		}
	}
}

func (t *HostTransport) dispatch(f Frame) {
	if len(f.Payload) == 0 {
		select {
		case t.acks <- f.Seq:
		default:
		}
		return
	}

	payload := append([]byte(nil), f.Payload...)
	id, err := DecodeVLQUint(&payload)
	if err != nil {
		return
	}
	msg := Message{Seq: f.Seq, ID: uint16(id), Args: payload}

	if fn, ok := t.handler.Load().(ResponseHandler); ok && fn != nil {
		fn(msg)
	}
	select {
	case t.responses <- msg:
	default:
		// drop the oldest to keep the newest
		select {
		case <-t.responses:
		default:
		}
		t.responses <- msg
	}
}

// Reset clears sequence, input and queued messages.
func (t *HostTransport) Reset() {
	t.readMu.Lock()
	t.in.Reset()
	t.frames.Reset()
	t.readMu.Unlock()

	atomic.StoreUint32(&t.seq, SeqDest)
	for len(t.acks) > 0 {
		<-t.acks
	}
	for len(t.responses) > 0 {
		<-t.responses
	}
}

// Close stops the reader and closes the port.
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stop)
		err = t.port.Close()
		<-t.done
	})
	return err
}
