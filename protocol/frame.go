package protocol

import "errors"

var (
	ErrShortFrame      = errors.New("protocol: incomplete frame")
	ErrBadFrame        = errors.New("protocol: corrupt frame")
	ErrPayloadTooLarge = errors.New("protocol: payload exceeds frame size")
)

// Frame is a validated frame. Payload aliases the input.
type Frame struct {
	Seq     uint8
	Payload []byte
}

// ParseFrame validates the frame at the start of data. It returns
// ErrShortFrame when more bytes are needed and ErrBadFrame when the
// stream is corrupt at this position.
func ParseFrame(data []byte) (Frame, int, error) {
	if len(data) < FrameMinSize {
		return Frame{}, 0, ErrShortFrame
	}
	n := int(data[0])
	if n < FrameMinSize || n > FrameMaxSize {
		return Frame{}, 0, ErrBadFrame
	}
	if data[1]&^SeqMask != SeqDest {
		return Frame{}, 0, ErrBadFrame
	}
	if len(data) < n {
		return Frame{}, 0, ErrShortFrame
	}
	if data[n-1] != SyncByte {
		return Frame{}, 0, ErrBadFrame
	}
	crc := crcBytes(CRC16(data[:n-FrameTrailerSize]))
	if data[n-3] != crc[0] || data[n-2] != crc[1] {
		return Frame{}, 0, ErrBadFrame
	}
	return Frame{Seq: data[1], Payload: data[FrameHeaderSize : n-FrameTrailerSize]}, n, nil
}

// WriteFrame appends a frame with sequence seq to out. payload may be
// nil for an empty (acknowledge) frame.
func WriteFrame(out OutputBuffer, seq uint8, payload func(OutputBuffer)) {
	start := out.CurPosition()
	out.Output([]byte{0, seq})
	if payload != nil {
		payload(out)
	}
	out.Update(start, byte(len(out.DataSince(start))+FrameTrailerSize))
	crc := crcBytes(CRC16(out.DataSince(start)))
	out.Output([]byte{crc[0], crc[1], SyncByte})
}

// Deframer pulls frames out of a byte stream. After a corrupt frame it
// drops bytes up to the next sync byte.
type Deframer struct {
	lost bool

	// OnResync runs when a sync byte is found after corruption.
	OnResync func()
}

// Synchronized reports whether the stream is currently aligned.
func (d *Deframer) Synchronized() bool {
	return !d.lost
}

// Reset marks the stream aligned.
func (d *Deframer) Reset() {
	d.lost = false
}

// Feed calls fn for each complete frame in data and returns how many
// bytes were consumed. Trailing partial frames are left in place.
func (d *Deframer) Feed(data []byte, fn func(Frame)) int {
	total := len(data)
	for len(data) > 0 {
		if d.lost {
			i := indexSync(data)
			if i < 0 {
				data = data[len(data):]
				break
			}
			data = data[i+1:]
			d.lost = false
			if d.OnResync != nil {
				d.OnResync()
			}
			continue
		}
		if data[0] == SyncByte {
			data = data[1:]
			continue
		}
		f, n, err := ParseFrame(data)
		if errors.Is(err, ErrShortFrame) {
			break
		}
		if err != nil {
			d.lost = true
			continue
		}
		data = data[n:]
		fn(f)
	}
	return total - len(data)
}

func indexSync(data []byte) int {
	for i, b := range data {
		if b == SyncByte {
			return i
		}
	}
	return -1
}
