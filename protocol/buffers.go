package protocol

// InputBuffer is a queue of received bytes.
type InputBuffer interface {
	Data() []byte
	Available() int
	Pop(n int)
}

// OutputBuffer collects outgoing bytes and allows patching the length
// byte of a frame after its payload is written.
type OutputBuffer interface {
	Output(data []byte)
	CurPosition() int
	Update(pos int, val byte)
	DataSince(pos int) []byte
}

// SliceInputBuffer is an InputBuffer over a fixed slice
type SliceInputBuffer struct {
	data []byte
}

func NewSliceInputBuffer(data []byte) *SliceInputBuffer {
	return &SliceInputBuffer{data: data}
}

func (s *SliceInputBuffer) Data() []byte   { return s.data }
func (s *SliceInputBuffer) Available() int { return len(s.data) }

func (s *SliceInputBuffer) Pop(n int) {
	s.data = s.data[min(n, len(s.data)):]
}

// ScratchOutput is a fixed-size OutputBuffer. Writes past the end are
// truncated.
type ScratchOutput struct {
	buf [OutputBufferSize]byte
	pos int
}

func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos >= 0 && pos < s.pos {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos < 0 || pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns everything written since the last Reset
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Free returns the remaining capacity
func (s *ScratchOutput) Free() int {
	return len(s.buf) - s.pos
}

func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// FifoBuffer is a byte ring used for serial input. One slot stays empty
// to tell full from empty.
type FifoBuffer struct {
	buf  []byte
	head int // next read
	tail int // next write
	flat []byte
}

func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity+1)}
}

// Write stores as much of data as fits and returns the count stored.
func (f *FifoBuffer) Write(data []byte) int {
	n := min(len(data), f.Free())
	for _, b := range data[:n] {
		f.buf[f.tail] = b
		f.tail = (f.tail + 1) % len(f.buf)
	}
	return n
}

// Read moves up to len(data) bytes out of the ring.
func (f *FifoBuffer) Read(data []byte) int {
	n := min(len(data), f.Available())
	for i := 0; i < n; i++ {
		data[i] = f.buf[f.head]
		f.head = (f.head + 1) % len(f.buf)
	}
	return n
}

func (f *FifoBuffer) Available() int {
	return (f.tail - f.head + len(f.buf)) % len(f.buf)
}

func (f *FifoBuffer) Free() int {
	return len(f.buf) - 1 - f.Available()
}

// Data returns the queued bytes as one slice. A wrapped ring is copied
// into a reused scratch slice, valid until the next call.
func (f *FifoBuffer) Data() []byte {
	if f.head <= f.tail {
		return f.buf[f.head:f.tail]
	}
	f.flat = append(f.flat[:0], f.buf[f.head:]...)
	f.flat = append(f.flat, f.buf[:f.tail]...)
	return f.flat
}

func (f *FifoBuffer) Pop(n int) {
	n = min(n, f.Available())
	f.head = (f.head + n) % len(f.buf)
}

func (f *FifoBuffer) IsEmpty() bool {
	return f.head == f.tail
}

func (f *FifoBuffer) Reset() {
	f.head, f.tail = 0, 0
}
