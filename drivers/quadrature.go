package drivers

import (
	"sync/atomic"

	"soildrill/core"
)

// QuadratureCounter counts every change of a two-channel encoder state.
// Update is called from the pin change interrupt of either channel.
type QuadratureCounter struct {
	state   uint32
	count   uint32
	running uint32
}

func abState(a, b bool) uint32 {
	var s uint32
	if a {
		s |= 2
	}
	if b {
		s |= 1
	}
	return s
}

// Start records the current channel levels and enables counting
func (q *QuadratureCounter) Start(a, b bool) {
	atomic.StoreUint32(&q.state, abState(a, b))
	atomic.StoreUint32(&q.running, 1)
}

// Stop disables counting. The count is kept until Clear.
func (q *QuadratureCounter) Stop() {
	atomic.StoreUint32(&q.running, 0)
}

// Running reports whether the counter is counting
func (q *QuadratureCounter) Running() bool {
	return atomic.LoadUint32(&q.running) != 0
}

// Update takes the new channel levels. The count saturates at 0xFFFF so it
// never wraps back below a previous sample.
func (q *QuadratureCounter) Update(a, b bool) {
	s := abState(a, b)
	if atomic.SwapUint32(&q.state, s) == s {
		return
	}
	if atomic.LoadUint32(&q.running) == 0 {
		return
	}
	if atomic.LoadUint32(&q.count) < 0xFFFF {
		atomic.AddUint32(&q.count, 1)
	}
}

// Count returns the number of state changes since the last Clear
func (q *QuadratureCounter) Count() uint16 {
	return uint16(atomic.LoadUint32(&q.count))
}

// Clear zeroes the count
func (q *QuadratureCounter) Clear() {
	atomic.StoreUint32(&q.count, 0)
}

// EncoderPair implements core.EncoderDriver over the rig's two encoders.
type EncoderPair struct {
	Rotational    QuadratureCounter
	Translational QuadratureCounter
}

// Read returns both counts from one critical section
func (e *EncoderPair) Read() core.EncoderCounts {
	var c core.EncoderCounts
	core.Critical(func() {
		c.Rotational = e.Rotational.Count()
		c.Translational = e.Translational.Count()
	})
	return c
}

func (e *EncoderPair) Clear() {
	core.Critical(func() {
		e.Rotational.Clear()
		e.Translational.Clear()
	})
}

func (e *EncoderPair) Stop() {
	e.Rotational.Stop()
	e.Translational.Stop()
}
