package core

import "sync/atomic"

// TimerFreq is the system tick rate. One tick is one microsecond on every
// supported target.
const TimerFreq = 1000000

var (
	systemTicks atomic.Uint32

	// timeSource replaces the stored tick counter when a target can read
	// a free-running hardware timer directly.
	timeSource func() uint32

	// idleHook runs while SystemClock spins, e.g. to service USB.
	idleHook func()
)

// GetTime returns the current system time in ticks
func GetTime() uint32 {
	if timeSource != nil {
		return timeSource()
	}
	return systemTicks.Load()
}

// SetTime sets the stored tick counter used when no time source is set.
func SetTime(ticks uint32) {
	systemTicks.Store(ticks)
}

// SetTimeSource installs a function that returns the hardware timer value.
// Passing nil reverts to the stored tick counter.
func SetTimeSource(fn func() uint32) {
	timeSource = fn
}

// SetIdleHook installs the function SystemClock runs while waiting.
func SetIdleHook(fn func()) {
	idleHook = fn
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return ms * (TimerFreq / 1000)
}

// TimerToMS converts timer ticks to milliseconds
func TimerToMS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000)
}

// TimerBefore reports whether a is earlier than b, tolerating wraparound
// of the 32-bit tick counter.
func TimerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
