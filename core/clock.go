package core

// Clock is the time base of the drill controller. All waits in the
// controller are expressed as Wait calls so tests can drive time.
type Clock interface {
	// Now returns the current time in ticks (microseconds).
	Now() uint32

	// Wait returns after at least ticks have elapsed.
	Wait(ticks uint32)
}

// SystemClock spins on GetTime and runs the idle hook while waiting.
type SystemClock struct{}

func (SystemClock) Now() uint32 {
	return GetTime()
}

func (SystemClock) Wait(ticks uint32) {
	start := GetTime()
	for GetTime()-start < ticks {
		if idleHook != nil {
			idleHook()
		}
	}
}
