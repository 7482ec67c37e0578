package drivers

import (
	"sync/atomic"

	"soildrill/core"
)

// VibrationLatch keeps one consume-once flag per vibration switch. Trip is
// called from the switch interrupt, Check from the control loop.
type VibrationLatch struct {
	flags   [core.VibrationSwitchCount]uint32
	enabled uint32
}

// Enable arms the latches
func (v *VibrationLatch) Enable() {
	atomic.StoreUint32(&v.enabled, 1)
}

// Disable disarms the latches and drops pending trips
func (v *VibrationLatch) Disable() {
	atomic.StoreUint32(&v.enabled, 0)
	for i := range v.flags {
		atomic.StoreUint32(&v.flags[i], 0)
	}
}

// Trip latches a switch event. Ignored while disabled.
func (v *VibrationLatch) Trip(sw core.VibrationSwitch) {
	if int(sw) >= len(v.flags) || atomic.LoadUint32(&v.enabled) == 0 {
		return
	}
	atomic.StoreUint32(&v.flags[sw], 1)
}

// Check reports and clears a latched trip
func (v *VibrationLatch) Check(sw core.VibrationSwitch) bool {
	if int(sw) >= len(v.flags) {
		return false
	}
	return atomic.SwapUint32(&v.flags[sw], 0) != 0
}
