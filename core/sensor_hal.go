package core

// RangeSensor identifies one of the two ultrasonic rangefinders.
type RangeSensor uint8

const (
	RangeA RangeSensor = iota
	RangeB
)

// RangeTimeout is the distance reported when no echo came back.
const RangeTimeout uint16 = 0xFFFF

// UltrasonicDriver measures distance in whole centimetres.
type UltrasonicDriver interface {
	// Distance blocks for at most one echo timeout and returns the
	// distance in centimetres, or RangeTimeout.
	Distance(sensor RangeSensor) uint16
}

// Vector is a three-axis reading. Accelerations are in milli-g and
// angular rates in milli-degrees per second.
type Vector struct {
	X, Y, Z int32
}

// Within reports whether every component lies in [min, max].
func (v Vector) Within(min, max Vector) bool {
	return v.X >= min.X && v.X <= max.X &&
		v.Y >= min.Y && v.Y <= max.Y &&
		v.Z >= min.Z && v.Z <= max.Z
}

// AccelerometerDriver reads the accelerometer over I2C.
type AccelerometerDriver interface {
	Acceleration() (Vector, error)
}

// GyroscopeDriver reads the gyroscope over I2C.
type GyroscopeDriver interface {
	Rotation() (Vector, error)
}

// VibrationSwitch identifies one of the four vibration switches.
type VibrationSwitch uint8

const (
	VibrationMediumA VibrationSwitch = iota
	VibrationMediumB
	VibrationSlowA
	VibrationSlowB

	VibrationSwitchCount = 4
)

// VibrationDriver exposes the latched vibration switch flags.
type VibrationDriver interface {
	// Check reports whether the switch tripped since the last Check and
	// clears the latch. A second Check without a new trip returns false.
	Check(sw VibrationSwitch) bool

	// Disable masks the switch interrupts and drops pending trips.
	Disable()
}
