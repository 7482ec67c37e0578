package drivers

import "soildrill/core"

// DefaultMaxRangeMM is the longest distance accepted as a real echo
const DefaultMaxRangeMM = 4000

// DistanceSource is a rangefinder returning millimetres, or 0 when the
// echo timed out. tinygo.org/x/drivers/hcsr04.Device satisfies it.
type DistanceSource interface {
	ReadDistance() int32
}

// RangePair implements core.UltrasonicDriver over two rangefinders.
type RangePair struct {
	A, B  DistanceSource
	MaxMM int32
}

// NewRangePair creates a pair with the default maximum range
func NewRangePair(a, b DistanceSource) *RangePair {
	return &RangePair{A: a, B: b, MaxMM: DefaultMaxRangeMM}
}

// Distance returns whole centimetres or core.RangeTimeout
func (r *RangePair) Distance(sensor core.RangeSensor) uint16 {
	src := r.A
	if sensor == core.RangeB {
		src = r.B
	}
	if src == nil {
		return core.RangeTimeout
	}
	mm := src.ReadDistance()
	if mm <= 0 || (r.MaxMM > 0 && mm > r.MaxMM) {
		return core.RangeTimeout
	}
	return uint16(mm / 10)
}
