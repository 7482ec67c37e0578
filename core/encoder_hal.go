package core

// Axis selects one of the two rig motors and its encoder.
type Axis uint8

const (
	AxisRotational Axis = iota
	AxisTranslational
)

func (a Axis) String() string {
	switch a {
	case AxisRotational:
		return "rotational"
	case AxisTranslational:
		return "translational"
	}
	return "axis(" + Itoa(int(a)) + ")"
}

// EncoderCounts is one coherent read of both encoder counters.
type EncoderCounts struct {
	Rotational    uint16
	Translational uint16
}

// EncoderDriver exposes the interrupt-maintained encoder counters.
type EncoderDriver interface {
	// Read returns both counters. Counts only grow while the encoders run.
	Read() EncoderCounts

	// Clear zeroes both counters.
	Clear()

	// Stop halts counting until the platform re-initializes the encoders.
	Stop()
}
