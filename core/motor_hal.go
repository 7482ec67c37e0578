package core

// Direction is the logical drive direction of an axis. Which way the
// hardware turns for Forward is decided by the motor driver wiring.
type Direction uint8

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "reverse"
}

// MotorDriver commands the two DC motors.
type MotorDriver interface {
	// Drive engages an axis in the given direction at its configured speed.
	Drive(axis Axis, dir Direction)

	// Brake stops a single axis.
	Brake(axis Axis)

	// DisableAll brakes both axes and stops PWM output until the
	// platform re-initializes the motors.
	DisableAll()
}
