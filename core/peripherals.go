package core

import "errors"

var ErrMissingDriver = errors.New("peripheral driver not configured")

// PlatformDriver brings every peripheral into a known state before a cycle.
type PlatformDriver interface {
	// InitAll initializes IMU, rangefinders, motors (braked, default
	// speed), vibration interrupts and encoders. An error means the
	// cycle must not move.
	InitAll() error
}

// Peripherals is the complete set of drivers the drill controller uses.
// Display is optional.
type Peripherals struct {
	Platform   PlatformDriver
	Encoders   EncoderDriver
	Motors     MotorDriver
	Ultrasonic UltrasonicDriver
	Accel      AccelerometerDriver
	Gyro       GyroscopeDriver
	Vibration  VibrationDriver
	Remote     RemoteDriver
	Indicators IndicatorDriver
	Display    DisplayDriver
	Clock      Clock
}

// Validate returns ErrMissingDriver if a mandatory driver is nil.
func (p *Peripherals) Validate() error {
	if p.Platform == nil || p.Encoders == nil || p.Motors == nil ||
		p.Ultrasonic == nil || p.Accel == nil || p.Gyro == nil ||
		p.Vibration == nil || p.Remote == nil || p.Indicators == nil ||
		p.Clock == nil {
		return ErrMissingDriver
	}
	return nil
}

// mustDriver backs the MustGPIO/MustPWM/MustI2C accessors.
func mustDriver[T any](d T, name string) T {
	if any(d) == nil {
		panic(name + " driver not configured")
	}
	return d
}
