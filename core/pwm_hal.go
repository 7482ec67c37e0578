package core

// PWMPin identifies a hardware pin capable of PWM output
type PWMPin uint32

// PWMValue is a duty cycle between 0 and the driver's MaxValue
type PWMValue uint32

// PWMDriver is the abstract PWM interface used by the motor driver.
type PWMDriver interface {
	// ConfigureHardwarePWM configures a pin for PWM with the given period
	// in microseconds and returns the period actually used.
	ConfigureHardwarePWM(pin PWMPin, periodUS uint32) (uint32, error)

	// SetDutyCycle sets the duty cycle for a pin, 0 is fully off
	SetDutyCycle(pin PWMPin, value PWMValue) error

	// MaxValue returns the duty cycle that means fully on
	MaxValue() uint32

	// DisablePWM stops PWM output on a pin
	DisablePWM(pin PWMPin) error
}

var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the registered driver and panics before target setup.
func MustPWM() PWMDriver {
	return mustDriver(pwmDriver, "PWM")
}
