package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface used by the portable drivers
// (motor direction pins, lamps). Target code provides the implementation.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as an input with pull-up
	ConfigureInputPullUp(pin GPIOPin) error

	// SetPin drives an output pin high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin level
	GetPin(pin GPIOPin) (bool, error)
}

var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the registered driver and panics before target setup.
func MustGPIO() GPIODriver {
	return mustDriver(gpioDriver, "GPIO")
}
