package core

// I2CBusID identifies a specific I2C bus (e.g., I2C0, I2C1).
type I2CBusID uint8

// I2CDriver hands out configured I2C buses to the sensor and display
// drivers. The IMU and LCD drivers talk to machine.I2C directly, so the
// interface stays minimal.
type I2CDriver interface {
	// ConfigureBus initializes a bus with the given frequency.
	ConfigureBus(bus I2CBusID, frequencyHz uint32) error

	// GetMachineBus returns the underlying machine.I2C instance for a bus,
	// or an error if the bus was not configured.
	GetMachineBus(bus I2CBusID) (interface{}, error)
}

var i2cDriver I2CDriver

// SetI2CDriver is called by target-specific code to register its driver.
func SetI2CDriver(d I2CDriver) {
	i2cDriver = d
}

// MustI2C returns the registered driver and panics before target setup.
func MustI2C() I2CDriver {
	return mustDriver(i2cDriver, "I2C")
}
