//go:build rp2040

package main

import (
	"machine"

	"soildrill/core"
)

// RPI2CDriver implements core.I2CDriver. The IMU and the LCD share bus 0.
type RPI2CDriver struct {
	buses map[core.I2CBusID]*machine.I2C
}

func NewRPI2CDriver() *RPI2CDriver {
	return &RPI2CDriver{buses: make(map[core.I2CBusID]*machine.I2C)}
}

func (d *RPI2CDriver) ConfigureBus(bus core.I2CBusID, frequencyHz uint32) error {
	if i2c, ok := d.buses[bus]; ok {
		return i2c.SetBaudRate(frequencyHz)
	}

	var i2c *machine.I2C
	cfg := machine.I2CConfig{Frequency: frequencyHz}
	switch bus {
	case 0:
		i2c = machine.I2C0
		cfg.SDA, cfg.SCL = pinI2C0SDA, pinI2C0SCL
	case 1:
		i2c = machine.I2C1
	default:
		return errInvalidBus
	}
	if err := i2c.Configure(cfg); err != nil {
		return err
	}
	d.buses[bus] = i2c
	return nil
}

// GetMachineBus returns the *machine.I2C for TinyGo drivers
func (d *RPI2CDriver) GetMachineBus(bus core.I2CBusID) (interface{}, error) {
	i2c, ok := d.buses[bus]
	if !ok {
		return nil, errNotConfigured
	}
	return i2c, nil
}

// bus returns the configured bus as the concrete type
func (d *RPI2CDriver) bus(id core.I2CBusID) (*machine.I2C, error) {
	b, err := d.GetMachineBus(id)
	if err != nil {
		return nil, err
	}
	return b.(*machine.I2C), nil
}
