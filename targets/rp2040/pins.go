//go:build rp2040

package main

import (
	"errors"
	"machine"
)

var (
	errInvalidPin    = errors.New("invalid pin")
	errInvalidBus    = errors.New("unsupported I2C bus")
	errNotConfigured = errors.New("not configured")
	errIMUMissing    = errors.New("IMU not connected")
)

// Board wiring. GP0/GP1 carry the debug UART.
const (
	pinRotPWM   = machine.GPIO2
	pinRotDir   = machine.GPIO3
	pinTransPWM = machine.GPIO6
	pinTransDir = machine.GPIO7

	pinI2C0SDA = machine.GPIO4
	pinI2C0SCL = machine.GPIO5

	pinRotEncA   = machine.GPIO8
	pinRotEncB   = machine.GPIO9
	pinTransEncA = machine.GPIO10
	pinTransEncB = machine.GPIO11

	pinVibMediumA = machine.GPIO12
	pinVibMediumB = machine.GPIO13
	pinVibSlowA   = machine.GPIO14
	pinVibSlowB   = machine.GPIO15

	pinRemote = machine.GPIO16

	pinRangeATrig = machine.GPIO17
	pinRangeAEcho = machine.GPIO18
	pinRangeBTrig = machine.GPIO19
	pinRangeBEcho = machine.GPIO20

	pinLampError    = machine.GPIO21
	pinLampComplete = machine.GPIO22
	pinLampMotor    = machine.GPIO26
)

const (
	i2cBus       = 0
	i2cFrequency = 400 * machine.KHz
	lcdAddress   = 0x27

	// remoteLossUS is how long the receiver may go without a valid
	// pulse before the decoder reports OVERRIDE
	remoteLossUS = 100000
)
