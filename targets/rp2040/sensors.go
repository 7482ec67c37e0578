//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/hcsr04"
	"tinygo.org/x/drivers/hd44780i2c"
	"tinygo.org/x/drivers/lsm6ds3tr"

	"soildrill/drivers"
)

// newIMU creates the accelerometer/gyro. It is configured by InitAll.
func newIMU(bus *machine.I2C) *lsm6ds3tr.Device {
	return lsm6ds3tr.New(bus)
}

func configureIMU(imu *lsm6ds3tr.Device) error {
	err := imu.Configure(lsm6ds3tr.Configuration{
		AccelRange:      lsm6ds3tr.ACCEL_8G,
		AccelSampleRate: lsm6ds3tr.ACCEL_SR_104,
		GyroRange:       lsm6ds3tr.GYRO_1000DPS,
		GyroSampleRate:  lsm6ds3tr.GYRO_SR_104,
	})
	if err != nil {
		return err
	}
	if !imu.Connected() {
		return errIMUMissing
	}
	return nil
}

func newRangefinders() *drivers.RangePair {
	a := hcsr04.New(pinRangeATrig, pinRangeAEcho)
	a.Configure()
	b := hcsr04.New(pinRangeBTrig, pinRangeBEcho)
	b.Configure()
	return drivers.NewRangePair(&a, &b)
}

// newDisplay returns the 16x2 status LCD
func newDisplay(bus *machine.I2C) (*drivers.TextDisplay, error) {
	lcd := hd44780i2c.New(bus, lcdAddress)
	if err := lcd.Configure(hd44780i2c.Config{Width: 16, Height: 2}); err != nil {
		return nil, err
	}
	return drivers.NewTextDisplay(&lcd, 16), nil
}
