//go:build rp2040

package main

import (
	"machine"

	"soildrill/core"
)

// RPGPIODriver implements core.GPIODriver on the RP2040 pads
type RPGPIODriver struct {
	pins map[core.GPIOPin]machine.Pin
}

func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{pins: make(map[core.GPIOPin]machine.Pin)}
}

func (d *RPGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	if int(pin) > 29 {
		return errInvalidPin
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: mode})
	d.pins[pin] = p
	return nil
}

func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPullup)
}

// SetPin drives an output. Unconfigured pins are made outputs first.
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	p, ok := d.pins[pin]
	if !ok {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		p = d.pins[pin]
	}
	p.Set(value)
	return nil
}

func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	p, ok := d.pins[pin]
	if !ok {
		return false, errNotConfigured
	}
	return p.Get(), nil
}
