//go:build rp2040

package main

import (
	"machine"

	"soildrill/core"
)

// pwmMax is the duty scale exposed to the motor driver
const pwmMax = 255

// pwmPeripheral abstracts TinyGo's unexported *pwmGroup
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// RP2040PWMDriver implements core.PWMDriver on the eight PWM slices. GPIO N
// belongs to slice (N>>1)&7, channel A for even pins and B for odd.
type RP2040PWMDriver struct {
	channels map[core.PWMPin]uint8
	slices   map[uint8]pwmPeripheral
}

func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		channels: make(map[core.PWMPin]uint8),
		slices:   make(map[uint8]pwmPeripheral),
	}
}

func sliceOf(pin core.PWMPin) uint8 {
	return uint8((uint32(pin) >> 1) & 0x7)
}

func (d *RP2040PWMDriver) MaxValue() uint32 {
	return pwmMax
}

// ConfigureHardwarePWM sets the slice period. Both channels of a slice
// share it.
func (d *RP2040PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, periodUS uint32) (uint32, error) {
	if uint32(pin) > 29 {
		return 0, errInvalidPin
	}
	n := sliceOf(pin)
	pwm, ok := d.slices[n]
	if !ok {
		pwm = pwmSlice(n)
		d.slices[n] = pwm
	}
	if err := pwm.Configure(machine.PWMConfig{Period: uint64(periodUS) * 1000}); err != nil {
		return 0, err
	}
	ch, err := pwm.Channel(machine.Pin(pin))
	if err != nil {
		return 0, err
	}
	d.channels[pin] = ch
	return periodUS, nil
}

// SetDutyCycle scales value (0..255) to the slice TOP
func (d *RP2040PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	ch, ok := d.channels[pin]
	if !ok {
		return errNotConfigured
	}
	pwm := d.slices[sliceOf(pin)]
	if value > pwmMax {
		value = pwmMax
	}
	pwm.Set(ch, uint32(value)*pwm.Top()/pwmMax)
	return nil
}

// DisablePWM holds the output low and forgets the channel. TinyGo has no
// way to hand the pad back to SIO.
func (d *RP2040PWMDriver) DisablePWM(pin core.PWMPin) error {
	ch, ok := d.channels[pin]
	if !ok {
		return nil
	}
	d.slices[sliceOf(pin)].Set(ch, 0)
	delete(d.channels, pin)
	return nil
}

func pwmSlice(n uint8) pwmPeripheral {
	switch n {
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	}
	return machine.PWM0
}
