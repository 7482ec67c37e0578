//go:build rp2040

package main

import (
	"machine"

	"soildrill/core"
	"soildrill/drivers"
)

// encoderInput feeds one quadrature counter from both channel interrupts
type encoderInput struct {
	a, b    machine.Pin
	counter *drivers.QuadratureCounter
}

func (e *encoderInput) configure() error {
	e.a.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	e.b.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	update := func(machine.Pin) {
		e.counter.Update(e.a.Get(), e.b.Get())
	}
	if err := e.a.SetInterrupt(machine.PinToggle, update); err != nil {
		return err
	}
	return e.b.SetInterrupt(machine.PinToggle, update)
}

func (e *encoderInput) start() {
	e.counter.Start(e.a.Get(), e.b.Get())
}

// configureVibration latches a trip on the falling edge of each switch
func configureVibration(latch *drivers.VibrationLatch) error {
	pins := [core.VibrationSwitchCount]machine.Pin{
		core.VibrationMediumA: pinVibMediumA,
		core.VibrationMediumB: pinVibMediumB,
		core.VibrationSlowA:   pinVibSlowA,
		core.VibrationSlowB:   pinVibSlowB,
	}
	for i, pin := range pins {
		sw := core.VibrationSwitch(i)
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		err := pin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
			latch.Trip(sw)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// configureRemote measures receiver pulses on both edges. Losing the
// receiver reads as OVERRIDE.
func configureRemote() (*drivers.PulseDecoder, error) {
	dec := drivers.NewPulseDecoder(drivers.DefaultPulseBands(), GetHardwareTime)
	dec.SetFailsafe(remoteLossUS, core.RemoteOverride)
	pinRemote.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	err := pinRemote.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
		dec.Edge(p.Get(), GetHardwareTime())
	})
	if err != nil {
		return nil, err
	}
	return dec, nil
}
