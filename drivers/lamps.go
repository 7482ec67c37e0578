package drivers

import "soildrill/core"

// Lamps implements core.IndicatorDriver with one GPIO per lamp.
type Lamps struct {
	gpio core.GPIODriver
	pins [core.IndicatorCount]core.GPIOPin
}

// NewLamps creates the lamp driver for the ERROR, COMPLETE and MOTOR pins
func NewLamps(gpio core.GPIODriver, errorPin, completePin, motorPin core.GPIOPin) *Lamps {
	l := &Lamps{gpio: gpio}
	l.pins[core.IndicatorError] = errorPin
	l.pins[core.IndicatorComplete] = completePin
	l.pins[core.IndicatorMotor] = motorPin
	return l
}

// Configure sets every lamp pin as an output, switched off
func (l *Lamps) Configure() error {
	for _, pin := range l.pins {
		if err := l.gpio.ConfigureOutput(pin); err != nil {
			return err
		}
		if err := l.gpio.SetPin(pin, false); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lamps) Set(lamp core.Indicator, on bool) {
	if int(lamp) >= len(l.pins) {
		return
	}
	if err := l.gpio.SetPin(l.pins[lamp], on); err != nil {
		core.DebugPrintln("[LAMP] " + err.Error())
	}
}
