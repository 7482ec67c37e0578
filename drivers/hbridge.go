package drivers

import (
	"errors"

	"soildrill/core"
)

var ErrNotConfigured = errors.New("motor driver not configured")

const (
	// DefaultDuty is the drive duty cycle set at init (out of 255)
	DefaultDuty uint8 = 128

	// PWMPeriodUS is the motor PWM period (4 kHz)
	PWMPeriodUS = 250

	// Duty floors below which the motors stall under load
	RotationalMinDuty    uint8 = 140
	TranslationalMinDuty uint8 = 77
)

// MotorChannel is one H-bridge channel: a PWM enable pin and a direction
// pin.
type MotorChannel struct {
	PWM core.PWMPin
	Dir core.GPIOPin

	// ForwardHigh is the direction pin level for core.Forward
	ForwardHigh bool

	// MinDuty is the lowest duty SetSpeed accepts (out of 255)
	MinDuty uint8
}

// HBridge implements core.MotorDriver for two PWM + direction channels.
// Braking drives the direction pin low with zero duty.
type HBridge struct {
	gpio       core.GPIODriver
	pwm        core.PWMDriver
	channels   [2]MotorChannel
	duty       [2]uint8
	configured bool
	lastErr    error
}

// NewHBridge creates a motor driver. Configure must be called before the
// motors move.
func NewHBridge(gpio core.GPIODriver, pwm core.PWMDriver, rotational, translational MotorChannel) *HBridge {
	h := &HBridge{gpio: gpio, pwm: pwm}
	h.channels[core.AxisRotational] = rotational
	h.channels[core.AxisTranslational] = translational
	return h
}

// Configure sets up the pins, brakes both axes and restores the default
// speed.
func (h *HBridge) Configure() error {
	for i := range h.channels {
		ch := &h.channels[i]
		if err := h.gpio.ConfigureOutput(ch.Dir); err != nil {
			return err
		}
		if err := h.gpio.SetPin(ch.Dir, false); err != nil {
			return err
		}
		if _, err := h.pwm.ConfigureHardwarePWM(ch.PWM, PWMPeriodUS); err != nil {
			return err
		}
		if err := h.pwm.SetDutyCycle(ch.PWM, 0); err != nil {
			return err
		}
		h.duty[i] = clampDuty(DefaultDuty, ch.MinDuty)
	}
	h.configured = true
	h.lastErr = nil
	return nil
}

func clampDuty(duty, min uint8) uint8 {
	if duty < min {
		return min
	}
	return duty
}

// SetSpeed sets the duty used by the next Drive, never below the channel
// floor.
func (h *HBridge) SetSpeed(axis core.Axis, duty uint8) {
	h.duty[axis] = clampDuty(duty, h.channels[axis].MinDuty)
}

// Speed returns the duty Drive will use
func (h *HBridge) Speed(axis core.Axis) uint8 {
	return h.duty[axis]
}

func (h *HBridge) Drive(axis core.Axis, dir core.Direction) {
	if !h.configured {
		h.fail(ErrNotConfigured)
		return
	}
	ch := &h.channels[axis]
	level := ch.ForwardHigh
	if dir == core.Reverse {
		level = !level
	}
	h.check(h.gpio.SetPin(ch.Dir, level))
	scaled := uint32(h.duty[axis]) * h.pwm.MaxValue() / 255
	h.check(h.pwm.SetDutyCycle(ch.PWM, core.PWMValue(scaled)))
}

func (h *HBridge) Brake(axis core.Axis) {
	ch := &h.channels[axis]
	h.check(h.pwm.SetDutyCycle(ch.PWM, 0))
	h.check(h.gpio.SetPin(ch.Dir, false))
}

func (h *HBridge) DisableAll() {
	for i := range h.channels {
		h.Brake(core.Axis(i))
		h.check(h.pwm.DisablePWM(h.channels[i].PWM))
	}
	h.configured = false
}

// Err returns the last hardware error seen since Configure
func (h *HBridge) Err() error {
	return h.lastErr
}

func (h *HBridge) check(err error) {
	if err != nil {
		h.fail(err)
	}
}

func (h *HBridge) fail(err error) {
	h.lastErr = err
	core.DebugPrintln("[MOTOR] " + err.Error())
}
