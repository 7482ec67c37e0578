package drivers

import (
	"errors"

	"soildrill/core"
)

// mockGPIO records pin configuration and levels
type mockGPIO struct {
	outputs map[core.GPIOPin]bool
	levels  map[core.GPIOPin]bool
	failSet error
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		outputs: make(map[core.GPIOPin]bool),
		levels:  make(map[core.GPIOPin]bool),
	}
}

func (m *mockGPIO) ConfigureOutput(pin core.GPIOPin) error {
	m.outputs[pin] = true
	return nil
}

func (m *mockGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	return nil
}

func (m *mockGPIO) SetPin(pin core.GPIOPin, value bool) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.levels[pin] = value
	return nil
}

func (m *mockGPIO) GetPin(pin core.GPIOPin) (bool, error) {
	return m.levels[pin], nil
}

// mockPWM records duty cycles on a 16-bit scale
type mockPWM struct {
	configured map[core.PWMPin]uint32
	duty       map[core.PWMPin]core.PWMValue
	disabled   map[core.PWMPin]bool
}

func newMockPWM() *mockPWM {
	return &mockPWM{
		configured: make(map[core.PWMPin]uint32),
		duty:       make(map[core.PWMPin]core.PWMValue),
		disabled:   make(map[core.PWMPin]bool),
	}
}

func (m *mockPWM) ConfigureHardwarePWM(pin core.PWMPin, periodUS uint32) (uint32, error) {
	m.configured[pin] = periodUS
	m.disabled[pin] = false
	return periodUS, nil
}

func (m *mockPWM) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	if _, ok := m.configured[pin]; !ok {
		return errors.New("pwm pin not configured")
	}
	m.duty[pin] = value
	return nil
}

func (m *mockPWM) MaxValue() uint32 {
	return 0xFFFF
}

func (m *mockPWM) DisablePWM(pin core.PWMPin) error {
	m.disabled[pin] = true
	return nil
}
