//go:build rp2040

package main

import (
	"tinygo.org/x/drivers/lsm6ds3tr"

	"soildrill/core"
	"soildrill/drivers"
)

// board owns every rig peripheral and implements core.PlatformDriver.
type board struct {
	gpio *RPGPIODriver
	pwm  *RP2040PWMDriver
	i2c  *RPI2CDriver

	motors    *drivers.HBridge
	lamps     *drivers.Lamps
	encoders  drivers.EncoderPair
	encInputs [2]encoderInput
	vibration drivers.VibrationLatch
	imu       *lsm6ds3tr.Device
	ranges    *drivers.RangePair
	remote    *drivers.PulseDecoder
	display   *drivers.TextDisplay
}

// newBoard configures buses and interrupts. Motors and sensors stay off
// until InitAll.
func newBoard() (*board, error) {
	b := &board{
		gpio: NewRPGPIODriver(),
		pwm:  NewRP2040PWMDriver(),
		i2c:  NewRPI2CDriver(),
	}
	core.SetGPIODriver(b.gpio)
	core.SetPWMDriver(b.pwm)
	core.SetI2CDriver(b.i2c)

	gpio, pwm := core.MustGPIO(), core.MustPWM()
	b.motors = drivers.NewHBridge(gpio, pwm,
		drivers.MotorChannel{
			PWM:         core.PWMPin(pinRotPWM),
			Dir:         core.GPIOPin(pinRotDir),
			ForwardHigh: true,
			MinDuty:     drivers.RotationalMinDuty,
		},
		drivers.MotorChannel{
			PWM:         core.PWMPin(pinTransPWM),
			Dir:         core.GPIOPin(pinTransDir),
			ForwardHigh: true,
			MinDuty:     drivers.TranslationalMinDuty,
		})
	b.lamps = drivers.NewLamps(gpio,
		core.GPIOPin(pinLampError), core.GPIOPin(pinLampComplete), core.GPIOPin(pinLampMotor))
	if err := b.lamps.Configure(); err != nil {
		return nil, err
	}

	b.encInputs[core.AxisRotational] = encoderInput{a: pinRotEncA, b: pinRotEncB, counter: &b.encoders.Rotational}
	b.encInputs[core.AxisTranslational] = encoderInput{a: pinTransEncA, b: pinTransEncB, counter: &b.encoders.Translational}
	for i := range b.encInputs {
		if err := b.encInputs[i].configure(); err != nil {
			return nil, err
		}
	}
	if err := configureVibration(&b.vibration); err != nil {
		return nil, err
	}
	remote, err := configureRemote()
	if err != nil {
		return nil, err
	}
	b.remote = remote

	if err := core.MustI2C().ConfigureBus(i2cBus, i2cFrequency); err != nil {
		return nil, err
	}
	bus, err := b.i2c.bus(i2cBus)
	if err != nil {
		return nil, err
	}
	b.imu = newIMU(bus)
	b.ranges = newRangefinders()

	if d, err := newDisplay(bus); err != nil {
		core.DebugPrintln("[BOARD] no display: " + err.Error())
	} else {
		b.display = d
	}
	return b, nil
}

// InitAll brings up motors, IMU, encoders and vibration switches for one
// cycle.
func (b *board) InitAll() error {
	if err := b.motors.Configure(); err != nil {
		return err
	}
	if err := configureIMU(b.imu); err != nil {
		return err
	}
	b.encoders.Clear()
	for i := range b.encInputs {
		b.encInputs[i].start()
	}
	b.vibration.Enable()
	return nil
}

func (b *board) peripherals() *core.Peripherals {
	p := &core.Peripherals{
		Platform:   b,
		Encoders:   &b.encoders,
		Motors:     b.motors,
		Ultrasonic: b.ranges,
		Accel:      drivers.IMU{Accel: b.imu, Gyro: b.imu},
		Gyro:       drivers.IMU{Accel: b.imu, Gyro: b.imu},
		Vibration:  &b.vibration,
		Remote:     b.remote,
		Indicators: b.lamps,
		Clock:      core.SystemClock{},
	}
	if b.display != nil {
		p.Display = b.display
	}
	return p
}
