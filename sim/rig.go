// Package sim is a deterministic software rig implementing every drill
// peripheral and the clock. Time only advances through Wait, in one
// millisecond steps, and scripted steps change the rig as counts or time
// reach given values.
package sim

import (
	"errors"

	"soildrill/core"
)

var (
	ErrSensor = errors.New("sim: sensor read failed")
	ErrInit   = errors.New("sim: platform init failed")
)

const stepTicks = 1000

// Op is a recorded motor command.
type Op uint8

const (
	OpDrive Op = iota
	OpBrake
	OpDisableAll
)

func (o Op) String() string {
	switch o {
	case OpDrive:
		return "drive"
	case OpBrake:
		return "brake"
	}
	return "disable-all"
}

// MotorCommand is one entry of the motor log.
type MotorCommand struct {
	Time uint32
	Op   Op
	Axis core.Axis
	Dir  core.Direction
}

// RigConfig is the initial physical state of the rig.
type RigConfig struct {
	// Encoder counts per millisecond while an axis is driven.
	RotationalRate    uint16
	TranslationalRate uint16

	RangeA, RangeB uint16 // cm
	Accel          core.Vector
	Gyro           core.Vector
	Remote         core.RemoteState
}

func DefaultRigConfig() RigConfig {
	return RigConfig{
		RotationalRate:    3,
		TranslationalRate: 2,
		RangeA:            12,
		RangeB:            12,
		Accel:             core.Vector{Z: 1000},
		Remote:            core.RemoteEnabled,
	}
}

type axisState struct {
	driving bool
	dir     core.Direction
	jammed  bool
	rate    uint16
	count   uint16
}

// Rig is the simulated drilling rig. It is not safe for concurrent use.
type Rig struct {
	now   uint32
	frac  uint32
	sched core.Scheduler

	axes         [2]axisState
	motorsLive   bool
	encodersLive bool

	ranges   [2]uint16
	accel    core.Vector
	gyro     core.Vector
	accelErr error
	gyroErr  error

	vibLive bool
	vib     [core.VibrationSwitchCount]bool

	remote  core.RemoteState
	lamps   [core.IndicatorCount]bool
	display [2]string
	initErr error

	cfg   RigConfig
	steps []*Step
	next  int

	Log             []MotorCommand
	DriveCalls      int
	BrakeCalls      int
	DisableAllCalls int
	InitCalls       int
	StopCalls       int
}

// New returns a rig in the state described by cfg.
func New(cfg RigConfig) *Rig {
	r := &Rig{
		cfg:    cfg,
		ranges: [2]uint16{cfg.RangeA, cfg.RangeB},
		accel:  cfg.Accel,
		gyro:   cfg.Gyro,
		remote: cfg.Remote,
	}
	r.axes[core.AxisRotational].rate = cfg.RotationalRate
	r.axes[core.AxisTranslational].rate = cfg.TranslationalRate
	return r
}

// Peripherals returns the rig wired into every peripheral slot.
func (r *Rig) Peripherals() *core.Peripherals {
	return &core.Peripherals{
		Platform:   r,
		Encoders:   r,
		Motors:     r,
		Ultrasonic: r,
		Accel:      r,
		Gyro:       r,
		Vibration:  r,
		Remote:     r,
		Indicators: r,
		Display:    r,
		Clock:      r,
	}
}

// Clock

func (r *Rig) Now() uint32 {
	return r.now
}

// Wait advances simulated time, moving driven axes and firing steps and
// delayed actions on every millisecond boundary.
func (r *Rig) Wait(ticks uint32) {
	for ticks > 0 {
		n := uint32(stepTicks) - r.frac
		if ticks < n {
			n = ticks
		}
		ticks -= n
		r.now += n
		r.frac += n
		if r.frac < stepTicks {
			continue
		}
		r.frac = 0
		r.move()
		r.sched.Dispatch(r.now)
		r.evaluateSteps()
	}
}

func (r *Rig) move() {
	if !r.motorsLive || !r.encodersLive {
		return
	}
	for i := range r.axes {
		a := &r.axes[i]
		if !a.driving || a.jammed {
			continue
		}
		if uint32(a.count)+uint32(a.rate) > 0xFFFF {
			a.count = 0xFFFF
		} else {
			a.count += a.rate
		}
	}
}

// PlatformDriver

func (r *Rig) InitAll() error {
	r.InitCalls++
	if r.initErr != nil {
		return r.initErr
	}
	for i := range r.axes {
		r.axes[i].driving = false
		r.axes[i].count = 0
	}
	r.motorsLive = true
	r.encodersLive = true
	r.vibLive = true
	r.vib = [core.VibrationSwitchCount]bool{}
	return nil
}

// FailInit makes the next InitAll calls return err; nil restores success.
func (r *Rig) FailInit(err error) {
	r.initErr = err
}

// EncoderDriver

func (r *Rig) Read() core.EncoderCounts {
	return core.EncoderCounts{
		Rotational:    r.axes[core.AxisRotational].count,
		Translational: r.axes[core.AxisTranslational].count,
	}
}

func (r *Rig) Clear() {
	for i := range r.axes {
		r.axes[i].count = 0
	}
}

func (r *Rig) Stop() {
	r.StopCalls++
	r.encodersLive = false
}

// MotorDriver

func (r *Rig) Drive(axis core.Axis, dir core.Direction) {
	r.DriveCalls++
	r.Log = append(r.Log, MotorCommand{Time: r.now, Op: OpDrive, Axis: axis, Dir: dir})
	if !r.motorsLive {
		return
	}
	r.axes[axis].driving = true
	r.axes[axis].dir = dir
}

func (r *Rig) Brake(axis core.Axis) {
	r.BrakeCalls++
	r.Log = append(r.Log, MotorCommand{Time: r.now, Op: OpBrake, Axis: axis})
	r.axes[axis].driving = false
}

func (r *Rig) DisableAll() {
	r.DisableAllCalls++
	r.Log = append(r.Log, MotorCommand{Time: r.now, Op: OpDisableAll})
	for i := range r.axes {
		r.axes[i].driving = false
	}
	r.motorsLive = false
}

// Driving reports whether axis is currently driven.
func (r *Rig) Driving(axis core.Axis) bool {
	return r.axes[axis].driving
}

// Engaged reports whether any axis is driven.
func (r *Rig) Engaged() bool {
	return r.axes[0].driving || r.axes[1].driving
}

// Sensors

func (r *Rig) Distance(sensor core.RangeSensor) uint16 {
	return r.ranges[sensor]
}

func (r *Rig) Acceleration() (core.Vector, error) {
	return r.accel, r.accelErr
}

func (r *Rig) Rotation() (core.Vector, error) {
	return r.gyro, r.gyroErr
}

func (r *Rig) Check(sw core.VibrationSwitch) bool {
	hit := r.vib[sw]
	r.vib[sw] = false
	return hit
}

func (r *Rig) Disable() {
	r.vibLive = false
	r.vib = [core.VibrationSwitchCount]bool{}
}

// Remote, lamps and display

func (r *Rig) State() core.RemoteState {
	return r.remote
}

func (r *Rig) Set(lamp core.Indicator, on bool) {
	r.lamps[lamp] = on
}

// Lamp returns the state of a lamp.
func (r *Rig) Lamp(lamp core.Indicator) bool {
	return r.lamps[lamp]
}

func (r *Rig) Show(line1, line2 string) {
	r.display = [2]string{line1, line2}
}

// Display returns the two lines last shown.
func (r *Rig) Display() (string, string) {
	return r.display[0], r.display[1]
}
