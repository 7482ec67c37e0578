package sim

import "soildrill/core"

// Condition decides when a scripted step fires.
type Condition func(r *Rig) bool

// Action changes the rig.
type Action func(r *Rig)

// Step fires its actions Delay ticks after At first holds. Steps are
// armed in order: a step is only checked once the previous one fired.
type Step struct {
	Name    string
	At      Condition
	Delay   uint32
	Actions []Action

	fired bool
	timer core.Timer
}

// Fired reports whether the step condition has held.
func (s *Step) Fired() bool {
	return s.fired
}

// Script appends steps to the rig.
func (r *Rig) Script(steps ...*Step) {
	r.steps = append(r.steps, steps...)
}

// Pending returns the number of steps not yet fired plus delayed actions
// not yet applied.
func (r *Rig) Pending() int {
	return len(r.steps) - r.next + r.sched.Pending()
}

func (r *Rig) evaluateSteps() {
	for r.next < len(r.steps) {
		s := r.steps[r.next]
		if s.At != nil && !s.At(r) {
			return
		}
		s.fired = true
		r.next++
		if s.Delay == 0 {
			r.apply(s.Actions)
			continue
		}
		actions := s.Actions
		s.timer = core.Timer{
			WakeTime: r.now + s.Delay,
			Handler: func(*core.Timer) uint8 {
				r.apply(actions)
				return core.SF_DONE
			},
		}
		r.sched.Schedule(&s.timer)
	}
}

func (r *Rig) apply(actions []Action) {
	for _, a := range actions {
		a(r)
	}
}

// Conditions

// Immediately holds as soon as the step is armed.
func Immediately() Condition {
	return nil
}

// AtTime holds once simulated time reaches t.
func AtTime(t uint32) Condition {
	return func(r *Rig) bool {
		return !core.TimerBefore(r.now, t)
	}
}

// AtCount holds while axis is driven in dir and its count reached n.
func AtCount(axis core.Axis, dir core.Direction, n uint16) Condition {
	return func(r *Rig) bool {
		a := r.axes[axis]
		return a.driving && a.dir == dir && a.count >= n
	}
}

// Actions

func SetRange(sensor core.RangeSensor, cm uint16) Action {
	return func(r *Rig) { r.ranges[sensor] = cm }
}

func TimeoutRange(sensor core.RangeSensor) Action {
	return SetRange(sensor, core.RangeTimeout)
}

func SetAccel(v core.Vector) Action {
	return func(r *Rig) { r.accel = v }
}

func SetGyro(v core.Vector) Action {
	return func(r *Rig) { r.gyro = v }
}

// FailAccel makes accelerometer reads fail until RestoreSensors.
func FailAccel() Action {
	return func(r *Rig) { r.accelErr = ErrSensor }
}

func FailGyro() Action {
	return func(r *Rig) { r.gyroErr = ErrSensor }
}

func RestoreSensors() Action {
	return func(r *Rig) {
		r.accelErr = nil
		r.gyroErr = nil
	}
}

// Service returns sensors, latches and axes to the rig configuration,
// as an operator would between cycles. The remote is left alone.
func Service() Action {
	return func(r *Rig) {
		r.ranges = [2]uint16{r.cfg.RangeA, r.cfg.RangeB}
		r.accel = r.cfg.Accel
		r.gyro = r.cfg.Gyro
		r.accelErr = nil
		r.gyroErr = nil
		r.vib = [core.VibrationSwitchCount]bool{}
		for i := range r.axes {
			r.axes[i].jammed = false
		}
	}
}

// TripVibration latches a switch if vibration interrupts are enabled.
func TripVibration(sw core.VibrationSwitch) Action {
	return func(r *Rig) {
		if r.vibLive {
			r.vib[sw] = true
		}
	}
}

func Jam(axis core.Axis) Action {
	return func(r *Rig) { r.axes[axis].jammed = true }
}

func Unjam(axis core.Axis) Action {
	return func(r *Rig) { r.axes[axis].jammed = false }
}

func SetRemote(state core.RemoteState) Action {
	return func(r *Rig) { r.remote = state }
}

// Call runs fn, for example a context cancel func.
func Call(fn func()) Action {
	return func(*Rig) { fn() }
}

// Apply runs actions now, outside any step.
func (r *Rig) Apply(actions ...Action) {
	r.apply(actions)
}
