package drill

import "soildrill/core"

// Aggregator reduces every safety input to a single verdict.
type Aggregator struct {
	cfg Config
	p   *core.Peripherals
}

func NewAggregator(cfg Config, p *core.Peripherals) *Aggregator {
	return &Aggregator{cfg: cfg, p: p}
}

// Evaluate checks motion against snap and reads every sensor once. All
// subsystems are evaluated even when an earlier one fails, so every
// vibration latch is consumed.
func (a *Aggregator) Evaluate(snap EncoderSnapshot) Verdict {
	return Verdict{
		Encoder:   snap.Moving(),
		Obstacle:  a.obstacleOK(),
		Gyro:      a.gyroOK(),
		Accel:     a.accelOK(),
		Vibration: a.vibrationOK(),
	}
}

// Preflight evaluates the non-motion checks with synthetic motion.
func (a *Aggregator) Preflight() Verdict {
	return a.Evaluate(EncoderSnapshot{Translational: 1, Rotational: 1})
}

func (a *Aggregator) obstacleOK() bool {
	ok := a.rangeOK(core.RangeA)
	if !a.rangeOK(core.RangeB) {
		ok = false
	}
	return ok
}

func (a *Aggregator) rangeOK(sensor core.RangeSensor) bool {
	d := a.p.Ultrasonic.Distance(sensor)
	if d == core.RangeTimeout {
		return false
	}
	return d >= a.cfg.ObstacleMin && d <= a.cfg.ObstacleMax
}

func (a *Aggregator) gyroOK() bool {
	v, err := a.p.Gyro.Rotation()
	if err != nil {
		return false
	}
	return v.Within(a.cfg.GyroMin, a.cfg.GyroMax)
}

func (a *Aggregator) accelOK() bool {
	v, err := a.p.Accel.Acceleration()
	if err != nil {
		return false
	}
	return v.Within(a.cfg.AccelMin, a.cfg.AccelMax)
}

func (a *Aggregator) vibrationOK() bool {
	tripped := false
	for sw := core.VibrationSwitch(0); sw < core.VibrationSwitchCount; sw++ {
		if a.p.Vibration.Check(sw) {
			tripped = true
		}
	}
	return !tripped
}
