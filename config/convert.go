package config

import (
	"errors"
	"fmt"

	"soildrill/core"
	"soildrill/drill"
	"soildrill/sim"
)

var ErrUnknownScenario = errors.New("unknown scenario")

func (v VectorConfig) vector() core.Vector {
	return core.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

func msToTicks(ms uint32) uint32 {
	return ms * (core.TimerFreq / 1000)
}

// ToDrill converts the drill section to controller settings.
func (d *DrillConfig) ToDrill() (drill.Config, error) {
	cfg := drill.DefaultConfig()
	cfg.TargetTicks = d.TargetTicks
	cfg.PollInterval = msToTicks(d.PollIntervalMs)
	cfg.EnablePoll = msToTicks(d.EnablePollMs)
	cfg.KillWindow = msToTicks(d.KillWindowMs)
	cfg.BottomDwell = msToTicks(d.BottomDwellMs)
	cfg.ObstacleMin = d.Obstacle.MinCm
	cfg.ObstacleMax = d.Obstacle.MaxCm
	if d.Accel.Min != nil && d.Accel.Max != nil {
		cfg.AccelMin, cfg.AccelMax = d.Accel.Min.vector(), d.Accel.Max.vector()
	}
	if d.Gyro.Min != nil && d.Gyro.Max != nil {
		cfg.GyroMin, cfg.GyroMax = d.Gyro.Min.vector(), d.Gyro.Max.vector()
	}
	if d.Rearm != nil {
		cfg.Rearm = *d.Rearm
	}

	dirs := []struct {
		name string
		dst  *core.Direction
	}{
		{d.Wiring.DescendRotational, &cfg.Wiring.DescendRotational},
		{d.Wiring.DescendTranslational, &cfg.Wiring.DescendTranslational},
		{d.Wiring.AscendRotational, &cfg.Wiring.AscendRotational},
		{d.Wiring.AscendTranslational, &cfg.Wiring.AscendTranslational},
	}
	for _, dir := range dirs {
		v, ok := parseDirection(dir.name)
		if !ok {
			return drill.Config{}, fmt.Errorf("unknown direction %q", dir.name)
		}
		*dir.dst = v
	}
	return cfg, nil
}

// ToSim converts the rig section to the simulated rig's initial state.
func (r *RigConfig) ToSim() sim.RigConfig {
	cfg := sim.DefaultRigConfig()
	cfg.RotationalRate = r.RotationalRate
	cfg.TranslationalRate = r.TranslationalRate
	cfg.RangeA = r.RangeACm
	cfg.RangeB = r.RangeBCm
	if r.Accel != nil {
		cfg.Accel = r.Accel.vector()
	}
	if r.Gyro != nil {
		cfg.Gyro = r.Gyro.vector()
	}
	if st, ok := parseRemote(r.Remote); ok {
		cfg.Remote = st
	}
	return cfg
}

// Scenario builds the named scenario: a scenario from the file if one
// matches, otherwise a built-in one. File scenarios start from the rig
// section; built-ins keep their own rig.
func (c *Config) Scenario(name string) (sim.Scenario, error) {
	for _, sc := range c.Scenarios {
		if sc.Name == norm(name) {
			return sc.build(c.Rig.ToSim())
		}
	}
	if build, ok := sim.Builtin()[norm(name)]; ok {
		return build(), nil
	}
	return sim.Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
}

func (sc ScenarioConfig) build(rig sim.RigConfig) (sim.Scenario, error) {
	out := sim.Scenario{Name: sc.Name, Description: sc.Description, Rig: rig}
	for _, st := range sc.Steps {
		step := &sim.Step{Name: st.Name, Delay: msToTicks(st.DelayMs)}

		switch {
		case st.At.Count != nil:
			axis, _ := parseAxis(st.At.Axis)
			dir, _ := parseDirection(st.At.Direction)
			step.At = sim.AtCount(axis, dir, *st.At.Count)
		case st.At.TimeMs != nil:
			step.At = sim.AtTime(msToTicks(*st.At.TimeMs))
		default:
			step.At = sim.Immediately()
		}

		for _, a := range st.Actions {
			act, err := a.action()
			if err != nil {
				return sim.Scenario{}, fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			step.Actions = append(step.Actions, act)
		}
		out.Steps = append(out.Steps, step)
	}
	return out, nil
}

func (a ActionConfig) action() (sim.Action, error) {
	switch norm(a.Type) {
	case ActionSetRange:
		s, _ := parseSensor(a.Sensor)
		return sim.SetRange(s, a.Cm), nil
	case ActionTimeoutRange:
		s, _ := parseSensor(a.Sensor)
		return sim.TimeoutRange(s), nil
	case ActionSetAccel:
		return sim.SetAccel(a.Vector.vector()), nil
	case ActionSetGyro:
		return sim.SetGyro(a.Vector.vector()), nil
	case ActionFailAccel:
		return sim.FailAccel(), nil
	case ActionFailGyro:
		return sim.FailGyro(), nil
	case ActionRestoreSensors:
		return sim.RestoreSensors(), nil
	case ActionTripVibration:
		return sim.TripVibration(core.VibrationSwitch(*a.Switch)), nil
	case ActionJam:
		axis, _ := parseAxis(a.Axis)
		return sim.Jam(axis), nil
	case ActionUnjam:
		axis, _ := parseAxis(a.Axis)
		return sim.Unjam(axis), nil
	case ActionSetRemote:
		st, _ := parseRemote(a.State)
		return sim.SetRemote(st), nil
	}
	return nil, fmt.Errorf("unknown action type %q", a.Type)
}
