package config

import (
	"fmt"
	"strings"

	"soildrill/core"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validateDrill(&cfg.Drill); err != nil {
		return fmt.Errorf("drill section: %w", err)
	}
	if err := validateRig(&cfg.Rig); err != nil {
		return fmt.Errorf("rig section: %w", err)
	}

	seen := make(map[string]bool)
	for i, sc := range cfg.Scenarios {
		name := strings.ToLower(strings.TrimSpace(sc.Name))
		if name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("scenario %q: duplicate name", sc.Name)
		}
		seen[name] = true

		for j, st := range sc.Steps {
			if err := validateStep(st); err != nil {
				return fmt.Errorf("scenario %q step %d: %w", sc.Name, j, err)
			}
		}
	}
	return nil
}

func validateDrill(d *DrillConfig) error {
	if d.PollIntervalMs == 0 || d.EnablePollMs == 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	// ticks are uint32 microseconds
	const maxMs = 0xFFFFFFFF / 1000
	for _, ms := range []uint32{d.PollIntervalMs, d.EnablePollMs, d.KillWindowMs, d.BottomDwellMs} {
		if ms > maxMs {
			return fmt.Errorf("duration %dms out of range", ms)
		}
	}
	w := map[string]string{
		"descend_rotational":    d.Wiring.DescendRotational,
		"descend_translational": d.Wiring.DescendTranslational,
		"ascend_rotational":     d.Wiring.AscendRotational,
		"ascend_translational":  d.Wiring.AscendTranslational,
	}
	for key, v := range w {
		if _, ok := parseDirection(v); !ok {
			return fmt.Errorf("wiring.%s: unknown direction %q", key, v)
		}
	}
	if d.Accel.Min == nil || d.Accel.Max == nil || d.Gyro.Min == nil || d.Gyro.Max == nil {
		return fmt.Errorf("accel and gyro windows need min and max")
	}
	dc, err := d.ToDrill()
	if err != nil {
		return err
	}
	return dc.Validate()
}

func validateRig(r *RigConfig) error {
	if _, ok := parseRemote(r.Remote); !ok {
		return fmt.Errorf("unknown remote state %q", r.Remote)
	}
	if r.RotationalRate == 0 || r.TranslationalRate == 0 {
		return fmt.Errorf("encoder rates must be positive")
	}
	return nil
}

func validateStep(st StepConfig) error {
	at := st.At
	if at.Count != nil && at.TimeMs != nil {
		return fmt.Errorf("at: count and time_ms are exclusive")
	}
	if at.Count != nil {
		if _, ok := parseAxis(at.Axis); !ok {
			return fmt.Errorf("at: unknown axis %q", at.Axis)
		}
		if _, ok := parseDirection(at.Direction); !ok {
			return fmt.Errorf("at: unknown direction %q", at.Direction)
		}
	}
	if len(st.Actions) == 0 {
		return fmt.Errorf("no actions")
	}
	for i, a := range st.Actions {
		if err := validateAction(a); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}

func validateAction(a ActionConfig) error {
	switch strings.ToLower(strings.TrimSpace(a.Type)) {
	case ActionSetRange, ActionTimeoutRange:
		if _, ok := parseSensor(a.Sensor); !ok {
			return fmt.Errorf("unknown sensor %q", a.Sensor)
		}
	case ActionSetAccel, ActionSetGyro:
		if a.Vector == nil {
			return fmt.Errorf("%s needs a vector", a.Type)
		}
	case ActionFailAccel, ActionFailGyro, ActionRestoreSensors:
	case ActionTripVibration:
		if a.Switch == nil || *a.Switch >= core.VibrationSwitchCount {
			return fmt.Errorf("switch must be 0-%d", core.VibrationSwitchCount-1)
		}
	case ActionJam, ActionUnjam:
		if _, ok := parseAxis(a.Axis); !ok {
			return fmt.Errorf("unknown axis %q", a.Axis)
		}
	case ActionSetRemote:
		if _, ok := parseRemote(a.State); !ok {
			return fmt.Errorf("unknown remote state %q", a.State)
		}
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}
