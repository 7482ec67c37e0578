package sim

import "soildrill/core"

// Scenario is a rig configuration plus a script. Steps keep fired state,
// so build a new Scenario for every rig.
type Scenario struct {
	Name        string
	Description string
	Rig         RigConfig
	Steps       []*Step
}

// NewRig builds a rig and loads the scenario script.
func (sc Scenario) NewRig() *Rig {
	r := New(sc.Rig)
	r.Script(sc.Steps...)
	return r
}

// Nominal drills down and up without incident.
func Nominal() Scenario {
	return Scenario{
		Name:        "nominal",
		Description: "full descent and ascent, no faults",
		Rig:         DefaultRigConfig(),
	}
}

// SensorTimeout loses rangefinder A at translational count 80 on the way
// down.
func SensorTimeout() Scenario {
	return Scenario{
		Name:        "sensor-timeout",
		Description: "rangefinder A times out at count 80 while descending",
		Rig:         DefaultRigConfig(),
		Steps: []*Step{{
			Name:    "range-a-timeout",
			At:      AtCount(core.AxisTranslational, core.Forward, 80),
			Actions: []Action{TimeoutRange(core.RangeA)},
		}},
	}
}

// OverrideKill overrides at count 150 while ascending and switches the
// remote off within the kill window.
func OverrideKill() Scenario {
	return Scenario{
		Name:        "override-kill",
		Description: "override at count 150 ascending, remote off 500ms later",
		Rig:         DefaultRigConfig(),
		Steps: []*Step{
			{
				Name:    "override",
				At:      AtCount(core.AxisTranslational, core.Reverse, 150),
				Actions: []Action{SetRemote(core.RemoteOverride)},
			},
			{
				Name:    "remote-off",
				At:      Immediately(),
				Delay:   500000,
				Actions: []Action{SetRemote(core.RemoteOff)},
			},
		},
	}
}

// RetractionStall trips a vibration switch at count 100 on the way down
// and jams the lift at count 30 of the retraction.
func RetractionStall() Scenario {
	return Scenario{
		Name:        "retraction-stall",
		Description: "vibration at count 100, lift jams at 30 while retracting",
		Rig:         DefaultRigConfig(),
		Steps: []*Step{
			{
				Name:    "vibration",
				At:      AtCount(core.AxisTranslational, core.Forward, 100),
				Actions: []Action{TripVibration(core.VibrationSlowA)},
			},
			{
				Name:    "lift-jam",
				At:      AtCount(core.AxisTranslational, core.Reverse, 30),
				Actions: []Action{Jam(core.AxisTranslational)},
			},
		},
	}
}

// Builtin returns the named built-in scenarios.
func Builtin() map[string]func() Scenario {
	return map[string]func() Scenario{
		"nominal":          Nominal,
		"sensor-timeout":   SensorTimeout,
		"override-kill":    OverrideKill,
		"retraction-stall": RetractionStall,
	}
}
