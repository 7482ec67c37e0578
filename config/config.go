// Package config loads the YAML configuration used by the simulator and
// the host tools: drill thresholds, the simulated rig and scripted
// scenarios.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"soildrill/core"
	"soildrill/drill"
	"soildrill/sim"
)

type Config struct {
	Drill     DrillConfig      `yaml:"drill"`
	Rig       RigConfig        `yaml:"rig"`
	Scenarios []ScenarioConfig `yaml:"scenarios"`
}

// ---- DRILL ----

type DrillConfig struct {
	TargetTicks    uint16 `yaml:"target_ticks"`
	PollIntervalMs uint32 `yaml:"poll_interval_ms"`
	EnablePollMs   uint32 `yaml:"enable_poll_ms"`
	KillWindowMs   uint32 `yaml:"kill_window_ms"`
	BottomDwellMs  uint32 `yaml:"bottom_dwell_ms"`

	Obstacle WindowConfig       `yaml:"obstacle"`
	Accel    VectorWindowConfig `yaml:"accel"`
	Gyro     VectorWindowConfig `yaml:"gyro"`
	Wiring   WiringConfig       `yaml:"wiring"`

	// Rearm defaults to true when omitted
	Rearm *bool `yaml:"rearm"`
}

type WindowConfig struct {
	MinCm uint16 `yaml:"min_cm"`
	MaxCm uint16 `yaml:"max_cm"`
}

type VectorConfig struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
	Z int32 `yaml:"z"`
}

type VectorWindowConfig struct {
	Min *VectorConfig `yaml:"min"`
	Max *VectorConfig `yaml:"max"`
}

// WiringConfig names the motor direction ("forward" or "reverse") per
// axis and travel direction.
type WiringConfig struct {
	DescendRotational    string `yaml:"descend_rotational"`
	DescendTranslational string `yaml:"descend_translational"`
	AscendRotational     string `yaml:"ascend_rotational"`
	AscendTranslational  string `yaml:"ascend_translational"`
}

// ---- RIG ----

type RigConfig struct {
	RotationalRate    uint16        `yaml:"rotational_rate"`
	TranslationalRate uint16        `yaml:"translational_rate"`
	RangeACm          uint16        `yaml:"range_a_cm"`
	RangeBCm          uint16        `yaml:"range_b_cm"`
	Accel             *VectorConfig `yaml:"accel"`
	Gyro              *VectorConfig `yaml:"gyro"`
	Remote            string        `yaml:"remote"`
}

// ---- SCENARIOS ----

type ScenarioConfig struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []StepConfig `yaml:"steps"`
}

// StepConfig fires its actions once At holds, after DelayMs.
type StepConfig struct {
	Name    string         `yaml:"name"`
	At      TriggerConfig  `yaml:"at"`
	DelayMs uint32         `yaml:"delay_ms"`
	Actions []ActionConfig `yaml:"actions"`
}

// TriggerConfig is either a count on an axis moving in a direction, an
// absolute time, or empty for immediately.
type TriggerConfig struct {
	Axis      string  `yaml:"axis"`
	Direction string  `yaml:"direction"`
	Count     *uint16 `yaml:"count"`
	TimeMs    *uint32 `yaml:"time_ms"`
}

// ActionConfig is one rig change. Type selects which other fields apply.
type ActionConfig struct {
	Type   string        `yaml:"type"`
	Sensor string        `yaml:"sensor"`
	Cm     uint16        `yaml:"cm"`
	Vector *VectorConfig `yaml:"vector"`
	Switch *uint8        `yaml:"switch"`
	Axis   string        `yaml:"axis"`
	State  string        `yaml:"state"`
}

// LoadConfig parses YAML data and applies defaults. Call Validate and
// then Normalize before use.
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Load reads, parses, validates and normalizes the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	Normalize(cfg)
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	Normalize(cfg)
	return cfg
}

// applyDefaults fills in missing values from drill.DefaultConfig and
// sim.DefaultRigConfig.
func applyDefaults(cfg *Config) {
	def := drill.DefaultConfig()
	d := &cfg.Drill
	if d.TargetTicks == 0 {
		d.TargetTicks = def.TargetTicks
	}
	if d.PollIntervalMs == 0 {
		d.PollIntervalMs = core.TimerToMS(def.PollInterval)
	}
	if d.EnablePollMs == 0 {
		d.EnablePollMs = core.TimerToMS(def.EnablePoll)
	}
	if d.KillWindowMs == 0 {
		d.KillWindowMs = core.TimerToMS(def.KillWindow)
	}
	if d.Obstacle.MinCm == 0 && d.Obstacle.MaxCm == 0 {
		d.Obstacle = WindowConfig{MinCm: def.ObstacleMin, MaxCm: def.ObstacleMax}
	}
	if d.Accel.Min == nil {
		d.Accel.Min = vectorConfig(def.AccelMin)
	}
	if d.Accel.Max == nil {
		d.Accel.Max = vectorConfig(def.AccelMax)
	}
	if d.Gyro.Min == nil {
		d.Gyro.Min = vectorConfig(def.GyroMin)
	}
	if d.Gyro.Max == nil {
		d.Gyro.Max = vectorConfig(def.GyroMax)
	}
	w := &d.Wiring
	for _, dir := range []struct {
		name *string
		def  core.Direction
	}{
		{&w.DescendRotational, def.Wiring.DescendRotational},
		{&w.DescendTranslational, def.Wiring.DescendTranslational},
		{&w.AscendRotational, def.Wiring.AscendRotational},
		{&w.AscendTranslational, def.Wiring.AscendTranslational},
	} {
		if *dir.name == "" {
			*dir.name = dir.def.String()
		}
	}
	if d.Rearm == nil {
		rearm := def.Rearm
		d.Rearm = &rearm
	}

	rig := sim.DefaultRigConfig()
	r := &cfg.Rig
	if r.RotationalRate == 0 {
		r.RotationalRate = rig.RotationalRate
	}
	if r.TranslationalRate == 0 {
		r.TranslationalRate = rig.TranslationalRate
	}
	if r.RangeACm == 0 {
		r.RangeACm = rig.RangeA
	}
	if r.RangeBCm == 0 {
		r.RangeBCm = rig.RangeB
	}
	if r.Accel == nil {
		r.Accel = vectorConfig(rig.Accel)
	}
	if r.Gyro == nil {
		r.Gyro = vectorConfig(rig.Gyro)
	}
	if r.Remote == "" {
		r.Remote = strings.ToLower(rig.Remote.String())
	}
}

func vectorConfig(v core.Vector) *VectorConfig {
	return &VectorConfig{X: v.X, Y: v.Y, Z: v.Z}
}
