package drill

import (
	"errors"

	"soildrill/core"
)

var (
	ErrTargetZero     = errors.New("drill: target ticks must be positive")
	ErrPollZero       = errors.New("drill: poll interval must be positive")
	ErrObstacleWindow = errors.New("drill: obstacle window is empty")
	ErrAccelWindow    = errors.New("drill: accelerometer window is empty")
	ErrGyroWindow     = errors.New("drill: gyroscope window is empty")
)

// Wiring maps travel directions to motor directions for each axis.
type Wiring struct {
	DescendRotational    core.Direction
	DescendTranslational core.Direction
	AscendRotational     core.Direction
	AscendTranslational  core.Direction
}

// DefaultWiring drives both axes forward on the way down and reverses them
// on the way up.
func DefaultWiring() Wiring {
	return Wiring{
		DescendRotational:    core.Forward,
		DescendTranslational: core.Forward,
		AscendRotational:     core.Reverse,
		AscendTranslational:  core.Reverse,
	}
}

// Config holds the thresholds and timings of one drilling cycle. All
// durations are clock ticks (microseconds).
type Config struct {
	// TargetTicks is the translational count ending each travel phase.
	TargetTicks uint16

	PollInterval uint32
	EnablePoll   uint32
	KillWindow   uint32
	// BottomDwell keeps the drill spinning at depth before ascending.
	BottomDwell uint32

	// Obstacle window in centimetres, inclusive.
	ObstacleMin uint16
	ObstacleMax uint16

	// milli-g
	AccelMin core.Vector
	AccelMax core.Vector

	// milli-degrees per second
	GyroMin core.Vector
	GyroMax core.Vector

	Wiring Wiring

	// Rearm requires the remote to leave ENABLED between cycles.
	Rearm bool
}

func DefaultConfig() Config {
	return Config{
		TargetTicks:  200,
		PollInterval: 5000,
		EnablePoll:   10000,
		KillWindow:   2000000,
		ObstacleMin:  10,
		ObstacleMax:  15,
		AccelMin:     core.Vector{X: -500, Y: -500, Z: 500},
		AccelMax:     core.Vector{X: 500, Y: 500, Z: 1500},
		GyroMin:      core.Vector{X: -30000, Y: -30000, Z: -30000},
		GyroMax:      core.Vector{X: 30000, Y: 30000, Z: 30000},
		Wiring:       DefaultWiring(),
		Rearm:        true,
	}
}

// Validate checks the config without modifying it.
func (c Config) Validate() error {
	if c.TargetTicks == 0 {
		return ErrTargetZero
	}
	if c.PollInterval == 0 || c.EnablePoll == 0 {
		return ErrPollZero
	}
	if c.ObstacleMin > c.ObstacleMax || c.ObstacleMax >= core.RangeTimeout {
		return ErrObstacleWindow
	}
	if !windowOK(c.AccelMin, c.AccelMax) {
		return ErrAccelWindow
	}
	if !windowOK(c.GyroMin, c.GyroMax) {
		return ErrGyroWindow
	}
	return nil
}

func windowOK(min, max core.Vector) bool {
	return min.X <= max.X && min.Y <= max.Y && min.Z <= max.Z
}
