package config

import (
	"strings"

	"soildrill/core"
)

func parseDirection(s string) (core.Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward":
		return core.Forward, true
	case "reverse":
		return core.Reverse, true
	}
	return 0, false
}

func parseAxis(s string) (core.Axis, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rotational":
		return core.AxisRotational, true
	case "translational":
		return core.AxisTranslational, true
	}
	return 0, false
}

func parseSensor(s string) (core.RangeSensor, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return core.RangeA, true
	case "b":
		return core.RangeB, true
	}
	return 0, false
}

func parseRemote(s string) (core.RemoteState, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return core.RemoteOff, true
	case "enabled":
		return core.RemoteEnabled, true
	case "override":
		return core.RemoteOverride, true
	}
	return 0, false
}

// action types
const (
	ActionSetRange       = "set_range"
	ActionTimeoutRange   = "timeout_range"
	ActionSetAccel       = "set_accel"
	ActionSetGyro        = "set_gyro"
	ActionFailAccel      = "fail_accel"
	ActionFailGyro       = "fail_gyro"
	ActionRestoreSensors = "restore_sensors"
	ActionTripVibration  = "trip_vibration"
	ActionJam            = "jam"
	ActionUnjam          = "unjam"
	ActionSetRemote      = "set_remote"
)
