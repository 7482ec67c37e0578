package drivers

import "soildrill/core"

// AccelSource reads acceleration in micro-g.
// tinygo.org/x/drivers/lsm6ds3tr.Device satisfies it.
type AccelSource interface {
	ReadAcceleration() (x, y, z int32, err error)
}

// GyroSource reads angular rate in micro-degrees per second.
type GyroSource interface {
	ReadRotation() (x, y, z int32, err error)
}

// IMU adapts micro-unit sources to core.AccelerometerDriver and
// core.GyroscopeDriver, which work in milli-units.
type IMU struct {
	Accel AccelSource
	Gyro  GyroSource
}

func (m IMU) Acceleration() (core.Vector, error) {
	x, y, z, err := m.Accel.ReadAcceleration()
	if err != nil {
		return core.Vector{}, err
	}
	return core.Vector{X: x / 1000, Y: y / 1000, Z: z / 1000}, nil
}

func (m IMU) Rotation() (core.Vector, error) {
	x, y, z, err := m.Gyro.ReadRotation()
	if err != nil {
		return core.Vector{}, err
	}
	return core.Vector{X: x / 1000, Y: y / 1000, Z: z / 1000}, nil
}
