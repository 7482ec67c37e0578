package sim

import (
	"testing"

	"soildrill/core"
)

func TestRigMovesDrivenAxes(t *testing.T) {
	r := New(DefaultRigConfig())
	r.InitAll()
	r.Drive(core.AxisTranslational, core.Forward)

	r.Wait(5000)
	c := r.Read()
	if c.Translational != 10 || c.Rotational != 0 {
		t.Errorf("Expected 10/0 after 5ms, got %d/%d", c.Translational, c.Rotational)
	}

	r.Brake(core.AxisTranslational)
	r.Wait(5000)
	if r.Read().Translational != 10 {
		t.Error("Expected a braked axis to hold its count")
	}
}

func TestRigPartialSteps(t *testing.T) {
	r := New(DefaultRigConfig())
	r.InitAll()
	r.Drive(core.AxisRotational, core.Forward)

	r.Wait(400)
	r.Wait(400)
	if r.Read().Rotational != 0 {
		t.Error("Expected no motion before a full millisecond")
	}
	r.Wait(200)
	if r.Read().Rotational != 3 {
		t.Errorf("Expected 3 counts after 1ms, got %d", r.Read().Rotational)
	}
	if r.Now() != 1000 {
		t.Errorf("Expected time 1000, got %d", r.Now())
	}
}

func TestRigDisableAllStopsMotion(t *testing.T) {
	r := New(DefaultRigConfig())
	r.InitAll()
	r.DisableAll()
	r.Drive(core.AxisTranslational, core.Forward)
	r.Wait(10000)
	if r.Read().Translational != 0 || r.Engaged() {
		t.Error("Expected disabled motors to ignore drive commands")
	}

	r.InitAll()
	r.Drive(core.AxisTranslational, core.Forward)
	r.Wait(1000)
	if r.Read().Translational == 0 {
		t.Error("Expected motion after re-init")
	}
}

func TestRigStepsFireInOrder(t *testing.T) {
	r := New(DefaultRigConfig())
	r.InitAll()
	first := &Step{At: AtTime(3000), Actions: []Action{SetRemote(core.RemoteOverride)}}
	second := &Step{At: AtTime(1000), Delay: 2000, Actions: []Action{SetRemote(core.RemoteOff)}}
	r.Script(first, second)

	r.Wait(2000)
	if first.Fired() || r.State() != core.RemoteEnabled {
		t.Fatal("Expected no step before its time")
	}
	r.Wait(1000)
	if !first.Fired() || !second.Fired() {
		t.Fatal("Expected both steps armed at 3ms")
	}
	if r.State() != core.RemoteOverride {
		t.Errorf("Expected OVERRIDE, got %v", r.State())
	}
	if r.Pending() != 1 {
		t.Errorf("Expected one delayed action pending, got %d", r.Pending())
	}
	r.Wait(2000)
	if r.State() != core.RemoteOff {
		t.Errorf("Expected OFF after the delay, got %v", r.State())
	}
}

func TestRigAtCountNeedsDirection(t *testing.T) {
	r := New(DefaultRigConfig())
	r.InitAll()
	step := &Step{At: AtCount(core.AxisTranslational, core.Reverse, 4), Actions: []Action{Jam(core.AxisTranslational)}}
	r.Script(step)

	r.Drive(core.AxisTranslational, core.Forward)
	r.Wait(5000)
	if step.Fired() {
		t.Fatal("Expected the step to wait for reverse motion")
	}
	r.Clear()
	r.Drive(core.AxisTranslational, core.Reverse)
	r.Wait(5000)
	if !step.Fired() || r.Read().Translational != 4 {
		t.Errorf("Expected jam at 4, got %d", r.Read().Translational)
	}
}

func TestRigVibrationLatch(t *testing.T) {
	r := New(DefaultRigConfig())
	TripVibration(core.VibrationMediumA)(r)
	if r.Check(core.VibrationMediumA) {
		t.Error("Expected trips ignored before init")
	}
	r.InitAll()
	r.Apply(TripVibration(core.VibrationMediumA))
	if !r.Check(core.VibrationMediumA) || r.Check(core.VibrationMediumA) {
		t.Error("Expected a single-shot latch")
	}
}

func TestBuiltinScenarios(t *testing.T) {
	for name, build := range Builtin() {
		sc := build()
		if sc.Name != name {
			t.Errorf("Expected scenario name %q, got %q", name, sc.Name)
		}
		if r := sc.NewRig(); r.Pending() != len(sc.Steps) {
			t.Errorf("%s: expected %d pending steps, got %d", name, len(sc.Steps), r.Pending())
		}
	}
}

func TestRigService(t *testing.T) {
	r := New(DefaultRigConfig())
	r.InitAll()
	r.Apply(TimeoutRange(core.RangeA), FailGyro(), Jam(core.AxisTranslational),
		TripVibration(core.VibrationSlowB), SetRemote(core.RemoteOff))

	r.Apply(Service())

	if d := r.Distance(core.RangeA); d != 12 {
		t.Errorf("Expected range A restored to 12, got %d", d)
	}
	if _, err := r.Rotation(); err != nil {
		t.Errorf("Expected gyro restored, got %v", err)
	}
	if r.Check(core.VibrationSlowB) {
		t.Error("Expected vibration latch cleared")
	}
	if r.State() != core.RemoteOff {
		t.Errorf("Expected remote untouched, got %v", r.State())
	}
	r.Drive(core.AxisTranslational, core.Forward)
	r.Wait(1000)
	if r.Read().Translational == 0 {
		t.Error("Expected translational axis to move after service")
	}
}
