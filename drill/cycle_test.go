package drill

import (
	"context"
	"errors"
	"strings"
	"testing"

	"soildrill/core"
	"soildrill/sim"
)

func newTestController(t *testing.T, r *sim.Rig, cfg Config) (*Controller, *eventLog) {
	t.Helper()
	core.ClearEventRing()
	log := &eventLog{}
	c, err := NewController(cfg, r.Peripherals(), log)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return c, log
}

func checkOutcomeLamps(t *testing.T, r *sim.Rig, outcome Outcome) {
	t.Helper()
	errLamp, doneLamp := r.Lamp(core.IndicatorError), r.Lamp(core.IndicatorComplete)
	if errLamp == doneLamp {
		t.Errorf("Expected exactly one outcome lamp, got error=%v complete=%v", errLamp, doneLamp)
	}
	if (outcome == OutcomeComplete) != doneLamp {
		t.Errorf("Expected lamps to show %v", outcome)
	}
	if r.Lamp(core.IndicatorMotor) {
		t.Error("Expected MOTOR lamp off after the cycle")
	}
}

func TestControllerRejectsBadSetup(t *testing.T) {
	r := sim.New(sim.DefaultRigConfig())
	cfg := DefaultConfig()
	cfg.TargetTicks = 0
	if _, err := NewController(cfg, r.Peripherals(), nil); !errors.Is(err, ErrTargetZero) {
		t.Errorf("Expected ErrTargetZero, got %v", err)
	}
	if _, err := NewController(DefaultConfig(), &core.Peripherals{}, nil); !errors.Is(err, core.ErrMissingDriver) {
		t.Errorf("Expected ErrMissingDriver, got %v", err)
	}
}

// 200 ticks, healthy sensors
func TestScenarioNominal(t *testing.T) {
	r := sim.Nominal().NewRig()
	c, log := newTestController(t, r, testConfig())

	report, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if report.Outcome != OutcomeComplete || report.Phase != PhaseDone {
		t.Errorf("Expected COMPLETE/DONE, got %v/%v", report.Outcome, report.Phase)
	}
	if report.Recovery != RecoveryNotRun {
		t.Errorf("Expected no recovery, got %v", report.Recovery)
	}
	want := []Phase{PhaseDescending, PhaseAscending, PhaseDone}
	if got := log.phases(); !samePhases(got, want) {
		t.Errorf("Expected phases %v, got %v", want, got)
	}
	checkOutcomeLamps(t, r, OutcomeComplete)
	if r.Engaged() {
		t.Error("Expected motors disengaged at COMPLETE")
	}
	if r.DisableAllCalls != 1 {
		t.Errorf("Expected one full disable, got %d", r.DisableAllCalls)
	}
	if line1, _ := r.Display(); line1 != "COMPLETE" {
		t.Errorf("Expected COMPLETE on the display, got %q", line1)
	}
	if st := c.Status(); st.Cycle != 1 || st.Completed != 1 || st.Failed != 0 {
		t.Errorf("Unexpected status %+v", st)
	}
}

// rangefinder A times out at count 80 while descending
func TestScenarioSensorTimeout(t *testing.T) {
	r := sim.SensorTimeout().NewRig()
	c, _ := newTestController(t, r, testConfig())

	var dump []string
	core.SetDebugWriter(func(s string) { dump = append(dump, s) })
	defer core.SetDebugWriter(nil)

	report, _ := c.RunCycle(context.Background())
	if report.Phase != PhaseFaulted || report.Fault.Cause != CauseVerdict {
		t.Fatalf("Expected verdict fault, got %v/%v", report.Phase, report.Fault.Cause)
	}
	if report.Fault.Translational != 80 {
		t.Errorf("Expected record 80, got %d", report.Fault.Translational)
	}
	if report.Fault.Valid() {
		t.Error("Expected the record consumed by recovery")
	}
	if report.Recovery != RecoveryRetracted {
		t.Errorf("Expected retraction, got %v", report.Recovery)
	}
	if report.Outcome != OutcomeError {
		t.Errorf("Expected ERROR, got %v", report.Outcome)
	}
	checkOutcomeLamps(t, r, OutcomeError)
	if r.DisableAllCalls != 1 {
		t.Errorf("Expected one full disable, got %d", r.DisableAllCalls)
	}
	if len(dump) == 0 || !strings.Contains(strings.Join(dump, "\n"), "fault") {
		t.Errorf("Expected an event dump with the fault, got %v", dump)
	}
}

// override at 150 while ascending, remote off inside the kill window
func TestScenarioOverrideKill(t *testing.T) {
	r := sim.OverrideKill().NewRig()
	cfg := testConfig()
	cfg.KillWindow = 2000000
	c, _ := newTestController(t, r, cfg)

	report, _ := c.RunCycle(context.Background())
	if report.Phase != PhaseRetracting || report.Fault.Cause != CauseOverride {
		t.Fatalf("Expected override, got %v/%v", report.Phase, report.Fault.Cause)
	}
	if report.Fault.Translational != 150 {
		t.Errorf("Expected record 150, got %d", report.Fault.Translational)
	}
	if report.Recovery != RecoveryKilled {
		t.Errorf("Expected killed, got %v", report.Recovery)
	}
	// descent and ascent only, no retraction
	if r.DriveCalls != 4 {
		t.Errorf("Expected 4 drive commands, got %d", r.DriveCalls)
	}
	if r.DisableAllCalls != 1 {
		t.Errorf("Expected one full disable, got %d", r.DisableAllCalls)
	}
	checkOutcomeLamps(t, r, OutcomeError)
	if line1, _ := r.Display(); line1 != "KILLED" {
		t.Errorf("Expected KILLED on the display, got %q", line1)
	}
}

// lift jams while retracting after a vibration fault
func TestScenarioRetractionStall(t *testing.T) {
	r := sim.RetractionStall().NewRig()
	c, _ := newTestController(t, r, testConfig())

	report, _ := c.RunCycle(context.Background())
	if report.Fault.Translational != 100 {
		t.Errorf("Expected record 100, got %d", report.Fault.Translational)
	}
	if report.Recovery != RecoveryStalled {
		t.Fatalf("Expected stalled, got %v", report.Recovery)
	}
	if r.DisableAllCalls != 1 || r.StopCalls != 1 {
		t.Errorf("Expected full disable exactly once, got %d/%d", r.DisableAllCalls, r.StopCalls)
	}
	checkOutcomeLamps(t, r, OutcomeError)
}

func TestControllerInitFailure(t *testing.T) {
	r := sim.Nominal().NewRig()
	r.FailInit(sim.ErrInit)
	c, log := newTestController(t, r, testConfig())

	report, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if !report.InitFailed || report.Outcome != OutcomeError {
		t.Errorf("Expected init failure, got %+v", report)
	}
	if r.DriveCalls != 0 {
		t.Errorf("Expected no motion, got %d drive commands", r.DriveCalls)
	}
	if log.count(EventInitFailed) != 1 {
		t.Error("Expected an init-failed event")
	}
	checkOutcomeLamps(t, r, OutcomeError)
}

func TestControllerCancelledCycleSkipsRecovery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := sim.Nominal().NewRig()
	r.Script(&sim.Step{
		At:      sim.AtCount(core.AxisTranslational, core.Forward, 50),
		Actions: []sim.Action{sim.Call(cancel)},
	})
	c, _ := newTestController(t, r, testConfig())

	report, err := c.RunCycle(ctx)
	if err != nil {
		t.Fatalf("Expected the started cycle to report, got %v", err)
	}
	if report.Fault.Cause != CauseCancelled || report.Recovery != RecoveryNotRun {
		t.Errorf("Expected cancel without recovery, got %v/%v", report.Fault.Cause, report.Recovery)
	}
	if r.DisableAllCalls != 1 {
		t.Errorf("Expected one full disable, got %d", r.DisableAllCalls)
	}
	if _, err := c.RunCycle(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestControllerRearm(t *testing.T) {
	r := sim.Nominal().NewRig()
	c, _ := newTestController(t, r, testConfig())
	if _, err := c.RunCycle(context.Background()); err != nil {
		t.Fatalf("first cycle: %v", err)
	}

	start := r.Now()
	r.Script(
		&sim.Step{At: sim.Immediately(), Delay: 50000, Actions: []sim.Action{sim.SetRemote(core.RemoteOff)}},
		&sim.Step{At: sim.Immediately(), Delay: 120000, Actions: []sim.Action{sim.SetRemote(core.RemoteEnabled)}},
	)
	report, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if report.Cycle != 2 || report.Outcome != OutcomeComplete {
		t.Errorf("Expected second cycle complete, got %+v", report)
	}
	if r.InitCalls != 2 {
		t.Errorf("Expected init per cycle, got %d", r.InitCalls)
	}
	if r.DisableAllCalls != 2 {
		t.Errorf("Expected one full disable per cycle, got %d", r.DisableAllCalls)
	}
	if r.Now()-start < 120000 {
		t.Errorf("Expected the cycle to wait for the remote to rearm")
	}
}

func TestControllerRunUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := sim.Nominal().NewRig()
	r.Script(
		&sim.Step{At: sim.AtCount(core.AxisTranslational, core.Reverse, 200)},
		&sim.Step{At: sim.AtCount(core.AxisTranslational, core.Forward, 10)},
		&sim.Step{
			At:      sim.AtCount(core.AxisTranslational, core.Reverse, 200),
			Actions: []sim.Action{sim.Call(cancel)},
		},
	)
	cfg := testConfig()
	cfg.Rearm = false
	c, _ := newTestController(t, r, cfg)

	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if st := c.Status(); st.Completed != 2 {
		t.Errorf("Expected 2 completed cycles, got %+v", st)
	}
}

func TestControllerWaitsForEnable(t *testing.T) {
	cfg := sim.DefaultRigConfig()
	cfg.Remote = core.RemoteOff
	r := sim.New(cfg)
	r.Script(&sim.Step{At: sim.AtTime(300000), Actions: []sim.Action{sim.SetRemote(core.RemoteEnabled)}})
	c, _ := newTestController(t, r, testConfig())

	report, err := c.RunCycle(context.Background())
	if err != nil || report.Outcome != OutcomeComplete {
		t.Fatalf("Expected a complete cycle, got %+v, %v", report, err)
	}
	for _, cmd := range r.Log {
		if cmd.Time < 300000 {
			t.Fatalf("Expected no motor command before enable, got %v at %d", cmd.Op, cmd.Time)
		}
	}
}
