package drill

import (
	"testing"

	"soildrill/core"
	"soildrill/sim"
)

type eventLog struct {
	events []Event
}

func (l *eventLog) Report(ev Event) {
	l.events = append(l.events, ev)
}

func (l *eventLog) phases() []Phase {
	var out []Phase
	for _, ev := range l.events {
		if ev.Kind == EventPhase {
			out = append(out, ev.Phase)
		}
	}
	return out
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.KillWindow = 100000
	return cfg
}

// initRig returns a scenario rig after a successful platform init.
func initRig(t *testing.T, sc sim.Scenario) *sim.Rig {
	t.Helper()
	r := sc.NewRig()
	if err := r.InitAll(); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	core.ClearEventRing()
	return r
}

func samePhases(a, b []Phase) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// brakedBefore reports whether both axes were braked after the last
// drive command preceding index i of the motor log.
func brakedBefore(log []sim.MotorCommand, i int) bool {
	var rot, trans bool
	for j := i - 1; j >= 0; j-- {
		cmd := log[j]
		if cmd.Op == sim.OpDrive {
			break
		}
		if cmd.Op == sim.OpBrake {
			if cmd.Axis == core.AxisRotational {
				rot = true
			} else {
				trans = true
			}
		}
	}
	return rot && trans
}
