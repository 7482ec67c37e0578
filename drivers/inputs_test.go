package drivers

import (
	"testing"

	"soildrill/core"
)

func TestQuadratureCountsEveryChange(t *testing.T) {
	var q QuadratureCounter
	q.Start(false, false)

	// one full quadrature cycle is four state changes
	seq := [][2]bool{{true, false}, {true, true}, {false, true}, {false, false}}
	for _, s := range seq {
		q.Update(s[0], s[1])
	}
	q.Update(false, false) // no change

	if q.Count() != 4 {
		t.Errorf("Expected 4 counts, got %d", q.Count())
	}

	q.Stop()
	q.Update(true, false)
	if q.Count() != 4 {
		t.Errorf("Expected no counting while stopped, got %d", q.Count())
	}

	q.Clear()
	if q.Count() != 0 {
		t.Errorf("Expected count cleared, got %d", q.Count())
	}
}

func TestQuadratureSaturates(t *testing.T) {
	var q QuadratureCounter
	q.Start(false, false)
	level := false
	for i := 0; i < 0x10005; i++ {
		level = !level
		q.Update(level, false)
	}
	if q.Count() != 0xFFFF {
		t.Errorf("Expected count to saturate at 0xFFFF, got %d", q.Count())
	}
}

func TestEncoderPair(t *testing.T) {
	var e EncoderPair
	e.Rotational.Start(false, false)
	e.Translational.Start(false, false)

	e.Rotational.Update(true, false)
	e.Rotational.Update(true, true)
	e.Translational.Update(false, true)

	got := e.Read()
	if got.Rotational != 2 || got.Translational != 1 {
		t.Errorf("Expected {2 1}, got %+v", got)
	}

	e.Clear()
	if got := e.Read(); got.Rotational != 0 || got.Translational != 0 {
		t.Errorf("Expected cleared counts, got %+v", got)
	}

	e.Stop()
	if e.Rotational.Running() || e.Translational.Running() {
		t.Error("Expected both counters stopped")
	}
}

func TestVibrationLatchConsumeOnce(t *testing.T) {
	var v VibrationLatch

	v.Trip(core.VibrationMediumA)
	if v.Check(core.VibrationMediumA) {
		t.Error("Expected trips to be ignored while disabled")
	}

	v.Enable()
	v.Trip(core.VibrationSlowB)
	if !v.Check(core.VibrationSlowB) {
		t.Error("Expected latched trip")
	}
	if v.Check(core.VibrationSlowB) {
		t.Error("Expected second check to read false after clear")
	}

	v.Trip(core.VibrationMediumB)
	v.Disable()
	if v.Check(core.VibrationMediumB) {
		t.Error("Expected Disable to drop pending trips")
	}
	if v.Check(core.VibrationSwitch(9)) {
		t.Error("Expected unknown switch to read false")
	}
}

func TestPulseBandsClassify(t *testing.T) {
	bands := DefaultPulseBands()
	tests := []struct {
		width uint32
		state core.RemoteState
		ok    bool
	}{
		{1000, core.RemoteOff, true},
		{990, core.RemoteOff, true},
		{1010, core.RemoteOff, true},
		{1011, 0, false},
		{1500, core.RemoteOverride, true},
		{1492, core.RemoteOverride, true},
		{2000, core.RemoteEnabled, true},
		{2010, core.RemoteEnabled, true},
		{1750, 0, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		state, ok := bands.Classify(tt.width)
		if ok != tt.ok || (ok && state != tt.state) {
			t.Errorf("Classify(%d): expected (%v, %v), got (%v, %v)", tt.width, tt.state, tt.ok, state, ok)
		}
	}
}

func TestPulseDecoderKeepsStateOnBadPulse(t *testing.T) {
	now := uint32(0)
	d := NewPulseDecoder(DefaultPulseBands(), func() uint32 { return now })

	if d.State() != core.RemoteOff {
		t.Fatalf("Expected initial state OFF, got %v", d.State())
	}

	d.Edge(true, 100)
	d.Edge(false, 2100)
	if d.State() != core.RemoteEnabled {
		t.Errorf("Expected ENABLED, got %v", d.State())
	}

	d.Edge(true, 20000)
	d.Edge(false, 21750)
	if d.State() != core.RemoteEnabled {
		t.Errorf("Expected out-of-band pulse to keep ENABLED, got %v", d.State())
	}

	// a falling edge without a rising edge is ignored
	d.Edge(false, 30000)
	d.Edge(true, 40000)
	d.Edge(false, 41500)
	if d.State() != core.RemoteOverride {
		t.Errorf("Expected OVERRIDE, got %v", d.State())
	}
}

func TestPulseDecoderFailsafe(t *testing.T) {
	now := uint32(0)
	d := NewPulseDecoder(DefaultPulseBands(), func() uint32 { return now })
	d.SetFailsafe(100000, core.RemoteOverride)

	d.Pulse(2000, 1000)
	now = 50000
	if d.State() != core.RemoteEnabled {
		t.Errorf("Expected ENABLED within the loss timeout, got %v", d.State())
	}

	now = 200000
	if d.State() != core.RemoteOverride {
		t.Errorf("Expected failsafe OVERRIDE after signal loss, got %v", d.State())
	}

	d.Pulse(2000, now)
	if d.State() != core.RemoteEnabled {
		t.Errorf("Expected ENABLED after signal returns, got %v", d.State())
	}
}
