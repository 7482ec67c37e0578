package monitor

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"soildrill/drill"
	"soildrill/host/serial"
	"soildrill/protocol"
	"soildrill/telemetry"
)

// device runs a telemetry.Link on one end of a pipe.
type device struct {
	conn net.Conn
	mu   sync.Mutex
	out  *protocol.ScratchOutput
	link *telemetry.Link
	done chan struct{}
}

func startDevice(t *testing.T, conn net.Conn, status drill.Status) *device {
	t.Helper()
	d := &device{conn: conn, out: protocol.NewScratchOutput(), done: make(chan struct{})}
	d.link = telemetry.NewLink(d.out, d.flush, "monitor-test")
	d.link.Publish(drill.DefaultConfig())
	d.link.SetStatusSource(fixedStatus(status))
	go d.serve()
	return d
}

type fixedStatus drill.Status

func (s fixedStatus) Status() drill.Status { return drill.Status(s) }

func (d *device) flush() {
	if len(d.out.Result()) > 0 {
		d.conn.Write(d.out.Result())
		d.out.Reset()
	}
}

func (d *device) serve() {
	defer close(d.done)
	var pending []byte
	buf := make([]byte, 128)
	for {
		n, err := d.conn.Read(buf)
		if err != nil {
			return
		}
		pending = append(pending, buf[:n]...)
		in := protocol.NewSliceInputBuffer(pending)
		d.mu.Lock()
		d.link.Receive(in)
		d.flush()
		d.mu.Unlock()
		pending = append(pending[:0], in.Data()...)
	}
}

func (d *device) report(ev drill.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.link.Report(ev)
	d.flush()
}

func newPair(t *testing.T, status drill.Status) (*Monitor, *device) {
	t.Helper()
	host, dev := net.Pipe()
	d := startDevice(t, dev, status)
	m := New(serial.Wrap(host), zerolog.Nop())
	t.Cleanup(func() {
		m.Close()
		dev.Close()
		<-d.done
	})
	return m, d
}

func nextUpdate(t *testing.T, m *Monitor) telemetry.Update {
	t.Helper()
	select {
	case u := <-m.Updates():
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for an update")
	}
	return telemetry.Update{}
}

func TestRetrieveDictionary(t *testing.T) {
	m, d := newPair(t, drill.Status{})

	if err := m.RetrieveDictionary(); err != nil {
		t.Fatalf("RetrieveDictionary failed: %v", err)
	}
	dict := m.Dictionary()
	if dict.Version != "monitor-test" {
		t.Errorf("Expected version monitor-test, got %q", dict.Version)
	}
	if string(m.DictionaryRaw()) != string(d.link.Registry().Dictionary()) {
		t.Error("Expected raw dictionary to match the device's")
	}
	if v, ok := m.Constant("TARGET_TICKS"); !ok || v != "200" {
		t.Errorf("Expected TARGET_TICKS 200, got %q/%v", v, ok)
	}
	m.LogDictionary()
}

func TestRequestStatus(t *testing.T) {
	m, _ := newPair(t, drill.Status{Cycle: 7, Phase: drill.PhaseRetracting, Completed: 5, Failed: 2})
	if err := m.RetrieveDictionary(); err != nil {
		t.Fatalf("RetrieveDictionary failed: %v", err)
	}

	if err := m.RequestStatus(); err != nil {
		t.Fatalf("RequestStatus failed: %v", err)
	}
	u := nextUpdate(t, m)
	if u.Status == nil {
		t.Fatalf("Expected a status update, got %+v", u)
	}
	if u.Status.Cycle != 7 || u.Status.Phase != drill.PhaseRetracting || u.Status.Completed != 5 || u.Status.Failed != 2 {
		t.Errorf("Unexpected status %+v", *u.Status)
	}
}

func TestReportsBecomeUpdates(t *testing.T) {
	m, d := newPair(t, drill.Status{})
	if err := m.RetrieveDictionary(); err != nil {
		t.Fatalf("RetrieveDictionary failed: %v", err)
	}

	d.report(drill.Event{Kind: drill.EventFault, Cycle: 2, Cause: drill.CauseOverride,
		Snapshot: drill.EncoderSnapshot{Translational: 150}})
	d.report(drill.Event{Kind: drill.EventOutcome, Cycle: 2, Outcome: drill.OutcomeError})

	u := nextUpdate(t, m)
	if u.Event == nil || u.Event.Kind != drill.EventFault || u.Event.Cause != drill.CauseOverride ||
		u.Event.Snapshot.Translational != 150 {
		t.Errorf("Expected override fault at 150, got %+v", u.Event)
	}
	u = nextUpdate(t, m)
	if u.Event == nil || u.Event.Kind != drill.EventOutcome || u.Event.Outcome != drill.OutcomeError {
		t.Errorf("Expected error outcome, got %+v", u.Event)
	}
}

func TestSendCommandNeedsDictionary(t *testing.T) {
	m, _ := newPair(t, drill.Status{})

	if err := m.RequestStatus(); !errors.Is(err, ErrNoDictionary) {
		t.Errorf("Expected ErrNoDictionary, got %v", err)
	}
	if err := m.RetrieveDictionary(); err != nil {
		t.Fatalf("RetrieveDictionary failed: %v", err)
	}
	if err := m.SendCommand("get_uptime", nil); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}
}
