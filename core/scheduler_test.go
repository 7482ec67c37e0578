package core

import "testing"

func TestSchedulerDispatchOrder(t *testing.T) {
	var s Scheduler
	var order []int

	mk := func(id int, wake uint32) *Timer {
		return &Timer{WakeTime: wake, Handler: func(*Timer) uint8 {
			order = append(order, id)
			return SF_DONE
		}}
	}

	s.Schedule(mk(3, 300))
	s.Schedule(mk(1, 100))
	s.Schedule(mk(2, 100))
	s.Schedule(mk(4, 400))

	if n := s.Dispatch(250); n != 2 {
		t.Errorf("Expected 2 timers to fire at 250, got %d", n)
	}
	if n := s.Dispatch(400); n != 2 {
		t.Errorf("Expected 2 timers to fire at 400, got %d", n)
	}

	want := []int{1, 2, 3, 4}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
	if s.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", s.Pending())
	}
}

func TestSchedulerReschedule(t *testing.T) {
	var s Scheduler
	count := 0
	timer := &Timer{WakeTime: 10}
	timer.Handler = func(tm *Timer) uint8 {
		count++
		if count == 3 {
			return SF_DONE
		}
		tm.WakeTime += 10
		return SF_RESCHEDULE
	}
	s.Schedule(timer)

	for now := uint32(0); now <= 100; now += 10 {
		s.Dispatch(now)
	}
	if count != 3 {
		t.Errorf("Expected handler to run 3 times, got %d", count)
	}
}

func TestSchedulerCancel(t *testing.T) {
	var s Scheduler
	fired := false
	a := &Timer{WakeTime: 5, Handler: func(*Timer) uint8 { fired = true; return SF_DONE }}
	b := &Timer{WakeTime: 6, Handler: func(*Timer) uint8 { return SF_DONE }}
	s.Schedule(a)
	s.Schedule(b)

	if !s.Cancel(a) {
		t.Error("Expected Cancel to find the timer")
	}
	if s.Cancel(a) {
		t.Error("Expected second Cancel to report false")
	}
	s.Dispatch(10)
	if fired {
		t.Error("Cancelled timer fired")
	}
}

func TestTimerBeforeWraps(t *testing.T) {
	if !TimerBefore(0xFFFFFFF0, 0x10) {
		t.Error("Expected a time just before wraparound to be earlier")
	}
	if TimerBefore(0x10, 0xFFFFFFF0) {
		t.Error("Expected a time just after wraparound to be later")
	}
}
