package core

// Timer is a scheduled callback. Handler returns SF_DONE to drop the timer
// or SF_RESCHEDULE after moving WakeTime forward.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps timers in a list sorted by WakeTime.
type Scheduler struct {
	list *Timer
}

// Schedule adds a timer to the list
func (s *Scheduler) Schedule(t *Timer) {
	Critical(func() { s.insert(t) })
}

// insert keeps timers with equal WakeTime in scheduling order
func (s *Scheduler) insert(t *Timer) {
	if s.list == nil || TimerBefore(t.WakeTime, s.list.WakeTime) {
		t.Next = s.list
		s.list = t
		return
	}

	cur := s.list
	for cur.Next != nil && !TimerBefore(t.WakeTime, cur.Next.WakeTime) {
		cur = cur.Next
	}
	t.Next = cur.Next
	cur.Next = t
}

// Cancel removes a timer. It returns false if the timer was not pending.
func (s *Scheduler) Cancel(t *Timer) (found bool) {
	Critical(func() {
		prev := &s.list
		for cur := s.list; cur != nil; cur = cur.Next {
			if cur == t {
				*prev = cur.Next
				cur.Next = nil
				found = true
				return
			}
			prev = &cur.Next
		}
	})
	return found
}

// Dispatch runs every timer due at or before now and returns how many
// handlers ran.
func (s *Scheduler) Dispatch(now uint32) (fired int) {
	Critical(func() {
		for s.list != nil && !TimerBefore(now, s.list.WakeTime) {
			t := s.list
			s.list = t.Next
			t.Next = nil

			fired++
			if t.Handler(t) == SF_RESCHEDULE {
				s.insert(t)
			}
		}
	})
	return fired
}

// Pending returns the number of scheduled timers
func (s *Scheduler) Pending() int {
	n := 0
	for t := s.list; t != nil; t = t.Next {
		n++
	}
	return n
}
