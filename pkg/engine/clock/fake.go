package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Scheduler for tests. Callbacks only run inside
// Advance, on the calling goroutine, in deadline order (ties by registration).
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTicket
}

// NewFake returns a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Every registers fn to fire every d of fake time.
func (f *Fake) Every(d time.Duration, fn func()) Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d <= 0 {
		d = time.Nanosecond
	}
	f.seq++
	t := &fakeTicket{clock: f, every: d, next: f.now.Add(d), fn: fn, seq: f.seq}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves fake time forward by d, firing every callback that falls due.
// Callbacks registered while advancing fire too if their deadline is reached.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		t := f.earliest(target)
		if t == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = t.next
		t.next = t.next.Add(t.every)
		fn := t.fn
		f.mu.Unlock()

		fn()
	}
}

// Pending reports how many tickets are still active.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (f *Fake) earliest(target time.Time) *fakeTicket {
	var best *fakeTicket
	live := f.timers[:0]
	for _, t := range f.timers {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if t.next.After(target) {
			continue
		}
		if best == nil || t.next.Before(best.next) || (t.next.Equal(best.next) && t.seq < best.seq) {
			best = t
		}
	}
	f.timers = live
	return best
}

type fakeTicket struct {
	clock   *Fake
	every   time.Duration
	next    time.Time
	fn      func()
	seq     int
	stopped bool
}

func (t *fakeTicket) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}
