// Package clock provides the scheduling capability used by fades and cooldowns.
// Production code uses Real; tests drive a Fake by hand.
package clock

import (
	"sync"
	"time"
)

// Ticket is a handle to a repeating callback.
type Ticket interface {
	// Stop cancels the callback. It is safe to call more than once and from
	// inside the callback itself.
	Stop()
}

// Scheduler runs callbacks at a fixed interval.
type Scheduler interface {
	Every(d time.Duration, fn func()) Ticket
	Now() time.Time
}

// Real schedules callbacks on wall-clock tickers. Each ticket owns one
// goroutine that exits when the ticket is stopped.
type Real struct{}

// Now returns the current wall-clock time.
func (Real) Now() time.Time {
	return time.Now()
}

// Every calls fn every d until the returned ticket is stopped.
func (Real) Every(d time.Duration, fn func()) Ticket {
	t := &realTicket{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

type realTicket struct {
	once sync.Once
	done chan struct{}
}

func (t *realTicket) Stop() {
	t.once.Do(func() { close(t.done) })
}
