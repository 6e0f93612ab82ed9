package stages

import (
	"sync"
	"time"

	"riddlebox/pkg/engine/clock"
)

// HintTimer counts a hint's cooldown down in whole seconds. It lives as long
// as the stage is shown; nothing about it is persisted.
type HintTimer struct {
	mu        sync.Mutex
	hint      Hint
	remaining int
	shown     bool
	ticket    clock.Ticket
}

// NewHintTimer starts the cooldown for hint on sched.
func NewHintTimer(hint Hint, sched clock.Scheduler) *HintTimer {
	t := &HintTimer{
		hint:      hint,
		remaining: int((hint.Cooldown + time.Second - 1) / time.Second),
	}
	if t.remaining > 0 {
		t.mu.Lock()
		t.ticket = sched.Every(time.Second, t.tick)
		t.mu.Unlock()
	}
	return t
}

func (t *HintTimer) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 && t.ticket != nil {
		t.ticket.Stop()
	}
}

// Remaining is the number of seconds until the hint can be revealed.
func (t *HintTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Ready reports whether the cooldown has elapsed.
func (t *HintTimer) Ready() bool {
	return t.Remaining() == 0
}

// Reveal returns the hint text once the cooldown has elapsed.
func (t *HintTimer) Reveal() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining > 0 {
		return "", false
	}
	t.shown = true
	return t.hint.Text, true
}

// Shown reports whether the hint has been revealed.
func (t *HintTimer) Shown() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shown
}

// Stop cancels the countdown.
func (t *HintTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticket != nil {
		t.ticket.Stop()
	}
}
