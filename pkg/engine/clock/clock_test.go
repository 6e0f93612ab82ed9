package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestFake_AdvanceFiresInOrder(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	var order []string
	f.Every(100*time.Millisecond, func() { order = append(order, "slow") })
	f.Every(50*time.Millisecond, func() { order = append(order, "fast") })

	f.Advance(100 * time.Millisecond)

	want := []string{"fast", "slow", "fast"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if got := f.Now(); !got.Equal(time.Unix(0, 0).Add(100 * time.Millisecond)) {
		t.Errorf("Now() = %v, want +100ms", got)
	}
}

func TestFake_StopFromCallback(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	calls := 0
	var ticket Ticket
	ticket = f.Every(10*time.Millisecond, func() {
		calls++
		if calls == 3 {
			ticket.Stop()
		}
	})

	f.Advance(time.Second)

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if f.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.Pending())
	}
}

func TestFake_NoFireBeforeDeadline(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	fired := false
	f.Every(50*time.Millisecond, func() { fired = true })
	f.Advance(49 * time.Millisecond)
	if fired {
		t.Error("callback fired before its deadline")
	}
	f.Advance(time.Millisecond)
	if !fired {
		t.Error("callback did not fire at its deadline")
	}
}

func TestReal_StopReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	var n atomic.Int32
	ticket := Real{}.Every(time.Millisecond, func() { n.Add(1) })
	deadline := time.Now().Add(2 * time.Second)
	for n.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	ticket.Stop()
	ticket.Stop()

	if n.Load() == 0 {
		t.Fatal("real ticker never fired")
	}
}
