package audio

import (
	"sync"

	"github.com/zyedidia/generic/mapset"
)

// Interaction is a kind of user gesture.
type Interaction int

const (
	Click Interaction = iota
	PointerDown
	KeyDown
)

func (i Interaction) String() string {
	switch i {
	case Click:
		return "click"
	case PointerDown:
		return "pointerdown"
	case KeyDown:
		return "keydown"
	default:
		return "unknown"
	}
}

// Gestures are the interactions that unlock playback.
var Gestures = []Interaction{Click, PointerDown, KeyDown}

type listener struct {
	id    int
	kinds mapset.Set[Interaction]
	fn    func()
}

// Interactions is an application-wide bus of user gestures. Listeners are
// one-shot: the first matching Dispatch removes the listener from every kind
// it was registered for before calling it.
type Interactions struct {
	mu        sync.Mutex
	nextID    int
	listeners []*listener
}

// NewInteractions returns an empty bus.
func NewInteractions() *Interactions {
	return &Interactions{}
}

// Once registers fn for the first of kinds to be dispatched. The returned
// cancel removes the registration; it is safe to call at any time.
func (b *Interactions) Once(fn func(), kinds ...Interaction) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	l := &listener{id: b.nextID, kinds: mapset.New[Interaction](), fn: fn}
	for _, k := range kinds {
		l.kinds.Put(k)
	}
	b.listeners = append(b.listeners, l)
	return func() { b.remove(l.id) }
}

// Dispatch fires every listener registered for kind. Listeners run on the
// calling goroutine without the bus lock held, so they may register again.
func (b *Interactions) Dispatch(kind Interaction) {
	b.mu.Lock()
	var fire []func()
	kept := b.listeners[:0]
	for _, l := range b.listeners {
		if l.kinds.Has(kind) {
			fire = append(fire, l.fn)
			continue
		}
		kept = append(kept, l)
	}
	b.listeners = kept
	b.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Pending reports how many registrations are waiting.
func (b *Interactions) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

func (b *Interactions) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.listeners {
		if l.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}
