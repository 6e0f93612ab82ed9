package audio

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"riddlebox/pkg/engine/clock"
	"riddlebox/pkg/engine/logging"
)

// State describes what the manager is doing.
type State int

const (
	Idle State = iota
	FadingIn
	Steady
	FadingOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FadingIn:
		return "fading-in"
	case Steady:
		return "steady"
	case FadingOut:
		return "fading-out"
	default:
		return "unknown"
	}
}

// Options control a single Request.
type Options struct {
	Loop              bool
	CrossfadeDuration time.Duration
}

// DefaultOptions returns no looping and a two second crossfade.
func DefaultOptions() Options {
	return Options{CrossfadeDuration: 2 * time.Second}
}

// fade ramps one track's volume linearly over a fixed number of ticks.
type fade struct {
	track    Track
	from, to float64
	steps    int
	n        int
	ticket   clock.Ticket
}

// step advances the fade by one tick and reports whether it has finished.
func (f *fade) step() bool {
	f.n++
	if f.n >= f.steps {
		f.track.SetVolume(f.to)
		return true
	}
	v := f.from + (f.to-f.from)*float64(f.n)/float64(f.steps)
	f.track.SetVolume(clampVolume(v))
	return false
}

// Manager plays at most one steady track at a time. Requesting a new source
// fades the current track out while the new one fades in; requesting the
// active source again changes nothing but its loop flag.
type Manager struct {
	mu     sync.Mutex
	lib    *Library
	sched  clock.Scheduler
	bus    *Interactions
	logger *zap.Logger

	active  Track
	fading  Track
	fadeIn  *fade
	fadeOut *fade

	cancelRetry func()
	closed      bool
}

// NewManager returns an idle manager. bus may be nil, in which case playback
// the platform refuses is not retried.
func NewManager(lib *Library, sched clock.Scheduler, bus *Interactions, logger *zap.Logger) *Manager {
	return &Manager{
		lib:    lib,
		sched:  sched,
		bus:    bus,
		logger: logging.OrNop(logger).Named("audio"),
	}
}

// Request makes source the active track. An empty source fades out whatever
// is playing and leaves nothing active.
func (m *Manager) Request(source string, opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.stopFadeOut()
	if m.fading != nil {
		m.fading.Pause()
		m.fading = nil
	}

	if source != "" && m.active != nil && m.active.Source() == source {
		m.active.SetLoop(opts.Loop)
		return
	}

	m.stopFadeIn()
	m.stopRetry()

	d := max(opts.CrossfadeDuration, 0)
	if old := m.active; old != nil {
		m.active = nil
		if d > 0 {
			m.startFadeOut(old, d)
		} else {
			old.Pause()
		}
	}

	if source == "" {
		m.logger.Debug("audio cleared")
		return
	}

	track, err := m.lib.Get(source)
	if err != nil {
		m.logger.Error("failed to load track", zap.String("source", source), zap.Error(err))
		return
	}
	track.SetLoop(opts.Loop)
	m.active = track

	if d > 0 {
		track.SetVolume(0)
		m.startFadeIn(track, d)
	} else {
		track.SetVolume(1)
	}
	m.logger.Debug("audio requested", zap.String("source", source), zap.Duration("crossfade", d))
	m.play(track)
}

// Active returns the track currently fading in or playing steadily.
func (m *Manager) Active() Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Fading returns the track currently fading out, if any.
func (m *Manager) Fading() Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fading
}

// State reports the current playback state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.active != nil && m.fadeIn != nil:
		return FadingIn
	case m.active != nil:
		return Steady
	case m.fading != nil:
		return FadingOut
	default:
		return Idle
	}
}

// Close stops every fade and pending retry and pauses both tracks. Tracks
// stay in the library, so their positions are kept.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	m.stopFadeIn()
	m.stopFadeOut()
	m.stopRetry()
	if m.active != nil {
		m.active.Pause()
		m.active = nil
	}
	if m.fading != nil {
		m.fading.Pause()
		m.fading = nil
	}
}

func (m *Manager) startFadeOut(t Track, d time.Duration) {
	m.fading = t
	f := &fade{track: t, from: max(0.001, t.Volume()), to: 0, steps: fadeSteps(d)}
	m.fadeOut = f
	f.ticket = m.sched.Every(Tick, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.fadeOut != f {
			return
		}
		if f.step() {
			f.ticket.Stop()
			f.track.Pause()
			m.fadeOut = nil
			m.fading = nil
		}
	})
}

func (m *Manager) startFadeIn(t Track, d time.Duration) {
	f := &fade{track: t, from: 0, to: 1, steps: fadeSteps(d)}
	m.fadeIn = f
	f.ticket = m.sched.Every(Tick, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.fadeIn != f {
			return
		}
		if f.step() {
			f.ticket.Stop()
			m.fadeIn = nil
		}
	})
}

func (m *Manager) stopFadeIn() {
	if m.fadeIn != nil {
		m.fadeIn.ticket.Stop()
		m.fadeIn = nil
	}
}

func (m *Manager) stopFadeOut() {
	if m.fadeOut != nil {
		m.fadeOut.ticket.Stop()
		m.fadeOut = nil
	}
}

func (m *Manager) stopRetry() {
	if m.cancelRetry != nil {
		m.cancelRetry()
		m.cancelRetry = nil
	}
}

// play starts t. A refusal waits for the next user gesture and tries again
// if t is still the active track by then. Callers hold m.mu.
func (m *Manager) play(t Track) {
	err := t.Play()
	switch {
	case err == nil:
	case errors.Is(err, ErrNotAllowed):
		if m.bus == nil {
			m.logger.Warn("playback blocked until user interaction", zap.String("source", t.Source()))
			return
		}
		m.logger.Debug("playback blocked, waiting for interaction", zap.String("source", t.Source()))
		m.cancelRetry = m.bus.Once(func() { m.retry(t) }, Gestures...)
	default:
		m.logger.Error("audio playback failed", zap.String("source", t.Source()), zap.Error(err))
	}
}

func (m *Manager) retry(t Track) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.active != t {
		return
	}
	m.cancelRetry = nil
	m.play(t)
}
