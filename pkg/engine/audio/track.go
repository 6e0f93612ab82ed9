// Package audio owns background music playback: a cache of loaded tracks,
// a crossfading session manager and the interaction bus used to recover
// from playback the platform refuses until the user has done something.
package audio

import (
	"errors"
	"math"
	"time"
)

// ErrNotAllowed is returned by Track.Play when the platform refuses playback
// until the user interacts with the application.
var ErrNotAllowed = errors.New("audio: playback not allowed before user interaction")

// Tick is the interval between fade steps.
const Tick = 50 * time.Millisecond

// Track is a playable, pausable audio handle. Pausing keeps the playback
// position so a later Play resumes where it stopped.
type Track interface {
	Source() string
	Play() error
	Pause()
	Volume() float64
	SetVolume(v float64)
	SetLoop(loop bool)
}

// Loader creates a Track for a source identifier.
type Loader func(source string) (Track, error)

// fadeSteps is the number of Tick intervals a fade of duration d takes.
func fadeSteps(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(Tick)))
}

func clampVolume(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
