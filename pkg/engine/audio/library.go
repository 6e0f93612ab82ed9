package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Library caches one Track per source so playback position survives a
// source being swapped out and back in.
type Library struct {
	mu     sync.Mutex
	load   Loader
	tracks map[string]Track
}

// NewLibrary returns an empty library that creates tracks with load.
func NewLibrary(load Loader) *Library {
	return &Library{load: load, tracks: make(map[string]Track)}
}

// Get returns the cached track for source, loading it on first use.
// Failed loads are not cached.
func (l *Library) Get(source string) (Track, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.tracks[source]; ok {
		return t, nil
	}
	t, err := l.load(source)
	if err != nil {
		return nil, fmt.Errorf("load track %q: %w", source, err)
	}
	if t == nil {
		return nil, fmt.Errorf("load track %q: loader returned no track", source)
	}
	l.tracks[source] = t
	return t, nil
}

// Len reports how many tracks are cached.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tracks)
}

// Close pauses every cached track, closes those that implement io.Closer and
// empties the cache.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for source, t := range l.tracks {
		t.Pause()
		if c, ok := t.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close track %q: %w", source, err))
			}
		}
	}
	clear(l.tracks)
	return errors.Join(errs...)
}
