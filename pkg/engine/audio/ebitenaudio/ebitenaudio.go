// Package ebitenaudio plays tracks through ebiten's audio context.
package ebitenaudio

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	engineaudio "riddlebox/pkg/engine/audio"
)

// DefaultSampleRate is used when no sample rate is configured.
const DefaultSampleRate = 44100

type stream interface {
	io.ReadSeeker
	Length() int64
}

// NewLoader returns a loader that decodes sources from fsys. The source's
// extension picks the decoder: .mp3, .ogg or .wav.
func NewLoader(ctx *audio.Context, fsys fs.FS) engineaudio.Loader {
	return func(source string) (engineaudio.Track, error) {
		raw, err := fs.ReadFile(fsys, source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		s, err := decode(ctx.SampleRate(), source, raw)
		if err != nil {
			return nil, err
		}
		return newTrack(source, s, func(src io.Reader) (player, error) {
			return ctx.NewPlayer(src)
		}), nil
	}
}

func decode(sampleRate int, source string, raw []byte) (stream, error) {
	r := bytes.NewReader(raw)
	var (
		s   stream
		err error
	)
	switch ext := strings.ToLower(path.Ext(source)); ext {
	case ".mp3":
		s, err = mp3.DecodeWithSampleRate(sampleRate, r)
	case ".ogg":
		s, err = vorbis.DecodeWithSampleRate(sampleRate, r)
	case ".wav":
		s, err = wav.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, fmt.Errorf("decode %s: unsupported format %q", source, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return s, nil
}

// Track wraps an ebiten player. The player is created on first Play and
// rebuilt, at the same position, when the loop flag changes.
type Track struct {
	mu        sync.Mutex
	source    string
	stream    stream
	newPlayer func(io.Reader) (player, error)
	player    player
	loop      bool
	// looping records which mode player was built for.
	looping bool
	volume  float64
}

// player is the part of *audio.Player a Track drives.
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(float64)
	Position() time.Duration
	SetPosition(time.Duration) error
	Close() error
}

var _ engineaudio.Track = (*Track)(nil)

func newTrack(source string, s stream, newPlayer func(io.Reader) (player, error)) *Track {
	return &Track{source: source, stream: s, newPlayer: newPlayer, volume: 1}
}

func (t *Track) Source() string { return t.source }

// Play creates the player if needed and starts it. Without a game loop only
// a player brings ebiten's audio context up, so Play does not check IsReady.
func (t *Track) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensurePlayer(); err != nil {
		return err
	}
	t.player.Play()
	return nil
}

func (t *Track) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.player != nil {
		t.player.Pause()
	}
}

func (t *Track) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

func (t *Track) SetVolume(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.volume = v
	if t.player != nil {
		t.player.SetVolume(v)
	}
}

func (t *Track) SetLoop(loop bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loop = loop
	if t.player == nil || t.looping == loop {
		return
	}
	if err := t.rebuild(); err != nil {
		// Keep the old player; the new loop mode applies on the next rebuild.
		t.loop = t.looping
	}
}

// Close releases the player.
func (t *Track) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.player == nil {
		return nil
	}
	err := t.player.Close()
	t.player = nil
	return err
}

func (t *Track) ensurePlayer() error {
	if t.player != nil {
		return nil
	}
	var src io.Reader = t.stream
	if t.loop {
		src = audio.NewInfiniteLoop(t.stream, t.stream.Length())
	}
	p, err := t.newPlayer(src)
	if err != nil {
		return fmt.Errorf("create player for %s: %w", t.source, err)
	}
	p.SetVolume(t.volume)
	t.player = p
	t.looping = t.loop
	return nil
}

func (t *Track) rebuild() error {
	old := t.player
	pos := old.Position()
	playing := old.IsPlaying()
	old.Pause()
	if _, err := t.stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", t.source, err)
	}

	t.player = nil
	if err := t.ensurePlayer(); err != nil {
		t.player = old
		return err
	}
	_ = old.Close()
	if err := t.player.SetPosition(pos); err != nil {
		return fmt.Errorf("seek %s: %w", t.source, err)
	}
	if playing {
		t.player.Play()
	}
	return nil
}
