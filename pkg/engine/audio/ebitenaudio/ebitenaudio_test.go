package ebitenaudio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_UnsupportedExtension(t *testing.T) {
	_, err := decode(DefaultSampleRate, "music/theme.flac", []byte("fLaC"))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestDecode_CorruptInput(t *testing.T) {
	for _, name := range []string{"a.wav", "b.ogg", "c.MP3"} {
		_, err := decode(DefaultSampleRate, name, []byte("definitely not audio"))
		assert.Error(t, err, name)
	}
}

// fakePlayer records what a Track asks of it.
type fakePlayer struct {
	src      io.Reader
	playing  bool
	volume   float64
	position time.Duration
	closed   bool
}

func (p *fakePlayer) Play()                             { p.playing = true }
func (p *fakePlayer) Pause()                            { p.playing = false }
func (p *fakePlayer) IsPlaying() bool                   { return p.playing }
func (p *fakePlayer) SetVolume(v float64)               { p.volume = v }
func (p *fakePlayer) Position() time.Duration           { return p.position }
func (p *fakePlayer) SetPosition(d time.Duration) error { p.position = d; return nil }
func (p *fakePlayer) Close() error                      { p.closed = true; return nil }

type playerFactory struct {
	made []*fakePlayer
	err  error
}

func (f *playerFactory) newPlayer(src io.Reader) (player, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := &fakePlayer{src: src}
	f.made = append(f.made, p)
	return p, nil
}

// wavBytes builds a 16-bit stereo PCM file holding n silent frames.
func wavBytes(sampleRate, n int) []byte {
	data := n * 4
	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+data))
	b.WriteString("WAVEfmt ")
	for _, v := range []any{
		uint32(16), uint16(1), uint16(2), uint32(sampleRate),
		uint32(sampleRate * 4), uint16(4), uint16(16),
	} {
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(data))
	b.Write(make([]byte, data))
	return b.Bytes()
}

func testTrack(t *testing.T) (*Track, *playerFactory) {
	t.Helper()
	s, err := decode(DefaultSampleRate, "theme.wav", wavBytes(DefaultSampleRate, DefaultSampleRate))
	require.NoError(t, err)
	f := &playerFactory{}
	return newTrack("theme.wav", s, f.newPlayer), f
}

func testContext() *audio.Context {
	if c := audio.CurrentContext(); c != nil {
		return c
	}
	return audio.NewContext(DefaultSampleRate)
}

func TestNewLoader_DecodesFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"music/theme.wav": {Data: wavBytes(DefaultSampleRate, 4410)},
	}
	load := NewLoader(testContext(), fsys)

	tr, err := load("music/theme.wav")
	require.NoError(t, err)
	assert.Equal(t, "music/theme.wav", tr.Source())
	assert.Equal(t, 1.0, tr.Volume())

	// Swap in a fake player so no audio device is needed.
	track := tr.(*Track)
	f := &playerFactory{}
	track.newPlayer = f.newPlayer
	require.NoError(t, track.Play())
	require.Len(t, f.made, 1)
	assert.True(t, f.made[0].playing)

	_, err = load("music/missing.wav")
	assert.Error(t, err)
}

func TestTrack_PlayCreatesPlayerWithoutReadyContext(t *testing.T) {
	tr, f := testTrack(t)
	tr.SetVolume(0.25)

	require.NoError(t, tr.Play())
	require.Len(t, f.made, 1)
	p := f.made[0]
	assert.True(t, p.playing)
	assert.Equal(t, 0.25, p.volume)

	// A second Play resumes the same player.
	tr.Pause()
	assert.False(t, p.playing)
	require.NoError(t, tr.Play())
	assert.Len(t, f.made, 1)
	assert.True(t, p.playing)
}

func TestTrack_PlayReportsPlayerError(t *testing.T) {
	tr, f := testTrack(t)
	f.err = errors.New("no device")

	err := tr.Play()
	assert.ErrorContains(t, err, "no device")
	assert.ErrorContains(t, err, "theme.wav")

	f.err = nil
	require.NoError(t, tr.Play())
	assert.Len(t, f.made, 1)
}

func TestTrack_SetVolumeBeforePlay(t *testing.T) {
	tr, f := testTrack(t)
	tr.SetVolume(0)
	assert.Empty(t, f.made)
	assert.Equal(t, 0.0, tr.Volume())
}

func TestTrack_SetLoopRebuildsAtSamePosition(t *testing.T) {
	tr, f := testTrack(t)
	tr.SetVolume(0.5)
	require.NoError(t, tr.Play())
	old := f.made[0]
	old.position = 300 * time.Millisecond

	tr.SetLoop(true)

	require.Len(t, f.made, 2)
	assert.True(t, old.closed)
	p := f.made[1]
	assert.IsType(t, &audio.InfiniteLoop{}, p.src)
	assert.Equal(t, 300*time.Millisecond, p.position)
	assert.Equal(t, 0.5, p.volume)
	assert.True(t, p.playing)

	// Same mode again is a no-op.
	tr.SetLoop(true)
	assert.Len(t, f.made, 2)
}

func TestTrack_SetLoopBeforePlay(t *testing.T) {
	tr, f := testTrack(t)
	tr.SetLoop(true)
	assert.Empty(t, f.made)

	require.NoError(t, tr.Play())
	require.Len(t, f.made, 1)
	assert.IsType(t, &audio.InfiniteLoop{}, f.made[0].src)
}

func TestTrack_Close(t *testing.T) {
	tr, f := testTrack(t)
	require.NoError(t, tr.Close())

	require.NoError(t, tr.Play())
	require.NoError(t, tr.Close())
	assert.True(t, f.made[0].closed)
	require.NoError(t, tr.Close())
}
