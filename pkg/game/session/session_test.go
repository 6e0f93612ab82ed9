package session

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riddlebox/pkg/engine/audio"
	"riddlebox/pkg/engine/clock"
	"riddlebox/pkg/engine/storage"
	"riddlebox/pkg/game/progress"
	"riddlebox/pkg/game/riddle"
	"riddlebox/pkg/game/stages"
	"riddlebox/pkg/game/state"
)

type silentTrack struct {
	source  string
	volume  float64
	playing bool
}

func (t *silentTrack) Source() string      { return t.source }
func (t *silentTrack) Play() error         { t.playing = true; return nil }
func (t *silentTrack) Pause()              { t.playing = false }
func (t *silentTrack) Volume() float64     { return t.volume }
func (t *silentTrack) SetVolume(v float64) { t.volume = v }
func (t *silentTrack) SetLoop(bool)        {}

type fixture struct {
	ctx   context.Context
	repo  *progress.Store
	clock *clock.Fake
	music *audio.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := clock.NewFake(time.Unix(0, 0))
	lib := audio.NewLibrary(func(source string) (audio.Track, error) {
		return &silentTrack{source: source}, nil
	})
	music := audio.NewManager(lib, fake, audio.NewInteractions(), nil)
	t.Cleanup(music.Close)
	return &fixture{
		ctx:   context.Background(),
		repo:  progress.New(storage.NewMemory(), nil),
		clock: fake,
		music: music,
	}
}

func (f *fixture) start(t *testing.T, id string, opts ...Option) *Session {
	t.Helper()
	def, err := riddle.Find(id)
	require.NoError(t, err)
	opts = append([]Option{WithCrossfade(0)}, opts...)
	s := New(f.ctx, def, f.repo, f.music, f.clock, nil, opts...)
	t.Cleanup(s.Close)
	return s
}

func TestSession_PlaysTheCave(t *testing.T) {
	f := newFixture(t)
	s := f.start(t, "the-cave")

	assert.Equal(t, 0, s.Stage())
	assert.Equal(t, stages.KindWelcome, s.Current().Kind())

	assert.True(t, s.Submit(f.ctx, "").Advanced)
	assert.Equal(t, 1, f.repo.Progress(f.ctx, "the-cave"))

	out := s.Submit(f.ctx, "walk")
	assert.False(t, out.Advanced)
	assert.True(t, out.Wrong)
	assert.Equal(t, "The path is blocked. Try something else.", out.Message)
	assert.Equal(t, 1, s.Stage())

	assert.True(t, s.Submit(f.ctx, " Crawl ").Advanced)
	assert.True(t, s.Submit(f.ctx, "").Advanced)
	assert.True(t, s.Completed())
	assert.Equal(t, "Completed", s.Label())
	assert.Equal(t, stages.KindCongrats, s.Current().Kind())

	assert.False(t, s.Submit(f.ctx, "").Advanced, "nothing past the end")
	assert.False(t, s.Advance(f.ctx))
	assert.Equal(t, 3, f.repo.Progress(f.ctx, "the-cave"))
}

func TestSession_ResumesStoredStage(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "spider-lair", 4)

	s := f.start(t, "spider-lair")

	assert.Equal(t, 4, s.Stage())
	assert.Equal(t, "Acts", s.Label())
}

func TestSession_ClampsStoredStage(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "the-cave", 40)

	s := f.start(t, "the-cave")

	assert.Equal(t, 3, s.Stage())
	assert.True(t, s.Completed())
}

func TestSession_PinStage(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "spider-lair", 1)
	s := f.start(t, "spider-lair")
	require.NotNil(t, s.PinEntry())

	out := s.Submit(f.ctx, "24")
	assert.Equal(t, "2 of 4 digits entered.", out.Message)

	out = s.Submit(f.ctx, "00")
	assert.True(t, out.Wrong)
	assert.Zero(t, s.PinEntry().Len())

	assert.True(t, s.Submit(f.ctx, "2468").Advanced)
	assert.Nil(t, s.PinEntry())
	assert.NotNil(t, s.FillRound(), "lyrics stage follows")
}

func TestSession_FillWordsStage(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "spider-lair", 2)
	s := f.start(t, "spider-lair")

	out := s.Submit(f.ctx, "I think it's")
	assert.Equal(t, "3 of 29 words.", out.Message)
	assert.True(t, s.Submit(f.ctx, "nope").Wrong)

	for _, line := range []string{
		"time for a date",
		"I've got a craving and I think you're my taste",
		"So won't you come out and play?",
	} {
		require.False(t, s.Submit(f.ctx, line).Advanced)
	}
	assert.True(t, s.Submit(f.ctx, "Darling it's your lucky day").Advanced)
	assert.Equal(t, 3, s.Stage())
}

func TestSession_ChoiceStage(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "expedition-33", 7)
	s := f.start(t, "expedition-33", WithRand(rand.New(rand.NewPCG(3, 4))))
	round := s.ChoiceRound()
	require.NotNil(t, round)

	var wrong string
	for _, c := range round.Choices() {
		if !c.Correct {
			wrong = c.Label
			break
		}
	}
	assert.True(t, s.Submit(f.ctx, wrong).Wrong)
	assert.Equal(t, "That choice is no longer available.", s.Submit(f.ctx, wrong).Message)
	assert.Equal(t, "Pick one of the numbered choices.", s.Submit(f.ctx, "0").Message)

	out := s.Submit(f.ctx, "we lost")
	assert.True(t, out.Advanced)
	assert.Equal(t, "We Lost", out.Message)
}

func TestSession_ThresholdOption(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "spider-lair", 3)
	s := f.start(t, "spider-lair", WithThreshold(0.95))

	assert.True(t, s.Submit(f.ctx, "karmelyta").Wrong)
	assert.True(t, s.Submit(f.ctx, "karmelita").Advanced)
}

func TestSession_HintCooldown(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "spider-lair", 3)
	s := f.start(t, "spider-lair")
	h := s.HintTimer()
	require.NotNil(t, h)

	assert.Equal(t, 60, h.Remaining())
	f.clock.Advance(60 * time.Second)
	text, ok := h.Reveal()
	assert.True(t, ok)
	assert.Equal(t, "A singer from Silksong... with claws.", text)

	s.Submit(f.ctx, "karmelita")
	assert.Nil(t, s.HintTimer(), "the acts stage has no hint")
}

func TestSession_HintCooldownOverride(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "spider-lair", 1)
	s := f.start(t, "spider-lair", WithHintCooldown(5*time.Second))

	assert.Equal(t, 5, s.HintTimer().Remaining())
}

func TestSession_Soundtrack(t *testing.T) {
	f := newFixture(t)
	s := f.start(t, "outer-wilds")

	assert.Nil(t, f.music.Active(), "no music on the welcome stage")

	s.Submit(f.ctx, "")
	require.NotNil(t, f.music.Active())
	assert.Equal(t, riddle.OuterWildsTheme, f.music.Active().Source())

	s.Submit(f.ctx, "22")
	assert.Equal(t, riddle.OuterWildsTheme, f.music.Active().Source(), "same track keeps playing")

	s.Close()
	assert.Nil(t, f.music.Active())
}

func TestSession_SwapsSoundtrack(t *testing.T) {
	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "expedition-33", 6)
	s := f.start(t, "expedition-33")
	assert.Equal(t, riddle.LumiereTheme, f.music.Active().Source())

	s.Submit(f.ctx, "sciel")

	assert.Equal(t, riddle.WeLostTheme, f.music.Active().Source())
}

func TestSession_Skip(t *testing.T) {
	f := newFixture(t)
	s := f.start(t, "the-cave")

	assert.ErrorIs(t, s.Skip(f.ctx), ErrDevToolsDisabled)
	assert.Equal(t, 0, s.Stage())

	on := true
	f.repo.UpdateAdminSettings(f.ctx, state.AdminSettingsPatch{DevToolsEnabled: &on})
	for range 5 {
		require.NoError(t, s.Skip(f.ctx))
	}
	assert.Equal(t, 3, s.Stage())
}

func TestSession_Reload(t *testing.T) {
	f := newFixture(t)
	s := f.start(t, "the-cave")

	f.repo.SetProgress(f.ctx, "the-cave", 2)
	s.Reload(f.ctx)

	assert.Equal(t, 2, s.Stage())
	assert.Equal(t, stages.KindContinue, s.Current().Kind())
}

func TestSession_NoMusic(t *testing.T) {
	f := newFixture(t)
	def, err := riddle.Find("outer-wilds")
	require.NoError(t, err)

	s := New(f.ctx, def, f.repo, nil, nil, nil)
	assert.True(t, s.Submit(f.ctx, "").Advanced)
	assert.Nil(t, s.HintTimer())
	s.Close()
}

func TestSession_MessagesAreTranslated(t *testing.T) {
	po := gotext.NewPo()
	po.Parse([]byte(`
msgid "%d of %d digits entered."
msgstr "%d von %d Ziffern eingegeben."

msgid "Wrong code."
msgstr "Falscher Code."
`))
	l := gotext.NewLocale("", "de")
	l.AddTranslator("default", po)
	gotext.SetLocales([]*gotext.Locale{l})
	t.Cleanup(func() { gotext.Configure("", gotext.FallbackLocale, "default") })

	f := newFixture(t)
	f.repo.SetProgress(f.ctx, "spider-lair", 1)
	s := f.start(t, "spider-lair")

	assert.Equal(t, "2 von 4 Ziffern eingegeben.", s.Submit(f.ctx, "24").Message)
	assert.Equal(t, "Falscher Code.", s.Submit(f.ctx, "00").Message)
}
