// Package session plays one riddle: it tracks the current stage, checks
// answers, persists progress and keeps the soundtrack in step.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"riddlebox/pkg/engine/audio"
	"riddlebox/pkg/engine/clock"
	"riddlebox/pkg/engine/logging"
	"riddlebox/pkg/game/progress"
	"riddlebox/pkg/game/riddle"
	"riddlebox/pkg/game/stages"
)

// dynamicGet translates messages that come from riddle content.
var dynamicGet = gotext.Get

// ErrDevToolsDisabled is returned by Skip when dev tools are off.
var ErrDevToolsDisabled = errors.New("session: dev tools are disabled")

// Outcome is the result of submitting input to the current stage. Wrong
// answers are outcomes, not errors.
type Outcome struct {
	Advanced bool
	Wrong    bool
	Message  string
}

// Option configures a Session.
type Option func(*Session)

// WithCrossfade sets the soundtrack crossfade duration.
func WithCrossfade(d time.Duration) Option {
	return func(s *Session) { s.crossfade = d }
}

// WithThreshold sets the fuzzy threshold for text stages that do not set one.
func WithThreshold(threshold float64) Option {
	return func(s *Session) { s.threshold = threshold }
}

// WithHintCooldown overrides every stage's hint cooldown.
func WithHintCooldown(d time.Duration) Option {
	return func(s *Session) { s.hintCooldown = d }
}

// WithRand sets the source used to shuffle multiple choice stages.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// Session is one play-through of a riddle. It is not safe for concurrent use.
type Session struct {
	ID uuid.UUID

	def    riddle.Definition
	repo   progress.Repository
	music  *audio.Manager
	sched  clock.Scheduler
	logger *zap.Logger

	crossfade    time.Duration
	threshold    float64
	hintCooldown time.Duration
	rng          *rand.Rand

	stage  int
	hint   *stages.HintTimer
	pin    *stages.PinEntry
	choice *stages.ChoiceRound
	fill   *stages.FillRound
}

// New resumes def from the stage stored in repo. music may be nil to play
// without sound.
func New(ctx context.Context, def riddle.Definition, repo progress.Repository, music *audio.Manager, sched clock.Scheduler, logger *zap.Logger, opts ...Option) *Session {
	id := uuid.New()
	s := &Session{
		ID:        id,
		def:       def,
		repo:      repo,
		music:     music,
		sched:     sched,
		crossfade: audio.DefaultOptions().CrossfadeDuration,
		logger: logging.OrNop(logger).Named("session").With(
			zap.String("session", id.String()),
			zap.String("riddle", def.ID),
		),
	}
	for _, opt := range opts {
		opt(s)
	}

	stored := repo.Progress(ctx, def.ID)
	s.stage = def.Clamp(stored)
	if s.stage != stored {
		s.logger.Warn("stored stage out of range", zap.Int("stored", stored), zap.Int("stage", s.stage))
	}
	s.logger.Debug("session started", zap.Int("stage", s.stage))
	s.enterStage()
	return s
}

// Riddle returns the riddle being played.
func (s *Session) Riddle() riddle.Definition { return s.def }

// Stage returns the current stage index.
func (s *Session) Stage() int { return s.stage }

// Current returns the current stage. A completed riddle shows its final
// congratulations stage.
func (s *Session) Current() stages.Stage { return s.def.Stage(s.stage) }

// Completed reports whether the riddle has been finished.
func (s *Session) Completed() bool { return s.def.IsCompleted(s.stage) }

// Label is the translated label of the current stage.
func (s *Session) Label() string { return s.def.StageLabel(s.stage) }

// PinEntry returns the digit entry of a PIN stage, or nil.
func (s *Session) PinEntry() *stages.PinEntry { return s.pin }

// ChoiceRound returns the shuffled round of a multiple choice stage, or nil.
func (s *Session) ChoiceRound() *stages.ChoiceRound { return s.choice }

// FillRound returns the progress of a fill-words stage, or nil.
func (s *Session) FillRound() *stages.FillRound { return s.fill }

// HintTimer returns the current stage's hint countdown, or nil.
func (s *Session) HintTimer() *stages.HintTimer { return s.hint }

// Submit answers the current stage with input.
func (s *Session) Submit(ctx context.Context, input string) Outcome {
	switch st := s.Current().(type) {
	case stages.Welcome, stages.Continue:
		return s.advance(ctx, "")

	case stages.TextAnswer:
		if st.WithThreshold(s.threshold).Check(input) {
			return s.advance(ctx, "")
		}
		s.logger.Debug("wrong answer", zap.Int("stage", s.stage))
		return Outcome{Wrong: true, Message: dynamicGet(st.Error())}

	case stages.PinAnswer:
		switch s.pin.Enter(input) {
		case stages.PinCorrect:
			return s.advance(ctx, "")
		case stages.PinWrong:
			return Outcome{Wrong: true, Message: gotext.Get("Wrong code.")}
		default:
			return Outcome{Message: gotext.Get("%d of %d digits entered.", s.pin.Len(), s.pin.Size())}
		}

	case stages.MultipleChoice:
		i, ok := s.choiceIndex(input)
		if !ok {
			return Outcome{Message: gotext.Get("Pick one of the numbered choices.")}
		}
		switch s.choice.Pick(i) {
		case stages.PickCorrect:
			c, _ := s.choice.Solved()
			return s.advance(ctx, dynamicGet(c.Label))
		case stages.PickWrong:
			return Outcome{Wrong: true, Message: gotext.Get("Not quite.")}
		default:
			return Outcome{Message: gotext.Get("That choice is no longer available.")}
		}

	case stages.FillWords:
		n := s.fill.Submit(input)
		if s.fill.Done() {
			return s.advance(ctx, "")
		}
		if n == 0 {
			return Outcome{Wrong: true, Message: gotext.Get("That word doesn't fit.")}
		}
		done, total := s.fill.Progress()
		return Outcome{Message: gotext.Get("%d of %d words.", done, total)}

	default:
		return Outcome{}
	}
}

// Advance moves to the next stage and persists it. It does nothing once the
// riddle is complete.
func (s *Session) Advance(ctx context.Context) bool {
	return s.advance(ctx, "").Advanced
}

// Skip advances without answering. It needs dev tools enabled in the admin
// settings.
func (s *Session) Skip(ctx context.Context) error {
	if !s.repo.State(ctx).AdminSettings.DevToolsEnabled {
		return ErrDevToolsDisabled
	}
	if s.Completed() {
		return nil
	}
	s.logger.Info("stage skipped", zap.Int("stage", s.stage))
	s.advance(ctx, "")
	return nil
}

// Reload re-reads the stored stage, picking up changes made elsewhere such
// as an admin jump.
func (s *Session) Reload(ctx context.Context) {
	stored := s.def.Clamp(s.repo.Progress(ctx, s.def.ID))
	if stored == s.stage {
		return
	}
	s.stage = stored
	s.enterStage()
}

// Close stops the hint countdown and fades the soundtrack out.
func (s *Session) Close() {
	s.stopHint()
	if s.music != nil {
		s.music.Request("", audio.Options{CrossfadeDuration: s.crossfade})
	}
	s.logger.Debug("session closed", zap.Int("stage", s.stage))
}

func (s *Session) advance(ctx context.Context, msg string) Outcome {
	next, ok := s.def.NextStage(s.stage)
	if !ok {
		return Outcome{}
	}
	s.repo.SetProgress(ctx, s.def.ID, next)
	s.logger.Debug("stage advanced", zap.Int("from", s.stage), zap.Int("to", next))
	s.stage = next
	s.enterStage()
	return Outcome{Advanced: true, Message: msg}
}

// enterStage resets per-stage state and switches the soundtrack.
func (s *Session) enterStage() {
	s.stopHint()
	s.pin, s.choice, s.fill = nil, nil, nil

	st := s.Current()
	switch st := st.(type) {
	case stages.PinAnswer:
		s.pin = st.NewEntry()
	case stages.MultipleChoice:
		s.choice = st.NewRound(s.rng)
	case stages.FillWords:
		s.fill = st.NewRound()
	}

	if h, ok := st.Hint(); ok && s.sched != nil {
		if s.hintCooldown > 0 {
			h.Cooldown = s.hintCooldown
		}
		s.hint = stages.NewHintTimer(h, s.sched)
	}

	if s.music != nil {
		s.music.Request(s.def.Music(s.stage), audio.Options{Loop: true, CrossfadeDuration: s.crossfade})
	}
}

func (s *Session) stopHint() {
	if s.hint != nil {
		s.hint.Stop()
		s.hint = nil
	}
}

// choiceIndex accepts a 1-based number or a label, case-insensitively.
func (s *Session) choiceIndex(input string) (int, bool) {
	input = strings.TrimSpace(input)
	choices := s.choice.Choices()
	if n, err := strconv.Atoi(input); err == nil {
		return n - 1, n >= 1 && n <= len(choices)
	}
	for i, c := range choices {
		if strings.EqualFold(c.Label, input) {
			return i, true
		}
	}
	return 0, false
}
