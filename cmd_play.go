package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/leonelquinteros/gotext"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	engineaudio "riddlebox/pkg/engine/audio"
	"riddlebox/pkg/engine/audio/ebitenaudio"
	"riddlebox/pkg/engine/clock"
	"riddlebox/pkg/engine/input"
	"riddlebox/pkg/game/admin"
	"riddlebox/pkg/game/fuzzy"
	"riddlebox/pkg/game/renderer"
	"riddlebox/pkg/game/riddle"
	"riddlebox/pkg/game/session"
	"riddlebox/pkg/game/stages"
)

var (
	noAudio        bool
	checkThreshold float64
)

// playCmd plays one riddle from its stored stage
var playCmd = &cobra.Command{
	Use:   "play <riddle>",
	Short: "Play a riddle",
	Long: `Plays a riddle from where you left off. Type answers and press enter.

Commands while playing:
  ?        show the hint once it is ready
  :status  show progress of every riddle
  :skip    skip the stage (dev tools must be enabled)
  :q       quit`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: riddle.IDs(),
	RunE:      runPlay,
}

// listCmd lists the riddles
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available riddles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range riddle.Registry() {
			renderer.ShowMessage(renderer.FormatText("KEY{%s}  %s  (%d stages, %s)",
				m.ID, m.DisplayName(), m.TotalStages, m.Path))
		}
		return nil
	},
}

// statusCmd shows progress of every riddle
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress of every riddle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer.RenderStatus(admin.NewDashboard(repo, logger).Rows(cmd.Context()))
		return nil
	},
}

// checkCmd tries an answer against accepted answers
var checkCmd = &cobra.Command{
	Use:   "check <answer> <accepted>...",
	Short: "Check how close an answer is to the accepted answers",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold := cfg.Fuzzy.Threshold
		if cmd.Flags().Changed("threshold") {
			threshold = checkThreshold
		}
		answer := args[0]
		matcher := fuzzy.Matcher{Threshold: threshold}
		for _, accepted := range args[1:] {
			score := fuzzy.HistogramSimilarity(fuzzy.Normalize(answer), accepted)
			if matcher.Matches(answer, []string{accepted}) {
				renderer.ShowMessage(renderer.FormatText("OK{%-20s} %.2f", accepted, score))
			} else {
				renderer.ShowMessage(renderer.FormatText("DENIED{%-20s} %.2f", accepted, score))
			}
		}
		if !matcher.Matches(answer, args[1:]) {
			return fmt.Errorf("%q is not close enough at threshold %.2f", answer, threshold)
		}
		return nil
	},
}

// keysCmd lists the command words bound while playing
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the commands you can type while playing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		byAction := input.GetBindingsByAction()
		for _, action := range []input.Action{input.ActionHint, input.ActionStatus, input.ActionSkip, input.ActionQuit, input.ActionSubmit} {
			codes := strings.Join(byAction[action], ", ")
			if codes == "" {
				codes = "(unbound)"
			}
			renderer.ShowMessage(renderer.FormatText("ACTION{%s}: %s", input.ActionName(action), codes))
		}
		return nil
	},
}

func registerPlayCommands() {
	playCmd.Flags().BoolVar(&noAudio, "no-audio", false, "Play without the soundtrack")
	checkCmd.Flags().Float64Var(&checkThreshold, "threshold", fuzzy.DefaultThreshold, "Similarity needed to accept")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(keysCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	def, err := riddle.Find(args[0])
	if err != nil {
		return err
	}

	bus := engineaudio.NewInteractions()
	music, closeMusic := openMusic(bus)
	defer closeMusic()

	opts := []session.Option{
		session.WithCrossfade(cfg.Crossfade()),
		session.WithThreshold(cfg.Fuzzy.Threshold),
	}
	if cfg.Hints.CooldownSeconds > 0 {
		opts = append(opts, session.WithHintCooldown(time.Duration(cfg.Hints.CooldownSeconds)*time.Second))
	}
	sess := session.New(ctx, def, repo, music, clock.Real{}, logger, opts...)
	defer sess.Close()

	return playLoop(ctx, sess, input.Stdin(), input.Dispatcher{Bus: bus})
}

func playLoop(ctx context.Context, sess *session.Session, reader *input.Reader, disp input.Dispatcher) error {
	var out session.Outcome
	for {
		renderer.RenderFrame(renderer.FrameOf(sess, out))
		screen.PrintPrompt()

		raw, err := readInput(reader, sess.Current())
		if errors.Is(err, io.EOF) || errors.Is(err, input.ErrInterrupted) {
			return nil
		}
		if err != nil {
			return err
		}
		intent := disp.Feed(raw)
		out = session.Outcome{}

		switch intent.Action {
		case input.ActionQuit:
			return nil
		case input.ActionHint:
			out = revealHint(sess.HintTimer())
		case input.ActionSkip:
			if err := sess.Skip(ctx); err != nil {
				out = session.Outcome{Wrong: true, Message: gotext.Get("Dev tools are disabled.")}
			}
		case input.ActionStatus:
			renderer.Clear()
			renderer.RenderStatus(admin.NewDashboard(repo, logger).Rows(ctx))
			renderer.ShowMessage("")
			screen.PrintPrompt()
			if _, err := reader.ReadLine(); err != nil {
				return nil
			}
			sess.Reload(ctx)
		default:
			if sess.Completed() {
				return nil
			}
			out = sess.Submit(ctx, intent.Text)
		}
	}
}

// readInput reads a single key on confirm-only stages and a line otherwise.
func readInput(reader *input.Reader, st stages.Stage) (input.RawInput, error) {
	now := time.Now()
	switch st.Kind() {
	case stages.KindWelcome, stages.KindContinue, stages.KindCongrats:
		key, err := reader.ReadKey()
		return input.RawInput{Device: input.DeviceKeyboard, Code: key, Timestamp: now}, err
	default:
		line, err := reader.ReadLine()
		return input.RawInput{Device: input.DeviceTerminal, Code: line, Timestamp: now}, err
	}
}

func revealHint(h *stages.HintTimer) session.Outcome {
	if h == nil {
		return session.Outcome{Message: gotext.Get("There is no hint for this stage.")}
	}
	if _, ok := h.Reveal(); !ok {
		return session.Outcome{Message: gotext.Get("The hint unlocks in %ds.", h.Remaining())}
	}
	return session.Outcome{}
}

// openMusic builds the soundtrack manager. It returns a nil manager when audio
// is off or the audio directory is missing, so the riddle plays silently.
func openMusic(bus *engineaudio.Interactions) (*engineaudio.Manager, func()) {
	if noAudio || !cfg.Audio.Enabled {
		return nil, func() {}
	}
	if _, err := os.Stat(cfg.Audio.Dir); err != nil {
		logger.Warn("audio directory unavailable, playing without sound", zap.String("dir", cfg.Audio.Dir), zap.Error(err))
		return nil, func() {}
	}

	actx := audio.NewContext(cfg.Audio.SampleRate)
	lib := engineaudio.NewLibrary(ebitenaudio.NewLoader(actx, os.DirFS(cfg.Audio.Dir)))
	music := engineaudio.NewManager(lib, clock.Real{}, bus, logger)
	return music, func() {
		music.Close()
		if err := lib.Close(); err != nil {
			logger.Warn("failed to release audio", zap.Error(err))
		}
	}
}
