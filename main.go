package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"riddlebox/pkg/engine/input"
	"riddlebox/pkg/engine/logging"
	"riddlebox/pkg/engine/storage"
	"riddlebox/pkg/game/config"
	"riddlebox/pkg/game/progress"
	"riddlebox/pkg/game/renderer"
	"riddlebox/pkg/game/renderer/tui"
)

var (
	// Global flags
	configPath  string
	storageKind string
	dataPath    string
	verbose     bool

	// Set up by rootCmd before any subcommand runs
	cfg     *config.Config
	logger  *zap.Logger
	backend storage.Backend
	repo    *progress.Store
	screen  *tui.TUIRenderer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "riddlebox",
	Short: "Escape-room riddles in your terminal",
	Long: `riddlebox plays multi-stage riddles, remembers how far you got and
keeps a soundtrack going while you think.

Run "riddlebox list" to see the riddles, then "riddlebox play <riddle>".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Log.JSON)
		if err != nil {
			return err
		}

		if cfg.Locale.Dir != "" {
			gotext.Configure(cfg.Locale.Dir, cfg.Locale.Lang, "default")
		}
		applyKeyBindings(cfg.Keys)

		backend, err = storage.Open(cfg.Storage.Kind, cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Kind, err)
		}
		repo = progress.New(backend, logger)
		logger.Debug("storage opened", zap.String("kind", cfg.Storage.Kind), zap.String("path", cfg.Storage.Path))

		screen = tui.New()
		renderer.SetRenderer(screen)
		renderer.Init()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var errs []error
		if backend != nil {
			errs = append(errs, backend.Close())
		}
		if logger != nil {
			_ = logger.Sync()
		}
		return errors.Join(errs...)
	},
}

func init() {
	// Child PersistentPreRunE hooks run after the root one.
	cobra.EnableTraverseRunHooks = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", "", "Storage backend: "+strings.Join(config.ValidStorageKinds, ", "))
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Storage path (file, bolt or sqlite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	registerPlayCommands()
	registerAdminCommands()
	registerConfigCommands()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and lets flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("storage") {
		c.Storage.Kind = storageKind
	}
	if cmd.Flags().Changed("data") {
		c.Storage.Path = dataPath
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func applyKeyBindings(keys config.KeysConfig) {
	for action, code := range map[input.Action]string{
		input.ActionHint: keys.Hint,
		input.ActionSkip: keys.Skip,
		input.ActionQuit: keys.Quit,
	} {
		if code != "" {
			input.SetSingleBinding(action, code)
		}
	}
}
