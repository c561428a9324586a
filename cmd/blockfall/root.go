package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	logFile string
}

func newApp() *app {
	return &app{v: viper.New()}
}

func newRootCmd() *cobra.Command {
	return newApp().command()
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:          "blockfall",
		Short:        "A falling-block puzzle game",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "tuning file (YAML)")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Uint64("seed", 0, "fixed piece sequence seed, 0 for random")
	flags.Int("height", config.Default().Height, "board height")
	flags.Int("width", config.Default().Width, "board width")

	for key, flag := range map[string]string{
		"log_level": "log-level",
		"seed":      "seed",
		"height":    "height",
		"width":     "width",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	a.v.SetEnvPrefix("BLOCKFALL")
	a.v.AutomaticEnv()

	root.AddCommand(
		newPlayCmd(a),
		newGUICmd(a),
		newSoakCmd(a),
		newConfigCmd(a),
	)
	return root
}

// tuning resolves the effective tuning: defaults, then the tuning file, then
// BLOCKFALL_* environment variables and flags.
func (a *app) tuning() (config.Tuning, error) {
	base := config.Default()
	if a.cfgFile != "" {
		loaded, err := config.Load(a.cfgFile)
		if err != nil {
			return base, err
		}
		base = loaded
	}

	var buf bytes.Buffer
	if err := base.Save(&buf); err != nil {
		return base, err
	}
	a.v.SetConfigType("yaml")
	if err := a.v.ReadConfig(&buf); err != nil {
		return base, fmt.Errorf("layer tuning: %w", err)
	}

	var t config.Tuning
	if err := a.v.Unmarshal(&t); err != nil {
		return base, fmt.Errorf("layer tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return base, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

// logger builds the logger for a subcommand. quiet discards output unless a
// log file was given, for frontends that own the terminal.
func (a *app) logger(t config.Tuning, quiet bool) (*logrus.Logger, io.Closer, error) {
	opts := logging.Options{Level: t.LogLevel, File: a.logFile, Output: os.Stderr}
	if quiet && a.logFile == "" {
		opts.Output = io.Discard
	}
	return logging.New(opts)
}

// session is one wired game: timers, scheduler, game and controller.
type session struct {
	timers *engine.Timers
	sched  *engine.Scheduler
	game   *game.Game
	ctrl   *input.Controller
}

func newSession(t config.Tuning, log logrus.FieldLogger) *session {
	timers := engine.NewTimers()
	opts := []game.Option{game.WithLogger(log)}
	if t.Seed != 0 {
		opts = append(opts, game.WithSeed(t.Seed))
	}
	g := game.New(timers, t.GameConfig(), opts...)

	return &session{
		timers: timers,
		sched:  engine.NewScheduler(timers),
		game:   g,
		ctrl:   input.NewController(timers, g, t.Timing()),
	}
}

// applyTuning queues reloaded rules. The game picks them up at its next
// fresh session; repeat timing applies to the next press.
func (s *session) applyTuning(t config.Tuning) {
	s.sched.Enqueue(func() {
		s.game.Reconfigure(t.GameConfig())
		s.ctrl.SetTiming(t.Timing())
	})
}

func (a *app) watcher(s *session, log logrus.FieldLogger) *config.Watcher {
	if a.cfgFile == "" {
		return nil
	}
	return config.NewWatcher(a.cfgFile, log, a.onReload(log, s.applyTuning))
}

// onReload re-resolves the tuning after the file changed, so flag and
// environment overrides stay on top of the new file contents.
func (a *app) onReload(log logrus.FieldLogger, apply func(config.Tuning)) config.ReloadFunc {
	return func(_ config.Tuning, err error) {
		if err != nil {
			return
		}
		t, err := a.tuning()
		if err != nil {
			log.WithError(err).Warn("reloaded tuning rejected")
			return
		}
		apply(t)
	}
}
