package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-mahjong/internal/config"
	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/storage"
)

// loadSettings loads the config file and applies the flags the user set
// explicitly on top of it.
func loadSettings(cmd *cobra.Command) (config.MahjongConfig, core.RuntimeConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, core.RuntimeConfig{}, err
	}

	f := cmd.Flags()
	if f.Changed("seed") {
		cfg.Round.Seed = flagSeed
	}
	if f.Changed("pacing") {
		d, err := time.ParseDuration(flagPacing)
		if err != nil {
			return cfg, core.RuntimeConfig{}, fmt.Errorf("invalid --pacing: %w", err)
		}
		cfg.Round.Pacing = d
		cfg.Round.Speed = ""
	}
	if f.Changed("speed") {
		config.ApplySpeedPreset(&cfg, config.SpeedPreset(flagSpeed))
	}
	if f.Changed("capacity") {
		cfg.Round.ChannelCapacity = flagCapacity
	}
	if f.Changed("policy") {
		cfg.Round.Policy = flagPolicy
	}
	if f.Changed("red-fives") {
		cfg.Round.RedFives = flagRedFives
	}
	if f.Changed("wall-limit") {
		cfg.Round.WallLimit = flagWallLimit
	}
	if f.Changed("mode") {
		cfg.Display.Mode = flagMode
	}
	if f.Changed("seat") {
		cfg.Display.LocalSeat = flagSeat
	}
	if f.Changed("fps") {
		cfg.Display.FPS = flagFPS
	}
	if f.Changed("glyphs") {
		cfg.Display.Glyphs = flagGlyphs
	}
	if f.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flagDebug {
		cfg.Log.Level = "debug"
	}

	rc, err := cfg.ToRuntime()
	if err != nil {
		return cfg, rc, err
	}

	// Get terminal size
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	return cfg, rc, nil
}

// newLogger builds the program logger. While the TUI owns the terminal the
// log goes to the configured file so it cannot corrupt the screen.
func newLogger(lc config.LogConfig, prefix string, toFile bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		level = log.InfoLevel
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if toFile {
		if lc.File == "" {
			w = io.Discard
		} else {
			path := config.ExpandHome(lc.File)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("cannot open log file: %w", err)
			}
			w = file
			closeFn = func() { file.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// openStore opens the round history, warning and continuing without it on
// failure.
func openStore(path string, logger *log.Logger) *storage.Store {
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open rounds database", "error", err)
		return nil
	}
	return store
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
