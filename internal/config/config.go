// Package config provides YAML-based configuration loading for rounds,
// display and logging.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-mahjong/internal/core"
)

// MahjongConfig contains all configuration for the program.
type MahjongConfig struct {
	Round   RoundConfig   `yaml:"round"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
}

// RoundConfig defines how a round is dealt and paced.
type RoundConfig struct {
	Seed            int64         `yaml:"seed"` // 0 = time based
	Pacing          time.Duration `yaml:"pacing"`
	Speed           SpeedPreset   `yaml:"speed"` // Overrides pacing when set
	ChannelCapacity int           `yaml:"channel_capacity"`
	RedFives        bool          `yaml:"red_fives"`
	WallLimit       int           `yaml:"wall_limit"` // 0 = full wall
	Policy          string        `yaml:"policy"`
}

// DisplayConfig defines renderer parameters.
type DisplayConfig struct {
	Mode      string `yaml:"mode"`       // "debug" or "play"
	LocalSeat int    `yaml:"local_seat"` // Seat the human controls in play mode
	FPS       int    `yaml:"fps"`
	Glyphs    bool   `yaml:"glyphs"` // Unicode tile faces instead of codes
}

// LogConfig defines logging parameters.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Used while the TUI owns the terminal
}

// StorageConfig defines the round history database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Validation errors.
var (
	ErrInvalidMode     = errors.New("config: invalid display mode")
	ErrInvalidSeat     = errors.New("config: local seat out of range")
	ErrInvalidCapacity = errors.New("config: channel capacity must be positive")
	ErrInvalidPacing   = errors.New("config: pacing must not be negative")
	ErrInvalidLimit    = errors.New("config: wall limit must not be negative")
)

// Validate checks the config for values the engine cannot run with.
func (c MahjongConfig) Validate() error {
	if _, err := core.ParseMode(c.Display.Mode); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Display.Mode)
	}
	if !core.Seat(c.Display.LocalSeat).Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, c.Display.LocalSeat)
	}
	if c.Round.ChannelCapacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, c.Round.ChannelCapacity)
	}
	if c.Round.Pacing < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPacing, c.Round.Pacing)
	}
	if c.Round.WallLimit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, c.Round.WallLimit)
	}
	if c.Round.Speed != "" {
		if _, ok := PacingForPreset(c.Round.Speed); !ok {
			return fmt.Errorf("config: unknown speed preset %q", c.Round.Speed)
		}
	}
	return nil
}

// EffectivePacing returns the pacing delay, letting a speed preset win
// over the raw duration.
func (c MahjongConfig) EffectivePacing() time.Duration {
	if d, ok := PacingForPreset(c.Round.Speed); ok {
		return d
	}
	return c.Round.Pacing
}

// ToRuntime converts the file config into the runtime config handed to a
// round. Screen size is filled in by the caller.
func (c MahjongConfig) ToRuntime() (core.RuntimeConfig, error) {
	if err := c.Validate(); err != nil {
		return core.RuntimeConfig{}, err
	}
	mode, _ := core.ParseMode(c.Display.Mode)

	rc := core.DefaultConfig()
	if c.Display.FPS > 0 {
		rc.TickRate = c.Display.FPS
	}
	rc.Seed = c.Round.Seed
	rc.Pacing = c.EffectivePacing()
	rc.Capacity = c.Round.ChannelCapacity
	rc.Mode = mode
	rc.LocalSeat = core.Seat(c.Display.LocalSeat)
	if c.Round.Policy != "" {
		rc.Policy = c.Round.Policy
	}
	rc.RedFives = c.Round.RedFives
	rc.WallLimit = c.Round.WallLimit
	return rc, nil
}
