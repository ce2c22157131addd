package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/mahjong.yaml
var defaultMahjongYAML []byte

// Default returns the built-in configuration.
func Default() MahjongConfig {
	return MahjongConfig{
		Round: RoundConfig{
			Seed:            0,
			Pacing:          time.Second,
			ChannelCapacity: 10,
			RedFives:        false,
			WallLimit:       0,
			Policy:          "last",
		},
		Display: DisplayConfig{
			Mode:      "debug",
			LocalSeat: 0,
			FPS:       60,
			Glyphs:    true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.mahjong/mahjong.log",
		},
		Storage: StorageConfig{
			Path: "~/.mahjong/rounds.db",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultMahjongYAML
}
