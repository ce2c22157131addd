package config

import "time"

// SpeedPreset represents a named pacing level.
type SpeedPreset string

const (
	SpeedSlow    SpeedPreset = "slow"
	SpeedNormal  SpeedPreset = "normal"
	SpeedFast    SpeedPreset = "fast"
	SpeedInstant SpeedPreset = "instant"
)

// PacingForPreset returns the delay after each snapshot for a preset.
// The second result is false for an empty or unknown preset.
func PacingForPreset(preset SpeedPreset) (time.Duration, bool) {
	switch preset {
	case SpeedSlow:
		return 2 * time.Second, true
	case SpeedNormal:
		return time.Second, true
	case SpeedFast:
		return 250 * time.Millisecond, true
	case SpeedInstant:
		return 0, true
	default:
		return 0, false
	}
}

// ApplySpeedPreset sets the round pacing from a preset.
func ApplySpeedPreset(cfg *MahjongConfig, preset SpeedPreset) {
	cfg.Round.Speed = preset
	if d, ok := PacingForPreset(preset); ok {
		cfg.Round.Pacing = d
	}
}
