package core

import (
	"fmt"
	"time"
)

// Mode selects what the renderer reveals.
type Mode string

const (
	// ModeDebug shows every hand face up; all seats use the configured policy.
	ModeDebug Mode = "debug"
	// ModePlay shows only the local seat's hand; that seat is driven by a human.
	ModePlay Mode = "play"
)

// ParseMode converts a flag or config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDebug, ModePlay:
		return Mode(s), nil
	case "":
		return ModeDebug, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected debug or play)", s)
	}
}

// RevealsAll reports whether every hand is drawn face up.
func (m Mode) RevealsAll() bool {
	return m != ModePlay
}

// RuntimeConfig contains configuration passed to a round and its renderer.
type RuntimeConfig struct {
	ScreenW   int           // Screen width in characters
	ScreenH   int           // Screen height in characters
	TickRate  int           // Renderer polls per second (default 60)
	Seed      int64         // RNG seed for the shuffle, 0 = time based
	Pacing    time.Duration // Delay after every emitted snapshot
	Capacity  int           // Snapshot channel capacity
	Mode      Mode
	LocalSeat Seat   // Human seat in ModePlay
	Policy    string // Registered discard policy for non-human seats
	RedFives  bool
	WallLimit int // Live wall cap after the deal, 0 = no cap
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		TickRate:  60,
		Seed:      0, // 0 means use current time
		Pacing:    time.Second,
		Capacity:  10,
		Mode:      ModeDebug,
		LocalSeat: SeatEast,
		Policy:    "last",
	}
}
