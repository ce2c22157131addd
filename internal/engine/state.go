package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-mahjong/internal/core"
)

// StateKind enumerates the turn engine states.
type StateKind int

const (
	StateUndealt         StateKind = iota // Before Deal
	StateAwaitingDraw                     // Seat is about to draw
	StateAwaitingDiscard                  // Seat holds 14 tiles and must discard
	StateRoundEnded                       // Terminal
)

// String returns a human-readable name for the state kind.
func (k StateKind) String() string {
	switch k {
	case StateUndealt:
		return "Undealt"
	case StateAwaitingDraw:
		return "AwaitingDraw"
	case StateAwaitingDiscard:
		return "AwaitingDiscard"
	case StateRoundEnded:
		return "RoundEnded"
	default:
		return "Unknown"
	}
}

// State is the engine's position in the draw/discard cycle.
type State struct {
	Kind   StateKind
	Seat   core.Seat
	Reason core.EndReason // Set when Kind is StateRoundEnded
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s.Kind == StateRoundEnded {
		return fmt.Sprintf("%s{%s}", s.Kind, s.Reason)
	}
	return fmt.Sprintf("%s(%d)", s.Kind, int(s.Seat))
}

// Result summarizes a finished round.
type Result struct {
	Reason    core.EndReason
	Draws     int       // Completed draw half-turns
	Discards  int       // Completed discard half-turns
	Snapshots uint64    // Snapshots delivered to the channel
	LastSeat  core.Seat // Seat to act when the round stopped
}

// HalfTurns returns the number of completed half-turns.
func (r Result) HalfTurns() int {
	return r.Draws + r.Discards
}
