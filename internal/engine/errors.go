package engine

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-mahjong/internal/core"
)

var (
	// ErrNotDealt is returned by Run before Deal.
	ErrNotDealt = errors.New("engine: hands not dealt")

	// ErrRoundOver is returned by Run and Deal once the round has ended.
	ErrRoundOver = errors.New("engine: round already ended")

	// ErrInvariantViolation marks corrupted round state. It is fatal.
	ErrInvariantViolation = errors.New("engine: invariant violation")

	// ErrInvalidChoice is returned when a policy picks an index outside the hand.
	ErrInvalidChoice = errors.New("engine: policy chose an invalid tile index")
)

// Discard request rejections. Engine state is unchanged when these are returned.
var (
	ErrNotYourTurn     = errors.New("engine: not this seat's turn to discard")
	ErrHandNotReady    = errors.New("engine: hand does not hold a drawn tile")
	ErrIndexOutOfRange = errors.New("engine: discard index out of range")
)

// InvariantError describes a failed consistency check at a transition boundary.
type InvariantError struct {
	Check  string    // Which check failed, e.g. "hand-size"
	Seat   core.Seat // Seat involved, when relevant
	Detail string
}

// Error implements error.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("engine: invariant %s failed (seat %v): %s", e.Check, e.Seat, e.Detail)
}

// Unwrap lets errors.Is match ErrInvariantViolation.
func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}
