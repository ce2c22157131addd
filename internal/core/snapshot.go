package core

import "github.com/vovakirdan/tui-mahjong/internal/tiles"

// Phase describes which half-turn produced a snapshot.
type Phase int

const (
	PhaseDealt     Phase = iota // Initial deal, not emitted by the engine loop
	PhaseDrawn                  // Acting seat holds 14 tiles
	PhaseDiscarded              // Acting seat is back to 13 tiles
	PhaseEnded                  // Round is over; no further snapshots follow
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDealt:
		return "dealt"
	case PhaseDrawn:
		return "drawn"
	case PhaseDiscarded:
		return "discarded"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EndReason describes why a round stopped.
type EndReason int

const (
	EndReasonNone          EndReason = iota // Round still running
	EndReasonWallExhausted                  // Exhaustive draw, no winner
	EndReasonCancelled                      // External shutdown between half-turns
	EndReasonAborted                        // Invariant violation
)

// String returns a human-readable name for the reason.
func (r EndReason) String() string {
	switch r {
	case EndReasonNone:
		return "running"
	case EndReasonWallExhausted:
		return "wall exhausted"
	case EndReasonCancelled:
		return "cancelled"
	case EndReasonAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable deep copy of the table at one instant. It is the
// only unit of cross-goroutine observation: consumers never see engine state.
type Snapshot struct {
	Seq       uint64 // Capture order, starting at 1
	Seat      Seat   // Acting seat
	Phase     Phase
	Drawn     *tiles.Tile // Set on PhaseDrawn
	Discarded *tiles.Tile // Set on PhaseDiscarded

	Hands    [NumSeats][]tiles.Tile
	Discards [NumSeats][]tiles.Tile

	LiveWall  int // Tiles left to draw
	DeadWall  int
	Withheld  int
	Indicator tiles.Tile

	Reason EndReason // Set on PhaseEnded
}

// TileCount sums every pool the snapshot accounts for. For a consistent
// snapshot it always equals tiles.TotalTiles.
func (s Snapshot) TileCount() int {
	n := s.LiveWall + s.DeadWall + s.Withheld
	for i := 0; i < NumSeats; i++ {
		n += len(s.Hands[i]) + len(s.Discards[i])
	}
	return n
}

// Ended reports whether this is the terminal snapshot of a round.
func (s Snapshot) Ended() bool {
	return s.Phase == PhaseEnded
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	for i := 0; i < NumSeats; i++ {
		out.Hands[i] = cloneTiles(s.Hands[i])
		out.Discards[i] = cloneTiles(s.Discards[i])
	}
	if s.Drawn != nil {
		t := *s.Drawn
		out.Drawn = &t
	}
	if s.Discarded != nil {
		t := *s.Discarded
		out.Discarded = &t
	}
	return out
}

func cloneTiles(ts []tiles.Tile) []tiles.Tile {
	out := make([]tiles.Tile, len(ts))
	copy(out, ts)
	return out
}
