package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/hand"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

// checkInvariants verifies the table at a transition boundary:
//   - every physical tile sits in exactly one pool and the pools hold 136
//   - hand sizes match the state (14 for the seat awaiting discard, else 13)
//   - discard piles hold exactly the completed discards
//   - hands not holding a fresh draw are in canonical order
func (e *Engine) checkInvariants() error {
	if err := e.checkConservation(); err != nil {
		return err
	}

	acting := core.Seat(-1)
	if e.state.Kind == StateAwaitingDiscard {
		acting = e.state.Seat
	}

	piled := 0
	for seat := core.Seat(0); seat < core.NumSeats; seat++ {
		want := hand.DealSize
		if seat == acting {
			want = hand.DealSize + 1
		}
		if got := e.hands.Len(seat); got != want {
			return &InvariantError{
				Check:  "hand-size",
				Seat:   seat,
				Detail: fmt.Sprintf("%d tiles in state %v, expected %d", got, e.state, want),
			}
		}
		if seat != acting && !tiles.IsSorted(e.hands.Hand(seat)) {
			return &InvariantError{Check: "hand-order", Seat: seat, Detail: "hand not in canonical order"}
		}
		piled += len(e.hands.Discards(seat))
	}

	if piled != e.discards {
		return &InvariantError{
			Check:  "discard-count",
			Seat:   e.state.Seat,
			Detail: fmt.Sprintf("%d tiles in discard piles after %d discards", piled, e.discards),
		}
	}
	return nil
}

// checkConservation verifies that live wall, dead wall, withheld tiles,
// hands and discards partition the full tile set.
func (e *Engine) checkConservation() error {
	var seen [256]bool
	total := 0
	var dup *tiles.Tile

	mark := func(t tiles.Tile) {
		total++
		if seen[t.ID] && dup == nil {
			d := t
			dup = &d
		}
		seen[t.ID] = true
	}

	for _, t := range e.set.LiveWall() {
		mark(t)
	}
	for _, t := range e.set.DeadWall() {
		mark(t)
	}
	for _, t := range e.set.Withheld() {
		mark(t)
	}
	e.hands.Each(func(_ core.Seat, t tiles.Tile, _ bool) {
		mark(t)
	})

	if dup != nil {
		return &InvariantError{
			Check:  "conservation",
			Seat:   e.state.Seat,
			Detail: fmt.Sprintf("tile %v (id %d) present twice", *dup, dup.ID),
		}
	}
	if total != tiles.TotalTiles {
		return &InvariantError{
			Check:  "conservation",
			Seat:   e.state.Seat,
			Detail: fmt.Sprintf("%d tiles accounted for, expected %d", total, tiles.TotalTiles),
		}
	}
	if e.set.DeadCount() != tiles.DeadWallSize {
		return &InvariantError{
			Check:  "dead-wall",
			Seat:   e.state.Seat,
			Detail: fmt.Sprintf("dead wall holds %d tiles, expected %d", e.set.DeadCount(), tiles.DeadWallSize),
		}
	}
	return nil
}
