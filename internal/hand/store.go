// Package hand holds the four seat hands and their discard piles.
//
// A Store has exactly one writer, the turn engine. It does no locking;
// consumers observe it only through snapshots copied out by the engine.
package hand

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

// DealSize is the number of tiles each seat receives at the deal.
const DealSize = 13

var (
	// ErrAlreadyDealt is returned when Deal is called on a dealt store.
	ErrAlreadyDealt = errors.New("hand: hands already dealt")

	// ErrShortWall is returned when the wall cannot cover the deal.
	ErrShortWall = errors.New("hand: wall too short to deal")

	// ErrIndexOutOfRange is returned by RemoveFromHand for a bad index.
	ErrIndexOutOfRange = errors.New("hand: tile index out of range")

	// ErrInvalidSeat is returned for seats outside [0, NumSeats).
	ErrInvalidSeat = errors.New("hand: invalid seat")
)

// Drawer supplies tiles from the front of a wall.
type Drawer interface {
	Draw() (tiles.Tile, bool)
	Remaining() int
}

// Store owns four ordered hands and four append-only discard piles.
type Store struct {
	hands    [core.NumSeats][]tiles.Tile
	discards [core.NumSeats][]tiles.Tile
	dealt    bool
}

// NewStore creates an empty, undealt store.
func NewStore() *Store {
	return &Store{}
}

// Deal draws DealSize tiles per seat in seat order 0..3 off the wall front
// and sorts each hand. It may run only once per store.
func (s *Store) Deal(w Drawer) error {
	if s.dealt {
		return ErrAlreadyDealt
	}
	if w.Remaining() < DealSize*core.NumSeats {
		return fmt.Errorf("%w: %d tiles left, need %d", ErrShortWall, w.Remaining(), DealSize*core.NumSeats)
	}

	for seat := 0; seat < core.NumSeats; seat++ {
		h := make([]tiles.Tile, 0, DealSize+1)
		for i := 0; i < DealSize; i++ {
			t, _ := w.Draw()
			h = append(h, t)
		}
		tiles.Sort(h)
		s.hands[seat] = h
	}
	s.dealt = true
	return nil
}

// Dealt reports whether Deal has completed.
func (s *Store) Dealt() bool {
	return s.dealt
}

// Sort re-applies canonical order to a seat's hand in place.
func (s *Store) Sort(seat core.Seat) {
	if !seat.Valid() {
		return
	}
	tiles.Sort(s.hands[seat])
}

// AppendToHand adds a tile to the end of a seat's hand.
func (s *Store) AppendToHand(seat core.Seat, t tiles.Tile) error {
	if !seat.Valid() {
		return ErrInvalidSeat
	}
	s.hands[seat] = append(s.hands[seat], t)
	return nil
}

// RemoveFromHand removes and returns the tile at index in a seat's hand.
func (s *Store) RemoveFromHand(seat core.Seat, index int) (tiles.Tile, error) {
	if !seat.Valid() {
		return tiles.Tile{}, ErrInvalidSeat
	}
	h := s.hands[seat]
	if index < 0 || index >= len(h) {
		return tiles.Tile{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(h))
	}
	t := h[index]
	s.hands[seat] = append(h[:index], h[index+1:]...)
	return t, nil
}

// AppendToDiscard records a tile on a seat's discard pile.
func (s *Store) AppendToDiscard(seat core.Seat, t tiles.Tile) error {
	if !seat.Valid() {
		return ErrInvalidSeat
	}
	s.discards[seat] = append(s.discards[seat], t)
	return nil
}

// Len returns the number of tiles in a seat's hand.
func (s *Store) Len(seat core.Seat) int {
	if !seat.Valid() {
		return 0
	}
	return len(s.hands[seat])
}

// Hand returns a copy of a seat's hand.
func (s *Store) Hand(seat core.Seat) []tiles.Tile {
	if !seat.Valid() {
		return nil
	}
	return clone(s.hands[seat])
}

// Discards returns a copy of a seat's discard pile in discard order.
func (s *Store) Discards(seat core.Seat) []tiles.Tile {
	if !seat.Valid() {
		return nil
	}
	return clone(s.discards[seat])
}

// CopyInto deep-copies all hands and discard piles into a snapshot.
func (s *Store) CopyInto(snap *core.Snapshot) {
	for i := 0; i < core.NumSeats; i++ {
		snap.Hands[i] = clone(s.hands[i])
		snap.Discards[i] = clone(s.discards[i])
	}
}

// Each calls fn for every tile held in hands and discard piles.
func (s *Store) Each(fn func(seat core.Seat, t tiles.Tile, discarded bool)) {
	for i := 0; i < core.NumSeats; i++ {
		for _, t := range s.hands[i] {
			fn(core.Seat(i), t, false)
		}
		for _, t := range s.discards[i] {
			fn(core.Seat(i), t, true)
		}
	}
}

func clone(ts []tiles.Tile) []tiles.Tile {
	out := make([]tiles.Tile, len(ts))
	copy(out, ts)
	return out
}
