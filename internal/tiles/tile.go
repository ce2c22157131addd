// Package tiles provides the physical tile set of a four-player round:
// tile values, canonical ordering, and the shuffled live and dead walls.
// It has no dependencies on the engine or the platform layer.
package tiles

import (
	"fmt"
	"strconv"
)

// Suit identifies a tile family. The numeric order is the canonical sort
// priority: man < pin < sou < honor.
type Suit uint8

const (
	SuitMan Suit = iota
	SuitPin
	SuitSou
	SuitHonor
)

// Suit letters used in tile codes ("5m", "3z").
const suitLetters = "mpsz"

// String returns the single-letter code for the suit.
func (s Suit) String() string {
	if int(s) < len(suitLetters) {
		return string(suitLetters[s])
	}
	return "?"
}

// MaxRank returns the highest rank in the suit (9 for numbered suits, 7 for honors).
func (s Suit) MaxRank() int {
	if s == SuitHonor {
		return 7
	}
	return 9
}

// Numbered reports whether the suit has ranks 1-9.
func (s Suit) Numbered() bool {
	return s != SuitHonor
}

// Tile is one physical tile. Two copies of the same kind differ only by ID.
// Tiles are values and never change after the set is built.
type Tile struct {
	ID   uint8 // Physical identity, 0..135
	Suit Suit
	Rank uint8 // 1-9, or 1-7 for honors; a red five keeps Rank 5
	Red  bool  // Bonus five, coded and sorted as rank 0
}

// Kind identifies a tile by suit and rank, ignoring physical identity and
// the red flag. Each kind exists in exactly CopiesPerKind copies.
type Kind struct {
	Suit Suit
	Rank uint8
}

// Kind returns the tile's kind.
func (t Tile) Kind() Kind {
	return Kind{Suit: t.Suit, Rank: t.Rank}
}

// SortRank returns the rank used for ordering: 0 for a red five.
func (t Tile) SortRank() uint8 {
	if t.Red {
		return 0
	}
	return t.Rank
}

// Code returns the short tile code, e.g. "1m", "0p" (red five), "7z".
func (t Tile) Code() string {
	return strconv.Itoa(int(t.SortRank())) + t.Suit.String()
}

// String implements fmt.Stringer.
func (t Tile) String() string {
	return t.Code()
}

// ParseCode parses a tile code into a Kind and the red flag.
// "0m", "0p" and "0s" are red fives.
func ParseCode(code string) (Kind, bool, error) {
	if len(code) != 2 {
		return Kind{}, false, fmt.Errorf("tiles: invalid code %q", code)
	}

	suit := Suit(0)
	found := false
	for i := 0; i < len(suitLetters); i++ {
		if code[1] == suitLetters[i] {
			suit = Suit(i)
			found = true
			break
		}
	}
	if !found {
		return Kind{}, false, fmt.Errorf("tiles: invalid suit in %q", code)
	}

	if code[0] < '0' || code[0] > '9' {
		return Kind{}, false, fmt.Errorf("tiles: invalid rank in %q", code)
	}
	rank := int(code[0] - '0')

	if rank == 0 {
		if !suit.Numbered() {
			return Kind{}, false, fmt.Errorf("tiles: honors have no red variant: %q", code)
		}
		return Kind{Suit: suit, Rank: 5}, true, nil
	}
	if rank > suit.MaxRank() {
		return Kind{}, false, fmt.Errorf("tiles: rank out of range in %q", code)
	}
	return Kind{Suit: suit, Rank: uint8(rank)}, false, nil
}

// Codes formats a slice of tiles as their codes.
func Codes(ts []Tile) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Code()
	}
	return out
}
