package tiles

import (
	"math/rand"
	"time"
)

// Set composition.
const (
	CopiesPerKind   = 4
	TotalTiles      = 136 // 3 numbered suits x 9 ranks x 4 + 7 honors x 4
	DeadWallSize    = 14
	IndicatorOffset = 4 // Position of the revealed indicator inside the dead wall
)

// Option configures a TileSet at construction.
type Option func(*buildOptions)

type buildOptions struct {
	redFives bool
}

// WithRedFives marks one copy of each numbered five as the red bonus tile.
// The set still holds 136 tiles.
func WithRedFives() Option {
	return func(o *buildOptions) {
		o.redFives = true
	}
}

// TileSet owns the full tile multiset of one round, split into the live
// wall (drawable, front first), the dead wall (reserved) and the withheld
// pile (live tiles removed by Truncate). Tiles leave the live wall only by
// Draw and never come back.
type TileSet struct {
	seed      int64
	live      []Tile
	dead      []Tile
	withheld  []Tile
	indicator Tile
}

// Build returns all 136 tiles in canonical construction order.
func Build(opts ...Option) []Tile {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	all := make([]Tile, 0, TotalTiles)
	id := uint8(0)
	for _, suit := range []Suit{SuitMan, SuitPin, SuitSou, SuitHonor} {
		for rank := 1; rank <= suit.MaxRank(); rank++ {
			for c := 0; c < CopiesPerKind; c++ {
				red := o.redFives && suit.Numbered() && rank == 5 && c == 0
				all = append(all, Tile{ID: id, Suit: suit, Rank: uint8(rank), Red: red})
				id++
			}
		}
	}
	return all
}

// NewShuffled builds a full set, applies a uniform random permutation and
// splits off the last DeadWallSize tiles as the dead wall. Seed 0 means a
// time-based seed; any other seed gives a reproducible shuffle.
func NewShuffled(seed int64, opts ...Option) *TileSet {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	all := Build(opts...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})

	ts := FromOrder(all)
	ts.seed = seed
	return ts
}

// FromOrder splits an already ordered slice of 136 tiles into live and dead
// walls without shuffling. Useful for stacked walls in tests.
func FromOrder(all []Tile) *TileSet {
	split := len(all) - DeadWallSize
	if split < 0 {
		split = 0
	}

	live := make([]Tile, split)
	copy(live, all[:split])
	dead := make([]Tile, len(all)-split)
	copy(dead, all[split:])

	ts := &TileSet{
		live: live,
		dead: dead,
	}
	if len(dead) > IndicatorOffset {
		ts.indicator = dead[IndicatorOffset]
	}
	return ts
}

// Seed returns the seed the set was shuffled with (0 for FromOrder sets).
func (ts *TileSet) Seed() int64 {
	return ts.seed
}

// Draw removes and returns the tile at the front of the live wall.
// The second result is false when the wall is empty; that is the normal
// end-of-round signal, not an error.
func (ts *TileSet) Draw() (Tile, bool) {
	if ts.Empty() {
		return Tile{}, false
	}
	t := ts.live[0]
	ts.live = ts.live[1:]
	return t, true
}

// Remaining returns the number of tiles left in the live wall.
func (ts *TileSet) Remaining() int {
	return len(ts.live)
}

// Empty reports whether the live wall is exhausted.
func (ts *TileSet) Empty() bool {
	return len(ts.live) == 0
}

// Truncate caps the live wall at n tiles. The excess tail is moved to the
// withheld pile so the set still accounts for every tile. Truncate never
// grows the wall.
func (ts *TileSet) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(ts.live) {
		return
	}
	ts.withheld = append(ts.withheld, ts.live[n:]...)
	ts.live = ts.live[:n:n]
}

// Indicator returns the single revealed dead-wall tile. It is inert data.
func (ts *TileSet) Indicator() Tile {
	return ts.indicator
}

// DeadWall returns a copy of the dead wall.
func (ts *TileSet) DeadWall() []Tile {
	out := make([]Tile, len(ts.dead))
	copy(out, ts.dead)
	return out
}

// LiveWall returns a copy of the remaining live wall in draw order.
func (ts *TileSet) LiveWall() []Tile {
	out := make([]Tile, len(ts.live))
	copy(out, ts.live)
	return out
}

// Withheld returns a copy of the tiles removed by Truncate.
func (ts *TileSet) Withheld() []Tile {
	out := make([]Tile, len(ts.withheld))
	copy(out, ts.withheld)
	return out
}

// DeadCount returns the dead wall size.
func (ts *TileSet) DeadCount() int {
	return len(ts.dead)
}

// WithheldCount returns the number of truncated tiles.
func (ts *TileSet) WithheldCount() int {
	return len(ts.withheld)
}
