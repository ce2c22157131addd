// Package policies registers the built-in discard policies. Import it for
// its side effects:
//
//	import _ "github.com/vovakirdan/tui-mahjong/internal/policies"
package policies

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/engine"
	"github.com/vovakirdan/tui-mahjong/internal/registry"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

// Policy IDs accepted by --policy.
const (
	Last   = "last"
	First  = "first"
	Random = "random"
)

func init() {
	registry.Register(Last, "Discard the drawn tile", func(int64) engine.Policy {
		return engine.LastTile{}
	})
	registry.Register(First, "Discard the lowest tile", func(int64) engine.Policy {
		return FirstTile{}
	})
	registry.Register(Random, "Discard a random tile", func(seed int64) engine.Policy {
		return NewRandomTile(seed)
	})
}

// FirstTile discards the tile at index 0, the lowest in canonical order
// unless the drawn tile sorts before it.
type FirstTile struct{}

// Choose implements engine.Policy.
func (FirstTile) Choose(_ context.Context, h []tiles.Tile, _ core.Seat) (int, error) {
	if len(h) == 0 {
		return 0, fmt.Errorf("%w: empty hand", engine.ErrInvalidChoice)
	}
	return 0, nil
}

// RandomTile discards a uniformly chosen tile. It is meant for soak runs
// that should exercise every index.
type RandomTile struct {
	rng *rand.Rand
}

// NewRandomTile creates a random policy. Seed 0 means time-based.
func NewRandomTile(seed int64) *RandomTile {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomTile{rng: rand.New(rand.NewSource(seed))}
}

// Choose implements engine.Policy.
func (p *RandomTile) Choose(_ context.Context, h []tiles.Tile, _ core.Seat) (int, error) {
	if len(h) == 0 {
		return 0, fmt.Errorf("%w: empty hand", engine.ErrInvalidChoice)
	}
	return p.rng.Intn(len(h)), nil
}
