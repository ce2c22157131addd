package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/hand"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

// Policy decides which tile a seat discards. It receives a copy of the
// 14-tile hand and returns an index into it. Policies never touch engine
// state directly; the engine applies the choice.
type Policy interface {
	Choose(ctx context.Context, h []tiles.Tile, seat core.Seat) (int, error)
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(ctx context.Context, h []tiles.Tile, seat core.Seat) (int, error)

// Choose implements Policy.
func (f PolicyFunc) Choose(ctx context.Context, h []tiles.Tile, seat core.Seat) (int, error) {
	return f(ctx, h, seat)
}

// LastTile discards the tile at the highest position: the freshly drawn
// tile, which the engine appends after sorting. It is a placeholder, not a
// strategy.
type LastTile struct{}

// Choose implements Policy.
func (LastTile) Choose(_ context.Context, h []tiles.Tile, _ core.Seat) (int, error) {
	if len(h) == 0 {
		return 0, fmt.Errorf("%w: empty hand", ErrInvalidChoice)
	}
	return len(h) - 1, nil
}

// Interactive lets a human choose discards for one seat. The engine blocks
// in Choose until Submit delivers a valid index; other seats are delegated
// to the fallback policy.
type Interactive struct {
	seat     core.Seat
	fallback Policy
	requests chan int

	mu      sync.Mutex
	pending int // hand size awaiting a choice, 0 when not waiting
}

// NewInteractive creates an interactive policy for seat. A nil fallback
// means LastTile.
func NewInteractive(seat core.Seat, fallback Policy) *Interactive {
	if fallback == nil {
		fallback = LastTile{}
	}
	return &Interactive{
		seat:     seat,
		fallback: fallback,
		requests: make(chan int, 1),
	}
}

// Seat returns the human-controlled seat.
func (p *Interactive) Seat() core.Seat {
	return p.seat
}

// Choose implements Policy.
func (p *Interactive) Choose(ctx context.Context, h []tiles.Tile, seat core.Seat) (int, error) {
	if seat != p.seat {
		return p.fallback.Choose(ctx, h, seat)
	}

	p.mu.Lock()
	select {
	case <-p.requests: // stale choice from an abandoned wait
	default:
	}
	p.pending = len(h)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.pending = 0
		p.mu.Unlock()
	}()

	select {
	case idx := <-p.requests:
		return idx, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Submit offers a discard choice. It is accepted only while the engine is
// waiting on this seat with a drawn tile in hand and the index is in range;
// otherwise it is rejected and nothing changes. At most one choice is
// accepted per turn.
func (p *Interactive) Submit(req core.DiscardRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if req.Seat != p.seat || p.pending == 0 {
		return ErrNotYourTurn
	}
	if p.pending != hand.DealSize+1 {
		return ErrHandNotReady
	}
	if req.Index < 0 || req.Index >= p.pending {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, req.Index, p.pending)
	}

	p.pending = 0
	p.requests <- req.Index
	return nil
}

// Waiting reports whether the engine is blocked on the human seat.
func (p *Interactive) Waiting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != 0
}
