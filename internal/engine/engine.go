// Package engine drives one round: draw, decide, discard, advance seat.
//
// The engine is the sole owner of the wall and the hand store. Run executes
// on one goroutine and publishes deep-copied snapshots through a bounded
// feed.Channel; consumers never touch live state. A full channel blocks the
// engine (backpressure), and a fixed pacing delay follows every snapshot so
// rounds play out at a watchable speed.
package engine

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/feed"
	"github.com/vovakirdan/tui-mahjong/internal/hand"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

// Config holds the explicit settings of an engine. There is no global mode.
type Config struct {
	// Pacing is the delay after every emitted snapshot. Zero disables it.
	Pacing time.Duration

	// Policy chooses discards. Nil means LastTile.
	Policy Policy

	// WallLimit caps the live wall right after the deal. Zero means no cap.
	WallLimit int

	// Logger receives the transition trace at debug level. Nil disables it.
	Logger *log.Logger
}

// Engine is the turn state machine for one round.
type Engine struct {
	set    *tiles.TileSet
	hands  *hand.Store
	cfg    Config
	logger *log.Logger

	state    State
	seq      uint64
	draws    int
	discards int
	emitted  atomic.Uint64
}

// New creates an engine over a freshly built tile set.
func New(set *tiles.TileSet, cfg Config) *Engine {
	if cfg.Policy == nil {
		cfg.Policy = LastTile{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Engine{
		set:    set,
		hands:  hand.NewStore(),
		cfg:    cfg,
		logger: logger,
		state:  State{Kind: StateUndealt},
	}
}

// Deal gives every seat 13 tiles and moves the engine to AwaitingDraw(0).
// It succeeds only once, at round start.
func (e *Engine) Deal() error {
	if e.state.Kind == StateRoundEnded {
		return ErrRoundOver
	}
	if err := e.hands.Deal(e.set); err != nil {
		return err
	}
	if e.cfg.WallLimit > 0 {
		e.set.Truncate(e.cfg.WallLimit)
	}

	e.state = State{Kind: StateAwaitingDraw, Seat: core.SeatEast}
	e.logger.Debug("dealt",
		"wall", e.set.Remaining(),
		"indicator", e.set.Indicator().Code(),
		"seed", e.set.Seed(),
	)
	return e.checkInvariants()
}

// State returns the current state. Call it only from the goroutine running
// the engine, or after Run has returned.
func (e *Engine) State() State {
	return e.state
}

// Emitted returns the number of snapshots delivered so far. Safe for
// concurrent use.
func (e *Engine) Emitted() uint64 {
	return e.emitted.Load()
}

// Snapshot returns a deep copy of the current table without emitting it.
// Like State, it must not race with Run.
func (e *Engine) Snapshot() core.Snapshot {
	phase := core.PhaseDealt
	switch e.state.Kind {
	case StateAwaitingDiscard:
		phase = core.PhaseDrawn
	case StateRoundEnded:
		phase = core.PhaseEnded
	}
	return e.capture(phase, e.seq)
}

// Run drives the round until the wall is exhausted or ctx is cancelled,
// publishing snapshots to out. It closes out on return. Cancellation and
// exhaustion are normal endings reported in Result; the returned error is
// non-nil only for fatal conditions such as invariant violations.
func (e *Engine) Run(ctx context.Context, out *feed.Channel) (Result, error) {
	defer out.Close()

	switch e.state.Kind {
	case StateUndealt:
		return e.result(), ErrNotDealt
	case StateRoundEnded:
		return e.result(), ErrRoundOver
	}

	if err := e.checkInvariants(); err != nil {
		return e.abort(err)
	}

	for {
		// A delivered terminal snapshot settles the reason; a late
		// cancellation must not rewrite it.
		if e.state.Kind == StateRoundEnded {
			return e.result(), nil
		}
		if ctx.Err() != nil {
			return e.end(core.EndReasonCancelled), nil
		}

		var err error
		switch e.state.Kind {
		case StateAwaitingDraw:
			err = e.drawStep(ctx, out)
		case StateAwaitingDiscard:
			err = e.discardStep(ctx, out)
		}

		if err != nil {
			if ctx.Err() != nil {
				if e.state.Kind == StateRoundEnded {
					return e.result(), nil // exhausted; terminal snapshot not delivered
				}
				return e.end(core.EndReasonCancelled), nil
			}
			return e.abort(err)
		}
	}
}

// drawStep performs AwaitingDraw -> AwaitingDiscard, or ends the round when
// the wall is empty.
func (e *Engine) drawStep(ctx context.Context, out *feed.Channel) error {
	seat := e.state.Seat

	t, ok := e.set.Draw()
	if !ok {
		e.end(core.EndReasonWallExhausted)
		e.logger.Debug("round ended", "reason", core.EndReasonWallExhausted, "draws", e.draws)
		return e.emit(ctx, out, e.capture(core.PhaseEnded, e.nextSeq()))
	}

	e.hands.Sort(seat)
	if err := e.hands.AppendToHand(seat, t); err != nil {
		return err
	}
	e.draws++
	e.state = State{Kind: StateAwaitingDiscard, Seat: seat}

	e.logger.Debug("drew",
		"seat", int(seat),
		"wind", seat.Wind(),
		"tile", t.Code(),
		"wall", e.set.Remaining(),
	)

	if err := e.checkInvariants(); err != nil {
		return err
	}

	snap := e.capture(core.PhaseDrawn, e.nextSeq())
	snap.Drawn = &t
	return e.emit(ctx, out, snap)
}

// discardStep performs AwaitingDiscard -> AwaitingDraw(next).
func (e *Engine) discardStep(ctx context.Context, out *feed.Channel) error {
	seat := e.state.Seat

	current := e.hands.Hand(seat)
	idx, err := e.cfg.Policy.Choose(ctx, current, seat)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(current) {
		return fmt.Errorf("%w: %d for a %d-tile hand", ErrInvalidChoice, idx, len(current))
	}

	t, err := e.hands.RemoveFromHand(seat, idx)
	if err != nil {
		return err
	}
	if err := e.hands.AppendToDiscard(seat, t); err != nil {
		return err
	}
	e.hands.Sort(seat)
	e.discards++
	e.state = State{Kind: StateAwaitingDraw, Seat: seat.Next()}

	e.logger.Debug("discarded",
		"seat", int(seat),
		"wind", seat.Wind(),
		"tile", t.Code(),
		"index", idx,
	)

	if err := e.checkInvariants(); err != nil {
		return err
	}

	snap := e.capture(core.PhaseDiscarded, e.nextSeq())
	snap.Seat = seat
	snap.Discarded = &t
	return e.emit(ctx, out, snap)
}

// emit sends a snapshot and then waits out the pacing delay.
func (e *Engine) emit(ctx context.Context, out *feed.Channel, snap core.Snapshot) error {
	if err := out.Send(ctx, snap); err != nil {
		return err
	}
	e.emitted.Add(1)

	if e.cfg.Pacing <= 0 {
		return nil
	}
	timer := time.NewTimer(e.cfg.Pacing)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// capture deep-copies the table into a snapshot.
func (e *Engine) capture(phase core.Phase, seq uint64) core.Snapshot {
	snap := core.Snapshot{
		Seq:       seq,
		Seat:      e.state.Seat,
		Phase:     phase,
		LiveWall:  e.set.Remaining(),
		DeadWall:  e.set.DeadCount(),
		Withheld:  e.set.WithheldCount(),
		Indicator: e.set.Indicator(),
		Reason:    e.state.Reason,
	}
	e.hands.CopyInto(&snap)
	return snap
}

func (e *Engine) nextSeq() uint64 {
	e.seq++
	return e.seq
}

// end moves to the terminal state and returns the round summary. The first
// reason recorded wins.
func (e *Engine) end(reason core.EndReason) Result {
	if e.state.Kind != StateRoundEnded {
		e.state = State{Kind: StateRoundEnded, Seat: e.state.Seat, Reason: reason}
	}
	return e.result()
}

// abort ends the round on a fatal error, overriding any earlier reason.
func (e *Engine) abort(err error) (Result, error) {
	e.logger.Error("round aborted", "err", err)
	e.state = State{Kind: StateRoundEnded, Seat: e.state.Seat, Reason: core.EndReasonAborted}
	return e.result(), err
}

func (e *Engine) result() Result {
	return Result{
		Reason:    e.state.Reason,
		Draws:     e.draws,
		Discards:  e.discards,
		Snapshots: e.emitted.Load(),
		LastSeat:  e.state.Seat,
	}
}
