// Package round wires one mahjong round together: tile set, engine, snapshot
// feed and discard policy. The caller (a renderer or headless consumer)
// supervises the engine goroutine through Start, Stop and Wait.
package round

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/engine"
	"github.com/vovakirdan/tui-mahjong/internal/feed"
	"github.com/vovakirdan/tui-mahjong/internal/registry"
	"github.com/vovakirdan/tui-mahjong/internal/storage"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

var (
	// ErrSpectating is returned by Submit when no seat is human-controlled.
	ErrSpectating = errors.New("round: no human seat in this round")
	// ErrNotStarted is returned by Wait before Start has been called.
	ErrNotStarted = errors.New("round: not started")
)

// Saver persists finished rounds. *storage.Store implements it.
type Saver interface {
	SaveRound(r storage.RoundRecord) (int64, error)
}

// StoreSaver returns store as a Saver, or nil when store is nil so a
// missing database never becomes a typed-nil interface.
func StoreSaver(store *storage.Store) Saver {
	if store == nil {
		return nil
	}
	return store
}

// Options configures a round.
type Options struct {
	Runtime core.RuntimeConfig
	Logger  *log.Logger // Nil disables logging
	Saver   Saver       // Nil disables history
	Source  string      // Recorded with the round, e.g. an SSH user
}

// Round is one dealt round and the goroutine that plays it.
type Round struct {
	ID string

	opts    Options
	logger  *log.Logger
	engine  *engine.Engine
	feed    *feed.Channel
	human   *engine.Interactive
	initial core.Snapshot
	seed    int64

	startOnce sync.Once
	mu        sync.Mutex // Guards cancel and stopped
	cancel    context.CancelFunc
	stopped   bool
	done      chan struct{}
	started   time.Time
	result    engine.Result
	err       error
}

// New shuffles, deals and prepares a round without starting it.
func New(opts Options) (*Round, error) {
	rc := opts.Runtime
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var tileOpts []tiles.Option
	if rc.RedFives {
		tileOpts = append(tileOpts, tiles.WithRedFives())
	}
	set := tiles.NewShuffled(rc.Seed, tileOpts...)

	policyID := rc.Policy
	if policyID == "" {
		policyID = core.DefaultConfig().Policy
	}
	policy, err := registry.Create(policyID, set.Seed())
	if err != nil {
		return nil, err
	}

	var human *engine.Interactive
	if rc.Mode == core.ModePlay {
		human = engine.NewInteractive(rc.LocalSeat, policy)
		policy = human
	}

	capacity := rc.Capacity
	if capacity <= 0 {
		capacity = feed.DefaultCapacity
	}

	eng := engine.New(set, engine.Config{
		Pacing:    rc.Pacing,
		Policy:    policy,
		WallLimit: rc.WallLimit,
		Logger:    logger,
	})
	if err := eng.Deal(); err != nil {
		return nil, err
	}

	return &Round{
		ID:      uuid.NewString(),
		opts:    opts,
		logger:  logger,
		engine:  eng,
		feed:    feed.New(capacity),
		human:   human,
		initial: eng.Snapshot(),
		seed:    set.Seed(),
		done:    make(chan struct{}),
	}, nil
}

// Start runs the engine on its own goroutine. The round stops when ctx is
// cancelled, Stop is called, or the wall runs out. Calling Start again has
// no effect.
func (r *Round) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		r.mu.Lock()
		ctx, r.cancel = context.WithCancel(ctx)
		if r.stopped {
			r.cancel()
		}
		cancel := r.cancel
		r.mu.Unlock()
		r.started = time.Now()

		r.logger.Info("round started",
			"round", r.ID,
			"seed", r.seed,
			"policy", r.opts.Runtime.Policy,
			"mode", r.opts.Runtime.Mode,
		)

		go func() {
			defer close(r.done)
			defer cancel()

			r.result, r.err = r.engine.Run(ctx, r.feed)
			if r.err != nil {
				r.logger.Error("round failed", "round", r.ID, "err", r.err)
			} else {
				r.logger.Info("round ended",
					"round", r.ID,
					"reason", r.result.Reason,
					"draws", r.result.Draws,
					"snapshots", r.result.Snapshots,
				)
			}
			r.save()
		}()
	})
}

// Stop cancels the round. It does not wait; use Wait for that. A round
// stopped before Start ends as cancelled as soon as it starts.
func (r *Round) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.cancel != nil {
		r.cancel()
	}
}

// Done is closed once the engine goroutine has returned.
func (r *Round) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the engine goroutine returns and reports its outcome.
// It returns ErrNotStarted at once if Start has not been called.
func (r *Round) Wait() (engine.Result, error) {
	r.mu.Lock()
	started := r.cancel != nil
	r.mu.Unlock()
	if !started {
		return engine.Result{}, ErrNotStarted
	}
	<-r.done
	return r.result, r.err
}

// Feed returns the snapshot channel consumers poll.
func (r *Round) Feed() *feed.Channel {
	return r.feed
}

// Initial returns the post-deal table, which the engine does not emit.
func (r *Round) Initial() core.Snapshot {
	return r.initial.Clone()
}

// Seed returns the shuffle seed actually used.
func (r *Round) Seed() int64 {
	return r.seed
}

// Runtime returns the configuration the round was built with.
func (r *Round) Runtime() core.RuntimeConfig {
	return r.opts.Runtime
}

// Human returns the interactive policy, or nil when spectating.
func (r *Round) Human() *engine.Interactive {
	return r.human
}

// Submit asks to discard the tile at index from the human seat's hand.
func (r *Round) Submit(index int) error {
	if r.human == nil {
		return ErrSpectating
	}
	return r.human.Submit(core.DiscardRequest{Seat: r.human.Seat(), Index: index})
}

// Record builds the history entry for a finished round.
func (r *Round) Record() storage.RoundRecord {
	rc := r.opts.Runtime
	return storage.RoundRecord{
		RoundID:   r.ID,
		Seed:      r.seed,
		Policy:    rc.Policy,
		Mode:      string(rc.Mode),
		Source:    r.opts.Source,
		RedFives:  rc.RedFives,
		WallLimit: rc.WallLimit,
		Draws:     r.result.Draws,
		Discards:  r.result.Discards,
		Reason:    r.result.Reason.String(),
		Indicator: r.initial.Indicator.Code(),
		Duration:  time.Since(r.started),
	}
}

func (r *Round) save() {
	if r.opts.Saver == nil {
		return
	}
	if _, err := r.opts.Saver.SaveRound(r.Record()); err != nil {
		r.logger.Warn("could not save round", "round", r.ID, "err", err)
	}
}
