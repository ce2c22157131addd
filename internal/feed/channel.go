// Package feed provides the bounded, FIFO hand-off of snapshots from the
// turn engine to its consumers.
//
// The producer blocks when the channel is full; a stalled consumer therefore
// throttles the engine instead of losing state. Consumers poll with
// TryReceive once per refresh tick, or block with Receive.
package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/vovakirdan/tui-mahjong/internal/core"
)

// DefaultCapacity is the channel size used when none is configured.
const DefaultCapacity = 10

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("feed: channel closed")

// Channel is a bounded snapshot queue with a single producer and any number
// of competing consumers. Each snapshot is delivered to exactly one consumer,
// in the order it was sent.
type Channel struct {
	ch   chan core.Snapshot
	done chan struct{}

	mu        sync.RWMutex // guards closed against concurrent Send/Close
	closed    bool
	closeOnce sync.Once
}

// New creates a channel holding at most capacity snapshots.
// Non-positive capacities fall back to DefaultCapacity.
func New(capacity int) *Channel {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel{
		ch:   make(chan core.Snapshot, capacity),
		done: make(chan struct{}),
	}
}

// Send enqueues a snapshot, blocking while the channel is full.
// It returns ctx.Err() if ctx is cancelled first, ErrClosed after Close.
func (c *Channel) Send(ctx context.Context, snap core.Snapshot) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}

	select {
	case c.ch <- snap:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// TryReceive returns the oldest queued snapshot without blocking.
// The second result is false when nothing is queued; that is a normal poll
// result, not an error.
func (c *Channel) TryReceive() (core.Snapshot, bool) {
	select {
	case snap, ok := <-c.ch:
		return snap, ok
	default:
		return core.Snapshot{}, false
	}
}

// Receive blocks until a snapshot arrives, the channel is closed and
// drained, or ctx is cancelled. The second result is false in the latter
// two cases.
func (c *Channel) Receive(ctx context.Context) (core.Snapshot, bool) {
	select {
	case snap, ok := <-c.ch:
		return snap, ok
	case <-ctx.Done():
		return core.Snapshot{}, false
	}
}

// Close marks the end of the stream. Queued snapshots stay readable.
// Close is idempotent.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done) // wake a blocked Send before taking the write lock
		c.mu.Lock()
		c.closed = true
		close(c.ch)
		c.mu.Unlock()
	})
}

// Done returns a channel that is closed when Close is called.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Drained reports whether the channel is closed and has nothing queued.
func (c *Channel) Drained() bool {
	select {
	case <-c.done:
		return len(c.ch) == 0
	default:
		return false
	}
}

// Len returns the number of queued snapshots.
func (c *Channel) Len() int {
	return len(c.ch)
}

// Cap returns the channel capacity.
func (c *Channel) Cap() int {
	return cap(c.ch)
}
