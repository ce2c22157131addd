package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/feed"
	"github.com/vovakirdan/tui-mahjong/internal/hand"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

// liveAfterDeal is the live wall size after a full deal.
const liveAfterDeal = tiles.TotalTiles - tiles.DeadWallSize - hand.DealSize*core.NumSeats

func newDealt(t *testing.T, seed int64, cfg Config) *Engine {
	t.Helper()
	e := New(tiles.NewShuffled(seed), cfg)
	if err := e.Deal(); err != nil {
		t.Fatalf("Deal() failed: %v", err)
	}
	return e
}

func drain(c *feed.Channel) []core.Snapshot {
	var out []core.Snapshot
	for {
		snap, ok := c.TryReceive()
		if !ok {
			return out
		}
		out = append(out, snap)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDealScenario(t *testing.T) {
	set := tiles.NewShuffled(20240101)
	dead := set.DeadWall()

	e := New(set, Config{})
	if err := e.Deal(); err != nil {
		t.Fatalf("Deal() failed: %v", err)
	}

	snap := e.Snapshot()
	for seat := 0; seat < core.NumSeats; seat++ {
		if len(snap.Hands[seat]) != hand.DealSize {
			t.Errorf("seat %d has %d tiles, expected %d", seat, len(snap.Hands[seat]), hand.DealSize)
		}
		if !tiles.IsSorted(snap.Hands[seat]) {
			t.Errorf("seat %d hand not sorted: %v", seat, tiles.Codes(snap.Hands[seat]))
		}
	}
	if snap.DeadWall != tiles.DeadWallSize {
		t.Errorf("DeadWall = %d, expected %d", snap.DeadWall, tiles.DeadWallSize)
	}
	if snap.Indicator != dead[tiles.IndicatorOffset] {
		t.Errorf("Indicator = %v, expected %v", snap.Indicator, dead[tiles.IndicatorOffset])
	}
	if snap.LiveWall != liveAfterDeal {
		t.Errorf("LiveWall = %d, expected %d", snap.LiveWall, liveAfterDeal)
	}
	if snap.TileCount() != tiles.TotalTiles {
		t.Errorf("TileCount() = %d, expected %d", snap.TileCount(), tiles.TotalTiles)
	}
	if st := e.State(); st.Kind != StateAwaitingDraw || st.Seat != core.SeatEast {
		t.Errorf("State() = %v, expected AwaitingDraw(0)", st)
	}
}

func TestDealOnlyOnce(t *testing.T) {
	e := newDealt(t, 1, Config{})
	if err := e.Deal(); !errors.Is(err, hand.ErrAlreadyDealt) {
		t.Errorf("second Deal() error = %v, expected ErrAlreadyDealt", err)
	}
}

func TestRunBeforeDeal(t *testing.T) {
	e := New(tiles.NewShuffled(1), Config{})
	out := feed.New(4)

	if _, err := e.Run(context.Background(), out); !errors.Is(err, ErrNotDealt) {
		t.Errorf("Run() error = %v, expected ErrNotDealt", err)
	}
	if !out.Drained() {
		t.Error("Run() should close the channel on return")
	}
}

func TestFullRoundProperties(t *testing.T) {
	e := newDealt(t, 777, Config{})
	out := feed.New(2*liveAfterDeal + 1)

	res, err := e.Run(context.Background(), out)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.Reason != core.EndReasonWallExhausted {
		t.Errorf("Reason = %v, expected wall exhausted", res.Reason)
	}
	if res.Draws != liveAfterDeal || res.Discards != liveAfterDeal {
		t.Errorf("Draws/Discards = %d/%d, expected %d each", res.Draws, res.Discards, liveAfterDeal)
	}

	snaps := drain(out)
	if len(snaps) != 2*liveAfterDeal+1 {
		t.Fatalf("got %d snapshots, expected %d", len(snaps), 2*liveAfterDeal+1)
	}
	if uint64(len(snaps)) != res.Snapshots {
		t.Errorf("Result.Snapshots = %d, received %d", res.Snapshots, len(snaps))
	}

	prevWall := liveAfterDeal + 1
	expectSeat := core.SeatEast
	for i, snap := range snaps {
		if snap.Seq != uint64(i+1) {
			t.Fatalf("snapshot %d has Seq %d", i, snap.Seq)
		}
		if snap.TileCount() != tiles.TotalTiles {
			t.Fatalf("snapshot %d accounts for %d tiles", i, snap.TileCount())
		}
		if snap.LiveWall > prevWall {
			t.Fatalf("live wall grew from %d to %d at snapshot %d", prevWall, snap.LiveWall, i)
		}
		prevWall = snap.LiveWall

		switch snap.Phase {
		case core.PhaseDrawn:
			if snap.Seat != expectSeat {
				t.Fatalf("snapshot %d: seat %v drew, expected %v", i, snap.Seat, expectSeat)
			}
			for seat := core.Seat(0); seat < core.NumSeats; seat++ {
				want := hand.DealSize
				if seat == snap.Seat {
					want++
				}
				if len(snap.Hands[seat]) != want {
					t.Fatalf("snapshot %d: seat %v holds %d tiles, expected %d", i, seat, len(snap.Hands[seat]), want)
				}
			}
			last := snap.Hands[snap.Seat][hand.DealSize]
			if snap.Drawn == nil || last != *snap.Drawn {
				t.Fatalf("snapshot %d: drawn tile should be appended last", i)
			}
		case core.PhaseDiscarded:
			if snap.Seat != expectSeat {
				t.Fatalf("snapshot %d: seat %v discarded, expected %v", i, snap.Seat, expectSeat)
			}
			for seat := 0; seat < core.NumSeats; seat++ {
				if len(snap.Hands[seat]) != hand.DealSize {
					t.Fatalf("snapshot %d: seat %d holds %d tiles after discard", i, seat, len(snap.Hands[seat]))
				}
			}
			if !tiles.IsSorted(snap.Hands[snap.Seat]) {
				t.Fatalf("snapshot %d: hand not re-sorted after discard", i)
			}
			expectSeat = expectSeat.Next()
		case core.PhaseEnded:
			if i != len(snaps)-1 {
				t.Fatalf("terminal snapshot at %d is not last", i)
			}
		}
	}

	final := snaps[len(snaps)-1]
	if !final.Ended() || final.Reason != core.EndReasonWallExhausted {
		t.Errorf("final snapshot = %v/%v, expected ended/wall exhausted", final.Phase, final.Reason)
	}
	if final.LiveWall != 0 {
		t.Errorf("final LiveWall = %d, expected 0", final.LiveWall)
	}
	if !out.Drained() {
		t.Error("channel should be closed and drained after the round")
	}
}

func TestDiscardHistoryMatchesDrawnTiles(t *testing.T) {
	// With LastTile every discard is the tile drawn that turn.
	e := newDealt(t, 31, Config{WallLimit: 12})
	out := feed.New(64)
	if _, err := e.Run(context.Background(), out); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	var drawn [core.NumSeats][]tiles.Tile
	var final core.Snapshot
	for _, snap := range drain(out) {
		if snap.Phase == core.PhaseDrawn {
			drawn[snap.Seat] = append(drawn[snap.Seat], *snap.Drawn)
		}
		final = snap
	}
	for seat := 0; seat < core.NumSeats; seat++ {
		got := final.Discards[seat]
		if len(got) != len(drawn[seat]) {
			t.Fatalf("seat %d discarded %d tiles, drew %d", seat, len(got), len(drawn[seat]))
		}
		for i := range got {
			if got[i] != drawn[seat][i] {
				t.Errorf("seat %d discard %d = %v, expected %v", seat, i, got[i], drawn[seat][i])
			}
		}
	}
}

func TestTruncatedWallEndsAfterNDraws(t *testing.T) {
	const n = 7
	e := newDealt(t, 42, Config{WallLimit: n})
	out := feed.New(2*n + 1)

	res, err := e.Run(context.Background(), out)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.Draws != n {
		t.Errorf("Draws = %d, expected %d", res.Draws, n)
	}
	if res.Reason != core.EndReasonWallExhausted {
		t.Errorf("Reason = %v, expected wall exhausted", res.Reason)
	}

	snaps := drain(out)
	if len(snaps) != 2*n+1 {
		t.Fatalf("got %d snapshots, expected %d", len(snaps), 2*n+1)
	}
	final := snaps[len(snaps)-1]
	if !final.Ended() || final.Reason != core.EndReasonWallExhausted {
		t.Errorf("final snapshot = %v/%v, expected ended/wall exhausted", final.Phase, final.Reason)
	}
	if final.TileCount() != tiles.TotalTiles {
		t.Errorf("final TileCount() = %d, expected %d", final.TileCount(), tiles.TotalTiles)
	}
	if _, ok := out.TryReceive(); ok {
		t.Error("no snapshot may follow the terminal one")
	}

	if st := e.State(); st.Kind != StateRoundEnded {
		t.Errorf("State() = %v, expected RoundEnded", st)
	}
	if _, err := e.Run(context.Background(), feed.New(1)); !errors.Is(err, ErrRoundOver) {
		t.Errorf("second Run() error = %v, expected ErrRoundOver", err)
	}
}

func TestBackpressure(t *testing.T) {
	const capacity = 3
	e := newDealt(t, 5, Config{})
	out := feed.New(capacity)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type runResult struct {
		res Result
		err error
	}
	done := make(chan runResult, 1)
	go func() {
		res, err := e.Run(ctx, out)
		done <- runResult{res, err}
	}()

	waitFor(t, "channel to fill", func() bool { return out.Len() == capacity })
	time.Sleep(50 * time.Millisecond)
	if got := e.Emitted(); got != capacity {
		t.Fatalf("Emitted() = %d with a stalled consumer, expected %d", got, capacity)
	}

	first, ok := out.TryReceive()
	if !ok || first.Seq != 1 {
		t.Fatalf("TryReceive() = %d,%v, expected 1,true", first.Seq, ok)
	}
	waitFor(t, "engine to resume", func() bool { return e.Emitted() == capacity+1 })
	time.Sleep(20 * time.Millisecond)
	if got := e.Emitted(); got != capacity+1 {
		t.Errorf("Emitted() = %d after one free slot, expected %d", got, capacity+1)
	}

	for want := uint64(2); want <= capacity+1; want++ {
		snap, ok := out.TryReceive()
		if !ok || snap.Seq != want {
			t.Errorf("TryReceive() = %d,%v, expected %d,true", snap.Seq, ok, want)
		}
	}

	cancel()
	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("Run() failed: %v", r.err)
		}
		if r.res.Reason != core.EndReasonCancelled {
			t.Errorf("Reason = %v, expected cancelled", r.res.Reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}
}

func TestCancelBeforeRun(t *testing.T) {
	e := newDealt(t, 9, Config{})
	out := feed.New(8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx, out)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.Reason != core.EndReasonCancelled {
		t.Errorf("Reason = %v, expected cancelled", res.Reason)
	}
	if out.Len() != 0 || !out.Drained() {
		t.Error("cancelled round must emit nothing and close the channel")
	}
}

func TestCancelDuringPacing(t *testing.T) {
	e := newDealt(t, 9, Config{Pacing: time.Hour})
	out := feed.New(8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)
	go func() {
		res, _ := e.Run(ctx, out)
		done <- res
	}()

	waitFor(t, "first snapshot", func() bool { return e.Emitted() == 1 })
	cancel()

	select {
	case res := <-done:
		if res.Reason != core.EndReasonCancelled {
			t.Errorf("Reason = %v, expected cancelled", res.Reason)
		}
		if res.Snapshots != 1 {
			t.Errorf("Snapshots = %d, expected 1", res.Snapshots)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pacing delay ignored cancellation")
	}
}

func TestInvariantViolationAborts(t *testing.T) {
	e := newDealt(t, 13, Config{})

	// Corrupt the store: a duplicate of a live-wall tile lands in a hand.
	extra := e.set.LiveWall()[0]
	_ = e.hands.AppendToHand(core.SeatSouth, extra)

	out := feed.New(8)
	res, err := e.Run(context.Background(), out)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("Run() error = %v, expected ErrInvariantViolation", err)
	}
	var inv *InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("error %v is not an *InvariantError", err)
	}
	if res.Reason != core.EndReasonAborted {
		t.Errorf("Reason = %v, expected aborted", res.Reason)
	}
	if out.Len() != 0 {
		t.Errorf("aborted round emitted %d snapshots", out.Len())
	}
}

func TestInvalidPolicyChoiceAborts(t *testing.T) {
	bad := PolicyFunc(func(_ context.Context, h []tiles.Tile, _ core.Seat) (int, error) {
		return len(h), nil
	})
	e := newDealt(t, 17, Config{Policy: bad})
	out := feed.New(8)

	_, err := e.Run(context.Background(), out)
	if !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("Run() error = %v, expected ErrInvalidChoice", err)
	}
	if got := out.Len(); got != 1 {
		t.Errorf("expected only the draw snapshot, got %d", got)
	}
}

// lateCancel reports cancellation once cancelled returns true. Its Done
// channel never fires, so only the loop-head check observes it.
type lateCancel struct {
	context.Context
	cancelled func() bool
}

func (c lateCancel) Err() error {
	if c.cancelled() {
		return context.Canceled
	}
	return nil
}

func TestExhaustionSurvivesLateCancel(t *testing.T) {
	const n = 2
	e := newDealt(t, 21, Config{WallLimit: n})
	out := feed.New(2*n + 1)
	ctx := lateCancel{
		Context:   context.Background(),
		cancelled: func() bool { return out.Len() >= 2*n+1 },
	}

	res, err := e.Run(ctx, out)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	snaps := drain(out)
	last := snaps[len(snaps)-1]
	if last.Phase != core.PhaseEnded || last.Reason != core.EndReasonWallExhausted {
		t.Fatalf("last snapshot = %v/%v, expected ended by exhaustion", last.Phase, last.Reason)
	}
	if res.Reason != core.EndReasonWallExhausted {
		t.Errorf("Reason = %v, expected wall exhausted", res.Reason)
	}
	if e.State().Reason != core.EndReasonWallExhausted {
		t.Errorf("State().Reason = %v, expected wall exhausted", e.State().Reason)
	}
	if res.HalfTurns() != 2*n {
		t.Errorf("HalfTurns() = %d, expected %d", res.HalfTurns(), 2*n)
	}
}

func TestInvariantChecks(t *testing.T) {
	cases := []struct {
		name    string
		corrupt func(e *Engine)
		check   string
		seat    core.Seat
	}{
		{
			name: "tile moved between hands",
			corrupt: func(e *Engine) {
				moved, _ := e.hands.RemoveFromHand(core.SeatSouth, 0)
				_ = e.hands.AppendToHand(core.SeatWest, moved)
			},
			check: "hand-size",
			seat:  core.SeatSouth,
		},
		{
			name: "hand out of order",
			corrupt: func(e *Engine) {
				first, _ := e.hands.RemoveFromHand(core.SeatSouth, 0)
				_ = e.hands.AppendToHand(core.SeatSouth, first)
			},
			check: "hand-order",
			seat:  core.SeatSouth,
		},
		{
			name: "discard without a turn",
			corrupt: func(e *Engine) {
				drawn, _ := e.set.Draw()
				_ = e.hands.AppendToHand(core.SeatSouth, drawn)
				gone, _ := e.hands.RemoveFromHand(core.SeatSouth, 0)
				_ = e.hands.AppendToDiscard(core.SeatSouth, gone)
				e.hands.Sort(core.SeatSouth)
			},
			check: "discard-count",
			seat:  core.SeatEast, // seat to act
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newDealt(t, 13, Config{})
			tc.corrupt(e)

			out := feed.New(8)
			res, err := e.Run(context.Background(), out)
			var inv *InvariantError
			if !errors.As(err, &inv) {
				t.Fatalf("Run() error = %v, expected an *InvariantError", err)
			}
			if !errors.Is(err, ErrInvariantViolation) {
				t.Errorf("error %v does not wrap ErrInvariantViolation", err)
			}
			if inv.Check != tc.check {
				t.Errorf("Check = %q, expected %q", inv.Check, tc.check)
			}
			if inv.Seat != tc.seat {
				t.Errorf("Seat = %v, expected %v", inv.Seat, tc.seat)
			}
			if res.Reason != core.EndReasonAborted {
				t.Errorf("Reason = %v, expected aborted", res.Reason)
			}
			if out.Len() != 0 {
				t.Errorf("aborted round emitted %d snapshots", out.Len())
			}
		})
	}
}
