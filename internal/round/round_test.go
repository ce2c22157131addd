package round

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/storage"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"

	_ "github.com/vovakirdan/tui-mahjong/internal/policies"
)

type memSaver struct {
	mu      sync.Mutex
	records []storage.RoundRecord
}

func (m *memSaver) SaveRound(r storage.RoundRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return int64(len(m.records)), nil
}

func testRuntime() core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.Seed = 1234
	rc.Pacing = 0
	rc.Capacity = 64
	rc.WallLimit = 6
	return rc
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	rc := testRuntime()
	rc.Policy = "telepathy"
	if _, err := New(Options{Runtime: rc}); err == nil {
		t.Error("New() with unknown policy should fail")
	}
}

func TestRoundPlaysAndSaves(t *testing.T) {
	saver := &memSaver{}
	r, err := New(Options{Runtime: testRuntime(), Saver: saver, Source: "test"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	initial := r.Initial()
	if initial.Phase != core.PhaseDealt || initial.TileCount() != tiles.TotalTiles {
		t.Errorf("Initial() = %v with %d tiles", initial.Phase, initial.TileCount())
	}
	if initial.LiveWall != 6 {
		t.Errorf("Initial().LiveWall = %d, expected truncated 6", initial.LiveWall)
	}

	r.Start(context.Background())
	r.Start(context.Background()) // no-op
	res, err := r.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if res.Reason != core.EndReasonWallExhausted || res.Draws != 6 {
		t.Errorf("result = %+v, expected 6 draws to exhaustion", res)
	}

	if len(saver.records) != 1 {
		t.Fatalf("saved %d records, expected 1", len(saver.records))
	}
	rec := saver.records[0]
	if rec.RoundID != r.ID || rec.Seed != 1234 || rec.Source != "test" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Reason != "wall exhausted" || rec.Indicator != initial.Indicator.Code() {
		t.Errorf("record reason/indicator = %q/%q", rec.Reason, rec.Indicator)
	}

	var last core.Snapshot
	for {
		snap, ok := r.Feed().TryReceive()
		if !ok {
			break
		}
		last = snap
	}
	if !last.Ended() {
		t.Error("feed should end with the terminal snapshot")
	}
}

func TestStopCancelsRound(t *testing.T) {
	rc := testRuntime()
	rc.WallLimit = 0
	rc.Pacing = time.Hour

	r, err := New(Options{Runtime: rc})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	r.Start(context.Background())
	r.Stop()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("round did not stop")
	}
	res, err := r.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if res.Reason != core.EndReasonCancelled {
		t.Errorf("Reason = %v, expected cancelled", res.Reason)
	}
}

func TestSubmitSpectating(t *testing.T) {
	r, err := New(Options{Runtime: testRuntime()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if r.Human() != nil {
		t.Error("debug mode should have no human seat")
	}
	if err := r.Submit(0); !errors.Is(err, ErrSpectating) {
		t.Errorf("Submit() error = %v, expected ErrSpectating", err)
	}
}

func TestPlayModeHumanSeat(t *testing.T) {
	rc := testRuntime()
	rc.Mode = core.ModePlay
	rc.LocalSeat = core.SeatEast

	r, err := New(Options{Runtime: rc})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if r.Human() == nil || r.Human().Seat() != core.SeatEast {
		t.Fatal("play mode should install an interactive East seat")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for !r.Human().Waiting() {
		if time.Now().After(deadline) {
			t.Fatal("engine never waited on the human seat")
		}
		time.Sleep(time.Millisecond)
	}
	if err := r.Submit(0); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	// Six draws: East again on the fifth.
	for !r.Human().Waiting() {
		select {
		case <-r.Done():
			t.Fatal("round ended before East's second turn")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if err := r.Submit(13); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	res, err := r.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if res.Reason != core.EndReasonWallExhausted {
		t.Errorf("Reason = %v, expected wall exhausted", res.Reason)
	}
}

func TestStoreSaverNil(t *testing.T) {
	if s := StoreSaver(nil); s != nil {
		t.Errorf("StoreSaver(nil) = %v, expected a nil interface", s)
	}
}

func TestStopBeforeStart(t *testing.T) {
	r, err := New(Options{Runtime: testRuntime()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := r.Wait(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Wait() before Start error = %v, expected ErrNotStarted", err)
	}

	r.Stop()
	r.Start(context.Background())

	res, err := r.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if res.Reason != core.EndReasonCancelled {
		t.Errorf("Reason = %v, expected cancelled", res.Reason)
	}
	if res.Draws != 0 {
		t.Errorf("stopped round drew %d tiles", res.Draws)
	}
}

func TestConcurrentStop(t *testing.T) {
	rc := testRuntime()
	rc.WallLimit = 0
	rc.Pacing = time.Hour

	r, err := New(Options{Runtime: rc})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.Start(context.Background())
	}()
	go func() {
		defer wg.Done()
		r.Stop()
	}()
	wg.Wait()

	res, err := r.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if res.Reason != core.EndReasonCancelled {
		t.Errorf("Reason = %v, expected cancelled", res.Reason)
	}
}
