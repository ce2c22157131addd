package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/round"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

var flagWatchHands bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a round headless and log every snapshot",
	Long: `Run a round without the TUI. A consumer polls the snapshot channel
at the --fps rate, like the renderer does, and logs each snapshot.

With --hands every hand and river is logged at debug level after each
half-turn.

Examples:
  mahjong watch
  mahjong watch --seed 42 --speed instant
  mahjong watch --wall-limit 8 --hands --debug`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&flagWatchHands, "hands", false, "Log every hand and river after each half-turn")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, rc, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rc.Mode = core.ModeDebug // nobody is at the keyboard

	logger, closeLog, err := newLogger(cfg.Log, "mahjong", false)
	if err != nil {
		return err
	}
	defer closeLog()
	if flagWatchHands && logger.GetLevel() > log.DebugLevel {
		logger.SetLevel(log.DebugLevel)
	}

	store := openStore(cfg.Storage.Path, logger)
	if store != nil {
		defer store.Close()
	}

	r, err := round.New(round.Options{
		Runtime: rc,
		Logger:  logger.WithPrefix("engine"),
		Saver:   round.StoreSaver(store),
		Source:  "watch",
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := logger.WithPrefix("feed")
	logTable(consumer, r.Initial())
	r.Start(ctx)

	interval := time.Second / time.Duration(max(rc.TickRate, 1))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	feed := r.Feed()
	for !feed.Drained() {
		<-ticker.C
		for {
			snap, ok := feed.TryReceive()
			if !ok {
				break
			}
			logSnapshot(consumer, snap)
		}
	}

	// Errors return through the deferred log and store closes.
	res, err := r.Wait()
	if err != nil {
		return fmt.Errorf("round %s: %w", r.ID, err)
	}
	fmt.Printf("Round %s: %s after %d draws, %d half-turns, %d snapshots (seed %d)\n",
		r.ID, res.Reason, res.Draws, res.HalfTurns(), res.Snapshots, r.Seed())
	return nil
}

func logSnapshot(logger *log.Logger, snap core.Snapshot) {
	switch snap.Phase {
	case core.PhaseDrawn:
		logger.Info("drew",
			"seq", snap.Seq,
			"seat", snap.Seat.Wind(),
			"tile", snap.Drawn.Code(),
			"wall", snap.LiveWall,
		)
	case core.PhaseDiscarded:
		logger.Info("discarded",
			"seq", snap.Seq,
			"seat", snap.Seat.Wind(),
			"tile", snap.Discarded.Code(),
		)
	case core.PhaseEnded:
		logger.Info("round over", "seq", snap.Seq, "reason", snap.Reason)
	}

	if n := snap.TileCount(); n != tiles.TotalTiles {
		logger.Error("snapshot does not account for every tile", "seq", snap.Seq, "tiles", n)
	}
	logTable(logger, snap)
}

// logTable writes every hand and river at debug level.
func logTable(logger *log.Logger, snap core.Snapshot) {
	if logger.GetLevel() > log.DebugLevel {
		return
	}
	logger.Debug("table", "seq", snap.Seq, "indicator", snap.Indicator.Code(), "wall", snap.LiveWall)
	for seat := core.Seat(0); seat < core.NumSeats; seat++ {
		logger.Debug(seat.Glyph(),
			"hand", strings.Join(tiles.Codes(snap.Hands[seat]), " "),
			"river", strings.Join(tiles.Codes(snap.Discards[seat]), " "),
		)
	}
}
