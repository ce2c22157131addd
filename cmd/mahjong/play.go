package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/platform/tui"
	"github.com/vovakirdan/tui-mahjong/internal/round"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Watch or play a round",
	Long: `Deal a round and play it out in the terminal.

In debug mode (the default) every hand is face up and all four seats
use the discard policy. In play mode only your seat is face up and the
engine waits for you to choose each discard.

Controls:
  Left/Right/h/l  - Move the cursor over your hand
  Enter/Space     - Discard the tile under the cursor
  Mouse click     - Discard the clicked tile
  ?               - Toggle full help
  Q/Ctrl+C        - Stop the round and quit

Examples:
  mahjong play
  mahjong play --mode play
  mahjong play --mode play --seat 2 --speed fast
  mahjong play --seed 42 --red-fives`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, rc, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log, "mahjong", true)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(cfg.Storage.Path, logger)
	if store != nil {
		defer store.Close()
	}

	r, err := round.New(round.Options{
		Runtime: rc,
		Logger:  logger,
		Saver:   round.StoreSaver(store),
		Source:  "local",
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := tui.Run(ctx, r, cfg.Display.Glyphs)
	if err != nil {
		return fmt.Errorf("running round: %w", err)
	}

	fmt.Printf("Round %s: %s after %d draws, %d half-turns (seed %d)\n",
		r.ID, res.Reason, res.Draws, res.HalfTurns(), r.Seed())
	if res.Reason == core.EndReasonAborted {
		return fmt.Errorf("round %s aborted", r.ID)
	}
	return nil
}
