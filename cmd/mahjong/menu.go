package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mahjong/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with an interactive menu",
	Long: `Start in interactive menu mode.

Pick "Watch a round" to spectate with every hand face up, "Play" to take
your seat, or "Round history" to browse finished rounds. Leaving a round
with Esc returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Esc/B        - Back to menu
  Q            - Quit

Examples:
  mahjong menu
  mahjong menu --seat 1 --speed fast`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	cfg, rc, err := loadSettings(cmd)
	exitOnError(err)

	logger, closeLog, err := newLogger(cfg.Log, "mahjong", true)
	exitOnError(err)
	defer closeLog()

	store := openStore(cfg.Storage.Path, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tui.RunSession(ctx, tui.SessionOptions{
		Store:    store,
		Config:   rc,
		Glyphs:   cfg.Display.Glyphs,
		Username: "local",
		Logger:   logger,
	})
	exitOnError(err)
}
