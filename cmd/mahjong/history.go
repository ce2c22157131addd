package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-mahjong/internal/platform/tui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse round history",
	Long: `Open the round history as an interactive table with aggregate stats.

Controls:
  Up/Down/j/k  - Scroll
  R            - Reload
  Q/Esc        - Quit`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func runHistory(cmd *cobra.Command, _ []string) {
	store := mustOpenStore(cmd)
	defer store.Close()

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	_, err := tui.RunHistory(store, width, height)
	exitOnError(err)
}
