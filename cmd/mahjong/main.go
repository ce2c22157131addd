// mahjong deals four-seat mahjong rounds and plays them out in the terminal.
//
// Usage:
//
//	mahjong play             - Watch or play a round in the TUI
//	mahjong menu             - Start menu to pick watch, play or history
//	mahjong watch            - Run a round headless and log every snapshot
//	mahjong serve            - Start SSH server for remote rounds
//	mahjong rounds [id]      - Print round history
//	mahjong history          - Browse round history interactively
//	mahjong policies         - List discard policies
//	mahjong tiles            - Print the tile code and glyph table
//
// Global flags:
//
//	--config <path>   - Config file (default search: ~/.mahjong/configs, ./configs)
//	--seed <value>    - Shuffle seed for reproducible rounds
//	--pacing <dur>    - Delay after every snapshot (default: 1s)
//	--db <path>       - Round history database (default: ~/.mahjong/rounds.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import policies to register them
	_ "github.com/vovakirdan/tui-mahjong/internal/policies"
)

var (
	// Global flags
	flagConfig    string
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagPacing    string
	flagSpeed     string
	flagCapacity  int
	flagPolicy    string
	flagMode      string
	flagSeat      int
	flagRedFives  bool
	flagWallLimit int
	flagGlyphs    bool
	flagDebug     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mahjong",
	Short: "Terminal mahjong - four seats, one wall",
	Long: `mahjong deals a four-seat round and plays it out draw by discard.

The turn engine runs on its own goroutine and streams snapshots of the
table to the renderer through a small bounded channel; the renderer
never reads engine state directly.

Available commands:
  play      - Watch (debug mode) or play (play mode) a round
  menu      - Interactive start menu
  watch     - Headless round with snapshot logging
  serve     - Start SSH server for remote rounds
  rounds    - Print round history
  history   - Browse round history
  policies  - List discard policies
  tiles     - Print tile codes and glyphs

Examples:
  mahjong play
  mahjong play --mode play --seat 0
  mahjong watch --seed 42 --speed instant
  mahjong serve --ssh :2222
  mahjong rounds`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config YAML")
	pf.IntVar(&flagFPS, "fps", 60, "Renderer poll rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "Shuffle seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.mahjong/rounds.db", "Path to round history database")
	pf.StringVar(&flagPacing, "pacing", "1s", "Delay after every snapshot")
	pf.StringVar(&flagSpeed, "speed", "", "Pacing preset: slow, normal, fast, instant")
	pf.IntVar(&flagCapacity, "capacity", 10, "Snapshot channel capacity")
	pf.StringVar(&flagPolicy, "policy", "last", "Discard policy for computer seats")
	pf.StringVar(&flagMode, "mode", "debug", "debug (all hands face up) or play (human seat)")
	pf.IntVar(&flagSeat, "seat", 0, "Human seat in play mode (0=East .. 3=North)")
	pf.BoolVar(&flagRedFives, "red-fives", false, "Mark one copy of each numbered 5 as red")
	pf.IntVar(&flagWallLimit, "wall-limit", 0, "Cap the live wall after the deal (0 = full wall)")
	pf.BoolVar(&flagGlyphs, "glyphs", true, "Draw Unicode tile faces instead of codes")
	pf.BoolVar(&flagDebug, "debug", false, "Log the engine trace at debug level")

	// main prints the error once; commands returning errors set SilenceUsage.
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(tilesCmd)
}
