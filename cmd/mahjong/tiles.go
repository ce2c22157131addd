package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Print tile codes and glyphs",
	Long: `Shows every tile code with its face. Codes are rank then suit letter:
m (man), p (pin), s (sou), z (honors: 1-4 winds, 5-7 dragons).
Rank 0 is the red five.`,
	Args: cobra.NoArgs,
	Run:  runTiles,
}

func runTiles(_ *cobra.Command, _ []string) {
	suit := ""
	for _, code := range tiles.AllCodes() {
		if s := code[1:]; s != suit {
			if suit != "" {
				fmt.Println()
			}
			suit = s
		}
		fmt.Printf("%s %s  ", code, tiles.Glyph(code))
	}
	fmt.Println()
	fmt.Printf("back %s\n", tiles.Glyph(tiles.BackCode))
}
