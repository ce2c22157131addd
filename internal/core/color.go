package core

import "github.com/vovakirdan/tui-mahjong/internal/tiles"

// Color represents a foreground color for a tile face.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for table elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorWhite
	ColorBrightRed
	ColorGray
	ColorGold
)

// TileColor returns the face color for a tile: suits get their own hue and
// red fives stand out.
func TileColor(t tiles.Tile) Color {
	if t.Red {
		return ColorBrightRed
	}
	switch t.Suit {
	case tiles.SuitMan:
		return ColorRed
	case tiles.SuitPin:
		return ColorBlue
	case tiles.SuitSou:
		return ColorGreen
	case tiles.SuitHonor:
		if t.Rank >= 5 { // dragons
			return ColorGold
		}
		return ColorWhite
	}
	return ColorDefault
}
