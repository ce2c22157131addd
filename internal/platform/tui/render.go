package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/tiles"
)

// Board layout constants
const (
	tileCellW   = 3 // Face plus padding
	riverRowLen = 6 // Discards per river row
	handIndent  = 4 // Cells before the first tile of a hand or river row
	drawnGap    = 1 // Extra cells setting the drawn tile apart
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:   lipgloss.NewStyle(),
	core.ColorRed:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorBlue:      lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorWhite:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorGray:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorGold:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	actingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// BoardOptions controls what the board reveals and highlights.
type BoardOptions struct {
	Mode      core.Mode
	LocalSeat core.Seat
	Glyphs    bool // Unicode faces instead of codes
	Cursor    int  // Highlighted index in the local hand, -1 for none
}

// Board is a rendered table plus the hit areas of the local hand.
type Board struct {
	View     string
	HandHits []core.Rect // One per local hand tile, in board coordinates
}

// RenderBoard draws a snapshot. Hands other than the local seat's are face
// down in play mode.
func RenderBoard(snap core.Snapshot, opts BoardOptions) Board {
	var lines []string
	var hits []core.Rect

	lines = append(lines, headerStyle.Render(headerLine(snap, opts)), "")

	for seat := core.Seat(0); seat < core.NumSeats; seat++ {
		hand := snap.Hands[seat]
		local := opts.Mode == core.ModePlay && seat == opts.LocalSeat
		reveal := opts.Mode.RevealsAll() || local
		drawnApart := seat == snap.Seat && snap.Phase == core.PhaseDrawn && len(hand) > 0

		lines = append(lines, seatLabel(snap, seat, local))

		cursor := -1
		if local {
			cursor = opts.Cursor
			hits = handHits(len(lines), len(hand), drawnApart)
		}
		lines = append(lines, renderHand(hand, reveal, drawnApart, cursor, opts.Glyphs))

		lines = append(lines, renderRiver(snap, seat, opts.Glyphs)...)
		lines = append(lines, "")
	}

	return Board{View: strings.Join(lines, "\n"), HandHits: hits}
}

func headerLine(snap core.Snapshot, opts BoardOptions) string {
	indicator := faceText(snap.Indicator, opts.Glyphs)
	line := fmt.Sprintf("MAHJONG  #%d  wall %d  dead %d  dora indicator %s",
		snap.Seq, snap.LiveWall, snap.DeadWall, indicator)
	if snap.Withheld > 0 {
		line += fmt.Sprintf("  withheld %d", snap.Withheld)
	}
	return line
}

func seatLabel(snap core.Snapshot, seat core.Seat, local bool) string {
	marker := "  "
	style := labelStyle
	if seat == snap.Seat && !snap.Ended() && snap.Phase != core.PhaseDealt {
		marker = "> "
		style = actingStyle
	}

	label := fmt.Sprintf("%s%s %-5s  hand %2d  river %2d",
		marker, seat.Glyph(), seat.Wind(), len(snap.Hands[seat]), len(snap.Discards[seat]))
	if local {
		label += "  (you)"
	}
	return style.Render(label)
}

// handHits returns the click areas for a hand drawn on line y.
func handHits(y, n int, drawnApart bool) []core.Rect {
	if n == 0 {
		return nil
	}
	if !drawnApart {
		return core.LayoutRow(handIndent, y, n, tileCellW, 1, 0)
	}
	hits := core.LayoutRow(handIndent, y, n-1, tileCellW, 1, 0)
	x := handIndent + (n-1)*tileCellW + drawnGap
	return append(hits, core.NewRect(x, y, tileCellW, 1))
}

func renderHand(hand []tiles.Tile, reveal, drawnApart bool, cursor int, glyphs bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", handIndent))

	for i, t := range hand {
		if drawnApart && i == len(hand)-1 {
			b.WriteString(strings.Repeat(" ", drawnGap))
		}
		if !reveal {
			b.WriteString(backCell(glyphs))
			continue
		}
		style := tileStyle(t)
		if i == cursor {
			style = style.Reverse(true)
		}
		b.WriteString(style.Width(tileCellW).Render(faceText(t, glyphs)))
	}
	return b.String()
}

// renderRiver lays a seat's discards out in rows of six. The most recent
// discard is underlined.
func renderRiver(snap core.Snapshot, seat core.Seat, glyphs bool) []string {
	river := snap.Discards[seat]
	if len(river) == 0 {
		return []string{strings.Repeat(" ", handIndent) + labelStyle.Render("-")}
	}

	var lines []string
	for start := 0; start < len(river); start += riverRowLen {
		end := min(start+riverRowLen, len(river))

		var b strings.Builder
		b.WriteString(strings.Repeat(" ", handIndent))
		for i := start; i < end; i++ {
			t := river[i]
			style := tileStyle(t)
			if snap.Discarded != nil && snap.Seat == seat && i == len(river)-1 {
				style = style.Underline(true)
			}
			b.WriteString(style.Width(tileCellW).Render(faceText(t, glyphs)))
		}
		lines = append(lines, b.String())
	}
	return lines
}

// tileStyle returns the face style for a tile.
func tileStyle(t tiles.Tile) lipgloss.Style {
	style, ok := colorStyles[core.TileColor(t)]
	if !ok {
		style = colorStyles[core.ColorDefault]
	}
	return style
}

// faceText returns the glyph or the code for a face-up tile.
func faceText(t tiles.Tile, glyphs bool) string {
	if glyphs {
		return tiles.Glyph(t.Code())
	}
	return t.Code()
}

func backCell(glyphs bool) string {
	face := "##"
	if glyphs {
		face = tiles.Glyph(tiles.BackCode)
	}
	return colorStyles[core.ColorGray].Width(tileCellW).Render(face)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
