// Package tui provides the Bubble Tea renderer for mahjong rounds. The
// renderer drives the program: it polls the snapshot feed on every tick,
// forwards human discards to the engine, and supervises the engine
// goroutine's lifetime.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to poll the snapshot feed.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
