package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/engine"
	"github.com/vovakirdan/tui-mahjong/internal/round"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model for one round at the table.
//
// Each tick drains the snapshot feed; the newest snapshot replaces the
// table wholesale. The model never reads engine state.
type Model struct {
	ctx    context.Context
	round  *round.Round
	config core.RuntimeConfig
	glyphs bool

	keys TableKeyMap
	help help.Model

	snap     core.Snapshot
	board    Board
	cursor   int
	status   string
	failure  string
	drained  bool
	quitting bool
	back     bool
}

// NewModel creates a table model for a dealt round. The round starts when
// the program initializes and stops when ctx is cancelled or the user quits.
func NewModel(ctx context.Context, r *round.Round, glyphs bool) Model {
	h := help.New()
	h.ShowAll = false

	m := Model{
		ctx:    ctx,
		round:  r,
		config: r.Runtime(),
		glyphs: glyphs,
		keys:   DefaultTableKeyMap(),
		help:   h,
		snap:   r.Initial(),
		cursor: -1,
	}
	m.refresh()
	return m
}

// Init starts the engine and the poll loop.
func (m Model) Init() tea.Cmd {
	m.round.Start(m.ctx)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.back = true
		m.round.Stop()
		return m, tea.Quit
	}

	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		m.round.Stop()
		return m, tea.Quit

	case core.ActionLeft:
		m.moveCursor(-1)

	case core.ActionRight:
		m.moveCursor(1)

	case core.ActionDiscard:
		m.submit(m.cursor)

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	m.refresh()
	return m, nil
}

// handleMouse maps a click on the local hand to a discard.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	idx := core.HitIndex(m.board.HandHits, msg.X, msg.Y)
	if idx < 0 {
		return m, nil
	}
	m.cursor = idx
	m.submit(idx)
	m.refresh()
	return m, nil
}

// handleTick polls the feed.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.drained {
		return m, nil
	}

	feed := m.round.Feed()
	changed := false
	for {
		snap, ok := feed.TryReceive()
		if !ok {
			break
		}
		m.apply(snap)
		changed = true
	}

	if feed.Drained() {
		select {
		case <-m.round.Done():
			m.drained = true
			m.finish()
			m.refresh()
			return m, nil
		default:
		}
	}

	if changed {
		m.refresh()
	} else {
		m.updateStatus()
	}
	return m, tickCmd(m.config.TickRate)
}

// apply replaces the table with a snapshot.
func (m *Model) apply(snap core.Snapshot) {
	prev := m.snap
	m.snap = snap

	if !m.playing() {
		return
	}
	local := m.config.LocalSeat
	if snap.Phase == core.PhaseDrawn && snap.Seat == local && prev.Seq < snap.Seq {
		m.cursor = len(snap.Hands[local]) - 1 // drawn tile
		m.failure = ""
	}
	m.cursor = core.Clamp(m.cursor, -1, len(snap.Hands[local])-1)
}

// finish records how the round ended once the engine has stopped.
func (m *Model) finish() {
	res, err := m.round.Wait()
	switch {
	case err != nil:
		m.failure = err.Error()
		m.status = "Round aborted."
	case res.Reason == core.EndReasonWallExhausted:
		m.status = fmt.Sprintf("Exhaustive draw after %d draws. Press q to quit.", res.Draws)
	default:
		m.status = fmt.Sprintf("Round %s.", res.Reason)
	}
}

func (m *Model) playing() bool {
	return m.round.Human() != nil
}

func (m *Model) moveCursor(delta int) {
	if !m.playing() {
		return
	}
	n := len(m.snap.Hands[m.config.LocalSeat])
	if n == 0 {
		return
	}
	if m.cursor < 0 {
		m.cursor = n - 1
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

// submit forwards a discard request; rejections only update the status.
func (m *Model) submit(idx int) {
	if !m.playing() || m.drained {
		return
	}
	err := m.round.Submit(idx)
	switch {
	case err == nil:
		m.failure = ""
	case errors.Is(err, engine.ErrNotYourTurn):
		m.failure = "Not your turn."
	case errors.Is(err, engine.ErrHandNotReady):
		m.failure = "Draw first."
	case errors.Is(err, engine.ErrIndexOutOfRange):
		m.failure = "Pick a tile first."
	default:
		m.failure = err.Error()
	}
}

// refresh re-renders the board and the status line.
func (m *Model) refresh() {
	m.board = RenderBoard(m.snap, BoardOptions{
		Mode:      m.config.Mode,
		LocalSeat: m.config.LocalSeat,
		Glyphs:    m.glyphs,
		Cursor:    m.cursor,
	})
	m.updateStatus()
}

// updateStatus describes whose turn it is. The human seat can start
// waiting between snapshots, so this runs on every tick.
func (m *Model) updateStatus() {
	if m.drained {
		return
	}
	switch {
	case m.playing() && m.round.Human().Waiting():
		m.status = "Your turn: choose a discard."
	case m.snap.Phase == core.PhaseDealt:
		m.status = "Dealt. East draws first."
	default:
		m.status = fmt.Sprintf("%s %s is playing.", m.snap.Seat.Glyph(), m.snap.Seat.Wind())
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.board.View)
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	if m.failure != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.failure))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Snapshot returns the table currently shown.
func (m Model) Snapshot() core.Snapshot {
	return m.snap
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run starts the Bubble Tea program for a round and waits for the engine
// goroutine to stop before returning.
func Run(ctx context.Context, r *round.Round, glyphs bool) (engine.Result, error) {
	model := NewModel(ctx, r, glyphs)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Click-to-discard
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	r.Stop()
	res, runErr := r.Wait()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return res, err
	}
	return res, runErr
}
