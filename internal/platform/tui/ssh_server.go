package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-mahjong/internal/core"
	"github.com/vovakirdan/tui-mahjong/internal/round"
	"github.com/vovakirdan/tui-mahjong/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.mahjong/host_key.
	HostKeyPath string

	// DBPath is the path to the round history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Round is the base configuration for every session's rounds.
	Round core.RuntimeConfig

	// Glyphs selects Unicode tile faces.
	Glyphs bool
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DBPath:      "~/.mahjong/rounds.db",
		IdleTimeout: 30 * time.Minute,
		Round:       core.DefaultConfig(),
		Glyphs:      true,
	}
}

// SSHServer wraps a Wish SSH server where every session gets its own rounds.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mahjong-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open rounds database", "error", err)
		store = nil // Continue without history
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".mahjong", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := s.config.Round
	cfg.ScreenW = pty.Window.Width
	cfg.ScreenH = pty.Window.Height

	model := NewSessionModel(sshSession.Context(), SessionOptions{
		Store:    s.store,
		Config:   cfg,
		Glyphs:   s.config.Glyphs,
		Username: sshSession.User(),
		Logger:   s.logger.With("user", sshSession.User()),
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server. Session contexts are cancelled,
// which stops their rounds.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Store    *storage.Store // Nil disables history
	Config   core.RuntimeConfig
	Glyphs   bool
	Username string // Recorded as the round source
	Logger   *log.Logger
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenTable
	screenHistory
)

// SessionModel manages the full session flow: menu -> round or history -> menu.
// This is the top-level model used for SSH sessions and the local menu.
type SessionModel struct {
	ctx      context.Context
	opts     SessionOptions
	screen   sessionScreen
	menu     MenuModel
	table    *Model
	history  *HistoryModel
	lastErr  string
	quitting bool
}

// NewSessionModel creates a new session model. Rounds stop when ctx ends.
func NewSessionModel(ctx context.Context, opts SessionOptions) SessionModel {
	return SessionModel{
		ctx:  ctx,
		opts: opts,
		menu: NewMenuModel(opts.Config, opts.Store != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Config.ScreenW = wsm.Width
		m.opts.Config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenTable:
		return m.updateTable(msg)
	case screenHistory:
		return m.updateHistory(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	result := MenuResult{Choice: selected.Choice, Config: m.opts.Config}
	switch selected.Choice {
	case ChoiceHistory:
		h := NewHistoryModel(m.opts.Store, m.opts.Config.ScreenW, m.opts.Config.ScreenH)
		m.history = &h
		m.screen = screenHistory
		return m, h.Init()

	case ChoiceWatch, ChoicePlay:
		r, err := round.New(round.Options{
			Runtime: result.ApplyChoice(),
			Logger:  m.opts.Logger,
			Saver:   round.StoreSaver(m.opts.Store),
			Source:  m.opts.Username,
		})
		if err != nil {
			m.lastErr = err.Error()
			m.menu = NewMenuModel(m.opts.Config, m.opts.Store != nil)
			return m, nil
		}
		table := NewModel(m.ctx, r, m.opts.Glyphs)
		m.table = &table
		m.screen = screenTable
		m.lastErr = ""
		return m, table.Init()
	}

	return m, cmd
}

// updateTable handles updates while a round is on screen.
func (m SessionModel) updateTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.table.Update(msg)
	if table, ok := newModel.(Model); ok {
		m.table = &table
	}

	if m.table.BackToMenu() {
		return m.toMenu(), nil
	}
	if m.table.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// updateHistory handles updates while the history is on screen.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if history, ok := newModel.(HistoryModel); ok {
		m.history = &history
	}

	if m.history.IsGoingBack() {
		return m.toMenu(), nil
	}
	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) toMenu() SessionModel {
	m.screen = screenMenu
	m.table = nil
	m.history = nil
	m.menu = NewMenuModel(m.opts.Config, m.opts.Store != nil)
	return m
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenTable:
		return m.table.View()
	case screenHistory:
		return m.history.View()
	}

	view := m.menu.View()
	if m.lastErr != "" {
		view += "\n" + errorStyle.Render(centerText(m.lastErr, m.opts.Config.ScreenW))
	}
	return view
}

// RunSession runs the menu-driven session on the local terminal.
func RunSession(ctx context.Context, opts SessionOptions) error {
	p := tea.NewProgram(
		NewSessionModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
