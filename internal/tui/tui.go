// Package tui implements the interactive terminal interface: a welcome
// screen reporting index status, an indexing screen while documents are
// ingested, and the chat screen for asking questions.
package tui

import (
	"hragent/internal/config"
	"hragent/internal/rag"
	"hragent/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents which screen is active.
type ViewState int

const (
	ViewWelcome ViewState = iota
	ViewIndexing
	ViewChat
)

// Config holds everything the TUI needs from the CLI layer.
type Config struct {
	App      *config.AppConfig
	Pipeline *rag.Pipeline
	Store    *store.SQLiteStore
	// Force rebuilds the index even when a persisted one is usable.
	Force bool
}

// Model is the top-level Bubble Tea model.
type Model struct {
	state  ViewState
	config Config
	width  int
	height int

	welcome  welcomeModel
	indexing indexingModel
	chat     chatModel
	err      error
}

// New creates a new TUI model with the given config.
func New(cfg Config) Model {
	return Model{
		state:  ViewWelcome,
		config: cfg,
	}
}

func (m Model) Init() tea.Cmd {
	return checkIndex(m.config)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == ViewChat {
			var c tea.Cmd
			m.chat, c = m.chat.Update(msg)
			return m, c
		}
		return m, nil

	case tea.KeyMsg:
		// Global quit.
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.state != ViewChat {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd

	switch m.state {
	case ViewWelcome:
		m.welcome, cmd = m.welcome.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter && m.welcome.ready {
			if m.welcome.status == indexReady && !m.config.Force {
				m.transitionToChat()
				return m, nil
			}
			m.state = ViewIndexing
			m.indexing = newIndexingModel()
			return m, tea.Batch(m.indexing.spinner.Tick, runIndex(m.config))
		}

	case ViewIndexing:
		m.indexing, cmd = m.indexing.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter && m.indexing.done {
			if m.indexing.err != nil {
				return m, tea.Quit
			}
			m.transitionToChat()
			return m, nil
		}

	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) transitionToChat() {
	m.chat = newChatModel(m.config.Pipeline)
	m.chat.initViewport(m.width, m.height)
	m.state = ViewChat
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Erro: "+m.err.Error()) + "\n"
	}

	switch m.state {
	case ViewWelcome:
		return m.welcome.View()
	case ViewIndexing:
		return m.indexing.View()
	case ViewChat:
		return m.chat.View()
	}
	return ""
}

// Run starts the TUI program.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
