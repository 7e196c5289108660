package tui

import (
	"context"
	"fmt"

	"hragent/internal/rag"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type indexingModel struct {
	spinner spinner.Model
	done    bool
	stats   *rag.Stats
	err     error
}

func newIndexingModel() indexingModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle
	return indexingModel{spinner: sp}
}

// indexDoneMsg is sent when ingestion completes.
type indexDoneMsg struct {
	stats *rag.Stats
	err   error
}

func runIndex(cfg Config) tea.Cmd {
	return func() tea.Msg {
		stats, err := cfg.Pipeline.Initialize(context.Background(), cfg.Force)
		return indexDoneMsg{stats: stats, err: err}
	}
}

func (m indexingModel) Update(msg tea.Msg) (indexingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case indexDoneMsg:
		m.done = true
		m.stats = msg.stats
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m indexingModel) View() string {
	s := "\n"
	s += titleStyle.Render("  Indexação") + "\n\n"

	if m.done {
		if m.err != nil {
			s += errorStyle.Render(fmt.Sprintf("  Erro: %v", m.err)) + "\n\n"
			s += dimStyle.Render("  Pressione Enter ou q para sair.") + "\n"
			return s
		}
		if m.stats != nil && m.stats.Reused {
			s += successStyle.Render("  ✓ Índice existente reutilizado") + "\n\n"
		} else {
			s += successStyle.Render("  ✓ Indexação concluída!") + "\n\n"
			if m.stats != nil {
				s += fmt.Sprintf("  Páginas: %d\n", m.stats.Pages)
				s += fmt.Sprintf("  Trechos: %d\n", m.stats.Chunks)
			}
		}
		s += "\n"
		s += dimStyle.Render("  Pressione Enter para começar a conversar") + "\n"
		return s
	}

	s += fmt.Sprintf("  %s Processando documentos...\n", m.spinner.View())
	s += "\n"
	s += dimStyle.Render("  Gerando embeddings, isso pode levar alguns instantes...") + "\n"
	return s
}
