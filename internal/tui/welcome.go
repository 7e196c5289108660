package tui

import (
	"fmt"

	"hragent/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type indexStatus int

const (
	indexNotFound indexStatus = iota
	indexReady
	indexStale
)

type welcomeModel struct {
	status      indexStatus
	staleReason string
	ready       bool // true once the check has completed
}

// checkIndexMsg is sent after checking the index status.
type checkIndexMsg struct {
	status      indexStatus
	staleReason string
}

func checkIndex(cfg Config) tea.Cmd {
	return func() tea.Msg {
		exists, err := cfg.Store.Exists()
		if err != nil || !exists {
			return checkIndexMsg{status: indexNotFound}
		}

		lastModel, err := cfg.Store.GetMeta(store.MetaEmbeddingModel)
		if err != nil || lastModel == "" {
			return checkIndexMsg{status: indexNotFound}
		}

		if lastModel != cfg.App.OpenAI.EmbedModel {
			return checkIndexMsg{
				status:      indexStale,
				staleReason: fmt.Sprintf("modelo de embedding mudou: %s → %s", lastModel, cfg.App.OpenAI.EmbedModel),
			}
		}

		return checkIndexMsg{status: indexReady}
	}
}

func (m welcomeModel) Update(msg tea.Msg) (welcomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case checkIndexMsg:
		m.status = msg.status
		m.staleReason = msg.staleReason
		m.ready = true
	}
	return m, nil
}

func (m welcomeModel) View() string {
	s := "\n"
	s += titleStyle.Render("  ◆ Agente de Políticas de RH") + "\n"
	s += subtitleStyle.Render("  Respostas fundamentadas nas políticas internas da empresa") + "\n\n"

	if !m.ready {
		s += dimStyle.Render("  Verificando índice...") + "\n"
		return s
	}

	switch m.status {
	case indexReady:
		s += successStyle.Render("  ✓ Índice pronto") + "\n"
	case indexNotFound:
		s += warnStyle.Render("  ✗ Nenhum índice encontrado") + "\n"
	case indexStale:
		s += warnStyle.Render("  ⚠ Índice desatualizado") + "\n"
		s += dimStyle.Render("    "+m.staleReason) + "\n"
	}

	s += "\n"
	s += dimStyle.Render("  Pressione Enter para continuar") + "\n"
	return s
}
