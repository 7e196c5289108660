package tui

import (
	"context"
	"fmt"
	"strings"

	"hragent/internal/rag"
	"hragent/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type chatState int

const (
	chatIdle chatState = iota
	chatThinking
)

type chatModel struct {
	viewport    viewport.Model
	input       textinput.Model
	spinner     spinner.Model
	renderer    *glamour.TermRenderer
	messages    []chatMessage
	pipeline    *rag.Pipeline
	state       chatState
	width       int
	height      int
	initialized bool
}

type chatMessage struct {
	role    string
	content string
	sources []store.Chunk
}

// answerMsg is sent when a question has been answered.
type answerMsg struct {
	result rag.QueryResult
	err    error
}

func newChatModel(pipeline *rag.Pipeline) chatModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	ti := textinput.New()
	ti.Placeholder = "Faça uma pergunta sobre as políticas da empresa..."
	ti.CharLimit = 2000
	ti.Focus()

	return chatModel{
		spinner:  sp,
		input:    ti,
		pipeline: pipeline,
		state:    chatIdle,
	}
}

func (m *chatModel) initViewport(width, height int) {
	m.width = width
	m.height = height

	// Layout: viewport + status bar (1 line) + input (1 line) + borders/gaps (1 line).
	vpHeight := height - 3
	if vpHeight < 5 {
		vpHeight = 5
	}
	m.viewport = viewport.New(width, vpHeight)
	m.viewport.SetContent(dimStyle.Render("Bem-vindo! Pergunte sobre férias, home office ou código de conduta.\n\nDigite sair, exit ou quit para encerrar."))

	m.input.Width = width - 4

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err == nil {
		m.renderer = r
	}

	m.initialized = true
}

func askQuestion(pipeline *rag.Pipeline, question string) tea.Cmd {
	return func() tea.Msg {
		result, err := pipeline.Answer(context.Background(), question)
		return answerMsg{result: result, err: err}
	}
}

func isExitWord(s string) bool {
	switch strings.ToLower(s) {
	case "sair", "exit", "quit":
		return true
	}
	return false
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.initViewport(msg.Width, msg.Height)
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case answerMsg:
		m.state = chatIdle
		if msg.err != nil {
			m.messages = append(m.messages, chatMessage{role: "error", content: msg.err.Error()})
		} else {
			m.messages = append(m.messages, chatMessage{
				role:    "assistant",
				content: msg.result.Answer,
				sources: msg.result.Sources,
			})
		}
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.state != chatIdle {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			// Re-render viewport so the spinner frame updates.
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.state != chatIdle {
			return m, nil
		}
		if msg.Type == tea.KeyEnter {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()

			if isExitWord(question) {
				return m, tea.Quit
			}
			if question == "/limpar" || question == "/clear" {
				m.messages = nil
				m.viewport.SetContent(dimStyle.Render("Conversa limpa."))
				return m, nil
			}

			m.messages = append(m.messages, chatMessage{role: "user", content: question})
			m.state = chatThinking
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()

			return m, tea.Batch(m.spinner.Tick, askQuestion(m.pipeline, question))
		}
	}

	if m.state == chatIdle {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m chatModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		return assistantMsgStyle.Render(content)
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return assistantMsgStyle.Render(content)
	}
	return strings.TrimRight(rendered, "\n")
}

func renderSources(sources []store.Chunk) string {
	if len(sources) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(dimStyle.Render("Fontes:") + "\n")
	for i, src := range sources {
		excerpt := src.Text
		if runes := []rune(excerpt); len(runes) > 200 {
			excerpt = string(runes[:200]) + "..."
		}
		excerpt = strings.ReplaceAll(excerpt, "\n", " ")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  [%d] %s (página %d, categoria: %s)", i+1, src.Source, src.Page, src.Category)) + "\n")
		sb.WriteString(dimStyle.Render("      "+excerpt) + "\n")
	}
	return sb.String()
}

func (m chatModel) renderMessages() string {
	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.role {
		case "user":
			sb.WriteString(userMsgStyle.Render("Você: ") + msg.content + "\n\n")
		case "assistant":
			sb.WriteString(m.renderMarkdown(msg.content) + "\n")
			if s := renderSources(msg.sources); s != "" {
				sb.WriteString("\n" + s)
			}
			sb.WriteString("\n")
		case "error":
			sb.WriteString(errorStyle.Render("Erro: "+msg.content) + "\n\n")
		}
	}

	if m.state != chatIdle {
		sb.WriteString(m.spinner.View() + " " + dimStyle.Render("Consultando políticas...") + "\n")
	}

	return sb.String()
}

func (m chatModel) View() string {
	if !m.initialized {
		return ""
	}

	statusText := "pronto"
	if m.state == chatThinking {
		statusText = "consultando..."
	}
	statusBar := statusBarStyle.
		Width(m.width).
		Render(fmt.Sprintf(" agente de RH • %s", statusText))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		statusBar,
		m.input.View(),
	)
}
