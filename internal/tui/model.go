package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragchat/internal/client"
)

// ChatPort is the TUI-facing subset of the server API client.
type ChatPort interface {
	Send(sessionID, message string) (client.ChatResponse, error)
	ClearSession(sessionID string) error
}

type entry struct {
	role    string
	text    string
	sources []string
}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	api       ChatPort
	sessionID string
	input     textinput.Model
	viewport  viewport.Model
	entries   []entry
	status    string
	ready     bool
}

// New creates a new TUI model bound to an existing session.
func New(api ChatPort, sessionID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		api:       api,
		sessionID: sessionID,
		input:     ti,
		viewport:  vp,
		status:    "Connected. Ctrl+L clears the session, Ctrl+C quits.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.entries = append(m.entries, entry{role: "you", text: q})
				m.input.SetValue("")
				m.status = "Thinking..."
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()

				resp, err := m.api.Send(m.sessionID, q)
				if err != nil {
					m.status = "Error: " + err.Error()
					return m, nil
				}
				e := entry{role: "assistant", text: resp.Answer}
				for _, c := range resp.Context {
					e.sources = append(e.sources, fmt.Sprintf("%s (%.2f)", c.Source, c.Score))
				}
				m.entries = append(m.entries, e)
				if len(e.sources) > 0 {
					m.status = fmt.Sprintf("Answered with %d source(s)", len(e.sources))
				} else {
					m.status = "Answered conversationally"
				}
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, nil
			}
		case "ctrl+l":
			if err := m.api.ClearSession(m.sessionID); err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.entries = nil
				m.status = "Session cleared."
				m.viewport.SetContent(m.renderTranscript())
			}
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("RAG Chat")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return "No messages yet. Ask about the news corpus or just say hi."
	}
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch e.role {
		case "you":
			b.WriteString(youStyle.Render("You: ") + e.text)
		default:
			b.WriteString(botStyle.Render("Assistant: ") + e.text)
			if len(e.sources) > 0 {
				b.WriteString("\n" + sourceStyle.Render("Sources: "+strings.Join(e.sources, ", ")))
			}
		}
	}
	return b.String()
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sourceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
