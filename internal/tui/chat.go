// Package tui implements the interactive AI chat panel.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/budgetiq/budgetiq/internal/api"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Advisor sends a chat message to the AI endpoint and returns the reply.
type Advisor interface {
	Chat(ctx context.Context, message string) (string, error)
}

// APIAdvisor is the production Advisor backed by the HTTP adapter.
type APIAdvisor struct {
	Client *api.Client
}

// Chat posts a message to the AI chat endpoint.
func (a *APIAdvisor) Chat(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	if err := a.Client.Post(ctx, "/api/ai/chat", map[string]string{"message": message}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

type chatLine struct {
	text     string
	fromUser bool
}

// replyMsg carries the AI response (or the error) back into the update loop.
type replyMsg struct {
	reply string
	err   error
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)
	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// ChatModel is the bubbletea model for the AI chat panel.
type ChatModel struct {
	ctx     context.Context
	advisor Advisor
	input   textinput.Model
	spin    spinner.Model
	lines   []chatLine
	width   int
	waiting bool
	done    bool
}

// NewChatModel creates the chat panel.
func NewChatModel(ctx context.Context, advisor Advisor) ChatModel {
	input := textinput.New()
	input.Placeholder = "Ask about your finances..."
	input.Focus()
	input.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return ChatModel{
		ctx:     ctx,
		advisor: advisor,
		input:   input,
		spin:    spin,
		width:   80,
	}
}

// Init starts the input cursor blink.
func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.lines = append(m.lines, chatLine{text: question, fromUser: true})
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spin.Tick, m.ask(question))
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, chatLine{text: presentError(msg.err)})
		} else {
			m.lines = append(m.lines, chatLine{text: msg.reply})
		}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the conversation and the input line.
func (m ChatModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	for _, line := range m.lines {
		if line.fromUser {
			b.WriteString(userStyle.Render("you: ") + line.text + "\n")
		} else {
			b.WriteString(botStyle.Render("iq:  ") + wrap(line.text, m.width-6) + "\n")
		}
	}

	if m.waiting {
		b.WriteString(m.spin.View() + " thinking...\n")
	} else {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	b.WriteString(helpStyle.Render("enter: send • esc: quit"))
	return b.String()
}

func (m ChatModel) ask(question string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.advisor.Chat(m.ctx, question)
		return replyMsg{reply: reply, err: err}
	}
}

// presentError turns an adapter error into user-facing copy. Connectivity
// problems get distinct wording from server rejections.
func presentError(err error) string {
	kind, ok := api.ErrKind(err)
	if !ok {
		return errorStyle.Render(fmt.Sprintf("something went wrong: %v", err))
	}
	switch kind {
	case api.KindNetworkUnavailable:
		return errorStyle.Render("can't reach the server - check your connection")
	case api.KindTimeout:
		return errorStyle.Render("the server took too long to answer - try again")
	default:
		return errorStyle.Render(err.Error())
	}
}

// wrap soft-wraps text to the given width; lipgloss handles the rest.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// Run starts the chat panel and blocks until the user quits.
func Run(ctx context.Context, advisor Advisor) error {
	program := tea.NewProgram(NewChatModel(ctx, advisor))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat panel: %w", err)
	}
	return nil
}
