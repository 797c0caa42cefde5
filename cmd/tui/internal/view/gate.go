package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecaldwell/cipher/internal/routing"
)

const promptTimeout = 60 * time.Second

var gateStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(1, 3)

// GateModel is the biometric app-lock screen. The actual prompt runs
// through the routing controller so the state machine stays authoritative.
type GateModel struct {
	CommonModel
	unlock func(ctx context.Context, reason string) (routing.State, error)

	checking bool
	errMsg   string
}

type promptResultMsg struct {
	state routing.State
	err   error
}

func NewGateModel(unlock func(ctx context.Context, reason string) (routing.State, error)) GateModel {
	return GateModel{unlock: unlock}
}

func (m GateModel) Title() string { return "Unlock" }

func (m GateModel) ShortHelp() string {
	return "Enter: unlock | p: use password instead | Ctrl+c: quit"
}

func (m GateModel) Init() tea.Cmd {
	return m.prompt()
}

func (m GateModel) prompt() tea.Cmd {
	unlock := m.unlock
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), promptTimeout)
		defer cancel()

		state, err := unlock(ctx, "Unlock Cipher")
		return promptResultMsg{state: state, err: err}
	}
}

func (m GateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.checking {
				return m, nil
			}
			m.checking = true
			m.errMsg = ""
			return m, m.prompt()
		case "p":
			return m, func() tea.Msg { return UsePasswordMsg{} }
		}

	case promptResultMsg:
		m.checking = false
		if msg.err != nil {
			m.errMsg = "Biometric check failed. Try again or use your password."
			return m, nil
		}
		if msg.state == routing.StateMainApp {
			return m, func() tea.Msg { return UnlockedMsg{} }
		}
		m.errMsg = "Not recognized. Try again."
	}

	return m, nil
}

func (m GateModel) View() string {
	body := "Unlock Cipher\n\nConfirm it's you to continue."
	if m.checking {
		body += "\n\nChecking…"
	}
	if m.errMsg != "" {
		body += "\n\n" + m.errMsg
	}

	return gateStyle.Render(body) + "\n" + m.ShortHelp() + "\n"
}
