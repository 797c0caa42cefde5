package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct{}

// RevealMsg is emitted by the calculator screen when the unlock sequence
// was typed.
type RevealMsg struct{}

// SignedInMsg is emitted by the login screen after a successful sign-in.
type SignedInMsg struct {
	UserID string
	Decoy  bool
}

// UnlockedMsg is emitted by the biometric gate on success.
type UnlockedMsg struct{}

// UsePasswordMsg is the voluntary fallback from the biometric gate.
type UsePasswordMsg struct{}

// SignedOutMsg is emitted when the user signs out from the main app.
type SignedOutMsg struct{}

// BackMsg returns to the previous screen.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
