package view

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecaldwell/cipher/internal/auth"
	"github.com/ecaldwell/cipher/internal/session"
)

const loginTimeout = 30 * time.Second

var (
	loginTitle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	loginErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const (
	fieldEmail = iota
	fieldPassword
	fieldCustomerID
)

// LoginModel is the sign-in / sign-up form.
type LoginModel struct {
	CommonModel
	gateway  *auth.Gateway
	sessions *session.Store

	inputs  []textinput.Model
	focus   int
	signUp  bool
	loading bool
	errMsg  string
}

type loginResultMsg struct {
	uid   string
	decoy bool
	err   error
}

func NewLoginModel(gateway *auth.Gateway, sessions *session.Store) LoginModel {
	email := textinput.New()
	email.Placeholder = "Email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword

	customerID := textinput.New()
	customerID.Placeholder = "Customer ID"

	return LoginModel{
		gateway:  gateway,
		sessions: sessions,
		inputs:   []textinput.Model{email, password, customerID},
	}
}

func (m LoginModel) Title() string { return "Sign In" }

func (m LoginModel) ShortHelp() string {
	return "Tab: next field | Enter: submit | Ctrl+s: toggle sign-up | Ctrl+c: quit"
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) fieldCount() int {
	if m.signUp {
		return 3
	}
	return 2
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+s":
			m.signUp = !m.signUp
			m.errMsg = ""
			if m.focus >= m.fieldCount() {
				m.inputs[m.focus].Blur()
				m.focus = 0
				return m, m.inputs[0].Focus()
			}
			return m, nil

		case "tab", "shift+tab", "down", "up":
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m.focus--
			} else {
				m.focus++
			}
			if m.focus < 0 {
				m.focus = m.fieldCount() - 1
			}
			m.focus %= m.fieldCount()

			var cmds []tea.Cmd
			for i := range m.inputs {
				if i == m.focus {
					cmds = append(cmds, m.inputs[i].Focus())
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, tea.Batch(cmds...)

		case "enter":
			if m.loading {
				return m, nil
			}
			return m.submit()
		}

	case loginResultMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = auth.Humanize(msg.err)
			return m, nil
		}
		return m, func() tea.Msg {
			return SignedInMsg{UserID: msg.uid, Decoy: msg.decoy}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m LoginModel) submit() (tea.Model, tea.Cmd) {
	email := m.inputs[fieldEmail].Value()
	password := m.inputs[fieldPassword].Value()

	if email == "" || password == "" {
		m.errMsg = "Please enter email and password"
		return m, nil
	}

	if m.signUp {
		customerID := m.inputs[fieldCustomerID].Value()
		if customerID == "" {
			m.errMsg = "Please fill all fields"
			return m, nil
		}
		if len(password) < 6 {
			m.errMsg = "Password must be at least 6 characters"
			return m, nil
		}

		m.loading = true
		m.errMsg = ""
		gateway, sessions := m.gateway, m.sessions
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
			defer cancel()

			if err := gateway.SignUp(ctx, email, password, customerID); err != nil {
				return loginResultMsg{err: err}
			}
			sess, _ := sessions.Current()
			return loginResultMsg{uid: sess.UserID}
		}
	}

	m.loading = true
	m.errMsg = ""
	gateway, sessions := m.gateway, m.sessions
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		decoy, err := gateway.SignIn(ctx, email, password)
		if err != nil {
			return loginResultMsg{err: err}
		}

		uid := "decoy"
		if !decoy {
			sess, _ := sessions.Current()
			uid = sess.UserID
		}
		return loginResultMsg{uid: uid, decoy: decoy}
	}
}

func (m LoginModel) View() string {
	title := "Cipher — Sign In"
	if m.signUp {
		title = "Cipher — Create Account"
	}

	s := loginTitle.Render(title) + "\n"
	s += m.inputs[fieldEmail].View() + "\n"
	s += m.inputs[fieldPassword].View() + "\n"
	if m.signUp {
		s += m.inputs[fieldCustomerID].View() + "\n"
	}

	if m.loading {
		s += "\nSigning in…\n"
	}
	if m.errMsg != "" {
		s += "\n" + loginErr.Render(m.errMsg) + "\n"
	}

	return s + "\n" + m.ShortHelp() + "\n"
}
