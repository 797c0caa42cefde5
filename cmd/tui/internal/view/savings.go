package view

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecaldwell/cipher/internal/savings"
)

const flushTimeout = 10 * time.Second

var (
	savingsTitle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	savingsSelected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	savingsStatus   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type savingsState int

const (
	savingsStateList savingsState = iota
	savingsStateAdd
	savingsStateAdjust
)

// SavingsModel is the savings category tracker screen.
type SavingsModel struct {
	CommonModel
	tracker *savings.Tracker

	state  savingsState
	cursor int

	nameInput     textinput.Model
	locationInput textinput.Model
	goalInput     textinput.Model
	amountInput   textinput.Model
	formFocus     int

	status string
}

type savingsFlushMsg struct{ err error }

func NewSavingsModel(tracker *savings.Tracker) SavingsModel {
	name := textinput.New()
	name.Placeholder = "Name (e.g. Cash)"

	location := textinput.New()
	location.Placeholder = "Where is it kept?"

	goal := textinput.New()
	goal.Placeholder = "Goal amount"

	amount := textinput.New()
	amount.Placeholder = "Amount (negative to subtract)"

	return SavingsModel{
		tracker:       tracker,
		nameInput:     name,
		locationInput: location,
		goalInput:     goal,
		amountInput:   amount,
	}
}

func (m SavingsModel) Title() string { return "Savings Plan" }

func (m SavingsModel) ShortHelp() string {
	switch m.state {
	case savingsStateAdd:
		return "Tab: next field | Enter: save | Esc: cancel"
	case savingsStateAdjust:
		return "Enter: apply | Esc: cancel"
	}
	return "↑/↓: select | a: add | m: add/subtract money | d: delete | Esc: back"
}

func (m SavingsModel) Init() tea.Cmd {
	return nil
}

func (m SavingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case savingsStateList:
			return m.updateList(msg)
		case savingsStateAdd:
			return m.updateAdd(msg)
		case savingsStateAdjust:
			return m.updateAdjust(msg)
		}

	case savingsFlushMsg:
		if msg.err != nil {
			m.status = "Could not save changes: " + msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

func (m SavingsModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cats := m.tracker.Categories()

	switch msg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(cats)-1 {
			m.cursor++
		}
	case "a":
		m.state = savingsStateAdd
		m.formFocus = 0
		m.nameInput.SetValue("")
		m.locationInput.SetValue("")
		m.goalInput.SetValue("")
		m.status = ""
		return m, m.nameInput.Focus()
	case "m":
		if len(cats) == 0 {
			return m, nil
		}
		m.state = savingsStateAdjust
		m.amountInput.SetValue("")
		m.status = ""
		return m, m.amountInput.Focus()
	case "d":
		if len(cats) == 0 {
			return m, nil
		}
		id := cats[m.cursor].ID
		if m.cursor > 0 {
			m.cursor--
		}
		tracker := m.tracker
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			return savingsFlushMsg{err: tracker.Delete(ctx, id)}
		}
	}

	return m, nil
}

func (m SavingsModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inputs := []*textinput.Model{&m.nameInput, &m.locationInput, &m.goalInput}

	switch msg.String() {
	case "esc":
		m.state = savingsStateList
		return m, nil

	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % len(inputs)
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + len(inputs) - 1) % len(inputs)

	case "enter":
		goal, err := strconv.ParseFloat(m.goalInput.Value(), 64)
		if err != nil {
			m.status = "Goal must be a number"
			return m, nil
		}

		name, location := m.nameInput.Value(), m.locationInput.Value()
		m.state = savingsStateList
		tracker := m.tracker
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			_, err := tracker.Add(ctx, name, location, goal)
			return savingsFlushMsg{err: err}
		}

	default:
		var cmd tea.Cmd
		*inputs[m.formFocus], cmd = inputs[m.formFocus].Update(tea.Msg(msg))
		return m, cmd
	}

	var cmds []tea.Cmd
	for i, in := range inputs {
		if i == m.formFocus {
			cmds = append(cmds, in.Focus())
		} else {
			in.Blur()
		}
	}
	return m, tea.Batch(cmds...)
}

func (m SavingsModel) updateAdjust(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = savingsStateList
		return m, nil

	case "enter":
		delta, err := strconv.ParseFloat(m.amountInput.Value(), 64)
		if err != nil {
			m.status = "Amount must be a number"
			return m, nil
		}

		cats := m.tracker.Categories()
		if m.cursor >= len(cats) {
			m.state = savingsStateList
			return m, nil
		}

		id := cats[m.cursor].ID
		m.state = savingsStateList
		tracker := m.tracker
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			_, err := tracker.Adjust(ctx, id, delta)
			return savingsFlushMsg{err: err}
		}
	}

	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(tea.Msg(msg))
	return m, cmd
}

func (m SavingsModel) View() string {
	switch m.state {
	case savingsStateAdd:
		s := savingsTitle.Render("New Savings Category") + "\n"
		s += m.nameInput.View() + "\n"
		s += m.locationInput.View() + "\n"
		s += m.goalInput.View() + "\n"
		if m.status != "" {
			s += "\n" + savingsStatus.Render(m.status) + "\n"
		}
		return s + "\n" + m.ShortHelp() + "\n"

	case savingsStateAdjust:
		s := savingsTitle.Render("Add / Subtract Money") + "\n"
		s += m.amountInput.View() + "\n"
		if m.status != "" {
			s += "\n" + savingsStatus.Render(m.status) + "\n"
		}
		return s + "\n" + m.ShortHelp() + "\n"
	}

	cats := m.tracker.Categories()

	s := savingsTitle.Render("Savings Plan") + "\n"
	if len(cats) == 0 {
		s += "No categories yet. Press 'a' to add one.\n"
	}

	for i, c := range cats {
		line := fmt.Sprintf("%-28s %9.2f / %-9.2f %3.0f%%", c.Name, c.CurrentAmount, c.GoalAmount, c.Progress())
		if c.Location != "" {
			line += "  (" + c.Location + ")"
		}
		if i == m.cursor {
			line = savingsSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		s += line + "\n"
	}

	if m.status != "" {
		s += "\n" + savingsStatus.Render(m.status) + "\n"
	}

	return s + "\n" + m.ShortHelp() + "\n"
}
