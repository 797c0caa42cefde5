package view

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecaldwell/cipher/internal/insight"
	"github.com/ecaldwell/cipher/internal/savings"
	"github.com/ecaldwell/cipher/internal/transaction"
)

const analyzeTimeout = 3 * time.Minute

var (
	analyzerTitle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	analyzerHeader = lipgloss.NewStyle().Bold(true).Underline(true)
	analyzerErr    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type analyzerState int

const (
	analyzerStateForm analyzerState = iota
	analyzerStateRunning
	analyzerStateResult
)

// AnalyzerModel runs the two-call analysis over the account's transactions
// and shows the result. The parsed plan, when present, can be materialized
// into savings categories.
type AnalyzerModel struct {
	CommonModel
	generator    *insight.Generator
	tracker      *savings.Tracker
	transactions []transaction.Transaction

	state           analyzerState
	locationInput   textinput.Model
	dependentsInput textinput.Model
	formFocus       int

	result *insight.Result
	errMsg string
	status string
}

type analysisDoneMsg struct {
	result *insight.Result
	err    error
}

type planSavedMsg struct {
	count int
	err   error
}

func NewAnalyzerModel(generator *insight.Generator, tracker *savings.Tracker, txs []transaction.Transaction) AnalyzerModel {
	location := textinput.New()
	location.Placeholder = "Your location (city)"
	location.Focus()

	dependents := textinput.New()
	dependents.Placeholder = "Number of dependents"

	return AnalyzerModel{
		generator:       generator,
		tracker:         tracker,
		transactions:    txs,
		locationInput:   location,
		dependentsInput: dependents,
	}
}

func (m AnalyzerModel) Title() string { return "Analyzer" }

func (m AnalyzerModel) ShortHelp() string {
	switch m.state {
	case analyzerStateResult:
		if m.result != nil && m.result.Plan != nil {
			return "g: generate plan categories | r: run again | Esc: back"
		}
		return "r: run again | Esc: back"
	}
	return "Tab: next field | Enter: analyze | Esc: back"
}

func (m AnalyzerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AnalyzerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, Back
		}

		switch m.state {
		case analyzerStateForm:
			return m.updateForm(msg)
		case analyzerStateResult:
			return m.updateResult(msg)
		}

	case analysisDoneMsg:
		m.state = analyzerStateResult
		if msg.err != nil {
			m.errMsg = "Analysis failed: " + msg.err.Error()
			m.result = nil
			return m, nil
		}
		m.errMsg = ""
		m.result = msg.result
		return m, nil

	case planSavedMsg:
		if msg.err != nil {
			m.status = "Could not save plan: " + msg.err.Error()
		} else {
			m.status = "Added " + strconv.Itoa(msg.count) + " categories to your savings plan"
		}
		return m, nil
	}

	return m, nil
}

func (m AnalyzerModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "down", "up":
		m.formFocus = 1 - m.formFocus
		if m.formFocus == 0 {
			m.dependentsInput.Blur()
			return m, m.locationInput.Focus()
		}
		m.locationInput.Blur()
		return m, m.dependentsInput.Focus()

	case "enter":
		dependents, _ := strconv.Atoi(m.dependentsInput.Value())
		req := insight.Request{
			Transactions: m.transactions,
			Location:     m.locationInput.Value(),
			Dependents:   dependents,
		}

		m.state = analyzerStateRunning
		generator := m.generator
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
			defer cancel()

			result, err := generator.Analyze(ctx, req)
			return analysisDoneMsg{result: result, err: err}
		}
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.locationInput, cmd = m.locationInput.Update(tea.Msg(msg))
	} else {
		m.dependentsInput, cmd = m.dependentsInput.Update(tea.Msg(msg))
	}
	return m, cmd
}

func (m AnalyzerModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.state = analyzerStateForm
		m.status = ""
		return m, m.locationInput.Focus()

	case "g":
		if m.result == nil || m.result.Plan == nil {
			return m, nil
		}
		plan := m.result.Plan
		tracker := m.tracker
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()

			added, err := tracker.FromPlan(ctx, plan)
			return planSavedMsg{count: len(added), err: err}
		}
	}

	return m, nil
}

func (m AnalyzerModel) View() string {
	switch m.state {
	case analyzerStateRunning:
		return analyzerTitle.Render("Analyzer") + "\nAnalyzing your transactions…\n"

	case analyzerStateResult:
		s := analyzerTitle.Render("Analyzer") + "\n"
		if m.errMsg != "" {
			s += analyzerErr.Render(m.errMsg) + "\n"
			return s + "\n" + m.ShortHelp() + "\n"
		}

		s += analyzerHeader.Render("Risk Assessment") + "\n"
		s += m.result.RiskText + "\n\n"
		s += analyzerHeader.Render("Savings Plan") + "\n"
		s += m.result.AdviceText + "\n"

		if m.result.Plan != nil {
			s += "\nA structured plan is available — press 'g' to add its categories.\n"
		}
		if m.status != "" {
			s += "\n" + m.status + "\n"
		}
		return s + "\n" + m.ShortHelp() + "\n"
	}

	s := analyzerTitle.Render("Analyzer") + "\n"
	s += "Transactions loaded: " + strconv.Itoa(len(m.transactions)) + "\n\n"
	s += m.locationInput.View() + "\n"
	s += m.dependentsInput.View() + "\n"

	return s + "\n" + m.ShortHelp() + "\n"
}
