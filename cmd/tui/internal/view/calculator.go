package view

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecaldwell/cipher/internal/routing"
)

var (
	calcFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	calcDisplay = lipgloss.NewStyle().
			Width(24).
			Align(lipgloss.Right).
			Bold(true)
)

// CalculatorModel is the disguise screen: a working four-function
// calculator. Typing the unlock sequence reveals the login screen; nothing
// on screen hints at that.
type CalculatorModel struct {
	CommonModel
	keypad *routing.Keypad

	display string
	acc     float64
	op      string
	fresh   bool
}

func NewCalculatorModel() CalculatorModel {
	return CalculatorModel{
		keypad:  routing.NewKeypad(),
		display: "0",
		fresh:   true,
	}
}

func (m CalculatorModel) Title() string { return "Calculator" }

func (m CalculatorModel) ShortHelp() string {
	return "0-9: digits | + - * /: operators | =: result | c: clear | q: quit"
}

func (m CalculatorModel) Init() tea.Cmd {
	return nil
}

func (m CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	s := key.String()
	switch {
	case s == "ctrl+c" || s == "q":
		return m, tea.Quit

	case len(s) == 1 && s[0] >= '0' && s[0] <= '9':
		if m.keypad.Press(s) {
			return m, func() tea.Msg { return RevealMsg{} }
		}
		if m.fresh {
			m.display = s
			m.fresh = false
		} else if m.display != "0" || s != "0" {
			if m.display == "0" {
				m.display = s
			} else {
				m.display += s
			}
		}

	case s == "+" || s == "-" || s == "*" || s == "/":
		m.keypad.Press(s)
		m.apply()
		m.op = s
		m.fresh = true

	case s == "=" || s == "enter":
		m.keypad.Press(s)
		m.apply()
		m.op = ""
		m.fresh = true

	case s == "c" || s == "C":
		m.keypad.Press("C")
		m.display = "0"
		m.acc = 0
		m.op = ""
		m.fresh = true
	}

	return m, nil
}

func (m *CalculatorModel) apply() {
	cur, err := strconv.ParseFloat(m.display, 64)
	if err != nil {
		return
	}

	switch m.op {
	case "+":
		m.acc += cur
	case "-":
		m.acc -= cur
	case "*":
		m.acc *= cur
	case "/":
		if cur == 0 {
			m.display = "Error"
			m.acc = 0
			return
		}
		m.acc /= cur
	default:
		m.acc = cur
	}

	m.display = strconv.FormatFloat(m.acc, 'f', -1, 64)
}

func (m CalculatorModel) View() string {
	rows := []string{
		calcDisplay.Render(m.display),
		"",
		"7  8  9  /",
		"4  5  6  *",
		"1  2  3  -",
		"C  0  =  +",
	}

	return calcFrame.Render(strings.Join(rows, "\n")) + "\n" + m.ShortHelp() + "\n"
}
