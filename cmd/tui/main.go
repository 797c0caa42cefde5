package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/cmd/tui/internal/view"
	"github.com/ecaldwell/cipher/internal/auth"
	"github.com/ecaldwell/cipher/internal/biometric"
	"github.com/ecaldwell/cipher/internal/config"
	"github.com/ecaldwell/cipher/internal/decoy"
	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/insight"
	"github.com/ecaldwell/cipher/internal/keystore"
	"github.com/ecaldwell/cipher/internal/logger"
	"github.com/ecaldwell/cipher/internal/routing"
	"github.com/ecaldwell/cipher/internal/savings"
	"github.com/ecaldwell/cipher/internal/session"
)

type tab int

const (
	tabSavings tab = iota
	tabAnalyzer
)

// model is the root TUI model. The screen shown follows the routing
// controller's state; inside the main app two tabs share the screen.
type model struct {
	controller *routing.Controller
	gateway    *auth.Gateway
	sessions   *session.Store
	store      docstore.Store
	decoyStore docstore.Store
	generator  *insight.Generator
	log        zerolog.Logger

	calculator view.CalculatorModel
	login      view.LoginModel
	gate       view.GateModel
	savings    view.SavingsModel
	analyzer   view.AnalyzerModel

	revealed  bool
	activeTab tab
	ready     bool
	uid       string
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case view.RevealMsg:
		m.revealed = true
		state := m.controller.Resolve(ctx)
		if state == routing.StateBiometricGate {
			return m, m.gate.Init()
		}
		if state == routing.StateMainApp {
			return m.enterMainApp(ctx)
		}
		return m, m.login.Init()

	case view.SignedInMsg:
		m.uid = msg.UserID
		m.controller.SignedIn()
		return m.enterMainApp(ctx)

	case view.UnlockedMsg:
		if sess, ok := m.sessions.Current(); ok {
			m.uid = sess.UserID
		}
		return m.enterMainApp(ctx)

	case view.UsePasswordMsg:
		m.controller.UsePassword()
		return m, m.login.Init()

	case view.SignedOutMsg:
		if err := m.gateway.SignOut(ctx); err != nil {
			m.log.Error().Err(err).Msg("Sign out failed")
		}
		m.controller.SignedOut()
		m.ready = false
		m.revealed = true
		return m, m.login.Init()

	case view.BackMsg:
		// Esc from a tab toggles to the other one.
		if m.controller.State() == routing.StateMainApp && m.ready {
			m.activeTab = 1 - m.activeTab
			if m.activeTab == tabAnalyzer {
				return m, m.analyzer.Init()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.controller.State() == routing.StateMainApp && m.ready {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "ctrl+o":
				return m, func() tea.Msg { return view.SignedOutMsg{} }
			}
		}
	}

	return m.dispatch(msg)
}

// dispatch routes messages to the active screen.
func (m model) dispatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var updated tea.Model

	if !m.revealed {
		updated, cmd = m.calculator.Update(msg)
		m.calculator = updated.(view.CalculatorModel)
		return m, cmd
	}

	switch m.controller.State() {
	case routing.StateLoginRequired:
		updated, cmd = m.login.Update(msg)
		m.login = updated.(view.LoginModel)
	case routing.StateBiometricGate:
		updated, cmd = m.gate.Update(msg)
		m.gate = updated.(view.GateModel)
	case routing.StateMainApp:
		if !m.ready {
			return m, nil
		}
		switch m.activeTab {
		case tabSavings:
			updated, cmd = m.savings.Update(msg)
			m.savings = updated.(view.SavingsModel)
		case tabAnalyzer:
			updated, cmd = m.analyzer.Update(msg)
			m.analyzer = updated.(view.AnalyzerModel)
		}
	}

	return m, cmd
}

// enterMainApp loads the account document and builds the tab models. Decoy
// sessions read from the decoy store and never touch the real document.
func (m model) enterMainApp(ctx context.Context) (tea.Model, tea.Cmd) {
	store := m.store
	if m.gateway.IsDecoy() {
		store = m.decoyStore
	}

	uid := m.uid
	if uid == "" {
		uid = "decoy"
	}

	doc, err := store.Get(ctx, uid)
	if err != nil {
		m.log.Warn().Err(err).Msg("No account document yet, starting empty")
		doc = &docstore.UserDocument{}
	}

	tracker := savings.NewTracker(uid, store, doc.Categories)
	m.savings = view.NewSavingsModel(tracker)
	m.analyzer = view.NewAnalyzerModel(m.generator, tracker, doc.TransactionData)
	m.ready = true
	m.activeTab = tabSavings

	return m, nil
}

var tabBar = lipgloss.NewStyle().Faint(true).MarginBottom(1)

func (m model) View() string {
	if !m.revealed {
		return m.calculator.View()
	}

	switch m.controller.State() {
	case routing.StateLoginRequired:
		return m.login.View()
	case routing.StateBiometricGate:
		return m.gate.View()
	case routing.StateMainApp:
		if !m.ready {
			return "Loading…\n"
		}

		bar := "Esc: switch tab (Savings Plan / Analyzer)   Ctrl+o: sign out"
		body := m.savings.View()
		if m.activeTab == tabAnalyzer {
			body = m.analyzer.View()
		}
		return tabBar.Render(bar) + "\n" + body
	}

	return "Loading…\n"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Log to a file so the TUI screen stays clean.
	logFile, err := os.OpenFile("cipher-tui.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.NewWithWriter(logFile)

	ctx := context.Background()

	ks, err := keystore.Open(cfg.Keystore.Path, cfg.Keystore.Passphrase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open keystore: %v\n", err)
		os.Exit(1)
	}
	sessions := session.NewStore(ks)

	identity, err := auth.NewFirebaseIdentity(ctx, cfg.Firebase.ProjectID, cfg.Firebase.WebAPIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize identity provider: %v\n", err)
		os.Exit(1)
	}
	gateway := auth.NewGateway(identity, sessions, log)

	var store docstore.Store
	if cfg.Firebase.ProjectID != "" {
		fs, err := docstore.NewFirestoreStore(ctx, cfg.Firebase.ProjectID, cfg.Firestore.Collection)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create data store: %v\n", err)
			os.Exit(1)
		}
		defer fs.Close()
		store = fs
	} else {
		log.Warn().Msg("No Firebase project configured - using in-memory data store")
		store = docstore.NewMemory()
	}

	gemini, err := insight.NewGeminiModel(ctx, cfg.Gemini.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create model client: %v\n", err)
		os.Exit(1)
	}
	generator := insight.NewGenerator(gemini, cfg.Gemini.CallDelay, cfg.Gemini.Concurrent, log)

	gate := biometric.NewHelperGate(cfg.Biometric.Helper)
	controller := routing.NewController(gateway, gate, log)

	root := model{
		controller: controller,
		gateway:    gateway,
		sessions:   sessions,
		store:      store,
		decoyStore: decoy.NewStore(),
		generator:  generator,
		log:        log,
		calculator: view.NewCalculatorModel(),
		login:      view.NewLoginModel(gateway, sessions),
		gate:       view.NewGateModel(controller.Unlock),
	}

	p := tea.NewProgram(root)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run TUI: %v\n", err)
		os.Exit(1)
	}
}
