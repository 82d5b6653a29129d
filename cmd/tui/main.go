package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocket/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/pocket/internal/ledger/store"
	"github.com/MrJamesThe3rd/pocket/internal/logging"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pocket/internal/matching/store"
)

type model struct {
	ledger          *ledger.Service
	matchingService *matching.Service
	importService   *importer.Service
	exportService   *export.Service
	currency        string

	currentView View
	size        tea.WindowSizeMsg

	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	goalsView        view.GoalsModel
	reviewView       view.ReviewModel
	importView       view.ImportModel
	exportView       view.ExportModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewTransactions View = 2
	ViewGoals        View = 3
	ViewReview       View = 4
	ViewImport       View = 5
	ViewExport       View = 6
)

func initialModel(cfg *config.Config) (model, func(), error) {
	if err := database.Migrate(cfg.Storage.Driver, cfg.DSN()); err != nil {
		return model{}, nil, fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(cfg.Storage.Driver, cfg.DSN())
	if err != nil {
		return model{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	ledgerSvc := ledger.NewService(ledgerStore.New(db, cfg.Storage.Driver), cfg.Storage.StateKey)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := ledgerSvc.Open(ctx); err != nil {
		db.Close()
		return model{}, nil, fmt.Errorf("opening ledger: %w", err)
	}

	matchSvc := matching.NewService(matchingStore.New(db, cfg.Storage.Driver))
	impSvc := importer.NewService(matchSvc)
	expSvc := export.NewService(ledgerSvc, cfg.App.Currency)

	m := model{
		ledger:          ledgerSvc,
		matchingService: matchSvc,
		importService:   impSvc,
		exportService:   expSvc,
		currency:        cfg.App.Currency,
		currentView:     ViewMenu,
	}

	return m, func() { db.Close() }, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

// resize replays the last window size to a freshly built view.
func (m model) resize() tea.Cmd {
	if m.size.Width == 0 {
		return nil
	}

	size := m.size

	return func() tea.Msg { return size }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.ledger, m.currency)

				return m, tea.Batch(m.dashboardView.Init(), m.resize())
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.ledger)

				return m, tea.Batch(m.transactionsView.Init(), m.resize())
			case "3":
				m.currentView = ViewGoals
				m.goalsView = view.NewGoalsModel(m.ledger)

				return m, m.goalsView.Init()
			case "4":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.ledger, m.matchingService)

				return m, m.reviewView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.ledger, m.importService)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.ledger.Now)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	var next tea.Model

	switch m.currentView {
	case ViewDashboard:
		next, cmd = m.dashboardView.Update(msg)
		m.dashboardView = next.(view.DashboardModel)
	case ViewTransactions:
		next, cmd = m.transactionsView.Update(msg)
		m.transactionsView = next.(view.TransactionsModel)
	case ViewGoals:
		next, cmd = m.goalsView.Update(msg)
		m.goalsView = next.(view.GoalsModel)
	case ViewReview:
		next, cmd = m.reviewView.Update(msg)
		m.reviewView = next.(view.ReviewModel)
	case ViewImport:
		next, cmd = m.importView.Update(msg)
		m.importView = next.(view.ImportModel)
	case ViewExport:
		next, cmd = m.exportView.Update(msg)
		m.exportView = next.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Pocket\n\n" +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. Goals\n" +
				"4. Categorize\n" +
				"5. Import CSV\n" +
				"6. Export\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return view.Frame(m.dashboardView)
	case ViewTransactions:
		return view.Frame(m.transactionsView)
	case ViewGoals:
		return view.Frame(m.goalsView)
	case ViewReview:
		return view.Frame(m.reviewView)
	case ViewImport:
		return view.Frame(m.importView)
	case ViewExport:
		return view.Frame(m.exportView)
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := tea.LogToFile("pocket-tui.log", "")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logging.Setup(logFile, cfg.App.LogLevel, cfg.App.LogFormat)

	m, closeDB, err := initialModel(cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		fmt.Fprintln(os.Stderr, err)
		logFile.Close()
		os.Exit(1)
	}
	defer closeDB()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
	}
}
