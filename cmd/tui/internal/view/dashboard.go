package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/insight"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/report"
)

type dashboardState int

const (
	dashboardStateBrowse dashboardState = iota
	dashboardStateBudget
)

type DashboardModel struct {
	ledger   *ledger.Service
	currency string

	state   dashboardState
	summary report.Summary
	table   table.Model
	form    *huh.Form
	status  string

	// Form bindings live behind a pointer so huh writes survive model copies.
	budget *string
}

func NewDashboardModel(svc *ledger.Service, currency string) DashboardModel {
	columns := []table.Column{
		{Title: "Category", Width: 24},
		{Title: "Spent", Width: 16},
		{Title: "Share", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := DashboardModel{
		ledger:   svc,
		currency: currency,
		table:    t,
		budget:   new(string),
	}
	m.refresh()

	return m
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateBudget {
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | b: budget | t: theme | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m *DashboardModel) refresh() {
	m.summary = report.Summarize(m.ledger.State(), m.ledger.Now())

	rows := make([]table.Row, 0, len(m.summary.Categories))
	for _, c := range m.summary.Categories {
		share := 0.0
		if m.summary.Expense > 0 {
			share = float64(c.Amount) / float64(m.summary.Expense) * 100
		}

		rows = append(rows, table.Row{c.Category, FormatAmount(c.Amount), fmt.Sprintf("%.0f%%", share)})
	}

	m.table.SetRows(rows)
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardSavedMsg:
		m.state = dashboardStateBrowse
		m.form = nil
		m.table.Focus()

		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-24, 5))
		return m, nil
	}

	if m.state == dashboardStateBudget {
		return m.updateBudget(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refresh()
			m.status = ""

			return m, nil
		case "t":
			return m, m.toggleThemeCmd()
		case "b":
			return m.enterBudget()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) enterBudget() (tea.Model, tea.Cmd) {
	*m.budget = ""
	if m.summary.Budget.Limit > 0 {
		*m.budget = decimal.New(m.summary.Budget.Limit, -2).StringFixed(2)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("budget").
				Title("Monthly budget").
				Description("Leave empty or 0 to remove the budget").
				Value(m.budget).
				Validate(func(s string) error {
					_, err := parseMoney(s, true)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = dashboardStateBudget
	m.table.Blur()

	return m, m.form.Init()
}

func (m DashboardModel) updateBudget(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashboardStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveBudgetCmd(*m.budget)
}

func (m DashboardModel) View() string {
	s := m.summary
	money := func(c int64) string { return report.Money(c, m.currency) }

	label := lipgloss.NewStyle().Width(14).Faint(true)
	line := func(name, value string) string { return label.Render(name) + value }

	health := line("Health", fmt.Sprintf("%d/100 %s", s.Health.Score, s.Health.Grade))

	budget := line("Budget", "not set")
	if s.Budget.Limit > 0 {
		budget = line("Budget", fmt.Sprintf("%s of %s (%.0f%%)", money(s.Budget.Spent), money(s.Budget.Limit), s.Budget.UsedPct))
		if s.Budget.Exceeded {
			budget = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(budget)
		}
	}

	numbers := lipgloss.JoinVertical(lipgloss.Left,
		line("Income", money(s.Income)),
		line("Expenses", money(s.Expense)),
		line("Savings", money(s.Savings)),
		budget,
		health,
		line("Net worth", money(s.NetWorth)),
		line("Portfolio", fmt.Sprintf("%s (P&L %s)", money(s.Portfolio.Value), money(s.Portfolio.PnL))),
		line("Burn rate", money(s.BurnRate)+" / month"),
		line("Forecast", fmt.Sprintf("%s %s", s.Forecast.Month, money(s.Forecast.Total))),
		line("Theme", s.Theme),
	)

	advice := lipgloss.NewStyle().
		Foreground(adviceColor(s.Advice.Level)).
		Width(70).
		Render(s.Advice.Message)

	var upcoming strings.Builder
	for _, u := range s.Upcoming {
		fmt.Fprintf(&upcoming, "  %s  %s  %s\n", u.Due, u.Name, money(u.Amount))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Pocket"),
		"",
		numbers,
		"",
		advice,
		"",
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if upcoming.Len() > 0 {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", "Due this week:", upcoming.String())
	}

	if m.state == dashboardStateBudget && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func adviceColor(level string) lipgloss.Color {
	switch insight.Level(level) {
	case insight.LevelSuccess:
		return lipgloss.Color("46")
	case insight.LevelWarning:
		return lipgloss.Color("214")
	case insight.LevelCritical:
		return lipgloss.Color("196")
	}

	return lipgloss.Color("252")
}

type dashboardSavedMsg struct {
	status string
	err    error
}

func (m DashboardModel) saveBudgetCmd(input string) tea.Cmd {
	return func() tea.Msg {
		cents, err := parseMoney(input, true)
		if err != nil {
			return dashboardSavedMsg{err: err}
		}

		ctx, cancel := storeCtx()
		defer cancel()

		if err := m.ledger.SetBudget(ctx, cents); err != nil {
			return dashboardSavedMsg{err: err}
		}

		return dashboardSavedMsg{status: "Budget saved."}
	}
}

func (m DashboardModel) toggleThemeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		t, err := m.ledger.ToggleTheme(ctx)
		if err != nil {
			return dashboardSavedMsg{err: err}
		}

		return dashboardSavedMsg{status: fmt.Sprintf("Theme set to %s.", t)}
	}
}
