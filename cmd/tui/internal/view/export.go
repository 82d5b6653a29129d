package view

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

const (
	exportTimeout    = 2 * time.Minute
	defaultExportDir = "./exports"
)

// exportStep is where the export screen is in its pick range, set options,
// review, write, done sequence.
type exportStep int

const (
	exportPickRange exportStep = iota
	exportSetOptions
	exportReview
	exportWriting
	exportDone
)

type exportInput struct {
	dir      string
	category string
}

type exportDoneMsg struct {
	res *export.Result
	err error
}

// ExportModel writes the CSV and report for a chosen range. Before writing
// it shows how many transactions the range and category filter select.
type ExportModel struct {
	svc *export.Service

	step     exportStep
	picker   TimeframePicker
	selected TimeframeSelectedMsg
	form     *huh.Form
	input    *exportInput
	spin     spinner.Model

	result *export.Result
	err    error
}

func NewExportModel(svc *export.Service, now func() time.Time) ExportModel {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		svc:    svc,
		picker: NewTimeframePicker(TimeframeThisMonth, now),
		input:  &exportInput{dir: defaultExportDir},
		spin:   spin,
	}
}

func (m ExportModel) Title() string { return "Export" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportReview:
		return "Enter: write files | Esc: change options"
	case exportWriting:
		return "Writing..."
	case exportDone:
		return "Enter: export again | Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.selected = msg
		return m.editOptions()
	case exportDoneMsg:
		m.step = exportDone
		m.result, m.err = msg.res, msg.err

		return m, nil
	case spinner.TickMsg:
		if m.step != exportWriting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)

		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.step != exportPickRange {
			return m.stepBack()
		}
	}

	switch m.step {
	case exportPickRange:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	case exportSetOptions:
		return m.updateOptions(msg)
	case exportReview:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
			m.step = exportWriting
			return m, tea.Batch(m.spin.Tick, m.write())
		}
	case exportDone:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
			return m.restart(), nil
		}
	}

	return m, nil
}

// stepBack handles Esc after the range is picked. Leaving the finished screen
// also resets it for the next visit.
func (m ExportModel) stepBack() (tea.Model, tea.Cmd) {
	switch m.step {
	case exportSetOptions:
		m.picker.Reset()
		m.step = exportPickRange
	case exportReview:
		return m.editOptions()
	case exportDone:
		return m.restart(), Back
	}

	return m, nil
}

func (m ExportModel) restart() ExportModel {
	m.picker.Reset()
	m.step = exportPickRange
	m.result, m.err = nil, nil

	return m
}

func (m ExportModel) editOptions() (tea.Model, tea.Cmd) {
	m.step = exportSetOptions
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Directory").
				Description("Created when missing").
				Placeholder(defaultExportDir).
				Value(&m.input.dir),

			huh.NewInput().
				Title("Category contains (optional)").
				Value(&m.input.category),
		),
	).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.step = exportReview
		return m, nil
	}

	return m, cmd
}

func (m ExportModel) filter() transaction.ListFilter {
	return m.selected.Filter(transaction.ListFilter{Query: strings.TrimSpace(m.input.category)})
}

func (m ExportModel) dir() string {
	if d := strings.TrimSpace(m.input.dir); d != "" {
		return d
	}

	return defaultExportDir
}

func (m ExportModel) write() tea.Cmd {
	svc, filter, dir := m.svc, m.filter(), m.dir()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		res, err := svc.Export(ctx, filter, dir)

		return exportDoneMsg{res: res, err: err}
	}
}

func (m ExportModel) View() string {
	var body string

	switch m.step {
	case exportPickRange:
		body = m.picker.View()
	case exportSetOptions:
		body = m.form.View()
	case exportReview:
		body = m.viewReview()
	case exportWriting:
		body = m.spin.View() + " Writing CSV and report..."
	case exportDone:
		body = m.viewDone()
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

func (m ExportModel) viewReview() string {
	category := strings.TrimSpace(m.input.category)
	if category == "" {
		category = "all"
	}

	lines := []string{
		"Range:      " + m.selected.Label(),
		"Categories: " + category,
		"Directory:  " + m.dir(),
		"",
	}

	n := m.svc.Matching(m.filter())
	if n == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).
			Render("No transactions match. The report is still written."))
	} else {
		lines = append(lines, fmt.Sprintf("%d transactions will be written.", n))
	}

	return strings.Join(lines, "\n")
}

func (m ExportModel) viewDone() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Export failed: " + m.err.Error())
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export complete")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.svc.Summary(m.result),
		"Report -> "+filepath.Base(m.result.ReportPath),
	)
}
