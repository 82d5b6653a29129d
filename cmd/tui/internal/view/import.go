package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importChooseFormat importStep = iota
	importChooseFile
	importReading
	importResolve
	importFinished
)

// importChoice holds what the forms write. It sits behind a pointer so the
// huh bindings survive model copies.
type importChoice struct {
	format importer.Format
	keep   []int
}

type importOutcome struct {
	imported int
	skipped  int
	err      error
}

type importReadMsg struct {
	result *ledger.ImportResult
	err    error
}

type importSavedMsg importOutcome

// ImportModel reads a statement file into the ledger. Rows that look like
// transactions already recorded are held back until the user picks which of
// them to import anyway.
type ImportModel struct {
	ledger   *ledger.Service
	importer *importer.Service

	step    importStep
	choice  *importChoice
	form    *huh.Form
	picker  filepicker.Model
	path    string
	pending *ledger.ImportResult
	outcome importOutcome
}

func NewImportModel(svc *ledger.Service, impSvc *importer.Service) ImportModel {
	picker := filepicker.New()
	picker.CurrentDirectory, _ = os.Getwd()
	picker.AllowedTypes = []string{".csv", ".CSV"}
	picker.DirAllowed = false
	picker.FileAllowed = true
	picker.SetHeight(15)

	m := ImportModel{
		ledger:   svc,
		importer: impSvc,
		picker:   picker,
	}

	return m.start()
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	switch m.step {
	case importResolve:
		return "Space: toggle | Enter: import | Esc: cancel"
	case importFinished:
		return "Enter: import another | Esc: back to menu"
	case importReading:
		return "Reading..."
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) start() ImportModel {
	m.step = importChooseFormat
	m.choice = &importChoice{format: importer.FormatPocket}
	m.pending = nil
	m.outcome = importOutcome{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[importer.Format]().
				Title("File format").
				Options(
					huh.NewOption("Pocket CSV (Date,Category,Amount,Type,Notes)", importer.FormatPocket),
					huh.NewOption("Caixa Geral de Depósitos statement", importer.FormatCGD),
				).
				Value(&m.choice.format),
		),
	).WithWidth(60).WithShowHelp(false)

	return m
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importReadMsg:
		return m.afterRead(msg)
	case importSavedMsg:
		m.step = importFinished
		m.outcome = importOutcome(msg)

		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.stepBack()
		}

		if m.step == importFinished && msg.Type == tea.KeyEnter {
			m = m.start()
			return m, m.form.Init()
		}
	}

	switch m.step {
	case importChooseFormat, importResolve:
		return m.updateForm(msg)
	case importChooseFile:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.step = importReading
			m.path = path

			return m, m.read(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) stepBack() (tea.Model, tea.Cmd) {
	switch m.step {
	case importChooseFile, importResolve:
		m = m.start()
		return m, m.form.Init()
	case importFinished:
		return m.start(), Back
	case importReading:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.step == importResolve {
		return m, m.save()
	}

	m.step = importChooseFile

	return m, m.picker.Init()
}

// afterRead finishes straight away when nothing clashes; ImportBatch has
// already saved the rows. Otherwise it asks which duplicates to keep.
func (m ImportModel) afterRead(msg importReadMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.step = importFinished
		m.outcome = importOutcome{err: msg.err}

		return m, nil
	case len(msg.result.Conflicts) == 0:
		m.step = importFinished
		m.outcome = importOutcome{imported: len(msg.result.Imported)}

		return m, nil
	}

	m.pending = msg.result
	m.choice.keep = nil
	m.step = importResolve

	options := make([]huh.Option[int], len(msg.result.Conflicts))
	for i, c := range msg.result.Conflicts {
		options[i] = huh.NewOption(conflictLabel(c), i)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Import these anyway?").
				Description(fmt.Sprintf("%d new rows are imported either way", len(msg.result.New))).
				Options(options...).
				Value(&m.choice.keep),
		),
	).WithWidth(100).WithShowHelp(false)

	return m, m.form.Init()
}

func conflictLabel(c ledger.Conflict) string {
	in, have := c.Incoming, c.Existing

	return fmt.Sprintf("%s %s %s %s  (have: %s %s)",
		FormatDate(in.Date), FormatAmount(in.Amount), in.Category, in.Notes,
		have.Category, FormatAmount(have.Amount),
	)
}

func (m ImportModel) read(path string) tea.Cmd {
	impSvc, svc, format := m.importer, m.ledger, m.choice.format

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importReadMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		params, err := impSvc.Import(ctx, format, f)
		if err != nil {
			return importReadMsg{err: err}
		}

		result, err := svc.ImportBatch(ctx, params)

		return importReadMsg{result: result, err: err}
	}
}

// save writes the new rows together with the duplicates the user kept.
func (m ImportModel) save() tea.Cmd {
	svc := m.ledger
	rows := slices.Clone(m.pending.New)

	for i, c := range m.pending.Conflicts {
		if slices.Contains(m.choice.keep, i) {
			rows = append(rows, c.Incoming)
		}
	}

	skipped := len(m.pending.Conflicts) - (len(rows) - len(m.pending.New))

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := svc.CreateBatch(ctx, rows)

		return importSavedMsg{imported: len(txs), skipped: skipped, err: err}
	}
}

func (m ImportModel) View() string {
	var body string

	switch m.step {
	case importChooseFormat, importResolve:
		body = m.form.View()
	case importChooseFile:
		body = fmt.Sprintf("Choose a %s file:\n\n%s", m.choice.format, m.picker.View())
	case importReading:
		body = "Reading " + filepath.Base(m.path) + "..."
	case importFinished:
		body = m.viewOutcome()
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

func (m ImportModel) viewOutcome() string {
	if m.outcome.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Import failed: " + m.outcome.err.Error())
	}

	line := fmt.Sprintf("Imported %d transactions.", m.outcome.imported)
	if m.outcome.skipped > 0 {
		line += fmt.Sprintf(" Skipped %d duplicates.", m.outcome.skipped)
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(line)
}
