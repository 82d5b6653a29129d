package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateForm
	txStateConfirmDelete
)

type txItem struct {
	tx transaction.Transaction
}

func (i txItem) Title() string {
	amount := FormatAmount(i.tx.Amount)
	if i.tx.Type == transaction.TypeExpense {
		amount = "-" + amount
	}

	typ := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.Type))

	return fmt.Sprintf("%s  %12s  %s  %s", FormatDate(i.tx.Date), amount, typ, i.tx.Category)
}

func (i txItem) Description() string { return i.tx.Notes }

func (i txItem) FilterValue() string {
	return i.tx.Category + " " + i.tx.Notes
}

// txForm holds the huh bindings. It is shared by pointer so edits made while
// the form runs are visible from copies of the model.
type txForm struct {
	id       uuid.UUID
	date     string
	typ      transaction.Type
	category string
	amount   string
	notes    string
}

type TransactionsModel struct {
	ledger *ledger.Service

	state           txState
	timeframePicker TimeframePicker
	timeframe       TimeframeSelectedMsg
	list            list.Model
	form            *huh.Form
	fields          *txForm
	confirm         *bool
	status          string
}

func NewTransactionsModel(svc *ledger.Service) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return TransactionsModel{
		ledger:          svc,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek, svc.Now),
		list:            l,
		fields:          &txForm{},
		confirm:         new(bool),
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | a: add | Enter: edit | d: delete | t: timeframe | /: filter"
	case txStateForm, txStateConfirmDelete:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.state = txStateList
		m.reload()

		return m, nil

	case txSavedMsg:
		m.state = txStateList
		m.form = nil

		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateForm, txStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

// reload reads from the in-memory ledger, so it needs no command.
func (m *TransactionsModel) reload() {
	txs := m.ledger.ListTransactions(m.timeframe.Filter(transaction.ListFilter{}))

	items := make([]list.Item, len(txs))
	for i, tx := range txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)

	if len(txs) == 0 && m.status == "" {
		m.status = "No transactions found."
	}
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "enter":
			if selected, ok := m.list.SelectedItem().(txItem); ok {
				return m.startForm(&selected.tx)
			}

			return m, nil
		case "a":
			return m.startForm(nil)
		case "d":
			return m.startDelete()
		case "t":
			m.timeframePicker.Reset()
			m.state = txStateTimeframe
			m.status = ""

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

// startForm opens the add form, or the edit form when tx is set.
func (m TransactionsModel) startForm(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	*m.fields = txForm{
		date: FormatDate(m.ledger.Now()),
		typ:  transaction.TypeExpense,
	}

	if tx != nil {
		*m.fields = txForm{
			id:       tx.ID,
			date:     FormatDate(tx.Date),
			typ:      tx.Type,
			category: tx.Category,
			amount:   FormatAmount(tx.Amount),
			notes:    tx.Notes,
		}
	}

	f := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					_, err := parseDay(s, m.ledger.Now())
					return err
				}),

			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&f.typ),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&f.category).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return transaction.ErrEmptyCategory
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&f.amount).
				Validate(func(s string) error {
					_, err := parseMoney(s, false)
					return err
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes (optional)").
				Value(&f.notes),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateForm

	return m, m.form.Init()
}

func (m TransactionsModel) startDelete() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.fields.id = selected.tx.ID
	*m.confirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %s on %s?",
					selected.tx.Category, FormatAmount(selected.tx.Amount), FormatDate(selected.tx.Date))).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateConfirmDelete

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == txStateConfirmDelete {
		if !*m.confirm {
			m.state = txStateList
			m.form = nil

			return m, nil
		}

		return m, m.deleteCmd(m.fields.id)
	}

	return m, m.saveCmd(*m.fields)
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		header := lipgloss.NewStyle().Faint(true).Render(m.timeframe.Label())
		if m.status != "" {
			header += "  " + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n" + m.list.View())

	case txStateForm, txStateConfirmDelete:
		if m.form == nil {
			return ""
		}

		title := "New transaction"
		if m.fields.id != uuid.Nil {
			title = "Edit transaction"
		}

		if m.state == txStateConfirmDelete {
			title = "Delete transaction"
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + m.form.View(),
		)
	}

	return ""
}

type txSavedMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveCmd(f txForm) tea.Cmd {
	svc := m.ledger

	return func() tea.Msg {
		date, err := parseDay(f.date, svc.Now())
		if err != nil {
			return txSavedMsg{err: err}
		}

		amount, err := parseMoney(f.amount, false)
		if err != nil {
			return txSavedMsg{err: err}
		}

		params := transaction.CreateParams{
			Date:     date,
			Category: f.category,
			Amount:   amount,
			Type:     f.typ,
			Notes:    f.notes,
		}

		ctx, cancel := storeCtx()
		defer cancel()

		if f.id == uuid.Nil {
			if _, err := svc.AddTransaction(ctx, params); err != nil {
				return txSavedMsg{err: err}
			}

			return txSavedMsg{status: "Added."}
		}

		if _, err := svc.UpdateTransaction(ctx, f.id, params); err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{status: "Saved."}
	}
}

func (m TransactionsModel) deleteCmd(id uuid.UUID) tea.Cmd {
	svc := m.ledger

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if err := svc.DeleteTransaction(ctx, id); err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{status: "Deleted."}
	}
}

type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	if i.Description() == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
