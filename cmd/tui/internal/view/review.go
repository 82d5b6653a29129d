package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks uncategorized transactions one at a time. Each chosen
// category is learned against the transaction notes so later imports of the
// same description are categorized automatically.
type ReviewModel struct {
	ledger   *ledger.Service
	matching *matching.Service

	state           reviewState
	timeframePicker TimeframePicker

	queue   []transaction.Transaction
	current *transaction.Transaction
	total   int
	input   textinput.Model
	status  string
}

func NewReviewModel(svc *ledger.Service, matchSvc *matching.Service) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Category"
	ti.Width = 40

	return ReviewModel{
		ledger:          svc,
		matching:        matchSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth, svc.Now),
		input:           ti,
	}
}

func (m ReviewModel) Title() string { return "Categorize" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateTimeframe {
		return "Esc: back | Enter: select"
	}

	return "Enter: save & next | Tab: skip | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.queue = uncategorized(m.ledger.ListTransactions(msg.Filter(transaction.ListFilter{})))
		m.total = len(m.queue)
		m.state = reviewStateReviewing

		return m, m.next()

	case categorizedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		return m, m.next()
	}

	if m.state == reviewStateTimeframe {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = reviewStateTimeframe
			m.timeframePicker.Reset()
			m.current = nil
			m.input.Blur()

			return m, Back
		case tea.KeyTab:
			return m, m.next()
		case tea.KeyEnter:
			if m.current == nil {
				return m, nil
			}

			category := strings.TrimSpace(m.input.Value())
			if category == "" || category == ledger.UncategorizedCategory {
				m.status = "Enter a category, or Tab to skip."
				return m, nil
			}

			return m, m.saveCmd(*m.current, category)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func uncategorized(txs []transaction.Transaction) []transaction.Transaction {
	var out []transaction.Transaction

	for _, tx := range txs {
		if tx.Category == ledger.UncategorizedCategory {
			out = append(out, tx)
		}
	}

	return out
}

// next pops the queue and prefills the input with a learned suggestion.
func (m *ReviewModel) next() tea.Cmd {
	if len(m.queue) == 0 {
		m.current = nil
		m.input.Blur()
		m.input.SetValue("")

		m.status = "Nothing left to categorize."
		if m.total > 0 {
			m.status = fmt.Sprintf("All done! %d reviewed.", m.total)
		}

		return nil
	}

	tx := m.queue[0]
	m.queue = m.queue[1:]
	m.current = &tx
	m.status = fmt.Sprintf("Reviewing %d/%d", m.total-len(m.queue), m.total)

	suggestion := ""

	if tx.Notes != "" {
		ctx, cancel := storeCtx()
		suggestion, _ = m.matching.Suggest(ctx, tx.Notes)
		cancel()
	}

	m.input.SetValue(suggestion)
	m.input.CursorEnd()

	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.current == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	info := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf("Date:   %s\nType:   %s\nAmount: %s\nNotes:  %s",
			FormatDate(m.current.Date),
			m.current.Type,
			FormatAmount(m.current.Amount),
			m.current.Notes,
		))

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("%s\n\n%s\n\nCategory:\n%s", m.status, info, m.input.View()),
	)
}

type categorizedMsg struct {
	err error
}

func (m ReviewModel) saveCmd(tx transaction.Transaction, category string) tea.Cmd {
	svc, matchSvc := m.ledger, m.matching

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if tx.Notes != "" {
			if _, err := matchSvc.Learn(ctx, tx.Notes, category); err != nil {
				return categorizedMsg{err: err}
			}
		}

		_, err := svc.UpdateTransaction(ctx, tx.ID, transaction.CreateParams{
			Date:     tx.Date,
			Category: category,
			Amount:   tx.Amount,
			Type:     tx.Type,
			Notes:    tx.Notes,
		})

		return categorizedMsg{err: err}
	}
}
