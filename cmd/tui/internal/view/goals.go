package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

type goalsState int

const (
	goalsStateBrowse goalsState = iota
	goalsStateNew
	goalsStateContribute
)

type goalFields struct {
	name     string
	target   string
	deadline string
	amount   string
}

type GoalsModel struct {
	ledger *ledger.Service

	state  goalsState
	goals  []ledger.Goal
	cursor int
	bar    progress.Model
	form   *huh.Form
	fields *goalFields
	status string
}

func NewGoalsModel(svc *ledger.Service) GoalsModel {
	m := GoalsModel{
		ledger: svc,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		fields: &goalFields{},
	}
	m.reload()

	return m
}

func (m GoalsModel) Title() string { return "Goals" }

func (m GoalsModel) ShortHelp() string {
	if m.state != goalsStateBrowse {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | n: new | c: contribute | d: delete"
}

func (m GoalsModel) Init() tea.Cmd {
	return nil
}

func (m *GoalsModel) reload() {
	m.goals = m.ledger.State().Goals
	m.cursor = min(m.cursor, max(len(m.goals)-1, 0))
}

func (m GoalsModel) selected() (ledger.Goal, bool) {
	if m.cursor >= len(m.goals) {
		return ledger.Goal{}, false
	}

	return m.goals[m.cursor], true
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(goalSavedMsg); ok {
		m.state = goalsStateBrowse
		m.form = nil

		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.reload()

		return m, nil
	}

	if m.state != goalsStateBrowse {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.goals)-1 {
			m.cursor++
		}
	case "n":
		return m.startNew()
	case "c":
		if g, ok := m.selected(); ok {
			if g.Completed() {
				m.status = "Goal already reached."
				return m, nil
			}

			return m.startContribute(g)
		}
	case "d":
		if g, ok := m.selected(); ok {
			return m, m.deleteCmd(g.ID)
		}
	}

	return m, nil
}

func (m GoalsModel) startNew() (tea.Model, tea.Cmd) {
	*m.fields = goalFields{}
	f := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&f.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return ledger.ErrEmptyGoalName
					}
					return nil
				}),

			huh.NewInput().
				Key("target").
				Title("Target").
				Value(&f.target).
				Validate(func(s string) error {
					_, err := parseMoney(s, false)
					return err
				}),

			huh.NewInput().
				Key("deadline").
				Title("Deadline (optional)").
				Placeholder("YYYY-MM-DD").
				Value(&f.deadline),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = goalsStateNew

	return m, m.form.Init()
}

func (m GoalsModel) startContribute(g ledger.Goal) (tea.Model, tea.Cmd) {
	*m.fields = goalFields{}
	f := m.fields

	st := m.ledger.State()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Contribute to %s", g.Name)).
				Description(fmt.Sprintf("Remaining %s, savings available %s",
					FormatAmount(g.Remaining()), FormatAmount(st.AvailableSavings()))).
				Value(&f.amount).
				Validate(func(s string) error {
					_, err := parseMoney(s, false)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = goalsStateContribute

	return m, m.form.Init()
}

func (m GoalsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = goalsStateBrowse
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

	if m.state == goalsStateNew {
		return m, m.addCmd(*m.fields)
	}

	g, ok := m.selected()
	if !ok {
		m.state = goalsStateBrowse
		return m, nil
	}

	return m, m.contributeCmd(g.ID, m.fields.amount)
}

func (m GoalsModel) View() string {
	if m.state != goalsStateBrowse && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	var b strings.Builder

	if m.status != "" {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n")
	}

	if len(m.goals) == 0 {
		b.WriteString("No goals yet. Press n to create one.")
		return lipgloss.NewStyle().Padding(1).Render(b.String())
	}

	for i, g := range m.goals {
		cursor := "  "
		name := g.Name

		if i == m.cursor {
			cursor = "> "
			name = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render(name)
		}

		detail := fmt.Sprintf("%s / %s", FormatAmount(g.Current), FormatAmount(g.Target))
		if g.Deadline != nil {
			detail += "  due " + FormatDate(*g.Deadline)
		}

		if g.Completed() {
			detail += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("done")
		}

		fmt.Fprintf(&b, "%s%s\n  %s  %s\n\n", cursor, name, m.bar.ViewAs(g.Progress()/100), detail)
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

type goalSavedMsg struct {
	status string
	err    error
}

func (m GoalsModel) addCmd(f goalFields) tea.Cmd {
	svc := m.ledger

	return func() tea.Msg {
		target, err := parseMoney(f.target, false)
		if err != nil {
			return goalSavedMsg{err: err}
		}

		p := ledger.GoalParams{Name: f.name, Target: target}

		if strings.TrimSpace(f.deadline) != "" {
			d, err := parseDay(f.deadline, svc.Now())
			if err != nil {
				return goalSavedMsg{err: err}
			}

			p.Deadline = &d
		}

		ctx, cancel := storeCtx()
		defer cancel()

		if _, err := svc.AddGoal(ctx, p); err != nil {
			return goalSavedMsg{err: err}
		}

		return goalSavedMsg{status: "Goal created."}
	}
}

func (m GoalsModel) contributeCmd(id uuid.UUID, input string) tea.Cmd {
	svc := m.ledger

	return func() tea.Msg {
		amount, err := parseMoney(input, false)
		if err != nil {
			return goalSavedMsg{err: err}
		}

		ctx, cancel := storeCtx()
		defer cancel()

		res, err := svc.Contribute(ctx, id, amount)
		if err != nil {
			return goalSavedMsg{err: err}
		}

		if res.Completed {
			return goalSavedMsg{status: fmt.Sprintf("%s reached!", res.Goal.Name)}
		}

		return goalSavedMsg{status: fmt.Sprintf("Added %s to %s.", FormatAmount(res.Transaction.Amount), res.Goal.Name)}
	}
}

func (m GoalsModel) deleteCmd(id uuid.UUID) tea.Cmd {
	svc := m.ledger

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if err := svc.DeleteGoal(ctx, id); err != nil {
			return goalSavedMsg{err: err}
		}

		return goalSavedMsg{status: "Goal deleted."}
	}
}
