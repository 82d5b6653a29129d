package view

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// Timeframe is a preset or custom date range.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

var timeframeNames = map[Timeframe]string{
	TimeframeThisWeek:  "This Week",
	TimeframeLastWeek:  "Last Week",
	TimeframeThisMonth: "This Month",
	TimeframeLastMonth: "Last Month",
	TimeframeAll:       "All Time",
	TimeframeCustom:    "Custom Range",
}

func (t Timeframe) String() string {
	if name, ok := timeframeNames[t]; ok {
		return name
	}

	return "Unknown"
}

// Range returns the first and last day covered by t as of now. Weeks start
// on Monday. All and Custom have no fixed range and return zero times.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time) {
	today := transaction.DateOnly(now)

	monday := today.AddDate(0, 0, -(int(today.Weekday())+6)%7)
	firstOfMonth := today.AddDate(0, 0, 1-today.Day())

	switch t {
	case TimeframeThisWeek:
		return monday, today
	case TimeframeLastWeek:
		return monday.AddDate(0, 0, -7), monday.AddDate(0, 0, -1)
	case TimeframeThisMonth:
		return firstOfMonth, today
	case TimeframeLastMonth:
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth.AddDate(0, 0, -1)
	}

	return time.Time{}, time.Time{}
}

// TimeframeSelectedMsg carries the chosen range. Start and End are zero when
// All is set.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// Filter restricts f to the selected range.
func (msg TimeframeSelectedMsg) Filter(f transaction.ListFilter) transaction.ListFilter {
	if msg.All {
		f.StartDate, f.EndDate = nil, nil
		return f
	}

	f.StartDate = new(msg.Start)
	f.EndDate = new(msg.End)

	return f
}

func (msg TimeframeSelectedMsg) Label() string {
	if msg.All {
		return "All time"
	}

	return FormatDate(msg.Start) + " to " + FormatDate(msg.End)
}

var errEndBeforeStart = errors.New("end date is before start date")

// customRange parses a custom range typed by the user.
func customRange(start, end string) (TimeframeSelectedMsg, error) {
	s, err := time.Parse(time.DateOnly, strings.TrimSpace(start))
	if err != nil {
		return TimeframeSelectedMsg{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	e, err := time.Parse(time.DateOnly, strings.TrimSpace(end))
	if err != nil {
		return TimeframeSelectedMsg{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if e.Before(s) {
		return TimeframeSelectedMsg{}, errEndBeforeStart
	}

	return TimeframeSelectedMsg{Start: s, End: e}, nil
}

type rangeFields struct {
	start string
	end   string
}

// TimeframePicker lists the presets from minFrame down and, for Custom, asks
// for both dates in a form. It emits a TimeframeSelectedMsg.
type TimeframePicker struct {
	now      func() time.Time
	selected Timeframe
	minFrame Timeframe

	form   *huh.Form
	fields *rangeFields
	err    error
}

func NewTimeframePicker(minFrame Timeframe, now func() time.Time) TimeframePicker {
	return TimeframePicker{
		now:      now,
		selected: minFrame,
		minFrame: minFrame,
		fields:   &rangeFields{},
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.form != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.selected > m.minFrame {
			m.selected--
		}
	case "down", "j":
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case "enter":
		return m.choose()
	}

	return m, nil
}

func (m TimeframePicker) choose() (TimeframePicker, tea.Cmd) {
	var sel TimeframeSelectedMsg

	switch m.selected {
	case TimeframeCustom:
		*m.fields = rangeFields{}
		m.err = nil
		m.form = m.customForm()

		return m, m.form.Init()
	case TimeframeAll:
		sel = TimeframeSelectedMsg{All: true}
	default:
		sel.Start, sel.End = m.selected.Range(m.now())
	}

	return m, func() tea.Msg { return sel }
}

func (m TimeframePicker) customForm() *huh.Form {
	date := func(s string) error {
		_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
		if err != nil {
			return errors.New("use YYYY-MM-DD")
		}

		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("start").
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.start).
				Validate(date),

			huh.NewInput().
				Key("end").
				Title("End date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.end).
				Validate(date),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
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

	m.form = nil

	sel, err := customRange(m.fields.start, m.fields.end)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil

	return m, func() tea.Msg { return sel }
}

func (m TimeframePicker) View() string {
	if m.form != nil {
		return "Enter Custom Range:\n\n" + m.form.View() + "\n(Esc to go back)"
	}

	var b strings.Builder

	b.WriteString("Select Timeframe:\n\n")

	for t := m.minFrame; t <= TimeframeCustom; t++ {
		line := "  " + t.String()
		if t == m.selected {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render("> " + t.String())
		}

		b.WriteString(line + "\n")
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("\n\nError: " + m.err.Error()))
	}

	return b.String()
}

// IsSelecting reports whether the preset list is showing, as opposed to the
// custom range form.
func (m TimeframePicker) IsSelecting() bool {
	return m.form == nil
}

// Reset returns the picker to its preset list.
func (m *TimeframePicker) Reset() {
	m.selected = m.minFrame
	m.form = nil
	m.err = nil
}
