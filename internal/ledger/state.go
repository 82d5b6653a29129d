package ledger

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// MaxNetWorthSamples bounds the net worth history; older samples are dropped.
const MaxNetWorthSamples = 12

const (
	CategorySavings     = "Savings"
	CategoryInvestments = "Investments"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientSavings = errors.New("amount exceeds available savings")
	ErrGoalComplete        = errors.New("goal already reached its target")
	ErrInvalidTheme        = errors.New("theme must be light or dark")
)

// Theme is the stored UI preference. Pocket only persists and toggles it.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// NetWorthSample is a point-in-time snapshot of cash savings plus portfolio value.
type NetWorthSample struct {
	Date  time.Time
	Value int64
}

// State is the complete persisted ledger. Income and expense totals are never
// stored; they are always derived from Transactions.
type State struct {
	Transactions  []transaction.Transaction
	Budget        int64
	Goals         []Goal
	Positions     []Position
	Subscriptions []Subscription
	NetWorth      []NetWorthSample
	Theme         Theme
}

func Default() State {
	return State{Theme: ThemeLight}
}

// Clone returns a deep copy so reducers can work on a scratch state.
func (s State) Clone() State {
	out := s
	out.Transactions = slices.Clone(s.Transactions)
	out.Goals = slices.Clone(s.Goals)
	out.Subscriptions = slices.Clone(s.Subscriptions)
	out.NetWorth = slices.Clone(s.NetWorth)
	out.Positions = slices.Clone(s.Positions) // decimal.Decimal values are immutable

	return out
}

func (s *State) TotalIncome() int64 {
	return transaction.TotalIncome(s.Transactions)
}

func (s *State) TotalExpense() int64 {
	return transaction.TotalExpense(s.Transactions)
}

// AvailableSavings is what can still be moved into goals.
func (s *State) AvailableSavings() int64 {
	return transaction.Savings(s.Transactions)
}

// NetWorthValue is cash savings plus the market value of open positions.
func (s *State) NetWorthValue() int64 {
	return s.AvailableSavings() + s.PortfolioValue()
}

func (s *State) AddTransaction(p transaction.CreateParams) (transaction.Transaction, error) {
	if err := p.Validate(); err != nil {
		return transaction.Transaction{}, err
	}

	tx := transaction.New(p)
	s.Transactions = append(s.Transactions, tx)

	return tx, nil
}

func (s *State) UpdateTransaction(id uuid.UUID, p transaction.CreateParams) (transaction.Transaction, error) {
	if err := p.Validate(); err != nil {
		return transaction.Transaction{}, err
	}

	i := slices.IndexFunc(s.Transactions, func(t transaction.Transaction) bool { return t.ID == id })
	if i < 0 {
		return transaction.Transaction{}, ErrNotFound
	}

	updated := transaction.New(p)
	updated.ID = id
	s.Transactions[i] = updated

	return updated, nil
}

func (s *State) DeleteTransaction(id uuid.UUID) error {
	n := len(s.Transactions)

	s.Transactions = slices.DeleteFunc(s.Transactions, func(t transaction.Transaction) bool { return t.ID == id })
	if len(s.Transactions) == n {
		return ErrNotFound
	}

	return nil
}

func (s *State) GetTransaction(id uuid.UUID) (transaction.Transaction, error) {
	i := slices.IndexFunc(s.Transactions, func(t transaction.Transaction) bool { return t.ID == id })
	if i < 0 {
		return transaction.Transaction{}, ErrNotFound
	}

	return s.Transactions[i], nil
}

// SetBudget stores the monthly expense ceiling. Negative values mean unset.
func (s *State) SetBudget(cents int64) {
	s.Budget = max(cents, 0)
}

func (s *State) SetTheme(t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return ErrInvalidTheme
	}

	s.Theme = t

	return nil
}

func (s *State) ToggleTheme() Theme {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}

	return s.Theme
}

// RecordNetWorth keeps one sample per calendar day, replacing today's value
// if it was already sampled.
func (s *State) RecordNetWorth(now time.Time) {
	sample := NetWorthSample{Date: transaction.DateOnly(now), Value: s.NetWorthValue()}

	if n := len(s.NetWorth); n > 0 && s.NetWorth[n-1].Date.Equal(sample.Date) {
		s.NetWorth[n-1] = sample
		return
	}

	s.NetWorth = append(s.NetWorth, sample)
	if len(s.NetWorth) > MaxNetWorthSamples {
		s.NetWorth = slices.Clone(s.NetWorth[len(s.NetWorth)-MaxNetWorthSamples:])
	}
}
