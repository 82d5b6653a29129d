package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

var (
	ErrEmptyGoalName   = errors.New("goal name is required")
	ErrInvalidTarget   = errors.New("goal target must be greater than zero")
	ErrInvalidDeadline = errors.New("goal deadline is in the past")
)

// Goal is a savings target. Current only grows through contributions and is
// capped at Target.
type Goal struct {
	ID       uuid.UUID
	Name     string
	Target   int64
	Current  int64
	Deadline *time.Time
}

func (g Goal) Completed() bool {
	return g.Current >= g.Target
}

func (g Goal) Remaining() int64 {
	return max(g.Target-g.Current, 0)
}

// Progress is the percentage of the target reached, 0..100.
func (g Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}

	return min(float64(g.Current)/float64(g.Target)*100, 100)
}

type GoalParams struct {
	Name     string
	Target   int64
	Deadline *time.Time
}

func (p GoalParams) Validate(now time.Time) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyGoalName
	}

	if p.Target <= 0 {
		return ErrInvalidTarget
	}

	if p.Deadline != nil && p.Deadline.Before(transaction.DateOnly(now)) {
		return ErrInvalidDeadline
	}

	return nil
}

func (s *State) AddGoal(p GoalParams, now time.Time) (Goal, error) {
	if err := p.Validate(now); err != nil {
		return Goal{}, err
	}

	g := Goal{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(p.Name),
		Target: p.Target,
	}

	if p.Deadline != nil {
		d := transaction.DateOnly(*p.Deadline)
		g.Deadline = &d
	}

	s.Goals = append(s.Goals, g)

	return g, nil
}

func (s *State) DeleteGoal(id uuid.UUID) error {
	n := len(s.Goals)

	s.Goals = slices.DeleteFunc(s.Goals, func(g Goal) bool { return g.ID == id })
	if len(s.Goals) == n {
		return ErrNotFound
	}

	return nil
}

// ContributionResult reports what a contribution changed.
type ContributionResult struct {
	Goal        Goal
	Transaction transaction.Transaction
	Completed   bool
}

// Contribute moves amount from available savings into a goal. The amount is
// checked against savings as requested, but only the part that fits under the
// target is applied and recorded as an expense.
func (s *State) Contribute(id uuid.UUID, amount int64, now time.Time) (ContributionResult, error) {
	if amount <= 0 {
		return ContributionResult{}, transaction.ErrInvalidAmount
	}

	i := slices.IndexFunc(s.Goals, func(g Goal) bool { return g.ID == id })
	if i < 0 {
		return ContributionResult{}, ErrNotFound
	}

	if amount > s.AvailableSavings() {
		return ContributionResult{}, ErrInsufficientSavings
	}

	g := &s.Goals[i]
	if g.Completed() {
		return ContributionResult{}, ErrGoalComplete
	}

	applied := min(amount, g.Remaining())

	tx, err := s.AddTransaction(transaction.CreateParams{
		Date:     now,
		Category: CategorySavings,
		Amount:   applied,
		Type:     transaction.TypeExpense,
		Notes:    fmt.Sprintf("Goal: %s", g.Name),
	})
	if err != nil {
		return ContributionResult{}, fmt.Errorf("recording contribution: %w", err)
	}

	g.Current += applied

	return ContributionResult{Goal: *g, Transaction: tx, Completed: g.Completed()}, nil
}
