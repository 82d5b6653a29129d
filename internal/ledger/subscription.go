package ledger

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

var (
	ErrEmptySubscriptionName = errors.New("subscription name is required")
	ErrInvalidDueDay         = errors.New("due day must be between 1 and 31")
)

// Subscription is a fixed monthly cost. It is not a transaction.
type Subscription struct {
	ID     uuid.UUID
	Name   string
	Amount int64
	DueDay int // day of month, 1..31
}

type SubscriptionParams struct {
	Name   string
	Amount int64
	DueDay int
}

func (p SubscriptionParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptySubscriptionName
	}

	if p.Amount <= 0 {
		return transaction.ErrInvalidAmount
	}

	if p.DueDay < 1 || p.DueDay > 31 {
		return ErrInvalidDueDay
	}

	return nil
}

func (s *State) AddSubscription(p SubscriptionParams) (Subscription, error) {
	if err := p.Validate(); err != nil {
		return Subscription{}, err
	}

	sub := Subscription{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(p.Name),
		Amount: p.Amount,
		DueDay: p.DueDay,
	}
	s.Subscriptions = append(s.Subscriptions, sub)

	return sub, nil
}

func (s *State) DeleteSubscription(id uuid.UUID) error {
	n := len(s.Subscriptions)

	s.Subscriptions = slices.DeleteFunc(s.Subscriptions, func(sub Subscription) bool { return sub.ID == id })
	if len(s.Subscriptions) == n {
		return ErrNotFound
	}

	return nil
}

// BurnRate is the total of all recurring monthly costs.
func BurnRate(subs []Subscription) int64 {
	var total int64
	for _, sub := range subs {
		total += sub.Amount
	}

	return total
}

// NextDue returns the next date the subscription is charged on or after now.
// Due days past the end of a short month fall on its last day.
func (sub Subscription) NextDue(now time.Time) time.Time {
	today := transaction.DateOnly(now)

	due := dueIn(today.Year(), today.Month(), sub.DueDay)
	if due.Before(today) {
		next := today.AddDate(0, 0, -today.Day()+1).AddDate(0, 1, 0)
		due = dueIn(next.Year(), next.Month(), sub.DueDay)
	}

	return due
}

func dueIn(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return time.Date(year, month, min(day, last), 0, 0, 0, 0, time.UTC)
}

// Upcoming is a subscription with its next charge date.
type Upcoming struct {
	Subscription Subscription
	Due          time.Time
}

// UpcomingSubscriptions lists charges due within the next days, soonest first.
func UpcomingSubscriptions(subs []Subscription, now time.Time, days int) []Upcoming {
	limit := transaction.DateOnly(now).AddDate(0, 0, days)

	var out []Upcoming

	for _, sub := range subs {
		due := sub.NextDue(now)
		if due.After(limit) {
			continue
		}

		out = append(out, Upcoming{Subscription: sub, Due: due})
	}

	slices.SortStableFunc(out, func(a, b Upcoming) int { return a.Due.Compare(b.Due) })

	return out
}
