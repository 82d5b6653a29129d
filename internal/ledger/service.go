package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// Load returns ErrNotFound when nothing was saved under key yet.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Listener is called with the committed state after every mutation, in
// commit order. It must return quickly and must not call the Service.
type Listener func(State)

// Service owns the single in-memory state. Mutations are serialized, applied
// to a copy, persisted as a whole snapshot and only then made visible.
type Service struct {
	repo Repository
	key  string
	now  func() time.Time

	mu        sync.Mutex
	state     State
	listeners []Listener
}

type Option func(*Service)

// WithClock overrides the time source used for dates and net worth samples.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, key string, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		key:   key,
		now:   time.Now,
		state: Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Open loads the persisted snapshot. A missing snapshot starts empty; a
// corrupt one is discarded in favour of defaults.
func (s *Service) Open(ctx context.Context) error {
	data, err := s.repo.Load(ctx, s.key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	st, err := Decode(data)
	if err != nil {
		slog.Warn("discarding unreadable snapshot", "key", s.key, "error", err)
		st = Default()
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	return nil
}

// State returns a copy of the current state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

func (s *Service) Now() time.Time {
	return s.now()
}

// Subscribe registers fn to receive every committed state.
func (s *Service) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

func (s *Service) commit(ctx context.Context, next State) error {
	data, err := Encode(next)
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	s.state = next

	return nil
}

// mutate runs fn against a scratch copy. Nothing changes unless fn succeeds
// and the snapshot is saved.
func (s *Service) mutate(ctx context.Context, fn func(st *State) error) error {
	return s.apply(ctx, fn, true)
}

func (s *Service) apply(ctx context.Context, fn func(st *State) error, sample bool) error {
	s.mu.Lock()

	next := s.state.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}

	if sample {
		next.RecordNetWorth(s.now())
	}

	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}

	// Listeners run under the lock so they see states in commit order. They
	// must not block or call back into the service.
	for _, l := range s.listeners {
		l(s.state.Clone())
	}

	s.mu.Unlock()

	return nil
}

// Reset wipes everything back to defaults.
func (s *Service) Reset(ctx context.Context) error {
	return s.apply(ctx, func(st *State) error {
		*st = Default()
		return nil
	}, false)
}

func (s *Service) AddTransaction(ctx context.Context, p transaction.CreateParams) (transaction.Transaction, error) {
	var tx transaction.Transaction

	err := s.mutate(ctx, func(st *State) error {
		var err error
		tx, err = st.AddTransaction(p)

		return err
	})

	return tx, err
}

func (s *Service) UpdateTransaction(ctx context.Context, id uuid.UUID, p transaction.CreateParams) (transaction.Transaction, error) {
	var tx transaction.Transaction

	err := s.mutate(ctx, func(st *State) error {
		var err error
		tx, err = st.UpdateTransaction(id, p)

		return err
	})

	return tx, err
}

func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, func(st *State) error {
		return st.DeleteTransaction(id)
	})
}

func (s *Service) GetTransaction(id uuid.UUID) (transaction.Transaction, error) {
	st := s.State()
	return st.GetTransaction(id)
}

// ListTransactions returns the filtered log sorted by date.
func (s *Service) ListTransactions(filter transaction.ListFilter) []transaction.Transaction {
	st := s.State()
	return transaction.SortByDate(transaction.Filter(st.Transactions, filter))
}

func (s *Service) SetBudget(ctx context.Context, cents int64) error {
	return s.mutate(ctx, func(st *State) error {
		st.SetBudget(cents)
		return nil
	})
}

func (s *Service) SetTheme(ctx context.Context, t Theme) error {
	return s.mutate(ctx, func(st *State) error {
		return st.SetTheme(t)
	})
}

func (s *Service) ToggleTheme(ctx context.Context) (Theme, error) {
	var t Theme

	err := s.mutate(ctx, func(st *State) error {
		t = st.ToggleTheme()
		return nil
	})

	return t, err
}

func (s *Service) AddGoal(ctx context.Context, p GoalParams) (Goal, error) {
	var g Goal

	err := s.mutate(ctx, func(st *State) error {
		var err error
		g, err = st.AddGoal(p, s.now())

		return err
	})

	return g, err
}

func (s *Service) Contribute(ctx context.Context, id uuid.UUID, amount int64) (ContributionResult, error) {
	var res ContributionResult

	err := s.mutate(ctx, func(st *State) error {
		var err error
		res, err = st.Contribute(id, amount, s.now())

		return err
	})

	return res, err
}

func (s *Service) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, func(st *State) error {
		return st.DeleteGoal(id)
	})
}

func (s *Service) Buy(ctx context.Context, p BuyParams) (Position, transaction.Transaction, error) {
	var (
		pos Position
		tx  transaction.Transaction
	)

	if p.Date.IsZero() {
		p.Date = s.now()
	}

	err := s.mutate(ctx, func(st *State) error {
		var err error
		pos, tx, err = st.Buy(p)

		return err
	})

	return pos, tx, err
}

func (s *Service) Sell(ctx context.Context, id uuid.UUID, p SellParams) (SaleResult, error) {
	var res SaleResult

	if p.Date.IsZero() {
		p.Date = s.now()
	}

	err := s.mutate(ctx, func(st *State) error {
		var err error
		res, err = st.Sell(id, p)

		return err
	})

	return res, err
}

func (s *Service) UpdatePrice(ctx context.Context, id uuid.UUID, price int64) (Position, error) {
	var pos Position

	err := s.mutate(ctx, func(st *State) error {
		var err error
		pos, err = st.UpdatePrice(id, price)

		return err
	})

	return pos, err
}

func (s *Service) DeletePosition(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, func(st *State) error {
		return st.DeletePosition(id)
	})
}

func (s *Service) AddSubscription(ctx context.Context, p SubscriptionParams) (Subscription, error) {
	var sub Subscription

	err := s.mutate(ctx, func(st *State) error {
		var err error
		sub, err = st.AddSubscription(p)

		return err
	})

	return sub, err
}

func (s *Service) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, func(st *State) error {
		return st.DeleteSubscription(id)
	})
}
