package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// ImportResult is the outcome of ImportBatch. When Conflicts is non-empty
// nothing was written and New holds the rows without a match.
type ImportResult struct {
	Imported  []transaction.Transaction
	New       []transaction.CreateParams
	Conflicts []Conflict
}

// Conflict pairs an incoming row with the existing transaction it duplicates.
type Conflict struct {
	Incoming transaction.CreateParams
	Existing transaction.Transaction
}

// errConflicts aborts the mutation without surfacing as a failure.
var errConflicts = errors.New("import has conflicts")

type dupKey struct {
	Date     string
	Amount   int64
	Type     transaction.Type
	Category string
	Notes    string
}

func keyOf(d time.Time, amount int64, typ transaction.Type, category, notes string) dupKey {
	return dupKey{
		Date:     d.Format(time.DateOnly),
		Amount:   amount,
		Type:     typ,
		Category: category,
		Notes:    notes,
	}
}

func validateBatch(params []transaction.CreateParams) error {
	for i, p := range params {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	return nil
}

// ImportBatch records params unless some of them look like transactions that
// already exist. In that case it writes nothing and reports the conflicts so
// the caller can pick which rows to keep and call CreateBatch.
func (s *Service) ImportBatch(ctx context.Context, params []transaction.CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	if err := validateBatch(params); err != nil {
		return nil, err
	}

	result := &ImportResult{}

	err := s.mutate(ctx, func(st *State) error {
		lookup := make(map[dupKey]transaction.Transaction, len(st.Transactions))
		for _, t := range st.Transactions {
			lookup[keyOf(t.Date, t.Amount, t.Type, t.Category, t.Notes)] = t
		}

		for _, p := range params {
			n := transaction.New(p)

			existing, found := lookup[keyOf(n.Date, n.Amount, n.Type, n.Category, n.Notes)]
			if found {
				result.Conflicts = append(result.Conflicts, Conflict{Incoming: p, Existing: existing})
				continue
			}

			result.New = append(result.New, p)
		}

		if len(result.Conflicts) > 0 {
			return errConflicts
		}

		for _, p := range params {
			tx, err := st.AddTransaction(p)
			if err != nil {
				return err
			}

			result.Imported = append(result.Imported, tx)
		}

		result.New = nil

		return nil
	})
	if errors.Is(err, errConflicts) {
		return result, nil
	}

	if err != nil {
		return nil, fmt.Errorf("importing batch: %w", err)
	}

	return result, nil
}

// CreateBatch records every row without duplicate checks.
func (s *Service) CreateBatch(ctx context.Context, params []transaction.CreateParams) ([]transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	if err := validateBatch(params); err != nil {
		return nil, err
	}

	var txs []transaction.Transaction

	err := s.mutate(ctx, func(st *State) error {
		for _, p := range params {
			tx, err := st.AddTransaction(p)
			if err != nil {
				return err
			}

			txs = append(txs, tx)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating batch: %w", err)
	}

	return txs, nil
}
