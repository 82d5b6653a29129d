package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

var (
	ErrEmptyTicker  = errors.New("ticker is required")
	ErrInvalidQty   = errors.New("quantity must be greater than zero")
	ErrInvalidPrice = errors.New("price must be greater than zero")
)

// Position is an open investment. Positions are only ever closed whole.
type Position struct {
	ID           uuid.UUID
	Ticker       string
	Qty          decimal.Decimal
	BuyPrice     int64 // per unit, in cents
	CurrentPrice int64 // per unit, in cents
}

// value returns qty * price rounded to whole cents.
func value(qty decimal.Decimal, price int64) int64 {
	return qty.Mul(decimal.NewFromInt(price)).Round(0).IntPart()
}

func (p Position) CostBasis() int64 {
	return value(p.Qty, p.BuyPrice)
}

func (p Position) MarketValue() int64 {
	return value(p.Qty, p.CurrentPrice)
}

// UnrealizedPnL is market value minus cost basis.
func (p Position) UnrealizedPnL() int64 {
	return p.MarketValue() - p.CostBasis()
}

type BuyParams struct {
	Ticker string
	Qty    decimal.Decimal
	Price  int64
	Date   time.Time
}

func (p BuyParams) Validate() error {
	if strings.TrimSpace(p.Ticker) == "" {
		return ErrEmptyTicker
	}

	if !p.Qty.IsPositive() {
		return ErrInvalidQty
	}

	if p.Price <= 0 {
		return ErrInvalidPrice
	}

	return nil
}

type SellParams struct {
	Price int64
	Date  time.Time
}

// SaleResult describes a closed position.
type SaleResult struct {
	Position    Position
	Transaction transaction.Transaction
	PnL         int64
}

// Buy opens a position and records its cost basis as an expense.
func (s *State) Buy(p BuyParams) (Position, transaction.Transaction, error) {
	if err := p.Validate(); err != nil {
		return Position{}, transaction.Transaction{}, err
	}

	pos := Position{
		ID:           uuid.New(),
		Ticker:       strings.ToUpper(strings.TrimSpace(p.Ticker)),
		Qty:          p.Qty,
		BuyPrice:     p.Price,
		CurrentPrice: p.Price,
	}

	tx, err := s.AddTransaction(transaction.CreateParams{
		Date:     p.Date,
		Category: CategoryInvestments,
		Amount:   pos.CostBasis(),
		Type:     transaction.TypeExpense,
		Notes:    fmt.Sprintf("Bought %s %s @ %s", pos.Qty.String(), pos.Ticker, formatCents(p.Price)),
	})
	if err != nil {
		return Position{}, transaction.Transaction{}, fmt.Errorf("recording purchase: %w", err)
	}

	s.Positions = append(s.Positions, pos)

	return pos, tx, nil
}

// Sell closes the whole position at the given price. Partial sales are not
// supported. The proceeds are recorded as income with the P&L in the notes.
func (s *State) Sell(id uuid.UUID, p SellParams) (SaleResult, error) {
	if p.Price <= 0 {
		return SaleResult{}, ErrInvalidPrice
	}

	i := slices.IndexFunc(s.Positions, func(pos Position) bool { return pos.ID == id })
	if i < 0 {
		return SaleResult{}, ErrNotFound
	}

	pos := s.Positions[i]
	proceeds := value(pos.Qty, p.Price)
	pnl := proceeds - pos.CostBasis()

	tx, err := s.AddTransaction(transaction.CreateParams{
		Date:     p.Date,
		Category: CategoryInvestments,
		Amount:   proceeds,
		Type:     transaction.TypeIncome,
		Notes: fmt.Sprintf("Sold %s %s @ %s, P&L %s",
			pos.Qty.String(), pos.Ticker, formatCents(p.Price), formatSignedCents(pnl)),
	})
	if err != nil {
		return SaleResult{}, fmt.Errorf("recording sale: %w", err)
	}

	s.Positions = slices.Delete(s.Positions, i, i+1)

	return SaleResult{Position: pos, Transaction: tx, PnL: pnl}, nil
}

// UpdatePrice changes the mark price only; nothing is recorded.
func (s *State) UpdatePrice(id uuid.UUID, price int64) (Position, error) {
	if price <= 0 {
		return Position{}, ErrInvalidPrice
	}

	i := slices.IndexFunc(s.Positions, func(pos Position) bool { return pos.ID == id })
	if i < 0 {
		return Position{}, ErrNotFound
	}

	s.Positions[i].CurrentPrice = price

	return s.Positions[i], nil
}

// DeletePosition drops a position without recording anything. It exists to
// undo data-entry mistakes.
func (s *State) DeletePosition(id uuid.UUID) error {
	n := len(s.Positions)

	s.Positions = slices.DeleteFunc(s.Positions, func(pos Position) bool { return pos.ID == id })
	if len(s.Positions) == n {
		return ErrNotFound
	}

	return nil
}

func (s *State) PortfolioValue() int64 {
	var total int64
	for _, p := range s.Positions {
		total += p.MarketValue()
	}

	return total
}

func (s *State) PortfolioCost() int64 {
	var total int64
	for _, p := range s.Positions {
		total += p.CostBasis()
	}

	return total
}

func formatCents(c int64) string {
	return decimal.New(c, -2).StringFixed(2)
}

func formatSignedCents(c int64) string {
	if c >= 0 {
		return "+" + formatCents(c)
	}

	return formatCents(c)
}
