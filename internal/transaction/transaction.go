package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidType   = errors.New("type must be income or expense")
	ErrEmptyCategory = errors.New("category is required")
	ErrMissingDate   = errors.New("date is required")
)

// Transaction represents a single dated income or expense record.
// Amount is always positive; the sign is carried by Type.
type Transaction struct {
	ID       uuid.UUID
	Date     time.Time
	Category string
	Amount   int64 // Amount in cents
	Type     Type
	Notes    string
}

// CreateParams is the validated input for recording a transaction.
type CreateParams struct {
	Date     time.Time
	Category string
	Amount   int64
	Type     Type
	Notes    string
}

// ParseType maps free text to a Type. Only "income" (any case) is income.
func ParseType(s string) Type {
	if strings.EqualFold(strings.TrimSpace(s), string(TypeIncome)) {
		return TypeIncome
	}

	return TypeExpense
}

// NormalizeType trims and lowercases s without defaulting. Anything other
// than income or expense stays invalid and fails Validate.
func NormalizeType(s string) Type {
	return Type(strings.ToLower(strings.TrimSpace(s)))
}

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (p CreateParams) Validate() error {
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}

	if !p.Type.Valid() {
		return ErrInvalidType
	}

	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}

	if p.Date.IsZero() {
		return ErrMissingDate
	}

	return nil
}

// New builds a transaction with a fresh id from already validated params.
func New(p CreateParams) Transaction {
	return Transaction{
		ID:       uuid.New(),
		Date:     DateOnly(p.Date),
		Category: strings.TrimSpace(p.Category),
		Amount:   p.Amount,
		Type:     p.Type,
		Notes:    strings.TrimSpace(p.Notes),
	}
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthKey returns the YYYY-MM bucket a transaction belongs to.
func (t Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}
