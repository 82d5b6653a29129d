package cgd

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// toCents reads "1.234,56" style amounts.
func toCents(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}

	return d.Shift(2).Round(0).IntPart(), true
}

// signed turns a signed amount into a positive amount plus direction.
func signed(s string) (int64, transaction.Type, bool) {
	cents, ok := toCents(s)
	switch {
	case !ok || cents == 0:
		return 0, "", false
	case cents < 0:
		return -cents, transaction.TypeExpense, true
	default:
		return cents, transaction.TypeIncome, true
	}
}

// debitOrCredit prefers the debit column; the sign in either is ignored.
func debitOrCredit(debit, credit string) (int64, transaction.Type, bool) {
	if cents, ok := toCents(debit); ok && cents != 0 {
		return max(cents, -cents), transaction.TypeExpense, true
	}

	if cents, ok := toCents(credit); ok && cents != 0 {
		return max(cents, -cents), transaction.TypeIncome, true
	}

	return 0, "", false
}
