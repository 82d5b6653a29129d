package transaction

import (
	"slices"
	"strings"
	"time"
)

// CategoryAmount is the summed expense for one category.
type CategoryAmount struct {
	Category string
	Amount   int64
}

// MonthTotals holds income and expense for one YYYY-MM bucket.
type MonthTotals struct {
	Month   string
	Income  int64
	Expense int64
}

func (m MonthTotals) Savings() int64 {
	return m.Income - m.Expense
}

func sumByType(txs []Transaction, t Type) int64 {
	var total int64

	for _, tx := range txs {
		if tx.Type == t {
			total += tx.Amount
		}
	}

	return total
}

// TotalIncome sums the amounts of income transactions.
func TotalIncome(txs []Transaction) int64 {
	return sumByType(txs, TypeIncome)
}

// TotalExpense sums the amounts of expense transactions.
func TotalExpense(txs []Transaction) int64 {
	return sumByType(txs, TypeExpense)
}

// Savings is income minus expense. Negative means overspend.
func Savings(txs []Transaction) int64 {
	return TotalIncome(txs) - TotalExpense(txs)
}

// ExpensesByCategory groups expense transactions by category. Categories are
// returned in the order they are first seen in txs; the sums add up to
// TotalExpense exactly.
func ExpensesByCategory(txs []Transaction) []CategoryAmount {
	var out []CategoryAmount

	index := make(map[string]int)

	for _, tx := range txs {
		if tx.Type != TypeExpense {
			continue
		}

		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Category: tx.Category})
		}

		out[i].Amount += tx.Amount
	}

	return out
}

// SortByAmount returns a copy of cats ordered by descending amount, ties by name.
func SortByAmount(cats []CategoryAmount) []CategoryAmount {
	sorted := slices.Clone(cats)
	slices.SortStableFunc(sorted, func(a, b CategoryAmount) int {
		if a.Amount != b.Amount {
			if a.Amount > b.Amount {
				return -1
			}

			return 1
		}

		return strings.Compare(a.Category, b.Category)
	})

	return sorted
}

// MonthlyTotals buckets transactions by calendar month, oldest first.
func MonthlyTotals(txs []Transaction) []MonthTotals {
	byMonth := make(map[string]*MonthTotals)

	var keys []string

	for _, tx := range txs {
		key := tx.MonthKey()

		m, ok := byMonth[key]
		if !ok {
			m = &MonthTotals{Month: key}
			byMonth[key] = m
			keys = append(keys, key)
		}

		switch tx.Type {
		case TypeIncome:
			m.Income += tx.Amount
		case TypeExpense:
			m.Expense += tx.Amount
		}
	}

	slices.Sort(keys)

	out := make([]MonthTotals, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byMonth[k])
	}

	return out
}

// ListFilter narrows a transaction list. Zero values match everything.
type ListFilter struct {
	Query     string // case-insensitive substring of the category
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
}

// Filter returns the transactions matching f, preserving order.
func Filter(txs []Transaction, f ListFilter) []Transaction {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var out []Transaction

	for _, tx := range txs {
		if query != "" && !strings.Contains(strings.ToLower(tx.Category), query) {
			continue
		}

		if f.Type != nil && tx.Type != *f.Type {
			continue
		}

		if f.StartDate != nil && tx.Date.Before(DateOnly(*f.StartDate)) {
			continue
		}

		if f.EndDate != nil && tx.Date.After(*f.EndDate) {
			continue
		}

		out = append(out, tx)
	}

	return out
}

// SortByDate returns a copy of txs ordered oldest first.
func SortByDate(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})

	return sorted
}

// Recent returns up to n transactions, newest first.
func Recent(txs []Transaction, n int) []Transaction {
	sorted := SortByDate(txs)
	slices.Reverse(sorted)

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}
