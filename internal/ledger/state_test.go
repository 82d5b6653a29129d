package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func income(amount int64, d time.Time) transaction.CreateParams {
	return transaction.CreateParams{Date: d, Category: "Salary", Amount: amount, Type: transaction.TypeIncome}
}

func expense(category string, amount int64, d time.Time) transaction.CreateParams {
	return transaction.CreateParams{Date: d, Category: category, Amount: amount, Type: transaction.TypeExpense}
}

func stateWith(t *testing.T, params ...transaction.CreateParams) ledger.State {
	t.Helper()

	st := ledger.Default()
	for _, p := range params {
		_, err := st.AddTransaction(p)
		require.NoError(t, err)
	}

	return st
}

func TestState_Transactions(t *testing.T) {
	st := stateWith(t, income(5000000, date(2026, 1, 1)))

	tx, err := st.AddTransaction(expense("Food", 800000, date(2026, 1, 3)))
	require.NoError(t, err)

	assert.Equal(t, int64(5000000), st.TotalIncome())
	assert.Equal(t, int64(800000), st.TotalExpense())
	assert.Equal(t, int64(4200000), st.AvailableSavings())

	updated, err := st.UpdateTransaction(tx.ID, expense("Groceries", 900000, date(2026, 1, 4)))
	require.NoError(t, err)
	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, "Groceries", updated.Category)

	got, err := st.GetTransaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, st.DeleteTransaction(tx.ID))
	assert.Len(t, st.Transactions, 1)
	assert.ErrorIs(t, st.DeleteTransaction(tx.ID), ledger.ErrNotFound)

	_, err = st.UpdateTransaction(uuid.New(), expense("Food", 1, date(2026, 1, 1)))
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestState_AddTransaction_Invalid(t *testing.T) {
	type testCase struct {
		name    string
		params  transaction.CreateParams
		wantErr error
	}

	tests := []testCase{
		{name: "ZeroAmount", params: expense("Food", 0, date(2026, 1, 1)), wantErr: transaction.ErrInvalidAmount},
		{name: "NegativeAmount", params: expense("Food", -10, date(2026, 1, 1)), wantErr: transaction.ErrInvalidAmount},
		{name: "EmptyCategory", params: expense("  ", 10, date(2026, 1, 1)), wantErr: transaction.ErrEmptyCategory},
		{name: "MissingDate", params: expense("Food", 10, time.Time{}), wantErr: transaction.ErrMissingDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ledger.Default()

			_, err := st.AddTransaction(tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, st.Transactions)
		})
	}
}

func TestState_BudgetAndTheme(t *testing.T) {
	st := ledger.Default()
	assert.Equal(t, ledger.ThemeLight, st.Theme)

	st.SetBudget(150000)
	assert.Equal(t, int64(150000), st.Budget)

	st.SetBudget(-1)
	assert.Zero(t, st.Budget)

	assert.Equal(t, ledger.ThemeDark, st.ToggleTheme())
	assert.Equal(t, ledger.ThemeLight, st.ToggleTheme())

	require.NoError(t, st.SetTheme(ledger.ThemeDark))
	assert.ErrorIs(t, st.SetTheme("sepia"), ledger.ErrInvalidTheme)
	assert.Equal(t, ledger.ThemeDark, st.Theme)
}

func TestState_Clone(t *testing.T) {
	st := stateWith(t, income(1000, date(2026, 1, 1)))

	c := st.Clone()
	_, err := c.AddTransaction(expense("Food", 100, date(2026, 1, 2)))
	require.NoError(t, err)

	c.Transactions[0].Category = "Changed"

	assert.Len(t, st.Transactions, 1)
	assert.Equal(t, "Salary", st.Transactions[0].Category)
}

func TestState_RecordNetWorth(t *testing.T) {
	st := stateWith(t, income(10000, date(2026, 1, 1)))

	st.RecordNetWorth(date(2026, 1, 1).Add(9 * time.Hour))
	st.RecordNetWorth(date(2026, 1, 1).Add(18 * time.Hour))
	require.Len(t, st.NetWorth, 1)
	assert.Equal(t, date(2026, 1, 1), st.NetWorth[0].Date)
	assert.Equal(t, int64(10000), st.NetWorth[0].Value)

	for i := 1; i <= 20; i++ {
		st.RecordNetWorth(date(2026, 1, 1).AddDate(0, 0, i))
	}

	require.Len(t, st.NetWorth, ledger.MaxNetWorthSamples)
	assert.Equal(t, date(2026, 1, 21), st.NetWorth[len(st.NetWorth)-1].Date)
	assert.Equal(t, date(2026, 1, 10), st.NetWorth[0].Date)
}

func TestState_NetWorthValue(t *testing.T) {
	st := stateWith(t, income(100000, date(2026, 1, 1)))

	_, _, err := st.Buy(ledger.BuyParams{
		Ticker: "vwce",
		Qty:    decimal.NewFromInt(2),
		Price:  10000,
		Date:   date(2026, 1, 2),
	})
	require.NoError(t, err)

	// 100000 income - 20000 purchase + 20000 market value.
	assert.Equal(t, int64(100000), st.NetWorthValue())
}
