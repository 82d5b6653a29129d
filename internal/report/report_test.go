package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/report"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

var now = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

func fixture(t *testing.T) ledger.State {
	t.Helper()

	st := ledger.Default()

	for _, p := range []transaction.CreateParams{
		{Date: day(1), Category: "Salary", Amount: 500000, Type: transaction.TypeIncome},
		{Date: day(2), Category: "Rent", Amount: 150000, Type: transaction.TypeExpense},
		{Date: day(3), Category: "Food", Amount: 30000, Type: transaction.TypeExpense, Notes: "Market"},
	} {
		_, err := st.AddTransaction(p)
		require.NoError(t, err)
	}

	st.SetBudget(160000)

	g, err := st.AddGoal(ledger.GoalParams{Name: "Trip", Target: 100000}, now)
	require.NoError(t, err)

	_, err = st.Contribute(g.ID, 25000, now)
	require.NoError(t, err)

	pos, _, err := st.Buy(ledger.BuyParams{Ticker: "VWCE", Qty: decimal.NewFromInt(2), Price: 10000, Date: day(5)})
	require.NoError(t, err)

	_, err = st.UpdatePrice(pos.ID, 12500)
	require.NoError(t, err)

	_, err = st.AddSubscription(ledger.SubscriptionParams{Name: "Gym", Amount: 3000, DueDay: 12})
	require.NoError(t, err)

	st.RecordNetWorth(now)

	return st
}

func TestSummarize(t *testing.T) {
	s := report.Summarize(fixture(t), now)

	// Expenses: rent 150000, food 30000, goal 25000, purchase 20000.
	assert.Equal(t, int64(500000), s.Income)
	assert.Equal(t, int64(225000), s.Expense)
	assert.Equal(t, int64(275000), s.Savings)

	assert.True(t, s.Budget.Exceeded)
	assert.Equal(t, int64(-65000), s.Budget.Remaining)

	require.NotEmpty(t, s.Categories)
	assert.Equal(t, "Rent", s.Categories[0].Category)

	require.Len(t, s.Monthly, 1)
	assert.Equal(t, "2026-06", s.Monthly[0].Month)
	assert.Equal(t, int64(275000), s.Monthly[0].Savings)

	assert.Equal(t, int64(25000), s.Portfolio.Value)
	assert.Equal(t, int64(5000), s.Portfolio.PnL)
	assert.Equal(t, int64(300000), s.NetWorth)

	require.Len(t, s.History, 1)
	assert.Equal(t, "2026-06-10", s.History[0].Date)

	assert.Equal(t, int64(3000), s.BurnRate)
	require.Len(t, s.Upcoming, 1)
	assert.Equal(t, "2026-06-12", s.Upcoming[0].Due)

	assert.Equal(t, "warning", s.Advice.Level)
	assert.Contains(t, s.Advice.Message, "Budget exceeded by 650.00")
	assert.Equal(t, "light", s.Theme)
}

func TestSummarize_Empty(t *testing.T) {
	s := report.Summarize(ledger.Default(), now)

	assert.Zero(t, s.Health.Score)
	assert.Equal(t, "poor", s.Health.Grade)
	assert.Equal(t, "info", s.Advice.Level)
	assert.Empty(t, s.Categories)
	assert.False(t, s.Budget.Exceeded)
}

func TestBuild(t *testing.T) {
	r := report.Build(fixture(t), now)

	require.Len(t, r.Goals, 1)
	assert.InDelta(t, 25.0, r.Goals[0].Progress, 0.0001)

	require.Len(t, r.Positions, 1)
	assert.Equal(t, "2", r.Positions[0].Qty)
	assert.Equal(t, int64(5000), r.Positions[0].PnL)

	require.Len(t, r.Subscriptions, 1)
	assert.Equal(t, "2026-06-12", r.Subscriptions[0].NextDue)

	require.Len(t, r.Recent, 5)
	assert.Equal(t, "2026-06-10", r.Recent[0].Date)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "1,234.50 EUR", report.Money(123450, "EUR"))
	assert.Equal(t, "0.05", report.Money(5, ""))
	assert.Equal(t, "-10.00 EUR", report.Money(-1000, "EUR"))
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteText(&buf, report.Build(fixture(t), now), "EUR"))

	out := buf.String()
	for _, want := range []string{
		"Pocket report",
		"5,000.00 EUR",
		"Expenses by category",
		"Trip",
		"VWCE",
		"Gym",
		"Monthly burn",
		"Recent transactions",
		"Market",
	} {
		assert.Contains(t, out, want)
	}
}
