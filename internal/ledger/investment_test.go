package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

func TestState_InvestmentLifecycle(t *testing.T) {
	st := stateWith(t, income(100000, date(2026, 2, 1)))

	pos, buyTx, err := st.Buy(ledger.BuyParams{
		Ticker: " aapl ",
		Qty:    decimal.RequireFromString("2.5"),
		Price:  10000,
		Date:   date(2026, 2, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", pos.Ticker)
	assert.Equal(t, int64(10000), pos.CurrentPrice)
	assert.Equal(t, int64(25000), pos.CostBasis())
	assert.Equal(t, ledger.CategoryInvestments, buyTx.Category)
	assert.Equal(t, transaction.TypeExpense, buyTx.Type)
	assert.Equal(t, int64(25000), buyTx.Amount)
	assert.Equal(t, "Bought 2.5 AAPL @ 100.00", buyTx.Notes)

	updated, err := st.UpdatePrice(pos.ID, 12000)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), updated.MarketValue())
	assert.Equal(t, int64(5000), updated.UnrealizedPnL())
	assert.Equal(t, int64(30000), st.PortfolioValue())
	assert.Equal(t, int64(25000), st.PortfolioCost())
	assert.Len(t, st.Transactions, 2)

	res, err := st.Sell(pos.ID, ledger.SellParams{Price: 12000, Date: date(2026, 2, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), res.PnL)
	assert.Equal(t, transaction.TypeIncome, res.Transaction.Type)
	assert.Equal(t, int64(30000), res.Transaction.Amount)
	assert.Equal(t, "Sold 2.5 AAPL @ 120.00, P&L +50.00", res.Transaction.Notes)
	assert.Empty(t, st.Positions)
	assert.Equal(t, int64(105000), st.AvailableSavings())
}

func TestState_Sell_Loss(t *testing.T) {
	st := ledger.Default()

	pos, _, err := st.Buy(ledger.BuyParams{Ticker: "X", Qty: decimal.NewFromInt(1), Price: 5000, Date: date(2026, 1, 1)})
	require.NoError(t, err)

	res, err := st.Sell(pos.ID, ledger.SellParams{Price: 4000, Date: date(2026, 1, 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), res.PnL)
	assert.Equal(t, "Sold 1 X @ 40.00, P&L -10.00", res.Transaction.Notes)
}

func TestBuyParams_Validate(t *testing.T) {
	type testCase struct {
		name    string
		params  ledger.BuyParams
		wantErr error
	}

	tests := []testCase{
		{name: "EmptyTicker", params: ledger.BuyParams{Qty: decimal.NewFromInt(1), Price: 1}, wantErr: ledger.ErrEmptyTicker},
		{name: "ZeroQty", params: ledger.BuyParams{Ticker: "A", Price: 1}, wantErr: ledger.ErrInvalidQty},
		{name: "NegativeQty", params: ledger.BuyParams{Ticker: "A", Qty: decimal.NewFromInt(-1), Price: 1}, wantErr: ledger.ErrInvalidQty},
		{name: "ZeroPrice", params: ledger.BuyParams{Ticker: "A", Qty: decimal.NewFromInt(1)}, wantErr: ledger.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.params.Validate(), tt.wantErr)
		})
	}
}

func TestState_PositionErrors(t *testing.T) {
	st := ledger.Default()
	id := uuid.New()

	_, err := st.Sell(id, ledger.SellParams{Price: 100})
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = st.Sell(id, ledger.SellParams{Price: 0})
	assert.ErrorIs(t, err, ledger.ErrInvalidPrice)

	_, err = st.UpdatePrice(id, 100)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = st.UpdatePrice(id, -1)
	assert.ErrorIs(t, err, ledger.ErrInvalidPrice)

	assert.ErrorIs(t, st.DeletePosition(id), ledger.ErrNotFound)
}

func TestState_DeletePosition_RecordsNothing(t *testing.T) {
	st := ledger.Default()

	pos, _, err := st.Buy(ledger.BuyParams{Ticker: "X", Qty: decimal.NewFromInt(1), Price: 100, Date: date(2026, 1, 1)})
	require.NoError(t, err)

	require.NoError(t, st.DeletePosition(pos.ID))
	assert.Empty(t, st.Positions)
	assert.Len(t, st.Transactions, 1)
}
