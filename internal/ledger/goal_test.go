package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

func TestGoalParams_Validate(t *testing.T) {
	now := date(2026, 3, 10)
	past := date(2026, 3, 9)
	future := date(2026, 12, 31)

	type testCase struct {
		name    string
		params  ledger.GoalParams
		wantErr error
	}

	tests := []testCase{
		{name: "Valid", params: ledger.GoalParams{Name: "Trip", Target: 100000}},
		{name: "ValidWithDeadline", params: ledger.GoalParams{Name: "Trip", Target: 100000, Deadline: &future}},
		{name: "DeadlineToday", params: ledger.GoalParams{Name: "Trip", Target: 100000, Deadline: &now}},
		{name: "EmptyName", params: ledger.GoalParams{Name: " ", Target: 100000}, wantErr: ledger.ErrEmptyGoalName},
		{name: "ZeroTarget", params: ledger.GoalParams{Name: "Trip"}, wantErr: ledger.ErrInvalidTarget},
		{name: "PastDeadline", params: ledger.GoalParams{Name: "Trip", Target: 1, Deadline: &past}, wantErr: ledger.ErrInvalidDeadline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate(now.Add(15 * time.Hour))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestGoal_Progress(t *testing.T) {
	assert.InDelta(t, 25.0, ledger.Goal{Target: 400, Current: 100}.Progress(), 0.0001)
	assert.InDelta(t, 100.0, ledger.Goal{Target: 400, Current: 400}.Progress(), 0.0001)
	assert.Zero(t, ledger.Goal{}.Progress())
	assert.Equal(t, int64(300), ledger.Goal{Target: 400, Current: 100}.Remaining())
}

func TestState_Contribute(t *testing.T) {
	now := date(2026, 3, 10)
	st := stateWith(t, income(100000, date(2026, 3, 1)))

	g, err := st.AddGoal(ledger.GoalParams{Name: "Trip", Target: 50000}, now)
	require.NoError(t, err)

	res, err := st.Contribute(g.ID, 20000, now)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), res.Goal.Current)
	assert.False(t, res.Completed)
	assert.Equal(t, ledger.CategorySavings, res.Transaction.Category)
	assert.Equal(t, "Goal: Trip", res.Transaction.Notes)
	assert.Equal(t, transaction.TypeExpense, res.Transaction.Type)
	assert.Equal(t, int64(80000), st.AvailableSavings())

	// Only the remaining 30000 fits under the target.
	res, err = st.Contribute(g.ID, 40000, now)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, int64(50000), res.Goal.Current)
	assert.Equal(t, int64(30000), res.Transaction.Amount)
	assert.Equal(t, int64(50000), st.AvailableSavings())

	_, err = st.Contribute(g.ID, 1000, now)
	assert.ErrorIs(t, err, ledger.ErrGoalComplete)
}

func TestState_Contribute_Errors(t *testing.T) {
	now := date(2026, 3, 10)

	type testCase struct {
		name    string
		amount  int64
		unknown bool
		wantErr error
	}

	tests := []testCase{
		{name: "ZeroAmount", amount: 0, wantErr: transaction.ErrInvalidAmount},
		{name: "NegativeAmount", amount: -5, wantErr: transaction.ErrInvalidAmount},
		{name: "UnknownGoal", amount: 100, unknown: true, wantErr: ledger.ErrNotFound},
		{name: "ExceedsSavings", amount: 10001, wantErr: ledger.ErrInsufficientSavings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := stateWith(t, income(10000, date(2026, 3, 1)))

			g, err := st.AddGoal(ledger.GoalParams{Name: "Car", Target: 1000000}, now)
			require.NoError(t, err)

			id := g.ID
			if tt.unknown {
				id = uuid.New()
			}

			_, err = st.Contribute(id, tt.amount, now)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, st.Transactions, 1)
			assert.Zero(t, st.Goals[0].Current)
		})
	}
}

func TestState_DeleteGoal(t *testing.T) {
	st := ledger.Default()

	g, err := st.AddGoal(ledger.GoalParams{Name: "Trip", Target: 100}, date(2026, 1, 1))
	require.NoError(t, err)

	require.NoError(t, st.DeleteGoal(g.ID))
	assert.Empty(t, st.Goals)
	assert.ErrorIs(t, st.DeleteGoal(g.ID), ledger.ErrNotFound)
}
