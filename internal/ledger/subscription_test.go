package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

func TestSubscription_NextDue(t *testing.T) {
	now := date(2026, 2, 10)

	type testCase struct {
		name   string
		dueDay int
		want   string
	}

	tests := []testCase{
		{name: "LaterThisMonth", dueDay: 15, want: "2026-02-15"},
		{name: "Today", dueDay: 10, want: "2026-02-10"},
		{name: "AlreadyPassed", dueDay: 5, want: "2026-03-05"},
		{name: "ClampedToMonthEnd", dueDay: 31, want: "2026-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := ledger.Subscription{Name: "x", Amount: 1, DueDay: tt.dueDay}
			assert.Equal(t, tt.want, sub.NextDue(now).Format("2006-01-02"))
		})
	}
}

func TestUpcomingSubscriptions(t *testing.T) {
	subs := []ledger.Subscription{
		{Name: "Gym", Amount: 3000, DueDay: 15},
		{Name: "Rent", Amount: 90000, DueDay: 5},
		{Name: "Music", Amount: 999, DueDay: 12},
	}

	got := ledger.UpcomingSubscriptions(subs, date(2026, 2, 10), 7)
	require.Len(t, got, 2)
	assert.Equal(t, "Music", got[0].Subscription.Name)
	assert.Equal(t, "Gym", got[1].Subscription.Name)

	assert.Equal(t, int64(93999), ledger.BurnRate(subs))
}

func TestState_Subscriptions(t *testing.T) {
	st := ledger.Default()

	_, err := st.AddSubscription(ledger.SubscriptionParams{Name: "Gym", Amount: 3000, DueDay: 32})
	assert.ErrorIs(t, err, ledger.ErrInvalidDueDay)

	_, err = st.AddSubscription(ledger.SubscriptionParams{Name: "", Amount: 3000, DueDay: 1})
	assert.ErrorIs(t, err, ledger.ErrEmptySubscriptionName)

	_, err = st.AddSubscription(ledger.SubscriptionParams{Name: "Gym", Amount: 0, DueDay: 1})
	assert.ErrorIs(t, err, transaction.ErrInvalidAmount)

	sub, err := st.AddSubscription(ledger.SubscriptionParams{Name: " Gym ", Amount: 3000, DueDay: 1})
	require.NoError(t, err)
	assert.Equal(t, "Gym", sub.Name)
	assert.Empty(t, st.Transactions)

	require.NoError(t, st.DeleteSubscription(sub.ID))
	assert.ErrorIs(t, st.DeleteSubscription(sub.ID), ledger.ErrNotFound)
}
