package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	"github.com/MrJamesThe3rd/pocket/internal/matching/store"
)

func newService(t *testing.T) *matching.Service {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pocket.db")
	require.NoError(t, database.Migrate(database.DriverSQLite, path))

	db, err := database.New(database.DriverSQLite, path)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return matching.NewService(store.New(db, database.DriverSQLite))
}

func TestService_Suggest(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Learn(ctx, "continente", "Groceries")
	require.NoError(t, err)

	_, err = svc.Learn(ctx, "continente bom dia", "Coffee")
	require.NoError(t, err)

	type testCase struct {
		name string
		raw  string
		want string
	}

	tests := []testCase{
		{name: "CaseInsensitive", raw: "COMPRA CONTINENTE LISBOA", want: "Groceries"},
		{name: "LongestPatternWins", raw: "compra Continente Bom Dia 123", want: "Coffee"},
		{name: "NoMatch", raw: "TRF MBWAY", want: ""},
		{name: "Blank", raw: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Suggest(ctx, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_SuggestMatchesPatternLiterally(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Learn(ctx, "100%_pure", "Juice")
	require.NoError(t, err)

	_, err = svc.Learn(ctx, `a\b`, "Slash")
	require.NoError(t, err)

	type testCase struct {
		name string
		raw  string
		want string
	}

	tests := []testCase{
		{name: "Literal", raw: "COMPRA 100%_PURE LDA", want: "Juice"},
		{name: "PercentNotWildcard", raw: "compra 100 anything pure", want: ""},
		{name: "UnderscoreNotWildcard", raw: "compra 100%xpure", want: ""},
		{name: "Backslash", raw: `ref a\b 12`, want: "Slash"},
		{name: "BackslashNotEscape", raw: "ref ab 12", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Suggest(ctx, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_LearnReplacesAndForget(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Learn(ctx, "uber", "Transport")
	require.NoError(t, err)

	rule, err := svc.Learn(ctx, " uber ", "Taxi")
	require.NoError(t, err)
	assert.Equal(t, "Taxi", rule.Category)

	rules, err := svc.Rules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "uber", rules[0].Pattern)

	require.NoError(t, svc.Forget(ctx, rule.ID))
	assert.ErrorIs(t, svc.Forget(ctx, rule.ID), matching.ErrNotFound)

	_, err = svc.Learn(ctx, "", "Taxi")
	assert.ErrorIs(t, err, matching.ErrEmptyPattern)

	_, err = svc.Learn(ctx, "x", " ")
	assert.ErrorIs(t, err, matching.ErrEmptyCategory)
}
