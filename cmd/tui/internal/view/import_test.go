package view

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type noSuggestions struct{}

func (noSuggestions) Suggest(context.Context, string) (string, error) { return "", nil }

func newImportModel(t *testing.T) ImportModel {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := ledger.NewService(repo, "pocket")

	_, err := svc.AddTransaction(context.Background(), transaction.CreateParams{
		Date: date(2026, 5, 1), Category: "Food", Amount: 1250, Type: transaction.TypeExpense, Notes: "lunch",
	})
	require.NoError(t, err)

	return NewImportModel(svc, importer.NewService(noSuggestions{}))
}

func writeStatement(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func updateImport(t *testing.T, m ImportModel, msg tea.Msg) (ImportModel, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	im, ok := next.(ImportModel)
	require.True(t, ok)

	return im, cmd
}

func TestImportModel_NoConflicts(t *testing.T) {
	m := newImportModel(t)
	path := writeStatement(t, "Date,Category,Amount,Type,Notes\n2026-05-02,Fuel,40.00,expense,\n")

	m, _ = updateImport(t, m, m.read(path)())

	assert.Equal(t, importFinished, m.step)
	require.NoError(t, m.outcome.err)
	assert.Equal(t, 1, m.outcome.imported)
	assert.Contains(t, m.View(), "Imported 1 transactions.")
	assert.Len(t, m.ledger.State().Transactions, 2)
}

func TestImportModel_ResolveConflicts(t *testing.T) {
	m := newImportModel(t)
	path := writeStatement(t, "Date,Category,Amount,Type,Notes\n"+
		"2026-05-01,Food,12.50,expense,lunch\n"+
		"2026-05-02,Fuel,40.00,expense,\n")

	m, cmd := updateImport(t, m, m.read(path)())
	require.Equal(t, importResolve, m.step)
	require.NotNil(t, cmd)
	require.Len(t, m.pending.Conflicts, 1)
	require.Len(t, m.pending.New, 1)

	// Nothing is written until the user decides.
	assert.Len(t, m.ledger.State().Transactions, 1)

	m, _ = updateImport(t, m, m.save()())

	assert.Equal(t, importFinished, m.step)
	assert.Equal(t, 1, m.outcome.imported)
	assert.Equal(t, 1, m.outcome.skipped)
	assert.Contains(t, m.View(), "Skipped 1 duplicates.")
	assert.Len(t, m.ledger.State().Transactions, 2)
}

func TestImportModel_KeepDuplicate(t *testing.T) {
	m := newImportModel(t)
	path := writeStatement(t, "Date,Category,Amount,Type,Notes\n2026-05-01,Food,12.50,expense,lunch\n")

	m, _ = updateImport(t, m, m.read(path)())
	require.Equal(t, importResolve, m.step)

	m.choice.keep = []int{0}
	m, _ = updateImport(t, m, m.save()())

	assert.Equal(t, 1, m.outcome.imported)
	assert.Zero(t, m.outcome.skipped)
	assert.Len(t, m.ledger.State().Transactions, 2)
}

func TestImportModel_Navigation(t *testing.T) {
	m := newImportModel(t)
	assert.Equal(t, importChooseFormat, m.step)

	_, cmd := updateImport(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())

	m, _ = updateImport(t, m, importReadMsg{err: errors.New("bad header")})
	assert.Equal(t, importFinished, m.step)
	assert.Contains(t, m.View(), "Import failed: bad header")

	m, _ = updateImport(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, importChooseFormat, m.step)
	assert.Nil(t, m.outcome.err)
	assert.Equal(t, importer.FormatPocket, m.choice.format)
}
