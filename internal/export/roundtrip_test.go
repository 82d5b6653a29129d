package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/importer/pocket"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

func TestWriteCSV_ReadBack(t *testing.T) {
	in := []transaction.Transaction{
		transaction.New(transaction.CreateParams{
			Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Category: "Food", Amount: 1999,
			Type: transaction.TypeExpense, Notes: `lunch, "quick"`,
		}),
		transaction.New(transaction.CreateParams{
			Date: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), Category: "Salary", Amount: 300000,
			Type: transaction.TypeIncome,
		}),
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, in))

	out, err := pocket.NewParser().Parse(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, in[i].Date, out[i].Date)
		assert.Equal(t, in[i].Category, out[i].Category)
		assert.Equal(t, in[i].Amount, out[i].Amount)
		assert.Equal(t, in[i].Type, out[i].Type)
		assert.Equal(t, in[i].Notes, out[i].Notes)
	}
}
