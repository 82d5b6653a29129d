package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

func TestParseFormat(t *testing.T) {
	type testCase struct {
		in      string
		want    importer.Format
		wantErr bool
	}

	tests := []testCase{
		{in: "", want: importer.FormatPocket},
		{in: "pocket", want: importer.FormatPocket},
		{in: " CGD ", want: importer.FormatCGD},
		{in: "ofx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := importer.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Import(t *testing.T) {
	svc := importer.NewService(nil)
	ctx := context.Background()

	txs, err := svc.Import(ctx, importer.FormatPocket, strings.NewReader("Date,Category,Amount,Type,Notes\n2026-01-02,Food,3.50,expense,\n"))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	txs, err = svc.Import(ctx, importer.FormatCGD, strings.NewReader("Data mov.;Descrição;Montante\n30-01-2026;TEST;10,00\n"))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, transaction.TypeIncome, txs[0].Type)

	_, err = svc.Import(ctx, importer.Format("qif"), strings.NewReader(""))
	assert.Error(t, err)
}
