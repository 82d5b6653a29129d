package cgd_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/pocket/internal/importer/cgd"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

type rules map[string]string

func (r rules) Suggest(_ context.Context, raw string) (string, error) {
	for pattern, category := range r {
		if strings.Contains(strings.ToLower(raw), pattern) {
			return category, nil
		}
	}

	return "", nil
}

type failing struct{}

func (failing) Suggest(context.Context, string) (string, error) {
	return "", errors.New("db down")
}

const conta = `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE

Dados da conta
Saldo disponível;1.000,00 EUR
Intervalo de;01-01-2026 a 31-01-2026

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;CONTINENTE LISBOA;-58,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

const extrato = `Consultar extrato - 15-02-2026 : 0829015676030
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

const cartao = `Consultar saldos e movimentos de cartões - 15-02-2026
Desde ;15/12/2025

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ; ;47,91 ;
 ; ; ; ;Página 1/2 ;
`

func TestParser_Profiles(t *testing.T) {
	type testCase struct {
		name string
		csv  string
		want []transaction.CreateParams
	}

	tests := []testCase{
		{
			name: "Conta",
			csv:  conta,
			want: []transaction.CreateParams{
				{Date: date(2026, 1, 30), Category: "Groceries", Amount: 5874, Type: transaction.TypeExpense, Notes: "CONTINENTE LISBOA"},
				{Date: date(2026, 1, 9), Category: "Salary", Amount: 860852, Type: transaction.TypeIncome, Notes: "TFI Wise"},
			},
		},
		{
			name: "Extrato",
			csv:  extrato,
			want: []transaction.CreateParams{
				{Date: date(2026, 2, 13), Category: ledger.UncategorizedCategory, Amount: 60813, Type: transaction.TypeExpense, Notes: "PAGAMENTO TSU"},
				{Date: date(2026, 2, 4), Category: "Salary", Amount: 432406, Type: transaction.TypeIncome, Notes: "TFI Wise"},
			},
		},
		{
			name: "Cartao",
			csv:  cartao,
			want: []transaction.CreateParams{
				{Date: date(2025, 12, 16), Category: ledger.UncategorizedCategory, Amount: 6400, Type: transaction.TypeExpense, Notes: "PA GONDOMAR         GONDOMAR"},
				{Date: date(2025, 12, 31), Category: "Transport", Amount: 4791, Type: transaction.TypeIncome, Notes: "UBER   *TRIP             HELP.UBER.COMNL"},
			},
		},
	}

	categorizer := rules{"continente": "Groceries", "wise": "Salary", "uber": "Transport"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := cgd.NewParser(categorizer).Parse(context.Background(), strings.NewReader(tt.csv))
			require.NoError(t, err)
			assert.Equal(t, tt.want, txs)
		})
	}
}

func TestParser_NoCategorizer(t *testing.T) {
	txs, err := cgd.NewParser(nil).Parse(context.Background(), strings.NewReader(conta))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	for _, tx := range txs {
		assert.Equal(t, ledger.UncategorizedCategory, tx.Category)
		assert.NoError(t, tx.Validate())
	}
}

func TestParser_CategorizerError(t *testing.T) {
	_, err := cgd.NewParser(failing{}).Parse(context.Background(), strings.NewReader(conta))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestParser_Windows1252(t *testing.T) {
	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"))
	require.NoError(t, err)

	txs, err := cgd.NewParser(nil).Parse(context.Background(), bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "CAFÉ CENTRAL", txs[0].Notes)
}

func TestParser_Rows(t *testing.T) {
	type testCase struct {
		name       string
		csv        string
		wantLen    int
		wantAmount int64
		wantErr    string
	}

	tests := []testCase{
		{
			name:       "ColumnsInAnyOrder",
			csv:        "Random;MetaData\nMontante;Descrição;Data mov.;Ignored\n-10,00;TEST_ORDER;30-01-2026;XXX\n",
			wantLen:    1,
			wantAmount: 1000,
		},
		{
			name:       "ThousandsSeparators",
			csv:        "Data mov.;Descrição;Montante\n30-01-2026;BIG TRANSFER;-1.234.567,89\n",
			wantLen:    1,
			wantAmount: 123456789,
		},
		{
			name:       "FooterSkipped",
			csv:        "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\nTotais;;;;\n",
			wantLen:    1,
			wantAmount: 1000,
		},
		{
			name:    "ZeroAmountSkipped",
			csv:     "Data mov.;Descrição;Montante\n30-01-2026;TEST;0,00\n",
			wantLen: 0,
		},
		{
			name:    "HeaderOnly",
			csv:     "Data mov.;Data-valor;Descrição;Montante",
			wantLen: 0,
		},
		{
			name:    "MissingDescription",
			csv:     "Data mov.;Descrição;Montante\n30-01-2026;;-10,00\n",
			wantErr: "missing description",
		},
		{
			name:    "Empty",
			csv:     "",
			wantErr: "no matching CGD format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := cgd.NewParser(nil).Parse(context.Background(), strings.NewReader(tt.csv))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.Len(t, txs, tt.wantLen)

			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantAmount, txs[0].Amount)
			}
		})
	}
}
