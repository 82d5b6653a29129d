package export

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// Header is the first row of every exported file.
var Header = []string{"Date", "Category", "Amount", "Type", "Notes"}

// WriteCSV writes txs in the native format. Every field is double-quoted and
// embedded quotes are doubled, so notes may contain commas or quotes.
func WriteCSV(w io.Writer, txs []transaction.Transaction) error {
	bw := bufio.NewWriter(w)

	writeRow(bw, Header)

	for _, t := range txs {
		writeRow(bw, []string{
			t.Date.Format(time.DateOnly),
			t.Category,
			decimal.New(t.Amount, -2).StringFixed(2),
			string(t.Type),
			t.Notes,
		})
	}

	return bw.Flush()
}

func writeRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}

		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}

	w.WriteByte('\n')
}
