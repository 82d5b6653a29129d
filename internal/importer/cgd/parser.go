package cgd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/pocket/internal/encoding"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// Categorizer maps a raw bank description to a category; "" means unknown.
type Categorizer interface {
	Suggest(ctx context.Context, rawDescription string) (string, error)
}

// Parser reads CGD statement exports (conta, extrato, cartão). The layout is
// picked by finding the first row that looks like a known header; everything
// above it is account metadata.
type Parser struct {
	categorizer Categorizer
}

func NewParser(categorizer Categorizer) *Parser {
	return &Parser{categorizer: categorizer}
}

func (p *Parser) Parse(ctx context.Context, r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("reading statement", "format", "cgd", "charset", charset)

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	prof, header, at := findHeader(rows)
	if prof == nil {
		return nil, fmt.Errorf("no matching CGD format found: expected columns for conta, extrato, or cartão")
	}

	var txs []transaction.CreateParams

	for i, row := range rows[at+1:] {
		line := at + i + 2

		date, err := time.Parse("02-01-2006", field(row, header[prof.date]))
		if err != nil {
			// Footers and page markers have no date.
			continue
		}

		desc := field(row, header[prof.desc])
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", line)
		}

		var (
			amount int64
			typ    transaction.Type
			ok     bool
		)

		if prof.layout == debitCreditColumns {
			amount, typ, ok = debitOrCredit(field(row, header[prof.debit]), field(row, header[prof.credit]))
		} else {
			amount, typ, ok = signed(field(row, header[prof.amount]))
		}

		if !ok {
			continue
		}

		category, err := p.categorize(ctx, desc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		txs = append(txs, transaction.CreateParams{
			Date:     date,
			Category: category,
			Amount:   amount,
			Type:     typ,
			Notes:    desc,
		})
	}

	return txs, nil
}

func (p *Parser) categorize(ctx context.Context, desc string) (string, error) {
	if p.categorizer == nil {
		return ledger.UncategorizedCategory, nil
	}

	category, err := p.categorizer.Suggest(ctx, desc)
	if err != nil {
		return "", fmt.Errorf("categorizing %q: %w", desc, err)
	}

	if category == "" {
		return ledger.UncategorizedCategory, nil
	}

	return category, nil
}

func findHeader(rows [][]string) (*profile, map[string]int, int) {
	for at, row := range rows {
		header := make(map[string]int, len(row))

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				header[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].matches(header) {
				return &profiles[i], header, at
			}
		}
	}

	return nil, nil, 0
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
