package pocket

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/pocket/internal/encoding"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// Column order of the native CSV format.
const (
	colDate = iota
	colCategory
	colAmount
	colType
	colNotes
)

// Parser reads the CSV written by export: Date,Category,Amount,Type,Notes
// with amounts in major units. The first row is always a header.
type Parser struct {
	now func() time.Time
}

type Option func(*Parser)

// WithClock sets the date used for rows without a readable date.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Parser) Parse(_ context.Context, r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("reading statement", "format", "pocket", "charset", charset)

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("read header: %w", err)
	}

	var txs []transaction.CreateParams

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		params, ok := p.parseRow(row)
		if !ok {
			continue
		}

		txs = append(txs, params)
	}

	return txs, nil
}

// parseRow returns false for rows that cannot become a transaction: blank
// lines and rows whose amount is missing, unreadable or not positive.
func (p *Parser) parseRow(row []string) (transaction.CreateParams, bool) {
	amount, err := decimal.NewFromString(cell(row, colAmount))
	if err != nil {
		return transaction.CreateParams{}, false
	}

	cents := amount.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return transaction.CreateParams{}, false
	}

	date, err := time.Parse(time.DateOnly, cell(row, colDate))
	if err != nil {
		date = transaction.DateOnly(p.now())
	}

	category := cell(row, colCategory)
	if category == "" {
		category = ledger.UncategorizedCategory
	}

	return transaction.CreateParams{
		Date:     date,
		Category: category,
		Amount:   cents,
		Type:     transaction.ParseType(cell(row, colType)),
		Notes:    cell(row, colNotes),
	}, true
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
