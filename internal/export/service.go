package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/report"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// Source is the read side of the ledger.
type Source interface {
	State() ledger.State
	Now() time.Time
}

// Result describes the files written by Export.
type Result struct {
	CSVPath      string
	ReportPath   string
	Count        int
	Transactions []transaction.Transaction
}

// Service writes the transaction CSV and the text report to disk.
type Service struct {
	source   Source
	currency string
}

func NewService(source Source, currency string) *Service {
	return &Service{source: source, currency: currency}
}

// Matching returns how many transactions Export would write for filter.
func (s *Service) Matching(filter transaction.ListFilter) int {
	return len(transaction.Filter(s.source.State().Transactions, filter))
}

// Export writes the transactions matching filter, oldest first, together with
// a report of the whole ledger into outputDir.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, outputDir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := s.source.State()
	now := s.source.Now()
	txs := transaction.SortByDate(transaction.Filter(st.Transactions, filter))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	stamp := now.Format("2006-01-02")
	res := &Result{
		CSVPath:      filepath.Join(outputDir, "transactions_"+stamp+".csv"),
		ReportPath:   filepath.Join(outputDir, "report_"+stamp+".txt"),
		Count:        len(txs),
		Transactions: txs,
	}

	if err := writeFile(res.CSVPath, func(f *os.File) error { return WriteCSV(f, txs) }); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	rep := report.Build(st, now)
	if err := writeFile(res.ReportPath, func(f *os.File) error { return report.WriteText(f, rep, s.currency) }); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}

	return res, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Summary lists the exported transactions, one per line.
func (s *Service) Summary(res *Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d transactions -> %s\n", res.Count, filepath.Base(res.CSVPath))

	for _, t := range res.Transactions {
		sign := "-"
		if t.Type == transaction.TypeIncome {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s", t.Date.Format("2006-01-02"), t.Category, sign, report.Money(t.Amount, s.currency))

		if t.Notes != "" {
			sb.WriteString(" | " + t.Notes)
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}
