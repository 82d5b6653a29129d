package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Money formats cents with thousands separators, e.g. "1,234.50 EUR".
func Money(cents int64, currency string) string {
	s := humanize.FormatFloat("#,###.##", float64(cents)/100)
	if currency == "" {
		return s
	}

	return s + " " + currency
}

// WriteText renders the report as plain text.
func WriteText(w io.Writer, r Report, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	m := func(c int64) string { return Money(c, currency) }
	s := r.Summary

	fmt.Fprintf(tw, "Pocket report\t%s\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(tw, "Income\t%s\n", m(s.Income))
	fmt.Fprintf(tw, "Expenses\t%s\n", m(s.Expense))
	fmt.Fprintf(tw, "Savings\t%s\n", m(s.Savings))

	if s.Budget.Limit > 0 {
		fmt.Fprintf(tw, "Budget\t%s (%.0f%% used)\n", m(s.Budget.Limit), s.Budget.UsedPct)
	}

	fmt.Fprintf(tw, "Net worth\t%s\n", m(s.NetWorth))
	fmt.Fprintf(tw, "Health\t%d/100 (%s)\n", s.Health.Score, s.Health.Grade)
	fmt.Fprintf(tw, "Forecast %s\t%s\n", s.Forecast.Month, m(s.Forecast.Total))
	fmt.Fprintf(tw, "\n%s\n", s.Advice.Message)

	section(tw, "Expenses by category", len(s.Categories))
	for _, c := range s.Categories {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Category, m(c.Amount))
	}

	section(tw, "Goals", len(r.Goals))
	for _, g := range r.Goals {
		fmt.Fprintf(tw, "  %s\t%s / %s\t%.0f%%\n", g.Name, m(g.Current), m(g.Target), g.Progress)
	}

	section(tw, "Investments", len(r.Positions))
	for _, p := range r.Positions {
		fmt.Fprintf(tw, "  %s\t%s\t%s\tP&L %s\n", p.Ticker, p.Qty, m(p.Value), m(p.PnL))
	}

	section(tw, "Subscriptions", len(r.Subscriptions))
	for _, sub := range r.Subscriptions {
		fmt.Fprintf(tw, "  %s\t%s\tnext %s\n", sub.Name, m(sub.Amount), sub.NextDue)
	}

	if len(r.Subscriptions) > 0 {
		fmt.Fprintf(tw, "  Monthly burn\t%s\n", m(s.BurnRate))
	}

	section(tw, "Recent transactions", len(r.Recent))
	for _, t := range r.Recent {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", t.Date, t.Category, sign(t.Type)+m(t.Amount), t.Notes)
	}

	return tw.Flush()
}

func section(w io.Writer, title string, n int) {
	if n == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func sign(typ string) string {
	if typ == "income" {
		return "+"
	}

	return "-"
}
