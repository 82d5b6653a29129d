package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const storeTimeout = 5 * time.Second

var errNegativeAmount = errors.New("amount cannot be negative")

// FormatAmount renders cents with thousands separators, e.g. 1,234.50.
func FormatAmount(cents int64) string {
	return humanize.FormatFloat("#,###.##", float64(cents)/100)
}

func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// parseMoney reads a major-unit amount such as "1,234.5" into cents. An empty
// input is zero, which is only accepted when allowZero is set.
func parseMoney(s string, allowZero bool) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		s = "0"
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	cents := d.Shift(2).Round(0).IntPart()

	switch {
	case cents < 0:
		return 0, errNegativeAmount
	case cents == 0 && !allowZero:
		return 0, errors.New("amount must be greater than zero")
	}

	return cents, nil
}

// parseDay reads YYYY-MM-DD; empty means fallback.
func parseDay(s string, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD")
	}

	return t, nil
}

// storeCtx bounds a single write-through to storage.
func storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
