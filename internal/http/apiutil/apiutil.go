// Package apiutil holds the small pieces every v1 handler shares: mapping
// domain errors to status codes and reading dates from requests.
package apiutil

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

var invalid = []error{
	transaction.ErrInvalidAmount,
	transaction.ErrInvalidType,
	transaction.ErrEmptyCategory,
	transaction.ErrMissingDate,
	ledger.ErrEmptyGoalName,
	ledger.ErrInvalidTarget,
	ledger.ErrInvalidDeadline,
	ledger.ErrEmptyTicker,
	ledger.ErrInvalidQty,
	ledger.ErrInvalidPrice,
	ledger.ErrEmptySubscriptionName,
	ledger.ErrInvalidDueDay,
	ledger.ErrInvalidTheme,
	matching.ErrEmptyPattern,
	matching.ErrEmptyCategory,
}

// Status maps an error returned by a service to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, matching.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientSavings), errors.Is(err, ledger.ErrGoalComplete):
		return http.StatusConflict
	}

	for _, target := range invalid {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}

	return http.StatusInternalServerError
}

// Error writes err with the status Status picks. Unexpected errors are logged
// and hidden from the client.
func Error(w http.ResponseWriter, err error) {
	code := Status(err)
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", code)

		return
	}

	http.Error(w, err.Error(), code)
}

// ParseDate reads a YYYY-MM-DD date. Empty input means today.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return transaction.DateOnly(now), nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}

	return t, nil
}

// DateFilter reads start_date and end_date from the query string. Unparseable
// values are ignored.
func DateFilter(r *http.Request, f *transaction.ListFilter) {
	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			f.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			f.EndDate = new(t)
		}
	}
}
