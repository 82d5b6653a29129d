package insight

import (
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// Forecast projects this month's expenses.
type Forecast struct {
	Month        string
	MonthToDate  int64
	DailyAverage int64
	Projected    int64 // MonthToDate extended at DailyAverage to month end
	Pending      int64 // subscriptions still due this month
	Total        int64
	DaysElapsed  int
	DaysInMonth  int
}

// ForecastMonth extrapolates the month-to-date expense of now's month and adds
// the subscriptions that fall due between today and month end.
func ForecastMonth(txs []transaction.Transaction, subs []ledger.Subscription, now time.Time) Forecast {
	today := transaction.DateOnly(now)
	first := today.AddDate(0, 0, 1-today.Day())
	last := first.AddDate(0, 1, -1)

	f := Forecast{
		Month:       today.Format("2006-01"),
		DaysElapsed: today.Day(),
		DaysInMonth: last.Day(),
	}

	for _, t := range txs {
		if t.Type != transaction.TypeExpense || t.Date.Before(first) || t.Date.After(today) {
			continue
		}

		f.MonthToDate += t.Amount
	}

	f.DailyAverage = f.MonthToDate / int64(f.DaysElapsed)
	f.Projected = f.MonthToDate + f.DailyAverage*int64(f.DaysInMonth-f.DaysElapsed)

	for _, sub := range subs {
		if due := sub.NextDue(now); !due.After(last) {
			f.Pending += sub.Amount
		}
	}

	f.Total = f.Projected + f.Pending

	return f
}
