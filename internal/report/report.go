// Package report turns a ledger state into the numbers shown on the dashboard
// and into the exportable report document.
package report

import (
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/insight"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

const (
	// RecentLimit is how many transactions the report lists.
	RecentLimit = 10
	// UpcomingDays is the look-ahead window for subscription reminders.
	UpcomingDays = 7
)

type Budget struct {
	Limit     int64   `json:"limit"`
	Spent     int64   `json:"spent"`
	Remaining int64   `json:"remaining"`
	UsedPct   float64 `json:"used_pct"`
	Exceeded  bool    `json:"exceeded"`
}

type Health struct {
	Score        int     `json:"score"`
	Grade        string  `json:"grade"`
	SavingsRatio float64 `json:"savings_ratio"`
	GoalProgress float64 `json:"goal_progress"`
}

type Advice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Portfolio struct {
	Value int64 `json:"value"`
	Cost  int64 `json:"cost"`
	PnL   int64 `json:"pnl"`
}

type Point struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

type Upcoming struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Due    string `json:"due"`
}

type CategoryLine struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type MonthLine struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Savings int64  `json:"savings"`
}

type Forecast struct {
	Month        string `json:"month"`
	MonthToDate  int64  `json:"month_to_date"`
	DailyAverage int64  `json:"daily_average"`
	Projected    int64  `json:"projected"`
	Pending      int64  `json:"pending_subscriptions"`
	Total        int64  `json:"total"`
}

// Summary is everything the dashboard derives from the state.
type Summary struct {
	Income     int64          `json:"income"`
	Expense    int64          `json:"expense"`
	Savings    int64          `json:"savings"`
	Budget     Budget         `json:"budget"`
	Health     Health         `json:"health"`
	Advice     Advice         `json:"advice"`
	Categories []CategoryLine `json:"categories"`
	Monthly    []MonthLine    `json:"monthly"`
	Portfolio  Portfolio      `json:"portfolio"`
	NetWorth   int64          `json:"net_worth"`
	History    []Point        `json:"net_worth_history"`
	BurnRate   int64          `json:"burn_rate"`
	Upcoming   []Upcoming     `json:"upcoming_subscriptions"`
	Forecast   Forecast       `json:"forecast"`
	Theme      string         `json:"theme"`
}

func Summarize(st ledger.State, now time.Time) Summary {
	income := st.TotalIncome()
	expense := st.TotalExpense()
	h := insight.Evaluate(st.Transactions, st.Budget)
	a := insight.Advise(insight.InputFrom(st.Transactions, st.Budget))
	f := insight.ForecastMonth(st.Transactions, st.Subscriptions, now)

	s := Summary{
		Income:     income,
		Expense:    expense,
		Savings:    income - expense,
		Budget:     budgetOf(st.Budget, expense),
		Health:     Health{Score: h.Score, Grade: h.Grade, SavingsRatio: h.SavingsRatio, GoalProgress: h.GoalProgress},
		Advice:     Advice{Level: string(a.Level), Message: a.Message},
		Portfolio: Portfolio{
			Value: st.PortfolioValue(),
			Cost:  st.PortfolioCost(),
			PnL:   st.PortfolioValue() - st.PortfolioCost(),
		},
		NetWorth: st.NetWorthValue(),
		BurnRate: ledger.BurnRate(st.Subscriptions),
		Forecast: Forecast{
			Month:        f.Month,
			MonthToDate:  f.MonthToDate,
			DailyAverage: f.DailyAverage,
			Projected:    f.Projected,
			Pending:      f.Pending,
			Total:        f.Total,
		},
		Theme: string(st.Theme),
	}

	for _, c := range transaction.SortByAmount(transaction.ExpensesByCategory(st.Transactions)) {
		s.Categories = append(s.Categories, CategoryLine{Category: c.Category, Amount: c.Amount})
	}

	for _, mt := range transaction.MonthlyTotals(st.Transactions) {
		s.Monthly = append(s.Monthly, MonthLine{Month: mt.Month, Income: mt.Income, Expense: mt.Expense, Savings: mt.Savings()})
	}

	for _, p := range st.NetWorth {
		s.History = append(s.History, Point{Date: p.Date.Format(time.DateOnly), Value: p.Value})
	}

	for _, u := range ledger.UpcomingSubscriptions(st.Subscriptions, now, UpcomingDays) {
		s.Upcoming = append(s.Upcoming, Upcoming{
			Name:   u.Subscription.Name,
			Amount: u.Subscription.Amount,
			Due:    u.Due.Format(time.DateOnly),
		})
	}

	return s
}

func budgetOf(limit, spent int64) Budget {
	b := Budget{Limit: limit, Spent: spent}
	if limit <= 0 {
		return b
	}

	b.Remaining = limit - spent
	b.UsedPct = float64(spent) / float64(limit) * 100
	b.Exceeded = spent > limit

	return b
}

type GoalLine struct {
	Name     string  `json:"name"`
	Target   int64   `json:"target"`
	Current  int64   `json:"current"`
	Progress float64 `json:"progress"`
	Deadline string  `json:"deadline,omitempty"`
}

type PositionLine struct {
	Ticker       string `json:"ticker"`
	Qty          string `json:"qty"`
	BuyPrice     int64  `json:"buy_price"`
	CurrentPrice int64  `json:"current_price"`
	Value        int64  `json:"value"`
	PnL          int64  `json:"pnl"`
}

type SubscriptionLine struct {
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	DueDay  int    `json:"due_day"`
	NextDue string `json:"next_due"`
}

type TransactionLine struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Type     string `json:"type"`
	Notes    string `json:"notes,omitempty"`
}

// Report holds the inputs of the report document.
type Report struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	Summary       Summary            `json:"summary"`
	Goals         []GoalLine         `json:"goals"`
	Positions     []PositionLine     `json:"positions"`
	Subscriptions []SubscriptionLine `json:"subscriptions"`
	Recent        []TransactionLine  `json:"recent"`
}

func Build(st ledger.State, now time.Time) Report {
	r := Report{
		GeneratedAt: now,
		Summary:     Summarize(st, now),
	}

	for _, t := range transaction.Recent(st.Transactions, RecentLimit) {
		r.Recent = append(r.Recent, TransactionLine{
			Date:     t.Date.Format(time.DateOnly),
			Category: t.Category,
			Amount:   t.Amount,
			Type:     string(t.Type),
			Notes:    t.Notes,
		})
	}

	for _, g := range st.Goals {
		line := GoalLine{Name: g.Name, Target: g.Target, Current: g.Current, Progress: g.Progress()}
		if g.Deadline != nil {
			line.Deadline = g.Deadline.Format(time.DateOnly)
		}

		r.Goals = append(r.Goals, line)
	}

	for _, p := range st.Positions {
		r.Positions = append(r.Positions, PositionLine{
			Ticker:       p.Ticker,
			Qty:          p.Qty.String(),
			BuyPrice:     p.BuyPrice,
			CurrentPrice: p.CurrentPrice,
			Value:        p.MarketValue(),
			PnL:          p.UnrealizedPnL(),
		})
	}

	for _, sub := range st.Subscriptions {
		r.Subscriptions = append(r.Subscriptions, SubscriptionLine{
			Name:    sub.Name,
			Amount:  sub.Amount,
			DueDay:  sub.DueDay,
			NextDue: sub.NextDue(now).Format(time.DateOnly),
		})
	}

	return r
}
