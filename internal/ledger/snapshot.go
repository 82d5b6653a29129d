package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// SnapshotVersion is written into every snapshot. Snapshots without a version
// come from the legacy dashboard that kept amounts in whole currency units.
const SnapshotVersion = 1

const UncategorizedCategory = "Uncategorized"

// ErrCorruptSnapshot means the stored document could not be read at all.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// legacyNamespace seeds deterministic ids for legacy numeric ids.
var legacyNamespace = uuid.MustParse("8f3c64f1-5a34-4d53-9d67-7c2b0b7f0e11")

// number accepts JSON numbers, numeric strings, null and anything else. It
// never fails: unreadable values become zero.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	*n = 0

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = number(f)
		}
	}

	return nil
}

// cents converts a stored number into cents; major units are scaled by 100.
func (n number) cents(major bool) int64 {
	d := decimal.NewFromFloat(float64(n))
	if major {
		d = d.Shift(2)
	}

	return d.Round(0).IntPart()
}

// quantity is a decimal written as a string and read leniently.
type quantity struct {
	decimal.Decimal
}

func (q *quantity) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		d = decimal.Zero
	}

	q.Decimal = d

	return nil
}

// ident accepts string ids and the numeric ids of legacy snapshots.
type ident string

func (id *ident) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ident(s)
		return nil
	}

	*id = ident(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	if *id == "null" {
		*id = ""
	}

	return nil
}

func (id ident) uuid() uuid.UUID {
	raw := strings.TrimSpace(string(id))
	if raw == "" {
		return uuid.New()
	}

	if u, err := uuid.Parse(raw); err == nil {
		return u
	}

	return uuid.NewSHA1(legacyNamespace, []byte(raw))
}

type txRecord struct {
	ID       ident  `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   number `json:"amount"`
	Type     string `json:"type"`
	Notes    string `json:"notes,omitempty"`
}

type goalRecord struct {
	ID       ident  `json:"id"`
	Name     string `json:"name"`
	Target   number `json:"target"`
	Current  number `json:"current"`
	Deadline string `json:"deadline,omitempty"`
}

type positionRecord struct {
	ID           ident    `json:"id"`
	Ticker       string   `json:"ticker"`
	Qty          quantity `json:"qty"`
	BuyPrice     number   `json:"buy_price"`
	CurrentPrice number   `json:"current_price"`
}

type subscriptionRecord struct {
	ID     ident  `json:"id"`
	Name   string `json:"name"`
	Amount number `json:"amount"`
	DueDay number `json:"due_day"`
}

type netWorthRecord struct {
	Date  string `json:"date"`
	Value number `json:"value"`
}

// legacyExpense is an entry of the pre-ledger "expenseEntries" list.
type legacyExpense struct {
	ID       ident  `json:"id"`
	Category string `json:"category"`
	Amount   number `json:"amount"`
	Date     string `json:"date"`
}

type snapshot struct {
	Version       int                  `json:"version"`
	Transactions  []txRecord           `json:"transactions"`
	Budget        number               `json:"budget"`
	Goals         []goalRecord         `json:"goals"`
	Positions     []positionRecord     `json:"investments"`
	Subscriptions []subscriptionRecord `json:"subscriptions"`
	NetWorth      []netWorthRecord     `json:"net_worth"`
	Theme         string               `json:"theme"`

	// Legacy fields, read only.
	Income         number          `json:"income,omitempty"`
	ExpenseEntries []legacyExpense `json:"expenseEntries,omitempty"`
}

// Encode serialises the state as the current snapshot version.
func Encode(st State) ([]byte, error) {
	snap := snapshot{
		Version: SnapshotVersion,
		Budget:  number(st.Budget),
		Theme:   string(st.Theme),
	}

	for _, t := range st.Transactions {
		snap.Transactions = append(snap.Transactions, txRecord{
			ID:       ident(t.ID.String()),
			Date:     formatDate(t.Date),
			Category: t.Category,
			Amount:   number(t.Amount),
			Type:     string(t.Type),
			Notes:    t.Notes,
		})
	}

	for _, g := range st.Goals {
		rec := goalRecord{
			ID:      ident(g.ID.String()),
			Name:    g.Name,
			Target:  number(g.Target),
			Current: number(g.Current),
		}
		if g.Deadline != nil {
			rec.Deadline = formatDate(*g.Deadline)
		}

		snap.Goals = append(snap.Goals, rec)
	}

	for _, p := range st.Positions {
		snap.Positions = append(snap.Positions, positionRecord{
			ID:           ident(p.ID.String()),
			Ticker:       p.Ticker,
			Qty:          quantity{p.Qty},
			BuyPrice:     number(p.BuyPrice),
			CurrentPrice: number(p.CurrentPrice),
		})
	}

	for _, sub := range st.Subscriptions {
		snap.Subscriptions = append(snap.Subscriptions, subscriptionRecord{
			ID:     ident(sub.ID.String()),
			Name:   sub.Name,
			Amount: number(sub.Amount),
			DueDay: number(sub.DueDay),
		})
	}

	for _, s := range st.NetWorth {
		snap.NetWorth = append(snap.NetWorth, netWorthRecord{Date: formatDate(s.Date), Value: number(s.Value)})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	return data, nil
}

// Decode reads a snapshot of any known version and returns a normalized
// state. Missing collections default to empty. Structurally unreadable input
// returns ErrCorruptSnapshot; callers reset to Default rather than keep a
// partial state.
func Decode(data []byte) (State, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Default(), nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	major := snap.Version == 0

	st := State{
		Budget: snap.Budget.cents(major),
		Theme:  Theme(snap.Theme),
	}

	for _, r := range snap.Transactions {
		st.Transactions = append(st.Transactions, transaction.Transaction{
			ID:       r.ID.uuid(),
			Date:     parseDate(r.Date),
			Category: r.Category,
			Amount:   r.Amount.cents(major),
			Type:     transaction.Type(strings.ToLower(strings.TrimSpace(r.Type))),
			Notes:    r.Notes,
		})
	}

	if major {
		st.Transactions = append(st.Transactions, legacyTransactions(snap)...)
	}

	for _, r := range snap.Goals {
		g := Goal{
			ID:      r.ID.uuid(),
			Name:    r.Name,
			Target:  r.Target.cents(major),
			Current: r.Current.cents(major),
		}

		if d := parseDate(r.Deadline); !d.IsZero() {
			g.Deadline = &d
		}

		st.Goals = append(st.Goals, g)
	}

	for _, r := range snap.Positions {
		st.Positions = append(st.Positions, Position{
			ID:           r.ID.uuid(),
			Ticker:       r.Ticker,
			Qty:          r.Qty.Decimal,
			BuyPrice:     r.BuyPrice.cents(major),
			CurrentPrice: r.CurrentPrice.cents(major),
		})
	}

	for _, r := range snap.Subscriptions {
		st.Subscriptions = append(st.Subscriptions, Subscription{
			ID:     r.ID.uuid(),
			Name:   r.Name,
			Amount: r.Amount.cents(major),
			DueDay: int(r.DueDay),
		})
	}

	for _, r := range snap.NetWorth {
		st.NetWorth = append(st.NetWorth, NetWorthSample{Date: parseDate(r.Date), Value: r.Value.cents(major)})
	}

	return Normalize(st), nil
}

// legacyTransactions rebuilds the transaction log from the old shape, where
// income was a running total and only expenses were itemized.
func legacyTransactions(snap snapshot) []transaction.Transaction {
	var txs []transaction.Transaction

	for _, e := range snap.ExpenseEntries {
		txs = append(txs, transaction.Transaction{
			ID:       e.ID.uuid(),
			Date:     parseDate(e.Date),
			Category: e.Category,
			Amount:   e.Amount.cents(true),
			Type:     transaction.TypeExpense,
		})
	}

	if income := snap.Income.cents(true); income > 0 {
		txs = append([]transaction.Transaction{{
			ID:       uuid.NewSHA1(legacyNamespace, []byte("legacy-income")),
			Date:     earliestDate(txs),
			Category: "Income",
			Amount:   income,
			Type:     transaction.TypeIncome,
			Notes:    "Carried over from legacy income total",
		}}, txs...)
	}

	return txs
}

// earliestDate is the date given to transactions saved without one: the
// oldest dated transaction, or today when none has a date.
func earliestDate(txs []transaction.Transaction) time.Time {
	var first time.Time

	for _, t := range txs {
		if !t.Date.IsZero() && (first.IsZero() || t.Date.Before(first)) {
			first = t.Date
		}
	}

	if first.IsZero() {
		return transaction.DateOnly(time.Now())
	}

	return first
}

// Normalize drops entries that can never be valid and clamps the rest. It is
// applied once when a snapshot is loaded.
func Normalize(st State) State {
	out := State{
		Budget: max(st.Budget, 0),
		Theme:  st.Theme,
	}

	if out.Theme != ThemeDark {
		out.Theme = ThemeLight
	}

	undated := earliestDate(st.Transactions)

	for _, t := range st.Transactions {
		if t.Amount <= 0 || !t.Type.Valid() {
			continue
		}

		if t.Date.IsZero() {
			t.Date = undated
		}

		t.Category = strings.TrimSpace(t.Category)
		if t.Category == "" {
			t.Category = UncategorizedCategory
		}

		out.Transactions = append(out.Transactions, t)
	}

	for _, g := range st.Goals {
		if g.Target <= 0 {
			continue
		}

		if strings.TrimSpace(g.Name) == "" {
			g.Name = "Goal"
		}

		g.Current = min(max(g.Current, 0), g.Target)
		out.Goals = append(out.Goals, g)
	}

	for _, p := range st.Positions {
		if !p.Qty.IsPositive() || p.BuyPrice <= 0 {
			continue
		}

		if p.CurrentPrice <= 0 {
			p.CurrentPrice = p.BuyPrice
		}

		p.Ticker = strings.ToUpper(strings.TrimSpace(p.Ticker))
		out.Positions = append(out.Positions, p)
	}

	for _, sub := range st.Subscriptions {
		if sub.Amount <= 0 {
			continue
		}

		sub.DueDay = min(max(sub.DueDay, 1), 31)
		out.Subscriptions = append(out.Subscriptions, sub)
	}

	out.NetWorth = st.NetWorth
	if len(out.NetWorth) > MaxNetWorthSamples {
		out.NetWorth = out.NetWorth[len(out.NetWorth)-MaxNetWorthSamples:]
	}

	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}

// parseDate accepts YYYY-MM-DD and RFC 3339 timestamps; anything else is zero.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return transaction.DateOnly(t)
	}

	return time.Time{}
}
