package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/apiutil"
	"github.com/MrJamesThe3rd/pocket/internal/http/goal"
	"github.com/MrJamesThe3rd/pocket/internal/http/investment"
	"github.com/MrJamesThe3rd/pocket/internal/http/subscription"
	txhttp "github.com/MrJamesThe3rd/pocket/internal/http/transaction"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/report"
)

// Handler serves the whole-ledger endpoints: state, derived numbers and the
// budget and theme settings.
type Handler struct {
	svc      *ledger.Service
	currency string
}

func NewHandler(svc *ledger.Service, currency string) *Handler {
	return &Handler{svc: svc, currency: currency}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/state", h.state)
	r.Delete("/state", h.reset)
	r.Get("/summary", h.summary)
	r.Get("/report", h.report)
	r.Put("/budget", h.setBudget)
	r.Put("/theme", h.setTheme)
	r.Post("/theme/toggle", h.toggleTheme)
}

type netWorthPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

type stateResponse struct {
	Transactions  []txhttp.Response       `json:"transactions"`
	Budget        int64                   `json:"budget"`
	Goals         []goal.Response         `json:"goals"`
	Investments   []investment.Response   `json:"investments"`
	Subscriptions []subscription.Response `json:"subscriptions"`
	NetWorth      []netWorthPoint         `json:"net_worth"`
	Theme         ledger.Theme            `json:"theme"`
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	st := h.svc.State()

	resp := stateResponse{
		Transactions:  txhttp.ToResponseList(st.Transactions),
		Budget:        st.Budget,
		Goals:         goal.ToResponseList(st.Goals),
		Investments:   investment.ToResponseList(st.Positions),
		Subscriptions: subscription.ToResponseList(st.Subscriptions, h.svc.Now()),
		NetWorth:      make([]netWorthPoint, 0, len(st.NetWorth)),
		Theme:         st.Theme,
	}

	for _, s := range st.NetWorth {
		resp.NetWorth = append(resp.NetWorth, netWorthPoint{Date: s.Date.Format("2006-01-02"), Value: s.Value})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		apiutil.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(report.Summarize(h.svc.State(), h.svc.Now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// report renders JSON by default and the plain-text document for
// ?format=text.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rep := report.Build(h.svc.State(), h.svc.Now())

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if err := report.WriteText(w, rep, h.currency); err != nil {
			slog.Error("failed to write report", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(rep); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type budgetRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) setBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetBudget(r.Context(), req.Amount); err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(report.Summarize(h.svc.State(), h.svc.Now()).Budget); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type themeBody struct {
	Theme ledger.Theme `json:"theme"`
}

func (h *Handler) setTheme(w http.ResponseWriter, r *http.Request) {
	var req themeBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetTheme(r.Context(), req.Theme); err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(req); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.ToggleTheme(r.Context())
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(themeBody{Theme: t}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
