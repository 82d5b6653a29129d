package investment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/http/apiutil"
	txhttp "github.com/MrJamesThe3rd/pocket/internal/http/transaction"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.buy)
	r.Post("/{id}/sell", h.sell)
	r.Put("/{id}/price", h.updatePrice)
	r.Delete("/{id}", h.delete)
}

// Response is the wire shape of an open position. Prices are per unit.
type Response struct {
	ID           uuid.UUID       `json:"id"`
	Ticker       string          `json:"ticker"`
	Qty          decimal.Decimal `json:"qty"`
	BuyPrice     int64           `json:"buy_price"`
	CurrentPrice int64           `json:"current_price"`
	CostBasis    int64           `json:"cost_basis"`
	Value        int64           `json:"value"`
	PnL          int64           `json:"pnl"`
}

func ToResponse(p ledger.Position) Response {
	return Response{
		ID:           p.ID,
		Ticker:       p.Ticker,
		Qty:          p.Qty,
		BuyPrice:     p.BuyPrice,
		CurrentPrice: p.CurrentPrice,
		CostBasis:    p.CostBasis(),
		Value:        p.MarketValue(),
		PnL:          p.UnrealizedPnL(),
	}
}

func ToResponseList(ps []ledger.Position) []Response {
	resp := make([]Response, len(ps))
	for i, p := range ps {
		resp[i] = ToResponse(p)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponseList(h.svc.State().Positions)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type buyRequest struct {
	Ticker string          `json:"ticker"`
	Qty    decimal.Decimal `json:"qty"`
	Price  int64           `json:"price"`
	Date   string          `json:"date,omitempty"`
}

type tradeResponse struct {
	Position    Response        `json:"position"`
	Transaction txhttp.Response `json:"transaction"`
	PnL         *int64          `json:"pnl,omitempty"`
}

func (h *Handler) date(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return apiutil.ParseDate(s, h.svc.Now())
}

func (h *Handler) buy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := h.date(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pos, tx, err := h.svc.Buy(r.Context(), ledger.BuyParams{
		Ticker: req.Ticker,
		Qty:    req.Qty,
		Price:  req.Price,
		Date:   date,
	})
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(tradeResponse{
		Position:    ToResponse(pos),
		Transaction: txhttp.ToResponse(tx),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type sellRequest struct {
	Price int64  `json:"price"`
	Date  string `json:"date,omitempty"`
}

func (h *Handler) sell(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req sellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := h.date(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Sell(r.Context(), id, ledger.SellParams{Price: req.Price, Date: date})
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(tradeResponse{
		Position:    ToResponse(res.Position),
		Transaction: txhttp.ToResponse(res.Transaction),
		PnL:         new(res.PnL),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type priceRequest struct {
	Price int64 `json:"price"`
}

func (h *Handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pos, err := h.svc.UpdatePrice(r.Context(), id, req.Price)
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponse(pos)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeletePosition(r.Context(), id); err != nil {
		apiutil.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
