package subscription

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/http/apiutil"
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
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
}

type Response struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Amount  int64     `json:"amount"`
	DueDay  int       `json:"due_day"`
	NextDue string    `json:"next_due"`
}

func ToResponse(sub ledger.Subscription, now time.Time) Response {
	return Response{
		ID:      sub.ID,
		Name:    sub.Name,
		Amount:  sub.Amount,
		DueDay:  sub.DueDay,
		NextDue: sub.NextDue(now).Format("2006-01-02"),
	}
}

func ToResponseList(subs []ledger.Subscription, now time.Time) []Response {
	resp := make([]Response, len(subs))
	for i, sub := range subs {
		resp[i] = ToResponse(sub, now)
	}

	return resp
}

type listResponse struct {
	BurnRate      int64      `json:"burn_rate"`
	Subscriptions []Response `json:"subscriptions"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	subs := h.svc.State().Subscriptions

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(listResponse{
		BurnRate:      ledger.BurnRate(subs),
		Subscriptions: ToResponseList(subs, h.svc.Now()),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createSubscriptionRequest struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	DueDay int    `json:"due_day"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := h.svc.AddSubscription(r.Context(), ledger.SubscriptionParams{
		Name:   req.Name,
		Amount: req.Amount,
		DueDay: req.DueDay,
	})
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(ToResponse(sub, h.svc.Now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteSubscription(r.Context(), id); err != nil {
		apiutil.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
