package transaction

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/http/apiutil"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.patch)
	r.Delete("/{id}", h.delete)
}

type transactionRequest struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Type     string `json:"type"`
	Notes    string `json:"notes"`
}

func (h *Handler) params(req transactionRequest) (transaction.CreateParams, error) {
	date, err := apiutil.ParseDate(req.Date, h.svc.Now())
	if err != nil {
		return transaction.CreateParams{}, err
	}

	return transaction.CreateParams{
		Date:     date,
		Category: req.Category,
		Amount:   req.Amount,
		Type:     transaction.NormalizeType(req.Type),
		Notes:    req.Notes,
	}, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.params(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.AddTransaction(r.Context(), p)
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(ToResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{Query: r.URL.Query().Get("q")}

	if s := r.URL.Query().Get("type"); s != "" {
		typ := transaction.NormalizeType(s)
		if !typ.Valid() {
			apiutil.Error(w, transaction.ErrInvalidType)
			return
		}

		filter.Type = new(typ)
	}

	apiutil.DateFilter(r, &filter)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponseList(h.svc.ListTransactions(filter))); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.GetTransaction(id)
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.params(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.save(w, r, id, p)
}

type patchTransactionRequest struct {
	Date     *string `json:"date,omitempty"`
	Category *string `json:"category,omitempty"`
	Amount   *int64  `json:"amount,omitempty"`
	Type     *string `json:"type,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// patch changes only the fields present in the body.
func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req patchTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.GetTransaction(id)
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	p := transaction.CreateParams{
		Date:     tx.Date,
		Category: tx.Category,
		Amount:   tx.Amount,
		Type:     tx.Type,
		Notes:    tx.Notes,
	}

	if req.Date != nil {
		if p.Date, err = apiutil.ParseDate(*req.Date, h.svc.Now()); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if req.Category != nil {
		p.Category = *req.Category
	}

	if req.Amount != nil {
		p.Amount = *req.Amount
	}

	if req.Type != nil {
		p.Type = transaction.NormalizeType(*req.Type)
	}

	if req.Notes != nil {
		p.Notes = *req.Notes
	}

	h.save(w, r, id, p)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, id uuid.UUID, p transaction.CreateParams) {
	tx, err := h.svc.UpdateTransaction(r.Context(), id, p)
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		apiutil.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
