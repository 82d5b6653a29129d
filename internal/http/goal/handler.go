package goal

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/contributions", h.contribute)
}

// Response is the wire shape of a goal.
type Response struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Target    int64     `json:"target"`
	Current   int64     `json:"current"`
	Remaining int64     `json:"remaining"`
	Progress  float64   `json:"progress"`
	Completed bool      `json:"completed"`
	Deadline  string    `json:"deadline,omitempty"`
}

func ToResponse(g ledger.Goal) Response {
	resp := Response{
		ID:        g.ID,
		Name:      g.Name,
		Target:    g.Target,
		Current:   g.Current,
		Remaining: g.Remaining(),
		Progress:  g.Progress(),
		Completed: g.Completed(),
	}

	if g.Deadline != nil {
		resp.Deadline = g.Deadline.Format("2006-01-02")
	}

	return resp
}

func ToResponseList(goals []ledger.Goal) []Response {
	resp := make([]Response, len(goals))
	for i, g := range goals {
		resp[i] = ToResponse(g)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponseList(h.svc.State().Goals)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createGoalRequest struct {
	Name     string `json:"name"`
	Target   int64  `json:"target"`
	Deadline string `json:"deadline,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := ledger.GoalParams{Name: req.Name, Target: req.Target}

	if req.Deadline != "" {
		d, err := apiutil.ParseDate(req.Deadline, h.svc.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p.Deadline = &d
	}

	g, err := h.svc.AddGoal(r.Context(), p)
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(ToResponse(g)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteGoal(r.Context(), id); err != nil {
		apiutil.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type contributeRequest struct {
	Amount int64 `json:"amount"`
}

type contributeResponse struct {
	Goal        Response        `json:"goal"`
	Transaction txhttp.Response `json:"transaction"`
	Completed   bool            `json:"completed"`
}

func (h *Handler) contribute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Contribute(r.Context(), id, req.Amount)
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(contributeResponse{
		Goal:        ToResponse(res.Goal),
		Transaction: txhttp.ToResponse(res.Transaction),
		Completed:   res.Completed,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
