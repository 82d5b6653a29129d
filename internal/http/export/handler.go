package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/http/apiutil"
	txhttp "github.com/MrJamesThe3rd/pocket/internal/http/transaction"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type Handler struct {
	svc       *export.Service
	ledgerSvc *ledger.Service
}

func NewHandler(svc *export.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{svc: svc, ledgerSvc: ledgerSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/csv", h.csv)
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	Query     string `json:"q,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (req exportRequest) filter() (transaction.ListFilter, error) {
	f := transaction.ListFilter{Query: req.Query}

	if req.StartDate != "" {
		t, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return f, fmt.Errorf("invalid start_date: %w", err)
		}

		f.StartDate = new(t)
	}

	if req.EndDate != "" {
		t, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return f, fmt.Errorf("invalid end_date: %w", err)
		}

		f.EndDate = new(t)
	}

	return f, nil
}

type exportMetadataResponse struct {
	Transactions []txhttp.Response `json:"transactions"`
	Summary      string            `json:"summary"`
}

// csv streams the filtered transactions without touching the disk.
func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{Query: r.URL.Query().Get("q")}
	apiutil.DateFilter(r, &filter)

	txs := h.ledgerSvc.ListTransactions(filter)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", h.ledgerSvc.Now().Format("2006-01-02")))

	if err := export.WriteCSV(w, txs); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter, err := req.filter()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "pocket-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	res, err := h.svc.Export(r.Context(), filter, tmpDir)
	if err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(exportMetadataResponse{
		Transactions: txhttp.ToResponseList(res.Transactions),
		Summary:      h.svc.Summary(res),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download zips the CSV and the text report together.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter, err := req.filter()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "pocket-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	if _, err := h.svc.Export(r.Context(), filter, tmpDir); err != nil {
		apiutil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"pocket_%s.zip\"", h.ledgerSvc.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
