package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pocket/internal/http/export"
	"github.com/MrJamesThe3rd/pocket/internal/http/goal"
	"github.com/MrJamesThe3rd/pocket/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pocket/internal/http/investment"
	"github.com/MrJamesThe3rd/pocket/internal/http/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/http/matching"
	"github.com/MrJamesThe3rd/pocket/internal/http/subscription"
	"github.com/MrJamesThe3rd/pocket/internal/http/transaction"
)

type Handlers struct {
	Ledger        *ledger.Handler
	Transactions  *transaction.Handler
	Goals         *goal.Handler
	Investments   *investment.Handler
	Subscriptions *subscription.Handler
	Import        *importcsv.Handler
	Export        *export.Handler
	Matching      *matching.Handler
	Live          http.Handler
}

type Options struct {
	AllowedOrigins []string
	// Auth guards every /api/v1 route when set.
	Auth    func(http.Handler) http.Handler
	Timeout time.Duration
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}

		// The websocket outlives any request timeout.
		if h.Live != nil {
			r.Handle("/live", h.Live)
		}

		r.Group(func(r chi.Router) {
			if opts.Timeout > 0 {
				r.Use(middleware.Timeout(opts.Timeout))
			}

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))

				r.Group(h.Ledger.Routes)
				r.Route("/transactions", h.Transactions.Routes)
				r.Route("/goals", h.Goals.Routes)
				r.Route("/investments", h.Investments.Routes)
				r.Route("/subscriptions", h.Subscriptions.Routes)
				r.Route("/matching", h.Matching.Routes)
				r.Route("/export", h.Export.Routes)
			})

			r.Route("/import", h.Import.Routes)
		})
	})

	return router
}
