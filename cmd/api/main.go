package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/export"
	pocketHttp "github.com/MrJamesThe3rd/pocket/internal/http"
	"github.com/MrJamesThe3rd/pocket/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/pocket/internal/http/export"
	goalHandler "github.com/MrJamesThe3rd/pocket/internal/http/goal"
	importHandler "github.com/MrJamesThe3rd/pocket/internal/http/importcsv"
	investmentHandler "github.com/MrJamesThe3rd/pocket/internal/http/investment"
	ledgerHandler "github.com/MrJamesThe3rd/pocket/internal/http/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/http/live"
	matchingHandler "github.com/MrJamesThe3rd/pocket/internal/http/matching"
	subscriptionHandler "github.com/MrJamesThe3rd/pocket/internal/http/subscription"
	txHandler "github.com/MrJamesThe3rd/pocket/internal/http/transaction"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/pocket/internal/ledger/store"
	"github.com/MrJamesThe3rd/pocket/internal/logging"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pocket/internal/matching/store"
)

func main() {
	issueToken := flag.Bool("issue-token", false, "print a bearer token signed with AUTH_SECRET and exit")
	flag.Parse()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(os.Stderr, cfg.App.LogLevel, cfg.App.LogFormat)

	if *issueToken {
		if cfg.Auth.Secret == "" {
			slog.Error("AUTH_SECRET is not set")
			os.Exit(1)
		}

		token, err := auth.New(cfg.Auth.Secret, cfg.Auth.TokenTTL).Issue("owner")
		if err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}

		fmt.Println(token)

		return
	}

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.Storage.Driver, cfg.DSN()); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(cfg.Storage.Driver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	ledgerSvc := ledger.NewService(ledgerStore.New(db, cfg.Storage.Driver), cfg.Storage.StateKey)
	if err := ledgerSvc.Open(ctx); err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	var (
		matchingService = matching.NewService(matchingStore.New(db, cfg.Storage.Driver))
		importService   = importer.NewService(matchingService)
		exportService   = export.NewService(ledgerSvc, cfg.App.Currency)
		hub             = live.NewHub(ledgerSvc, cfg.CORS.AllowedOrigins)
	)

	ledgerSvc.Subscribe(hub.Notify)

	opts := pocketHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	}

	if cfg.Auth.Secret != "" {
		opts.Auth = auth.New(cfg.Auth.Secret, cfg.Auth.TokenTTL).Middleware
	} else {
		slog.Warn("AUTH_SECRET not set, API is unauthenticated")
	}

	router := pocketHttp.New(pocketHttp.Handlers{
		Ledger:        ledgerHandler.NewHandler(ledgerSvc, cfg.App.Currency),
		Transactions:  txHandler.NewHandler(ledgerSvc),
		Goals:         goalHandler.NewHandler(ledgerSvc),
		Investments:   investmentHandler.NewHandler(ledgerSvc),
		Subscriptions: subscriptionHandler.NewHandler(ledgerSvc),
		Import:        importHandler.NewHandler(importService, ledgerSvc),
		Export:        exportHandler.NewHandler(exportService, ledgerSvc),
		Matching:      matchingHandler.NewHandler(matchingService),
		Live:          hub,
	}, opts)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr, "driver", cfg.Storage.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
