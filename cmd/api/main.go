package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/garage/internal/auth"
	authStore "github.com/MrJamesThe3rd/garage/internal/auth/store"
	"github.com/MrJamesThe3rd/garage/internal/config"
	"github.com/MrJamesThe3rd/garage/internal/customer"
	customerStore "github.com/MrJamesThe3rd/garage/internal/customer/store"
	"github.com/MrJamesThe3rd/garage/internal/database"
	"github.com/MrJamesThe3rd/garage/internal/debt"
	debtStore "github.com/MrJamesThe3rd/garage/internal/debt/store"
	"github.com/MrJamesThe3rd/garage/internal/export"
	garageHttp "github.com/MrJamesThe3rd/garage/internal/http"
	authHandler "github.com/MrJamesThe3rd/garage/internal/http/auth"
	customerHandler "github.com/MrJamesThe3rd/garage/internal/http/customer"
	debtHandler "github.com/MrJamesThe3rd/garage/internal/http/debt"
	importHandler "github.com/MrJamesThe3rd/garage/internal/http/importcsv"
	itemHandler "github.com/MrJamesThe3rd/garage/internal/http/item"
	ledgerHandler "github.com/MrJamesThe3rd/garage/internal/http/ledger"
	reportHandler "github.com/MrJamesThe3rd/garage/internal/http/report"
	supplierHandler "github.com/MrJamesThe3rd/garage/internal/http/supplier"
	"github.com/MrJamesThe3rd/garage/internal/importer"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
	inventoryStore "github.com/MrJamesThe3rd/garage/internal/inventory/store"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/garage/internal/ledger/store"
	"github.com/MrJamesThe3rd/garage/internal/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateAuth(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var (
		authService      = auth.NewService(authStore.New(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		inventoryService = inventory.NewService(inventoryStore.New(db))
		customerService  = customer.NewService(customerStore.New(db))
		ledgerService    = ledger.NewService(ledgerStore.New(db))
		debtService      = debt.NewService(debtStore.New(db))
		importService    = importer.NewService()
		reportService    = report.NewService(inventoryService, ledgerService, debtService, customerService)
		exportService    = export.NewService(inventoryService, ledgerService)
	)

	created, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if created {
		slog.Info("created admin account", "username", cfg.Auth.AdminUsername)
	}

	authH, err := authHandler.NewHandler(authService, cfg.Auth.LoginRate)
	if err != nil {
		return fmt.Errorf("parse login rate: %w", err)
	}

	router := garageHttp.New(
		garageHttp.Options{
			CORSOrigins: cfg.Server.CORSOrigins,
			Timeout:     cfg.Server.Timeout,
			Auth:        authService,
		},
		garageHttp.Handlers{
			Auth:      authH,
			Items:     itemHandler.NewHandler(inventoryService),
			Import:    importHandler.NewHandler(importService, inventoryService),
			Suppliers: supplierHandler.NewHandler(inventoryService),
			Customers: customerHandler.NewHandler(customerService, debtService),
			Ledger:    ledgerHandler.NewHandler(ledgerService),
			Debts:     debtHandler.NewHandler(debtService),
			Reports:   reportHandler.NewHandler(reportService, exportService),
		},
	)

	go debt.NewSweeper(debtService, cfg.Debt.SweepInterval).Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
