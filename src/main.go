package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YukichiOhno/expense-tracker/src/api"
	"github.com/YukichiOhno/expense-tracker/src/auth"
	"github.com/YukichiOhno/expense-tracker/src/config"
	"github.com/YukichiOhno/expense-tracker/src/currency"
	"github.com/YukichiOhno/expense-tracker/src/db"
	sqldb "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/handlers"
	"github.com/YukichiOhno/expense-tracker/src/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("Migrations failed", "error", err)
			os.Exit(1)
		}
	}

	rates, err := db.NewCurrencyCache(func(ctx context.Context, code string) (*models.Currency, error) {
		return sqldb.GetCurrencyByCode(ctx, pool, code)
	}, cfg.CurrencyCacheTTL)
	if err != nil {
		logger.Error("Currency cache init failed", "error", err)
		os.Exit(1)
	}
	defer rates.Close()

	var money currency.Normalizer = currency.NewConverter(rates)
	if !cfg.CurrencyConversion {
		money = currency.Passthrough{}
	}

	deps := &handlers.Deps{
		DB:           pool,
		Tokens:       auth.NewIssuer(cfg.JWTSecret),
		Rates:        rates,
		Money:        money,
		SecureCookie: cfg.CookieSecure,
		Ping:         pool.Ping,
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        api.NewRouter(deps, cfg.FrontendURL, cfg.ReadOnly),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("API server running", "port", cfg.Port, "currency_conversion", cfg.CurrencyConversion, "read_only", cfg.ReadOnly)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	<-idle
	logger.Info("Server stopped gracefully")
}
