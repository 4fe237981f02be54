package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/pos/internal/cashcut"
	"github.com/JonMunkholm/pos/internal/config"
	"github.com/JonMunkholm/pos/internal/core"
	db "github.com/JonMunkholm/pos/internal/database"
	"github.com/JonMunkholm/pos/internal/invoice"
	"github.com/JonMunkholm/pos/internal/logging"
	"github.com/JonMunkholm/pos/internal/settings"
	"github.com/JonMunkholm/pos/internal/web"
)

func main() {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"import_workers", cfg.Import.Workers,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"identity_policy", cfg.Import.IdentityPolicy,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"redis_enabled", cfg.RedisEnabled(),
	)

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if cfg.Database.MigrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		slog.Info("database schema applied")
	}

	// Background jobs stop with this context.
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	reports, closeReports := reportStore(jobCtx, cfg)
	defer closeReports()

	policy, err := core.ParseIdentityPolicy(cfg.Import.IdentityPolicy)
	if err != nil {
		slog.Error("invalid identity policy", "error", err)
		os.Exit(1)
	}

	catalog := core.NewPostgresCatalog(pool)
	importer := core.NewImporter(catalog, reports, core.ImporterOptions{
		Workers:       cfg.Import.Workers,
		Policy:        policy,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWait:       cfg.Import.MaxWaitTime,
		Timeout:       cfg.Import.Timeout,
	})

	settingsSvc := settings.NewService(settings.NewPostgresStore(pool))

	var parser invoice.TextExtractor
	if cfg.Invoice.ParserURL != "" {
		parser = invoice.NewHTTPTextExtractor(cfg.Invoice.ParserURL, cfg.Invoice.ParserTimeout)
	}
	invoices := invoice.NewService(parser, invoice.NewPostgresStore(pool), settingsSvc, invoice.Options{
		MarginPercent:  cfg.Invoice.MarginPercent,
		KnownSuppliers: cfg.Invoice.KnownSuppliers,
	})

	server := web.NewServer(cfg, web.Deps{
		Importer: importer,
		Catalog:  catalog,
		Invoices: invoices,
		Cash:     cashcut.NewService(cashcut.NewPostgresStore(pool), nil),
		Settings: settingsSvc,
		Ping:     pool.Ping,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := importer.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// reportStore picks Redis when REDIS_ADDR is set and reachable, else the
// in-memory store with its expiry sweeper.
func reportStore(ctx context.Context, cfg *config.Config) (core.ReportStore, func()) {
	if cfg.RedisEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		err := client.Ping(ctx).Err()
		if err == nil {
			slog.Info("import reports stored in redis", "addr", cfg.Redis.Addr)
			return core.NewRedisReportStore(client, cfg.Import.ReportTTL), func() { _ = client.Close() }
		}
		slog.Warn("redis unavailable, keeping import reports in memory", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
	}

	store := core.NewMemoryReportStore(cfg.Import.ReportTTL)
	go core.StartReportSweeper(ctx, store, core.DefaultSweepInterval)
	return store, func() {}
}
