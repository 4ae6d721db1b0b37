package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"autopecas/internal/config"
	"autopecas/internal/domain"
	"autopecas/internal/http/handlers"
	applog "autopecas/internal/log"
	"autopecas/internal/metrics"
	"autopecas/internal/repos"
	"autopecas/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("config.load", err)
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Warn(nil, "log.file.open", err, map[string]any{"path": cfg.LogFile})
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	applog.Setup(applog.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: out})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		fatal("store.open", err)
	}
	defer closeStore()

	auth, err := authenticator(cfg, db)
	if err != nil {
		fatal("auth.setup", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	shopMetrics := metrics.NewShopMetrics(reg)

	var fixture []domain.Product
	if cfg.CatalogFixture != "" {
		if fixture, err = services.LoadFixture(cfg.CatalogFixture); err != nil {
			fatal("catalog.fixture", err)
		}
	}
	catalog := services.NewCatalogService(store, fixture, shopMetrics)
	if err := catalog.Initialize(ctx); err != nil {
		fatal("catalog.init", err)
	}
	orders := services.NewOrderService(store, cfg.Location())
	if err := orders.Initialize(ctx); err != nil {
		fatal("orders.init", err)
	}

	var gen services.TextGenerator
	if cfg.GeminiAPIKey != "" {
		g, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			applog.Warn(nil, "insights.disabled", err, nil)
		} else {
			gen = g
		}
	}
	insights := services.NewInsightService(gen, cfg.GeminiModel, cfg.GeminiInsightsModel)
	payments := &services.PaymentSimulator{Delay: cfg.PaymentDelay, CardEnabled: cfg.PaymentCardEnabled}

	shoppers := services.NewShoppers(store, auth, shopMetrics,
		services.WithShopperLimits(cfg.SessionCacheSize, cfg.SessionIdleTTL))

	deps := handlers.NewDeps(handlers.Services{
		Shoppers:      shoppers,
		Catalog:       catalog,
		Orders:        orders,
		Checkout:      services.NewCheckoutService(orders, payments, shopMetrics),
		Payments:      payments,
		Inventory:     services.NewInventoryService(catalog),
		Reports:       services.NewReportService(orders, catalog, insights),
		Insights:      insights,
		PasswordLogin: cfg.AuthMode == config.AuthPassword,
	})

	opts := handlers.DefaultOptions()
	opts.Gatherer = reg
	opts.Location = cfg.Location()
	app := handlers.NewApp(deps, opts)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			applog.Error(nil, "server.shutdown", err, nil)
		}
	}()

	applog.Info(nil, "server.start", map[string]any{
		"port": cfg.Port, "store": cfg.StoreDriver, "auth": cfg.AuthMode, "products": len(catalog.Products()),
	})
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal("server.listen", err)
	}
}

// openStore returns the configured slot store; db is non-nil for SQL drivers.
func openStore(ctx context.Context, cfg config.Config) (repos.Store, *sqlx.DB, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return repos.NewMemoryStore(), nil, func() {}, nil
	case config.DriverRedis:
		rs, err := repos.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return rs, nil, func() { _ = rs.Close() }, nil
	case config.DriverSQLite, config.DriverPostgres:
		db, err := repos.OpenDB(ctx, cfg.StoreDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.AuthMode == config.AuthPassword {
			if err := repos.SeedUsers(ctx, db, repos.DefaultSeedUsers); err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
		}
		return repos.NewKVRepo(db), db, func() { _ = db.Close() }, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func authenticator(cfg config.Config, db *sqlx.DB) (services.Authenticator, error) {
	if cfg.AuthMode == config.AuthPassword {
		if db == nil {
			return nil, fmt.Errorf("password auth needs a SQL store")
		}
		return &services.PasswordAuthenticator{Users: repos.NewUserRepo(db)}, nil
	}
	return &services.DemoAuthenticator{AdminEmail: cfg.DemoAdminEmail, Delay: cfg.AuthDelay}, nil
}

func fatal(action string, err error) {
	applog.Error(nil, action, err, nil)
	os.Exit(1)
}
