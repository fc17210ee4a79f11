// Package counter assembles the order-ledger service: store, change bus,
// in-memory state, reconciler and HTTP surface.
package counter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/srithedesigner/bunniesBurger/internal/auth"
	"github.com/srithedesigner/bunniesBurger/internal/catalog"
	"github.com/srithedesigner/bunniesBurger/internal/common/httpx"
	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/config"
	"github.com/srithedesigner/bunniesBurger/internal/connections/database"
	"github.com/srithedesigner/bunniesBurger/internal/connections/rabbitmq"
	"github.com/srithedesigner/bunniesBurger/internal/counter/handler"
	"github.com/srithedesigner/bunniesBurger/internal/counter/service"
	"github.com/srithedesigner/bunniesBurger/internal/ledger"
	"github.com/srithedesigner/bunniesBurger/internal/reconcile"
	"github.com/srithedesigner/bunniesBurger/internal/registry"
	"github.com/srithedesigner/bunniesBurger/internal/store"
)

// Run wires the counter service and blocks until ctx is cancelled or the
// HTTP server fails. Startup is fail-fast; runtime store failures are not.
func Run(ctx context.Context, cfg *config.Config, migrationsPath string) error {
	log := logger.New("counter-service")

	taxRate, err := decimal.NewFromString(cfg.App.TaxRate)
	if err != nil {
		return fmt.Errorf("parse tax_rate %q: %w", cfg.App.TaxRate, err)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if migrationsPath != "" {
		if err := db.RunMigrations(ctx, migrationsPath, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareChanges(); err != nil {
		return fmt.Errorf("declare changes exchange: %w", err)
	}

	pg := store.NewPostgres(db)
	notifier := store.NewRabbitNotifier(rmq, cfg.App.Terminal, log)
	defer notifier.Close()

	led := ledger.New()
	reg := registry.New()
	cat := catalog.New()

	rec := reconcile.New(pg, cat, reg, led, log)
	if err := rec.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap snapshots: %w", err)
	}
	events, err := notifier.Subscribe()
	if err != nil {
		return fmt.Errorf("subscribe to changes: %w", err)
	}
	go rec.Run(ctx, events)

	authSvc := auth.New(pg, time.Duration(cfg.App.SessionTTLMinutes)*time.Minute, log)
	svc := service.New(pg, notifier, led, reg, cat, taxRate, cfg.App.Terminal, log)
	h := handler.New(svc, authSvc, log)

	log.Info("service_started", map[string]any{
		"port": cfg.App.Port, "terminal": cfg.App.Terminal, "tax_rate": cfg.App.TaxRate,
	})
	srv := httpx.New(":"+strconv.Itoa(cfg.App.Port), handler.Router(h))
	return srv.Run(ctx)
}
