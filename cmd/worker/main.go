package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/fournil/pkg/app"
	"github.com/ghuser/fournil/pkg/cache"
	"github.com/ghuser/fournil/pkg/config"
	"github.com/ghuser/fournil/pkg/database"
	"github.com/ghuser/fournil/pkg/events"
	"github.com/ghuser/fournil/pkg/logger"
	"github.com/ghuser/fournil/pkg/telemetry"
	"github.com/ghuser/fournil/pkg/units"
	catevents "github.com/ghuser/fournil/services/catalog/domain/events"
	invpg "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/postgres"
	prodevents "github.com/ghuser/fournil/services/production/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	subs := map[string]func(context.Context, *message.Message) error{
		prodevents.TopicRunCompleted: handleRunCompleted(a),
		catevents.TopicSaleRecorded:  handleSaleRecorded(a),
	}

	topics := make([]string, 0, len(subs))
	for topic, handler := range subs {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		topics = append(topics, topic)

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error",
					"topic", topic,
					"error", err,
				)
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleSaleRecorded returns a handler for catalog.sale.recorded events.
// For now the till trail is audit logging only.
func handleSaleRecorded(a *app.Application) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt catevents.SaleRecordedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		a.Logger.InfoContext(ctx, "sale recorded",
			"sale_id", evt.SaleID,
			"shop_id", evt.ShopID,
			"total", evt.Total,
			"items", evt.ItemCount,
			"payment_method", evt.PaymentMethod,
		)
		return nil
	}
}

// handleRunCompleted returns a handler for production.run.completed events.
// Handlers must be idempotent — EventBus retries up to 3× on failure.
// A completed run deducts ingredient stock, so the handler checks for
// ingredients that dropped to or below their minimum level, logs an alert for
// each, and refreshes their cache entries with the post-deduction quantities.
func handleRunCompleted(a *app.Application) func(context.Context, *message.Message) error {
	ingredients := invpg.NewIngredientRepository(a.Db)
	ingredientCache := cache.NewIngredientCache(a.Redis)

	return func(ctx context.Context, msg *message.Message) error {
		var evt prodevents.RunCompletedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		a.Logger.InfoContext(ctx, "production run completed",
			"run_id", evt.RunID,
			"shop_id", evt.ShopID,
			"recipe", evt.RecipeName,
			"quantity", evt.Quantity,
			"actual_cost", evt.ActualCost,
		)

		low, err := ingredients.LowStock(ctx, evt.ShopID)
		if err != nil {
			return err
		}
		for _, ing := range low {
			a.Logger.WarnContext(ctx, "low stock alert",
				"shop_id", evt.ShopID,
				"ingredient_id", ing.ID,
				"ingredient", ing.Name,
				"on_hand", units.Format(ing.QuantityOnHand, ing.BaseUnit),
				"min_level", units.Format(ing.MinStockLevel, ing.BaseUnit),
			)

			// Cache refresh is best-effort; log but do not fail the handler.
			if err := ingredientCache.Set(ctx, &cache.CachedIngredient{
				ID:              ing.ID,
				ShopID:          ing.ShopID,
				Name:            ing.Name,
				Category:        ing.Category,
				BaseUnit:        ing.BaseUnit,
				QuantityOnHand:  ing.QuantityOnHand,
				CostPerBaseUnit: ing.CostPerBaseUnit,
				MinStockLevel:   ing.MinStockLevel,
				CreatedAt:       ing.CreatedAt,
			}); err != nil {
				a.Logger.WarnContext(ctx, "cache refresh failed",
					"ingredient_id", ing.ID, "error", err)
			}
		}

		return nil
	}
}
