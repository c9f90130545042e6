// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"veritask/internal/platform/config"
	"veritask/internal/platform/httpserver"
	"veritask/internal/platform/logger"
	"veritask/internal/platform/middleware"
	platformredis "veritask/internal/platform/redis"
	"veritask/internal/pricing"
	"veritask/internal/pricing/location"
	"veritask/internal/pricing/surge"
	httptransport "veritask/internal/transport/http"
	"veritask/internal/verification/events"
	"veritask/internal/verification/handler"
	verifmetrics "veritask/internal/verification/metrics"
	"veritask/internal/verification/models"
	"veritask/internal/verification/service"
	"veritask/internal/verification/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store: durable when a database is configured, in-memory otherwise.
	var requests store.Store = store.NewMemoryStore()
	var pool *pgxpool.Pool
	if cfg.PostgresURL != "" {
		pool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres pool", "error", err.Error())
			os.Exit(1)
		}
		defer pool.Close()
		if err := store.EnsureSchema(ctx, pool); err != nil {
			log.Error("postgres schema", "error", err.Error())
			os.Exit(1)
		}
		requests = store.NewPostgres(pool)
	}

	// Surge: live demand feed when Redis is configured, static otherwise.
	var surgeProvider service.SurgeProvider = surge.NewStatic(decimal.NewFromFloat(cfg.SurgeFallback))
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		surgeProvider = surge.NewRedisProvider(redisClient.Client)
	}

	// Status events: Kafka when brokers are configured, in-process otherwise.
	var sink events.Sink = events.NewMemorySink()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := events.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka", "error", err.Error())
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = kafkaSink.Close(closeCtx)
		}()
		sink = kafkaSink
	}
	emitter := events.NewEmitter(256)
	worker := events.NewWorker(emitter, sink)

	hub, err := models.NewGeoPoint("Dispatch hub, operations office", cfg.HubLatitude, cfg.HubLongitude)
	if err != nil {
		log.Error("hub location", "error", err.Error())
		os.Exit(1)
	}

	engine := pricing.NewEngine(pricing.DefaultConfig())
	locations := location.NewResolver(location.NewMemoryStore(), pricing.DefaultConfig().DefaultAreaCost)

	svc := service.New(
		requests,
		engine,
		service.HubPlanner{Hub: hub},
		service.NoDiscounts{},
		surgeProvider,
		log,
		service.WithMetrics(verifmetrics.New()),
		service.WithEmitter(emitter),
	)

	var validator middleware.JWTValidator
	if cfg.JWTSigningKey != "" {
		validator = middleware.NewHMACValidator(cfg.JWTSigningKey)
	}

	verifications := handler.New(svc, locations, validator, log)
	checks := map[string]httptransport.HealthChecker{}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	if pool != nil {
		checks["postgres"] = poolChecker{pool}
	}
	router := httptransport.NewRouter(verifications, checks)

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(ctx)
	})
	group.Go(func() error {
		log.Info("starting veritask", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown", "error", err.Error())
		os.Exit(1)
	}
}

type poolChecker struct {
	pool *pgxpool.Pool
}

func (c poolChecker) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}
