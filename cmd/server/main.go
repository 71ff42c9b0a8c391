package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"studiogate/internal/audit"
	"studiogate/internal/identity"
	"studiogate/internal/nav/guard"
	"studiogate/internal/nav/intent"
	"studiogate/internal/platform/config"
	"studiogate/internal/platform/database"
	"studiogate/internal/platform/kafka/producer"
	"studiogate/internal/platform/logger"
	"studiogate/internal/platform/metrics"
	"studiogate/internal/platform/redis"
	"studiogate/internal/profile"
	profilestore "studiogate/internal/profile/store"
	httptransport "studiogate/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	log.Info("initializing studiogate",
		"addr", cfg.Addr,
		"database", cfg.Database.URL != "",
		"redis", cfg.Redis.URL != "",
		"kafka", cfg.Kafka.Brokers != "",
	)

	var checks []httptransport.HealthCheck

	// Profile store: postgres when configured, redis as the second choice,
	// in-memory for development.
	var store profile.Store
	pool, err := database.New(cfg.Database)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	switch {
	case pool != nil:
		store = profilestore.NewPostgres(pool.DB())
		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Check: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		}})
		defer pool.Close()
	case rdb != nil:
		store = profilestore.NewRedis(rdb.Client)
	default:
		log.Warn("no profile store configured, using in-memory store")
		store = profilestore.NewInMemory()
	}
	if rdb != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return rdb.Health(ctx)
		}})
		defer rdb.Close()
	}

	// Audit trail: kafka sink when brokers are configured, in-memory otherwise.
	var auditStore audit.Store = audit.NewInMemory()
	if cfg.Kafka.Brokers != "" {
		prod, err := producer.New(cfg.Kafka, log)
		if err != nil {
			log.Error("kafka init failed", "error", err)
			os.Exit(1)
		}
		auditStore = audit.NewKafka(prod, cfg.Kafka.AuditTopic)
		checks = append(checks, httptransport.HealthCheck{Name: "kafka", Check: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return prod.Health(ctx)
		}})
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := prod.Close(ctx); err != nil {
				log.Error("kafka close failed", "error", err)
			}
		}()
	}
	auditPub := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditPub.Close()

	resolver := profile.NewResolver(store,
		profile.WithAttempts(cfg.Nav.ResolveAttempts),
		profile.WithBackoffStep(cfg.Nav.ResolveBackoffStep),
		profile.WithResolverLogger(log),
		profile.WithResolverMetrics(m),
	)
	profiles := profile.NewService(store,
		profile.WithServiceLogger(log),
		profile.WithAuditPublisher(auditPub),
		profile.WithServiceMetrics(m),
	)

	provider := identity.NewDevProvider()
	listener := identity.NewListener(provider,
		identity.WithLogger(log),
		identity.WithMetrics(m),
	)
	inspector := identity.NewTokenInspector(cfg.TokenSigningKey, "studiogate", 24*time.Hour)

	tracker := intent.New(time.Now, intent.Windows{
		UserIntent: cfg.Nav.UserIntentWindow,
		UserAction: cfg.Nav.UserActionWindow,
		Escape:     cfg.Nav.EscapeWindow,
	})
	controller := guard.NewController(resolver, tracker,
		guard.WithControllerLogger(log),
		guard.WithControllerMetrics(m),
		guard.WithControllerAudit(auditPub),
	)
	renderGuard := guard.NewGuard(controller, tracker,
		guard.WithGuardLogger(log),
		guard.WithGuardMetrics(m),
		guard.WithGuardAudit(auditPub),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unsubscribe, err := controller.Start(ctx, listener)
	if err != nil {
		log.Error("controller start failed", "error", err)
		os.Exit(1)
	}
	defer unsubscribe()

	handler := httptransport.NewHandler(controller, renderGuard, profiles, provider, inspector, log, m)
	router := httptransport.NewRouter(handler, log, m, checks...)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
