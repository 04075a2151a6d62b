package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"palava-proof/internal/api"
	"palava-proof/internal/api/handlers"
	apimiddleware "palava-proof/internal/api/middleware"
	"palava-proof/internal/config"
	"palava-proof/internal/domain/services"
	"palava-proof/internal/grpc/health"
	"palava-proof/internal/infrastructure/cache"
	"palava-proof/internal/infrastructure/database"
	"palava-proof/internal/streaming"
	"palava-proof/pkg/logger"
)

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
	})

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Palava Proof")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	infra, err := initInfrastructure(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize infrastructure")
	}
	defer infra.Close()

	// Streaming
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing with local events only")
			natsPublisher = nil
		}
	}
	eventBus := streaming.NewEventBus(natsPublisher, log)
	defer eventBus.Close()
	log.Info().Bool("nats_enabled", natsPublisher != nil).Msg("event bus initialized")

	publisher := streaming.NewEventBusPublisher(eventBus)

	// Services
	var (
		jsonCache       services.JSONCache
		feedbackCounter services.FeedbackCounter
		limiter         apimiddleware.RateLimitStore
	)
	if infra.redis != nil {
		jsonCache = infra.redis
		feedbackCounter = infra.redis
		limiter = infra.redis
	}

	reports := services.NewReportService(infra.store, jsonCache, publisher, log)
	checker := services.NewCheckService(reports, publisher, log)
	feedback := services.NewFeedbackService(feedbackCounter, log)
	sharer := services.NewShareService(nil, nil, log)

	probes := map[string]handlers.Pinger{"store": infra.store}
	healthDeps := map[string]health.Pinger{"store": infra.store}
	if infra.redis != nil {
		probes["redis"] = infra.redis
		healthDeps["redis"] = infra.redis
	}

	h := handlers.NewHandlers(handlers.Dependencies{
		Checker:  checker,
		Reports:  reports,
		Feedback: feedback,
		Sharer:   sharer,
		Version:  cfg.App.Version,
		Probes:   probes,
		Logger:   log,
	})

	router := api.NewRouter(*cfg, h, limiter, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// gRPC health
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gRPC listener")
	}

	grpcServer := grpc.NewServer()
	checkerHealth := health.NewChecker(healthDeps, health.DefaultInterval, log)
	checkerHealth.Register(grpcServer)
	go checkerHealth.Run(ctx)

	go func() {
		log.Info().Str("addr", grpcListener.Addr().String()).Msg("starting gRPC server")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	// Offline report sync
	if cfg.Sync.Enabled && infra.offline != nil {
		schedule, err := services.ParseSchedule(cfg.Sync.Schedule)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid sync schedule")
		}
		syncer := services.NewSyncer(infra.offline, reports, cfg.Sync.BatchSize, log)
		if infra.redis != nil {
			syncer.SetLocker(infra.redis)
		}
		go func() {
			if err := syncer.Start(ctx, schedule); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("syncer stopped with error")
			}
		}()
		log.Info().Str("schedule", cfg.Sync.Schedule).Msg("offline report sync scheduled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// reportStore is a report store the server can probe
type reportStore interface {
	services.ReportStore
	Ping(ctx context.Context) error
}

// infrastructure holds the connections opened at startup
type infrastructure struct {
	store reportStore
	// offline holds reports captured while PostgreSQL was unreachable;
	// nil when SQLite is the primary store
	offline  *database.SQLiteStore
	postgres *database.PostgresDB
	sqlite   *database.SQLiteStore
	redis    *cache.RedisCache
}

// initInfrastructure connects to PostgreSQL (falling back to SQLite) and Redis
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*infrastructure, error) {
	infra := &infrastructure{}

	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, falling back to SQLite")
		} else {
			repo, err := db.Reports(ctx)
			if err != nil {
				db.Close()
				return nil, err
			}
			infra.postgres = db
			infra.store = repo
		}
	}

	sqlite, err := database.NewSQLiteStore(cfg.Storage.SQLitePath, log)
	if err != nil {
		infra.Close()
		return nil, err
	}
	infra.sqlite = sqlite
	if infra.store == nil {
		infra.store = sqlite
	} else {
		infra.offline = sqlite
	}

	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache and rate limiting")
		} else {
			infra.redis = redisCache
		}
	}

	return infra, nil
}

// Close releases every open connection
func (i *infrastructure) Close() {
	if i.postgres != nil {
		i.postgres.Close()
	}
	if i.sqlite != nil {
		i.sqlite.Close()
	}
	if i.redis != nil {
		i.redis.Close()
	}
}
