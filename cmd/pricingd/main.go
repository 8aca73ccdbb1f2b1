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

	"google.golang.org/grpc"

	"github.com/bibbank/mortgage-pricing/internal/application/usecase"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
	"github.com/bibbank/mortgage-pricing/internal/infrastructure/cache"
	"github.com/bibbank/mortgage-pricing/internal/infrastructure/config"
	"github.com/bibbank/mortgage-pricing/internal/infrastructure/kafka"
	pgRepo "github.com/bibbank/mortgage-pricing/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/mortgage-pricing/internal/infrastructure/provider"
	"github.com/bibbank/mortgage-pricing/internal/infrastructure/ratestore"
	"github.com/bibbank/mortgage-pricing/internal/infrastructure/scheduler"
	grpcPresentation "github.com/bibbank/mortgage-pricing/internal/presentation/grpc"
	"github.com/bibbank/mortgage-pricing/internal/presentation/rest"
	"github.com/bibbank/mortgage-pricing/pkg/auth"
	pkgkafka "github.com/bibbank/mortgage-pricing/pkg/kafka"
	"github.com/bibbank/mortgage-pricing/pkg/observability"
	pkgpostgres "github.com/bibbank/mortgage-pricing/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("mortgage-pricing exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Info("starting mortgage-pricing",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"kafka", cfg.Kafka.Enabled,
		"cache", cfg.Redis.Enabled(),
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	requestMetrics, err := observability.NewRequestMetrics(meterProvider)
	if err != nil {
		return fmt.Errorf("init request metrics: %w", err)
	}

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return fmt.Errorf("load pricing policy: %w", err)
	}

	// Database connection and migrations.
	dbCfg := pkgpostgres.Config{
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		User:            cfg.DB.User,
		Password:        cfg.DB.Password,
		Database:        cfg.DB.Name,
		SSLMode:         cfg.DB.SSLMode,
		ApplicationName: cfg.ServiceName,
		MaxConns:        int32(cfg.DB.MaxConns),
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("connected to database")

	// Infrastructure adapters.
	repo := pgRepo.NewRateOfferRepo(pool)
	store := ratestore.New()

	var publisher port.EventPublisher = kafka.NopPublisher{}
	var producer *pkgkafka.Producer
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.ServiceName,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
	}
	if cfg.Kafka.Enabled {
		producer, err = pkgkafka.NewProducer(kafkaCfg)
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer producer.Close()
		publisher = kafka.NewEventPublisher(producer, kafka.Topics{
			RateTable: cfg.Kafka.RateTableTopic,
			Quotes:    cfg.Kafka.QuotesTopic,
		}, logger)
	}

	var resultCache port.ResultCache
	if cfg.Redis.Enabled() {
		client := cache.NewRedisClient(cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		resultCache = cache.NewRedisCache(client, cfg.Redis.TTL)
	}

	// Domain services and use cases.
	engine := service.NewQuoteEngine(policy)
	optimizer := service.NewOptimizer(engine, policy.Optimizer)
	analyzer := service.NewAnalyzer()

	getQuoteUC := usecase.NewGetQuoteUseCase(store, engine, publisher, logger)
	optimizeUC := usecase.NewOptimizeScenarioUseCase(store, optimizer, resultCache, publisher, logger)
	analyzeUC := usecase.NewAnalyzeQuoteUseCase(store, optimizer, analyzer)
	compareUC := usecase.NewCompareQuotesUseCase(store, engine)
	rateTableUC := usecase.NewGetRateTableUseCase(store)
	refreshUC := usecase.NewRefreshRateTableUseCase(repo, store, publisher, logger)
	ingestUC := usecase.NewIngestRateOffersUseCase(service.NewRateNormalizer(nil), repo, refreshUC, logger)
	collectUC := usecase.NewCollectRatesUseCase(provider.NewSeedRateSource(cfg.SeedFile), ingestUC)
	purgeUC := usecase.NewPurgeRateHistoryUseCase(repo, cfg.Schedule.Retention(), logger)

	// JWT service (validation-only: public key preferred, secret as fallback).
	jwtCfg := auth.JWTConfig{Issuer: cfg.Auth.JWTIssuer, Secret: cfg.Auth.JWTSecret}
	if cfg.Auth.JWTPublicKeyFile != "" {
		keyData, err := auth.LoadKeyFromFile(cfg.Auth.JWTPublicKeyFile)
		if err != nil {
			return err
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	// gRPC server.
	handler := grpcPresentation.NewHandler(getQuoteUC, optimizeUC, analyzeUC, compareUC, rateTableUC, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, jwtSvc, logger, grpcPresentation.ServerOptions{
		TLSCertFile:  cfg.TLS.CertFile,
		TLSKeyFile:   cfg.TLS.KeyFile,
		Reflection:   cfg.GRPCReflection,
		Interceptors: []grpc.UnaryServerInterceptor{requestMetrics.UnaryServerInterceptor()},
	})
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}
	store.OnPublish(func(*model.RateTable) { grpcServer.SetServing(true) })

	// HTTP server.
	mux := http.NewServeMux()
	rest.NewHealthHandler(pool, store, metricsHandler, logger).RegisterRoutes(mux)
	requireReader := auth.HTTPMiddleware(jwtSvc, auth.RolePricingRead, auth.RoleAdmin)
	limit := rest.RateLimit(rest.NewLimiter(cfg.HTTPRateLimit))
	rest.NewPricingHandler(getQuoteUC, optimizeUC, analyzeUC, compareUC, rateTableUC, logger).
		RegisterRoutes(mux, func(next http.Handler) http.Handler { return limit(requireReader(next)) })

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           requestMetrics.HTTPMiddleware(rest.RequestLogging(logger)(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Initial snapshot: last stored offers first, then a fresh collection.
	if _, err := refreshUC.Execute(ctx); err != nil {
		if errors.Is(err, usecase.ErrNoRateOffers) {
			logger.Info("no stored rate offers yet")
		} else {
			logger.Warn("failed to load stored rate offers", "error", err)
		}
	}

	sched := scheduler.New(ctx, collectUC, purgeUC, logger)
	if err := sched.Register(cfg.Schedule.RefreshCron, cfg.Schedule.PurgeCron); err != nil {
		return err
	}
	if cfg.Schedule.RunOnStart {
		sched.RunRefreshNow()
	}
	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 3)

	if cfg.Kafka.Enabled {
		feed := kafka.NewRateFeedHandler(ingestUC, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.RawRatesTopic, feed.Handle, logger)
		if err != nil {
			return fmt.Errorf("create kafka consumer: %w", err)
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("rate feed consumer: %w", err)
			}
		}()
	}

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("mortgage-pricing stopped")
	return runErr
}
