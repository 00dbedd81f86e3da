package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tahsin-rahman/meetsync/libs/config"
	"github.com/tahsin-rahman/meetsync/libs/db"
	"github.com/tahsin-rahman/meetsync/libs/httpx"
	"github.com/tahsin-rahman/meetsync/libs/kafkax"
	otelx "github.com/tahsin-rahman/meetsync/libs/otel"
	"github.com/tahsin-rahman/meetsync/libs/runtime"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/busy"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/consumer"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/extcal"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/handlers"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/inbox"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "scheduling-service")
	port, err := config.Port("PORT", "8086")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	var rdb *redis.Client
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer rdb.Close()
	}

	eventRepo := storage.NewEventRepository(pool)
	requestRepo := storage.NewRequestRepository(pool)
	availabilityRepo := storage.NewAvailabilityRepository(pool)
	profileRepo := storage.NewProfileRepository(pool)
	inboxRepo := inbox.NewRepository(pool)

	extcalClient := extcal.NewClient(
		config.String("EXTCAL_BASE_URL", ""),
		rdb,
		logger,
		config.Minutes("EXTCAL_CACHE_TTL_MINUTES", 5*time.Minute),
	)

	aggregator := busy.NewAggregator(logger,
		busy.FuncSource{SourceKind: model.SourceOwnedEvent, Fetch: eventRepo.ListOwnedIntervals},
		busy.FuncSource{SourceKind: model.SourceParticipation, Fetch: eventRepo.ListParticipationIntervals},
		busy.FuncSource{SourceKind: model.SourcePendingRequest, Fetch: requestRepo.ListPendingIntervals},
		extcalClient,
	)

	brokers := config.String("KAFKA_BROKERS", "")
	if brokers != "" {
		syncConsumer := consumer.New(logger, inboxRepo, extcalClient, consumer.Config{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", "scheduling-service"),
			Topic:   config.String("KAFKA_CONSUME_TOPIC", "calendar.sync.completed.v1"),
		})
		go syncConsumer.Run(ctx)
	}

	scheduleHandler := handlers.NewScheduleHandler(availabilityRepo, eventRepo, profileRepo, requestRepo, aggregator, logger)

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if brokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.HandleFunc("/api/v1/slots", scheduleHandler.Slots)
	mux.HandleFunc("/api/v1/calendar", scheduleHandler.Calendar)
	mux.HandleFunc("/api/v1/golden-hours", scheduleHandler.GoldenHours)
	mux.HandleFunc("/api/v1/suggest", scheduleHandler.Suggest)
	mux.HandleFunc("/api/v1/requests", scheduleHandler.CreateRequest)

	middlewares := []httpx.Middleware{
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   parseList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods:   parseList(config.String("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")),
			AllowedHeaders:   parseList(config.String("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id")),
			AllowCredentials: config.String("CORS_ALLOW_CREDENTIALS", "false") == "true",
		}),
		httpx.WithBodyLimit(int64(config.Int("MAX_BODY_BYTES", 1<<20))),
		httpx.WithTimeout(time.Duration(config.Int("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second),
	}
	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if limitPerMinute > 0 {
		if rdb != nil {
			limiter := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, "rl:scheduling")
			middlewares = append(middlewares, limiter.Middleware(logger, true))
			logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute)
		} else {
			limiter := httpx.NewRateLimiter(limitPerMinute, time.Minute)
			middlewares = append(middlewares, limiter.Middleware())
			logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
		}
	}

	handler := httpx.Chain(mux, middlewares...)
	handler = otelhttp.NewHandler(handler, "scheduling")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	if err := startGrpcServer(ctx, logger, availabilityRepo, aggregator); err != nil {
		logger.Error("grpc server failed to start", "err", err)
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
