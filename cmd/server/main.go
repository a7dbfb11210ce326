package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/cache"
	"github.com/sui-chat/api/internal/config"
	"github.com/sui-chat/api/internal/handler"
	"github.com/sui-chat/api/internal/kafka"
	"github.com/sui-chat/api/internal/notify"
	"github.com/sui-chat/api/internal/observability"
	"github.com/sui-chat/api/internal/outbox"
	"github.com/sui-chat/api/internal/repository"
	"github.com/sui-chat/api/internal/service"
)

func main() {
	cfg := config.Load()

	// Observability
	observability.InitLogger(cfg.ServiceName)
	log := observability.Log

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database. The client is dialed lazily so the process starts even when
	// the cluster is briefly unreachable.
	conn := repository.NewConn(cfg.MongoURI, cfg.MongoDatabase)
	profileRepo := repository.NewProfileRepo(conn)

	idxCtx, idxCancel := context.WithTimeout(ctx, 15*time.Second)
	if err := profileRepo.EnsureIndexes(idxCtx); err != nil {
		log.Warn("ensure profile indexes failed", zap.Error(err))
	}
	idxCancel()

	// HTTP Server for Observability (Metrics & Health)
	if cfg.MetricsEnabled {
		obsMux := chi.NewRouter()
		obsMux.Use(observability.MetricsMiddleware(cfg.ServiceName))
		obsMux.Handle("/metrics", promhttp.Handler())
		obsMux.Get("/health/live", handler.Health())
		obsMux.Get("/health/ready", handler.Ready(conn))

		go func() {
			log.Info("HTTP observability server started", zap.String("addr", cfg.HTTPAddr))
			if err := http.ListenAndServe(cfg.HTTPAddr, obsMux); err != nil {
				log.Error("HTTP observability server failed", zap.Error(err))
			}
		}()
	}

	friendSvc := &service.FriendService{
		Store:       profileRepo,
		EventsTopic: cfg.KafkaEventsTopic,
	}
	profileSvc := &service.ProfileService{Repo: profileRepo}

	// Redis
	if cfg.RedisAddr != "" {
		rdb := cache.New(cfg.RedisAddr)
		defer rdb.Close()

		pc := &cache.ProfileCache{R: rdb}
		profileSvc.Cache = pc
		friendSvc.Cache = pc
		friendSvc.Notifier = notify.New(rdb)
	}

	// Kafka producer + outbox publisher
	if len(cfg.KafkaBrokers) > 0 {
		outboxRepo := outbox.NewRepository(conn)
		friendSvc.Outbox = outboxRepo

		producer := kafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()

		publisher := outbox.NewPublisher(outboxRepo, producer)
		go publisher.Start(ctx)

		// Kafka consumer: create an empty profile when a wallet onboards
		go kafka.StartProfileOnboardedConsumer(ctx, cfg.KafkaBrokers, cfg.KafkaOnboardTopic, profileRepo)
	}

	// HTTP server
	mux := handler.NewRouter(cfg, handler.Deps{
		Friends:     friendSvc,
		Profiles:    profileSvc,
		DB:          conn,
		Diagnostics: handler.NewDiagnostics(cfg.MongoURI, cfg.MongoDatabase),
	})
	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: mux}

	go func() {
		log.Info("friends HTTP started", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("received signal, initiating shutdown")
	cancel() // stop outbox publisher + kafka consumer

	ctxShut, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()

	_ = srv.Shutdown(ctxShut)
	if err := conn.Close(ctxShut); err != nil {
		log.Error("mongo disconnect failed", zap.Error(err))
	}
	log.Info("friends api stopped")
}
