package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/iamaamunir/chat-app/internal/api"
	"github.com/iamaamunir/chat-app/internal/config"
	"github.com/iamaamunir/chat-app/internal/events"
	"github.com/iamaamunir/chat-app/internal/logger"
	"github.com/iamaamunir/chat-app/internal/metrics"
	"github.com/iamaamunir/chat-app/internal/persist"
	"github.com/iamaamunir/chat-app/internal/presence"
	"github.com/iamaamunir/chat-app/internal/store/mongodb"
	"github.com/iamaamunir/chat-app/internal/store/postgres"
	"github.com/iamaamunir/chat-app/internal/ws"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()

	mongoClient, err := mongodb.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo connect", "err", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	zlog.Info("connection to MongoDB is successful")

	pgPool, err := postgres.Connect(ctx, cfg.Postgres.URI)
	if err != nil {
		zlog.Fatalw("postgres connect", "err", err)
	}
	defer pgPool.Close()

	docStore := mongodb.NewChatStore(mongoClient.Database(cfg.Mongo.DB))
	relStore := postgres.NewChatStore(pgPool)
	if err := relStore.CreateSchema(ctx); err != nil {
		zlog.Fatalw("postgres schema", "err", err)
	}
	zlog.Info("pg tables created")

	coordinator := persist.NewCoordinator(docStore, relStore, zlog, cfg.WriteTimeout)

	var pres ws.Presence
	var roomMembers api.RoomMembers
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		st := presence.NewStore(rdb, cfg.Redis.Prefix)
		pres = st
		roomMembers = st
	}

	var pub ws.EventPublisher
	var kprod *events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kprod = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = kprod.Close() }()
		pub = kprod
	}

	hub := ws.NewHub()
	relay := ws.NewRelay(hub, coordinator, docStore, pres, pub, zlog)

	app := api.NewServer(relay, docStore, roomMembers, mongoClient, pgPool)

	reg := metrics.NewRegistry()
	metricsSrv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler(reg)}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Errorw("metrics listener", "err", err)
		}
	}()

	errs := make(chan error, 1)
	go func() {
		errs <- app.Listen(":" + cfg.App.PortString())
	}()
	zlog.Infof("server listening at http://localhost:%s", cfg.App.PortString())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		zlog.Fatalw("server error", "err", err)
	case sig := <-quit:
		zlog.Infow("signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	zlog.Info("server stopped")
}
