package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/meower-media/notifications/pkg/config"
	"github.com/meower-media/notifications/pkg/db"
	"github.com/meower-media/notifications/pkg/dispatch"
	"github.com/meower-media/notifications/pkg/logger"
	"github.com/meower-media/notifications/pkg/meowid"
	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/meower-media/notifications/pkg/rdb"
	"github.com/meower-media/notifications/pkg/settings"
	"go.uber.org/zap"
)

func main() {
	// Load dotenv
	godotenv.Load()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}
	loc, _ := cfg.Location()

	// Init logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	// Init Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn: cfg.SentryDSN,
	}); err != nil {
		log.Fatal("sentry init failed", zap.Error(err))
	}
	defer sentry.Flush(time.Second * 5)

	// Init MeowID
	if err := meowid.Init(cfg.NodeId); err != nil {
		log.Fatal("meowid init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init MongoDB
	if err := db.Init(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatal("mongo init failed", zap.Error(err))
	}
	defer db.Disconnect(context.Background())

	// Init Redis
	if err := rdb.Init(ctx, cfg.RedisURI); err != nil {
		log.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()

	// Create engine and dispatcher
	repo := settings.NewCachedRepository(
		settings.NewMongoRepository(db.NotificationSettings),
		rdb.Client,
		cfg.SettingsCacheTTL,
		log.Named("settings"),
	)
	engine := notifications.NewEngine(repo,
		notifications.WithLocation(loc),
		notifications.WithLogger(log.Named("engine")),
	)
	dispatcher := dispatch.NewDispatcher(engine, rdb.Client, log.Named("dispatch"), cfg.DispatchConcurrency)

	// Subscribe to message events
	pubsub := rdb.Client.Subscribe(ctx, cfg.EventsChannel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Fatal("subscribe failed", zap.String("channel", cfg.EventsChannel), zap.Error(err))
	}

	log.Info("listening for message events", zap.String("channel", cfg.EventsChannel))
	dispatcher.Listen(ctx, pubsub.Channel())
}
