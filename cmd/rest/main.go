package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/meower-media/notifications/pkg/api/rest"
	"github.com/meower-media/notifications/pkg/config"
	"github.com/meower-media/notifications/pkg/db"
	"github.com/meower-media/notifications/pkg/logger"
	"github.com/meower-media/notifications/pkg/meowid"
	"github.com/meower-media/notifications/pkg/networks"
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

	// Init trusted networks
	if err := networks.Init(cfg.TrustedNetworks); err != nil {
		log.Fatal("trusted networks init failed", zap.Error(err))
	}

	// Create engine
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

	// Serve HTTP router
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: rest.Router(engine, cfg.RealIPHeader),
	}
	go func() {
		log.Info("serving HTTP", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Warn("http server shutdown error", zap.Error(err))
	}
}
