package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cosmicverse/starfield/internal/config"
	"github.com/cosmicverse/starfield/internal/domain"
	"github.com/cosmicverse/starfield/internal/httpserver"
	"github.com/cosmicverse/starfield/internal/httpserver/deps"
	"github.com/cosmicverse/starfield/internal/logger"
	"github.com/cosmicverse/starfield/internal/redis"
	"github.com/cosmicverse/starfield/internal/scheduler"
	"github.com/cosmicverse/starfield/internal/service"
	"github.com/cosmicverse/starfield/internal/store"
	filestore "github.com/cosmicverse/starfield/internal/store/file"
	redisstore "github.com/cosmicverse/starfield/internal/store/redis"
	"github.com/cosmicverse/starfield/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	backup      *scheduler.Backup
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Pick the store backend. Both persist the collection as one unit.
	var (
		st          store.Store
		redisClient *goredis.Client
	)
	switch cfg.StoreBackend {
	case "redis":
		loggerClient.Infof("Using redis store at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		st = redisstore.New(client, loggerClient)
	default:
		loggerClient.Infof("Using file store at %s", cfg.DataFile)
		fs, err := filestore.New(cfg.DataFile, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to initialize file store: %v", err)
			os.Exit(1)
		}
		st = fs
	}

	// Star service: identity rules, merge rules, mutation gate.
	opts := []service.Option{}
	if cfg.StrictSigns {
		loggerClient.Info("strict sign validation enabled")
		opts = append(opts, service.WithValidator(domain.ValidateSigns))
	}
	stars := service.New(st, loggerClient, opts...)

	// Optional periodic snapshots of the collection.
	var backup *scheduler.Backup
	if cfg.BackupDir != "" {
		backup = scheduler.NewBackup(st, cfg.BackupDir, cfg.BackupKeep, loggerClient, cfg.BackupInterval)
	} else {
		loggerClient.Info("backup dir not configured, snapshots disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
		Stars:     stars,
		StaticDir: cfg.StaticDir,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		backup:      backup,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🌟 Starting Starfield v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Starfield %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.backup != nil {
		if err := a.backup.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backup scheduler: %w", err)
		}
		a.logger.Info("backup scheduler started",
			logger.Duration("interval", a.cfg.BackupInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.backup != nil {
		a.backup.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Starfield stopped cleanly")
	return nil
}
