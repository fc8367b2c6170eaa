package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/biruk-1/Health-coach-sub000/internal/config"
	"github.com/biruk-1/Health-coach-sub000/internal/directory"
	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/events"
	"github.com/biruk-1/Health-coach-sub000/internal/handler"
	"github.com/biruk-1/Health-coach-sub000/internal/metrics"
	"github.com/biruk-1/Health-coach-sub000/internal/remote"
	"github.com/biruk-1/Health-coach-sub000/internal/repository"
	"github.com/biruk-1/Health-coach-sub000/internal/service"
	"github.com/biruk-1/Health-coach-sub000/internal/snapshot"
	"github.com/biruk-1/Health-coach-sub000/internal/synthetic"
	"github.com/biruk-1/Health-coach-sub000/internal/tabular"
	"github.com/biruk-1/Health-coach-sub000/pkg/database"
	"github.com/biruk-1/Health-coach-sub000/pkg/jwt"
	pkglog "github.com/biruk-1/Health-coach-sub000/pkg/log"
	"github.com/biruk-1/Health-coach-sub000/pkg/middleware"
	"github.com/biruk-1/Health-coach-sub000/pkg/pubsub"
	"github.com/biruk-1/Health-coach-sub000/pkg/storage"
)

const serviceName = "coach-directory"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: serviceName,
	})
	logger := pkglog.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = pkglog.WithLogger(ctx, *logger)

	m := metrics.New()

	// Remote directory client; an empty base URL means cache-only mode.
	var remoteDir directory.RemoteDirectory
	var fetcher directory.CoachFetcher
	var bulk directory.BulkSource
	if cfg.Remote.BaseURL != "" {
		client, err := remote.NewClient(cfg.Remote)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create remote directory client")
		}
		remoteDir, fetcher, bulk = client, client, client
		logger.Info().Str(pkglog.FieldURL, cfg.Remote.BaseURL).Dur("lookup_timeout", cfg.Remote.LookupTimeout).Msg("remote directory configured")
	} else {
		logger.Warn().Msg("no remote directory configured, serving from local cache only")
	}

	// A tabular export replaces the remote API as the bulk source.
	if cfg.Tabular.Enabled {
		store, err := storage.New(ctx, cfg.Storage.Driver, cfg.Storage.Local, cfg.Storage.S3)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		bulk = tabular.NewSource(store, cfg.Tabular.Key)
		logger.Info().Str("driver", cfg.Storage.Driver).Str("key", cfg.Tabular.Key).Msg("tabular bulk source configured")
	}

	// Optional Redis tier: snapshot store and event bus.
	var snap snapshot.Store
	var bus pubsub.PubSub
	if cfg.Redis.Enabled {
		snap, bus = initRedis(cfg, logger)
		if bus != nil {
			defer bus.Close()
		}
	}

	cache := directory.NewCache(directory.CacheOptions{
		TTL:           cfg.Directory.TTL,
		Bulk:          bulk,
		Fetcher:       fetcher,
		Snapshot:      snap,
		Generator:     synthetic.New(cfg.Directory.Seed),
		SyntheticSize: cfg.Directory.SyntheticSize,
		Metrics:       m,
	})
	facade := directory.NewFacade(remoteDir, cache, directory.FacadeOptions{
		EmptyResultIsFallbackTrigger: cfg.Directory.EmptyResultIsFallbackTrigger,
		Metrics:                      m,
	})

	// Warm the cache so the first fallback does not pay for the load.
	go cache.EnsureLoaded(ctx)

	if bus != nil {
		sub := events.NewSubscriber(bus, cfg.Events.Channel, cache, m)
		go func() {
			if err := sub.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("directory event subscriber stopped")
			}
		}()
	}

	favoriteService, authMiddleware, cleanup := initFavorites(cfg, facade, logger)
	if cleanup != nil {
		defer cleanup()
	}

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(*logger))

	handler.NewHandler(facade, favoriteService, authMiddleware).RegisterRoutes(r)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("coach directory listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down coach directory")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("coach directory stopped")
}

// initRedis connects the snapshot store and event bus. Either may be nil
// when Redis is unreachable; the directory works without both.
func initRedis(cfg *config.Config, logger *zerolog.Logger) (snapshot.Store, pubsub.PubSub) {
	var snap snapshot.Store
	store, err := snapshot.NewRedisStore(cfg.Redis, cfg.Snapshot)
	if err != nil {
		logger.Warn().Err(err).Msg("snapshot store unavailable")
	} else {
		snap = store
		logger.Info().Str("addr", cfg.Redis.Address).Str("key", cfg.Snapshot.Key).Msg("snapshot store connected")
	}

	psCfg := pubsub.DefaultConfig()
	psCfg.Redis.Address = cfg.Redis.Address
	psCfg.Redis.Password = cfg.Redis.Password
	psCfg.Redis.DB = cfg.Redis.DB

	bus, err := pubsub.NewPubSub(psCfg)
	if err != nil {
		logger.Warn().Err(err).Msg("event bus unavailable")
		return snap, nil
	}
	logger.Info().Str("channel", cfg.Events.Channel).Msg("event bus connected")
	return snap, bus
}

// initFavorites wires the favorites store. Without a JWT secret the
// favorites routes are disabled.
func initFavorites(cfg *config.Config, lookup service.CoachLookup, logger *zerolog.Logger) (service.FavoriteService, *middleware.AuthMiddleware, func()) {
	if cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET not set, favorites disabled")
		return nil, nil, nil
	}

	tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token manager")
	}

	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db, &domain.FavoriteModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("favorites database ready")

	repo := repository.NewGormFavoriteRepository(db)
	svc := service.NewFavoriteService(repo, lookup, cfg.Favorites.MaxPerUser)

	return svc, middleware.NewAuthMiddleware(tokens), func() {
		if err := database.Close(db); err != nil {
			logger.Error().Err(err).Msg("error closing database")
		}
	}
}
