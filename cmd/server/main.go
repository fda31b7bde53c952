package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/linkdeck/linkdeck/config"
	appmodel "github.com/linkdeck/linkdeck/internal/app/model"
	apprepository "github.com/linkdeck/linkdeck/internal/app/repository"
	appserver "github.com/linkdeck/linkdeck/internal/app/server"
	appservice "github.com/linkdeck/linkdeck/internal/app/service"
	"github.com/linkdeck/linkdeck/internal/http/middleware"
	"github.com/linkdeck/linkdeck/internal/http/util"
	"github.com/linkdeck/linkdeck/internal/infra/logger"
	infraNATS "github.com/linkdeck/linkdeck/internal/infra/nats"
	infraPostgres "github.com/linkdeck/linkdeck/internal/infra/postgres"
	infraPrometheus "github.com/linkdeck/linkdeck/internal/infra/prometheus"
	infraRedis "github.com/linkdeck/linkdeck/internal/infra/redis"
	"go.uber.org/zap"
)

const (
	tokenTTL             = 24 * time.Hour
	counterSyncInterval  = 5 * time.Minute
	defaultGeoTimeout    = 2 * time.Second
	segmentFilterMinLoad = 10000
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
		zap.Int("server_port", cfg.Server.Port),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB,
		&appmodel.LandingPage{},
		&appmodel.Link{},
		&appmodel.LinkClick{},
		&appmodel.UTMPreset{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	linkRepo := apprepository.NewLinkRepository(gormDB)
	pageRepo := apprepository.NewPageRepository(gormDB)
	clickRepo := apprepository.NewClickRepository(gormDB)
	presetRepo := apprepository.NewPresetRepository(gormDB)
	analyticsRepo := apprepository.NewAnalyticsRepository(pool)

	filter := seedSegmentFilter(ctx, log, linkRepo, pageRepo)
	linkCache := appservice.NewLinkCache(redisClient, log)

	geoTimeout := defaultGeoTimeout
	if d, err := time.ParseDuration(cfg.Geolocation.Timeout); err == nil && d > 0 {
		geoTimeout = d
	}
	geoService := appservice.NewGeolocationService(cfg.Geolocation.BaseURL, geoTimeout, log)

	clickPublisher := appservice.NewClickPublisher(js)
	clickConsumer := appservice.NewClickConsumer(js, log, clickRepo, geoService)
	if err := clickConsumer.Start(); err != nil {
		log.Fatal("Failed to start click consumer", zap.Error(err))
	}

	counterSyncer := appservice.NewCounterSyncer(log, analyticsRepo, counterSyncInterval)
	counterSyncer.Start()
	defer counterSyncer.Stop()

	resolver := appservice.NewResolverService(appservice.ResolverDeps{
		Links:  linkRepo,
		Pages:  pageRepo,
		Clicks: clickPublisher,
		Filter: filter,
		Cache:  linkCache,
		Logger: log,
	})
	linkService := appservice.NewLinkService(linkRepo, filter, linkCache)
	pageService := appservice.NewPageService(pageRepo, linkRepo, filter)
	presetService := appservice.NewPresetService(presetRepo)
	analyticsService := appservice.NewAnalyticsService(analyticsRepo)

	if cfg.Auth.Secret == "" {
		log.Fatal("AUTH_SECRET must be configured")
	}
	signer := util.NewTokenSigner([]byte(cfg.Auth.Secret), tokenTTL)

	server := appserver.New(appserver.Dependencies{
		Logger:    log,
		Postgres:  pool,
		Redis:     redisClient,
		NATS:      natsConn,
		JetStream: js,
		Resolver:  resolver,
		Links:     linkService,
		Pages:     pageService,
		Presets:   presetService,
		Analytics: analyticsService,
		Signer:    signer,
		RateLimit: middleware.DefaultRateLimitConfig(),
	})

	if err := server.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}

// seedSegmentFilter preloads the negative-lookup filter with every known
// short code and page slug so unknown segments skip the database entirely.
func seedSegmentFilter(ctx context.Context, log *zap.Logger, links apprepository.LinkRepository, pages apprepository.PageRepository) *appservice.SegmentFilter {
	codes, err := links.AllShortCodes(ctx)
	if err != nil {
		log.Fatal("Failed to load short codes for segment filter", zap.Error(err))
	}
	slugs, err := pages.AllSlugs(ctx)
	if err != nil {
		log.Fatal("Failed to load page slugs for segment filter", zap.Error(err))
	}

	expected := len(codes) + len(slugs)
	if expected < segmentFilterMinLoad {
		expected = segmentFilterMinLoad
	}
	filter := appservice.NewSegmentFilter(uint(expected))
	filter.Seed(codes, slugs)

	log.Info("Seeded segment filter",
		zap.Int("short_codes", len(codes)),
		zap.Int("page_slugs", len(slugs)))
	return filter
}
