package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/cache"
	"github.com/pricewise/pricewise-api/internal/config"
	"github.com/pricewise/pricewise-api/internal/database"
	"github.com/pricewise/pricewise-api/internal/handler"
	"github.com/pricewise/pricewise-api/internal/middleware"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/sse"
	"github.com/pricewise/pricewise-api/internal/storage"
	"github.com/pricewise/pricewise-api/internal/utils"
	"github.com/pricewise/pricewise-api/internal/worker"
	"github.com/pricewise/pricewise-api/pkg/dummyjson"
)

const (
	migrationsSource = "file://migrations"
	storeTable       = "profile_store"
)

// main is the application entrypoint for the PriceWise API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger and token signing
	setupLogger(cfg.Env)
	utils.InitJWT(cfg.JWTSecret, cfg.TokenTTL)
	log.Info().Str("env", cfg.Env).Str("storage", cfg.Storage.Driver).Msg("starting pricewise api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handler.HealthCheck{}

	// 3. Connect to Redis when configured
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			fatal("redis connection failed", err)
		}
		defer redisClient.Close()
		checks["redis"] = redisClient.Ping
		log.Info().Str("addr", redisClient.Addr()).Msg("redis connected successfully")
	}

	// 4. Open profile storage
	store, err := openStorage(ctx, cfg, redisClient, checks)
	if err != nil {
		fatal("storage initialization failed", err)
	}
	defer store.Close()

	// 5. Catalog client, optionally cached in redis
	catalogClient := dummyjson.NewClient(dummyjson.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
		Debug:   cfg.Env != "production",
	})
	var productCache service.ProductCache
	if redisClient != nil && cfg.Catalog.CacheTTL > 0 {
		productCache = cache.NewProductCache(redisClient, cfg.Catalog.CacheTTL)
	}

	// 6. Initialize services
	catalogSvc := service.NewCatalogService(catalogClient, productCache)
	dealSvc := service.NewDealService(catalogSvc)
	registry := service.NewRegistry(store)
	profileSvc := service.NewProfileService(registry, catalogSvc)

	// 7. Event streams
	hub := sse.NewHub()
	ws := handler.NewMelody()
	notifier := sse.FanoutNotifier{sse.NewHubNotifier(hub), sse.NewMelodyNotifier(ws)}

	// 8. Initialize handlers
	handlers := &handler.Handlers{
		Health:    handler.NewHealthHandler(cfg.Storage.Driver, checks),
		Profile:   handler.NewProfileHandler(profileSvc),
		Product:   handler.NewProductHandler(dealSvc, profileSvc),
		Deal:      handler.NewDealHandler(dealSvc),
		Favourite: handler.NewFavouriteHandler(profileSvc),
		Alert:     handler.NewAlertHandler(profileSvc),
		History:   handler.NewHistoryHandler(profileSvc),
		SSE:       handler.NewSSEHandler(hub),
		WS:        handler.NewWSHandler(ws),
	}

	// 9. Initialize middleware
	limiter := middleware.NewInvalidAuthRateLimiter(5, time.Minute)
	go limiter.Cleanup(ctx, 5*time.Minute)
	jwtMw := middleware.NewJWTMiddleware(limiter)

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	handler.SetupRoutes(router, handlers, jwtMw)

	// 11. Start workers
	go worker.NewAlertWatchWorker(profileSvc, notifier, cfg.Worker.AlertCheckInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()
	closeWebsockets(ws)

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Int("active_profiles", len(registry.Loaded())).Msg("Server exited")
}

// openStorage opens the profile store selected by STORAGE_DRIVER and
// registers its health check.
func openStorage(ctx context.Context, cfg *config.Config, redisClient *cache.RedisClient, checks map[string]handler.HealthCheck) (storage.Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn().Msg("memory storage selected, profiles are lost on restart")
		return storage.NewMemoryStore(), nil

	case config.StorageFile:
		return storage.NewFileStore(cfg.Storage.FileDir)

	case config.StorageSQLite:
		return storage.OpenSQLite(cfg.Storage.SQLitePath)

	case config.StorageRedis:
		if redisClient == nil {
			return nil, errors.New("redis storage requires a redis connection")
		}
		return storage.NewRedisStore(redisClient, "pricewise:"), nil

	case config.StoragePostgres:
		db, err := database.Connect(ctx, &cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db.DB, migrationsSource); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Msg("migrations completed successfully")
		checks["postgres"] = db.PingContext
		return storage.NewSQLStore(db, storeTable), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func closeWebsockets(m *melody.Melody) {
	if err := m.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close websocket sessions")
	}
}

func fatal(msg string, err error) {
	log.Error().Err(err).Msg(msg)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
