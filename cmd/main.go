package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UMDhodi/Obsidian/internal/cache"
	"github.com/UMDhodi/Obsidian/internal/cart"
	"github.com/UMDhodi/Obsidian/internal/catalog"
	"github.com/UMDhodi/Obsidian/internal/config"
	"github.com/UMDhodi/Obsidian/internal/consultation"
	h "github.com/UMDhodi/Obsidian/internal/http"
	"github.com/UMDhodi/Obsidian/internal/logger"
	"github.com/UMDhodi/Obsidian/internal/provider/gemini"
	"github.com/UMDhodi/Obsidian/internal/repository"
	"github.com/UMDhodi/Obsidian/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogMode)
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("failed to build logger", zap.Error(err))
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx := context.Background()

	// Catalog
	repo, err := repository.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("migrations completed", zap.String("path", cfg.MigrationsPath))

	products, err := repo.GetAllProducts(ctx)
	if err != nil {
		log.Fatal("failed to load products", zap.Error(err))
	}
	storeCatalog, err := catalog.New(products)
	if err != nil {
		log.Fatal("invalid catalog", zap.Error(err))
	}
	quotes, err := repo.GetQuotes(ctx)
	if err != nil {
		log.Fatal("failed to load quotes", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("products", storeCatalog.Len()), zap.Int("quotes", len(quotes)))

	// Consultation provider
	var provider consultation.Provider = consultation.UnavailableProvider{}
	geminiProvider, err := gemini.New(ctx, gemini.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	switch {
	case errors.Is(err, consultation.ErrProviderUnavailable):
		log.Warn("API_KEY not set, consultations will be served from fallbacks")
	case err != nil:
		log.Fatal("failed to create gemini provider", zap.Error(err))
	default:
		provider = geminiProvider
		log.Info("gemini provider ready", zap.String("model", cfg.GeminiModel))
	}

	// Consultation cache
	var consultCache consultation.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed, consultation cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			consultCache = cache.NewRedisCache(redisClient, cfg.ConsultCacheTTL)
			log.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		}
	}

	consultClient := consultation.NewClient(provider, consultCache, consultation.Options{
		Timeout:            cfg.ConsultTimeout,
		MinDisplayDuration: cfg.ConsultMinDisplay,
		BreakerMaxFailures: cfg.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.BreakerOpenTimeout,
		CacheWriteTimeout:  time.Second,
	}, log.Named("consultation"))

	sessions := session.NewMemoryStore(func() *cart.Engine {
		return cart.NewEngine(storeCatalog, log.Named("cart"))
	}, cfg.SessionTTL, log.Named("session"))
	defer sessions.Close()

	handler := h.NewHandler(h.RouterConfig{
		Products:       h.NewProductHandler(storeCatalog, quotes),
		Cart:           h.NewCartHandler(storeCatalog, cfg.DeliveryFee, log.Named("cart")),
		Consultation:   h.NewConsultationHandler(consultClient, log.Named("consultation")),
		Sessions:       sessions,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         log.Named("http"),
	})

	srv := &http.Server{
		Addr:         cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront starting", zap.String("addr", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
