package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"wardrobeapi/config"
	"wardrobeapi/controllers"
	"wardrobeapi/logger"
	"wardrobeapi/services"
	"wardrobeapi/storage"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %s", err)
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			Release:          "wardrobeapi@1.0.0",
			TracesSampleRate: 1.0,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		defer sentry.Recover()
		defer sentry.Flush(2 * time.Second)
	}

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %s", err)
	}
	if err := store.Initialize(); err != nil {
		log.Fatalf("storage init: %s", err)
	}

	stylist := services.NewGeminiStylist(cfg.Gemini.APIKey, services.ParseModelName(cfg.Gemini.Model), cfg.Gemini.Timeout())
	if !stylist.Configured() {
		logger.Logger.Warn("GEMINI_API_KEY is not set: image analysis is disabled, suggestions use fallbacks")
	}
	wardrobe := services.NewWardrobeService(store, stylist)

	// Interfaces stay nil when R2 is off so the upload routes answer 503.
	var awsProvider services.AWSServiceProvider
	var urlCache services.URLCacheServiceProvider
	awsService, err := services.NewAWSService(context.Background(), cfg.R2)
	switch {
	case err == nil:
		cache, err := services.NewURLCacheService(awsService)
		if err != nil {
			log.Fatalf("url cache: %s", err)
		}
		awsProvider, urlCache = awsService, cache
	case errors.Is(err, services.ErrStorageDisabled):
		logger.Logger.Info("R2 bucket not configured: image uploads disabled")
	default:
		log.Fatalf("r2: %s", err)
	}

	e := controllers.SetupServer(wardrobe, awsProvider, urlCache, cfg.Server)
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit))))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	logger.WithField("port", cfg.Server.Port).WithField("storage", cfg.Storage.Driver).Info("starting wardrobe api")
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
