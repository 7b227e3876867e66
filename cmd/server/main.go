package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/lukavran/winelabel/internal/auth"
	"github.com/lukavran/winelabel/internal/config"
	"github.com/lukavran/winelabel/internal/database"
	"github.com/lukavran/winelabel/internal/handler"
	"github.com/lukavran/winelabel/internal/qr"
	"github.com/lukavran/winelabel/internal/queue"
	"github.com/lukavran/winelabel/internal/repository"
	"github.com/lukavran/winelabel/internal/router"
	"github.com/lukavran/winelabel/internal/service"
	"github.com/lukavran/winelabel/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migrate failed")
	}

	// Repositories and the single principal resolver.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	products := repository.NewProductRepo(db)
	ingredients := repository.NewIngredientRepo(db)
	resolver := auth.NewSessionResolver(cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute, users, tokens)

	// Object storage for label images.
	images, err := storage.NewImageStore(context.Background(),
		cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, cfg.S3PublicBase)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage init failed")
	}

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	// Label event pipeline.
	publisher := service.NewLabelPublisher(cfg.AMQPURL, log)
	go queue.StartLabelConsumer(cfg.AMQPURL, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	router.Register(e, router.Deps{
		Auth:        handler.NewAuthHandler(cfg, users, tokens, resolver),
		Products:    handler.NewProductHandler(products, publisher),
		Ingredients: handler.NewIngredientHandler(ingredients),
		Upload:      handler.NewUploadHandler(images),
		Public:      handler.NewPublicHandler(products, qr.New(os.Getenv("QR_API_BASE_URL")), cfg.PublicBaseURL),
		Pages:       handler.NewPageHandler(),
		Resolver:    resolver,
		Redis:       rdb,
		CacheCfg:    config.LoadCacheConfig(),
		RateCfg:     config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
