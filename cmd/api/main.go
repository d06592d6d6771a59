package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"rescue/internal/backend"
	"rescue/internal/cases"
	"rescue/internal/http/handlers"
	httpapi "rescue/internal/http/httpapi"
	"rescue/internal/identity"
	"rescue/internal/infra"
	"rescue/internal/infra/geoip"
	"rescue/internal/middleware"
	"rescue/internal/storage"
	"rescue/internal/validation"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer store.Close()

	blobs, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare blob storage")
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	tokens, err := identity.NewTokens(cfg.JWTSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid JWT secret")
	}

	v := validation.New()
	app := handlers.NewApp(
		cases.NewService(store, blobs, v, cfg.CaseListTTL, logger),
		identity.NewService(store, tokens, v, cfg.SessionTTL, logger),
		v, logger, cfg.MaxUploadBytes,
	)

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   lookup,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       blobs.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("driver", cfg.StoreDriver).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
