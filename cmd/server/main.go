// Command server runs the image generation backend.
//
// @title                       Image Generation Backend API
// @version                     1.0
// @description                 Gateway in front of a Gemini-compatible image model: one endpoint per tool, plus generation history and accounts.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-imagegen-backend/internal/config"
	"github.com/tbourn/go-imagegen-backend/internal/gateway"
	httpapi "github.com/tbourn/go-imagegen-backend/internal/http"
	"github.com/tbourn/go-imagegen-backend/internal/observability"
	"github.com/tbourn/go-imagegen-backend/internal/prompt"
	"github.com/tbourn/go-imagegen-backend/internal/repo"
	"github.com/tbourn/go-imagegen-backend/internal/storage"
	"github.com/tbourn/go-imagegen-backend/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version, "dev")

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver,
		attribute.String("gen_ai.system", "gemini"),
		attribute.String("gen_ai.request.model", cfg.Upstream.ImageModel),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	if err := prompt.New().Check(); err != nil {
		log.Fatal().Err(err).Msg("prompt templates")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Fatal().Err(err).Msg("gorm tracing")
		}
	}

	store, err := storage.New(cfg.GeneratedDir, cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("storage dirs")
	}

	var gen gateway.Generator
	if cfg.Upstream.Placeholder {
		gen = gateway.Placeholder{URL: store.GeneratedURL(cfg.Upstream.PlaceholderImage)}
		log.Warn().Msg("placeholder output enabled; upstream is never called")
	} else {
		gen = gateway.NewClient(gateway.Config{
			APIKey:     cfg.Upstream.APIKey,
			BaseURL:    cfg.Upstream.BaseURL,
			ImageModel: cfg.Upstream.ImageModel,
			TextModel:  cfg.Upstream.TextModel,
			Timeout:    cfg.Upstream.Timeout,
		}, store)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, gen, store, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", ver).
			Bool("auth_required", cfg.Auth.Required).
			Bool("placeholder", cfg.Upstream.Placeholder).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(sctx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
