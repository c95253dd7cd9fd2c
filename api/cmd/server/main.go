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
	"github.com/rs/zerolog/log"

	"multa-analyzer/api/internal/config"
	"multa-analyzer/api/internal/container"
	"multa-analyzer/api/internal/handle"
	"multa-analyzer/api/internal/logger"
	"multa-analyzer/api/internal/metrics"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lg := logger.New(cfg.LogLevel)
	if err := cfg.ValidateServer(); err != nil {
		lg.Fatal().Err(err).Msg("invalid config")
	}

	metrics.Register()

	svc, err := container.NewAnalysisService(cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("init analysis service")
	}

	gin.SetMode(gin.ReleaseMode)
	router := handle.NewRouter(handle.New(svc, lg), handle.RouterConfig{
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		AllowedOrigins:      cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info().Str("addr", server.Addr).Msg("multa-analyzer listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("forced shutdown")
	}
}
