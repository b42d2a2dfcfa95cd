package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discount-leverage/internal/api/handlers"
	"discount-leverage/internal/config"
	"discount-leverage/internal/data"
	"discount-leverage/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	env, err := config.LoadEnv(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load environment")
	}
	if err := logging.Setup(os.Stderr, env.LogLevel, env.Production); err != nil {
		log.Fatal().Err(err).Str("level", env.LogLevel).Msg("configure logger")
	}

	if env.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	if info, err := os.Stat(env.PresetDir); err == nil && info.IsDir() {
		log.Info().Str("dir", env.PresetDir).Msg("preset directory found")
	} else {
		log.Warn().Str("dir", env.PresetDir).Err(err).Msg("preset directory not found; requests must carry params")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runs := data.NewResultCache(env.ResultTTL)
	go runs.Cleanup(ctx, 5*time.Minute)

	srv := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           handlers.NewRouter(env.PresetDir, runs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Dur("result_ttl", env.ResultTTL).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
