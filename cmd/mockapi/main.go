package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/config"
	"github.com/dvloznov/homeapp/internal/logger"
	"github.com/dvloznov/homeapp/internal/mockapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	port := flag.String("port", cfg.MockAPIPort, "HTTP server port")
	token := flag.String("token", cfg.APIToken, "Bearer token clients must send (empty disables auth)")
	flag.Parse()

	log := logger.NewWithLevel(cfg.LogLevel)

	profile, err := codec.ParseProfile(cfg.TimestampProfile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid timestamp profile")
	}
	cdc, err := codec.New(profile, cfg.Location())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create codec")
	}

	if *token == "" {
		log.Warn().Msg("No API token configured - requests will not be authenticated")
	}

	backend := mockapi.New(cdc, mockapi.WithLogger(logger.Component(log, "mockapi")))

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      backend.Router(*token),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Str("profile", string(profile)).Msg("Starting mock backend")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
