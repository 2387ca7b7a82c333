package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/defigym-labs/defigym/internal/config"
	"github.com/defigym-labs/defigym/internal/corpus"
	"github.com/defigym-labs/defigym/internal/purple"
	"github.com/defigym-labs/defigym/internal/utils/logger"
	"github.com/defigym-labs/defigym/pkg/relay"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting purple agent...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	checkout, err := corpus.NewCheckout(cfg.CorpusRepo)
	if err != nil {
		log.Fatal().Err(err).Str("repo", cfg.CorpusRepo).Msg("failed to open corpus checkout")
	}

	server := relay.NewServer(&relay.ServerConfig{
		Host:      cfg.Host,
		Port:      cfg.Port,
		BodyLimit: cfg.BodySizeLimit,
	})
	purple.Register(server, purple.NewHandler(checkout))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, stopping purple agent")
		if err := server.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}()

	if err := server.App.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("purple agent server failed")
	}
	log.Info().Msg("purple agent stopped")
}
