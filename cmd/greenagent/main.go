package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/defigym-labs/defigym/internal/config"
	"github.com/defigym-labs/defigym/internal/greenagent"
	"github.com/defigym-labs/defigym/internal/utils/logger"
	"github.com/defigym-labs/defigym/pkg/relay"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting green agent...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	client, err := relay.NewClient(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init relay client")
	}
	defer client.Close()

	orchestrator, err := greenagent.New(cfg, client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init orchestrator")
	}

	server := relay.NewServer(&relay.ServerConfig{
		Host:      cfg.Host,
		Port:      cfg.Port,
		BodyLimit: cfg.BodySizeLimit,
	})
	greenagent.Register(server, orchestrator)

	// setup signal handling for graceful shutdown before serving
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, stopping green agent")
		if err := server.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}()

	if err := server.App.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("green agent server failed")
	}
	log.Info().Msg("green agent stopped")
}
