package main

import (
	"github.com/jhchabran/ideaboard"
	"github.com/jhchabran/ideaboard/announce"
	"github.com/jhchabran/ideaboard/cmd"
	"github.com/jhchabran/ideaboard/pgstore"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// optional .env file, the real environment wins
	_ = godotenv.Load()

	cfg := cmd.DefaultConfig()
	err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot read configuration")
	}
	logger := cmd.SetupLogger(cfg)

	// setup database
	pg := pgstore.New(cfg.DatabaseURL)

	// fire the server
	s := ideaboard.NewServer(
		&ideaboard.ServerConfig{Addr: cfg.Addr, AllowedOrigin: cfg.FrontendOrigin},
		logger,
		pg,
	)

	if cfg.SlackWebhookURL != "" {
		ll := logger.With().Str("component", "slack announce").Logger()
		s.AddIdeaHook(announce.SlackHook(cfg.SlackWebhookURL, ll))
	}

	err = s.Prepare()
	if err != nil {
		logger.Fatal().Err(err).Msg("Cannot prepare server")
	}

	logger.Info().Str("addr", cfg.Addr).Msg("Listening")
	err = s.Start()
	if err != nil {
		logger.Fatal().Err(err).Msg("Cannot start server")
	}
}
