package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	LogLevel        string `json:"log_level"`
	LogFormat       string `json:"log_format"`
	DatabaseURL     string `json:"database_url"`
	Addr            string `json:"addr"`
	FrontendOrigin  string `json:"frontend_origin"`
	APIBaseURL      string `json:"api_base_url"`
	PollInterval    int    `json:"poll_interval_seconds"`
	SlackWebhookURL string `json:"slack_webhook_url"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "json",
		DatabaseURL:  "user=postgres dbname=ideaboard sslmode=disable password=postgres host=127.0.0.1",
		Addr:         "localhost:8080",
		APIBaseURL:   "http://localhost:8080",
		PollInterval: 5,
	}
}

// Load reads an optional config.json, then lets environment variables
// override whatever it found.
func (c *Config) Load() error {
	f, err := os.Open("config.json")
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if !os.IsNotExist(err) {
		err = json.NewDecoder(f).Decode(c)
		if err != nil {
			return err
		}
	}

	v := os.Getenv("LOG_LEVEL")
	if v != "" {
		c.LogLevel = v
	}

	v = os.Getenv("LOG_FORMAT")
	if v != "" {
		c.LogFormat = v
	}

	v = os.Getenv("DATABASE_URL")
	if v != "" {
		c.DatabaseURL = v
	}

	v = os.Getenv("ADDR")
	if v != "" {
		c.Addr = v
	}

	v = os.Getenv("FRONTEND_ORIGIN")
	if v != "" {
		c.FrontendOrigin = v
	}

	v = os.Getenv("API_BASE_URL")
	if v != "" {
		c.APIBaseURL = v
	}

	v = os.Getenv("POLL_INTERVAL_SECONDS")
	if v != "" {
		vi, err := strconv.Atoi(v)
		if err != nil {
			return err
		}

		c.PollInterval = vi
	}

	v = os.Getenv("SLACK_WEBHOOK_URL")
	if v != "" {
		c.SlackWebhookURL = v
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("missing config 'database url'")
	}

	return nil
}

func SetupLogger(cfg *Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("input", cfg.LogLevel).Msg("Cannot parse log level")
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "" || cfg.LogFormat == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
}
