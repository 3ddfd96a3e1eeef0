package main

import (
	"strings"

	"github.com/jhchabran/ideaboard"
	"github.com/jhchabran/ideaboard/cmd"
	"github.com/jhchabran/ideaboard/pgstore"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var seeds = `Build a better mousetrap
Replace the standup meeting with a shared text channel
A kettle that tells you when the water has cooled back down to drinkable
Public transport cards that refund themselves when the bus is late
An RSS reader for restaurant menus
Teach the office plants to file their own watering tickets
A snooze button for doorbells
Version control for cooking recipes
A map of every bench with a good view in the city
Phone chargers that glow brighter as the battery fills`

func main() {
	_ = godotenv.Load()

	cfg := cmd.DefaultConfig()
	err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot read configuration")
	}
	logger := cmd.SetupLogger(cfg)
	logger.Info().Msg("Seeding database")

	// setup database
	pg := pgstore.New(cfg.DatabaseURL)
	err = pg.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg("Can't connect to database")
	}

	service := ideaboard.NewService(pg)

	for i, text := range strings.Split(seeds, "\n") {
		idea, err := service.CreateIdea(text)
		if err != nil {
			logger.Fatal().Err(err).Str("text", text).Msg("Can't create idea")
		}

		// give the older ideas a head start so the board doesn't look flat
		for j := 0; j < (10-i)%7; j++ {
			_, err = service.UpvoteIdea(idea.ID)
			if err != nil {
				logger.Fatal().Err(err).Int64("id", idea.ID).Msg("Can't upvote idea")
			}
		}
	}

	logger.Info().Msg("Done")
}
