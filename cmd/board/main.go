// Command board is the terminal frontend of the idea board. It polls the API
// on a fixed interval and reads actions from stdin: a line of text submits an
// idea, `u <id>` upvotes one, `q` quits.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jhchabran/ideaboard/client"
	"github.com/jhchabran/ideaboard/cmd"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg := cmd.DefaultConfig()
	if err := cfg.Load(); err != nil {
		log.Fatal().Err(err).Msg("Cannot read configuration")
	}
	logger := cmd.SetupLogger(cfg)

	api := client.New(cfg.APIBaseURL)
	board := client.NewBoard(api, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go board.Poll(ctx, time.Duration(cfg.PollInterval)*time.Second)

	fmt.Println("idea board — type an idea to submit it, 'u <id>' to upvote, 'q' to quit")

	scanner := bufio.NewScanner(os.Stdin)
	render(board)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "q":
			return
		case strings.HasPrefix(line, "u "):
			id, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, "u ")), 10, 64)
			if err != nil {
				fmt.Println("usage: u <id>")
				continue
			}
			// the board keeps the error message, nothing more to do here
			_ = board.Upvote(ctx, id)
		case line != "":
			board.SetDraft(line)
			_ = board.Submit(ctx)
		}
		render(board)
	}
}

func render(b *client.Board) {
	state := b.State()

	if state.Loading {
		fmt.Println("loading...")
		return
	}
	if state.Err != "" {
		fmt.Printf("! %v\n", state.Err)
	}

	for _, idea := range state.Ideas {
		fmt.Printf("#%-4d %3d ▲  %s\n", idea.ID, idea.Upvotes, idea.Text)
	}
}
