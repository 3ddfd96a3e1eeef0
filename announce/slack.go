// Package announce holds idea hooks posting newly submitted ideas to the
// outside world.
package announce

import (
	"fmt"

	"github.com/jhchabran/ideaboard"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// SlackHook returns an idea hook announcing each created idea on a Slack
// incoming webhook.
func SlackHook(webhookURL string, logger zerolog.Logger) ideaboard.IdeaHook {
	return func(idea *ideaboard.Idea) error {
		msg := slack.WebhookMessage{
			Text: fmt.Sprintf("New idea #%v: %v", idea.ID, idea.Text),
		}

		if err := slack.PostWebhook(webhookURL, &msg); err != nil {
			logger.Warn().Err(err).Int64("id", idea.ID).Msg("Failed to announce idea")
			return err
		}

		logger.Debug().Int64("id", idea.ID).Msg("Announced idea")
		return nil
	}
}
