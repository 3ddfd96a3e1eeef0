package client

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jhchabran/ideaboard"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is how often the board refetches the idea list.
const DefaultPollInterval = 5 * time.Second

// A Board holds the local state of the idea board: the last successfully
// fetched list, the in-progress submission, the loading and submitting flags
// and a single error message where each new error replaces the previous one.
type Board struct {
	api    *Client
	logger zerolog.Logger

	mu         sync.Mutex
	ideas      []*ideaboard.Idea
	draft      string
	loading    bool
	submitting bool
	errMsg     string
}

func NewBoard(api *Client, logger zerolog.Logger) *Board {
	return &Board{
		api:     api,
		logger:  logger,
		loading: true,
	}
}

// BoardState is a copy of the board state, safe to render while the board
// keeps moving.
type BoardState struct {
	Ideas      []*ideaboard.Idea
	Draft      string
	Loading    bool
	Submitting bool
	Err        string
}

func (b *Board) State() BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()

	ideas := make([]*ideaboard.Idea, len(b.ideas))
	for i, idea := range b.ideas {
		cp := *idea
		ideas[i] = &cp
	}

	return BoardState{
		Ideas:      ideas,
		Draft:      b.draft,
		Loading:    b.loading,
		Submitting: b.submitting,
		Err:        b.errMsg,
	}
}

// SetDraft replaces the in-progress submission text.
func (b *Board) SetDraft(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft = text
}

// Refresh fetches the full list and replaces the local one. On failure the
// previously fetched list stays visible and only the error message changes.
func (b *Board) Refresh(ctx context.Context) {
	ideas, err := b.api.ListIdeas(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false

	if err != nil {
		b.logger.Warn().Err(err).Msg("Failed to fetch ideas")
		b.errMsg = "Failed to load ideas. Please try again."
		return
	}

	b.ideas = ideas
	b.errMsg = ""
}

// Submit posts the current draft. Validation mirrors the server's rules so
// obviously invalid drafts fail without a round trip. On success the draft is
// cleared and the list refreshed right away; on failure the draft is kept so
// nothing typed is lost.
func (b *Board) Submit(ctx context.Context) error {
	b.mu.Lock()
	draft := b.draft
	b.mu.Unlock()

	if strings.TrimSpace(draft) == "" {
		b.setError("Please enter an idea")
		return ideaboard.Validation("idea text is required")
	}
	if utf8.RuneCountInString(draft) > ideaboard.MaxIdeaTextLen {
		b.setError("Idea must be 280 characters or less")
		return ideaboard.Validation("idea must be 280 characters or less")
	}

	b.mu.Lock()
	b.submitting = true
	b.errMsg = ""
	b.mu.Unlock()

	_, err := b.api.CreateIdea(ctx, draft)

	b.mu.Lock()
	b.submitting = false
	if err != nil {
		b.errMsg = "Failed to submit idea. Please try again."
		b.mu.Unlock()
		b.logger.Warn().Err(err).Msg("Failed to submit idea")
		return err
	}
	b.draft = ""
	b.mu.Unlock()

	b.Refresh(ctx)
	return nil
}

// Upvote sends the upvote request, bumping the local counter before the
// response comes back. A failure only surfaces an error message, the counter
// is not rolled back; the next successful poll overwrites it anyway.
func (b *Board) Upvote(ctx context.Context, id int64) error {
	b.mu.Lock()
	for _, idea := range b.ideas {
		if idea.ID == id {
			idea.Upvotes++
			break
		}
	}
	b.mu.Unlock()

	if _, err := b.api.UpvoteIdea(ctx, id); err != nil {
		b.logger.Warn().Err(err).Int64("id", id).Msg("Failed to upvote")
		b.setError("Failed to upvote. Please try again.")
		return err
	}

	return nil
}

// Poll refreshes the board immediately, then on every tick until ctx is done.
// Polls never overlap, the loop is a single goroutine.
func (b *Board) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	b.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Refresh(ctx)
		}
	}
}

func (b *Board) setError(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errMsg = msg
}
