package ideaboard

import (
	"strings"
	"time"
	"unicode/utf8"
)

// NowFunc returns the current time. Tests swap it out to control timestamps.
var NowFunc func() time.Time = time.Now

// MaxIdeaTextLen is the upper bound on the raw, untrimmed submission text.
const MaxIdeaTextLen = 280

// An Idea is a short anonymous submission with an upvote counter. Ideas are
// never edited nor deleted; the only mutation is the upvote increment.
type Idea struct {
	ID        int64     `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	Upvotes   int       `db:"upvotes" json:"upvotes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewIdea returns an Idea ready to be inserted. The text is expected to be
// validated and trimmed already, see ValidateIdeaText.
func NewIdea(text string) *Idea {
	return &Idea{
		Text:      text,
		Upvotes:   0,
		CreatedAt: NowFunc(),
	}
}

// ValidateIdeaText checks a submission and returns its trimmed form. The
// length limit applies to the text as submitted, not to the trimmed result.
func ValidateIdeaText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", Validation("idea text is required")
	}

	if utf8.RuneCountInString(text) > MaxIdeaTextLen {
		return "", Validation("idea must be 280 characters or less")
	}

	return trimmed, nil
}
