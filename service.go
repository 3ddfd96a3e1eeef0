package ideaboard

// Service carries the board operations on top of a Store. It owns validation
// and the error taxonomy; the HTTP layer only maps its results.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListIdeas returns every idea, newest first.
func (s *Service) ListIdeas() ([]*Idea, error) {
	return s.store.ListIdeas()
}

// CreateIdea validates the submission, persists it with the trimmed text and
// returns the stored record with its assigned id and timestamp. Validation
// runs before any store call, an invalid submission never reaches it.
func (s *Service) CreateIdea(text string) (*Idea, error) {
	trimmed, err := ValidateIdeaText(text)
	if err != nil {
		return nil, err
	}

	idea := NewIdea(trimmed)
	if err := s.store.InsertIdea(idea); err != nil {
		return nil, err
	}

	return idea, nil
}

// UpvoteIdea increments the upvote counter of the matching idea by one and
// returns the updated record. The increment happens in a single atomic store
// operation, never as a read followed by a write.
func (s *Service) UpvoteIdea(id int64) (*Idea, error) {
	idea, err := s.store.UpvoteIdea(id)
	if err != nil {
		if IsNotFound(err) {
			return nil, NotFound(id)
		}
		return nil, err
	}

	return idea, nil
}
