package ideaboard

// Store is the persistence boundary. Implementations must make UpvoteIdea a
// single atomic update so that concurrent upvotes never lose an increment.
type Store interface {
	Connect() error
	ListIdeas() ([]*Idea, error)
	InsertIdea(idea *Idea) error
	UpvoteIdea(id int64) (*Idea, error)
}
