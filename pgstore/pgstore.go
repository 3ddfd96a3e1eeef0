package pgstore

import (
	"github.com/jhchabran/ideaboard"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const createIdeasTable = `
CREATE TABLE IF NOT EXISTS ideas (
	id SERIAL PRIMARY KEY,
	text VARCHAR(280) NOT NULL,
	upvotes INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// A PGStore is responsible of interacting with the storage layer using a Postgresql database.
type PGStore struct {
	dbString string
	db       *sqlx.DB
}

// New returns a PGStore configured for a given address string, using the "user=postgres dbname=ideaboard ..." format.
func New(addr string) *PGStore {
	return &PGStore{
		dbString: addr,
	}
}

// Connect establishes a connection with the database using the address given
// at initialization, then ensures the schema exists.
func (s *PGStore) Connect() error {
	db, err := sqlx.Connect("postgres", s.dbString)
	if err != nil {
		return err
	}

	s.db = db

	return s.EnsureSchema()
}

// EnsureSchema creates the ideas table if it does not exist yet. Safe to run
// on every startup.
func (s *PGStore) EnsureSchema() error {
	_, err := s.db.Exec(createIdeasTable)
	return err
}

// DB returns the existing connection, making it suitable to perform requests not already supported by
// the store interface. If called while not connected, it will return nil.
func (s *PGStore) DB() *sqlx.DB {
	return s.db
}

// ListIdeas returns every idea, newest first.
func (s *PGStore) ListIdeas() ([]*ideaboard.Idea, error) {
	ideas := []*ideaboard.Idea{}
	err := s.db.Select(&ideas, "SELECT * FROM ideas ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	return ideas, nil
}

// InsertIdea persists the idea and refreshes it with the row as stored,
// including the assigned id.
func (s *PGStore) InsertIdea(idea *ideaboard.Idea) error {
	return s.db.Get(idea, "INSERT INTO ideas (text, upvotes, created_at) VALUES ($1, $2, $3) RETURNING *",
		idea.Text, idea.Upvotes, idea.CreatedAt,
	)
}

// UpvoteIdea bumps the counter of the matching idea in a single atomic update
// and returns the updated row. sql.ErrNoRows is returned when there is no
// such idea.
func (s *PGStore) UpvoteIdea(id int64) (*ideaboard.Idea, error) {
	idea := ideaboard.Idea{}
	err := s.db.Get(&idea, "UPDATE ideas SET upvotes = upvotes + 1 WHERE id = $1 RETURNING *", id)
	if err != nil {
		return nil, err
	}

	return &idea, nil
}
