package repository

import (
	"context"
	"database/sql"
	"errors"

	"quote_server/internal/models"
)

// Store-level sentinel errors. Callers translate them into domain errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate quote id")
)

// QuoteRepo persists quotes and their tag associations.
type QuoteRepo interface {
	// GetByID returns the quote and its tags sorted ascending.
	GetByID(ctx context.Context, id string) (models.Quote, []string, error)
	// RandomID picks one stored quote id uniformly; ErrNotFound on an empty store.
	RandomID(ctx context.Context) (string, error)
	// MatchingIDs lists ids whose tag set contains every tag in tags.
	// tags must already be normalized and deduplicated.
	MatchingIDs(ctx context.Context, tags []string) ([]string, error)
	// Insert stores the quote and all its tags in a single transaction.
	Insert(ctx context.Context, q models.Quote, tags []string) error
	// Count returns the number of stored quotes.
	Count(ctx context.Context) (int, error)
}

type Repository struct {
	Quotes QuoteRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Quotes: NewQuoteSQLite(db),
	}
}
