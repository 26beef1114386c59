package service

import (
	"context"

	"quote_server/internal/models"
	"quote_server/internal/repository"
)

// Quotes exposes the read and write paths over stored quotes.
type Quotes interface {
	Lookup(ctx context.Context, id string) (models.TaggedQuote, error)
	MatchByTags(ctx context.Context, tags []string) (models.TaggedQuote, error)
	MatchIDByTags(ctx context.Context, tags []string) (string, error)
	PickRandom(ctx context.Context) (models.TaggedQuote, error)
	RandomID(ctx context.Context) (string, error)
	AddQuote(ctx context.Context, q models.TaggedQuote) error
	Count(ctx context.Context) (int, error)
}

// Authorization issues credentials at registration and verifies bearer tokens.
type Authorization interface {
	Issue(reg models.Registration) (string, error)
	Verify(accessToken string) (*Claims, error)
}

// Service aggregates the sub-services the HTTP layer depends on.
type Service struct {
	Quotes
	Authorization
}

// NewService wires the repository layer and the token authority into
// concrete services.
func NewService(repos *repository.Repository, authority *TokenAuthority) *Service {
	return &Service{
		Quotes:        NewQuoteService(repos.Quotes),
		Authorization: authority,
	}
}
