package service

import (
	"context"

	"quote_server/internal/models"
)

// mockQuoteRepo is a lightweight in-test mock for repository.QuoteRepo.
type mockQuoteRepo struct {
	GetByIDFn     func(ctx context.Context, id string) (models.Quote, []string, error)
	RandomIDFn    func(ctx context.Context) (string, error)
	MatchingIDsFn func(ctx context.Context, tags []string) ([]string, error)
	InsertFn      func(ctx context.Context, q models.Quote, tags []string) error
	CountFn       func(ctx context.Context) (int, error)

	matchCalls  [][]string
	insertCalls []struct {
		quote models.Quote
		tags  []string
	}
}

func (m *mockQuoteRepo) GetByID(ctx context.Context, id string) (models.Quote, []string, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockQuoteRepo) RandomID(ctx context.Context) (string, error) {
	return m.RandomIDFn(ctx)
}

func (m *mockQuoteRepo) MatchingIDs(ctx context.Context, tags []string) ([]string, error) {
	m.matchCalls = append(m.matchCalls, tags)
	return m.MatchingIDsFn(ctx, tags)
}

func (m *mockQuoteRepo) Insert(ctx context.Context, q models.Quote, tags []string) error {
	m.insertCalls = append(m.insertCalls, struct {
		quote models.Quote
		tags  []string
	}{quote: q, tags: tags})
	return m.InsertFn(ctx, q, tags)
}

func (m *mockQuoteRepo) Count(ctx context.Context) (int, error) {
	return m.CountFn(ctx)
}
