package handlers

import (
	"context"
	"net/http"

	"quote_server/internal/logger"
	"quote_server/internal/models"
	"quote_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	issueToken string
	issueErr   error
	claims     *service.Claims
	verifyErr  error

	lastIssue       models.Registration
	lastVerifyToken string
	verifyCalls     int
}

func (m *mockAuth) Issue(reg models.Registration) (string, error) {
	m.lastIssue = reg
	return m.issueToken, m.issueErr
}

func (m *mockAuth) Verify(token string) (*service.Claims, error) {
	m.verifyCalls++
	m.lastVerifyToken = token
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	if m.claims == nil {
		return &service.Claims{}, nil
	}
	return m.claims, nil
}

type mockQuotes struct {
	byID      map[string]models.TaggedQuote
	matchID   string
	matchErr  error
	randomID  string
	randomErr error
	lookupErr error
	addErr    error
	countErr  error

	lastMatchTags []string
	added         []models.TaggedQuote
}

func (m *mockQuotes) Lookup(ctx context.Context, id string) (models.TaggedQuote, error) {
	if m.lookupErr != nil {
		return models.TaggedQuote{}, m.lookupErr
	}
	q, ok := m.byID[id]
	if !ok {
		return models.TaggedQuote{}, service.ErrNotFound
	}
	return q, nil
}

func (m *mockQuotes) MatchIDByTags(ctx context.Context, tags []string) (string, error) {
	m.lastMatchTags = tags
	if len(service.NormalizeTags(tags)) == 0 {
		return "", service.ErrNoCriteria
	}
	return m.matchID, m.matchErr
}

func (m *mockQuotes) MatchByTags(ctx context.Context, tags []string) (models.TaggedQuote, error) {
	id, err := m.MatchIDByTags(ctx, tags)
	if err != nil {
		return models.TaggedQuote{}, err
	}
	return m.Lookup(ctx, id)
}

func (m *mockQuotes) RandomID(ctx context.Context) (string, error) {
	return m.randomID, m.randomErr
}

func (m *mockQuotes) PickRandom(ctx context.Context) (models.TaggedQuote, error) {
	id, err := m.RandomID(ctx)
	if err != nil {
		return models.TaggedQuote{}, err
	}
	return m.Lookup(ctx, id)
}

func (m *mockQuotes) AddQuote(ctx context.Context, q models.TaggedQuote) error {
	m.added = append(m.added, q)
	return m.addErr
}

func (m *mockQuotes) Count(ctx context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.byID) + len(m.added), nil
}

// ---- Shared Test Helpers ----

var (
	quoteA = models.TaggedQuote{ID: "A", WhosThere: "Alpha", AnswerWho: "Alpha who?", Tags: []string{"alpha", "beta"}, Source: "test"}
	quoteB = models.TaggedQuote{ID: "B", WhosThere: "Bravo", AnswerWho: "Bravo who?", Tags: []string{"alpha"}, Source: "test"}
)

func newMockQuotes() *mockQuotes {
	return &mockQuotes{byID: map[string]models.TaggedQuote{"A": quoteA, "B": quoteB}}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, logger.Nop())
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
