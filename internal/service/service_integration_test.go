package service

import (
	"context"
	"path/filepath"
	"testing"

	"quote_server/internal/models"
	"quote_server/internal/repository"
	"quote_server/internal/repository/db"

	"github.com/stretchr/testify/require"
)

func newSQLiteQuoteService(t *testing.T) *QuoteService {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "quotes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewQuoteService(repository.NewRepository(conn).Quotes)
}

func TestQuoteService_Integration_TagScenario(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteQuoteService(t)

	require.NoError(t, svc.AddQuote(ctx, models.TaggedQuote{ID: "A", WhosThere: "A", AnswerWho: "A who?", Tags: []string{"Alpha", "beta "}}))
	require.NoError(t, svc.AddQuote(ctx, models.TaggedQuote{ID: "B", WhosThere: "B", AnswerWho: "B who?", Tags: []string{"alpha"}}))

	got, err := svc.MatchByTags(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Equal(t, "A", got.ID)
	require.Equal(t, []string{"alpha", "beta"}, got.Tags)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got, err := svc.MatchByTags(ctx, []string{"ALPHA"})
		require.NoError(t, err)
		require.Contains(t, []string{"A", "B"}, got.ID)
		seen[got.ID] = true
	}
	require.Len(t, seen, 2, "both superset matches should eventually be returned")

	_, err = svc.MatchByTags(ctx, []string{"gamma"})
	require.ErrorIs(t, err, ErrNoMatch)

	_, err = svc.MatchByTags(ctx, []string{"", "  "})
	require.ErrorIs(t, err, ErrNoCriteria)
}

func TestQuoteService_Integration_ConflictKeepsOriginalTags(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteQuoteService(t)

	require.NoError(t, svc.AddQuote(ctx, models.TaggedQuote{ID: "A", WhosThere: "A", AnswerWho: "A who?", Tags: []string{"alpha"}}))
	err := svc.AddQuote(ctx, models.TaggedQuote{ID: "A", WhosThere: "A2", AnswerWho: "A2 who?", Tags: []string{"delta"}})
	require.ErrorIs(t, err, ErrConflict)

	got, err := svc.Lookup(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, "A", got.WhosThere)
	require.Equal(t, []string{"alpha"}, got.Tags)

	_, err = svc.MatchByTags(ctx, []string{"delta"})
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestQuoteService_Integration_EmptyStore(t *testing.T) {
	svc := newSQLiteQuoteService(t)

	_, err := svc.PickRandom(context.Background())
	require.ErrorIs(t, err, ErrNotFound)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}
