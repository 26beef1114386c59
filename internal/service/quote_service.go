package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quote_server/internal/models"
	"quote_server/internal/repository"
)

// QuoteService implements lookup, random pick, tag matching and insert on
// top of a QuoteRepo. It keeps no quote data in memory.
type QuoteService struct {
	repo    repository.QuoteRepo
	matcher *TagMatcher
}

func NewQuoteService(repo repository.QuoteRepo) *QuoteService {
	return &QuoteService{repo: repo, matcher: NewTagMatcher(repo)}
}

// Lookup returns the quote with its tags, or ErrNotFound.
func (s *QuoteService) Lookup(ctx context.Context, id string) (models.TaggedQuote, error) {
	q, tags, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.TaggedQuote{}, storeError(err, "lookup quote %q", id)
	}
	return models.NewTaggedQuote(q, tags), nil
}

// MatchIDByTags resolves a tag request to a quote id. See TagMatcher.Match.
func (s *QuoteService) MatchIDByTags(ctx context.Context, tags []string) (string, error) {
	return s.matcher.Match(ctx, tags)
}

// MatchByTags resolves a tag request to a full quote. ErrNoCriteria and
// ErrNoMatch are distinct so callers can pick their own fallback.
func (s *QuoteService) MatchByTags(ctx context.Context, tags []string) (models.TaggedQuote, error) {
	id, err := s.matcher.Match(ctx, tags)
	if err != nil {
		return models.TaggedQuote{}, err
	}
	return s.Lookup(ctx, id)
}

// RandomID picks a quote id uniformly over the whole store.
func (s *QuoteService) RandomID(ctx context.Context) (string, error) {
	id, err := s.repo.RandomID(ctx)
	if err != nil {
		return "", storeError(err, "pick random quote")
	}
	return id, nil
}

// PickRandom returns a uniformly chosen quote, or ErrNotFound on an empty store.
func (s *QuoteService) PickRandom(ctx context.Context) (models.TaggedQuote, error) {
	id, err := s.RandomID(ctx)
	if err != nil {
		return models.TaggedQuote{}, err
	}
	return s.Lookup(ctx, id)
}

// AddQuote validates and stores a quote with its normalized tags atomically.
func (s *QuoteService) AddQuote(ctx context.Context, tq models.TaggedQuote) error {
	if err := validateQuote(tq); err != nil {
		return err
	}
	if err := s.repo.Insert(ctx, tq.Quote(), NormalizeTags(tq.Tags)); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return fmt.Errorf("%w: %q", ErrConflict, tq.ID)
		}
		return fmt.Errorf("%w: add quote %q: %w", ErrStoreUnavailable, tq.ID, err)
	}
	return nil
}

// Count reports how many quotes are stored.
func (s *QuoteService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return n, nil
}

func validateQuote(tq models.TaggedQuote) error {
	var missing []string
	if strings.TrimSpace(tq.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(tq.WhosThere) == "" {
		missing = append(missing, "whos_there")
	}
	if strings.TrimSpace(tq.AnswerWho) == "" {
		missing = append(missing, "answer_who")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// storeError maps repository errors onto the domain taxonomy.
func storeError(err error, format string, args ...any) error {
	op := fmt.Sprintf(format, args...)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
