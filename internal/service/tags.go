package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"quote_server/internal/repository"
)

// NormalizeTags trims and lower-cases every tag, drops the ones that end up
// empty and collapses duplicates. The result is sorted, so normalizing twice
// yields the same slice.
func NormalizeTags(raw []string) []string {
	if len(raw) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SplitTagList splits a comma separated tag list such as "alpha, Beta".
// Blank entries are kept for NormalizeTags to discard.
func SplitTagList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// MaxMatchTags bounds the distinct tags a single match request may carry.
// Each tag is one bound query parameter.
const MaxMatchTags = 64

// TagMatcher resolves a tag request to one quote id whose tag set is a
// superset of the request.
type TagMatcher struct {
	repo repository.QuoteRepo
	// intn returns a uniform value in [0, n).
	intn func(n int) int
}

func NewTagMatcher(repo repository.QuoteRepo) *TagMatcher {
	return &TagMatcher{repo: repo, intn: rand.Intn}
}

// Match returns ErrNoCriteria when nothing survives normalization,
// ErrValidation when more than MaxMatchTags remain, and ErrNoMatch when no
// stored quote carries every requested tag. Ties are
// broken uniformly at random over the matching quotes.
func (m *TagMatcher) Match(ctx context.Context, raw []string) (string, error) {
	tags := NormalizeTags(raw)
	if len(tags) == 0 {
		return "", ErrNoCriteria
	}
	if len(tags) > MaxMatchTags {
		return "", fmt.Errorf("%w: at most %d distinct tags per request, got %d", ErrValidation, MaxMatchTags, len(tags))
	}

	ids, err := m.repo.MatchingIDs(ctx, tags)
	if err != nil {
		return "", fmt.Errorf("%w: match tags %v: %w", ErrStoreUnavailable, tags, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: %v", ErrNoMatch, tags)
	}
	return ids[m.intn(len(ids))], nil
}
