package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"quote_server/internal/models"
	"quote_server/internal/repository"
)

const jsonQuotes = `[
  {"id": "boo", "whos_there": "Boo", "answer_who": "Don't cry!", "tags": ["kids", "Classic"], "source": "playground"},
  {"id": "lettuce", "whos_there": "Lettuce", "answer_who": "Lettuce in!", "tags": [], "source": "unknown"}
]`

const yamlQuotes = `
- id: boo
  whos_there: Boo
  answer_who: Don't cry!
  tags: [kids, Classic]
  source: playground
- id: lettuce
  whos_there: Lettuce
  answer_who: Lettuce in!
  source: unknown
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestReadQuotesFile(t *testing.T) {
	for _, tc := range []struct {
		name, file, content string
	}{
		{"json", "quotes.json", jsonQuotes},
		{"yaml", "quotes.yaml", yamlQuotes},
		{"yml", "quotes.yml", yamlQuotes},
	} {
		t.Run(tc.name, func(t *testing.T) {
			quotes, err := ReadQuotesFile(writeFile(t, tc.file, tc.content))
			if err != nil {
				t.Fatalf("ReadQuotesFile: %v", err)
			}
			if len(quotes) != 2 {
				t.Fatalf("got %d quotes, want 2", len(quotes))
			}
			if quotes[0].ID != "boo" || quotes[0].AnswerWho != "Don't cry!" || len(quotes[0].Tags) != 2 {
				t.Fatalf("unexpected first quote: %+v", quotes[0])
			}
			if quotes[1].Source != "unknown" {
				t.Fatalf("unexpected second quote: %+v", quotes[1])
			}
		})
	}
}

func TestReadQuotesFile_Errors(t *testing.T) {
	if _, err := ReadQuotesFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := ReadQuotesFile(writeFile(t, "bad.json", `{"id": 1}`)); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}

func TestQuoteService_Load(t *testing.T) {
	repo := &mockQuoteRepo{
		InsertFn: func(ctx context.Context, q models.Quote, tags []string) error {
			if q.ID == "dup" {
				return fmt.Errorf("insert quote: %w", repository.ErrDuplicateID)
			}
			return nil
		},
	}
	report, err := NewQuoteService(repo).Load(context.Background(), []models.TaggedQuote{
		{ID: "boo", WhosThere: "Boo", AnswerWho: "Don't cry!"},
		{ID: "dup", WhosThere: "Dup", AnswerWho: "Dup who?"},
		{ID: "blank"},
		{ID: "lettuce", WhosThere: "Lettuce", AnswerWho: "Lettuce in!"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if report.Loaded != 2 {
		t.Fatalf("loaded %d, want 2", report.Loaded)
	}
	if len(report.Skipped) != 2 || report.Skipped[0].ID != "dup" || report.Skipped[1].ID != "blank" {
		t.Fatalf("unexpected skipped: %+v", report.Skipped)
	}
	if !errors.Is(report.Skipped[0].Reason, ErrConflict) || !errors.Is(report.Skipped[1].Reason, ErrValidation) {
		t.Fatalf("unexpected skip reasons: %+v", report.Skipped)
	}
}

func TestQuoteService_Load_StopsOnStoreFailure(t *testing.T) {
	repo := &mockQuoteRepo{
		InsertFn: func(ctx context.Context, q models.Quote, tags []string) error {
			return errors.New("disk full")
		},
	}
	report, err := NewQuoteService(repo).Load(context.Background(), []models.TaggedQuote{
		{ID: "a", WhosThere: "A", AnswerWho: "A who?"},
		{ID: "b", WhosThere: "B", AnswerWho: "B who?"},
	})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if report.Loaded != 0 || len(repo.insertCalls) != 1 {
		t.Fatalf("load should stop at the first store failure: %+v, calls=%d", report, len(repo.insertCalls))
	}
}
