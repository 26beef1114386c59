package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quote_server/internal/models"

	"gopkg.in/yaml.v3"
)

// LoadReport summarizes a bulk load.
type LoadReport struct {
	Loaded  int
	Skipped []SkippedQuote
}

// SkippedQuote records a record the bulk load left out and why.
type SkippedQuote struct {
	ID     string
	Reason error
}

// ReadQuotesFile decodes a bulk-load file. Files ending in .yaml or .yml are
// read as a YAML sequence, anything else as a JSON array.
func ReadQuotesFile(path string) ([]models.TaggedQuote, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quote file %q: %w", path, err)
	}

	var quotes []models.TaggedQuote
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &quotes); err != nil {
			return nil, fmt.Errorf("parse yaml quote file %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &quotes); err != nil {
			return nil, fmt.Errorf("parse json quote file %q: %w", path, err)
		}
	}
	return quotes, nil
}

// Load inserts every quote in its own transaction. Quotes whose id already
// exists and quotes that fail validation are skipped, so loading the same
// file twice is harmless. A store failure stops the load.
func (s *QuoteService) Load(ctx context.Context, quotes []models.TaggedQuote) (LoadReport, error) {
	var report LoadReport
	for _, q := range quotes {
		err := s.AddQuote(ctx, q)
		switch {
		case err == nil:
			report.Loaded++
		case errors.Is(err, ErrConflict), errors.Is(err, ErrValidation):
			report.Skipped = append(report.Skipped, SkippedQuote{ID: q.ID, Reason: err})
		default:
			return report, fmt.Errorf("load quote %q: %w", q.ID, err)
		}
	}
	return report, nil
}
