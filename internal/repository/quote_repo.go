package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"quote_server/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type QuoteSQLite struct {
	db *sql.DB
}

func NewQuoteSQLite(db *sql.DB) *QuoteSQLite {
	return &QuoteSQLite{db: db}
}

// Ensure implementation of QuoteRepo interface at compile time.
var _ QuoteRepo = (*QuoteSQLite)(nil)

const (
	selectQuoteByIDSQL = `SELECT id, whos_there, answer_who, source FROM quotes WHERE id = ?`
	selectQuoteTagsSQL = `SELECT tag FROM quote_tags WHERE quote_id = ? ORDER BY tag`
	selectRandomIDSQL  = `SELECT id FROM quotes ORDER BY RANDOM() LIMIT 1`
	countQuotesSQL     = `SELECT COUNT(*) FROM quotes`
	insertQuoteSQL     = `INSERT INTO quotes (id, whos_there, answer_who, source) VALUES (?, ?, ?, ?)`
	insertQuoteTagSQL  = `INSERT INTO quote_tags (quote_id, tag) VALUES (?, ?)`

	// %s is replaced by one placeholder per requested tag.
	selectMatchingIDsSQL = `
		SELECT quote_id
		FROM quote_tags
		WHERE tag IN (%s)
		GROUP BY quote_id
		HAVING COUNT(DISTINCT tag) = ?
		ORDER BY quote_id
	`
)

// matchingIDsQuery builds the superset query for n requested tags.
func matchingIDsQuery(n int) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return fmt.Sprintf(selectMatchingIDsSQL, placeholders)
}

// GetByID fetches a quote and its tags. Returns ErrNotFound if the id is unknown.
func (r *QuoteSQLite) GetByID(ctx context.Context, id string) (models.Quote, []string, error) {
	var q models.Quote
	err := r.db.QueryRowContext(ctx, selectQuoteByIDSQL, id).Scan(&q.ID, &q.WhosThere, &q.AnswerWho, &q.Source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Quote{}, nil, fmt.Errorf("quote %q: %w", id, ErrNotFound)
		}
		return models.Quote{}, nil, fmt.Errorf("select quote %q: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, selectQuoteTagsSQL, id)
	if err != nil {
		return models.Quote{}, nil, fmt.Errorf("select tags for quote %q: %w", id, err)
	}
	defer rows.Close()

	tags := make([]string, 0, 8)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return models.Quote{}, nil, fmt.Errorf("scan tag for quote %q: %w", id, err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return models.Quote{}, nil, fmt.Errorf("iterate tags for quote %q: %w", id, err)
	}
	return q, tags, nil
}

// RandomID returns the id of a uniformly chosen quote.
func (r *QuoteSQLite) RandomID(ctx context.Context) (string, error) {
	var id string
	if err := r.db.QueryRowContext(ctx, selectRandomIDSQL).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("random quote: %w", ErrNotFound)
		}
		return "", fmt.Errorf("select random quote: %w", err)
	}
	return id, nil
}

// MatchingIDs runs the superset query inside one transaction so the whole
// resolution sees a single snapshot. The requested tags travel as query
// parameters; nothing is staged in shared tables.
func (r *QuoteSQLite) MatchingIDs(ctx context.Context, tags []string) (ids []string, err error) {
	if len(tags) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tag match transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	args := make([]any, 0, len(tags)+1)
	for _, t := range tags {
		args = append(args, t)
	}
	args = append(args, len(tags))

	rows, err := tx.QueryContext(ctx, matchingIDsQuery(len(tags)), args...)
	if err != nil {
		return nil, fmt.Errorf("select quotes tagged %v: %w", tags, err)
	}
	ids = make([]string, 0, 16)
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan tagged quote id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate tagged quote ids: %w", err)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("close tagged quote rows: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tag match transaction: %w", err)
	}
	return ids, nil
}

// Insert adds the quote row and one row per tag. Any failure rolls back the
// whole operation, including the quote row.
func (r *QuoteSQLite) Insert(ctx context.Context, q models.Quote, tags []string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert transaction for quote %q: %w", q.ID, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertQuoteSQL, q.ID, q.WhosThere, q.AnswerWho, q.Source); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert quote %q: %w", q.ID, ErrDuplicateID)
		}
		return fmt.Errorf("insert quote %q: %w", q.ID, err)
	}

	for _, tag := range tags {
		if _, err = tx.ExecContext(ctx, insertQuoteTagSQL, q.ID, tag); err != nil {
			return fmt.Errorf("insert tag %q for quote %q: %w", tag, q.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit quote %q: %w", q.ID, err)
	}
	return nil
}

// Count returns the number of stored quotes.
func (r *QuoteSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countQuotesSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count quotes: %w", err)
	}
	return n, nil
}

// isUniqueViolation reports whether err is a primary key / unique constraint
// failure reported by the sqlite driver.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
