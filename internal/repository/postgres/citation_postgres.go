package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"scholarport/internal/model"
	"scholarport/internal/repository"
)

// CitationPostgres is a PostgreSQL implementation of repository.CitationRepository.
type CitationPostgres struct {
	db *sql.DB
}

// NewCitationPostgres creates a new CitationPostgres repository.
func NewCitationPostgres(db *sql.DB) *CitationPostgres {
	return &CitationPostgres{db: db}
}

var _ repository.CitationRepository = (*CitationPostgres)(nil)

const citationColumns = `id, article_id, authors, title, year, doi, notes, created_at`

func scanCitation(row rowScanner) (*model.Citation, error) {
	var (
		c     model.Citation
		year  sql.NullInt64
		doi   sql.NullString
		notes sql.NullString
	)
	if err := row.Scan(
		&c.ID,
		&c.ArticleID,
		&c.Authors,
		&c.Title,
		&year,
		&doi,
		&notes,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.Year = intPtr(year)
	c.DOI = doi.String
	c.Notes = notes.String
	return &c, nil
}

func collectCitations(rows *sql.Rows) ([]model.Citation, error) {
	defer rows.Close()

	items := make([]model.Citation, 0)
	for rows.Next() {
		c, err := scanCitation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts one citation row.
func (r *CitationPostgres) Create(ctx context.Context, c *model.Citation) (*model.Citation, error) {
	const q = `
		INSERT INTO citations (id, article_id, authors, title, year, doi, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + citationColumns
	row := conn(ctx, r.db).QueryRowContext(ctx, q,
		c.ID,
		c.ArticleID,
		c.Authors,
		c.Title,
		nullInt(c.Year),
		nullString(c.DOI),
		nullString(c.Notes),
		c.CreatedAt,
	)
	return scanCitation(row)
}

// CreateBatch inserts the citations one by one on the same connection, so a
// surrounding transaction covers the whole batch.
func (r *CitationPostgres) CreateBatch(ctx context.Context, cs []model.Citation) ([]model.Citation, error) {
	out := make([]model.Citation, 0, len(cs))
	for i := range cs {
		stored, err := r.Create(ctx, &cs[i])
		if err != nil {
			return nil, fmt.Errorf("citation %d: %w", i, err)
		}
		out = append(out, *stored)
	}
	return out, nil
}

// FindByID fetches a single citation by its ID.
func (r *CitationPostgres) FindByID(ctx context.Context, id string) (*model.Citation, error) {
	const q = `SELECT ` + citationColumns + ` FROM citations WHERE id = $1`
	return scanCitation(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// ListByArticle returns the citations of one article, newest first.
func (r *CitationPostgres) ListByArticle(ctx context.Context, articleID string) ([]model.Citation, error) {
	const q = `
		SELECT ` + citationColumns + `
		FROM citations
		WHERE article_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, articleID)
	if err != nil {
		return nil, err
	}
	return collectCitations(rows)
}

// ListByArticles loads the citations of several articles with one query.
func (r *CitationPostgres) ListByArticles(ctx context.Context, articleIDs []string) (map[string][]model.Citation, error) {
	grouped := make(map[string][]model.Citation, len(articleIDs))
	if len(articleIDs) == 0 {
		return grouped, nil
	}

	// A single array parameter, whatever the page size. Postgres caps a
	// statement at 65535 bind parameters.
	const q = `SELECT ` + citationColumns + `
		FROM citations
		WHERE article_id = ANY($1::uuid[])
		ORDER BY created_at DESC, id DESC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, uuidArray(articleIDs))
	if err != nil {
		return nil, err
	}
	items, err := collectCitations(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range items {
		grouped[c.ArticleID] = append(grouped[c.ArticleID], c)
	}
	return grouped, nil
}

// Update overwrites the mutable columns and returns the stored record.
func (r *CitationPostgres) Update(ctx context.Context, c *model.Citation) (*model.Citation, error) {
	const q = `
		UPDATE citations
		SET authors = $2, title = $3, year = $4, doi = $5, notes = $6
		WHERE id = $1
		RETURNING ` + citationColumns
	row := conn(ctx, r.db).QueryRowContext(ctx, q,
		c.ID,
		c.Authors,
		c.Title,
		nullInt(c.Year),
		nullString(c.DOI),
		nullString(c.Notes),
	)
	return scanCitation(row)
}

// Delete removes a citation by ID and returns the number of deleted rows.
func (r *CitationPostgres) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM citations WHERE id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByArticle removes all citations of an article. Zero matches is not an error.
func (r *CitationPostgres) DeleteByArticle(ctx context.Context, articleID string) (int64, error) {
	const q = `DELETE FROM citations WHERE article_id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, articleID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// uuidArray renders ids as a Postgres array literal. Callers pass canonical
// UUIDs only, so no element needs quoting.
func uuidArray(ids []string) string {
	return "{" + strings.Join(ids, ",") + "}"
}
