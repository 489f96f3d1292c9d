package postgres

import (
	"context"
	"database/sql"
	"strings"

	"scholarport/internal/model"
	"scholarport/internal/repository"
	"scholarport/internal/search"
)

// ArticlePostgres is a PostgreSQL implementation of repository.ArticleRepository.
type ArticlePostgres struct {
	db *sql.DB
}

// NewArticlePostgres creates a new ArticlePostgres repository.
func NewArticlePostgres(db *sql.DB) *ArticlePostgres {
	return &ArticlePostgres{db: db}
}

var _ repository.ArticleRepository = (*ArticlePostgres)(nil)

const articleColumns = `id, title, authors, abstract, full_text, publication_date, doi, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*model.Article, error) {
	var (
		a        model.Article
		abstract sql.NullString
		doi      sql.NullString
	)
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Authors,
		&abstract,
		&a.FullText,
		&a.PublicationDate,
		&doi,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Abstract = abstract.String
	a.DOI = doi.String
	return &a, nil
}

// Create inserts a new article row and returns the stored record.
func (r *ArticlePostgres) Create(ctx context.Context, a *model.Article) (*model.Article, error) {
	const q = `
		INSERT INTO articles (id, title, authors, abstract, full_text, publication_date, doi, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + articleColumns
	row := conn(ctx, r.db).QueryRowContext(ctx, q,
		a.ID,
		a.Title,
		a.Authors,
		nullString(a.Abstract),
		a.FullText,
		a.PublicationDate,
		nullString(a.DOI),
		a.CreatedAt,
	)
	return scanArticle(row)
}

// FindByID fetches a single article by its ID.
func (r *ArticlePostgres) FindByID(ctx context.Context, id string) (*model.Article, error) {
	const q = `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	return scanArticle(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// buildListQuery turns search criteria into a filtered, ordered SELECT.
// Title and authors are matched with ILIKE; a year candidate adds a
// half-open publication date range. All conditions are OR-ed.
func buildListQuery(c search.Criteria) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT ` + articleColumns + ` FROM articles`)

	if !c.IsEmpty() {
		args = append(args, c.LikePattern())
		conds := []string{
			`title ILIKE $1 ESCAPE '\'`,
			`authors ILIKE $1 ESCAPE '\'`,
		}
		if c.HasYear() {
			from, to := c.YearRange()
			args = append(args, from, to)
			conds = append(conds, `(publication_date >= $2 AND publication_date < $3)`)
		}
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(conds, ` OR `))
	}

	b.WriteString(` ORDER BY publication_date DESC, created_at DESC`)
	return b.String(), args
}

// List returns the articles matching the criteria.
func (r *ArticlePostgres) List(ctx context.Context, c search.Criteria) ([]model.Article, error) {
	q, args := buildListQuery(c)
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update overwrites the mutable columns and returns the stored record.
func (r *ArticlePostgres) Update(ctx context.Context, a *model.Article) (*model.Article, error) {
	const q = `
		UPDATE articles
		SET title = $2, authors = $3, abstract = $4, full_text = $5, publication_date = $6, doi = $7
		WHERE id = $1
		RETURNING ` + articleColumns
	row := conn(ctx, r.db).QueryRowContext(ctx, q,
		a.ID,
		a.Title,
		a.Authors,
		nullString(a.Abstract),
		a.FullText,
		a.PublicationDate,
		nullString(a.DOI),
	)
	return scanArticle(row)
}

// Delete removes an article by ID and returns the number of deleted rows.
func (r *ArticlePostgres) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM articles WHERE id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
