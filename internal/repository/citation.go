package repository

import (
	"context"

	"scholarport/internal/model"
)

// CitationRepository persists citations keyed by their owning article.
type CitationRepository interface {
	// Create inserts one citation. The caller provides ID and CreatedAt.
	Create(ctx context.Context, c *model.Citation) (*model.Citation, error)

	// CreateBatch inserts the citations in order and returns them as stored.
	CreateBatch(ctx context.Context, cs []model.Citation) ([]model.Citation, error)

	// FindByID returns sql.ErrNoRows when the citation does not exist.
	FindByID(ctx context.Context, id string) (*model.Citation, error)

	// ListByArticle returns the citations of one article, newest first.
	ListByArticle(ctx context.Context, articleID string) ([]model.Citation, error)

	// ListByArticles groups the citations of several articles by article id,
	// each group newest first.
	ListByArticles(ctx context.Context, articleIDs []string) (map[string][]model.Citation, error)

	// Update overwrites authors, title, year, doi and notes.
	// It returns sql.ErrNoRows when the citation does not exist.
	Update(ctx context.Context, c *model.Citation) (*model.Citation, error)

	// Delete removes one citation and reports how many rows were removed.
	Delete(ctx context.Context, id string) (int64, error)

	// DeleteByArticle removes every citation of an article and reports the count.
	DeleteByArticle(ctx context.Context, articleID string) (int64, error)
}
