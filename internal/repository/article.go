package repository

import (
	"context"

	"scholarport/internal/model"
	"scholarport/internal/search"
)

// ArticleRepository persists articles. Returned articles never carry citations;
// populating them is the caller's concern.
type ArticleRepository interface {
	// Create inserts a new article. The caller provides ID and CreatedAt.
	Create(ctx context.Context, a *model.Article) (*model.Article, error)

	// FindByID returns sql.ErrNoRows when the article does not exist.
	FindByID(ctx context.Context, id string) (*model.Article, error)

	// List returns the articles matching c ordered by publication date, newest first.
	List(ctx context.Context, c search.Criteria) ([]model.Article, error)

	// Update overwrites the mutable fields of an existing article.
	// It returns sql.ErrNoRows when the article does not exist.
	Update(ctx context.Context, a *model.Article) (*model.Article, error)

	// Delete removes an article and reports how many rows were removed.
	Delete(ctx context.Context, id string) (int64, error)
}
