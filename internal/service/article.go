package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"scholarport/internal/model"
	"scholarport/internal/repository"
	"scholarport/internal/search"
)

// ArticleService defines the use cases for articles. Every returned article
// carries its current citations.
type ArticleService interface {
	// List returns the articles matching term, newest publication first.
	List(ctx context.Context, term string) ([]model.Article, error)

	// Get returns one article or ErrArticleNotFound.
	Get(ctx context.Context, id string) (*model.Article, error)

	// Create stores the article and its optional citations in one transaction.
	Create(ctx context.Context, in model.ArticleInput) (*model.Article, error)

	// Update applies the non-blank fields of u. Citations are left untouched.
	Update(ctx context.Context, id string, u model.ArticleUpdate) (*model.Article, error)

	// Delete removes the article together with its citations and returns
	// the number of citations removed.
	Delete(ctx context.Context, id string) (int64, error)
}

type articleService struct {
	tx        repository.Transactor
	articles  repository.ArticleRepository
	citations repository.CitationRepository
	now       func() time.Time
}

// NewArticleService constructs a new ArticleService.
func NewArticleService(tx repository.Transactor, articles repository.ArticleRepository, citations repository.CitationRepository) ArticleService {
	return &articleService{
		tx:        tx,
		articles:  articles,
		citations: citations,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *articleService) List(ctx context.Context, term string) ([]model.Article, error) {
	items, err := s.articles.List(ctx, search.Parse(term))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	grouped, err := s.citations.ListByArticles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list citations: %w", err)
	}
	for i := range items {
		items[i].Citations = nonNil(grouped[items[i].ID])
	}
	return items, nil
}

func (s *articleService) Get(ctx context.Context, id string) (*model.Article, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCitations(ctx, a)
}

func (s *articleService) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	in.Normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.PublicationDate.IsZero() {
		return nil, newValidationError("publicationDate", "publicationDate is required")
	}

	now := s.now()
	a := &model.Article{
		ID:              uuid.New().String(),
		Title:           in.Title,
		Authors:         in.Authors,
		Abstract:        in.Abstract,
		FullText:        in.FullText,
		PublicationDate: *in.PublicationDate,
		DOI:             in.DOI,
		CreatedAt:       now,
	}

	drafts := make([]model.Citation, len(in.Citations))
	for i, d := range in.Citations {
		c := d.Citation(a.ID)
		c.ID = uuid.New().String()
		// Later drafts are newer so they list first.
		c.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		drafts[i] = c
	}

	var created *model.Article
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stored, err := s.articles.Create(ctx, a)
		if err != nil {
			return fmt.Errorf("create article: %w", err)
		}
		cs := []model.Citation{}
		if len(drafts) > 0 {
			if cs, err = s.citations.CreateBatch(ctx, drafts); err != nil {
				return fmt.Errorf("create citations: %w", err)
			}
		}
		stored.Citations = newestFirst(cs)
		created = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *articleService) Update(ctx context.Context, id string, u model.ArticleUpdate) (*model.Article, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Apply(a)

	stored, err := s.articles.Update(ctx, a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return s.withCitations(ctx, stored)
}

func (s *articleService) Delete(ctx context.Context, id string) (int64, error) {
	if !validID(id) {
		return 0, ErrArticleNotFound
	}

	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, id); err != nil {
			return err
		}
		n, err := deleteCitationsOf(ctx, s.citations, id)
		if err != nil {
			return err
		}
		deleted, err := s.articles.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("delete article: %w", err)
		}
		if deleted == 0 {
			return ErrArticleNotFound
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *articleService) find(ctx context.Context, id string) (*model.Article, error) {
	if !validID(id) {
		return nil, ErrArticleNotFound
	}
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return a, nil
}

func (s *articleService) withCitations(ctx context.Context, a *model.Article) (*model.Article, error) {
	cs, err := s.citations.ListByArticle(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list citations: %w", err)
	}
	a.Citations = nonNil(cs)
	return a, nil
}

func nonNil(cs []model.Citation) []model.Citation {
	if cs == nil {
		return []model.Citation{}
	}
	return cs
}

func newestFirst(cs []model.Citation) []model.Citation {
	out := append([]model.Citation{}, cs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
