package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scholarport/internal/model"
	"scholarport/internal/repository"
)

// CitationService defines the use cases for citations.
type CitationService interface {
	// ListByArticle returns the citations of an article, newest first.
	ListByArticle(ctx context.Context, articleID string) ([]model.Citation, error)

	// Create adds a citation to an existing article.
	Create(ctx context.Context, in model.CitationInput) (*model.Citation, error)

	// Update merges u into the stored citation. The owning article never changes.
	Update(ctx context.Context, id string, u model.CitationUpdate) (*model.Citation, error)

	// Delete removes one citation or returns ErrCitationNotFound.
	Delete(ctx context.Context, id string) error

	// DeleteAllForArticle removes every citation of an article and returns the count.
	// An article without citations is not an error.
	DeleteAllForArticle(ctx context.Context, articleID string) (int64, error)
}

type citationService struct {
	articles  repository.ArticleRepository
	citations repository.CitationRepository
	now       func() time.Time
}

// NewCitationService constructs a new CitationService.
func NewCitationService(articles repository.ArticleRepository, citations repository.CitationRepository) CitationService {
	return &citationService{
		articles:  articles,
		citations: citations,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *citationService) ListByArticle(ctx context.Context, articleID string) ([]model.Citation, error) {
	if !validID(articleID) {
		return []model.Citation{}, nil
	}
	cs, err := s.citations.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list citations: %w", err)
	}
	return nonNil(cs), nil
}

func (s *citationService) Create(ctx context.Context, in model.CitationInput) (*model.Citation, error) {
	in.Normalize()
	if in.ArticleID == "" {
		return nil, newValidationError("articleId", "articleId is required")
	}
	if err := validateStruct(in.CitationDraft); err != nil {
		return nil, err
	}
	if !validID(in.ArticleID) {
		return nil, ErrArticleNotFound
	}
	if _, err := s.articles.FindByID(ctx, in.ArticleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}

	c := in.Citation(in.ArticleID)
	c.ID = uuid.New().String()
	c.CreatedAt = s.now()

	stored, err := s.citations.Create(ctx, &c)
	if err != nil {
		return nil, fmt.Errorf("create citation: %w", err)
	}
	return stored, nil
}

func (s *citationService) Update(ctx context.Context, id string, u model.CitationUpdate) (*model.Citation, error) {
	if !validID(id) {
		return nil, ErrCitationNotFound
	}
	c, err := s.citations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCitationNotFound
		}
		return nil, fmt.Errorf("find citation: %w", err)
	}
	u.Apply(c)

	stored, err := s.citations.Update(ctx, c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCitationNotFound
		}
		return nil, fmt.Errorf("update citation: %w", err)
	}
	return stored, nil
}

func (s *citationService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrCitationNotFound
	}
	n, err := s.citations.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete citation: %w", err)
	}
	if n == 0 {
		return ErrCitationNotFound
	}
	return nil
}

func (s *citationService) DeleteAllForArticle(ctx context.Context, articleID string) (int64, error) {
	if !validID(articleID) {
		return 0, nil
	}
	return deleteCitationsOf(ctx, s.citations, articleID)
}

// deleteCitationsOf is shared by DeleteAllForArticle and the article cascade.
func deleteCitationsOf(ctx context.Context, repo repository.CitationRepository, articleID string) (int64, error) {
	n, err := repo.DeleteByArticle(ctx, articleID)
	if err != nil {
		return 0, fmt.Errorf("delete citations: %w", err)
	}
	return n, nil
}
