package handler

import (
	"github.com/gofiber/fiber/v2"

	"scholarport/internal/model"
	"scholarport/internal/service"
)

// deleteArticleAck is returned after an article and its citations are removed.
type deleteArticleAck struct {
	Message          string `json:"message"`
	DeletedCitations int64  `json:"deletedCitations"`
}

// ListArticles returns the articles matching the optional search term.
//
// @Summary List articles
// @Tags articles
// @Produce json
// @Param search query string false "Substring of title or authors, or a publication year"
// @Success 200 {array} model.Article
// @Failure 500 {object} errorPayload
// @Router /api/articles [get]
func ListArticles(svc service.ArticleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), c.Query("search"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// GetArticle returns one article with its citations.
//
// @Summary Get an article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} model.Article
// @Failure 404 {object} errorPayload
// @Router /api/articles/{id} [get]
func GetArticle(svc service.ArticleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	}
}

// CreateArticle stores a new article with optional citations.
//
// @Summary Create an article
// @Tags articles
// @Accept json
// @Produce json
// @Param article body model.ArticleInput true "Article"
// @Success 201 {object} model.Article
// @Failure 400 {object} errorPayload
// @Router /api/articles [post]
func CreateArticle(svc service.ArticleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.ArticleInput
		if err := decodeJSON(c, &in); err != nil {
			return invalidBody(c)
		}
		a, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// UpdateArticle applies a partial update. Blank fields keep their stored value.
//
// @Summary Update an article
// @Tags articles
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param article body model.ArticleUpdate true "Fields to change"
// @Success 200 {object} model.Article
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/articles/{id} [put]
func UpdateArticle(svc service.ArticleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u model.ArticleUpdate
		if err := decodeJSON(c, &u); err != nil {
			return invalidBody(c)
		}
		a, err := svc.Update(c.UserContext(), c.Params("id"), u)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	}
}

// DeleteArticle removes an article and all of its citations.
//
// @Summary Delete an article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} deleteArticleAck
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/articles/{id} [delete]
func DeleteArticle(svc service.ArticleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(deleteArticleAck{Message: "article deleted", DeletedCitations: n})
	}
}
