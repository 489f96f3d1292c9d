package handler

import (
	"github.com/gofiber/fiber/v2"

	"scholarport/internal/model"
	"scholarport/internal/service"
)

type messageAck struct {
	Message string `json:"message"`
}

type deleteCitationsAck struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// ListCitations returns the citations of one article, newest first.
//
// @Summary List citations of an article
// @Tags citations
// @Produce json
// @Param articleId path string true "Article ID"
// @Success 200 {array} model.Citation
// @Failure 500 {object} errorPayload
// @Router /api/citations/article/{articleId} [get]
func ListCitations(svc service.CitationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cs, err := svc.ListByArticle(c.UserContext(), c.Params("articleId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cs)
	}
}

// CreateCitation adds a citation to an existing article.
//
// @Summary Create a citation
// @Tags citations
// @Accept json
// @Produce json
// @Param citation body model.CitationInput true "Citation"
// @Success 201 {object} model.Citation
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/citations [post]
func CreateCitation(svc service.CitationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.CitationInput
		if err := decodeJSON(c, &in); err != nil {
			return invalidBody(c)
		}
		cit, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cit)
	}
}

// UpdateCitation applies a partial update. An explicit null or "" clears year, doi and notes.
//
// @Summary Update a citation
// @Tags citations
// @Accept json
// @Produce json
// @Param id path string true "Citation ID"
// @Param citation body model.CitationUpdate true "Fields to change"
// @Success 200 {object} model.Citation
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/citations/{id} [put]
func UpdateCitation(svc service.CitationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u model.CitationUpdate
		if err := decodeJSON(c, &u); err != nil {
			return invalidBody(c)
		}
		cit, err := svc.Update(c.UserContext(), c.Params("id"), u)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cit)
	}
}

// DeleteCitation removes one citation.
//
// @Summary Delete a citation
// @Tags citations
// @Produce json
// @Param id path string true "Citation ID"
// @Success 200 {object} messageAck
// @Failure 404 {object} errorPayload
// @Router /api/citations/{id} [delete]
func DeleteCitation(svc service.CitationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageAck{Message: "citation deleted"})
	}
}

// DeleteArticleCitations removes every citation of an article.
//
// @Summary Delete all citations of an article
// @Tags citations
// @Produce json
// @Param articleId path string true "Article ID"
// @Success 200 {object} deleteCitationsAck
// @Failure 500 {object} errorPayload
// @Router /api/citations/article/{articleId} [delete]
func DeleteArticleCitations(svc service.CitationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.DeleteAllForArticle(c.UserContext(), c.Params("articleId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(deleteCitationsAck{Message: "citations deleted", DeletedCount: n})
	}
}
