package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"scholarport/internal/service"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB        *sql.DB
	Articles  service.ArticleService
	Citations service.CitationService
	Backups   service.BackupService
}

// RegisterRoutes attaches the HTTP routes to app. Handlers hold no business logic.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Welcome())
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	articles := api.Group("/articles")
	articles.Get("/", ListArticles(d.Articles))
	articles.Post("/", CreateArticle(d.Articles))
	articles.Get("/:id", GetArticle(d.Articles))
	articles.Put("/:id", UpdateArticle(d.Articles))
	articles.Delete("/:id", DeleteArticle(d.Articles))

	citations := api.Group("/citations")
	citations.Post("/", CreateCitation(d.Citations))
	citations.Get("/article/:articleId", ListCitations(d.Citations))
	citations.Delete("/article/:articleId", DeleteArticleCitations(d.Citations))
	citations.Put("/:id", UpdateCitation(d.Citations))
	citations.Delete("/:id", DeleteCitation(d.Citations))

	api.Get("/export", ExportPortfolio(d.Backups))
	api.Post("/backups", CreateBackup(d.Backups))
}
