package handler

import (
	"github.com/gofiber/fiber/v2"

	"scholarport/internal/service"
)

// ExportPortfolio downloads every article with its citations as one JSON document.
//
// @Summary Export the portfolio
// @Tags backups
// @Produce json
// @Success 200 {object} model.Snapshot
// @Failure 500 {object} errorPayload
// @Router /api/export [get]
func ExportPortfolio(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := svc.Snapshot(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment("scholarport-" + snap.GeneratedAt.Format("20060102T150405Z") + ".json")
		return c.JSON(snap)
	}
}

// CreateBackup uploads a compressed snapshot to object storage.
//
// @Summary Back up the portfolio
// @Tags backups
// @Produce json
// @Success 201 {object} model.BackupResult
// @Failure 500 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/backups [post]
func CreateBackup(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Backup(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
