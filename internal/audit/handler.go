package audit

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gauravpatil09/rating-app/internal/models"
)

const listLimit = 200

// GET /api/admin/audit-logs?entity_type=user&entity_id=3&user_id=1
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.Model(&models.AuditLog{})

		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if s := c.Query("entity_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id invalid")
			}
			q = q.Where("entity_id = ?", id)
		}
		if s := c.Query("user_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "user_id invalid")
			}
			q = q.Where("user_id = ?", id)
		}

		var logs []models.AuditLog
		if err := q.Order("created_at DESC, id DESC").Limit(listLimit).Find(&logs).Error; err != nil {
			return err
		}

		return c.JSON(logs)
	}
}
