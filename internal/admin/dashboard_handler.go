package admin

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gauravpatil09/rating-app/internal/models"
)

// GET /api/admin/dashboard
func DashboardHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users, stores, ratings int64
		if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Store{}).Count(&stores).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Rating{}).Count(&ratings).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"users":   users,
			"stores":  stores,
			"ratings": ratings,
		})
	}
}
