package admin

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gauravpatil09/rating-app/internal/audit"
	"github.com/gauravpatil09/rating-app/internal/models"
	"github.com/gauravpatil09/rating-app/internal/rating"
)

type StoreRow struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	OwnerID *uint   `json:"ownerId"`
	Rating  float64 `json:"rating"`
}

type CreateStoreRequest struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	OwnerID *uint   `json:"ownerId"`
}

// GET /api/admin/stores
func ListStoresHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stores []models.Store
		if err := db.Order("id ASC").Find(&stores).Error; err != nil {
			return err
		}

		out := make([]StoreRow, 0, len(stores))
		for _, s := range stores {
			avg, err := rating.AverageForStore(db, s.ID)
			if err != nil {
				return err
			}
			out = append(out, StoreRow{
				ID:      s.ID,
				Name:    s.Name,
				Email:   s.Email,
				Address: s.Address,
				OwnerID: s.OwnerID,
				Rating:  rating.Round2(avg),
			})
		}

		return c.JSON(out)
	}
}

// POST /api/admin/stores
func CreateStoreHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}

		// Weak owner reference still has to point at a live user at insert time.
		if body.OwnerID != nil {
			var count int64
			if err := db.Model(&models.User{}).Where("id = ?", *body.OwnerID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Owner not found")
			}
		}

		store := models.Store{
			Name:    body.Name,
			Email:   body.Email,
			Address: body.Address,
			OwnerID: body.OwnerID,
		}
		if err := db.Create(&store).Error; err != nil {
			return err
		}

		actorID, actorEmail := actor(c)
		if err := audit.WriteLog(db, audit.LogOptions{
			UserID:      actorID,
			UserEmail:   actorEmail,
			EntityType:  "store",
			EntityID:    store.ID,
			Action:      models.AuditActionCreate,
			Description: "admin created store " + store.Name,
			After:       StoreRow{ID: store.ID, Name: store.Name, Email: store.Email, Address: store.Address, OwnerID: store.OwnerID},
		}); err != nil {
			logrus.Warn(err)
		}

		return c.JSON(fiber.Map{
			"id":      store.ID,
			"name":    store.Name,
			"email":   store.Email,
			"address": store.Address,
			"ownerId": store.OwnerID,
		})
	}
}

// DELETE /api/admin/stores/:id
// Ratings for the store go with it, in one transaction.
func DeleteStoreHandler(db *gorm.DB, cache *rating.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id invalid")
		}

		var store models.Store
		if err := db.First(&store, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Store not found")
			}
			return err
		}

		actorID, actorEmail := actor(c)
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("store_id = ?", store.ID).Delete(&models.Rating{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&store).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      actorID,
				UserEmail:   actorEmail,
				EntityType:  "store",
				EntityID:    store.ID,
				Action:      models.AuditActionDelete,
				Description: "admin deleted store " + store.Name,
				Before:      StoreRow{ID: store.ID, Name: store.Name, Email: store.Email, Address: store.Address, OwnerID: store.OwnerID},
			})
		})
		if err != nil {
			return err
		}

		cache.Invalidate(c.UserContext(), store.ID)

		return c.JSON(fiber.Map{"message": "Store deleted"})
	}
}
