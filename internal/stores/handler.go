package stores

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gauravpatil09/rating-app/internal/auth"
	"github.com/gauravpatil09/rating-app/internal/models"
	"github.com/gauravpatil09/rating-app/internal/rating"
)

type StoreItem struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	OwnerID *uint   `json:"ownerId"`
	Average float64 `json:"average"`
	// MyRating is null until the caller has rated the store; 0 is not a
	// valid rating and never appears here.
	MyRating *int `json:"myRating"`
}

type RatingEntry struct {
	ID      uint       `json:"id"`
	UserID  uint       `json:"userId"`
	StoreID uint       `json:"storeId"`
	Rating  int        `json:"rating"`
	User    *RatedUser `json:"user"`
}

type RatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateStoreRequest struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type RateRequest struct {
	Rating int `json:"rating"`
}

// Sort keys are whitelisted; the query value never reaches the ORDER BY
// clause directly.
var sortColumns = map[string]string{
	"name":       "name",
	"address":    "address",
	"id":         "id",
	"created_at": "created_at",
}

// GET /api/stores?name=&address=&sortBy=name&order=ASC
func ListStoresHandler(db *gorm.DB, cache *rating.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, ok := auth.CallerID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		query := db.Model(&models.Store{})
		if name := strings.TrimSpace(c.Query("name")); name != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
		}
		if address := strings.TrimSpace(c.Query("address")); address != "" {
			query = query.Where("LOWER(address) LIKE ?", "%"+strings.ToLower(address)+"%")
		}

		column, ok := sortColumns[c.Query("sortBy", "name")]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "sortBy invalid")
		}
		order := strings.ToUpper(c.Query("order", "ASC"))
		if order != "ASC" && order != "DESC" {
			return fiber.NewError(fiber.StatusBadRequest, "order must be ASC or DESC")
		}

		var stores []models.Store
		if err := query.Order(column + " " + order).Find(&stores).Error; err != nil {
			return err
		}

		out := make([]StoreItem, 0, len(stores))
		for _, s := range stores {
			avg, err := cache.AverageForStore(c.UserContext(), db, s.ID)
			if err != nil {
				return err
			}
			my, err := rating.ByUserForStore(db, s.ID, callerID)
			if err != nil {
				return err
			}
			out = append(out, StoreItem{
				ID:       s.ID,
				Name:     s.Name,
				Email:    s.Email,
				Address:  s.Address,
				OwnerID:  s.OwnerID,
				Average:  rating.Round2(avg),
				MyRating: my,
			})
		}

		return c.JSON(out)
	}
}

// GET /api/stores/:id
func GetStoreHandler(db *gorm.DB, cache *rating.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, ok := auth.CallerID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

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

		var ratings []models.Rating
		if err := db.Preload("User").Where("store_id = ?", store.ID).Find(&ratings).Error; err != nil {
			return err
		}

		entries := make([]RatingEntry, 0, len(ratings))
		for _, r := range ratings {
			entry := RatingEntry{ID: r.ID, UserID: r.UserID, StoreID: r.StoreID, Rating: r.Rating}
			if r.User != nil {
				entry.User = &RatedUser{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email}
			}
			entries = append(entries, entry)
		}

		avg, err := cache.AverageForStore(c.UserContext(), db, store.ID)
		if err != nil {
			return err
		}
		my, err := rating.ByUserForStore(db, store.ID, callerID)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"store": fiber.Map{
				"id":      store.ID,
				"name":    store.Name,
				"email":   store.Email,
				"address": store.Address,
				"ownerId": store.OwnerID,
			},
			"average":  rating.Round2(avg),
			"ratings":  entries,
			"myRating": my,
		})
	}
}

// POST /api/stores
// Owners and admins become the owner of stores they create; a plain user's
// store starts unowned.
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

		var ownerID *uint
		if role, ok := auth.CallerRole(c); ok && (role == models.RoleOwner || role == models.RoleAdmin) {
			if id, ok := auth.CallerID(c); ok {
				ownerID = &id
			}
		}

		store := models.Store{
			Name:    body.Name,
			Email:   body.Email,
			Address: body.Address,
			OwnerID: ownerID,
		}
		if err := db.Create(&store).Error; err != nil {
			return err
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

// POST /api/stores/:id/rate
func RateStoreHandler(db *gorm.DB, cache *rating.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, ok := auth.CallerID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id invalid")
		}

		var body RateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		created, err := rating.Submit(db, uint(id), callerID, body.Rating)
		switch {
		case errors.Is(err, rating.ErrOutOfRange):
			return fiber.NewError(fiber.StatusBadRequest, "Rating must be 1-5")
		case errors.Is(err, rating.ErrStoreNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Store not found")
		case err != nil:
			return err
		}

		cache.Invalidate(c.UserContext(), uint(id))

		if created {
			return c.JSON(fiber.Map{"message": "Rating created"})
		}
		return c.JSON(fiber.Map{"message": "Rating updated"})
	}
}
