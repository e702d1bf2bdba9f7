package admin

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gauravpatil09/rating-app/internal/audit"
	"github.com/gauravpatil09/rating-app/internal/auth"
	"github.com/gauravpatil09/rating-app/internal/models"
	"github.com/gauravpatil09/rating-app/internal/rating"
)

type UserRow struct {
	ID      uint            `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Address *string         `json:"address"`
	Role    models.UserRole `json:"role"`
	// Rating is the unrounded aggregate across the user's stores; always 0
	// for non-owners.
	Rating float64 `json:"rating"`
}

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Address  *string         `json:"address"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type ForceResetRequest struct {
	Password string `json:"password"`
}

func actor(c *fiber.Ctx) (uint, string) {
	id, _ := auth.CallerID(c)
	email, _ := c.Locals(auth.CtxUserEmailKey).(string)
	return id, email
}

// GET /api/admin/users?q=
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := db.Model(&models.User{})
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			pattern := "%" + strings.ToLower(q) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}

		var users []models.User
		if err := query.Order("id ASC").Find(&users).Error; err != nil {
			return err
		}

		out := make([]UserRow, 0, len(users))
		for _, u := range users {
			row := UserRow{
				ID:      u.ID,
				Name:    u.Name,
				Email:   u.Email,
				Address: u.Address,
				Role:    u.Role,
			}
			if u.Role == models.RoleOwner {
				avg, err := rating.AverageForOwner(db, u.ID)
				if err != nil {
					return err
				}
				row.Rating = avg
			}
			out = append(out, row)
		}

		return c.JSON(out)
	}
}

// POST /api/admin/users
// Unlike self-service registration, an admin may assign any role.
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(body.Email)
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name, email and password required")
		}

		if body.Role == "" {
			body.Role = models.RoleUser
		}
		if !models.ValidRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown role")
		}

		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Email already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			Address:      body.Address,
			PasswordHash: string(hash),
			Role:         body.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}

		actorID, actorEmail := actor(c)
		if err := audit.WriteLog(db, audit.LogOptions{
			UserID:      actorID,
			UserEmail:   actorEmail,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionCreate,
			Description: "admin created user " + user.Email,
			After:       UserRow{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		}); err != nil {
			logrus.Warn(err)
		}

		return c.JSON(fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// DELETE /api/admin/users/:id
// Explicit cascade in one transaction: the user's ratings go, stores they
// owned become unowned, then the user row goes.
func DeleteUserHandler(db *gorm.DB, cache *rating.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id invalid")
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return err
		}

		// Stores whose cached average changes once this user's ratings are gone.
		var ratedStoreIDs []uint
		if err := db.Model(&models.Rating{}).
			Where("user_id = ?", user.ID).
			Distinct().
			Pluck("store_id", &ratedStoreIDs).Error; err != nil {
			return err
		}

		actorID, actorEmail := actor(c)
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Rating{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Store{}).
				Where("owner_id = ?", user.ID).
				Update("owner_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&user).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      actorID,
				UserEmail:   actorEmail,
				EntityType:  "user",
				EntityID:    user.ID,
				Action:      models.AuditActionDelete,
				Description: "admin deleted user " + user.Email,
				Before:      UserRow{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
			})
		})
		if err != nil {
			return err
		}

		cache.Invalidate(c.UserContext(), ratedStoreIDs...)

		return c.JSON(fiber.Map{"message": "User deleted"})
	}
}

// POST /api/admin/users/:id/reset-by-admin
// Direct password overwrite, no token flow.
func ForceResetHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id invalid")
		}

		var body ForceResetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "password required")
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			return err
		}

		actorID, actorEmail := actor(c)
		if err := audit.WriteLog(db, audit.LogOptions{
			UserID:      actorID,
			UserEmail:   actorEmail,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: "admin reset password for " + user.Email,
		}); err != nil {
			logrus.Warn(err)
		}

		return c.JSON(fiber.Map{"message": "Password updated by admin"})
	}
}
