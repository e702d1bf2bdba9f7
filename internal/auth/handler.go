package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gauravpatil09/rating-app/internal/config"
	"github.com/gauravpatil09/rating-app/internal/delivery"
	"github.com/gauravpatil09/rating-app/internal/models"
)

type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Address  *string `json:"address"`
	Password string  `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetRequestRequest struct {
	Email   string `json:"email"`
	StoreID uint   `json:"storeId"`
}

type ResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// POST /api/auth/register
// Self-service registration always creates a plain "user"; only admins can
// hand out other roles.
func RegisterHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(body.Email)

		if errs := ValidateRegistration(body.Name, body.Email, body.Address, body.Password); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  errs,
			})
		}

		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Email already in use")
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
			Role:         models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"message": "Registered",
			"user":    userResponse(&user),
		})
	}
}

// POST /api/auth/login
func LoginHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(body.Email)

		// Unknown email and wrong password produce the same response on
		// purpose: no account enumeration through login.
		var user models.User
		if err := db.Where("email = ?", body.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid credentials")
			}
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  userResponse(&user),
		})
	}
}

// POST /api/auth/reset-request
// Targets either a user by email or a store's current owner by storeId.
// The token goes to the delivery channel; echoing it in the response is a
// development convenience behind cfg.ResetTokenInResponse.
func ResetRequestHandler(db *gorm.DB, cfg *config.Config, sender delivery.Sender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ResetRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var user models.User
		switch {
		case body.Email != "":
			if err := db.Where("email = ?", body.Email).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "No user with that email")
				}
				return err
			}
		case body.StoreID != 0:
			var store models.Store
			if err := db.First(&store, body.StoreID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Store not found")
				}
				return err
			}
			if store.OwnerID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Store has no owner to reset password for")
			}
			if err := db.First(&user, *store.OwnerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Owner user not found")
				}
				return err
			}
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Provide email or storeId")
		}

		token, err := GenerateResetToken(cfg.JWTSecret, user.ID)
		if err != nil {
			return err
		}

		if err := sender.Send(user.Email, token); err != nil {
			return err
		}

		resp := fiber.Map{"message": "Reset token created (use it to call /auth/reset)"}
		if cfg.ResetTokenInResponse {
			resp["token"] = token
		}
		return c.JSON(resp)
	}
}

// POST /api/auth/reset
func ResetHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ResetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Token == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "token and password required")
		}

		claims, err := ParseResetToken(cfg.JWTSecret, body.Token)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired token")
		}

		if errs := ValidatePassword(body.Password); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  errs,
			})
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
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

		return c.JSON(fiber.Map{"message": "Password updated"})
	}
}
