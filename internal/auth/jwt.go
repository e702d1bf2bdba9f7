package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gauravpatil09/rating-app/internal/models"
)

const (
	sessionTokenTTL = 7 * 24 * time.Hour
	resetTokenTTL   = time.Hour

	tokenTypeReset = "reset"
)

type SessionClaims struct {
	UserID uint            `json:"id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type ResetClaims struct {
	UserID uint   `json:"id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// GenerateToken signs a 7-day session token carrying id, email and role.
func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateResetToken signs a 1-hour token usable only for a password reset.
func GenerateResetToken(secret string, userID uint) (string, error) {
	claims := &ResetClaims{
		UserID: userID,
		Type:   tokenTypeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken verifies signature and expiry into the given claims struct.
// Every failure mode (forged, malformed, expired) comes back as one error;
// callers must not tell them apart in responses.
func parseToken(secret, tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

func ParseSessionToken(secret, tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parseToken(secret, tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseResetToken additionally rejects tokens whose embedded type is not
// "reset", so a session token can never be replayed into a password reset.
func ParseResetToken(secret, tokenStr string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := parseToken(secret, tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Type != tokenTypeReset || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token payload")
	}
	return claims, nil
}
