package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gauravpatil09/rating-app/internal/models"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

func TestSessionTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 7, Email: "someone@example.com", Role: models.RoleOwner}

	token, err := GenerateToken(testSecret, user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseSessionToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "someone@example.com" || claims.Role != models.RoleOwner {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTamperedSignatureRejected(t *testing.T) {
	token, err := GenerateToken(testSecret, &models.User{ID: 1, Email: "a@b.co", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := ParseSessionToken(testSecret, tampered); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken(testSecret, &models.User{ID: 1, Email: "a@b.co", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseSessionToken("another-secret-that-is-also-long-enough", token); err == nil {
		t.Error("token verified under the wrong secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	claims := &SessionClaims{
		UserID: 1,
		Email:  "a@b.co",
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseSessionToken(testSecret, token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetToken(testSecret, 42)
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}

	claims, err := ParseResetToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseResetToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
}

func TestSessionTokenNotUsableForReset(t *testing.T) {
	token, err := GenerateToken(testSecret, &models.User{ID: 5, Email: "a@b.co", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseResetToken(testSecret, token); err == nil {
		t.Error("session token accepted as reset token")
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := ParseSessionToken(testSecret, tok); err == nil {
			t.Errorf("malformed token %q accepted", tok)
		}
	}
}
