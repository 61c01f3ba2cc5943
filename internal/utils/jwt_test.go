package utils

import (
	"testing"
	"time"
)

func init() {
	SetJWTSecret("test-secret-key-for-testing")
}

func TestGenerateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken(1, "alice@example.com", "Alice Smith", 24)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateToken() returned empty token")
	}

	if len(token) < 50 {
		t.Errorf("token seems too short: %d chars", len(token))
	}

	if expiresAt.Before(time.Now()) {
		t.Error("expiry should be in the future")
	}
}

func TestGenerateToken_DifferentTokens(t *testing.T) {
	token1, _, _ := GenerateToken(1, "a@example.com", "A", 24)
	token2, _, _ := GenerateToken(2, "b@example.com", "B", 24)

	if token1 == token2 {
		t.Error("different users should produce different tokens")
	}
}

func TestParseToken(t *testing.T) {
	userID := uint(42)
	email := "bob@example.com"
	fullName := "Bob Jones"

	token, _, _ := GenerateToken(userID, email, fullName, 24)

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("UserID = %d, expected %d", claims.UserID, userID)
	}
	if claims.Email != email {
		t.Errorf("Email = %q, expected %q", claims.Email, email)
	}
	if claims.FullName != fullName {
		t.Errorf("FullName = %q, expected %q", claims.FullName, fullName)
	}
	if claims.ID == "" {
		t.Error("token should carry a unique jti")
	}
}

func TestParseToken_UniqueJTI(t *testing.T) {
	token1, _, _ := GenerateToken(1, "a@example.com", "A", 24)
	token2, _, _ := GenerateToken(1, "a@example.com", "A", 24)

	claims1, _ := ParseToken(token1)
	claims2, _ := ParseToken(token2)

	if claims1.ID == claims2.ID {
		t.Error("each token should have a distinct jti")
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	invalidTokens := []string{
		"",
		"invalid",
		"not.a.token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	}

	for _, token := range invalidTokens {
		_, err := ParseToken(token)
		if err == nil {
			t.Errorf("ParseToken(%q) should return error", token)
		}
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	SetJWTSecret("original-secret")
	token, _, _ := GenerateToken(1, "a@example.com", "A", 24)

	SetJWTSecret("different-secret")
	_, err := ParseToken(token)

	SetJWTSecret("test-secret-key-for-testing")

	if err == nil {
		t.Error("ParseToken should fail with wrong secret")
	}
}

func TestGenerateToken_Expiration(t *testing.T) {
	token, _, _ := GenerateToken(1, "a@example.com", "A", 1)
	claims, _ := ParseToken(token)

	expiresAt := claims.ExpiresAt.Time
	now := time.Now()

	if expiresAt.Before(now) {
		t.Error("token should not be expired immediately")
	}

	expectedExpiry := now.Add(1 * time.Hour)
	diff := expiresAt.Sub(expectedExpiry)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiration time is off by more than 1 minute: %v", diff)
	}
}
