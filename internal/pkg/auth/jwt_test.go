package auth

import (
	"testing"
	"time"

	"github.com/your-org/church-inventory-backend/internal/config"
)

func testJWTConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Church Inventory Backend"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-that-is-long-enough-0123",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	token, err := manager.GenerateAccessToken(42, "staff@example.com", "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Email != "staff@example.com" {
		t.Errorf("expected email staff@example.com, got %q", claims.Email)
	}
	if claims.Role != "staff" {
		t.Errorf("expected role staff, got %q", claims.Role)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	token, err := manager.GenerateRefreshToken(42, "staff@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Error("refresh token must not validate as an access token")
	}

	claims, err := manager.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.Role != "" {
		t.Errorf("refresh token must not carry a role, got %q", claims.Role)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	token, _ := manager.GenerateAccessToken(1, "a@example.com", "admin")

	other := testJWTConfig()
	other.JWT.Secret = "a-completely-different-secret-4567890"
	if _, err := NewJWTManager(other).ValidateAccessToken(token); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}

	if _, err := manager.ValidateAccessToken(token + "x"); err == nil {
		t.Error("tampered token must be rejected")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	if got := ExtractTokenFromHeader("Bearer abc.def.ghi"); got != "abc.def.ghi" {
		t.Errorf("expected token, got %q", got)
	}
	if got := ExtractTokenFromHeader("abc.def.ghi"); got != "" {
		t.Errorf("expected empty string without Bearer prefix, got %q", got)
	}
	if got := ExtractTokenFromHeader(""); got != "" {
		t.Errorf("expected empty string for empty header, got %q", got)
	}
}
