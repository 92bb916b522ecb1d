package user

import (
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/your-org/church-inventory-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Church Inventory Backend"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-that-is-long-enough-0123",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:           "New.Member@Example.com",
		Password:        "Sanctuary1",
		ConfirmPassword: "Sanctuary1",
		FirstName:       "New",
		LastName:        "Member",
	}
}

func TestRegisterAlwaysStartsAsVolunteer(t *testing.T) {
	svc := NewService(newTestDB(t), newTestConfig())

	resp, err := svc.Register(registerRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Role != RoleVolunteer {
		t.Errorf("expected role volunteer, got %q", resp.User.Role)
	}
	if resp.User.Email != "new.member@example.com" {
		t.Errorf("expected lowercased email, got %q", resp.User.Email)
	}
	if resp.User.Password != "" {
		t.Error("password must not appear in the response")
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	svc := NewService(newTestDB(t), newTestConfig())

	if _, err := svc.Register(registerRequest()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(registerRequest()); err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestRegisterPasswordMismatchRejected(t *testing.T) {
	svc := NewService(newTestDB(t), newTestConfig())

	req := registerRequest()
	req.ConfirmPassword = "Different1"
	if _, err := svc.Register(req); err == nil {
		t.Error("expected password mismatch to be rejected")
	}
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	svc.Register(registerRequest())

	resp, err := svc.Login(&LoginRequest{Email: "new.member@example.com", Password: "Sanctuary1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.LastLoginAt == nil {
		t.Error("expected last login timestamp to be set")
	}

	if _, err := svc.Login(&LoginRequest{Email: "new.member@example.com", Password: "WrongPass1"}); err == nil {
		t.Error("expected wrong password to be rejected")
	}
	if _, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "Sanctuary1"}); err == nil {
		t.Error("expected unknown email to be rejected")
	}
}

func TestLoginDeactivatedAccountRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	resp, _ := svc.Register(registerRequest())

	db.Model(&User{}).Where("id = ?", resp.User.ID).Update("is_active", false)

	_, err := svc.Login(&LoginRequest{Email: "new.member@example.com", Password: "Sanctuary1"})
	if err == nil || !strings.Contains(err.Error(), "deactivated") {
		t.Fatalf("expected deactivated account error, got %v", err)
	}
}

func TestRefreshTokenPicksUpRoleChanges(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	resp, _ := svc.Register(registerRequest())

	// Promote the user after the refresh token was issued.
	db.Model(&User{}).Where("id = ?", resp.User.ID).Update("role", RoleStaff)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.User.Role != RoleStaff {
		t.Errorf("expected refreshed session to carry role staff, got %q", refreshed.User.Role)
	}

	// An access token must not work as a refresh token.
	if _, err := svc.RefreshToken(resp.AccessToken); err == nil {
		t.Error("access token must not be accepted for refresh")
	}
}
