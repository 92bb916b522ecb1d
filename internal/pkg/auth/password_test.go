package auth

import (
	"testing"

	"github.com/your-org/church-inventory-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testPasswordConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	manager := NewPasswordManager(testPasswordConfig())

	hash, err := manager.HashPassword("Sanctuary1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Sanctuary1" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if err := manager.VerifyPassword("Sanctuary1", hash); err != nil {
		t.Errorf("correct password must verify: %v", err)
	}
	if err := manager.VerifyPassword("WrongPass1", hash); err == nil {
		t.Error("wrong password must not verify")
	}
}

func TestValidatePassword(t *testing.T) {
	manager := NewPasswordManager(testPasswordConfig())

	cases := []struct {
		password string
		ok       bool
	}{
		{"Sanctuary1", true},
		{"short1A", false},       // too short
		{"nouppercase1", false},  // missing uppercase
		{"NOLOWERCASE1", false},  // missing lowercase
		{"NoNumbersHere", false}, // missing number
	}

	for _, tc := range cases {
		err := manager.ValidatePassword(tc.password)
		if tc.ok && err != nil {
			t.Errorf("expected %q to be accepted: %v", tc.password, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("expected %q to be rejected", tc.password)
		}
	}
}
