package utils

import (
	"testing"

	"github.com/meridianpetro/meridian-backend/internal/config"
	"github.com/meridianpetro/meridian-backend/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if len(hash) == 0 {
		t.Error("Hash should not be empty")
	}

	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}

	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestJWT(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "test-secret-key-12345",
	}

	admin := &models.AdminProfile{
		ID:    "uuid-1234",
		Email: "ops@meridianpetro.example",
		Role:  models.RoleAdmin,
	}

	accessToken, refreshToken, err := GenerateTokens(admin, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Error("Tokens should not be empty")
	}

	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims["id"] != admin.ID {
		t.Errorf("Expected admin ID %s, got %v", admin.ID, claims["id"])
	}
	if claims["email"] != admin.Email {
		t.Errorf("Expected email %s, got %v", admin.Email, claims["email"])
	}
	if claims["role"] != "admin" {
		t.Errorf("Expected role admin, got %v", claims["role"])
	}

	// Wrong key must fail
	if _, err := ValidateToken(accessToken, "wrong-key"); err == nil {
		t.Error("Validation should fail with wrong key")
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		remoteAddr, forwardedFor, realIP, want string
	}{
		{"203.0.113.7:51234", "", "", "203.0.113.7"},
		{"10.0.0.1:80", "198.51.100.4", "", "198.51.100.4"},
		{"10.0.0.1:80", "198.51.100.4, 10.0.0.2", "", "198.51.100.4"},
		{"10.0.0.1:80", "", "192.0.2.9", "192.0.2.9"},
	}
	for _, c := range cases {
		if got := ClientIP(c.remoteAddr, c.forwardedFor, c.realIP); got != c.want {
			t.Errorf("ClientIP(%q, %q, %q) = %q, want %q", c.remoteAddr, c.forwardedFor, c.realIP, got, c.want)
		}
	}
}

func TestRoleOrder(t *testing.T) {
	order := []models.Role{models.RoleViewer, models.RoleEditor, models.RoleAdmin, models.RoleSuperAdmin}
	for i, lower := range order {
		for j, higher := range order {
			got := higher.AtLeast(lower)
			want := j >= i
			if got != want {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", higher, lower, got, want)
			}
		}
	}
	if models.Role("owner").Valid() {
		t.Error("unknown role should not be valid")
	}
}
