package auth

import (
	"testing"
	"time"

	"deduction-reconciliation-backend/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", TTL: time.Hour}

	token, err := GenerateToken(cfg, "subject-123", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(cfg.Secret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.SubjectID != "subject-123" {
		t.Errorf("subject = %q", claims.SubjectID)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", TTL: time.Hour}

	token, err := GenerateToken(cfg, "subject-123", "staff")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestGenerateToken_DefaultLifetime(t *testing.T) {
	// A non-positive TTL falls back to the default lifetime instead of
	// minting an already-expired token.
	cfg := config.JWTConfig{Secret: "test-secret", TTL: -time.Minute}

	token, err := GenerateToken(cfg, "subject-123", "staff")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(cfg.Secret, token); err != nil {
		t.Fatalf("default-lifetime token should verify: %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
