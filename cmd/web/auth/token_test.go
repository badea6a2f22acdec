package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("collaborator-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tokenString
}

func TestInspectReadsSubjectAndExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)
	tokenString := signTestToken(t, jwt.MapClaims{"sub": "user-001", "exp": exp.Unix()})

	info, err := Inspect(tokenString, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.UserID != "user-001" {
		t.Fatalf("expected user-001, got %q", info.UserID)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Fatalf("expected exp %s, got %s", exp, info.ExpiresAt)
	}
}

func TestInspectReadsNestedUserID(t *testing.T) {
	tokenString := signTestToken(t, jwt.MapClaims{"user": map[string]any{"id": "64f0c1"}})

	info, err := Inspect(tokenString, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.UserID != "64f0c1" {
		t.Fatalf("expected nested user id, got %q", info.UserID)
	}
	if !info.ExpiresAt.IsZero() {
		t.Fatalf("expected zero expiry without exp claim, got %s", info.ExpiresAt)
	}
}

func TestInspectRejectsExpiredToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenString := signTestToken(t, jwt.MapClaims{"sub": "user-001", "exp": now.Add(-time.Minute).Unix()})

	_, err := Inspect(tokenString, now)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestInspectRejectsOpaqueToken(t *testing.T) {
	if _, err := Inspect("not-a-jwt", time.Now()); err == nil {
		t.Fatalf("expected error for non-JWT token")
	}
}
