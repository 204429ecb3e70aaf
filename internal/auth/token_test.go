package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("secret", 7*24*time.Hour)

	token, exp, err := tm.Generate("user-1", domain.RoleUser, "alice@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if until := time.Until(exp); until < 6*24*time.Hour || until > 8*24*time.Hour {
		t.Fatalf("expected roughly 7 day expiry, got %v", until)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != domain.RoleUser || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, _, err := tm.Generate("user-1", domain.RoleAdmin, "admin@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatalf("expected signature mismatch error")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token := signClaims(t, "secret", &Claims{
		UserID: "user-1",
		Role:   domain.RoleUser,
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	if _, err := tm.Parse(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestParseRejectsFutureIssuedAt(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token := signClaims(t, "secret", &Claims{
		UserID: "user-1",
		Role:   domain.RoleUser,
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
		},
	})

	if _, err := tm.Parse(token); err == nil {
		t.Fatalf("expected future-dated token to fail")
	}
}

func TestParseRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token := signClaims(t, "secret", &Claims{
		UserID: "user-1",
		Role:   domain.Role("superuser"),
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := tm.Parse(token); err == nil {
		t.Fatalf("expected unknown role to fail")
	}
}

func TestParseRejectsUnexpectedSigningMethod(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user-1",
		Role:   domain.RoleAdmin,
		Email:  "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := tm.Parse(token); err == nil {
		t.Fatalf("expected alg=none token to fail")
	}
}

func signClaims(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return token
}
