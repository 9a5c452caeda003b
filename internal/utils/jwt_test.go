package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "a@x.io", "JAMMER", 15)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if at.Token == "" {
		t.Fatal("empty token")
	}
	if d := time.Until(at.Exp); d < 14*time.Minute || d > 16*time.Minute {
		t.Fatalf("expiry not ~15m out: %v", at.Exp)
	}

	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse failed: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["email"] != "a@x.io" {
		t.Fatalf("email claim: %v", claims["email"])
	}
	if claims["role"] != "JAMMER" {
		t.Fatalf("role claim: %v", claims["role"])
	}
	if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 42 {
		t.Fatalf("sub claim: %v", claims["sub"])
	}
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret", 1, "a@x.io", "", 15)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	}); err == nil {
		t.Fatal("token must not verify under a different secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Fatal("hash must be deterministic")
	}
	other, _ := NewRefreshToken(7)
	if rt.Raw == other.Raw {
		t.Fatal("two refresh tokens must differ")
	}
}
