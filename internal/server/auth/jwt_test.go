package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/weynak/weynak/internal/common"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func clockAt(ts time.Time) func() time.Time { return func() time.Time { return ts } }

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("super-secret"), time.Hour, clockAt(t0))

	tok, err := issuer.Issue("user-123", "alice")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-123" || claims.Username != "alice" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if !claims.ExpiresAt.Time.Equal(t0.Add(time.Hour)) {
		t.Fatalf("expiry mismatch: %v", claims.ExpiresAt.Time)
	}
}

func TestVerify_WithinAndAfterValidity(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer([]byte("k"), time.Hour, clockAt(t0)).Issue("u1", "alice")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokenIssuer([]byte("k"), time.Hour, clockAt(t0.Add(59*time.Minute))).Verify(tok); err != nil {
		t.Fatalf("expected valid token at T+59m, got %v", err)
	}

	_, err = NewTokenIssuer([]byte("k"), time.Hour, clockAt(t0.Add(61*time.Minute))).Verify(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer([]byte("right-secret"), time.Hour, nil).Issue("u2", "bob")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenIssuer([]byte("wrong-secret"), time.Hour, nil).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer([]byte("k"), time.Hour, nil).Verify("not.a.jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u3",
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = NewTokenIssuer(secret, time.Hour, nil).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u4"}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = NewTokenIssuer(secret, time.Hour, nil).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
