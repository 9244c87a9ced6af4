// Package auth holds the credential primitives: session tokens, password
// hashing and reset codes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/weynak/weynak/internal/common"
	"github.com/weynak/weynak/internal/timex"
)

// Claims carries the user identity inside a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
}

// TokenIssuer signs and verifies HS256 session tokens with a single secret.
type TokenIssuer struct {
	secretKey []byte
	validity  time.Duration
	now       timex.Clock
}

func NewTokenIssuer(secretKey []byte, validity time.Duration, now timex.Clock) *TokenIssuer {
	if now == nil {
		now = timex.SystemClock
	}
	return &TokenIssuer{secretKey: secretKey, validity: validity, now: now}
}

// Issue returns a signed token for the user, valid for the issuer's validity window.
func (i *TokenIssuer) Issue(userID, username string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserID:   userID,
		Username: username,
	})

	return token.SignedString(i.secretKey)
}

// Verify checks the signature, algorithm and expiry of tokenString.
// It returns common.ErrTokenExpired for an expired token and
// common.ErrInvalidToken for anything else that fails.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
