// Package common defines shared constants and errors used across the client
// and server layers of weynak. Callers should use errors.Is / errors.As to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// Kind classifies a failure returned by the account flows.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindDuplicateEmail
	KindNotFound
	KindInvalidCredentials
	KindInvalidOtp
	KindOtpExpired
	KindDeliveryFailed
	KindInvalidToken
)

var kindNames = map[Kind]string{
	KindInternal:           "Internal",
	KindInvalidInput:       "InvalidInput",
	KindDuplicateEmail:     "DuplicateEmail",
	KindNotFound:           "NotFound",
	KindInvalidCredentials: "InvalidCredentials",
	KindInvalidOtp:         "InvalidOtp",
	KindOtpExpired:         "OtpExpired",
	KindDeliveryFailed:     "DeliveryFailed",
	KindInvalidToken:       "InvalidToken",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// AuthError is the only error type that crosses the account service boundary.
// Message is safe to show to the caller; internal details are never put here.
type AuthError struct {
	Kind    Kind
	Message string
}

func (e *AuthError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Is reports whether target is an *AuthError of the same kind, so that
// errors.Is(err, common.NewAuthError(common.KindInvalidOtp, "")) works.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewAuthError builds an *AuthError.
func NewAuthError(kind Kind, message string) *AuthError {
	return &AuthError{Kind: kind, Message: message}
}

// KindOf extracts the Kind of err. Errors that are not *AuthError are KindInternal.
func KindOf(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
