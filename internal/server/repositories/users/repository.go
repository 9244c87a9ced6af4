// Package users implements the credential store: durable user records with
// their password hash and pending reset code.
package users

import (
	"context"
	"time"

	"github.com/weynak/weynak/internal/server/models"
)

// Repository is the persistence contract the account flows depend on.
// Every mutation is atomic on a single record.
//
// Lookups return common.ErrorNotFound when nothing matches. Create returns
// common.ErrorAlreadyExists when the email is taken.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailAndOtp(ctx context.Context, email, otp string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// SetOtp stores the reset code and its expiry together, overwriting any
	// previous pair, and returns the updated record.
	SetOtp(ctx context.Context, email, otp string, expiresAt time.Time) (*models.User, error)

	// UpdatePasswordAndClearOtp replaces the password hash and clears both
	// otp fields, but only while the stored otp still equals otp. Otherwise
	// it returns common.ErrorNotFound and changes nothing.
	UpdatePasswordAndClearOtp(ctx context.Context, userID, otp, passwordHash string) error
}
