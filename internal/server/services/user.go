// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login with session tokens, and the
// two-step password reset with emailed one-time codes.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/weynak/weynak/internal/common"
	"github.com/weynak/weynak/internal/logging"
	"github.com/weynak/weynak/internal/server/auth"
	"github.com/weynak/weynak/internal/server/mail"
	"github.com/weynak/weynak/internal/server/models"
	"github.com/weynak/weynak/internal/server/repositories/users"
	"github.com/weynak/weynak/internal/timex"
)

// Client-facing messages.
const (
	MsgFieldsRequired     = "All fields are required!"
	MsgEmailRequired      = "Email is required!"
	MsgEmailRegistered    = "Email already registered!"
	MsgRegistered         = "User registered successfully!"
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailNotFound      = "Email not found!"
	MsgSendFailed         = "Error sending email!"
	MsgOtpSent            = "OTP sent successfully!"
	MsgInvalidOtp         = "Invalid OTP!"
	MsgOtpExpired         = "OTP expired!"
	MsgPasswordReset      = "Password reset successfully!"
	MsgPasswordTooLong    = "Password must be at most 72 bytes!"
	MsgInternal           = "Internal server error"
)

const (
	ResetMailSubject = "Password Reset Code"
	resetMailBody    = "Your password reset code is: %s"
)

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, username string) (string, error)
}

// UserService provides the account flows:
// - Register: create users
// - Login: verify credentials and mint a session token
// - RequestReset: store a one-time code and mail it
// - ConfirmReset: swap the password using a valid code
//
// Every error it returns is a *common.AuthError.
type UserService struct {
	users  users.Repository
	hasher auth.PasswordHasher
	otps   auth.OtpGenerator
	tokens TokenIssuer
	mailer mail.Mailer
	now    timex.Clock
	log    logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(
	repo users.Repository,
	hasher auth.PasswordHasher,
	otps auth.OtpGenerator,
	tokens TokenIssuer,
	mailer mail.Mailer,
	now timex.Clock,
	log logging.Logger,
) *UserService {
	if now == nil {
		now = timex.SystemClock
	}
	return &UserService{
		users:  repo,
		hasher: hasher,
		otps:   otps,
		tokens: tokens,
		mailer: mailer,
		now:    now,
		log:    log.With("module", "users"),
	}
}

// Register creates an account. No token is issued; the caller logs in next.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, common.NewAuthError(common.KindInvalidInput, MsgFieldsRequired)
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.NewAuthError(common.KindDuplicateEmail, MsgEmailRegistered)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.internal(ctx, "lookup user", err)
	}

	hash, err := s.hash(ctx, password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewAuthError(common.KindDuplicateEmail, MsgEmailRegistered)
		}
		return nil, s.internal(ctx, "create user", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Login verifies the password and returns a signed session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", common.NewAuthError(common.KindInvalidInput, MsgFieldsRequired)
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Spend the same bcrypt time as a real check.
			_ = s.hasher.Verify(password, s.dummy())
			return "", common.NewAuthError(common.KindInvalidCredentials, MsgInvalidCredentials)
		}
		return "", s.internal(ctx, "lookup user", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		s.log.Info(ctx, "login rejected", "user_id", u.ID)
		return "", common.NewAuthError(common.KindInvalidCredentials, MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(u.ID, u.Name)
	if err != nil {
		return "", s.internal(ctx, "issue token", err)
	}

	s.log.Info(ctx, "user logged in", "user_id", u.ID)
	return token, nil
}

// RequestReset stores a fresh code for email, replacing any earlier one, and
// mails it. If delivery fails the stored code stays in place; the next
// request overwrites it.
func (s *UserService) RequestReset(ctx context.Context, email string) error {
	if email == "" {
		return common.NewAuthError(common.KindInvalidInput, MsgEmailRequired)
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewAuthError(common.KindNotFound, MsgEmailNotFound)
		}
		return s.internal(ctx, "lookup user", err)
	}

	otp, expiresAt, err := s.otps.Generate()
	if err != nil {
		return s.internal(ctx, "generate otp", err)
	}

	u, err := s.users.SetOtp(ctx, email, otp, expiresAt)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewAuthError(common.KindNotFound, MsgEmailNotFound)
		}
		return s.internal(ctx, "store otp", err)
	}

	if err := s.mailer.Send(ctx, email, ResetMailSubject, fmt.Sprintf(resetMailBody, otp)); err != nil {
		s.log.Error(ctx, "reset code delivery failed", "user_id", u.ID, "email", email, "error", err)
		return common.NewAuthError(common.KindDeliveryFailed, MsgSendFailed)
	}

	s.log.Info(ctx, "reset code sent", "user_id", u.ID, "email", email)
	return nil
}

// ConfirmReset replaces the password when email and otp match the stored
// pair and the code has not expired. An expired code is left stored.
func (s *UserService) ConfirmReset(ctx context.Context, email, otp, newPassword string) error {
	if email == "" || otp == "" || newPassword == "" {
		return common.NewAuthError(common.KindInvalidInput, MsgFieldsRequired)
	}

	u, err := s.users.FindByEmailAndOtp(ctx, email, otp)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewAuthError(common.KindInvalidOtp, MsgInvalidOtp)
		}
		return s.internal(ctx, "lookup otp", err)
	}

	if u.OtpExpired(s.now()) {
		s.log.Info(ctx, "expired reset code presented", "user_id", u.ID)
		return common.NewAuthError(common.KindOtpExpired, MsgOtpExpired)
	}

	hash, err := s.hash(ctx, newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordAndClearOtp(ctx, u.ID, otp, hash); err != nil {
		// Another confirmation or a newer reset request got there first.
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewAuthError(common.KindInvalidOtp, MsgInvalidOtp)
		}
		return s.internal(ctx, "update password", err)
	}

	s.log.Info(ctx, "password reset", "user_id", u.ID)
	return nil
}

// --- helpers below ---

func (s *UserService) hash(ctx context.Context, password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	switch {
	case err == nil:
		return hash, nil
	case errors.Is(err, auth.ErrPasswordTooLong):
		return "", common.NewAuthError(common.KindInvalidInput, MsgPasswordTooLong)
	case errors.Is(err, auth.ErrEmptyPassword):
		return "", common.NewAuthError(common.KindInvalidInput, MsgFieldsRequired)
	default:
		return "", s.internal(ctx, "hash password", err)
	}
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("weynak-dummy-password")
	})
	return s.dummyHash
}

func (s *UserService) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, op+" failed", "error", err)
	return common.NewAuthError(common.KindInternal, MsgInternal)
}
